// Command ouifetch downloads the IEEE registry CSV exports into a directory,
// typically the embedded data directory before a rebuild.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lcalzada-xor/macoui/internal/adapters/compiler"
)

const ieeeBaseURL = "https://standards-oui.ieee.org"

// registryPaths maps each export to its location under the IEEE site.
var registryPaths = map[string]string{
	"oui.csv":   "/oui/oui.csv",
	"mam.csv":   "/oui28/mam.csv",
	"oui36.csv": "/oui36/oui36.csv",
	"cid.csv":   "/cid/cid.csv",
	"iab.csv":   "/iab/iab.csv",
}

// maxAge is how old a local export may be before it is refreshed.
const maxAge = 30 * 24 * time.Hour

type fetcher struct {
	client  *http.Client
	baseURL string
	dir     string
	force   bool
	logger  *slog.Logger
}

func main() {
	dir := flag.String("dir", "internal/adapters/registrydata", "Directory to write the CSV exports to")
	force := flag.Bool("force", false, "Force update even if recent")
	timeout := flag.Duration("timeout", 2*time.Minute, "Per-file download timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	f := &fetcher{
		client:  &http.Client{Timeout: *timeout},
		baseURL: ieeeBaseURL,
		dir:     *dir,
		force:   *force,
		logger:  logger,
	}
	if err := f.fetchAll(context.Background()); err != nil {
		logger.Error("update failed", "error", err)
		os.Exit(1)
	}
}

// fetchAll downloads every stale export, then verifies the directory still
// compiles before the new files replace the old ones.
func (f *fetcher) fetchAll(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return err
	}

	staged := make(map[string]string)
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()

	for _, name := range compiler.IEEEFiles {
		target := filepath.Join(f.dir, name)
		if !f.force && isRecent(target) {
			f.logger.Info("export is recent, skipping (use -force to update anyway)", "file", name)
			continue
		}

		tmp, err := f.download(ctx, name)
		if err != nil {
			return err
		}
		staged[name] = tmp
	}

	if len(staged) == 0 {
		return nil
	}

	if err := f.verify(staged); err != nil {
		return err
	}

	for name, tmp := range staged {
		if err := os.Rename(tmp, filepath.Join(f.dir, name)); err != nil {
			return err
		}
		delete(staged, name)
	}

	f.logger.Info("update complete", "dir", f.dir)
	return nil
}

func (f *fetcher) download(ctx context.Context, name string) (string, error) {
	url := f.baseURL + registryPaths[name]
	f.logger.Info("downloading", "file", name, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "macoui-ouifetch/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP GET %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return "", err
	}
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	f.logger.Debug("downloaded", "file", name, "bytes", n)
	return tmp.Name(), nil
}

// verify compiles the staged exports together with any kept ones.
func (f *fetcher) verify(staged map[string]string) error {
	sources := make([]compiler.Source, 0, len(compiler.IEEEFiles))
	for _, name := range compiler.IEEEFiles {
		path, ok := staged[name]
		if !ok {
			path = filepath.Join(f.dir, name)
		}
		file, err := os.Open(path)
		if err != nil {
			return &compiler.SourceError{Source: name, Err: err}
		}
		defer file.Close()
		sources = append(sources, compiler.Source{Name: name, Reader: file})
	}

	table, err := compiler.New(compiler.WithLogger(f.logger)).Compile(sources...)
	if err != nil {
		return errors.Join(errors.New("downloaded exports do not compile"), err)
	}
	f.logger.Info("verified exports", "records", table.Len(), "duplicates", table.Stats().Duplicates)
	return nil
}

func isRecent(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < maxAge
}
