// Command ouiquery resolves addresses against the embedded registries or a
// SQLite export. Addresses come from the arguments, or from stdin one per line.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
)

func main() {
	dbPath := flag.String("db", "", "Path to SQLite registry export (empty for the embedded table)")
	stats := flag.Bool("stats", false, "Print repository statistics")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	repo, err := openRepository(*dbPath)
	if err != nil {
		logger.Error("failed to open repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	if *stats {
		if err := printStats(ctx, os.Stdout, repo); err != nil {
			logger.Error("failed to get stats", "error", err)
			os.Exit(1)
		}
	}

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		in = strings.NewReader(strings.Join(flag.Args(), "\n"))
	} else if *stats {
		return
	}

	if err := query(ctx, in, os.Stdout, repo); err != nil {
		logger.Error("query failed", "error", err)
		os.Exit(1)
	}
}

func openRepository(dbPath string) (oui.VendorRepository, error) {
	if dbPath == "" {
		return oui.Default(), nil
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}
	return oui.NewOUIDatabase(dbPath, 1000, nil)
}

// query prints one tab-aligned line per address read from in.
func query(ctx context.Context, in io.Reader, out io.Writer, repo oui.VendorRepository) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		address := strings.TrimSpace(scanner.Text())
		if address == "" {
			continue
		}

		rec, err := repo.LookupRecord(ctx, address)
		switch {
		case errors.Is(err, oui.ErrVendorNotFound):
			fmt.Fprintf(tw, "%s\t-\t-\t(not found)\n", address)
		case err != nil:
			return err
		default:
			org := strings.ReplaceAll(rec.Organization(), "\n", " / ")
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", address, rec.Registry(), rec.Key(), org)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return tw.Flush()
}

func printStats(ctx context.Context, out io.Writer, repo oui.VendorRepository) error {
	s, ok := repo.(oui.VendorStats)
	if !ok {
		return nil
	}
	stats, err := s.GetStats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Registry Statistics:\n")
	fmt.Fprintf(out, "  Total entries: %d\n", stats.TotalEntries)
	if stats.Duplicates > 0 {
		fmt.Fprintf(out, "  Duplicates discarded: %d\n", stats.Duplicates)
	}
	if stats.LastUpdated != "" {
		fmt.Fprintf(out, "  Last updated: %s\n", stats.LastUpdated)
	}
	for _, name := range []string{"MA-L", "MA-M", "MA-S", "CID", "IAB"} {
		fmt.Fprintf(out, "  %-5s %d\n", name, stats.ByRegistry[name])
	}
	fmt.Fprintln(out)
	return nil
}
