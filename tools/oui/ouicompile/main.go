// Command ouicompile compiles the five IEEE registry CSV exports into a
// deduplicated table and writes it as Go source and/or a SQLite export.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/lcalzada-xor/macoui/internal/adapters/compiler"
	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
	"github.com/lcalzada-xor/macoui/internal/telemetry"
)

type options struct {
	dir     string
	goOut   string
	pkg     string
	varName string
	dbPath  string
}

func main() {
	var opts options
	flag.StringVar(&opts.dir, "dir", "internal/adapters/registrydata", "Directory holding oui.csv, mam.csv, oui36.csv, cid.csv and iab.csv")
	flag.StringVar(&opts.goOut, "go", "", "Write the table as Go source to this file")
	flag.StringVar(&opts.pkg, "pkg", "registrytable", "Package name for generated Go source")
	flag.StringVar(&opts.varName, "var", "Registry", "Variable name for generated Go source")
	flag.StringVar(&opts.dbPath, "db", "", "Write the table to this SQLite database")
	verbose := flag.Bool("verbose", false, "Verbose output")
	trace := flag.Bool("trace", false, "Print OpenTelemetry spans to stdout")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *trace {
		shutdown, err := telemetry.InitTracer("ouicompile")
		if err != nil {
			logger.Error("failed to init tracer", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Error("compile failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ouicompile.compile")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger.Info("compiling registries", "dir", opts.dir)
	table, err := compiler.CompileDir(opts.dir, compiler.WithLogger(logger))
	if err != nil {
		return err
	}

	stats := table.Stats()
	span.SetAttributes(
		attribute.Int("macoui.records", stats.Total),
		attribute.Int("macoui.duplicates", stats.Duplicates),
	)
	for reg, n := range stats.ByRegistry {
		logger.Debug("registry", "registry", reg.String(), "records", n)
	}
	logger.Info("compiled", "records", stats.Total, "duplicates", stats.Duplicates)

	if opts.goOut != "" {
		if err := writeGo(opts, table); err != nil {
			return err
		}
		logger.Info("wrote Go source", "path", opts.goOut)
	}

	if opts.dbPath != "" {
		if err := writeDB(ctx, opts.dbPath, table); err != nil {
			return err
		}
		logger.Info("wrote database", "path", opts.dbPath)
	}
	return nil
}

// writeGo renders into memory first so a failed run leaves no partial file.
func writeGo(opts options, table *compiler.Table) error {
	var buf bytes.Buffer
	if err := compiler.WriteGoSource(&buf, opts.pkg, opts.varName, table); err != nil {
		return fmt.Errorf("render %s: %w", opts.goOut, err)
	}
	if err := os.MkdirAll(filepath.Dir(opts.goOut), 0755); err != nil {
		return err
	}
	return os.WriteFile(opts.goOut, buf.Bytes(), 0644)
}

func writeDB(ctx context.Context, path string, table *compiler.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	db, err := oui.NewOUIDatabase(path, 0, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.ImportRecords(ctx, table.Records())
}
