// Command ouiscan summarizes which organizations own the transmitter
// addresses seen in a pcap file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/lcalzada-xor/macoui/internal/adapters/capture"
	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
	"github.com/lcalzada-xor/macoui/internal/adapters/reporting"
	"github.com/lcalzada-xor/macoui/internal/core/domain"
	"github.com/lcalzada-xor/macoui/internal/core/ports"
)

func main() {
	pdfPath := flag.String("pdf", "", "Also write a PDF report to this path")
	dbPath := flag.String("db", "", "Resolve through this SQLite registry export before the embedded table")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] capture.pcap\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lookup, err := openLookup(*dbPath)
	if err != nil {
		logger.Error("failed to open repository", "error", err)
		os.Exit(1)
	}
	defer lookup.Close()

	report, err := scanFile(ctx, flag.Arg(0), lookup)
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	} else {
		err = printReport(os.Stdout, report)
	}
	if err != nil {
		logger.Error("failed to print report", "error", err)
		os.Exit(1)
	}

	if *pdfPath != "" {
		if err := writeReport(*pdfPath, report, reporting.NewPDFExporter()); err != nil {
			logger.Error("failed to write PDF report", "error", err)
			os.Exit(1)
		}
		logger.Info("wrote PDF report", "path", *pdfPath)
	}
}

func openLookup(dbPath string) (oui.VendorRepository, error) {
	if dbPath == "" {
		return oui.Default(), nil
	}
	db, err := oui.NewOUIDatabase(dbPath, 4096, nil)
	if err != nil {
		return nil, err
	}
	return oui.NewCompositeVendorRepository(db, oui.Default()), nil
}

func scanFile(ctx context.Context, path string, lookup ports.VendorLookup) (*domain.VendorReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return capture.NewVendorScanner(lookup).Scan(ctx, filepath.Base(path), f)
}

func printReport(w io.Writer, report *domain.VendorReport) error {
	fmt.Fprintf(w, "%s: %d frames, %d addresses (%d randomized, %d unresolved)\n\n",
		report.Source, report.Frames, report.Addresses, report.Randomized, report.Unresolved)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESSES\tFRAMES\tREGISTRY\tASSIGNMENT\tORGANIZATION")
	for _, v := range report.Vendors {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
			v.Addresses, v.Frames, v.Registry, v.Key, strings.ReplaceAll(v.Organization, "\n", " / "))
	}
	return tw.Flush()
}

func writeReport(path string, report *domain.VendorReport, exporter ports.VendorReporter) error {
	data, err := exporter.Export(report)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
