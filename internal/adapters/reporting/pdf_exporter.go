package reporting

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

const maxVendorRows = 200

// PDFExporter exports vendor reports to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export implements ports.VendorReporter
func (e *PDFExporter) Export(report *domain.VendorReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	e.addHeader(pdf, report)
	e.addStatistics(pdf, report)
	e.addVendors(pdf, report, tr)
	e.addFooter(pdf, report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, report *domain.VendorReport) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 15, "Hardware Vendor Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Capture: %s", report.Source), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

func (e *PDFExporter) addStatistics(pdf *gofpdf.Fpdf, report *domain.VendorReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Overview", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	stats := []struct {
		label string
		value int
		color []int
	}{
		{"Frames", report.Frames, []int{0, 102, 204}},
		{"Unique Addresses", report.Addresses, []int{0, 102, 204}},
		{"Vendors", len(report.Vendors), []int{52, 199, 89}},
		{"Randomized", report.Randomized, []int{255, 149, 0}},
		{"Unresolved", report.Unresolved, []int{150, 150, 150}},
	}

	colWidth := 85.0
	for i, stat := range stats {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}

		pdf.SetXY(x, pdf.GetY())

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, stat.label+":", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(stat.color[0], stat.color[1], stat.color[2])
		pdf.CellFormat(colWidth-50, 7, fmt.Sprintf("%d", stat.value), "", 0, "R", false, 0, "")

		if i%2 == 1 {
			pdf.Ln(7)
		}
	}

	pdf.Ln(12)
}

func (e *PDFExporter) addVendors(pdf *gofpdf.Fpdf, report *domain.VendorReport, tr func(string) string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Vendors", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.Vendors) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No registered vendors identified", "", 1, "L", false, 0, "")
		return
	}

	header := func() {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(90, 8, "Organization", "1", 0, "L", true, 0, "")
		pdf.CellFormat(20, 8, "Registry", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 8, "Assignment", "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 8, "Addresses", "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 8, "Frames", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 9)
	}
	header()

	for i, v := range report.Vendors {
		if i >= maxVendorRows {
			break
		}
		if pdf.GetY() > 265 {
			pdf.AddPage()
			header()
		}

		r, g, b := e.getRegistryColor(v.Registry)
		org := strings.ReplaceAll(v.Organization, "\n", " ")
		if runes := []rune(org); len(runes) > 48 {
			org = string(runes[:45]) + "..."
		}

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(90, 7, tr(org), "1", 0, "L", false, 0, "")
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(20, 7, v.Registry.String(), "1", 0, "C", false, 0, "")
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(30, 7, v.Key, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", v.Addresses), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", v.Frames), "1", 1, "C", false, 0, "")
	}
}

// getRegistryColor shades finer-grained assignments differently
func (e *PDFExporter) getRegistryColor(r domain.Registry) (int, int, int) {
	switch r {
	case domain.RegistryMAS, domain.RegistryIAB:
		return 255, 149, 0 // Orange
	case domain.RegistryMAM:
		return 0, 102, 204 // Blue
	default:
		return 60, 60, 60
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, report *domain.VendorReport) {
	// The footer sits inside the bottom margin.
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetY(-20)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated by macoui | %d vendors", len(report.Vendors)), "", 1, "C", false, 0, "")
}
