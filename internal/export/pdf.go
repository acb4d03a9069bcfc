package export

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

const (
	pdfMargin     = 15.0
	pdfRowHeight  = 7.0
	pdfHeaderSize = 11.0
	pdfBodySize   = 10.0
)

// PDFOptions tunes WritePDF.
type PDFOptions struct {
	// Generated is printed under the title. Defaults to time.Now.
	Generated time.Time

	// Footer is printed at the bottom of every page with the page number, e.g. "%d".
	Footer string
}

// WritePDF renders the sheet as an A4 landscape table. The header row is
// repeated on every page and cells are bold, matching the web view.
func WritePDF(w io.Writer, s Sheet, opts PDFOptions) error {
	if opts.Generated.IsZero() {
		opts.Generated = time.Now()
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(s.Title, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	// Core fonts are cp1252; translate so accented names print correctly.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if opts.Footer != "" {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-pdfMargin + 5)
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(0, 5, tr(fmt.Sprintf(opts.Footer, pdf.PageNo())), "", 0, "C", false, 0, "")
		})
	}

	pageWidth, _ := pdf.GetPageSize()
	colWidth := pageWidth - 2*pdfMargin
	if len(s.Headers) > 0 {
		colWidth /= float64(len(s.Headers))
	}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", pdfHeaderSize)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range s.Headers {
			pdf.CellFormat(colWidth, pdfRowHeight+1, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "B", pdfBodySize)
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			writeHeader()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(s.Title))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, opts.Generated.Format("2006-01-02 15:04"))
	pdf.Ln(8)
	writeHeader()

	for _, row := range s.Rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, pdfRowHeight, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: pdf: %w", ErrExportFailed, err)
	}
	return nil
}
