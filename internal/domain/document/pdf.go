package document

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"laborcontract/internal/domain/contract"
)

const utf8Family = "contract-utf8"

type PDFOptions struct {
	// FontPath points at a TTF font with Hangul glyphs. Without it the core
	// Helvetica font is used and non-Latin text cannot be shown.
	FontPath string
}

// RenderPDF lays the text form out on A4, one PDF line per text line.
func RenderPDF(c contract.Contract, opts PDFOptions) ([]byte, error) {
	text, err := RenderText(c)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("근로계약서", true)
	pdf.SetAuthor(c.EmployerName, true)

	family := "Helvetica"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		if _, err := os.Stat(opts.FontPath); err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		pdf.AddUTF8Font(utf8Family, "", opts.FontPath)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load font %s: %w", opts.FontPath, err)
		}
		family = utf8Family
		translate = func(s string) string { return s }
	}

	pdf.AddPage()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	pdf.SetFont(family, "", 16)
	pdf.CellFormat(0, 12, translate(lines[0]), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont(family, "", 11)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 6, translate(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
