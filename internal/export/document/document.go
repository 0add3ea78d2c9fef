// Package document renders screening reports as a printable PDF.
package document

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
)

// ContentType is the MIME type of the export.
const ContentType = "application/pdf"

// Fixed texts of the printable layout.
const (
	DefaultTitle = "Dyslexia Screening Report"
	Disclaimer   = "Screening aid only, not a diagnosis. Consult a qualified professional for assessment."
)

const (
	fontFamily   = "Helvetica"
	bodySize     = 10.0
	lineHeight   = 5.0
	margin       = 15.0
	creatorLabel = "lexiscreen"
)

// Config holds layout settings.
type Config struct {
	Title     string
	WrapWidth int
	// Compress enables stream compression. Disable it to inspect the output as text.
	Compress bool
}

// Renderer produces the printable export. It holds no per-report state.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a Renderer. Zero config fields fall back to defaults.
func NewRenderer(cfg Config) *Renderer {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.WrapWidth <= 0 {
		cfg.WrapWidth = DefaultWrapWidth
	}
	return &Renderer{cfg: cfg}
}

// Render writes the PDF for r. The output depends only on r and the renderer
// config: document dates are pinned to the report timestamp.
func (d *Renderer) Render(w io.Writer, r report.Report) error {
	pdf := d.build(r)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// Marshal returns the rendered PDF.
func (d *Renderer) Marshal(r report.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Renderer) build(r report.Report) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(d.cfg.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(r.Timestamp())
	pdf.SetModificationDate(r.Timestamp())
	pdf.SetTitle(d.cfg.Title, true)
	pdf.SetCreator(creatorLabel, false)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin + 5)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr(d.cfg.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "", bodySize)
	line := func(text string) {
		pdf.CellFormat(0, lineHeight, tr(text), "", 1, "L", false, 0, "")
	}

	line("Generated: " + r.Timestamp().UTC().Format(time.RFC3339))
	line("Age: " + strconv.FormatFloat(r.Age(), 'f', -1, 64))
	line(fmt.Sprintf("Predicted dyslexia class (1 = yes, 0 = no): %d", r.PredictedClass()))
	line("Probability of dyslexia: " + strconv.FormatFloat(r.Probability(), 'f', 3, 64))
	line("Risk level: " + r.Tier().String())
	pdf.Ln(lineHeight)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 7, "Interpretation", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", bodySize)
	for _, l := range Wrap(r.Tier().Interpretation(), d.cfg.WrapWidth) {
		line(l)
	}

	if top := r.TopFeatures(); len(top) > 0 {
		pdf.Ln(lineHeight)
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(0, 7, "Most influential features", "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", bodySize)
		for i, e := range top {
			entry := fmt.Sprintf("%d. %s: %s", i+1, e.Feature(), strconv.FormatFloat(e.Score(), 'f', 4, 64))
			for _, l := range Wrap(entry, d.cfg.WrapWidth) {
				line(l)
			}
		}
	}

	pdf.Ln(lineHeight)
	pdf.SetFont(fontFamily, "I", 9)
	line(Disclaimer)

	return pdf
}
