// internal/receipt/render/renderer.go

// Package render draws the receipt page with fpdf. Element z-order is fixed:
// background, panel, date, subject image, then the text column.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"codeberg.org/go-pdf/fpdf"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/common/logger"
	"opera-backend/internal/receipt/assets"
	"opera-backend/internal/receipt/layout"
)

const (
	fontFamily  = "Helvetica"
	lineSpacing = 1.2
	panelRadius = 16.0
	panelAlpha  = 0.94
)

type rgb struct{ r, g, b int }

var (
	dateColor  = rgb{107, 114, 128}
	labelColor = rgb{55, 65, 81}
	bodyColor  = rgb{17, 24, 39}
)

// Document is a rendered receipt ready to be written out.
type Document struct {
	pdf *fpdf.Fpdf
}

// Output writes the PDF bytes to w.
func (d *Document) Output(w io.Writer) error {
	return d.pdf.Output(w)
}

// NewMeasurer returns a Measurer backed by the same font metrics the
// renderer draws with, so computed and drawn heights agree.
func NewMeasurer() layout.Measurer {
	doc := fpdf.New("P", "pt", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	return func(text string, fontSize, width float64) float64 {
		if text == "" {
			return fontSize * lineSpacing
		}
		doc.SetFont(fontFamily, "", fontSize)
		lines := doc.SplitText(tr(text), width)
		if len(lines) == 0 {
			return fontSize * lineSpacing
		}
		return float64(len(lines)) * fontSize * lineSpacing
	}
}

// Renderer draws receipt documents.
type Renderer struct {
	logger logger.Logger
}

func NewRenderer(log logger.Logger) *Renderer {
	return &Renderer{logger: log}
}

// Render draws one page following plan. Unresolvable or undecodable images
// are skipped; only fpdf itself failing aborts the render.
func (r *Renderer) Render(plan layout.Plan, content layout.Input, background, subject assets.Resolved) (*Document, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	r.drawBackground(doc, background)
	r.drawPanel(doc, plan.Panel)
	r.drawDate(doc, tr, plan, content.DateLabel)
	r.drawSubject(doc, subject, plan.ImageBox)
	r.drawContent(doc, tr, plan, content)

	if doc.Err() {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "pdf assembly failed", doc.Error())
	}
	return &Document{pdf: doc}, nil
}

func (r *Renderer) drawBackground(doc *fpdf.Fpdf, background assets.Resolved) {
	if background.Absent() {
		return
	}
	format, _, _, ok := decodeImage(background.Data)
	if !ok {
		r.logger.Warn("background image undecodable, skipping", map[string]interface{}{
			"content_type": background.ContentType,
			"bytes":        len(background.Data),
		})
		return
	}
	opts := fpdf.ImageOptions{ImageType: format}
	doc.RegisterImageOptionsReader("receipt-background", opts, bytes.NewReader(background.Data))
	doc.ImageOptions("receipt-background", 0, 0, layout.PageWidth, layout.PageHeight, false, opts, 0, "")
}

func (r *Renderer) drawPanel(doc *fpdf.Fpdf, panel layout.Rect) {
	doc.SetAlpha(panelAlpha, "Normal")
	doc.SetFillColor(255, 255, 255)
	doc.RoundedRect(panel.X, panel.Y, panel.W, panel.H, panelRadius, "1234", "F")
	doc.SetAlpha(1, "Normal")
}

func (r *Renderer) drawDate(doc *fpdf.Fpdf, tr func(string) string, plan layout.Plan, label string) {
	setColor(doc, dateColor)
	doc.SetFont(fontFamily, "", layout.BodyFontSize)
	doc.SetXY(plan.DateBox.X, plan.DateBox.Y)
	doc.MultiCell(plan.DateBox.W, layout.BodyFontSize*lineSpacing, tr(label), "", "R", false)
}

func (r *Renderer) drawSubject(doc *fpdf.Fpdf, subject assets.Resolved, box layout.Rect) {
	if subject.Absent() {
		return
	}
	format, imgW, imgH, ok := decodeImage(subject.Data)
	if !ok || imgW == 0 || imgH == 0 {
		r.logger.Warn("subject image undecodable, skipping", map[string]interface{}{
			"content_type": subject.ContentType,
			"bytes":        len(subject.Data),
		})
		return
	}

	// Contain-fit inside the box, centered.
	scale := math.Min(box.W/float64(imgW), box.H/float64(imgH))
	drawW := float64(imgW) * scale
	drawH := float64(imgH) * scale
	x := box.X + (box.W-drawW)/2
	y := box.Y + (box.H-drawH)/2

	opts := fpdf.ImageOptions{ImageType: format}
	doc.RegisterImageOptionsReader("receipt-subject", opts, bytes.NewReader(subject.Data))
	doc.ImageOptions("receipt-subject", x, y, drawW, drawH, false, opts, 0, "")
}

func (r *Renderer) drawContent(doc *fpdf.Fpdf, tr func(string) string, plan layout.Plan, content layout.Input) {
	x := plan.ContentX
	w := plan.ContentWidth
	y := plan.CursorY

	if content.Title != "" {
		setColor(doc, bodyColor)
		doc.SetFont(fontFamily, "B", layout.TitleFontSize)
		doc.SetXY(x, y)
		doc.MultiCell(w, layout.TitleFontSize*lineSpacing, tr(content.Title), "", "L", false)
		y += math.Max(textHeight(doc, tr, content.Title, layout.TitleFontSize, w), layout.TitleAdvance) + 6
	}

	setColor(doc, labelColor)
	doc.SetFont(fontFamily, "", layout.SubtitleFontSize)
	for _, s := range content.Subtitles {
		doc.SetXY(x, y)
		doc.MultiCell(w, layout.SubtitleFontSize*lineSpacing, tr(s), "", "L", false)
		y += math.Max(textHeight(doc, tr, s, layout.SubtitleFontSize, w), layout.RowAdvance)
	}

	if len(content.Fields) == 0 {
		return
	}

	y += 10
	rowH := layout.BodyFontSize * lineSpacing
	for _, f := range content.Fields {
		doc.SetXY(x, y)

		doc.SetFont(fontFamily, "B", layout.BodyFontSize)
		setColor(doc, labelColor)
		label := tr(fmt.Sprintf("%s: ", f.Label))
		labelW := doc.GetStringWidth(label)
		doc.CellFormat(labelW, rowH, label, "", 0, "L", false, 0, "")

		doc.SetFont(fontFamily, "", layout.BodyFontSize)
		setColor(doc, bodyColor)
		// The value run wraps inside the content column. Rows advance a
		// fixed 20pt, so a wrapped value can overlap the next row.
		doc.MultiCell(w-labelW, rowH, tr(f.Value), "", "L", false)

		y += layout.RowAdvance
	}
}

func textHeight(doc *fpdf.Fpdf, tr func(string) string, text string, fontSize, width float64) float64 {
	doc.SetFont(fontFamily, "", fontSize)
	lines := doc.SplitText(tr(text), width)
	if len(lines) == 0 {
		return fontSize * lineSpacing
	}
	return float64(len(lines)) * fontSize * lineSpacing
}

func setColor(doc *fpdf.Fpdf, c rgb) {
	doc.SetTextColor(c.r, c.g, c.b)
}

// decodeImage validates data as an image fpdf can embed. Registering raw
// undecodable bytes would leave the document in a sticky error state, so
// validation happens up front.
func decodeImage(data []byte) (format string, w, h int, ok bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, false
	}
	switch format {
	case "jpeg", "png", "gif":
		return format, cfg.Width, cfg.Height, true
	}
	return "", 0, 0, false
}
