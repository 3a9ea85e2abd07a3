// internal/receipt/render/renderer_test.go
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opera-backend/internal/common/logger"
	"opera-backend/internal/receipt/assets"
	"opera-backend/internal/receipt/layout"
)

func createTestContent() layout.Input {
	return layout.Input{
		DateLabel: "31 ago 2026, 12:00",
		Title:     "Torta: Tres Leches",
		Subtitles: []string{"Centímetros de torta: 25 cm", "Cantidad de torta: 2"},
		Fields: []layout.Field{
			{Label: "Nombre completo", Value: "María José Ibáñez"},
			{Label: "Teléfono", Value: "+56 9 8765 4321"},
			{Label: "A nombre de", Value: "María"},
			{Label: "Confirmación retiro en local", Value: "No"},
			{Label: "Notas", Value: "Sin maní"},
		},
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func renderToBytes(t *testing.T, background, subject assets.Resolved) []byte {
	t.Helper()
	content := createTestContent()
	plan := layout.Compute(NewMeasurer(), content, layout.ModeCentered)

	doc, err := NewRenderer(logger.NewNoOpLogger()).Render(plan, content, background, subject)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestRenderProducesPDF(t *testing.T) {
	out := renderToBytes(t, assets.Resolved{}, assets.Resolved{})
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output should start with the PDF magic")
	assert.Greater(t, len(out), 500)
}

func TestRenderWithImages(t *testing.T) {
	background := assets.Resolved{Data: pngBytes(t, 60, 85), ContentType: "image/png"}
	subject := assets.Resolved{Data: pngBytes(t, 40, 30), ContentType: "image/png"}

	out := renderToBytes(t, background, subject)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderSkipsUndecodableImages(t *testing.T) {
	// Garbage bytes must not poison the document.
	bad := assets.Resolved{Data: []byte("not an image at all"), ContentType: "image/jpeg"}

	out := renderToBytes(t, bad, bad)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderMinimalContent(t *testing.T) {
	content := createTestContent()
	content.Subtitles = nil
	content.Fields = content.Fields[:1]
	plan := layout.Compute(NewMeasurer(), content, layout.ModeFixedOffset)

	doc, err := NewRenderer(logger.NewNoOpLogger()).Render(plan, content, assets.Resolved{}, assets.Resolved{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderWithoutTitle(t *testing.T) {
	content := createTestContent()
	content.Title = ""
	plan := layout.Compute(NewMeasurer(), content, layout.ModeCentered)

	doc, err := NewRenderer(logger.NewNoOpLogger()).Render(plan, content, assets.Resolved{}, assets.Resolved{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestMeasurer(t *testing.T) {
	m := NewMeasurer()

	single := m("Torta: Opera", layout.BodyFontSize, 400)
	assert.InDelta(t, layout.BodyFontSize*1.2, single, 0.001)

	long := m("Torta de chocolate con mucho merengue, frutillas frescas y manjar casero de la abuela", layout.BodyFontSize, 120)
	assert.Greater(t, long, single, "wrapped text should be taller than a single line")

	empty := m("", layout.BodyFontSize, 400)
	assert.InDelta(t, layout.BodyFontSize*1.2, empty, 0.001)
}

func TestDecodeImage(t *testing.T) {
	format, w, h, ok := decodeImage(pngBytes(t, 17, 23))
	require.True(t, ok)
	assert.Equal(t, "png", format)
	assert.Equal(t, 17, w)
	assert.Equal(t, 23, h)

	_, _, _, ok = decodeImage([]byte{0x00, 0x01, 0x02})
	assert.False(t, ok)
}
