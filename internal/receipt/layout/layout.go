// internal/receipt/layout/layout.go

// Package layout computes receipt page geometry from measured text. All
// positions are in PDF points with the origin at the top-left corner.
package layout

import "math"

// Page and panel geometry, A4 portrait.
const (
	PageWidth  = 595.28
	PageHeight = 841.89

	PanelPadding = 24.0
	DateBoxWidth = 220.0

	ImageBoxWidth  = 180.0
	ImageBoxHeight = 140.0

	// FixedOffsetY anchors the panel when the document is persisted
	// rather than streamed.
	FixedOffsetY = 110.0

	TitleFontSize    = 16.0
	SubtitleFontSize = 14.0
	BodyFontSize     = 12.0

	TitleAdvance = 22.0
	RowAdvance   = 20.0

	titleGap      = 6.0
	fieldBlockGap = 10.0
	contentTail   = 8.0
	dateGap       = 12.0
)

// Mode selects how the panel is positioned on the page.
type Mode int

const (
	// ModeCentered centers the panel vertically.
	ModeCentered Mode = iota
	// ModeFixedOffset pins the panel at FixedOffsetY.
	ModeFixedOffset
)

// Measurer returns the rendered height of text wrapped to width at the
// given font size.
type Measurer func(text string, fontSize, width float64) float64

// Field is one label/value row of the detail block.
type Field struct {
	Label string
	Value string
}

// Input is everything the panel displays that affects its height. An empty
// Title omits the title line entirely.
type Input struct {
	DateLabel string
	Title     string
	Subtitles []string
	Fields    []Field
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

// Plan is the fully resolved geometry for one receipt page.
type Plan struct {
	Panel    Rect
	DateBox  Rect
	ImageBox Rect

	// ContentX and ContentWidth bound the left text column.
	ContentX     float64
	ContentWidth float64
	// CursorY is where the first content line starts.
	CursorY float64
}

// Compute derives the page plan. The panel grows with its content but never
// shrinks below the image box.
func Compute(m Measurer, in Input, mode Mode) Plan {
	panelW := math.Round(PageWidth * 0.8)
	panelX := (PageWidth - panelW) / 2
	contentW := panelW - 260

	dateH := math.Max(m(in.DateLabel, BodyFontSize, DateBoxWidth), RowAdvance)
	topOffset := PanelPadding + dateH + dateGap

	contentH := contentHeight(m, in, contentW)
	panelH := math.Ceil(topOffset + math.Max(contentH, ImageBoxHeight+contentTail) + PanelPadding)

	panelY := FixedOffsetY
	if mode == ModeCentered {
		panelY = (PageHeight - panelH) / 2
	}

	return Plan{
		Panel: Rect{X: panelX, Y: panelY, W: panelW, H: panelH},
		DateBox: Rect{
			X: panelX + panelW - PanelPadding - DateBoxWidth,
			Y: panelY + PanelPadding,
			W: DateBoxWidth,
			H: dateH,
		},
		ImageBox: Rect{
			X: panelX + panelW - PanelPadding - ImageBoxWidth,
			Y: panelY + topOffset,
			W: ImageBoxWidth,
			H: ImageBoxHeight,
		},
		ContentX:     panelX + PanelPadding,
		ContentWidth: contentW,
		CursorY:      panelY + topOffset,
	}
}

func contentHeight(m Measurer, in Input, contentW float64) float64 {
	h := 0.0
	if in.Title != "" {
		h += math.Max(m(in.Title, TitleFontSize, contentW), TitleAdvance) + titleGap
	}
	for _, s := range in.Subtitles {
		h += math.Max(m(s, SubtitleFontSize, contentW), RowAdvance)
	}
	if len(in.Fields) > 0 {
		h += fieldBlockGap
		for _, f := range in.Fields {
			h += math.Max(m(f.Label+": "+f.Value, BodyFontSize, contentW), RowAdvance)
		}
	}
	return h + contentTail
}
