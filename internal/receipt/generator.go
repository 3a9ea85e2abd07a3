// internal/receipt/generator.go

// Package receipt assembles order receipts. It wires asset resolution, layout
// and rendering into a single Generate call; delivery is the caller's choice
// of sink.
package receipt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opera-backend/internal/common/logger"
	"opera-backend/internal/models"
	"opera-backend/internal/receipt/assets"
	"opera-backend/internal/receipt/layout"
	"opera-backend/internal/receipt/render"
	"opera-backend/internal/receipt/sanitize"
)

const filenamePrefix = "pedido-opera"

// Generator builds receipt documents from order payloads.
type Generator struct {
	resolver *assets.Resolver
	renderer *render.Renderer
	measure  layout.Measurer
	logger   logger.Logger
	now      func() time.Time
}

func NewGenerator(resolver *assets.Resolver, log logger.Logger) *Generator {
	return &Generator{
		resolver: resolver,
		renderer: render.NewRenderer(log),
		measure:  render.NewMeasurer(),
		logger:   log,
		now:      time.Now,
	}
}

// Generate renders the receipt for req. Unresolvable images degrade to a
// text-only document; only the PDF assembly itself can fail.
func (g *Generator) Generate(ctx context.Context, req models.ReceiptRequest, mode layout.Mode) (*render.Document, error) {
	orderTime := render.ParseOrderTime(req.DateTime, g.now)
	content := buildContent(req, orderTime)

	background := g.resolver.ResolveBackground(ctx, req.TemplateURL)
	subject := g.resolver.ResolveSubject(ctx, req.SelectedImageURL)

	plan := layout.Compute(g.measure, content, mode)
	return g.renderer.Render(plan, content, background, subject)
}

// BaseFilename derives the client-facing filename stem from the order,
// sanitized so it is safe across filesystems and download dialogs.
func BaseFilename(req models.ReceiptRequest) string {
	title := sanitize.CleanOr(req.CakeTitle, "torta")
	customer := req.CustomerFullName
	if customer == "" {
		customer = req.CustomerName
	}
	return fmt.Sprintf("%s_%s_%s", filenamePrefix, title, sanitize.CleanOr(customer, "cliente"))
}

// Timestamp renders t as a filename-safe UTC marker, with the colon and dot
// separators replaced.
func Timestamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(iso)
}

func buildContent(req models.ReceiptRequest, orderTime time.Time) layout.Input {
	fullName := req.CustomerFullName
	if fullName == "" {
		fullName = req.CustomerName
	}

	pickup := "No"
	if req.PickupAck {
		pickup = "Sí"
	}

	quantity := req.CakeQuantity
	if quantity == "" {
		quantity = "1"
	}

	in := layout.Input{DateLabel: render.FormatDateLabel(orderTime)}
	if strings.TrimSpace(req.CakeTitle) != "" {
		in.Title = "Torta: " + req.CakeTitle
	}

	if req.Minimal {
		in.Fields = []layout.Field{
			{Label: "Nombre completo", Value: orDash(fullName)},
		}
		return in
	}

	in.Subtitles = []string{
		fmt.Sprintf("Centímetros de torta: %s cm", orDash(req.Centimeters)),
		"Cantidad de torta: " + quantity,
	}
	in.Fields = []layout.Field{
		{Label: "Nombre completo", Value: orDash(fullName)},
		{Label: "Teléfono", Value: orDash(req.CustomerPhone)},
		{Label: "A nombre de", Value: orDash(req.OrderForName)},
		{Label: "Confirmación retiro en local", Value: pickup},
		{Label: "Notas", Value: orDash(req.Notes)},
	}
	return in
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
