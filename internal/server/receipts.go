// internal/server/receipts.go

package server

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/models"
	"opera-backend/internal/receipt"
	"opera-backend/internal/receipt/layout"
	"opera-backend/internal/receipt/sink"
)

// handleReceiptStream renders the order receipt and streams it back as a
// download.
func (s *Server) handleReceiptStream(c *gin.Context) {
	var req models.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid receipt payload", err))
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	doc, err := s.generator.Generate(ctx, req, layout.ModeCentered)
	if err != nil {
		s.obs.RecordRender(ctx, "stream", "error")
		s.logger.WithError(err).Error("receipt render failed", map[string]interface{}{
			"request_id": c.GetString("request_id"),
		})
		respondError(c, err)
		return
	}

	filename := receipt.BaseFilename(req) + ".pdf"
	if err := sink.NewStreamSink(c.Writer, filename).Write(doc); err != nil {
		// Headers are committed once streaming starts; the client sees a
		// truncated body and the failure is only logged here.
		s.obs.RecordRender(ctx, "stream", "error")
		s.logger.WithError(err).Error("receipt streaming failed", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"filename":   filename,
		})
		return
	}

	s.obs.RecordRender(ctx, "stream", "ok")
	s.obs.RecordRenderDuration(ctx, time.Since(start), "stream")
}

// handleReceiptSave renders the receipt to disk and returns the public URL
// it is served under.
func (s *Server) handleReceiptSave(c *gin.Context) {
	var req models.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid receipt payload", err))
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	doc, err := s.generator.Generate(ctx, req, layout.ModeFixedOffset)
	if err != nil {
		s.obs.RecordRender(ctx, "file", "error")
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.pdf", receipt.BaseFilename(req), receipt.Timestamp(time.Now()))
	dir := filepath.Join(s.cfg.Receipt.UploadsDir, "pedidos")
	if _, err := sink.NewFileSink(dir).Write(doc, filename); err != nil {
		s.obs.RecordRender(ctx, "file", "error")
		s.logger.WithError(err).Error("receipt persistence failed", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"filename":   filename,
		})
		respondError(c, err)
		return
	}

	s.obs.RecordRender(ctx, "file", "ok")
	s.obs.RecordRenderDuration(ctx, time.Since(start), "file")

	respondData(c, 200, gin.H{
		"url":      fmt.Sprintf("%s://%s/uploads/pedidos/%s", requestScheme(c), c.Request.Host, filename),
		"filename": filename,
	})
}

// requestScheme honors the proxy header so saved receipt URLs keep the
// scheme the client actually used.
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
