// Package handlers exposes the HTTP surface: the two ingestion
// endpoints, the transcript listing, the password-cookie gate, and the
// live-recording websocket.
package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/mediascribe/mediascribe/internal/fault"
	"github.com/mediascribe/mediascribe/internal/pipeline"
	"github.com/mediascribe/mediascribe/internal/types"
)

// Processor runs one submission through the ingestion pipeline.
type Processor interface {
	Process(ctx context.Context, sub *types.Submission) (*pipeline.Result, error)
}

// TranscribeHandler accepts media uploads and returns transcripts.
type TranscribeHandler struct {
	pipeline Processor
	log      *slog.Logger
}

// NewTranscribeHandler creates the upload handlers.
func NewTranscribeHandler(p Processor, log *slog.Logger) *TranscribeHandler {
	return &TranscribeHandler{pipeline: p, log: log}
}

// HandleAudio processes an uploaded audio recording (multipart field
// "audio").
func (h *TranscribeHandler) HandleAudio(c *fiber.Ctx) error {
	return h.handle(c, "audio", types.SourceAudio)
}

// HandleVideo processes an uploaded video (multipart field "video").
func (h *TranscribeHandler) HandleVideo(c *fiber.Ctx) error {
	return h.handle(c, "video", types.SourceVideo)
}

func (h *TranscribeHandler) handle(c *fiber.Ctx, field string, kind types.SourceKind) error {
	file, err := c.FormFile(field)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No " + field + " file provided",
		})
	}

	f, err := file.Open()
	if err != nil {
		h.log.Error("failed to open uploaded file", "file", file.Filename, "error", err)
		return h.serverError(c, field)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		h.log.Error("failed to read uploaded file", "file", file.Filename, "error", err)
		return h.serverError(c, field)
	}

	sub := &types.Submission{
		Kind:        kind,
		Data:        data,
		FileName:    file.Filename,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
	}

	res, err := h.pipeline.Process(c.UserContext(), sub)
	if err != nil {
		if fault.IsKind(err, fault.Validation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No " + field + " file provided",
			})
		}
		// Configuration faults poison every subsequent request; make
		// them stand out in the logs.
		if fault.IsKind(err, fault.Configuration) {
			h.log.Error("speech-to-text credential rejected, all requests will fail", "error", err)
		} else {
			h.log.Error("submission failed", "type", kind, "file", file.Filename, "error", err)
		}
		return h.serverError(c, field)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"transcription": res.Text,
		"id":            res.RecordID,
	})
}

// serverError hides internal fault detail from the client.
func (h *TranscribeHandler) serverError(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Error processing " + field,
	})
}
