package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/mediascribe/mediascribe/internal/types"
)

// RecordLister reads back persisted transcripts.
type RecordLister interface {
	ListAll(ctx context.Context) ([]*types.Transcript, error)
}

// RecordsHandler serves the transcript history.
type RecordsHandler struct {
	records RecordLister
	log     *slog.Logger
}

// NewRecordsHandler creates the listing handler.
func NewRecordsHandler(records RecordLister, log *slog.Logger) *RecordsHandler {
	return &RecordsHandler{records: records, log: log}
}

// HandleList returns every transcript, newest first.
func (h *RecordsHandler) HandleList(c *fiber.Ctx) error {
	list, err := h.records.ListAll(c.UserContext())
	if err != nil {
		h.log.Error("failed to list transcripts", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch transcriptions",
		})
	}
	return c.JSON(list)
}
