package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gofiber/websocket/v2"

	"github.com/mediascribe/mediascribe/internal/types"
)

// StreamHandler accepts a live recording over a websocket: binary frames
// carry audio data, an optional text frame names the recording, and the
// text frame "END" finalizes it. The buffered bytes then run through the
// same pipeline as an uploaded audio file.
type StreamHandler struct {
	pipeline Processor
	log      *slog.Logger
}

// NewStreamHandler creates the live-recording handler.
func NewStreamHandler(p Processor, log *slog.Logger) *StreamHandler {
	return &StreamHandler{pipeline: p, log: log}
}

type streamResult struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription,omitempty"`
	ID            string `json:"id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// streamConn is the subset of the websocket connection the session loop
// uses.
type streamConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

// Handle runs one websocket session.
func (h *StreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()
	h.run(c)
}

func (h *StreamHandler) run(c streamConn) {
	var (
		buffer bytes.Buffer
		name   = "live-recording.webm"
	)

recv:
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			h.log.Warn("websocket read failed", "error", err)
			return
		}

		switch messageType {
		case websocket.TextMessage:
			msg := string(message)
			if msg == "END" {
				break recv
			}
			if len(msg) > 0 && len(msg) < 200 {
				name = msg
			}
		case websocket.BinaryMessage:
			buffer.Write(message)
		}
	}

	if buffer.Len() == 0 {
		h.writeResult(c, streamResult{Error: "No audio data received"})
		return
	}

	sub := &types.Submission{
		Kind:        types.SourceAudio,
		Data:        buffer.Bytes(),
		FileName:    name,
		Size:        int64(buffer.Len()),
		ContentType: "audio/webm",
	}

	res, err := h.pipeline.Process(context.Background(), sub)
	if err != nil {
		h.log.Error("stream submission failed", "name", name, "error", err)
		h.writeResult(c, streamResult{Error: "Error processing audio"})
		return
	}

	h.writeResult(c, streamResult{
		Success:       true,
		Transcription: res.Text,
		ID:            res.RecordID,
	})
}

func (h *StreamHandler) writeResult(c streamConn, res streamResult) {
	payload, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.log.Warn("websocket write failed", "error", err)
	}
}
