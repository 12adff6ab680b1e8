package handlers

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gofiber/websocket/v2"

	"github.com/mediascribe/mediascribe/internal/fault"
	"github.com/mediascribe/mediascribe/internal/pipeline"
	"github.com/mediascribe/mediascribe/internal/types"
)

type wsFrame struct {
	messageType int
	data        []byte
}

// fakeStreamConn feeds a scripted frame sequence to the session loop and
// records everything written back. Once the script is exhausted, reads
// fail like a closed connection.
type fakeStreamConn struct {
	frames []wsFrame
	writes [][]byte
}

func (f *fakeStreamConn) ReadMessage() (int, []byte, error) {
	if len(f.frames) == 0 {
		return 0, nil, errors.New("connection closed")
	}
	fr := f.frames[0]
	f.frames = f.frames[1:]
	return fr.messageType, fr.data, nil
}

func (f *fakeStreamConn) WriteMessage(messageType int, data []byte) error {
	f.writes = append(f.writes, data)
	return nil
}

func binary(data string) wsFrame { return wsFrame{websocket.BinaryMessage, []byte(data)} }
func text(data string) wsFrame   { return wsFrame{websocket.TextMessage, []byte(data)} }

func decodeStreamResult(t *testing.T, conn *fakeStreamConn) streamResult {
	t.Helper()

	if len(conn.writes) != 1 {
		t.Fatalf("handler wrote %d frames, want 1", len(conn.writes))
	}
	var res streamResult
	if err := json.Unmarshal(conn.writes[0], &res); err != nil {
		t.Fatalf("decode result frame: %v", err)
	}
	return res
}

func TestStreamSuccess(t *testing.T) {
	p := &mockProcessor{res: &pipeline.Result{Text: "recorded words", RecordID: "rec-9"}}
	h := NewStreamHandler(p, discardLogger())

	conn := &fakeStreamConn{frames: []wsFrame{
		binary("chunk-one "),
		binary("chunk-two"),
		text("END"),
	}}
	h.run(conn)

	res := decodeStreamResult(t, conn)
	if !res.Success {
		t.Errorf("success = false, error = %q", res.Error)
	}
	if res.Transcription != "recorded words" {
		t.Errorf("transcription = %q", res.Transcription)
	}
	if res.ID != "rec-9" {
		t.Errorf("id = %q", res.ID)
	}

	if p.calls != 1 {
		t.Fatalf("pipeline called %d times, want 1", p.calls)
	}
	sub := p.lastSub
	if sub.Kind != types.SourceAudio {
		t.Errorf("kind = %q, want audio", sub.Kind)
	}
	if string(sub.Data) != "chunk-one chunk-two" {
		t.Errorf("buffered payload = %q", sub.Data)
	}
	if sub.Size != int64(len(sub.Data)) {
		t.Errorf("size = %d, want %d", sub.Size, len(sub.Data))
	}
	if sub.FileName != "live-recording.webm" {
		t.Errorf("fileName = %q, want the default name", sub.FileName)
	}
	if sub.ContentType != "audio/webm" {
		t.Errorf("contentType = %q", sub.ContentType)
	}
}

func TestStreamNameFrame(t *testing.T) {
	p := &mockProcessor{res: &pipeline.Result{Text: "x", RecordID: "rec-1"}}
	h := NewStreamHandler(p, discardLogger())

	conn := &fakeStreamConn{frames: []wsFrame{
		text("standup-notes.webm"),
		binary("audio"),
		text("END"),
	}}
	h.run(conn)

	if p.calls != 1 {
		t.Fatalf("pipeline called %d times, want 1", p.calls)
	}
	if p.lastSub.FileName != "standup-notes.webm" {
		t.Errorf("fileName = %q, want the name frame value", p.lastSub.FileName)
	}
}

func TestStreamOverlongNameIgnored(t *testing.T) {
	p := &mockProcessor{res: &pipeline.Result{Text: "x", RecordID: "rec-1"}}
	h := NewStreamHandler(p, discardLogger())

	conn := &fakeStreamConn{frames: []wsFrame{
		text(strings.Repeat("n", 200)),
		binary("audio"),
		text("END"),
	}}
	h.run(conn)

	if p.lastSub.FileName != "live-recording.webm" {
		t.Errorf("fileName = %q, want the default name", p.lastSub.FileName)
	}
}

func TestStreamEmptyBuffer(t *testing.T) {
	p := &mockProcessor{}
	h := NewStreamHandler(p, discardLogger())

	conn := &fakeStreamConn{frames: []wsFrame{text("END")}}
	h.run(conn)

	res := decodeStreamResult(t, conn)
	if res.Success {
		t.Error("success for an empty recording")
	}
	if res.Error != "No audio data received" {
		t.Errorf("error = %q", res.Error)
	}
	if p.calls != 0 {
		t.Error("pipeline invoked for an empty recording")
	}
}

func TestStreamPipelineFailure(t *testing.T) {
	p := &mockProcessor{err: fault.Newf(fault.Transcription, "upstream returned 500")}
	h := NewStreamHandler(p, discardLogger())

	conn := &fakeStreamConn{frames: []wsFrame{
		binary("audio"),
		text("END"),
	}}
	h.run(conn)

	res := decodeStreamResult(t, conn)
	if res.Success {
		t.Error("success despite a pipeline failure")
	}
	// Internal diagnostics must not reach the client.
	if res.Error != "Error processing audio" {
		t.Errorf("error = %q, want the generic message", res.Error)
	}
}

func TestStreamReadFailure(t *testing.T) {
	p := &mockProcessor{}
	h := NewStreamHandler(p, discardLogger())

	// The script ends without END: the next read fails like a dropped
	// connection.
	conn := &fakeStreamConn{frames: []wsFrame{binary("audio")}}
	h.run(conn)

	if p.calls != 0 {
		t.Error("pipeline invoked for a dropped connection")
	}
	if len(conn.writes) != 0 {
		t.Errorf("handler wrote %d frames after a dropped connection", len(conn.writes))
	}
}
