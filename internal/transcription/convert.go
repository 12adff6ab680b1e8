package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/mediascribe/mediascribe/internal/fault"
)

// Converter extracts the audio track of a video file by shelling out to
// an external conversion tool (ffmpeg by default).
type Converter struct {
	bin string
	log *slog.Logger
}

// NewConverter creates a converter around the given binary. An empty bin
// falls back to "ffmpeg" on PATH.
func NewConverter(bin string, log *slog.Logger) *Converter {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Converter{bin: bin, log: log}
}

// ExtractAudio strips the video stream and encodes the audio track to an
// MP3 file under outDir. The output file is owned by the caller.
func (c *Converter) ExtractAudio(ctx context.Context, videoPath, outDir string) (string, error) {
	outPath := filepath.Join(outDir, fmt.Sprintf("%d_output.mp3", time.Now().UnixNano()))

	cmd := exec.CommandContext(ctx, c.bin,
		"-i", videoPath,
		"-vn", // strip video
		"-acodec", "libmp3lame",
		"-y",
		outPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		c.log.Error("audio extraction failed",
			"video", videoPath,
			"error", err,
			"tool_output", string(output))
		return "", fault.Wrap(fault.Conversion, "extract audio from "+filepath.Base(videoPath), err)
	}

	return outPath, nil
}
