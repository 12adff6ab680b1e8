// Package pipeline drives one media submission from upload to persisted
// transcript: stage the payload in scratch space, extract audio when the
// source is video, call the speech-to-text engine, persist the record,
// and remove every scratch file regardless of outcome.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/mediascribe/mediascribe/internal/fault"
	"github.com/mediascribe/mediascribe/internal/scratch"
	"github.com/mediascribe/mediascribe/internal/types"
)

// AudioExtractor pulls the audio track out of a video file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, outDir string) (string, error)
}

// Transcriber converts an audio payload to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, fileName, mimeType string) (string, error)
}

// RecordCreator persists transcript records.
type RecordCreator interface {
	Create(ctx context.Context, content string, kind types.SourceKind, fileName *string, fileSize *int64) (*types.Transcript, error)
}

// Archiver copies a persisted transcript to secondary storage.
type Archiver interface {
	Archive(rec *types.Transcript) (string, error)
}

// Result is the successful outcome of one pipeline run.
type Result struct {
	Text     string
	RecordID string
}

// Pipeline orchestrates the ingestion steps. One instance is shared by
// all requests; each Process call is independent.
type Pipeline struct {
	scratch     *scratch.Store
	extractor   AudioExtractor
	transcriber Transcriber
	records     RecordCreator
	archiver    Archiver // optional, may be nil
	log         *slog.Logger
}

// New wires the pipeline. archiver may be nil to disable archival.
func New(store *scratch.Store, extractor AudioExtractor, transcriber Transcriber, records RecordCreator, archiver Archiver, log *slog.Logger) *Pipeline {
	return &Pipeline{
		scratch:     store,
		extractor:   extractor,
		transcriber: transcriber,
		records:     records,
		archiver:    archiver,
		log:         log,
	}
}

// Process runs a submission through the pipeline. Every scratch file
// created along the way is registered on creation and removed before
// Process returns, on success and failure alike.
func (p *Pipeline) Process(ctx context.Context, sub *types.Submission) (*Result, error) {
	if len(sub.Data) == 0 {
		return nil, fault.Newf(fault.Validation, "no %s file provided", sub.Kind)
	}

	var created []string
	defer func() {
		for _, path := range created {
			p.scratch.Remove(path)
		}
	}()

	stagedPath, err := p.scratch.Write(sub.FileName, sub.Data)
	if err != nil {
		return nil, err
	}
	created = append(created, stagedPath)

	// Video submissions go through the conversion tool first; audio is
	// fed to the engine as received, with no re-encoding.
	audioBytes := sub.Data
	audioName := sub.FileName
	audioMIME := sub.ContentType
	if sub.Kind == types.SourceVideo {
		audioPath, err := p.extractor.ExtractAudio(ctx, stagedPath, p.scratch.Dir())
		if err != nil {
			return nil, err
		}
		created = append(created, audioPath)

		audioBytes, err = p.scratch.Read(audioPath)
		if err != nil {
			return nil, err
		}
		audioName = filepath.Base(audioPath)
		audioMIME = "audio/mpeg"
	}

	text, err := p.transcriber.Transcribe(ctx, audioBytes, audioName, audioMIME)
	if err != nil {
		return nil, err
	}

	rec, err := p.records.Create(ctx, text, sub.Kind, &sub.FileName, &sub.Size)
	if err != nil {
		return nil, err
	}

	if p.archiver != nil {
		if url, err := p.archiver.Archive(rec); err != nil {
			p.log.Warn("transcript archival failed", "id", rec.ID, "error", err)
		} else {
			p.log.Info("transcript archived", "id", rec.ID, "url", url)
		}
	}

	p.log.Info("submission transcribed",
		"id", rec.ID,
		"type", sub.Kind,
		"file", sub.FileName,
		"chars", len(text))

	return &Result{Text: text, RecordID: rec.ID}, nil
}
