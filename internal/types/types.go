package types

import "time"

// SourceKind identifies what kind of media a submission carries.
type SourceKind string

const (
	SourceAudio SourceKind = "audio"
	SourceVideo SourceKind = "video"
)

// Submission is one uploaded media payload. It lives for the duration of
// a single pipeline run and is never persisted directly.
type Submission struct {
	Kind     SourceKind
	Data     []byte
	FileName string
	// Size is the size declared by the client; it is not verified
	// against len(Data).
	Size        int64
	ContentType string
}

// Transcript is a durable transcription record. Records are immutable
// after creation; CreatedAt is the sole ordering key for listing.
type Transcript struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Type      SourceKind `json:"type"`
	FileName  *string    `json:"fileName"`
	FileSize  *int64     `json:"fileSize"`
	CreatedAt time.Time  `json:"createdAt"`
}
