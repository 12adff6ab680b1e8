// Package transcription talks to the external pieces of the pipeline:
// the media conversion tool and the upstream speech-to-text engine.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/mediascribe/mediascribe/internal/fault"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "whisper-1"
)

// Client sends audio payloads to an OpenAI-compatible transcription
// endpoint and returns the recognized text verbatim.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient creates a transcription client. Empty baseURL and model fall
// back to the OpenAI defaults.
func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads audio to the speech-to-text engine and returns the
// transcript text. A 401 from upstream is a configuration fault: the
// credential is invalid for every request, not just this one. Any other
// upstream failure is a transcription fault carrying the status and body
// for diagnostics. At most one upstream call is made per invocation.
func (c *Client) Transcribe(ctx context.Context, audio []byte, fileName, mimeType string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := createAudioPart(mw, fileName, mimeType)
	if err != nil {
		return "", fault.Wrap(fault.Transcription, "build upload form", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fault.Wrap(fault.Transcription, "build upload form", err)
	}
	if err := mw.WriteField("model", c.model); err != nil {
		return "", fault.Wrap(fault.Transcription, "build upload form", err)
	}
	if err := mw.Close(); err != nil {
		return "", fault.Wrap(fault.Transcription, "build upload form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fault.Wrap(fault.Transcription, "build upstream request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fault.Wrap(fault.Transcription, "call speech-to-text engine", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fault.New(fault.Configuration,
			"invalid or expired speech-to-text API key, check the credential configuration")
	}
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fault.Newf(fault.Transcription,
			"speech-to-text engine returned %d: %s", resp.StatusCode, string(respBody))
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fault.Wrap(fault.Transcription, "decode upstream response", err)
	}

	return tr.Text, nil
}

// createAudioPart builds the file part with the payload's own MIME type;
// multipart.CreateFormFile would hardcode application/octet-stream.
func createAudioPart(mw *multipart.Writer, fileName, mimeType string) (io.Writer, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, strings.ReplaceAll(fileName, `"`, `_`)))
	h.Set("Content-Type", mimeType)
	return mw.CreatePart(h)
}
