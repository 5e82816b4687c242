// Package elevenlabs provides an ElevenLabs-backed batch transcriber using
// the ElevenLabs speech-to-text REST API. It implements the
// transcribe.Transcriber interface.
package elevenlabs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/autoaccru/frontdesk/pkg/provider/transcribe"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	sttPath        = "/v1/speech-to-text"
	defaultModel   = "scribe_v1"
	defaultTimeout = 60 * time.Second
)

// Option is a functional option for configuring the ElevenLabs Provider.
type Option func(*Provider)

// WithModel sets the ElevenLabs speech-to-text model ID (e.g., "scribe_v1").
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithBaseURL overrides the API endpoint. Useful for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout. Default: 60s.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.timeout = d
	}
}

// Provider implements transcribe.Transcriber backed by the ElevenLabs
// speech-to-text API.
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	client  *resty.Client
}

// Compile-time interface check.
var _ transcribe.Transcriber = (*Provider)(nil)

// New creates a new ElevenLabs Provider. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("elevenlabs: apiKey must not be empty")
	}
	p := &Provider{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	p.client = resty.New().
		SetBaseURL(p.baseURL).
		SetTimeout(p.timeout).
		SetHeader("xi-api-key", p.apiKey)
	return p, nil
}

// sttResponse is the JSON body returned by the speech-to-text endpoint.
type sttResponse struct {
	Text                string  `json:"text"`
	LanguageCode        string  `json:"language_code"`
	LanguageProbability float64 `json:"language_probability"`
}

// Transcribe uploads the recording as multipart form data and returns the
// transcript. The audio goes in the "file" field with the model selected via
// "model_id", matching the ElevenLabs API contract.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, filename string) (transcribe.Result, error) {
	if filename == "" {
		filename = "audio"
	}

	var out sttResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		SetMultipartFormData(map[string]string{"model_id": p.model}).
		SetResult(&out).
		Post(sttPath)
	if err != nil {
		return transcribe.Result{}, fmt.Errorf("elevenlabs: transcribe: %w", err)
	}
	if resp.IsError() {
		return transcribe.Result{}, fmt.Errorf("elevenlabs: transcribe: status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.Text == "" {
		return transcribe.Result{}, fmt.Errorf("elevenlabs: transcribe: %w", transcribe.ErrNoTranscript)
	}

	return transcribe.Result{
		Text:         out.Text,
		LanguageCode: out.LanguageCode,
		Confidence:   out.LanguageProbability,
	}, nil
}
