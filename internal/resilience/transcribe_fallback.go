package resilience

import (
	"context"

	"github.com/autoaccru/frontdesk/pkg/provider/transcribe"
)

// TranscriberFallback implements [transcribe.Transcriber] with automatic
// failover across multiple speech-to-text backends. Each backend has its own
// circuit breaker, so a clinic keeps taking voice intakes while the primary
// transcription service is down.
type TranscriberFallback struct {
	group *FallbackGroup[transcribe.Transcriber]
}

// Compile-time interface assertion.
var _ transcribe.Transcriber = (*TranscriberFallback)(nil)

// NewTranscriberFallback creates a [TranscriberFallback] with primary as the
// preferred backend.
func NewTranscriberFallback(primary transcribe.Transcriber, primaryName string, cfg FallbackConfig) *TranscriberFallback {
	return &TranscriberFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional transcriber as a fallback.
func (f *TranscriberFallback) AddFallback(name string, t transcribe.Transcriber) {
	f.group.AddFallback(name, t)
}

// Transcribe runs the recording through the first healthy backend. If the
// primary fails or its breaker is open, subsequent fallbacks are tried.
func (f *TranscriberFallback) Transcribe(ctx context.Context, audio []byte, filename string) (transcribe.Result, error) {
	return ExecuteWithResult(f.group, func(t transcribe.Transcriber) (transcribe.Result, error) {
		return t.Transcribe(ctx, audio, filename)
	})
}
