// Package mock provides a test double for the transcribe package interface.
//
// Set Result/Err for a fixed response, or TranscribeFunc for per-call
// behavior. Calls records every invocation for inspection.
package mock

import (
	"context"
	"sync"

	"github.com/autoaccru/frontdesk/pkg/provider/transcribe"
)

// TranscribeCall records a single invocation of Transcriber.Transcribe.
type TranscribeCall struct {
	// Audio is the audio payload passed to Transcribe.
	Audio []byte
	// Filename is the filename hint passed to Transcribe.
	Filename string
}

// Transcriber is a mock implementation of transcribe.Transcriber.
type Transcriber struct {
	mu sync.Mutex

	// TranscribeFunc, if non-nil, handles each call. Result and Err are
	// ignored when it is set.
	TranscribeFunc func(ctx context.Context, audio []byte, filename string) (transcribe.Result, error)

	// Result is returned from Transcribe when TranscribeFunc is nil.
	Result transcribe.Result

	// Err, if non-nil, is returned as the error from Transcribe.
	Err error

	// Calls records every call to Transcribe.
	Calls []TranscribeCall
}

// Compile-time interface check.
var _ transcribe.Transcriber = (*Transcriber)(nil)

// Transcribe records the call and returns the scripted response.
func (m *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (transcribe.Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, TranscribeCall{Audio: audio, Filename: filename})
	fn := m.TranscribeFunc
	res, err := m.Result, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, audio, filename)
	}
	if err != nil {
		return transcribe.Result{}, err
	}
	return res, nil
}

// CallCount returns the number of recorded Transcribe calls.
func (m *Transcriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
