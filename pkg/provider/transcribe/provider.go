// Package transcribe defines the Transcriber interface for batch
// speech-to-text backends.
//
// Unlike a streaming STT session, a Transcriber takes a complete audio
// recording (one uploaded intake message) and returns the full transcript in
// a single call. The upstream service is a black box: audio bytes in,
// transcript text out. Failures are recoverable — the caller rejects the
// intake and keeps its stored records untouched.
package transcribe

import (
	"context"
	"errors"
)

// ErrNoTranscript is returned when the upstream service answered but produced
// no usable transcript text (missing or empty text field).
var ErrNoTranscript = errors.New("transcription service returned no transcript")

// Result is the outcome of a successful transcription.
type Result struct {
	// Text is the full transcript of the recording.
	Text string

	// LanguageCode is the detected language (e.g., "en"), when the provider
	// reports one.
	LanguageCode string

	// Confidence is the provider's confidence in the detected language or
	// transcript (0.0–1.0). Zero when the provider does not report one.
	Confidence float64
}

// Transcriber converts a complete audio recording to text. Implementations
// must be safe for concurrent use.
type Transcriber interface {
	// Transcribe sends the audio to the speech-to-text service and returns the
	// transcript. filename is a hint for the upstream service's container
	// format detection (e.g., "intake.webm"). A non-2xx upstream response or a
	// response without transcript text yields an error; [ErrNoTranscript]
	// identifies the latter.
	Transcribe(ctx context.Context, audio []byte, filename string) (Result, error)
}
