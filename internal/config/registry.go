package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/autoaccru/frontdesk/pkg/provider/transcribe"
)

// ErrProviderNotRegistered is returned by [Registry.CreateTranscriber] when
// no factory has been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps transcriber provider names to their constructor functions.
// It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	transcribers map[string]func(TranscriberEntry) (transcribe.Transcriber, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		transcribers: make(map[string]func(TranscriberEntry) (transcribe.Transcriber, error)),
	}
}

// RegisterTranscriber registers a transcriber factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterTranscriber(name string, factory func(TranscriberEntry) (transcribe.Transcriber, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcribers[name] = factory
}

// CreateTranscriber instantiates the transcriber configured in entry.
// Returns [ErrProviderNotRegistered] when entry.Name has no factory.
func (r *Registry) CreateTranscriber(entry TranscriberEntry) (transcribe.Transcriber, error) {
	r.mu.RLock()
	factory, ok := r.transcribers[entry.Name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: transcriber %q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}
