package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/autoaccru/frontdesk/internal/intake"
	"github.com/autoaccru/frontdesk/internal/patient"
)

var (
	// ErrNoTranscriber is returned by SubmitVoiceAudio when no transcription
	// provider is configured.
	ErrNoTranscriber = errors.New("app: no transcription provider configured")

	// ErrTranscription wraps failures from the speech-to-text backend so the
	// HTTP layer can distinguish upstream faults from local ones.
	ErrTranscription = errors.New("app: transcription failed")
)

// ManualVisitRequest is a visit submitted through the structured intake form
// rather than a voice recording. Fields are stored as given; only the phone
// is normalized.
type ManualVisitRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     string  `json:"address"`
}

// SubmitManualVisit records a structured visit and returns the saved record
// with its new-vs-returning snapshot.
func (a *App) SubmitManualVisit(ctx context.Context, req ManualVisitRequest) (patient.VisitRecord, error) {
	rec, err := a.visits.RecordVisit(ctx, patient.VisitRecord{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	a.metrics.RecordIntake(ctx, "manual", err, rec.NewPatient)
	return rec, err
}

// SubmitVoiceTranscript runs a raw transcript through the extraction
// pipeline and records the resulting visit: normalize, optionally rewrite
// spoken digit words, extract fields, optionally correct misheard names
// against the known-patient roster, fill defaults, then reconcile identity.
func (a *App) SubmitVoiceTranscript(ctx context.Context, transcript string) (patient.VisitRecord, error) {
	normalized := intake.Normalize(transcript)
	if a.cfg.Intake.SpokenDigits {
		normalized = intake.SpokenPhoneDigits(normalized)
	}

	c := intake.Extract(normalized)
	if a.matcher != nil {
		c = a.correctNames(ctx, c)
	}
	c = intake.ApplyDefaults(c)

	rec, err := a.visits.RecordVoiceVisit(ctx, patient.VisitRecord{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
	})
	a.metrics.RecordIntake(ctx, "voice", err, rec.NewPatient)
	return rec, err
}

// SubmitVoiceAudio transcribes an uploaded recording and feeds the resulting
// transcript through [App.SubmitVoiceTranscript]. The transcript text is
// returned alongside the record so callers can echo it back.
func (a *App) SubmitVoiceAudio(ctx context.Context, audio []byte, filename string) (patient.VisitRecord, string, error) {
	if a.transcriber == nil {
		return patient.VisitRecord{}, "", ErrNoTranscriber
	}

	start := time.Now()
	res, err := a.transcriber.Transcribe(ctx, audio, filename)
	provider := attribute.String("provider", a.transcriberName)
	if a.metrics.TranscriptionDuration != nil {
		a.metrics.TranscriptionDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(provider))
	}
	if err != nil {
		if a.metrics.TranscriptionErrors != nil {
			a.metrics.TranscriptionErrors.Add(ctx, 1, metric.WithAttributes(provider))
		}
		a.metrics.RecordIntake(ctx, "voice", err, false)
		return patient.VisitRecord{}, "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	rec, err := a.SubmitVoiceTranscript(ctx, res.Text)
	return rec, res.Text, err
}

// VisitStats returns the live visit statistics for the identity of the
// record with the given id.
func (a *App) VisitStats(ctx context.Context, id int64) (patient.Stats, error) {
	return a.visits.VisitStats(ctx, id)
}

// ListAll returns every recorded visit.
func (a *App) ListAll(ctx context.Context) ([]patient.VisitRecord, error) {
	return a.visits.ListAll(ctx)
}

// ListLatestPerIdentity returns the most recent visit per patient identity.
func (a *App) ListLatestPerIdentity(ctx context.Context) ([]patient.VisitRecord, error) {
	return a.visits.ListLatestPerIdentity(ctx)
}

// correctNames runs the extracted names through the phonetic matcher using
// the distinct names already on file as the roster. Roster lookup failures
// only disable correction for this transcript; they never fail the intake.
func (a *App) correctNames(ctx context.Context, c intake.Candidate) intake.Candidate {
	records, err := a.store.FindAll(ctx)
	if err != nil {
		return c
	}

	var firstNames, lastNames []string
	seenFirst := make(map[string]struct{})
	seenLast := make(map[string]struct{})
	for _, r := range records {
		if f := strings.TrimSpace(r.FirstName); f != "" && f != intake.UnknownName {
			if _, ok := seenFirst[f]; !ok {
				seenFirst[f] = struct{}{}
				firstNames = append(firstNames, f)
			}
		}
		if l := strings.TrimSpace(r.LastName); l != "" && l != intake.UnknownName {
			if _, ok := seenLast[l]; !ok {
				seenLast[l] = struct{}{}
				lastNames = append(lastNames, l)
			}
		}
	}
	return a.matcher.CorrectCandidate(c, firstNames, lastNames)
}
