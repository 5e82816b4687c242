// Package httpapi exposes the patient intake operations over a JSON HTTP API.
//
// Routes:
//
//	GET  /patients            — every recorded visit
//	POST /patients            — record a structured visit
//	GET  /patients/unique     — latest visit per patient identity
//	GET  /patients/{id}/stats — live visit statistics for a record's identity
//	POST /voice/upload        — multipart audio upload, transcribed and parsed
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/autoaccru/frontdesk/internal/app"
	"github.com/autoaccru/frontdesk/internal/patient"
)

// maxUploadBytes caps the size of an uploaded voice recording.
const maxUploadBytes = 25 << 20 // 25 MiB, ElevenLabs' own upload limit

// Service is the subset of [app.App] the HTTP handlers need.
type Service interface {
	SubmitManualVisit(ctx context.Context, req app.ManualVisitRequest) (patient.VisitRecord, error)
	SubmitVoiceAudio(ctx context.Context, audio []byte, filename string) (patient.VisitRecord, string, error)
	ListAll(ctx context.Context) ([]patient.VisitRecord, error)
	ListLatestPerIdentity(ctx context.Context) ([]patient.VisitRecord, error)
	VisitStats(ctx context.Context, id int64) (patient.Stats, error)
}

// Handler serves the intake API.
type Handler struct {
	svc Service
}

// NewHandler creates a [Handler] backed by svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches all API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /patients", h.listPatients)
	mux.HandleFunc("POST /patients", h.createPatient)
	mux.HandleFunc("GET /patients/unique", h.listUnique)
	mux.HandleFunc("GET /patients/{id}/stats", h.patientStats)
	mux.HandleFunc("POST /voice/upload", h.voiceUpload)
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) listUnique(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListLatestPerIdentity(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var req app.ManualVisitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	rec, err := h.svc.SubmitManualVisit(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) patientStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid record id")
		return
	}

	stats, err := h.svc.VisitStats(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// voiceUpload accepts a multipart form with a single "file" field holding the
// recording. The response echoes the transcript alongside the saved record.
func (h *Handler) voiceUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "missing multipart field \"file\"")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "reading upload: "+err.Error())
		return
	}

	rec, transcript, err := h.svc.SubmitVoiceAudio(r.Context(), audio, header.Filename)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, voiceUploadResponse{
		Transcript: transcript,
		Patient:    rec,
	})
}

// voiceUploadResponse is the POST /voice/upload response body.
type voiceUploadResponse struct {
	Transcript string              `json:"transcript"`
	Patient    patient.VisitRecord `json:"patient"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP status codes: unknown records are
// 404, transcription backend failures surface as 502, and a server running
// without any transcriber rejects uploads with 503.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, patient.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrTranscription):
		status = http.StatusBadGateway
	case errors.Is(err, app.ErrNoTranscriber):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeErrorMessage(w, status, err.Error())
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}
