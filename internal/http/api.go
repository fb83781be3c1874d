package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"scinput/internal/core"
	"scinput/internal/field"
	"scinput/internal/i18n"
	"scinput/internal/session"
	"scinput/internal/store"
)

const maxRequestBody = 64 << 10

var errInvalidRequest = errors.New("invalid request")

// SessionFactory builds a session that commits to sink.
type SessionFactory func(sink core.FieldSink, language string, mode session.ModeKind) *session.Session

// API serves the editor endpoints: sessions acting on a document's field,
// and the stored field values themselves.
type API struct {
	store      store.DocumentStore
	sessions   *Registry
	newSession SessionFactory
	language   string
	logger     *zap.Logger
}

func NewAPI(st store.DocumentStore, sessions *Registry, factory SessionFactory, language string, logger *zap.Logger) *API {
	return &API{
		store:      st,
		sessions:   sessions,
		newSession: factory,
		language:   language,
		logger:     logger,
	}
}

// Ready reports whether the document store can serve requests.
func (a *API) Ready(ctx context.Context) error {
	if p, ok := a.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/documents/{doc}/sessions", a.createSession)
	mux.HandleFunc("GET /api/documents/{doc}/soundcloud", a.getField)
	mux.HandleFunc("DELETE /api/documents/{doc}/soundcloud", a.deleteField)

	mux.HandleFunc("GET /api/sessions/{id}", a.getSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", a.closeSession)
	mux.HandleFunc("POST /api/sessions/{id}/mode", a.sessionAction(setMode))
	mux.HandleFunc("POST /api/sessions/{id}/uploads", a.sessionAction(loadUploads))
	mux.HandleFunc("POST /api/sessions/{id}/slots", a.sessionAction(addSlot))
	mux.HandleFunc("PUT /api/sessions/{id}/slots/{i}", a.sessionAction(updateSlot))
	mux.HandleFunc("POST /api/sessions/{id}/queries", a.sessionAction(addQuery))
	mux.HandleFunc("PUT /api/sessions/{id}/queries/{i}", a.sessionAction(setQuery))
	mux.HandleFunc("POST /api/sessions/{id}/mixed/uploads", a.sessionAction(beginPick))
	mux.HandleFunc("POST /api/sessions/{id}/mixed/pick", a.sessionAction(pickUpload))
	mux.HandleFunc("POST /api/sessions/{id}/mixed/cancel", a.sessionAction(cancelPick))
	mux.HandleFunc("POST /api/sessions/{id}/mixed/url", a.sessionAction(addFromURL))
	mux.HandleFunc("DELETE /api/sessions/{id}/mixed/{i}", a.sessionAction(removeMixed))
	mux.HandleFunc("POST /api/sessions/{id}/confirm", a.sessionAction(confirm))
	mux.HandleFunc("POST /api/sessions/{id}/reset", a.sessionAction(reset))
}

type createSessionRequest struct {
	Mode     session.ModeKind `json:"mode"`
	Language string           `json:"language"`
}

type sessionResponse struct {
	ID       string           `json:"id"`
	DocID    string           `json:"doc_id"`
	Snapshot session.Snapshot `json:"snapshot"`
}

type errorResponse struct {
	Error    string            `json:"error"`
	Kind     core.ErrorKind    `json:"kind,omitempty"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
}

func (a *API) createSession(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("doc")

	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, err, nil)
		return
	}
	if req.Mode != "" && !req.Mode.Valid() {
		a.writeError(w, fmt.Errorf("%w: %q", session.ErrUnknownMode, req.Mode), nil)
		return
	}
	language := a.requestLanguage(r, req.Language)

	s := a.newSession(field.NewBinding(a.store, docID, a.logger.Named("field")), language, req.Mode)
	id := a.sessions.Add(docID, s)

	a.logger.Info("Session opened",
		zap.String("session_id", id),
		zap.String("doc_id", docID),
		zap.String("language", language))

	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, DocID: docID, Snapshot: s.Snapshot()})
}

func (a *API) getSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, docID, ok := a.sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, DocID: docID, Snapshot: s.Snapshot()})
}

func (a *API) closeSession(w http.ResponseWriter, r *http.Request) {
	a.sessions.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// sessionAction runs act on the addressed session and responds with its snapshot.
// Workflow failures are part of the snapshot; only rejected actions are errors.
func (a *API) sessionAction(act func(r *http.Request, s *session.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := a.sessions.Get(r.PathValue("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}

		if err := act(r, s); err != nil {
			snap := s.Snapshot()
			a.writeError(w, err, &snap)
			return
		}
		writeJSON(w, http.StatusOK, s.Snapshot())
	}
}

func setMode(r *http.Request, s *session.Session) error {
	var req struct {
		Mode session.ModeKind `json:"mode"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return s.SetMode(req.Mode)
}

func loadUploads(r *http.Request, s *session.Session) error {
	return s.LoadUploads(detached(r))
}

func addSlot(_ *http.Request, s *session.Session) error {
	return s.AddSlot()
}

func updateSlot(r *http.Request, s *session.Session) error {
	index, err := pathIndex(r)
	if err != nil {
		return err
	}
	var req struct {
		TrackID *int64 `json:"track_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.TrackID == nil {
		return s.ClearSlot(index)
	}
	return s.SelectSlot(index, *req.TrackID)
}

func addQuery(_ *http.Request, s *session.Session) error {
	return s.AddQuerySlot()
}

func setQuery(r *http.Request, s *session.Session) error {
	index, err := pathIndex(r)
	if err != nil {
		return err
	}
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return s.SetQuery(index, req.Query)
}

func beginPick(r *http.Request, s *session.Session) error {
	return s.BeginAddFromUploads(detached(r))
}

func pickUpload(r *http.Request, s *session.Session) error {
	var req struct {
		TrackID *int64 `json:"track_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.TrackID == nil {
		return fmt.Errorf("%w: track_id is required", errInvalidRequest)
	}
	return s.PickUpload(*req.TrackID)
}

func cancelPick(_ *http.Request, s *session.Session) error {
	return s.CancelPick()
}

func addFromURL(r *http.Request, s *session.Session) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return s.AddFromURL(detached(r), req.URL)
}

func removeMixed(r *http.Request, s *session.Session) error {
	index, err := pathIndex(r)
	if err != nil {
		return err
	}
	return s.RemoveMixed(index)
}

func confirm(r *http.Request, s *session.Session) error {
	return s.Confirm(detached(r))
}

func reset(r *http.Request, s *session.Session) error {
	return s.Reset(detached(r))
}

func (a *API) getField(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("doc")
	data, err := a.store.Get(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no soundcloud value on document"})
		return
	}
	if err != nil {
		a.logger.Error("Failed to read field", zap.String("doc_id", docID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read field"})
		return
	}

	l := i18n.NewLocalizer(a.requestLanguage(r, ""))
	writeJSON(w, http.StatusOK, field.Render(l, data))
}

func (a *API) deleteField(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("doc")
	if err := field.NewBinding(a.store, docID, a.logger.Named("field")).Unset(r.Context()); err != nil {
		a.logger.Error("Failed to unset field", zap.String("doc_id", docID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to unset field"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestLanguage prefers an explicit choice, then Accept-Language, then the configured default.
func (a *API) requestLanguage(r *http.Request, explicit string) string {
	switch {
	case explicit != "":
		return i18n.Match(explicit)
	case r.Header.Get("Accept-Language") != "":
		return i18n.Match(r.Header.Get("Accept-Language"))
	}
	return i18n.Match(a.language)
}

func (a *API) writeError(w http.ResponseWriter, err error, snap *session.Snapshot) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("Session action failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: core.KindOf(err), Snapshot: snap})
}

func statusFor(err error) int {
	switch core.KindOf(err) {
	case core.KindBusy:
		return http.StatusConflict
	case core.KindMissingConfiguration:
		return http.StatusPreconditionFailed
	}

	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, session.ErrUnknownMode),
		errors.Is(err, session.ErrSlotOutOfRange),
		errors.Is(err, session.ErrUnknownTrack),
		errors.Is(err, session.ErrBlankQuery):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrCommitted),
		errors.Is(err, session.ErrWrongMode),
		errors.Is(err, session.ErrNoCandidates),
		errors.Is(err, session.ErrNoPicker):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// detached returns the request context without its cancellation, so upstream
// fetches and commits run to completion after a client disconnect.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// decodeBody reads an optional JSON body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

func pathIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("i"))
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", errInvalidRequest, r.PathValue("i"))
	}
	return index, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
