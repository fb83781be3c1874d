// Package session implements the editor workflow of the SoundCloud field: fetch
// uploads or resolve URLs, build a selection in one of three modes and commit it
// to the host document through a core.FieldSink.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"scinput/internal/core"
	"scinput/internal/i18n"
	"scinput/internal/soundcloud"
)

// Phase is the workflow state of a session.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseFetching  Phase = "fetching"
	PhaseReady     Phase = "ready"
	PhaseFailed    Phase = "failed"
	PhaseCommitted Phase = "committed"
)

// Guard errors. They are returned from actions and leave the session unchanged.
var (
	ErrCommitted      = errors.New("session already committed")
	ErrWrongMode      = errors.New("action not available in the current mode")
	ErrUnknownMode    = errors.New("unknown mode")
	ErrSlotOutOfRange = errors.New("slot index out of range")
	ErrUnknownTrack   = errors.New("track is not among the candidates")
	ErrNoCandidates   = errors.New("no uploads loaded")
	ErrNoPicker       = errors.New("no upload picker open")
	ErrBlankQuery     = errors.New("query is blank")
)

// Recorder observes commits and failures.
type Recorder interface {
	RecordCommit(mode string)
	RecordSessionError(kind string)
}

type nopRecorder struct{}

func (nopRecorder) RecordCommit(string)       {}
func (nopRecorder) RecordSessionError(string) {}

// Config carries what the host injects into a session.
type Config struct {
	Credentials core.Credentials
	// Language selects the message language, see i18n.Match.
	Language string
	// Mode is the initial mode. Defaults to ModeList.
	Mode ModeKind
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithRawResponse keeps the raw resolve responses for inspection in snapshots.
func WithRawResponse() Option {
	return func(s *Session) {
		s.keepRaw = true
	}
}

// Session is one editing interaction with the field. It is safe for concurrent
// use; the lock is not held during network or sink calls.
type Session struct {
	creds     core.Credentials
	api       core.SoundCloudAPI
	sink      core.FieldSink
	localizer *i18n.Localizer
	logger    *zap.Logger
	recorder  Recorder
	keepRaw   bool

	mu      sync.Mutex
	phase   Phase
	mode    Mode
	parked  map[ModeKind]Mode
	busy    bool
	failure *Failure
	notice  string
	raw     []json.RawMessage
}

func New(cfg Config, api core.SoundCloudAPI, sink core.FieldSink, opts ...Option) *Session {
	kind := cfg.Mode
	if !kind.Valid() {
		kind = ModeList
	}

	s := &Session{
		creds:     cfg.Credentials,
		api:       api,
		sink:      sink,
		localizer: i18n.NewLocalizer(cfg.Language),
		logger:    zap.NewNop(),
		recorder:  nopRecorder{},
		mode:      newMode(kind),
		parked:    make(map[ModeKind]Mode),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.phase = PhaseIdle
	if !s.creds.Complete() {
		s.phase = PhaseFailed
		s.failWith(&core.Error{Kind: core.KindMissingConfiguration})
		s.logger.Warn("Session created without complete credentials",
			zap.Strings("missing", s.creds.Missing()))
	}
	return s
}

// guard checks the preconditions shared by all mutating actions. Callers hold s.mu.
func (s *Session) guard() error {
	switch {
	case s.busy:
		return core.ErrBusy
	case s.phase == PhaseCommitted:
		return ErrCommitted
	case !s.creds.Complete():
		return fmt.Errorf("%w: missing %s", core.ErrMissingConfiguration, strings.Join(s.creds.Missing(), ", "))
	}
	return nil
}

// failWith stores err as the current failure. Callers hold s.mu.
func (s *Session) failWith(err error) {
	s.setFailure(describe(s.localizer, err))
}

func (s *Session) setFailure(f *Failure) {
	s.failure = f
	s.notice = ""
	s.recorder.RecordSessionError(string(f.Kind))
	s.logger.Info("Session failure",
		zap.String("kind", string(f.Kind)),
		zap.String("message", f.Message),
		zap.Error(f.Err))
}

// beginFetch marks the session busy before a network call. Callers hold s.mu.
func (s *Session) beginFetch() {
	s.busy = true
	s.phase = PhaseFetching
	s.failure = nil
	s.notice = ""
}

// SetMode switches the active mode. The accumulator of the previous mode is
// parked and restored when switching back.
func (s *Session) SetMode(kind ModeKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if s.mode.Kind() == kind {
		return nil
	}

	if mixed, ok := s.mode.(*MixedMode); ok {
		mixed.pickerOpen = false
	}
	s.parked[s.mode.Kind()] = s.mode

	if m, ok := s.parked[kind]; ok {
		delete(s.parked, kind)
		s.mode = m
	} else {
		s.mode = newMode(kind)
	}

	s.logger.Debug("Mode switched", zap.String("mode", string(kind)))
	return nil
}

// token fetches a fresh token for one operation.
func (s *Session) token(ctx context.Context) (string, error) {
	return s.api.AcquireToken(ctx, s.creds)
}

// fetchUploads acquires a token and lists the configured user's uploads.
func (s *Session) fetchUploads(ctx context.Context) ([]core.Track, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	tracks, err := s.api.ListUploads(ctx, token, s.creds.UserID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, &core.Error{Kind: core.KindNoTracksFound}
	}
	return tracks, nil
}

// LoadUploads fetches the uploads into the list mode candidates and opens a
// single empty slot.
func (s *Session) LoadUploads(ctx context.Context) error {
	s.mu.Lock()
	list, err := s.activeList()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.beginFetch()
	s.mu.Unlock()

	tracks, err := s.fetchUploads(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.phase = PhaseFailed
		s.failWith(err)
		return nil
	}

	list.candidates = tracks
	list.slots = []*int64{nil}
	s.phase = PhaseReady

	s.logger.Debug("Uploads loaded", zap.Int("count", len(tracks)))
	return nil
}

// activeList returns the active list mode after the common guards. Callers hold s.mu.
func (s *Session) activeList() (*ListMode, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	list, ok := s.mode.(*ListMode)
	if !ok {
		return nil, ErrWrongMode
	}
	return list, nil
}

// AddSlot appends an empty selection slot.
func (s *Session) AddSlot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.activeList()
	if err != nil {
		return err
	}
	if len(list.candidates) == 0 {
		return ErrNoCandidates
	}
	list.slots = append(list.slots, nil)
	return nil
}

// SelectSlot chooses the candidate trackID for slot index.
func (s *Session) SelectSlot(index int, trackID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.activeList()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list.slots) {
		return ErrSlotOutOfRange
	}
	if _, ok := list.candidate(trackID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTrack, trackID)
	}
	list.slots[index] = &trackID
	return nil
}

// ClearSlot empties slot index.
func (s *Session) ClearSlot(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.activeList()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list.slots) {
		return ErrSlotOutOfRange
	}
	list.slots[index] = nil
	return nil
}

// activeResolve returns the active resolve mode after the common guards. Callers hold s.mu.
func (s *Session) activeResolve() (*ResolveMode, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	resolve, ok := s.mode.(*ResolveMode)
	if !ok {
		return nil, ErrWrongMode
	}
	return resolve, nil
}

// AddQuerySlot appends an empty query input.
func (s *Session) AddQuerySlot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolve, err := s.activeResolve()
	if err != nil {
		return err
	}
	resolve.queries = append(resolve.queries, "")
	return nil
}

// SetQuery sets the text of query input index.
func (s *Session) SetQuery(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolve, err := s.activeResolve()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(resolve.queries) {
		return ErrSlotOutOfRange
	}
	resolve.queries[index] = text
	return nil
}

// activeMixed returns the active mixed mode after the common guards. Callers hold s.mu.
func (s *Session) activeMixed() (*MixedMode, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	mixed, ok := s.mode.(*MixedMode)
	if !ok {
		return nil, ErrWrongMode
	}
	return mixed, nil
}

// BeginAddFromUploads opens the upload picker. Uploads are fetched on first use
// and cached for the rest of the session.
func (s *Session) BeginAddFromUploads(ctx context.Context) error {
	s.mu.Lock()
	mixed, err := s.activeMixed()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if mixed.uploadsLoaded {
		mixed.pickerOpen = true
		s.mu.Unlock()
		return nil
	}
	s.beginFetch()
	s.mu.Unlock()

	tracks, err := s.fetchUploads(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.phase = PhaseFailed
		s.failWith(err)
		return nil
	}

	mixed.uploads = tracks
	mixed.uploadsLoaded = true
	mixed.pickerOpen = true
	s.phase = PhaseReady
	return nil
}

// PickUpload appends one upload to the mixed list and closes the picker.
func (s *Session) PickUpload(trackID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mixed, err := s.activeMixed()
	if err != nil {
		return err
	}
	if !mixed.pickerOpen {
		return ErrNoPicker
	}
	track, ok := mixed.upload(trackID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTrack, trackID)
	}

	mixed.tracks = append(mixed.tracks, track)
	mixed.pickerOpen = false
	return nil
}

// CancelPick closes the picker without adding anything.
func (s *Session) CancelPick() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mixed, err := s.activeMixed()
	if err != nil {
		return err
	}
	if !mixed.pickerOpen {
		return ErrNoPicker
	}
	mixed.pickerOpen = false
	return nil
}

// AddFromURL resolves rawURL and appends every resulting track to the mixed list.
func (s *Session) AddFromURL(ctx context.Context, rawURL string) error {
	query := strings.TrimSpace(rawURL)
	if query == "" {
		return ErrBlankQuery
	}

	s.mu.Lock()
	mixed, err := s.activeMixed()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.beginFetch()
	s.mu.Unlock()

	res, err := s.resolveOne(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if res != nil {
		s.keepRawResponses([]*core.Resolution{res})
	}
	if err != nil {
		s.phase = PhaseFailed
		s.failWith(err)
		return nil
	}

	mixed.tracks = append(mixed.tracks, res.Tracks...)
	s.phase = PhaseReady
	return nil
}

func (s *Session) resolveOne(ctx context.Context, query string) (*core.Resolution, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.api.Resolve(ctx, token, query)
	if err != nil {
		return nil, err
	}
	if len(res.Tracks) == 0 {
		return res, &core.Error{Kind: core.KindNoTracksFound, Query: query}
	}
	return res, nil
}

// RemoveMixed removes entry index from the mixed list.
func (s *Session) RemoveMixed(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mixed, err := s.activeMixed()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(mixed.tracks) {
		return ErrSlotOutOfRange
	}
	mixed.tracks = append(mixed.tracks[:index], mixed.tracks[index+1:]...)
	return nil
}

func (s *Session) keepRawResponses(results []*core.Resolution) {
	if !s.keepRaw {
		return
	}
	s.raw = nil
	for _, res := range results {
		if len(res.Raw) > 0 {
			s.raw = append(s.raw, res.Raw)
		}
	}
}

// Confirm commits the selection of the active mode. In resolve mode the queries
// are resolved first; tracks of successful queries are committed even if others
// failed, in which case the failures remain as the current error.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}

	kind := s.mode.Kind()
	var (
		tracks  []core.Track
		queries []string
	)
	switch m := s.mode.(type) {
	case *ListMode:
		tracks = m.selection()
	case *MixedMode:
		tracks = append([]core.Track(nil), m.tracks...)
	case *ResolveMode:
		queries = soundcloud.CleanQueries(m.queries)
	}

	if len(tracks) == 0 && len(queries) == 0 {
		s.failWith(&core.Error{Kind: core.KindEmptyCommit})
		s.mu.Unlock()
		return nil
	}

	previous := s.phase
	if kind == ModeResolve {
		s.beginFetch()
	} else {
		s.busy = true
	}
	s.mu.Unlock()

	var warning *Failure
	if kind == ModeResolve {
		agg, err := s.resolveAll(ctx, queries)

		s.mu.Lock()
		if agg != nil {
			s.keepRawResponses(agg.Resolutions)
		}
		if agg == nil || len(agg.Tracks) == 0 {
			s.busy = false
			s.phase = PhaseFailed
			if agg != nil {
				s.setFailure(describeAggregate(s.localizer, agg.Failures, err))
			} else {
				s.failWith(err)
			}
			s.mu.Unlock()
			return nil
		}
		if err != nil {
			warning = describeAggregate(s.localizer, agg.Failures, err)
			s.logger.Warn("Partial resolve failure",
				zap.Int("failed_queries", len(agg.Failures)),
				zap.Int("tracks", len(agg.Tracks)))
		}
		s.mu.Unlock()

		tracks = agg.Tracks
		previous = PhaseReady
	}

	err := s.sink.Set(ctx, core.NewSoundcloudData(tracks))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.phase = previous
		s.failWith(&core.Error{Kind: core.KindCommitFailed, Err: err})
		return nil
	}

	s.phase = PhaseCommitted
	s.failure = nil
	if warning != nil {
		s.setFailure(warning)
	}
	s.notice = s.localizer.T("success.committed", len(tracks))
	s.recorder.RecordCommit(string(kind))
	s.logger.Info("Selection committed",
		zap.String("mode", string(kind)),
		zap.Int("tracks", len(tracks)))
	return nil
}

func (s *Session) resolveAll(ctx context.Context, queries []string) (*soundcloud.Aggregate, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	return soundcloud.ResolveAll(ctx, s.api, token, queries)
}

// Reset clears the field on the host document and starts over with empty
// accumulators in the current mode.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return core.ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	err := s.sink.Unset(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.failWith(&core.Error{Kind: core.KindCommitFailed, Err: err})
		return nil
	}

	s.mode = newMode(s.mode.Kind())
	s.parked = make(map[ModeKind]Mode)
	s.raw = nil
	s.failure = nil
	s.phase = PhaseIdle
	if !s.creds.Complete() {
		s.phase = PhaseFailed
		s.failWith(&core.Error{Kind: core.KindMissingConfiguration})
	}
	s.notice = s.localizer.T("success.cleared")

	s.logger.Info("Field reset")
	return nil
}
