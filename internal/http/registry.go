package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"scinput/internal/session"
)

// sessionEntry is a registered session and the document it edits.
type sessionEntry struct {
	session *session.Session
	docID   string
}

// Registry keeps open sessions in an expiring LRU. An evicted session is
// discarded like an abandoned editing interaction.
type Registry struct {
	sessions *expirable.LRU[string, *sessionEntry]
	logger   *zap.Logger
}

func NewRegistry(maxSessions int, ttl time.Duration, logger *zap.Logger) *Registry {
	r := &Registry{logger: logger}
	r.sessions = expirable.NewLRU[string, *sessionEntry](maxSessions, func(id string, entry *sessionEntry) {
		r.logger.Debug("Session discarded",
			zap.String("session_id", id),
			zap.String("doc_id", entry.docID))
	}, ttl)
	return r
}

// Add registers s for docID and returns its new id.
func (r *Registry) Add(docID string, s *session.Session) string {
	id := uuid.NewString()
	r.sessions.Add(id, &sessionEntry{session: s, docID: docID})
	return id
}

// Get returns the session with id. A hit does not extend its lifetime.
func (r *Registry) Get(id string) (*session.Session, string, bool) {
	entry, ok := r.sessions.Get(id)
	if !ok {
		return nil, "", false
	}
	return entry.session, entry.docID, true
}

func (r *Registry) Remove(id string) {
	r.sessions.Remove(id)
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Report publishes the open session count to m every interval until ctx is done.
func (r *Registry) Report(ctx context.Context, m *Metrics, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.SetActiveSessions(r.Len())
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
