// Package field binds selection sessions to host documents and renders stored
// values for display.
package field

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"scinput/internal/core"
	"scinput/internal/store"
)

// ErrInvalidValue is returned when a value is not a committable SoundCloud value.
var ErrInvalidValue = errors.New("invalid soundcloud value")

// Binding is the core.FieldSink of one document.
type Binding struct {
	store  store.DocumentStore
	docID  string
	logger *zap.Logger
}

var _ core.FieldSink = (*Binding)(nil)

func NewBinding(st store.DocumentStore, docID string, logger *zap.Logger) *Binding {
	return &Binding{
		store:  st,
		docID:  docID,
		logger: logger,
	}
}

// Set stores data on the document, replacing any previous value.
func (b *Binding) Set(ctx context.Context, data core.SoundcloudData) error {
	if data.Type != core.TypeSoundcloud {
		return fmt.Errorf("%w: type %q", ErrInvalidValue, data.Type)
	}
	if len(data.Tracks) == 0 {
		return fmt.Errorf("%w: no tracks", ErrInvalidValue)
	}

	if err := b.store.Put(ctx, b.docID, data); err != nil {
		return fmt.Errorf("failed to set field on %s: %w", b.docID, err)
	}

	b.logger.Info("Field set",
		zap.String("doc_id", b.docID),
		zap.Int("tracks", len(data.Tracks)))
	return nil
}

// Unset clears the document's value.
func (b *Binding) Unset(ctx context.Context) error {
	if err := b.store.Delete(ctx, b.docID); err != nil {
		return fmt.Errorf("failed to unset field on %s: %w", b.docID, err)
	}

	b.logger.Info("Field unset", zap.String("doc_id", b.docID))
	return nil
}
