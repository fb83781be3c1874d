package session

import (
	"errors"
	"strings"

	"scinput/internal/core"
	"scinput/internal/i18n"
	"scinput/internal/soundcloud"
	"scinput/pkg/musiclink"
)

var providerNames = map[string]string{
	"spotify":      "Spotify",
	"youtube":      "YouTube",
	"apple_music":  "Apple Music",
	"tidal":        "TIDAL",
	"beatport":     "Beatport",
	"amazon_music": "Amazon Music",
}

// Failure is the current error of a session, ready for display.
type Failure struct {
	Kind    core.ErrorKind `json:"kind"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// describe turns a workflow error into a localized Failure.
func describe(l *i18n.Localizer, err error) *Failure {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		return &Failure{Message: l.T("error.generic"), Err: err}
	}
	return &Failure{Kind: coreErr.Kind, Message: message(l, coreErr), Err: err}
}

// describeAggregate reports every failed query of a multi-query resolution.
// The kind is that of the first failure.
func describeAggregate(l *i18n.Localizer, failures []*soundcloud.QueryError, err error) *Failure {
	if len(failures) == 0 {
		return describe(l, err)
	}

	first := describe(l, failures[0].Err)
	messages := make([]string, 0, len(failures))
	for _, qerr := range failures {
		messages = append(messages, describe(l, qerr.Err).Message)
	}
	return &Failure{Kind: first.Kind, Message: strings.Join(messages, "\n"), Err: err}
}

func message(l *i18n.Localizer, e *core.Error) string {
	switch e.Kind {
	case core.KindMissingConfiguration:
		return l.T("error.missing_configuration")
	case core.KindTokenAcquisitionFailed:
		if e.StatusCode == 0 {
			return l.T("error.token.request")
		}
		reason := e.Message
		if reason == "" {
			reason = l.T("error.token.default")
		}
		return l.T("error.token.status", reason, e.StatusCode)
	case core.KindUploadFetchFailed:
		switch {
		case e.Message != "":
			return l.T("error.api", e.Message)
		case e.Err != nil:
			return l.T("error.uploads.request")
		default:
			return l.T("error.uploads.unknown")
		}
	case core.KindResolveFailed:
		if e.Err != nil {
			return l.T("error.resolve.request")
		}
		if msg, ok := foreignLink(l, e.Query); ok {
			return msg
		}
		return l.T("error.resolve.failed", soundcloud.EscapeQuery(e.Query))
	case core.KindNoTracksFound:
		if e.Query != "" {
			if msg, ok := foreignLink(l, e.Query); ok {
				return msg
			}
			return l.T("error.resolve.no_tracks", soundcloud.EscapeQuery(e.Query))
		}
		return l.T("error.no_tracks")
	case core.KindEmptyCommit:
		return l.T("error.empty_commit")
	case core.KindCommitFailed:
		return l.T("error.commit_failed")
	case core.KindBusy:
		return l.T("error.busy")
	default:
		return l.T("error.generic")
	}
}

// foreignLink explains a failed query that points to another music provider.
func foreignLink(l *i18n.Localizer, query string) (string, bool) {
	if musiclink.Classify(query) != musiclink.KindForeignLink {
		return "", false
	}
	provider := musiclink.Provider(strings.TrimSpace(query))
	name, ok := providerNames[provider]
	if !ok {
		name = provider
	}
	return l.T("error.resolve.foreign_link", name, soundcloud.EscapeQuery(query)), true
}
