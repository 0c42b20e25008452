package logging

import (
	"context"
	"log/slog"

	"github.com/corey/prox/internal/domain/proximity"
)

// Tracer forwards kernel hook events to a slog.Logger at debug level.
type Tracer struct {
	logger *slog.Logger
}

var _ proximity.Tracer = (*Tracer)(nil)

// NewTracer returns a Tracer, or nil when the logger would drop debug records
// anyway, so callers can skip installing it.
func NewTracer(logger *slog.Logger) *Tracer {
	if logger == nil || !logger.Enabled(context.Background(), slog.LevelDebug) {
		return nil
	}
	return &Tracer{logger: logger.With("component", "proximity")}
}

func (t *Tracer) CandidateFound(term string, pos int) {
	t.logger.Debug("candidate found", "term", term, "pos", pos)
}

func (t *Tracer) BoundaryChecked(term string, pos int, ok bool) {
	t.logger.Debug("boundary checked", "term", term, "pos", pos, "ok", ok)
}

func (t *Tracer) MatchAccepted(m proximity.Match) {
	t.logger.Debug("match accepted", "start", m.Start, "span", m.Span, "gap", m.Gap)
}

func (t *Tracer) MatchRejected(start, candidate, gap int, reason proximity.RejectReason) {
	t.logger.Debug("match rejected", "start", start, "candidate", candidate, "gap", gap, "reason", reason.String())
}
