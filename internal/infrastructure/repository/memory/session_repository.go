package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mrops-br/cyberstore-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type sessionEntry struct {
	session *domain.Session
	touched time.Time
}

// SessionRepository is an in-memory implementation of domain.SessionRepository.
// A single lock serialises mutation of every session.
type SessionRepository struct {
	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
	tracer    trace.Tracer
	logger    *slog.Logger
}

// SessionOption configures a SessionRepository
type SessionOption func(*SessionRepository)

// WithIdleTTL drops sessions that have not been updated for ttl.
// Zero keeps sessions for the life of the process.
func WithIdleTTL(ttl time.Duration) SessionOption {
	return func(r *SessionRepository) {
		r.idleTTL = ttl
	}
}

// NewSessionRepository creates an empty session store
func NewSessionRepository(tracer trace.Tracer, logger *slog.Logger, opts ...SessionOption) *SessionRepository {
	r := &SessionRepository{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
		tracer:   tracer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSweep = r.now()
	return r
}

// lookup returns the live entry for id. Caller holds mu.
func (r *SessionRepository) lookup(id string, now time.Time) (*sessionEntry, bool) {
	entry, exists := r.sessions[id]
	if !exists {
		return nil, false
	}
	if r.expired(entry, now) {
		delete(r.sessions, id)
		return nil, false
	}
	return entry, true
}

func (r *SessionRepository) expired(entry *sessionEntry, now time.Time) bool {
	return r.idleTTL > 0 && now.Sub(entry.touched) >= r.idleTTL
}

// sweep evicts idle sessions at most once per idle TTL. Caller holds mu.
func (r *SessionRepository) sweep(ctx context.Context, now time.Time) {
	if r.idleTTL <= 0 || now.Sub(r.lastSweep) < r.idleTTL {
		return
	}
	r.lastSweep = now

	evicted := 0
	for id, entry := range r.sessions {
		if r.expired(entry, now) {
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.DebugContext(ctx, "Idle sessions evicted",
			slog.Int("evicted", evicted),
			slog.Int("remaining", len(r.sessions)),
		)
	}
}

// Get returns a snapshot of the session, or a fresh one when id is unknown
// or has expired
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	_, span := r.tracer.Start(ctx, "SessionRepository.Get")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.lookup(id, r.now())
	span.SetAttributes(attribute.Bool("session.exists", exists))
	if !exists {
		return domain.NewSession(id), nil
	}

	span.SetStatus(codes.Ok, "Session found")
	return entry.session.Snapshot(), nil
}

// Update runs fn against the stored session, creating it when needed.
// Changes made by fn are discarded when it returns an error.
func (r *SessionRepository) Update(ctx context.Context, id string, fn func(*domain.Session) error) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var current *domain.Session
	entry, exists := r.lookup(id, now)
	if exists {
		current = entry.session
	} else {
		current = domain.NewSession(id)
	}

	working := current.Snapshot()
	if err := fn(working); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session update rejected")
		return err
	}

	r.sessions[id] = &sessionEntry{session: working, touched: now}
	if !exists {
		r.logger.InfoContext(ctx, "Session created",
			slog.String("session_id", id),
		)
	}
	r.sweep(ctx, now)

	span.SetStatus(codes.Ok, "Session updated")
	return nil
}

// Count reports the number of stored sessions
func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
