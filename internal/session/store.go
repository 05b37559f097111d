package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nara/giftinator/internal/types"
)

// Session is one interview run. Answers grow by exactly one per accepted
// turn; once Reveal is set the session is closed and immutable.
type Session struct {
	ID        uuid.UUID             `json:"id"`
	Answers   []types.Answer        `json:"answers"`
	Reveal    *types.RevealDocument `json:"reveal,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// Closed reports whether the session has emitted its reveal.
func (s *Session) Closed() bool {
	return s.Reveal != nil
}

// Repository is the storage contract for sessions. Append and CloseWithReveal
// must be atomic per session identifier; implementations must allow full
// concurrency across distinct identifiers.
type Repository interface {
	// Create registers a new empty session and returns it.
	Create() (*Session, error)
	// Get returns a snapshot of the session, or NotFoundError.
	Get(id uuid.UUID) (*Session, error)
	// Append adds one answer at the given 1-based step index. The index must
	// equal the current answer count plus one (StepMismatchError otherwise),
	// and the session must not be closed (SessionClosedError).
	Append(id uuid.UUID, step int, answer types.Answer) (*Session, error)
	// CloseWithReveal records the terminal reveal and closes the session.
	CloseWithReveal(id uuid.UUID, reveal *types.RevealDocument) error
}

// MemoryRepository is a process-lifetime Repository backed by a map with
// per-session locking.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

type entry struct {
	mu      sync.Mutex
	session Session
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[uuid.UUID]*entry)}
}

// Create registers a new empty session.
func (r *MemoryRepository) Create() (*Session, error) {
	s := Session{ID: uuid.New(), CreatedAt: time.Now().UTC()}

	r.mu.Lock()
	r.sessions[s.ID] = &entry{session: s}
	r.mu.Unlock()

	snap := s
	return &snap, nil
}

// Get returns a snapshot of the session.
func (r *MemoryRepository) Get(id uuid.UUID) (*Session, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(&e.session), nil
}

// Append adds one answer, enforcing contiguous step indices.
func (r *MemoryRepository) Append(id uuid.UUID, step int, answer types.Answer) (*Session, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Closed() {
		return nil, &SessionClosedError{ID: id}
	}
	if expected := len(e.session.Answers) + 1; step != expected {
		return nil, &StepMismatchError{ID: id, Expected: expected, Got: step}
	}

	e.session.Answers = append(e.session.Answers, answer)
	return snapshot(&e.session), nil
}

// CloseWithReveal records the terminal reveal and closes the session.
func (r *MemoryRepository) CloseWithReveal(id uuid.UUID, reveal *types.RevealDocument) error {
	e, err := r.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Closed() {
		return &SessionClosedError{ID: id}
	}
	e.session.Reveal = reveal
	return nil
}

func (r *MemoryRepository) entry(id uuid.UUID) (*entry, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return e, nil
}

// snapshot copies the session so callers never share the live answer slice.
func snapshot(s *Session) *Session {
	snap := *s
	snap.Answers = make([]types.Answer, len(s.Answers))
	copy(snap.Answers, s.Answers)
	return &snap
}
