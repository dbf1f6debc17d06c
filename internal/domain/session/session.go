// Package session holds the per-session exercise state machine: the
// active exercise kind, the repetition toggle and the smoothing
// history. Each session instance is independent and independently
// testable; there is no process-wide session state.
package session

import (
	"sync"
	"time"

	"github.com/okian/flexa/internal/domain/exercise"
	"github.com/okian/flexa/internal/domain/history"
	"github.com/okian/flexa/internal/domain/pose"
)

// RepState is the two-state repetition toggle. Starting Idle, a correct
// verdict arms it; the next correct verdict counts one rep and disarms.
// Incorrect verdicts never change the state: there is no timeout and no
// rest detection, so an interrupting bad frame does not reset an armed
// toggle. The behavior is kept exactly as observed in the field.
type RepState struct {
	Count int
	Armed bool
}

// Observe applies one verdict to the toggle and reports whether a rep
// completed on this frame.
func (r *RepState) Observe(correct bool) bool {
	if !correct {
		return false
	}
	if !r.Armed {
		r.Armed = true
		return false
	}
	r.Count++
	r.Armed = false
	return true
}

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithHistoryCapacity sets the smoothing window size.
func WithHistoryCapacity(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.historyCapacity = n
		}
	}
}

// Session owns the evaluation state for one subject working through the
// exercise cycle. The engine is frame-at-a-time; the mutex only guards
// against concurrent transport deliveries, the state machine itself is
// strictly sequential.
type Session struct {
	mu sync.Mutex

	id        string
	subjectID string
	kind      exercise.Kind
	reps      RepState
	hist      *history.History
	frames    int
	createdAt time.Time

	historyCapacity int
}

// New creates a session starting at the first exercise kind with zero
// reps and an empty history.
func New(id, subjectID string, opts ...Option) *Session {
	s := &Session{
		id:              id,
		subjectID:       subjectID,
		kind:            exercise.ArmRaise,
		createdAt:       time.Now().UTC(),
		historyCapacity: history.DefaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hist = history.New(history.WithCapacity(s.historyCapacity))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SubjectID returns the optional subject identifier.
func (s *Session) SubjectID() string { return s.subjectID }

// Result is what one processed frame reports for presentation.
type Result struct {
	Verdict     exercise.Verdict
	Kind        exercise.Kind
	Instruction string
	RepCount    int
	RepDone     bool
}

// ProcessFrame evaluates one frame's landmark set against the active
// exercise and feeds the verdict to the repetition toggle.
func (s *Session) ProcessFrame(set pose.Set) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	verdict := exercise.Evaluate(set, s.kind, s.hist)
	done := s.reps.Observe(verdict.Correct)
	s.frames++

	return Result{
		Verdict:     verdict,
		Kind:        s.kind,
		Instruction: s.kind.Instruction(),
		RepCount:    s.reps.Count,
		RepDone:     done,
	}
}

// Advance switches to the next exercise kind cyclically and returns it.
// Rep state and smoothing history never survive a switch.
func (s *Session) Advance() exercise.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = s.kind.Next()
	s.reps = RepState{}
	s.hist.Clear()
	return s.kind
}

// State is a read-only snapshot of a session.
type State struct {
	ID          string    `json:"session_id"`
	SubjectID   string    `json:"subject_id,omitempty"`
	Exercise    string    `json:"exercise"`
	Instruction string    `json:"instruction"`
	RepCount    int       `json:"rep_count"`
	Armed       bool      `json:"armed"`
	Frames      int       `json:"frames"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot returns the session's current state for presentation.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		ID:          s.id,
		SubjectID:   s.subjectID,
		Exercise:    s.kind.String(),
		Instruction: s.kind.Instruction(),
		RepCount:    s.reps.Count,
		Armed:       s.reps.Armed,
		Frames:      s.frames,
		CreatedAt:   s.createdAt,
	}
}
