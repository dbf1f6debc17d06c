package registry

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/flexa/internal/domain/history"
	"github.com/okian/flexa/internal/domain/session"
)

// Default registry configuration constants.
const (
	defaultShardCount = 8
)

// Sharded implements Store with a fixed set of mutex-guarded shards so
// frame traffic for unrelated sessions never contends on one lock.
type Sharded struct {
	shards          []*shard
	shardCount      int
	historyCapacity int

	mu     sync.RWMutex
	closed bool
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewSharded creates a session registry with configuration options.
func NewSharded(opts ...Option) *Sharded {
	r := &Sharded{
		shardCount:      defaultShardCount,
		historyCapacity: history.DefaultCapacity,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.shards = make([]*shard, r.shardCount)
	for i := range r.shards {
		r.shards[i] = &shard{sessions: make(map[string]*session.Session)}
	}
	return r
}

func (r *Sharded) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return r.shards[h.Sum32()%uint32(r.shardCount)]
}

// Create allocates a new session with a fresh ID.
func (r *Sharded) Create(ctx context.Context, subjectID string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}

	id := uuid.New().String()
	s := session.New(id, subjectID, session.WithHistoryCapacity(r.historyCapacity))

	sh := r.shardFor(id)
	sh.mu.Lock()
	sh.sessions[id] = s
	sh.mu.Unlock()

	return s, nil
}

// Get returns the session with the given ID.
func (r *Sharded) Get(ctx context.Context, id string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}

	sh := r.shardFor(id)
	sh.mu.RLock()
	s, ok := sh.sessions[id]
	sh.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Count returns the number of live sessions.
func (r *Sharded) Count(ctx context.Context) int {
	total := 0
	for _, sh := range r.shards {
		sh.mu.RLock()
		total += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return total
}

// Close releases all sessions.
func (r *Sharded) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	for _, sh := range r.shards {
		sh.mu.Lock()
		sh.sessions = make(map[string]*session.Session)
		sh.mu.Unlock()
	}
	r.closed = true
	return nil
}
