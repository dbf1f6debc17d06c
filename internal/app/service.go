// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/flexa/internal/adapters/archive"
	repqueue "github.com/okian/flexa/internal/adapters/mq/queue"
	archiveworker "github.com/okian/flexa/internal/adapters/mq/worker"
	"github.com/okian/flexa/internal/adapters/registry"
	"github.com/okian/flexa/internal/domain/dedupe"
	"github.com/okian/flexa/internal/domain/history"
	"github.com/okian/flexa/internal/domain/model"
	"github.com/okian/flexa/internal/domain/session"
	"github.com/okian/flexa/pkg/logger"
	"github.com/okian/flexa/pkg/metrics"
)

// Service implements the API dependencies for the exercise evaluation
// engine. The frame path is synchronous: one frame is fully evaluated
// and counted before the response is written. Only rep archival runs
// asynchronously behind the queue.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions registry.Store
	deduper  dedupe.Deduper
	repQueue repqueue.Queue
	pool     *archiveworker.Pool
	archive  *archive.DB

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	historySize int
	archivePath string

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of archive workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the rep archive queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the frame deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of session registry shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithHistorySize sets the smoothing window of created sessions.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historySize = size
		}
	}
}

// WithArchivePath sets the sqlite file backing the rep archive.
func WithArchivePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.archivePath = path
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   10000,
		dedupeSize:  50000,
		shardCount:  8,
		historySize: history.DefaultCapacity,
		archivePath: "flexa.db",
		logger:      nil, // resolved on Start
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting evaluation service...")

	s.sessions = registry.NewSharded(
		registry.WithShardCount(s.shardCount),
		registry.WithHistoryCapacity(s.historySize),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.repQueue = repqueue.NewInMemoryQueue(
		repqueue.WithCapacity(s.queueSize),
	)

	db, err := archive.Open(s.archivePath)
	if err != nil {
		return err
	}
	s.archive = db

	s.pool = archiveworker.NewPool(s.workerCount, s.repQueue, s.archive)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "evaluation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("historySize", s.historySize),
		logger.String("archivePath", s.archivePath),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping evaluation service...")

	// Close the queue first so workers drain the remaining events.
	if s.repQueue != nil {
		_ = s.repQueue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if s.archive != nil {
		_ = s.archive.Close()
	}
	if s.sessions != nil {
		_ = s.sessions.Close()
	}

	s.started = false
	s.logger.Info(ctx, "evaluation service stopped")
}

// SeenAndRecord atomically checks if a frame id was seen and records it
// if not. Returns true if the frame was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordFrameDuplicate()
	}
	return seen
}

// Unrecord removes a frame ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// ProcessFrame evaluates one frame against its session's active
// exercise and applies the verdict to the repetition toggle. A
// completed rep is handed to the archive queue; queue backpressure
// drops the archival record but never fails the frame.
func (s *Service) ProcessFrame(ctx context.Context, f model.Frame) (session.Result, error) {
	sess, err := s.sessions.Get(ctx, f.SessionID)
	if err != nil {
		return session.Result{}, err
	}

	res := sess.ProcessFrame(f.Landmarks)

	metrics.RecordFrameProcessed()
	if f.Landmarks == nil {
		metrics.RecordFrameNoPose()
	}
	metrics.RecordVerdict(res.Kind.String(), res.Verdict.Correct)

	if res.RepDone {
		metrics.RecordRepCompleted(res.Kind.String())
		s.logger.Info(ctx, "rep completed",
			logger.String("sessionID", sess.ID()),
			logger.String("exercise", res.Kind.String()),
			logger.Int("repCount", res.RepCount),
		)

		ts := f.TS
		if ts.IsZero() {
			ts = time.Now()
		}
		ev := model.RepEvent{
			SessionID: sess.ID(),
			SubjectID: sess.SubjectID(),
			Exercise:  res.Kind.String(),
			RepNumber: res.RepCount,
			TS:        ts,
		}
		if !s.repQueue.Enqueue(ctx, ev) {
			s.logger.Warn(ctx, "rep archive queue full; dropping rep event",
				logger.String("sessionID", sess.ID()),
				logger.Int("repNumber", ev.RepNumber),
			)
		}
	}

	return res, nil
}

// CreateSession allocates a new session starting at the first exercise.
func (s *Service) CreateSession(ctx context.Context, subjectID string) (session.State, error) {
	sess, err := s.sessions.Create(ctx, subjectID)
	if err != nil {
		return session.State{}, err
	}

	metrics.UpdateActiveSessions(s.sessions.Count(ctx))
	s.logger.Info(ctx, "session created",
		logger.String("sessionID", sess.ID()),
		logger.String("subjectID", subjectID),
	)
	return sess.Snapshot(), nil
}

// AdvanceSession switches a session to the next exercise kind and
// resets its rep count and smoothing history.
func (s *Service) AdvanceSession(ctx context.Context, id string) (session.State, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return session.State{}, err
	}

	from := sess.Snapshot().Exercise
	to := sess.Advance().String()

	metrics.RecordExerciseSwitch()
	s.logger.Info(ctx, "switched exercise",
		logger.String("sessionID", id),
		logger.String("from", from),
		logger.String("to", to),
	)

	// Switches are recorded synchronously; failure degrades to a log line.
	if err := s.archive.RecordSwitch(ctx, id, from, to, time.Now()); err != nil {
		metrics.RecordArchiveError()
		s.logger.Warn(ctx, "failed to archive exercise switch", logger.Error(err))
	}

	return sess.Snapshot(), nil
}

// Session returns a snapshot of a session's current state.
func (s *Service) Session(ctx context.Context, id string) (session.State, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return session.State{}, err
	}
	return sess.Snapshot(), nil
}

// ArchivedReps returns the archived rep totals per exercise for a session.
func (s *Service) ArchivedReps(ctx context.Context, id string) (map[string]int, error) {
	return s.archive.RepTotals(ctx, id)
}

// GetStats returns the engine's operational snapshot and refreshes the
// gauges derived from it.
func (s *Service) GetStats() model.EngineStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := model.EngineStats{
		Started:       s.started,
		WorkerCount:   s.workerCount,
		QueueCapacity: s.queueSize,
		DedupeSize:    s.dedupeSize,
		HistorySize:   s.historySize,
	}

	if s.started {
		stats.QueueLength = s.repQueue.Len(ctx)
		stats.ActiveSessions = s.sessions.Count(ctx)
		stats.FramesSeen = s.deduper.Size()

		metrics.UpdateQueueSize(stats.QueueLength)
		metrics.UpdateQueueCapacity(s.queueSize)
		metrics.UpdateQueueUtilization(float64(stats.QueueLength) / float64(s.queueSize))
		metrics.UpdateActiveSessions(stats.ActiveSessions)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
