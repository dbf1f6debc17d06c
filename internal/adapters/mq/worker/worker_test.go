package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/flexa/internal/adapters/mq/queue"
	worker "github.com/okian/flexa/internal/adapters/mq/worker"
	model "github.com/okian/flexa/internal/domain/model"
	logging "github.com/okian/flexa/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	eventChan chan queue.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		eventChan: make(chan queue.Event, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Event {
	return mq.eventChan
}

func (mq *mockQueue) Close() error {
	close(mq.eventChan)
	return nil
}

func (mq *mockQueue) addEvent(event queue.Event) {
	mq.eventChan <- event
}

type mockArchiver struct {
	mu       sync.Mutex
	recorded []worker.Event
	failFor  map[string]error
}

func newMockArchiver() *mockArchiver {
	return &mockArchiver{failFor: make(map[string]error)}
}

func (ma *mockArchiver) RecordRep(ctx context.Context, e worker.Event) error {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	if err, exists := ma.failFor[e.SessionID]; exists {
		return err
	}
	ma.recorded = append(ma.recorded, e)
	return nil
}

func (ma *mockArchiver) count() int {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	return len(ma.recorded)
}

func repEvent(session string, rep int) model.RepEvent {
	return model.RepEvent{
		SessionID: session,
		SubjectID: "subject-1",
		Exercise:  "squat",
		RepNumber: rep,
		TS:        time.Now().UTC(),
	}
}

func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestWorker(t *testing.T) {
	convey.Convey("Given an archive worker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		convey.Convey("When processing rep events", func() {
			mq := newMockQueue()
			archiver := newMockArchiver()
			w := worker.New(mq, archiver, worker.WithName("worker-test"))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			mq.addEvent(repEvent("s-1", 1))
			mq.addEvent(repEvent("s-1", 2))

			convey.Convey("Then the events reach the archiver", func() {
				ok := waitFor(func() bool { return archiver.count() == 2 }, time.Second)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the archiver fails", func() {
			mq := newMockQueue()
			archiver := newMockArchiver()
			archiver.failFor["s-bad"] = errors.New("disk full")
			w := worker.New(mq, archiver)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			mq.addEvent(repEvent("s-bad", 1))
			mq.addEvent(repEvent("s-good", 1))

			convey.Convey("Then the failure does not stop the worker", func() {
				ok := waitFor(func() bool { return archiver.count() == 1 }, time.Second)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the worker is shut down", func() {
			mq := newMockQueue()
			archiver := newMockArchiver()
			w := worker.New(mq, archiver)

			ctx := context.Background()
			go w.Run(ctx)

			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			convey.Convey("Then shutdown completes before the timeout", func() {
				err := w.Shutdown(shutdownCtx)
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the queue closes", func() {
			mq := newMockQueue()
			archiver := newMockArchiver()
			w := worker.New(mq, archiver)

			ctx := context.Background()
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()

			mq.addEvent(repEvent("s-1", 1))
			_ = mq.Close()

			convey.Convey("Then the worker drains and exits", func() {
				select {
				case <-done:
					convey.So(archiver.count(), convey.ShouldEqual, 1)
				case <-time.After(time.Second):
					convey.So("worker did not exit", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		convey.Convey("When starting with an explicit worker count", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(100))
			archiver := newMockArchiver()
			pool := worker.NewPool(3, q, archiver)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			for i := 1; i <= 10; i++ {
				convey.So(q.Enqueue(ctx, repEvent("s-1", i)), convey.ShouldBeTrue)
			}

			convey.Convey("Then the pool drains the queue", func() {
				ok := waitFor(func() bool { return archiver.count() == 10 }, 2*time.Second)
				convey.So(ok, convey.ShouldBeTrue)
			})

			convey.Convey("And closing the queue then stopping is clean", func() {
				waitFor(func() bool { return archiver.count() == 10 }, 2*time.Second)
				convey.So(q.Close(), convey.ShouldBeNil)
				pool.Stop()
			})
		})

		convey.Convey("When created with a non-positive worker count", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			pool := worker.NewPool(0, q, newMockArchiver())

			convey.Convey("Then it falls back to a sane default", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})
	})
}
