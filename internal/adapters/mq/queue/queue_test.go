package queue_test

import (
	"context"
	"testing"
	"time"

	queue "github.com/okian/flexa/internal/adapters/mq/queue"
	model "github.com/okian/flexa/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func repEvent(session string, rep int) model.RepEvent {
	return model.RepEvent{
		SessionID: session,
		Exercise:  "arm_raise",
		RepNumber: rep,
		TS:        time.Now().UTC(),
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory rep queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing and dequeuing events", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))

			So(q.Enqueue(ctx, repEvent("s-1", 1)), ShouldBeTrue)
			So(q.Enqueue(ctx, repEvent("s-1", 2)), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then events come out in order", func() {
				out := q.Dequeue(ctx)

				first := <-out
				second := <-out
				So(first.RepNumber, ShouldEqual, 1)
				So(second.RepNumber, ShouldEqual, 2)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))

			So(q.Enqueue(ctx, repEvent("s-1", 1)), ShouldBeTrue)

			Convey("Then enqueue drops the event and reports failure", func() {
				So(q.Enqueue(ctx, repEvent("s-1", 2)), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			So(q.Enqueue(ctx, repEvent("s-1", 1)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects new events", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, repEvent("s-1", 2)), ShouldBeFalse)
			})

			Convey("And the dequeue channel drains then closes", func() {
				out := q.Dequeue(ctx)

				ev, ok := <-out
				So(ok, ShouldBeTrue)
				So(ev.RepNumber, ShouldEqual, 1)

				_, ok = <-out
				So(ok, ShouldBeFalse)
			})

			Convey("And closing twice is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the dequeue context is canceled", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			cancelCtx, cancel := context.WithCancel(ctx)

			out := q.Dequeue(cancelCtx)
			So(q.Enqueue(ctx, repEvent("s-1", 1)), ShouldBeTrue)

			ev := <-out
			So(ev.RepNumber, ShouldEqual, 1)

			cancel()

			Convey("Then the queue still accepts events", func() {
				So(q.Enqueue(ctx, repEvent("s-1", 2)), ShouldBeTrue)
			})
		})
	})
}
