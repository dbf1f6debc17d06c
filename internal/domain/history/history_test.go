package history_test

import (
	"testing"

	"github.com/okian/flexa/internal/domain/history"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHistory(t *testing.T) {
	Convey("Given a smoothing history", t, func() {
		Convey("When created with defaults", func() {
			h := history.New()

			So(h.Cap(), ShouldEqual, history.DefaultCapacity)
			So(h.Len(), ShouldEqual, 0)
			So(h.Means(), ShouldBeNil)
		})

		Convey("When created with a custom capacity", func() {
			h := history.New(history.WithCapacity(3))

			So(h.Cap(), ShouldEqual, 3)
		})

		Convey("When pushing fewer samples than the capacity", func() {
			h := history.New(history.WithCapacity(5))
			h.Push(10, 20)
			h.Push(30, 40)

			Convey("Then means average only what was pushed", func() {
				means := h.Means()
				So(h.Len(), ShouldEqual, 2)
				So(means, ShouldHaveLength, 2)
				So(means[0], ShouldAlmostEqual, 20)
				So(means[1], ShouldAlmostEqual, 30)
			})
		})

		Convey("When pushing past the capacity", func() {
			h := history.New(history.WithCapacity(3))
			h.Push(100)
			h.Push(1)
			h.Push(2)
			h.Push(3)

			Convey("Then the oldest sample is evicted", func() {
				So(h.Len(), ShouldEqual, 3)
				So(h.Means()[0], ShouldAlmostEqual, 2)
			})

			Convey("And the snapshot is ordered oldest first", func() {
				snap := h.Snapshot()
				So(snap, ShouldHaveLength, 3)
				So(snap[0][0], ShouldAlmostEqual, 1)
				So(snap[2][0], ShouldAlmostEqual, 3)
			})
		})

		Convey("When pushing eleven samples into the default window", func() {
			h := history.New()
			h.Push(0)
			for i := 0; i < history.DefaultCapacity; i++ {
				h.Push(10)
			}

			Convey("Then only the last ten contribute to the mean", func() {
				So(h.Len(), ShouldEqual, history.DefaultCapacity)
				So(h.Means()[0], ShouldAlmostEqual, 10)
			})
		})

		Convey("When clearing", func() {
			h := history.New()
			h.Push(1, 2)
			h.Clear()

			So(h.Len(), ShouldEqual, 0)
			So(h.Means(), ShouldBeNil)

			Convey("Then it accepts new samples afterwards", func() {
				h.Push(5)
				So(h.Means()[0], ShouldAlmostEqual, 5)
			})
		})
	})
}
