package archive_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/flexa/internal/adapters/archive"
	"github.com/okian/flexa/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestArchive(t *testing.T) {
	Convey("Given a sqlite rep archive", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "flexa_test.db")

		db, err := archive.Open(path)
		So(err, ShouldBeNil)
		defer db.Close()

		Convey("When recording reps for a session", func() {
			now := time.Now().UTC()
			events := []model.RepEvent{
				{SessionID: "s-1", SubjectID: "p-1", Exercise: "arm_raise", RepNumber: 1, TS: now},
				{SessionID: "s-1", SubjectID: "p-1", Exercise: "arm_raise", RepNumber: 2, TS: now},
				{SessionID: "s-1", SubjectID: "p-1", Exercise: "squat", RepNumber: 1, TS: now},
				{SessionID: "s-2", SubjectID: "p-2", Exercise: "squat", RepNumber: 1, TS: now},
			}
			for _, e := range events {
				So(db.RecordRep(ctx, e), ShouldBeNil)
			}

			Convey("Then totals are grouped per exercise for that session", func() {
				totals, err := db.RepTotals(ctx, "s-1")
				So(err, ShouldBeNil)
				So(totals, ShouldHaveLength, 2)
				So(totals["arm_raise"], ShouldEqual, 2)
				So(totals["squat"], ShouldEqual, 1)
			})

			Convey("And other sessions do not leak in", func() {
				totals, err := db.RepTotals(ctx, "s-2")
				So(err, ShouldBeNil)
				So(totals, ShouldHaveLength, 1)
				So(totals["squat"], ShouldEqual, 1)
			})
		})

		Convey("When querying a session with no reps", func() {
			totals, err := db.RepTotals(ctx, "never-seen")

			So(err, ShouldBeNil)
			So(totals, ShouldBeEmpty)
		})

		Convey("When recording exercise switches", func() {
			So(db.RecordSwitch(ctx, "s-1", "arm_raise", "squat", time.Now()), ShouldBeNil)
			So(db.RecordSwitch(ctx, "s-1", "squat", "leg_raise", time.Now()), ShouldBeNil)
		})

		Convey("When reopening an existing archive", func() {
			So(db.RecordRep(ctx, model.RepEvent{
				SessionID: "s-3", Exercise: "shoulder_shrug", RepNumber: 1, TS: time.Now().UTC(),
			}), ShouldBeNil)
			So(db.Close(), ShouldBeNil)

			reopened, err := archive.Open(path)
			So(err, ShouldBeNil)
			defer reopened.Close()

			Convey("Then previously recorded reps survive", func() {
				totals, err := reopened.RepTotals(ctx, "s-3")
				So(err, ShouldBeNil)
				So(totals["shoulder_shrug"], ShouldEqual, 1)
			})
		})
	})
}
