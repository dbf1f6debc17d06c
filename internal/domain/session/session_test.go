package session_test

import (
	"testing"

	"github.com/okian/flexa/internal/domain/exercise"
	"github.com/okian/flexa/internal/domain/pose"
	"github.com/okian/flexa/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

// straightArms is a pose the arm raise rule judges correct.
var straightArms = pose.Set{
	pose.LeftShoulder:  {X: 0.35, Y: 0.40},
	pose.LeftElbow:     {X: 0.35, Y: 0.25},
	pose.LeftWrist:     {X: 0.35, Y: 0.10},
	pose.RightShoulder: {X: 0.65, Y: 0.40},
	pose.RightElbow:    {X: 0.65, Y: 0.25},
	pose.RightWrist:    {X: 0.65, Y: 0.10},
}

func TestRepState(t *testing.T) {
	Convey("Given the repetition toggle", t, func() {
		var r session.RepState

		Convey("When two consecutive correct verdicts arrive", func() {
			So(r.Observe(true), ShouldBeFalse) // arms the toggle
			So(r.Observe(true), ShouldBeTrue)  // completes the rep

			So(r.Count, ShouldEqual, 1)
			So(r.Armed, ShouldBeFalse)
		})

		Convey("When incorrect verdicts interrupt an armed toggle", func() {
			// Incorrect frames never reset the armed state.
			So(r.Observe(false), ShouldBeFalse)
			So(r.Observe(true), ShouldBeFalse)
			So(r.Observe(false), ShouldBeFalse)
			So(r.Observe(false), ShouldBeFalse)
			So(r.Observe(true), ShouldBeTrue)

			So(r.Count, ShouldEqual, 1)
		})

		Convey("When many correct verdicts stream in", func() {
			done := 0
			for i := 0; i < 10; i++ {
				if r.Observe(true) {
					done++
				}
			}

			Convey("Then every second one completes a rep", func() {
				So(done, ShouldEqual, 5)
				So(r.Count, ShouldEqual, 5)
			})
		})

		Convey("When only incorrect verdicts arrive", func() {
			for i := 0; i < 5; i++ {
				So(r.Observe(false), ShouldBeFalse)
			}
			So(r.Count, ShouldEqual, 0)
			So(r.Armed, ShouldBeFalse)
		})
	})
}

func TestSessionProcessFrame(t *testing.T) {
	Convey("Given a fresh session", t, func() {
		s := session.New("sess-1", "subject-7")

		Convey("Then it starts at the first exercise with zero reps", func() {
			state := s.Snapshot()
			So(state.ID, ShouldEqual, "sess-1")
			So(state.SubjectID, ShouldEqual, "subject-7")
			So(state.Exercise, ShouldEqual, "arm_raise")
			So(state.Instruction, ShouldEqual, exercise.ArmRaise.Instruction())
			So(state.RepCount, ShouldEqual, 0)
			So(state.Armed, ShouldBeFalse)
			So(state.Frames, ShouldEqual, 0)
		})

		Convey("When processing two correct frames", func() {
			first := s.ProcessFrame(straightArms)
			second := s.ProcessFrame(straightArms)

			Convey("Then the second frame completes a rep", func() {
				So(first.Verdict.Correct, ShouldBeTrue)
				So(first.RepDone, ShouldBeFalse)
				So(first.RepCount, ShouldEqual, 0)

				So(second.Verdict.Correct, ShouldBeTrue)
				So(second.RepDone, ShouldBeTrue)
				So(second.RepCount, ShouldEqual, 1)
			})

			Convey("And the snapshot reflects the processed frames", func() {
				state := s.Snapshot()
				So(state.RepCount, ShouldEqual, 1)
				So(state.Frames, ShouldEqual, 2)
			})
		})

		Convey("When processing a frame without a pose", func() {
			res := s.ProcessFrame(nil)

			So(res.Verdict.Correct, ShouldBeFalse)
			So(res.Verdict.Feedback, ShouldEqual, "No pose detected")
			So(res.Kind, ShouldEqual, exercise.ArmRaise)
			So(res.RepCount, ShouldEqual, 0)
		})
	})
}

func TestSessionAdvance(t *testing.T) {
	Convey("Given a session with accumulated state", t, func() {
		s := session.New("sess-2", "")
		s.ProcessFrame(straightArms)
		s.ProcessFrame(straightArms)
		So(s.Snapshot().RepCount, ShouldEqual, 1)

		Convey("When advancing to the next exercise", func() {
			next := s.Advance()

			Convey("Then the exercise switches in cycle order", func() {
				So(next, ShouldEqual, exercise.Squat)
				So(s.Snapshot().Exercise, ShouldEqual, "squat")
			})

			Convey("And reps and armed state reset", func() {
				state := s.Snapshot()
				So(state.RepCount, ShouldEqual, 0)
				So(state.Armed, ShouldBeFalse)
			})
		})

		Convey("When advancing through the whole cycle", func() {
			seen := []exercise.Kind{}
			for i := 0; i < 5; i++ {
				seen = append(seen, s.Advance())
			}

			Convey("Then it wraps back to the first exercise", func() {
				So(seen[0], ShouldEqual, exercise.Squat)
				So(seen[1], ShouldEqual, exercise.LegRaise)
				So(seen[2], ShouldEqual, exercise.ShoulderShrug)
				So(seen[3], ShouldEqual, exercise.KneeExtension)
				So(seen[4], ShouldEqual, exercise.ArmRaise)
			})
		})

		Convey("When a rep straddles an exercise switch", func() {
			fresh := session.New("sess-3", "")
			fresh.ProcessFrame(straightArms) // arms the toggle
			for i := 0; i < 5; i++ {
				fresh.Advance() // full cycle, back at arm raise
			}

			res := fresh.ProcessFrame(straightArms)

			Convey("Then the armed state did not survive the switches", func() {
				So(res.Verdict.Correct, ShouldBeTrue)
				So(res.RepDone, ShouldBeFalse)
				So(res.RepCount, ShouldEqual, 0)
			})
		})
	})
}

func TestSessionHistoryCapacityOption(t *testing.T) {
	Convey("Given a session with a custom smoothing window", t, func() {
		s := session.New("sess-4", "", session.WithHistoryCapacity(2))

		Convey("Then a short window forgets old frames quickly", func() {
			// Two bent-arm frames then two straight ones: with capacity 2
			// the straight frames fully displace the bent ones.
			bent := pose.Set{
				pose.LeftShoulder:  {X: 0.35, Y: 0.40},
				pose.LeftElbow:     {X: 0.35, Y: 0.25},
				pose.LeftWrist:     {X: 0.35, Y: 0.40},
				pose.RightShoulder: {X: 0.65, Y: 0.40},
				pose.RightElbow:    {X: 0.65, Y: 0.25},
				pose.RightWrist:    {X: 0.65, Y: 0.40},
			}
			So(s.ProcessFrame(bent).Verdict.Correct, ShouldBeFalse)
			So(s.ProcessFrame(bent).Verdict.Correct, ShouldBeFalse)
			s.ProcessFrame(straightArms)
			So(s.ProcessFrame(straightArms).Verdict.Correct, ShouldBeTrue)
		})
	})
}
