package exercise

import (
	"fmt"

	"github.com/okian/flexa/internal/domain/geom"
	"github.com/okian/flexa/internal/domain/history"
	"github.com/okian/flexa/internal/domain/pose"
)

// Classification thresholds. Angles in degrees, distances in normalized
// frame units.
const (
	armRaiseMinAngle = 160.0
	squatMinAngle    = 80.0
	squatMaxAngle    = 100.0
	shrugMaxDistance = 0.15
)

// Evaluate classifies set against kind. It pushes the current frame's
// measurement into hist and thresholds the smoothed per-component
// means, so a single noisy frame cannot flip the verdict.
//
// A nil set models "no pose detected" and yields an incorrect verdict
// without touching hist. LegRaise and KneeExtension have no measurement
// model and always yield an incorrect verdict; that limitation is
// deliberate, not a missing case.
func Evaluate(set pose.Set, kind Kind, hist *history.History) Verdict {
	if set == nil {
		return Verdict{Feedback: "No pose detected"}
	}

	switch kind {
	case ArmRaise:
		return evalArmRaise(set, hist)
	case Squat:
		return evalSquat(set, hist)
	case ShoulderShrug:
		return evalShoulderShrug(set, hist)
	case LegRaise, KneeExtension:
		return Verdict{Feedback: fmt.Sprintf("Unable to detect %s properly", kind)}
	}
	return Verdict{Feedback: "Unknown exercise type"}
}

// evalArmRaise checks that both elbows are nearly straight, meaning the
// arms are extended.
func evalArmRaise(set pose.Set, hist *history.History) Verdict {
	left := geom.Angle(set[pose.LeftShoulder], set[pose.LeftElbow], set[pose.LeftWrist])
	right := geom.Angle(set[pose.RightShoulder], set[pose.RightElbow], set[pose.RightWrist])

	hist.Push(left, right)
	means := hist.Means()

	if means[0] > armRaiseMinAngle && means[1] > armRaiseMinAngle {
		return Verdict{Correct: true, Feedback: "Arms raised correctly"}
	}
	return Verdict{Feedback: fmt.Sprintf("Raise both arms higher (L: %.1f, R: %.1f)", means[0], means[1])}
}

// evalSquat checks the left knee angle only; the source measurement
// model never consulted the right leg.
func evalSquat(set pose.Set, hist *history.History) Verdict {
	knee := geom.Angle(set[pose.LeftHip], set[pose.LeftKnee], set[pose.LeftAnkle])

	hist.Push(knee)
	mean := hist.Means()[0]

	switch {
	case mean > squatMinAngle && mean < squatMaxAngle:
		return Verdict{Correct: true, Feedback: fmt.Sprintf("Good squat form (Angle: %.1f)", mean)}
	case mean >= squatMaxAngle:
		return Verdict{Feedback: fmt.Sprintf("Squat lower (Angle: %.1f)", mean)}
	default:
		return Verdict{Feedback: fmt.Sprintf("Don't squat too low (Angle: %.1f)", mean)}
	}
}

// evalShoulderShrug measures the vertical shoulder-to-ear drop on each
// side. Raising the shoulders toward the ears shrinks the drop, since
// y grows downward.
func evalShoulderShrug(set pose.Set, hist *history.History) Verdict {
	left := set[pose.LeftShoulder].Y - set[pose.LeftEar].Y
	right := set[pose.RightShoulder].Y - set[pose.RightEar].Y

	hist.Push(left, right)
	means := hist.Means()

	if means[0] < shrugMaxDistance && means[1] < shrugMaxDistance {
		return Verdict{Correct: true, Feedback: "Good shoulder shrug"}
	}
	return Verdict{Feedback: fmt.Sprintf("Raise shoulders higher (L: %.2f, R: %.2f)", means[0], means[1])}
}
