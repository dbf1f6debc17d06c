// Package exercise classifies body poses for the supported
// physical-therapy exercises.
package exercise

// Kind identifies one of the supported exercises. The set is closed:
// adding a kind means touching the evaluation switch, which keeps
// dispatch compile-time checked instead of string driven.
type Kind int

// Supported exercise kinds, in cycle order.
const (
	ArmRaise Kind = iota
	Squat
	LegRaise
	ShoulderShrug
	KneeExtension

	numKinds // sentinel, keep last
)

var kindNames = [...]string{
	ArmRaise:      "arm_raise",
	Squat:         "squat",
	LegRaise:      "leg_raise",
	ShoulderShrug: "shoulder_shrug",
	KneeExtension: "knee_extension",
}

var instructions = [...]string{
	ArmRaise:      "Raise both arms straight out to the sides until they are parallel to the ground.",
	Squat:         "Stand with feet shoulder-width apart, then lower your body as if sitting back into a chair.",
	LegRaise:      "Stand on one leg and raise the other leg straight out in front of you.",
	ShoulderShrug: "Raise your shoulders towards your ears, hold, then lower them back down.",
	KneeExtension: "Sit on a chair, straighten one leg in front of you, then lower it back down.",
}

// Kinds returns all supported kinds in cycle order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k names a supported exercise.
func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

// String returns the estimator-facing name, e.g. "arm_raise".
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Instruction returns the static operator instruction for k.
func (k Kind) Instruction() string {
	if !k.Valid() {
		return ""
	}
	return instructions[k]
}

// Next returns the kind that follows k in the cycle, wrapping to the
// first after the last.
func (k Kind) Next() Kind {
	if !k.Valid() {
		return ArmRaise
	}
	return (k + 1) % numKinds
}

// Verdict is the per-frame correctness judgment for the active
// exercise. It is produced fresh each frame and never persisted.
type Verdict struct {
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}
