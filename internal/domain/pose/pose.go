// Package pose contains the landmark vocabulary produced by external
// pose estimators and consumed by the exercise rules.
package pose

import "github.com/okian/flexa/internal/domain/geom"

// Point aliases the geometry point so estimator payloads and angle math
// share one representation.
type Point = geom.Point

// Landmark identifies a named anatomical point. The names mirror the
// estimator's landmark enumeration; only the subset referenced by the
// exercise rules is enumerated here.
type Landmark string

// Landmarks consumed by the evaluation engine.
const (
	LeftShoulder  Landmark = "left_shoulder"
	RightShoulder Landmark = "right_shoulder"
	LeftElbow     Landmark = "left_elbow"
	RightElbow    Landmark = "right_elbow"
	LeftWrist     Landmark = "left_wrist"
	RightWrist    Landmark = "right_wrist"
	LeftHip       Landmark = "left_hip"
	RightHip      Landmark = "right_hip"
	LeftKnee      Landmark = "left_knee"
	RightKnee     Landmark = "right_knee"
	LeftAnkle     Landmark = "left_ankle"
	RightAnkle    Landmark = "right_ankle"
	LeftEar       Landmark = "left_ear"
	RightEar      Landmark = "right_ear"
)

// Set maps landmarks to their estimated positions for a single frame.
// A nil Set models "no pose detected". Missing landmarks read as the
// zero point, which the geometry treats as degenerate rather than fatal.
type Set map[Landmark]Point

// Lookup returns the position of l and whether the estimator reported it.
func (s Set) Lookup(l Landmark) (Point, bool) {
	p, ok := s[l]
	return p, ok
}
