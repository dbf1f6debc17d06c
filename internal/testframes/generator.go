package testframes

// Synthetic pose builders. Coordinates are normalized frame units with
// y growing downward, matching the landmark convention of the engine.

// armRaisePose returns a pose with both arms fully extended when
// correct (collinear shoulder-elbow-wrist, 180 degree elbow angle) and
// sharply bent elbows otherwise.
func armRaisePose(correct bool) map[string]Landmark {
	pose := map[string]Landmark{
		"left_shoulder":  {X: 0.35, Y: 0.40},
		"left_elbow":     {X: 0.35, Y: 0.25},
		"right_shoulder": {X: 0.65, Y: 0.40},
		"right_elbow":    {X: 0.65, Y: 0.25},
	}
	if correct {
		pose["left_wrist"] = Landmark{X: 0.35, Y: 0.10}
		pose["right_wrist"] = Landmark{X: 0.65, Y: 0.10}
	} else {
		// Wrists folded back toward the shoulders
		pose["left_wrist"] = Landmark{X: 0.40, Y: 0.38}
		pose["right_wrist"] = Landmark{X: 0.60, Y: 0.38}
	}
	return pose
}

// squatPose returns a pose with the left knee at 90 degrees when
// correct and a straight standing leg otherwise.
func squatPose(correct bool) map[string]Landmark {
	pose := map[string]Landmark{
		"left_hip":  {X: 0.40, Y: 0.50},
		"left_knee": {X: 0.40, Y: 0.65},
	}
	if correct {
		// Shin horizontal: hip above the knee, ankle beside it
		pose["left_ankle"] = Landmark{X: 0.55, Y: 0.65}
	} else {
		// Standing straight, knee angle near 180
		pose["left_ankle"] = Landmark{X: 0.40, Y: 0.80}
	}
	return pose
}

// shrugPose returns a pose with the shoulders raised toward the ears
// when correct and dropped otherwise.
func shrugPose(correct bool) map[string]Landmark {
	pose := map[string]Landmark{
		"left_ear":  {X: 0.45, Y: 0.20},
		"right_ear": {X: 0.55, Y: 0.20},
	}
	if correct {
		pose["left_shoulder"] = Landmark{X: 0.40, Y: 0.25}
		pose["right_shoulder"] = Landmark{X: 0.60, Y: 0.25}
	} else {
		pose["left_shoulder"] = Landmark{X: 0.40, Y: 0.50}
		pose["right_shoulder"] = Landmark{X: 0.60, Y: 0.50}
	}
	return pose
}

// neutralPose returns a full standing pose. Used for the exercises the
// engine cannot measure, where every frame must come back incorrect.
func neutralPose() map[string]Landmark {
	return map[string]Landmark{
		"left_shoulder":  {X: 0.40, Y: 0.40},
		"right_shoulder": {X: 0.60, Y: 0.40},
		"left_hip":       {X: 0.42, Y: 0.60},
		"right_hip":      {X: 0.58, Y: 0.60},
		"left_knee":      {X: 0.42, Y: 0.75},
		"right_knee":     {X: 0.58, Y: 0.75},
		"left_ankle":     {X: 0.42, Y: 0.90},
		"right_ankle":    {X: 0.58, Y: 0.90},
	}
}

// poseFor returns a synthetic pose for the named exercise.
func poseFor(exercise string, correct bool) map[string]Landmark {
	switch exercise {
	case "arm_raise":
		return armRaisePose(correct)
	case "squat":
		return squatPose(correct)
	case "shoulder_shrug":
		return shrugPose(correct)
	default:
		return neutralPose()
	}
}

// measurable reports whether the engine has a measurement model for
// the named exercise.
func measurable(exercise string) bool {
	switch exercise {
	case "arm_raise", "squat", "shoulder_shrug":
		return true
	}
	return false
}
