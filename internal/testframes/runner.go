package testframes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/okian/flexa/pkg/logger"
)

// The fixed exercise cycle served by the engine, in order.
var cycle = []string{"arm_raise", "squat", "leg_raise", "shoulder_shrug", "knee_extension"}

// immeasurableFrames is how many frames to stream for exercises the
// engine cannot measure; every verdict must come back incorrect.
const immeasurableFrames = 5

// Run executes the complete frame streaming test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting flexa frame test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("reps", config.Reps),
		logger.String("timeout", config.Timeout.String()),
		logger.String("subjectID", config.SubjectID),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Create a session
	state, err := createSession(ctx, client, config)
	if err != nil {
		return fmt.Errorf("session creation failed: %w", err)
	}
	sessionID := state.SessionID

	// Step 3: Walk the full exercise cycle
	for i, exercise := range cycle {
		if state.Exercise != exercise {
			return fmt.Errorf("expected exercise %q at cycle position %d, got %q", exercise, i, state.Exercise)
		}

		if measurable(exercise) {
			if err := streamReps(ctx, client, config, sessionID, exercise, stats); err != nil {
				return fmt.Errorf("streaming %s: %w", exercise, err)
			}
		} else {
			if err := streamImmeasurable(ctx, client, config, sessionID, exercise, stats); err != nil {
				return fmt.Errorf("streaming %s: %w", exercise, err)
			}
		}

		// Step 4: Verify frame idempotency once per exercise
		if err := verifyDuplicate(ctx, client, config, sessionID, exercise, stats); err != nil {
			return fmt.Errorf("duplicate check for %s: %w", exercise, err)
		}

		state, err = advanceSession(ctx, client, config, sessionID)
		if err != nil {
			return fmt.Errorf("advancing past %s: %w", exercise, err)
		}
		if state.RepCount != 0 {
			return fmt.Errorf("rep count not reset after advancing past %s: %d", exercise, state.RepCount)
		}
	}

	// Step 5: The cycle must wrap back to the first exercise
	if state.Exercise != cycle[0] {
		return fmt.Errorf("cycle did not wrap: expected %q, got %q", cycle[0], state.Exercise)
	}

	// Step 6: Check the archive caught the completed reps
	if err := verifyArchive(ctx, client, config, sessionID, stats); err != nil {
		return fmt.Errorf("archive verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	// Any 200 is healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// createSession creates a fresh evaluation session.
func createSession(ctx context.Context, client *HTTPClient, config *Config) (*SessionState, error) {
	var state SessionState
	status, err := postJSON(ctx, client, config.BaseURL+"/sessions",
		map[string]string{"subject_id": config.SubjectID}, &state)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status creating session: %d", status)
	}

	logger.Get().Info(ctx, "session created",
		logger.String("sessionID", state.SessionID),
		logger.String("exercise", state.Exercise))
	return &state, nil
}

// advanceSession switches the session to the next exercise.
func advanceSession(ctx context.Context, client *HTTPClient, config *Config, sessionID string) (*SessionState, error) {
	var state SessionState
	status, err := postJSON(ctx, client, config.BaseURL+"/sessions/"+sessionID+"/advance", nil, &state)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status advancing session: %d", status)
	}
	return &state, nil
}

// submitFrame posts one frame and returns the decoded result.
func submitFrame(ctx context.Context, client *HTTPClient, config *Config, sessionID, frameID string, landmarks map[string]Landmark, stats *Stats) (*FrameResult, error) {
	var result FrameResult
	status, err := postJSON(ctx, client, config.BaseURL+"/frames", Frame{
		FrameID:   frameID,
		SessionID: sessionID,
		TS:        time.Now().UTC().Format(time.RFC3339),
		Landmarks: landmarks,
	}, &result)
	if err != nil {
		stats.FramesFailed++
		return nil, err
	}
	if status != http.StatusOK {
		stats.FramesFailed++
		return nil, fmt.Errorf("unexpected status submitting frame: %d", status)
	}

	stats.FramesSubmitted++
	switch {
	case result.Duplicate:
		stats.FramesDuplicate++
	case result.Correct:
		stats.FramesCorrect++
	default:
		stats.FramesIncorrect++
	}
	if result.RepCompleted {
		stats.RepsCompleted++
	}
	return &result, nil
}

// streamReps sends correct frames until the target rep count is
// reached. Two consecutive correct frames complete one rep.
func streamReps(ctx context.Context, client *HTTPClient, config *Config, sessionID, exercise string, stats *Stats) error {
	logger.Get().Info(ctx, "streaming correct frames",
		logger.String("exercise", exercise),
		logger.Int("targetReps", config.Reps))

	pose := poseFor(exercise, true)
	var last *FrameResult
	for i := 0; i < config.Reps*2; i++ {
		result, err := submitFrame(ctx, client, config, sessionID, uuid.New().String(), pose, stats)
		if err != nil {
			return err
		}
		if !result.Correct {
			return fmt.Errorf("frame %d judged incorrect: %s", i, result.Feedback)
		}
		if config.Verbose {
			logger.Get().Info(ctx, "frame evaluated",
				logger.String("exercise", exercise),
				logger.String("feedback", result.Feedback),
				logger.Int("repCount", result.RepCount))
		}
		last = result
	}

	if last.RepCount != config.Reps {
		return fmt.Errorf("expected %d reps, got %d", config.Reps, last.RepCount)
	}
	logger.Get().Info(ctx, "target reps reached",
		logger.String("exercise", exercise),
		logger.Int("repCount", last.RepCount))
	return nil
}

// streamImmeasurable sends frames for an exercise the engine cannot
// measure and checks that every verdict is incorrect.
func streamImmeasurable(ctx context.Context, client *HTTPClient, config *Config, sessionID, exercise string, stats *Stats) error {
	logger.Get().Info(ctx, "streaming frames for immeasurable exercise",
		logger.String("exercise", exercise))

	pose := neutralPose()
	for i := 0; i < immeasurableFrames; i++ {
		result, err := submitFrame(ctx, client, config, sessionID, uuid.New().String(), pose, stats)
		if err != nil {
			return err
		}
		if result.Correct {
			return fmt.Errorf("%s must never judge a frame correct, frame %d was", exercise, i)
		}
		if result.RepCount != 0 {
			return fmt.Errorf("%s must never count reps, got %d", exercise, result.RepCount)
		}
	}
	return nil
}

// verifyDuplicate resubmits a frame ID and expects a duplicate ack
// that does not advance the rep count.
func verifyDuplicate(ctx context.Context, client *HTTPClient, config *Config, sessionID, exercise string, stats *Stats) error {
	frameID := uuid.New().String()
	pose := poseFor(exercise, false)

	if _, err := submitFrame(ctx, client, config, sessionID, frameID, pose, stats); err != nil {
		return err
	}
	result, err := submitFrame(ctx, client, config, sessionID, frameID, pose, stats)
	if err != nil {
		return err
	}
	if !result.Duplicate {
		return fmt.Errorf("replayed frame %s was not acknowledged as duplicate", frameID)
	}
	return nil
}

// verifyArchive waits for the archive workers to drain and checks the
// archived totals cover the completed reps.
func verifyArchive(ctx context.Context, client *HTTPClient, config *Config, sessionID string, stats *Stats) error {
	// Give the async archive path a moment to catch up.
	time.Sleep(2 * time.Second)

	var state SessionState
	status, err := getJSON(ctx, client, config.BaseURL+"/sessions/"+sessionID, &state)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status fetching session: %d", status)
	}

	total := 0
	for _, n := range state.ArchivedReps {
		total += n
	}
	if total != stats.RepsCompleted {
		return fmt.Errorf("archive has %d reps, test counted %d", total, stats.RepsCompleted)
	}
	logger.Get().Info(ctx, "archive totals verified", logger.Int("archivedReps", total))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var framesPerSecond float64
	if stats.Duration > 0 {
		framesPerSecond = float64(stats.FramesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("framesSubmitted", stats.FramesSubmitted),
		logger.Int("framesCorrect", stats.FramesCorrect),
		logger.Int("framesIncorrect", stats.FramesIncorrect),
		logger.Int("framesDuplicate", stats.FramesDuplicate),
		logger.Int("framesFailed", stats.FramesFailed),
		logger.Int("repsCompleted", stats.RepsCompleted),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("framesPerSecond", framesPerSecond))
}
