package testframes

import "time"

// Config holds configuration for the frame streaming test
type Config struct {
	BaseURL   string        // Base URL of the service
	Reps      int           // Target repetitions per measurable exercise
	Timeout   time.Duration // HTTP request timeout
	SubjectID string        // Subject identifier for the session
	LogFile   string        // Log file for test output
	Verbose   bool          // Enable verbose logging
}

// Landmark is a single named pose point
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame represents a frame submission
type Frame struct {
	FrameID   string              `json:"frame_id"`
	SessionID string              `json:"session_id"`
	TS        string              `json:"ts,omitempty"`
	Landmarks map[string]Landmark `json:"landmarks,omitempty"`
}

// FrameResult represents the evaluation outcome for one frame
type FrameResult struct {
	Correct      bool   `json:"correct"`
	Feedback     string `json:"feedback"`
	Exercise     string `json:"exercise"`
	Instruction  string `json:"instruction"`
	RepCount     int    `json:"rep_count"`
	RepCompleted bool   `json:"rep_completed"`
	Duplicate    bool   `json:"duplicate"`
	Status       string `json:"status"`
}

// SessionState represents a session snapshot returned by the service
type SessionState struct {
	SessionID    string         `json:"session_id"`
	SubjectID    string         `json:"subject_id"`
	Exercise     string         `json:"exercise"`
	Instruction  string         `json:"instruction"`
	RepCount     int            `json:"rep_count"`
	Armed        bool           `json:"armed"`
	Frames       int            `json:"frames"`
	ArchivedReps map[string]int `json:"archived_reps"`
}

// Stats holds test statistics
type Stats struct {
	FramesSubmitted int
	FramesCorrect   int
	FramesIncorrect int
	FramesDuplicate int
	FramesFailed    int
	RepsCompleted   int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
