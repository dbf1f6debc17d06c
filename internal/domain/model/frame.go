// Package model contains domain payloads passed between layers.
package model

import (
	"time"

	"github.com/okian/flexa/internal/domain/pose"
)

// Frame is one captured video frame after pose estimation. Fields
// mirror the OpenAPI schema for POST /frames.
type Frame struct {
	FrameID   string    // unique id for idempotency
	SessionID string    // session the frame belongs to
	Landmarks pose.Set  // nil when the estimator found no pose
	TS        time.Time // capture timestamp
}

// RepEvent records one completed repetition for archival.
type RepEvent struct {
	SessionID string
	SubjectID string
	Exercise  string
	RepNumber int
	TS        time.Time
}
