package model

// EngineStats is the operational snapshot served by GET /stats and
// rendered by the dashboard. Counters cover the whole frame path:
// sessions in the registry, frames seen by the deduper and the rep
// archive queue behind the workers.
type EngineStats struct {
	Started        bool  `json:"started"`
	ActiveSessions int   `json:"activeSessions"`
	FramesSeen     int64 `json:"framesSeen"`
	QueueLength    int   `json:"queueLength"`
	QueueCapacity  int   `json:"queueCapacity"`
	WorkerCount    int   `json:"workerCount"`
	DedupeSize     int   `json:"dedupeSize"`
	HistorySize    int   `json:"historySize"`
}
