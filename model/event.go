package model

// LogKind classifies an event log entry
type LogKind string

const (
	KindInfo    LogKind = "info"
	KindSystem  LogKind = "system"
	KindSuccess LogKind = "success"
	KindWarning LogKind = "warning"
	KindError   LogKind = "error"
)

// LogEntry is one immutable line of the client event log
type LogEntry struct {
	Message   string  `json:"message"`
	Kind      LogKind `json:"kind"`
	LatencyMs int64   `json:"latency_ms"` // 0 = not measured
	Timestamp string  `json:"timestamp"`  // Wall-clock time of day, HH:MM:SS
}
