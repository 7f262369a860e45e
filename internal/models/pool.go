package models

type PoolStatus struct {
	Stage         string
	PoolSize      int
	QueueCapacity int
	Queued        int
	Active        int
	Submitted     int64
	Completed     int64
	Failed        int64
	Cancelled     int64
}

type ShutdownMode string

const (
	ShutdownModeGraceful ShutdownMode = "graceful"
	ShutdownModeForce    ShutdownMode = "force"
)

// ShutdownResult is returned when a shutdown is requested. Discarded lists the
// queued tasks dropped by a forced shutdown.
type ShutdownResult struct {
	Mode      ShutdownMode
	Discarded []string
}
