package models

import "time"

type ScheduleState string

const (
	ScheduleStateActive    ScheduleState = "active"
	ScheduleStateCancelled ScheduleState = "cancelled"
	ScheduleStateFailed    ScheduleState = "failed"
	ScheduleStateStopped   ScheduleState = "stopped"
)

// Schedule describes a fixed-rate job.
type Schedule struct {
	ID           string
	Job          string
	InitialDelay time.Duration
	Interval     time.Duration
	Runs         int
	State        ScheduleState
	Error        string
}
