package scheduler

import "time"

type Option func(*Scheduler)

// WithObserver registers an observer notified of every task transition.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observers = append(s.observers, o)
	}
}

type taskOptions struct {
	name        string
	kind        Kind
	trigger     Trigger
	delay       time.Duration
	repeatingID string
}

func newTaskOptions(kind Kind, trigger Trigger, delay time.Duration, opts []SubmitOption) taskOptions {
	o := taskOptions{kind: kind, trigger: trigger, delay: delay}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type SubmitOption func(*taskOptions)

// WithName labels the task. The name is reported to observers; it does not
// need to be unique.
func WithName(name string) SubmitOption {
	return func(o *taskOptions) {
		o.name = name
	}
}
