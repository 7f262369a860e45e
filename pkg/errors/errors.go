package errors

import (
	"context"
	"errors"
	"fmt"
)

// QueueClosedError is returned when work is submitted to a scheduler that is
// shutting down or terminated.
type QueueClosedError struct{}

func NewQueueClosedError() *QueueClosedError {
	return &QueueClosedError{}
}

func (e *QueueClosedError) Error() string {
	return "queue is closed"
}

func IsQueueClosedError(err error) bool {
	var e *QueueClosedError
	return errors.As(err, &e)
}

// QueueFullError is returned by the reject policy when the queue is at capacity.
type QueueFullError struct {
	Capacity int
}

func NewQueueFullError(capacity int) *QueueFullError {
	return &QueueFullError{Capacity: capacity}
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("queue is full (capacity %d)", e.Capacity)
}

func IsQueueFullError(err error) bool {
	var e *QueueFullError
	return errors.As(err, &e)
}

// TaskFailedError wraps the error returned (or the panic raised) by a task.
type TaskFailedError struct {
	TaskID string
	Cause  error
}

func NewTaskFailedError(taskID string, cause error) *TaskFailedError {
	return &TaskFailedError{TaskID: taskID, Cause: cause}
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Cause)
}

func (e *TaskFailedError) Unwrap() error {
	return e.Cause
}

func IsTaskFailedError(err error) bool {
	var e *TaskFailedError
	return errors.As(err, &e)
}

// TimeoutError is returned to a waiter whose deadline elapsed. The task itself
// keeps running.
type TimeoutError struct {
	Cause error
}

func NewTimeoutError(cause error) *TimeoutError {
	if cause == nil {
		cause = context.DeadlineExceeded
	}
	return &TimeoutError{Cause: cause}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

func IsTimeoutError(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}

// CancelledError reports a task cancelled before or while running.
// It matches context.Canceled with errors.Is.
type CancelledError struct {
	TaskID string
}

func NewCancelledError(taskID string) *CancelledError {
	return &CancelledError{TaskID: taskID}
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("task %s was cancelled", e.TaskID)
}

func (e *CancelledError) Is(target error) bool {
	return target == context.Canceled
}

func IsCancelledError(err error) bool {
	var e *CancelledError
	return errors.As(err, &e)
}

type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func NewInvalidConfigurationError(field, reason string) *InvalidConfigurationError {
	return &InvalidConfigurationError{Field: field, Reason: reason}
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func IsInvalidConfigurationError(err error) bool {
	var e *InvalidConfigurationError
	return errors.As(err, &e)
}

// ResourceNotFoundError is returned by the store and services when a task or
// schedule is unknown.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewTaskNotFoundError(id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: "task", ID: id}
}

func NewScheduleNotFoundError(id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: "schedule", ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// UnknownJobError is returned when a job name is not in the catalogue.
type UnknownJobError struct {
	Name string
}

func NewUnknownJobError(name string) *UnknownJobError {
	return &UnknownJobError{Name: name}
}

func (e *UnknownJobError) Error() string {
	return fmt.Sprintf("unknown job %q", e.Name)
}

func IsUnknownJobError(err error) bool {
	var e *UnknownJobError
	return errors.As(err, &e)
}

// InvalidArgumentError is returned when a request carries malformed
// parameters, such as a negative delay.
type InvalidArgumentError struct {
	Reason string
}

func NewInvalidArgumentError(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}
