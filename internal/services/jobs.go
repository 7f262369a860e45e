package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/kubev2v/task-executor/internal/models"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

const (
	paramDuration = "duration"
	paramMessage  = "message"
	paramFailures = "failures"
	paramRetries  = "retries"
	paramBackoff  = "backoff"

	defaultSleep   = time.Second
	defaultBackoff = 100 * time.Millisecond
)

// Job describes a catalogue entry. Build turns request parameters into a
// work function; it is called once per submission.
type Job struct {
	Kind  scheduler.Kind
	Build func(params map[string]string) (scheduler.Work[any], error)
}

// Catalogue holds the jobs that can be submitted by name.
type Catalogue struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewCatalogue returns a catalogue with the built-in jobs:
//
//	sleep  (action)       waits for "duration", honouring cancellation
//	echo   (computation)  returns "message"
//	fail   (computation)  fails with "message"
//	flaky  (computation)  fails "failures" times, then returns "message"
func NewCatalogue() *Catalogue {
	c := &Catalogue{jobs: make(map[string]Job)}
	c.Register("sleep", Job{Kind: scheduler.KindAction, Build: buildSleep})
	c.Register("echo", Job{Kind: scheduler.KindComputation, Build: buildEcho})
	c.Register("fail", Job{Kind: scheduler.KindComputation, Build: buildFail})
	c.Register("flaky", Job{Kind: scheduler.KindComputation, Build: buildFlaky})
	return c
}

func (c *Catalogue) Register(name string, job Job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs[name] = job
}

func (c *Catalogue) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.jobs))
	for name := range c.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build resolves req into a work function. A "retries" parameter wraps the
// work with exponential back-off retries.
func (c *Catalogue) Build(req models.JobRequest) (Job, scheduler.Work[any], error) {
	c.mu.RLock()
	job, ok := c.jobs[req.Job]
	c.mu.RUnlock()
	if !ok {
		return Job{}, nil, srvErrors.NewUnknownJobError(req.Job)
	}

	work, err := job.Build(req.Params)
	if err != nil {
		return Job{}, nil, err
	}

	retries, err := intParam(req.Params, paramRetries, 0)
	if err != nil {
		return Job{}, nil, err
	}
	if retries > 0 {
		initial, err := durationParam(req.Params, paramBackoff, defaultBackoff)
		if err != nil {
			return Job{}, nil, err
		}
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		work = scheduler.Retry(work, backoff.WithBackOff(b), backoff.WithMaxTries(uint(retries)+1))
	}

	return job, work, nil
}

func buildSleep(params map[string]string) (scheduler.Work[any], error) {
	d, err := durationParam(params, paramDuration, defaultSleep)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (any, error) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, nil
}

func buildEcho(params map[string]string) (scheduler.Work[any], error) {
	msg := params[paramMessage]
	return func(ctx context.Context) (any, error) {
		return msg, nil
	}, nil
}

func buildFail(params map[string]string) (scheduler.Work[any], error) {
	msg := params[paramMessage]
	if msg == "" {
		msg = "job failed"
	}
	return func(ctx context.Context) (any, error) {
		return nil, backoff.Permanent(errors.New(msg))
	}, nil
}

func buildFlaky(params map[string]string) (scheduler.Work[any], error) {
	failures, err := intParam(params, paramFailures, 1)
	if err != nil {
		return nil, err
	}
	msg := params[paramMessage]
	var attempts atomic.Int64
	return func(ctx context.Context) (any, error) {
		n := attempts.Add(1)
		if n <= int64(failures) {
			return nil, fmt.Errorf("attempt %d failed", n)
		}
		return msg, nil
	}, nil
}

func durationParam(params map[string]string, key string, def time.Duration) (time.Duration, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, srvErrors.NewInvalidArgumentError("%s %q is not a duration", key, v)
	}
	if d < 0 {
		return 0, srvErrors.NewInvalidArgumentError("%s must not be negative", key)
	}
	return d, nil
}

func intParam(params map[string]string, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, srvErrors.NewInvalidArgumentError("%s %q is not an integer", key, v)
	}
	if n < 0 {
		return 0, srvErrors.NewInvalidArgumentError("%s must not be negative", key)
	}
	return n, nil
}
