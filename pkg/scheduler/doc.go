// Package scheduler implements a bounded worker pool for executing async work with futures.
//
// The scheduler runs a fixed pool of workers that pull tasks from a single
// bounded queue. Work is submitted immediately, after a delay or at a fixed
// rate, and every submission returns a Future used to wait for the outcome or
// to cancel the task.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler                                 │
//	│                                                                     │
//	│  Submit / Execute / SubmitAfter / ScheduleAfter / ScheduleAtFixedRate│
//	│                               │                                     │
//	│                               ▼                                     │
//	│  ┌─────────────────────────────────────────────────────────┐        │
//	│  │          Task Queue (bounded, ordered by release time)  │        │
//	│  │  [t1 @now] [t2 @now] [t3 @now+5s] ...                   │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│                               │ pop() when release time ≤ now       │
//	│         ┌─────────────────────┼─────────────────────┐               │
//	│         ▼                     ▼                     ▼               │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 1   │      │   Worker 2   │      │   Worker N   │       │
//	│  └──────┬───────┘      └──────┬───────┘      └──────┬───────┘       │
//	│         └─────────────────────┼─────────────────────┘               │
//	│                               ▼                                     │
//	│                    Future (written exactly once)                    │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Core Components
//
// Task Queue:
//   - Bounded by Config.QueueCapacity; delayed tasks count toward capacity
//   - Ordered by release time, FIFO among equal release times
//   - When full: OnFullBlock waits for room, OnFullReject fails with QueueFullError
//   - Once closed, rejects pushes but keeps handing out queued tasks
//
// Worker:
//   - Config.PoolSize workers are started by NewScheduler
//   - Loops: pop a task, run it, write the outcome on its future
//   - Recovers from panics in work functions and reports them as errors
//
// Future:
//   - State: pending → running → completed | failed | cancelled
//   - Get(ctx) blocks until the task is terminal or ctx is done
//   - Cancel() removes a queued task from the queue or cancels the context of a
//     running one
//
// # Future States
//
//	┌─────────┐  pop()   ┌─────────┐  work returns  ┌───────────┐
//	│ Pending │ ───────► │ Running │ ─────────────► │ Completed │
//	└────┬────┘          └────┬────┘       │        └───────────┘
//	     │                    │            │        ┌───────────┐
//	     │     Cancel()       │ Cancel()   └──────► │  Failed   │
//	     │                    │                     └───────────┘
//	     ▼                    ▼
//	┌─────────────────────────────┐
//	│          Cancelled          │
//	└─────────────────────────────┘
//
// The first terminal transition wins. A task cancelled while running keeps
// running until it observes ctx.Done(); its result is then discarded.
//
// # Error Reporting
//
// Errors surface in three places:
//
//   - At submission: QueueClosedError after shutdown, QueueFullError under the
//     reject policy, ctx.Err() when a blocked submission gives up.
//   - On the future: TaskFailedError wraps the error returned by the work
//     (or "worker panicked: ..." for a panic), CancelledError for cancelled tasks.
//   - On the waiter: TimeoutError when the wait deadline elapses. The task
//     itself is not affected.
//
// # Fixed-Rate Schedules
//
// ScheduleAtFixedRate fires on ticks start + k*interval. Only one instance of a
// schedule is ever queued or running: when an instance overruns, the ticks it
// covered are skipped and the next instance fires on the first tick after it
// finished.
//
//	interval = 100ms, instance takes 250ms
//
//	tick:   0    100   200   300   400   500   600
//	        ├─run──────────┤   ├─run──────────┤   ├─ ...
//	               skip  skip        skip  skip
//
// A schedule ends when RepeatingFuture.Cancel() is called, when an instance
// fails, or when the scheduler shuts down.
//
// # Waiting on Several Futures
//
//	WaitAny(ctx, f1, f2, f3)        // index and outcome of the first terminal future
//	WaitAll(ctx, f1, f2, f3)        // all outcomes, in input order
//	WaitAllOrError(ctx, f1, f2, f3) // values, or the first failure in input order
//	InvokeAny(ctx, s, w1, w2, w3)   // first successful value, cancels the rest
//	InvokeAll(ctx, s, w1, w2, w3)   // submit then WaitAll
//
// # Lifecycle
//
//	┌─────────┐  Shutdown*()  ┌───────────────┐  workers return  ┌────────────┐
//	│ Running │ ────────────► │ Shutting-down │ ───────────────► │ Terminated │
//	└─────────┘               └───────────────┘                  └────────────┘
//
// ShutdownGraceful():
//  1. Rejects new submissions with QueueClosedError
//  2. Stops fixed-rate schedules from firing again
//  3. Lets queued (including delayed) and running tasks finish
//
// ShutdownForce():
//  1. Same as ShutdownGraceful
//  2. Drains the queue and cancels the futures of the drained tasks
//  3. Cancels the context of every running task
//
// AwaitTermination(timeout) reports whether the scheduler terminated within
// timeout. Close() forces a shutdown and waits for termination.
//
// # Usage Example
//
//	sched, err := scheduler.NewScheduler(scheduler.Config{
//	    PoolSize:      4,
//	    QueueCapacity: 100,
//	    OnFull:        scheduler.OnFullBlock,
//	})
//	if err != nil {
//	    return err
//	}
//	defer sched.Close()
//
//	future, err := scheduler.Submit(ctx, sched, func(ctx context.Context) (string, error) {
//	    time.Sleep(100 * time.Millisecond)
//	    return "done", nil
//	})
//	if err != nil {
//	    return err
//	}
//
//	v, err := future.GetTimeout(time.Second)
//	if err != nil {
//	    log.Printf("work failed: %v", err)
//	}
package scheduler
