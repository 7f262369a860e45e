package scheduler_test

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

func newScheduler(poolSize, capacity int, onFull scheduler.OnFullPolicy) *scheduler.Scheduler {
	s, err := scheduler.NewScheduler(scheduler.Config{
		PoolSize:      poolSize,
		QueueCapacity: capacity,
		OnFull:        onFull,
	})
	Expect(err).NotTo(HaveOccurred())
	return s
}

// blockUntilCancelled returns work that signals started and then waits for
// its context to be cancelled.
func blockUntilCancelled(started chan<- struct{}) scheduler.Work[any] {
	return func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
}

var _ = Describe("Scheduler", func() {
	var (
		ctx context.Context
		s   *scheduler.Scheduler
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if s != nil {
			s.Close()
			s = nil
		}
	})

	Describe("NewScheduler", func() {
		It("should reject a pool size of zero", func() {
			_, err := scheduler.NewScheduler(scheduler.Config{PoolSize: 0, QueueCapacity: 1, OnFull: scheduler.OnFullBlock})
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsInvalidConfigurationError(err)).To(BeTrue())
		})

		It("should reject a negative queue capacity", func() {
			_, err := scheduler.NewScheduler(scheduler.Config{PoolSize: 1, QueueCapacity: -1, OnFull: scheduler.OnFullBlock})
			Expect(srvErrors.IsInvalidConfigurationError(err)).To(BeTrue())
		})

		It("should reject an unknown full-queue policy", func() {
			_, err := scheduler.NewScheduler(scheduler.Config{PoolSize: 1, QueueCapacity: 1, OnFull: "drop"})
			Expect(srvErrors.IsInvalidConfigurationError(err)).To(BeTrue())
		})

		It("should parse full-queue policies", func() {
			p, err := scheduler.ParseOnFullPolicy("rejectWithError")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(scheduler.OnFullReject))

			_, err = scheduler.ParseOnFullPolicy("sometimes")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Submit", func() {
		It("should run work and return its value through the future", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			future, err := scheduler.Submit(ctx, s, func(ctx context.Context) (string, error) {
				return "done", nil
			})
			Expect(err).NotTo(HaveOccurred())

			v, err := future.GetTimeout(2 * time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("done"))
			Expect(future.State()).To(Equal(scheduler.StateCompleted))
		})

		It("should complete tasks in submission order with a single worker", func() {
			s = newScheduler(1, 50, scheduler.OnFullBlock)

			var (
				mu    sync.Mutex
				order []int
			)
			futures := make([]*scheduler.Future[int], 0, 20)
			for i := range 20 {
				f, err := scheduler.Submit(ctx, s, func(ctx context.Context) (int, error) {
					mu.Lock()
					order = append(order, i)
					mu.Unlock()
					return i, nil
				})
				Expect(err).NotTo(HaveOccurred())
				futures = append(futures, f)
			}

			values, err := scheduler.WaitAllOrError(ctx, futures...)
			Expect(err).NotTo(HaveOccurred())

			expected := make([]int, 20)
			for i := range expected {
				expected[i] = i
			}
			Expect(values).To(Equal(expected))
			mu.Lock()
			defer mu.Unlock()
			Expect(order).To(Equal(expected))
		})

		It("should keep a worker alive after a task fails", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			failing, err := scheduler.Submit(ctx, s, func(ctx context.Context) (any, error) {
				return nil, errors.New("boom")
			})
			Expect(err).NotTo(HaveOccurred())
			succeeding, err := scheduler.Submit(ctx, s, func(ctx context.Context) (any, error) {
				return "ok", nil
			})
			Expect(err).NotTo(HaveOccurred())

			v, err := succeeding.GetTimeout(2 * time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("ok"))

			_, err = failing.GetTimeout(time.Second)
			Expect(srvErrors.IsTaskFailedError(err)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("boom")))
			Expect(failing.State()).To(Equal(scheduler.StateFailed))
		})

		It("should keep a worker alive after a task panics", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			panicking, err := scheduler.Submit(ctx, s, func(ctx context.Context) (any, error) {
				panic("kaboom")
			})
			Expect(err).NotTo(HaveOccurred())
			succeeding, err := scheduler.Submit(ctx, s, func(ctx context.Context) (any, error) {
				return "ok", nil
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(succeeding.GetTimeout(2 * time.Second)).To(Equal("ok"))

			_, err = panicking.GetTimeout(time.Second)
			Expect(srvErrors.IsTaskFailedError(err)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("worker panicked: kaboom")))
		})

		It("should never run more tasks at once than the pool size", func() {
			s = newScheduler(3, 100, scheduler.OnFullBlock)

			var (
				mu      sync.Mutex
				running int
				peak    int
			)
			futures := make([]*scheduler.Future[struct{}], 0, 30)
			for range 30 {
				f, err := s.Execute(ctx, func(ctx context.Context) error {
					mu.Lock()
					running++
					peak = max(peak, running)
					mu.Unlock()

					time.Sleep(10 * time.Millisecond)

					mu.Lock()
					running--
					mu.Unlock()
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
				futures = append(futures, f)
			}

			_, err := scheduler.WaitAllOrError(ctx, futures...)
			Expect(err).NotTo(HaveOccurred())
			Expect(peak).To(BeNumerically("<=", 3))
			Expect(peak).To(BeNumerically(">", 1))
		})
	})

	Describe("Delayed work", func() {
		It("should not run a delayed task before its delay", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			submitted := time.Now()
			future, err := scheduler.SubmitAfter(ctx, s, 200*time.Millisecond, func(ctx context.Context) (time.Time, error) {
				return time.Now(), nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(future.State()).To(Equal(scheduler.StatePending))

			ranAt, err := future.GetTimeout(2 * time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranAt.Sub(submitted)).To(BeNumerically(">=", 200*time.Millisecond))
		})

		It("should release an immediate task ahead of an earlier delayed one", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			order := make(chan string, 2)
			delayed, err := s.ScheduleAfter(ctx, 150*time.Millisecond, func(ctx context.Context) error {
				order <- "delayed"
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			immediate, err := s.Execute(ctx, func(ctx context.Context) error {
				order <- "immediate"
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = scheduler.WaitAll(ctx, delayed, immediate)
			Expect(err).NotTo(HaveOccurred())
			Expect(<-order).To(Equal("immediate"))
			Expect(<-order).To(Equal("delayed"))
		})
	})

	Describe("Queue capacity", func() {
		It("should reject work when the queue is full under the reject policy", func() {
			s = newScheduler(1, 1, scheduler.OnFullReject)

			started := make(chan struct{})
			_, err := scheduler.Submit(ctx, s, blockUntilCancelled(started))
			Expect(err).NotTo(HaveOccurred())
			Eventually(started, time.Second).Should(BeClosed())

			_, err = s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsQueueFullError(err)).To(BeTrue())
		})

		It("should block submission until room is available under the block policy", func() {
			s = newScheduler(1, 1, scheduler.OnFullBlock)

			started := make(chan struct{})
			blocker, err := scheduler.Submit(ctx, s, blockUntilCancelled(started))
			Expect(err).NotTo(HaveOccurred())
			Eventually(started, time.Second).Should(BeClosed())

			_, err = s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(err).NotTo(HaveOccurred())

			submitted := make(chan error, 1)
			go func() {
				_, err := s.Execute(ctx, func(ctx context.Context) error { return nil })
				submitted <- err
			}()

			Consistently(submitted, 200*time.Millisecond).ShouldNot(Receive())
			blocker.Cancel()
			Eventually(submitted, time.Second).Should(Receive(BeNil()))
		})

		It("should give up a blocked submission when its context expires", func() {
			s = newScheduler(1, 1, scheduler.OnFullBlock)

			started := make(chan struct{})
			_, err := scheduler.Submit(ctx, s, blockUntilCancelled(started))
			Expect(err).NotTo(HaveOccurred())
			Eventually(started, time.Second).Should(BeClosed())
			_, err = s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(err).NotTo(HaveOccurred())

			waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()
			_, err = s.Execute(waitCtx, func(ctx context.Context) error { return nil })
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})
	})

	Describe("Future", func() {
		It("should time out the waiter without affecting the task", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			release := make(chan struct{})
			future, err := scheduler.Submit(ctx, s, func(ctx context.Context) (string, error) {
				<-release
				return "late", nil
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = future.GetTimeout(50 * time.Millisecond)
			Expect(srvErrors.IsTimeoutError(err)).To(BeTrue())
			Expect(err).To(MatchError(context.DeadlineExceeded))

			close(release)
			Expect(future.GetTimeout(time.Second)).To(Equal("late"))
		})

		It("should remove a cancelled task from the queue", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			started := make(chan struct{})
			blocker, err := scheduler.Submit(ctx, s, blockUntilCancelled(started))
			Expect(err).NotTo(HaveOccurred())
			Eventually(started, time.Second).Should(BeClosed())

			ran := make(chan struct{}, 1)
			queued, err := s.Execute(ctx, func(ctx context.Context) error {
				ran <- struct{}{}
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stats().Queued).To(Equal(1))

			Expect(queued.Cancel()).To(BeTrue())
			Expect(queued.State()).To(Equal(scheduler.StateCancelled))
			Expect(s.Stats().Queued).To(Equal(0))

			_, err = queued.GetTimeout(time.Second)
			Expect(srvErrors.IsCancelledError(err)).To(BeTrue())
			Expect(err).To(MatchError(context.Canceled))

			blocker.Cancel()
			Consistently(ran, 100*time.Millisecond).ShouldNot(Receive())
		})

		It("should interrupt a running task on cancel", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			cancelled := make(chan bool, 1)
			future, err := scheduler.Submit(ctx, s, func(ctx context.Context) (any, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			})
			Expect(err).NotTo(HaveOccurred())

			Eventually(future.State, time.Second).Should(Equal(scheduler.StateRunning))
			Expect(future.Cancel()).To(BeTrue())

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
			Expect(future.State()).To(Equal(scheduler.StateCancelled))
		})

		It("should ignore cancel on a terminal task", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			future, err := scheduler.Submit(ctx, s, func(ctx context.Context) (int, error) {
				return 42, nil
			})
			Expect(err).NotTo(HaveOccurred())
			Eventually(future.Done(), time.Second).Should(BeClosed())

			Expect(future.Cancel()).To(BeFalse())
			Expect(future.State()).To(Equal(scheduler.StateCompleted))
			Expect(future.Result().Data).To(Equal(42))
		})
	})

	Describe("Observers", func() {
		It("should report every transition in order", func() {
			var (
				mu     sync.Mutex
				states = map[string][]scheduler.State{}
			)
			obs := scheduler.ObserverFunc(func(info scheduler.TaskInfo) {
				mu.Lock()
				states[info.ID] = append(states[info.ID], info.State)
				mu.Unlock()
			})

			var err error
			s, err = scheduler.NewScheduler(scheduler.Config{PoolSize: 2, QueueCapacity: 10, OnFull: scheduler.OnFullBlock}, scheduler.WithObserver(obs))
			Expect(err).NotTo(HaveOccurred())

			ok, err := s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(err).NotTo(HaveOccurred())
			ko, err := s.Execute(ctx, func(ctx context.Context) error { return errors.New("nope") })
			Expect(err).NotTo(HaveOccurred())
			_, err = scheduler.WaitAll(ctx, ok, ko)
			Expect(err).NotTo(HaveOccurred())

			mu.Lock()
			defer mu.Unlock()
			Expect(states[ok.ID()]).To(Equal([]scheduler.State{scheduler.StatePending, scheduler.StateRunning, scheduler.StateCompleted}))
			Expect(states[ko.ID()]).To(Equal([]scheduler.State{scheduler.StatePending, scheduler.StateRunning, scheduler.StateFailed}))
		})

		It("should count outcomes in stats", func() {
			s = newScheduler(2, 10, scheduler.OnFullBlock)

			ok, _ := s.Execute(ctx, func(ctx context.Context) error { return nil })
			ko, _ := s.Execute(ctx, func(ctx context.Context) error { return errors.New("nope") })
			_, err := scheduler.WaitAll(ctx, ok, ko)
			Expect(err).NotTo(HaveOccurred())

			stats := s.Stats()
			Expect(stats.Stage).To(Equal(scheduler.StageRunning))
			Expect(stats.PoolSize).To(Equal(2))
			Expect(stats.Submitted).To(BeEquivalentTo(2))
			Expect(stats.Completed).To(BeEquivalentTo(1))
			Expect(stats.Failed).To(BeEquivalentTo(1))
		})
	})

	Describe("Shutdown", func() {
		It("should cancel queued tasks and reject new ones on forced shutdown", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			started := make(chan struct{})
			running, err := scheduler.Submit(ctx, s, blockUntilCancelled(started))
			Expect(err).NotTo(HaveOccurred())
			Eventually(started, time.Second).Should(BeClosed())

			queued := make([]*scheduler.Future[struct{}], 0, 3)
			for range 3 {
				f, err := s.Execute(ctx, func(ctx context.Context) error { return nil })
				Expect(err).NotTo(HaveOccurred())
				queued = append(queued, f)
			}

			discarded := s.ShutdownForce()
			Expect(discarded).To(HaveLen(3))
			for _, f := range queued {
				Expect(f.State()).To(Equal(scheduler.StateCancelled))
				Expect(discarded).To(ContainElement(f.ID()))
			}

			_, err = s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(srvErrors.IsQueueClosedError(err)).To(BeTrue())

			Expect(s.AwaitTermination(2 * time.Second)).To(BeTrue())
			Expect(running.State()).To(Equal(scheduler.StateCancelled))
			Expect(s.Stage()).To(Equal(scheduler.StageTerminated))
		})

		It("should not publish a submission still blocked on a full queue when forced", func() {
			var (
				mu   sync.Mutex
				seen = map[string][]scheduler.State{}
			)
			obs := scheduler.ObserverFunc(func(info scheduler.TaskInfo) {
				mu.Lock()
				seen[info.ID] = append(seen[info.ID], info.State)
				mu.Unlock()
			})
			var err error
			s, err = scheduler.NewScheduler(scheduler.Config{PoolSize: 1, QueueCapacity: 1, OnFull: scheduler.OnFullBlock}, scheduler.WithObserver(obs))
			Expect(err).NotTo(HaveOccurred())

			started := make(chan struct{})
			running, err := scheduler.Submit(ctx, s, blockUntilCancelled(started))
			Expect(err).NotTo(HaveOccurred())
			Eventually(started, time.Second).Should(BeClosed())
			queued, err := s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(err).NotTo(HaveOccurred())

			blocked := make(chan error, 1)
			go func() {
				defer GinkgoRecover()
				_, err := s.Execute(ctx, func(ctx context.Context) error { return nil })
				blocked <- err
			}()
			Consistently(blocked, 100*time.Millisecond).ShouldNot(Receive())

			discarded := s.ShutdownForce()

			var blockedErr error
			Eventually(blocked, time.Second).Should(Receive(&blockedErr))
			Expect(srvErrors.IsQueueClosedError(blockedErr)).To(BeTrue())
			Expect(discarded).To(ConsistOf(queued.ID()))
			Expect(s.AwaitTermination(2 * time.Second)).To(BeTrue())

			mu.Lock()
			defer mu.Unlock()
			Expect(seen).To(HaveLen(2))
			Expect(seen).To(HaveKey(running.ID()))
			Expect(seen).To(HaveKey(queued.ID()))
			Expect(seen[queued.ID()]).To(Equal([]scheduler.State{scheduler.StatePending, scheduler.StateCancelled}))

			stats := s.Stats()
			Expect(stats.Submitted).To(BeEquivalentTo(2))
			Expect(stats.Cancelled).To(BeEquivalentTo(2))
		})

		It("should report termination only after in-flight work finishes", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			started := make(chan struct{})
			unblock := make(chan struct{})
			_, err := s.Execute(ctx, func(ctx context.Context) error {
				close(started)
				<-unblock
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Eventually(started, time.Second).Should(BeClosed())

			s.ShutdownGraceful()
			Expect(s.Stage()).To(Equal(scheduler.StageShuttingDown))
			Expect(s.AwaitTermination(0)).To(BeFalse())

			close(unblock)
			Expect(s.AwaitTermination(2 * time.Second)).To(BeTrue())
			Expect(s.AwaitTermination(0)).To(BeTrue())
		})

		It("should drain queued and delayed tasks on graceful shutdown", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)

			queued, err := s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(err).NotTo(HaveOccurred())
			delayed, err := s.ScheduleAfter(ctx, 100*time.Millisecond, func(ctx context.Context) error { return nil })
			Expect(err).NotTo(HaveOccurred())

			s.ShutdownGraceful()
			_, err = s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(srvErrors.IsQueueClosedError(err)).To(BeTrue())

			Expect(s.AwaitTermination(2 * time.Second)).To(BeTrue())
			Expect(queued.State()).To(Equal(scheduler.StateCompleted))
			Expect(delayed.State()).To(Equal(scheduler.StateCompleted))
		})

		It("should return queue closed when work is submitted after Close", func() {
			s = newScheduler(1, 10, scheduler.OnFullBlock)
			s.Close()

			_, err := s.Execute(ctx, func(ctx context.Context) error { return nil })
			Expect(srvErrors.IsQueueClosedError(err)).To(BeTrue())
		})

		It("should not leak goroutines after Close under load", func() {
			base := runtime.NumGoroutine()
			s = newScheduler(4, 300, scheduler.OnFullBlock)

			for range 200 {
				_, err := scheduler.Submit(ctx, s, func(ctx context.Context) (any, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				})
				Expect(err).NotTo(HaveOccurred())
			}

			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})
})
