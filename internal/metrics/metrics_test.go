package metrics_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kubev2v/task-executor/internal/metrics"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

var _ = Describe("Metrics", func() {
	var (
		reg *prometheus.Registry
		m   *metrics.Metrics
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()

		var err error
		m, err = metrics.NewMetrics(reg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should refuse to register twice on the same registry", func() {
		_, err := metrics.NewMetrics(reg)
		Expect(err).To(HaveOccurred())
	})

	It("should follow a task through its transitions", func() {
		now := time.Now()
		info := scheduler.TaskInfo{ID: "t1", Kind: scheduler.KindComputation, Trigger: scheduler.TriggerImmediate, ReleaseAt: now}

		info.State = scheduler.StatePending
		m.Observe(info)
		Expect(testutil.ToFloat64(m.TasksQueued)).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.TasksSubmitted.WithLabelValues("computation", "immediate"))).To(Equal(1.0))

		info.State = scheduler.StateRunning
		info.StartedAt = now.Add(10 * time.Millisecond)
		m.Observe(info)
		Expect(testutil.ToFloat64(m.TasksQueued)).To(Equal(0.0))
		Expect(testutil.ToFloat64(m.TasksActive)).To(Equal(1.0))

		info.State = scheduler.StateCompleted
		info.CompletedAt = now.Add(time.Second)
		m.Observe(info)
		Expect(testutil.ToFloat64(m.TasksActive)).To(Equal(0.0))
		Expect(testutil.ToFloat64(m.TasksCompleted.WithLabelValues("computation"))).To(Equal(1.0))
		Expect(testutil.CollectAndCount(m.RunLatency)).To(Equal(1))
	})

	It("should release the queue slot of a task cancelled before it started", func() {
		info := scheduler.TaskInfo{ID: "t1", Kind: scheduler.KindAction, Trigger: scheduler.TriggerDelayed, State: scheduler.StatePending}
		m.Observe(info)

		info.State = scheduler.StateCancelled
		info.CompletedAt = time.Now()
		m.Observe(info)

		Expect(testutil.ToFloat64(m.TasksQueued)).To(Equal(0.0))
		Expect(testutil.ToFloat64(m.TasksActive)).To(Equal(0.0))
		Expect(testutil.ToFloat64(m.TasksCancelled.WithLabelValues("action"))).To(Equal(1.0))
		Expect(testutil.CollectAndCount(m.RunLatency)).To(Equal(0))
	})

	It("should count tasks run by a scheduler", func() {
		s, err := scheduler.NewScheduler(
			scheduler.Config{PoolSize: 2, QueueCapacity: 10, OnFull: scheduler.OnFullBlock},
			scheduler.WithObserver(m),
		)
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		ctx := context.Background()
		ok, err := scheduler.Submit(ctx, s, func(ctx context.Context) (int, error) { return 1, nil })
		Expect(err).NotTo(HaveOccurred())
		ko, err := scheduler.Submit(ctx, s, func(ctx context.Context) (int, error) { return 0, errors.New("boom") })
		Expect(err).NotTo(HaveOccurred())

		_, err = scheduler.WaitAll(ctx, ok, ko)
		Expect(err).NotTo(HaveOccurred())

		Expect(testutil.ToFloat64(m.TasksCompleted.WithLabelValues("computation"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.TasksFailed.WithLabelValues("computation"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.TasksQueued)).To(Equal(0.0))
		Expect(testutil.ToFloat64(m.TasksActive)).To(Equal(0.0))
	})
})
