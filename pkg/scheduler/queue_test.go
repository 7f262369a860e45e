package scheduler

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

func newTestTask(id string, delay time.Duration) *task {
	return &task{id: id, releaseAt: time.Now().Add(delay), index: -1, run: func() {}}
}

func popID(q *taskQueue) string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	t, err := q.pop(ctx)
	Expect(err).NotTo(HaveOccurred())
	return t.id
}

var _ = Describe("taskQueue", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should release tasks in insertion order when eligible at the same time", func() {
		q := newTaskQueue(10, OnFullBlock)
		now := time.Now()
		for _, id := range []string{"a", "b", "c"} {
			Expect(q.push(ctx, &task{id: id, releaseAt: now, index: -1})).To(Succeed())
		}

		Expect(popID(q)).To(Equal("a"))
		Expect(popID(q)).To(Equal("b"))
		Expect(popID(q)).To(Equal("c"))
	})

	It("should hold a delayed task until its release time", func() {
		q := newTaskQueue(10, OnFullBlock)
		Expect(q.push(ctx, newTestTask("later", 150*time.Millisecond))).To(Succeed())

		shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err := q.pop(shortCtx)
		Expect(err).To(MatchError(context.DeadlineExceeded))

		start := time.Now()
		Expect(popID(q)).To(Equal("later"))
		Expect(time.Since(start)).To(BeNumerically(">", 50*time.Millisecond))
	})

	It("should wake a waiting pop when an earlier task arrives", func() {
		q := newTaskQueue(10, OnFullBlock)
		Expect(q.push(ctx, newTestTask("later", time.Hour))).To(Succeed())

		popped := make(chan string, 1)
		go func() {
			defer GinkgoRecover()
			popped <- popID(q)
		}()

		Consistently(popped, 50*time.Millisecond).ShouldNot(Receive())
		Expect(q.push(ctx, newTestTask("now", 0))).To(Succeed())
		Eventually(popped, time.Second).Should(Receive(Equal("now")))
	})

	It("should count delayed tasks toward capacity", func() {
		q := newTaskQueue(1, OnFullReject)
		Expect(q.push(ctx, newTestTask("later", time.Hour))).To(Succeed())

		err := q.push(ctx, newTestTask("now", 0))
		Expect(srvErrors.IsQueueFullError(err)).To(BeTrue())
		Expect(q.Len()).To(Equal(1))
	})

	It("should remove a queued task exactly once", func() {
		q := newTaskQueue(10, OnFullBlock)
		a, b := newTestTask("a", 0), newTestTask("b", 0)
		Expect(q.push(ctx, a)).To(Succeed())
		Expect(q.push(ctx, b)).To(Succeed())

		Expect(q.remove(a)).To(BeTrue())
		Expect(q.remove(a)).To(BeFalse())
		Expect(q.Len()).To(Equal(1))
		Expect(popID(q)).To(Equal("b"))
		Expect(q.remove(b)).To(BeFalse())
	})

	It("should keep serving queued tasks after close and then fail", func() {
		q := newTaskQueue(10, OnFullBlock)
		Expect(q.push(ctx, newTestTask("a", 0))).To(Succeed())
		q.close()

		err := q.push(ctx, newTestTask("b", 0))
		Expect(srvErrors.IsQueueClosedError(err)).To(BeTrue())

		Expect(popID(q)).To(Equal("a"))
		_, err = q.pop(ctx)
		Expect(srvErrors.IsQueueClosedError(err)).To(BeTrue())
	})

	It("should unblock a full push when the queue closes", func() {
		q := newTaskQueue(1, OnFullBlock)
		Expect(q.push(ctx, newTestTask("a", 0))).To(Succeed())

		pushed := make(chan error, 1)
		go func() {
			pushed <- q.push(ctx, newTestTask("b", 0))
		}()

		Consistently(pushed, 50*time.Millisecond).ShouldNot(Receive())
		q.close()

		var err error
		Eventually(pushed, time.Second).Should(Receive(&err))
		Expect(srvErrors.IsQueueClosedError(err)).To(BeTrue())
	})

	It("should drain every task in release order", func() {
		q := newTaskQueue(10, OnFullBlock)
		Expect(q.push(ctx, newTestTask("late", time.Hour))).To(Succeed())
		Expect(q.push(ctx, newTestTask("first", 0))).To(Succeed())
		Expect(q.push(ctx, newTestTask("second", 0))).To(Succeed())

		drained := q.drain()
		ids := make([]string, 0, len(drained))
		for _, t := range drained {
			ids = append(ids, t.id)
		}
		Expect(ids).To(Equal([]string{"first", "second", "late"}))
		Expect(q.Len()).To(BeZero())
	})
})
