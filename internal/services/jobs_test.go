package services_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/services"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

var _ = Describe("Catalogue", func() {
	var (
		ctx       context.Context
		catalogue *services.Catalogue
	)

	BeforeEach(func() {
		ctx = context.Background()
		catalogue = services.NewCatalogue()
	})

	It("should list the built-in jobs", func() {
		Expect(catalogue.Names()).To(Equal([]string{"echo", "fail", "flaky", "sleep"}))
	})

	It("should reject an unknown job", func() {
		_, _, err := catalogue.Build(models.JobRequest{Job: "reboot"})

		Expect(srvErrors.IsUnknownJobError(err)).To(BeTrue())
	})

	DescribeTable("should reject malformed parameters",
		func(job string, params map[string]string) {
			_, _, err := catalogue.Build(models.JobRequest{Job: job, Params: params})

			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		},
		Entry("bad duration", "sleep", map[string]string{"duration": "soon"}),
		Entry("negative duration", "sleep", map[string]string{"duration": "-1s"}),
		Entry("bad failures", "flaky", map[string]string{"failures": "many"}),
		Entry("negative retries", "echo", map[string]string{"retries": "-2"}),
		Entry("bad backoff", "echo", map[string]string{"retries": "1", "backoff": "x"}),
	)

	It("should build an echo computation", func() {
		job, work, err := catalogue.Build(models.JobRequest{Job: "echo", Params: map[string]string{"message": "hi"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(job.Kind).To(Equal(scheduler.KindComputation))

		v, err := work(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("hi"))
	})

	It("should build a sleep action that honours cancellation", func() {
		job, work, err := catalogue.Build(models.JobRequest{Job: "sleep", Params: map[string]string{"duration": "1h"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(job.Kind).To(Equal(scheduler.KindAction))

		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err = work(cctx)
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("should make a flaky job succeed when retried enough", func() {
		_, work, err := catalogue.Build(models.JobRequest{Job: "flaky", Params: map[string]string{
			"failures": "2",
			"retries":  "3",
			"backoff":  "1ms",
			"message":  "finally",
		}})
		Expect(err).NotTo(HaveOccurred())

		v, err := work(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("finally"))
	})

	It("should give up on a flaky job without enough retries", func() {
		_, work, err := catalogue.Build(models.JobRequest{Job: "flaky", Params: map[string]string{
			"failures": "3",
			"retries":  "1",
			"backoff":  "1ms",
		}})
		Expect(err).NotTo(HaveOccurred())

		_, err = work(ctx)
		Expect(err).To(MatchError("attempt 2 failed"))
	})

	It("should not retry a failing job", func() {
		_, work, err := catalogue.Build(models.JobRequest{Job: "fail", Params: map[string]string{
			"retries": "5",
			"message": "nope",
		}})
		Expect(err).NotTo(HaveOccurred())

		start := time.Now()
		_, err = work(ctx)
		Expect(err).To(MatchError("nope"))
		Expect(time.Since(start)).To(BeNumerically("<", 50*time.Millisecond))
	})

	It("should accept registered jobs", func() {
		catalogue.Register("const", services.Job{
			Kind: scheduler.KindComputation,
			Build: func(map[string]string) (scheduler.Work[any], error) {
				return func(context.Context) (any, error) { return 7, nil }, nil
			},
		})

		_, work, err := catalogue.Build(models.JobRequest{Job: "const"})
		Expect(err).NotTo(HaveOccurred())
		Expect(work(ctx)).To(Equal(7))
	})
})
