package main

import (
	"net/http"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/task-executor/api/v1"
	"github.com/kubev2v/task-executor/test/e2e/infra"
	"github.com/kubev2v/task-executor/test/e2e/service"
)

func startExecutor(ec infra.ExecutorConfig) *service.ExecutorSvc {
	baseURL, err := infraManager.StartExecutor(ec)
	Expect(err).NotTo(HaveOccurred())

	token, err := infraManager.GenerateToken(infra.TokenSubject)
	Expect(err).NotTo(HaveOccurred())

	svc := service.NewExecutorService(baseURL).WithToken(token)
	Eventually(svc.Health, 10*time.Second, 100*time.Millisecond).Should(Equal(http.StatusOK))
	return svc
}

func inProcessOnly() {
	if cfg.InfraMode != "inprocess" {
		Skip("needs an executor started by the test")
	}
}

var _ = Describe("Executor", func() {
	AfterEach(func() {
		Expect(infraManager.StopExecutor()).To(Succeed())
	})

	Context("tasks", func() {
		var svc *service.ExecutorSvc

		BeforeEach(func() {
			svc = startExecutor(infra.ExecutorConfig{})
		})

		It("should run a computation and journal it", func() {
			// Given
			created, code, err := svc.SubmitTask(v1.CreateTaskRequest{Job: "echo", Params: map[string]string{"message": "e2e"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusAccepted))

			// When
			task, code, err := svc.GetTask(created.Id, 5*time.Second)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusOK))
			Expect(task.State).To(Equal("completed"))
			Expect(*task.Result).To(Equal("e2e"))

			Eventually(func() int {
				list, _, err := svc.ListTasks(url.Values{"state": {"completed"}, "name": {"echo"}})
				Expect(err).NotTo(HaveOccurred())
				return list.Total
			}).Should(BeNumerically(">=", 1))
		})

		It("should retry a flaky job until it succeeds", func() {
			created, _, err := svc.SubmitTask(v1.CreateTaskRequest{
				Job:    "flaky",
				Params: map[string]string{"failures": "2", "retries": "3", "backoff": "10ms", "message": "ok"},
			})
			Expect(err).NotTo(HaveOccurred())

			task, _, err := svc.GetTask(created.Id, 5*time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(task.State).To(Equal("completed"))
		})

		It("should cancel a running task", func() {
			created, _, err := svc.SubmitTask(v1.CreateTaskRequest{Job: "sleep", Params: map[string]string{"duration": "30s"}})
			Expect(err).NotTo(HaveOccurred())

			resp, code, err := svc.CancelTask(created.Id)
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusOK))
			Expect(resp.Cancelled).To(BeTrue())

			task, _, err := svc.GetTask(created.Id, time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(task.State).To(Equal("cancelled"))
		})

		It("should run a fixed-rate schedule until it is cancelled", func() {
			schedule, code, err := svc.CreateSchedule(v1.CreateScheduleRequest{Job: "echo", Interval: "100ms"})
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusCreated))

			Eventually(func() int {
				s, _, err := svc.GetSchedule(schedule.Id)
				Expect(err).NotTo(HaveOccurred())
				return s.Runs
			}, 5*time.Second).Should(BeNumerically(">=", 3))

			cancelled, _, err := svc.CancelSchedule(schedule.Id)
			Expect(err).NotTo(HaveOccurred())
			Expect(cancelled.State).To(Equal("cancelled"))

			Eventually(func() int {
				list, _, err := svc.ListTasks(url.Values{"scheduleId": {schedule.Id}})
				Expect(err).NotTo(HaveOccurred())
				return list.Total
			}).Should(BeNumerically(">=", 3))
		})

		It("should return the first job of an any batch", func() {
			resp, code, err := svc.RunBatch(v1.BatchRequest{
				Mode: v1.BatchRequestModeAny,
				Jobs: []v1.JobRequest{
					{Job: "sleep", Params: map[string]string{"duration": "10s"}},
					{Job: "echo", Params: map[string]string{"message": "fast"}},
				},
				Timeout: "5s",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusOK))
			Expect(*resp.Winner).To(Equal(1))
			Expect(*resp.Outcomes[0].Result).To(Equal("fast"))
		})
	})

	Context("bounded queue", func() {
		It("should reject submissions when the queue is full", func() {
			inProcessOnly()
			svc := startExecutor(infra.ExecutorConfig{PoolSize: 1, QueueCapacity: 1, OnFull: "reject"})

			running, _, err := svc.SubmitTask(v1.CreateTaskRequest{Job: "sleep", Params: map[string]string{"duration": "30s"}})
			Expect(err).NotTo(HaveOccurred())
			Eventually(func() string {
				task, _, err := svc.GetTask(running.Id, 0)
				Expect(err).NotTo(HaveOccurred())
				return task.State
			}).Should(Equal("running"))

			_, code, err := svc.SubmitTask(v1.CreateTaskRequest{Job: "echo"})
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusAccepted))

			_, code, err = svc.SubmitTask(v1.CreateTaskRequest{Job: "echo"})
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusTooManyRequests))
		})

		It("should discard queued tasks on a forced shutdown", func() {
			inProcessOnly()
			svc := startExecutor(infra.ExecutorConfig{PoolSize: 1, QueueCapacity: 4})

			_, _, err := svc.SubmitTask(v1.CreateTaskRequest{Job: "sleep", Params: map[string]string{"duration": "30s"}})
			Expect(err).NotTo(HaveOccurred())
			delayed, _, err := svc.SubmitTask(v1.CreateTaskRequest{Job: "echo", Delay: "1m"})
			Expect(err).NotTo(HaveOccurred())

			resp, code, err := svc.Shutdown("force")
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusAccepted))
			Expect(resp.Discarded).To(ContainElement(delayed.Id))
		})
	})

	Context("authentication", func() {
		It("should require a bearer token", func() {
			inProcessOnly()
			svc := startExecutor(infra.ExecutorConfig{AuthEnabled: true})

			_, code, err := svc.WithToken("").Pool()
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusUnauthorized))

			status, code, err := svc.Pool()
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(http.StatusOK))
			Expect(status.Stage).To(Equal("running"))
		})
	})
})
