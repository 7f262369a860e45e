package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/task-executor/api/v1"
	"github.com/kubev2v/task-executor/internal/handlers"
	"github.com/kubev2v/task-executor/internal/services"
	"github.com/kubev2v/task-executor/internal/store"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

var _ = Describe("Handlers", func() {
	var (
		db      *sql.DB
		journal *services.Journal
		sched   *scheduler.Scheduler
		router  *gin.Engine
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, "/api/v1"+path, &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		st := store.NewStore(db)
		Expect(st.Migrate(context.Background())).To(Succeed())

		journal = services.NewJournal(st, 64)
		journal.Start()

		sched, err = scheduler.NewScheduler(scheduler.Config{
			PoolSize:      2,
			QueueCapacity: 10,
			OnFull:        scheduler.OnFullReject,
		}, scheduler.WithObserver(journal))
		Expect(err).NotTo(HaveOccurred())

		h := handlers.New(
			services.NewTaskService(sched, st, services.NewCatalogue(), journal),
			services.NewPoolService(sched),
			services.NewReportService(st),
		)

		router = gin.New()
		handlers.RegisterHandlers(h)(router.Group("/api/v1"))
	})

	AfterEach(func() {
		sched.Close()
		Expect(journal.Stop(context.Background())).To(Succeed())
		db.Close()
	})

	Context("jobs", func() {
		It("should list the catalogue", func() {
			rec := do(http.MethodGet, "/jobs", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.JobList
			decode(rec, &resp)
			Expect(resp.Jobs).To(Equal([]string{"echo", "fail", "flaky", "sleep"}))
		})
	})

	Context("tasks", func() {
		It("should submit a task and wait for its result", func() {
			// Given
			rec := do(http.MethodPost, "/tasks", v1.CreateTaskRequest{
				Job:    "echo",
				Params: map[string]string{"message": "hi"},
			})
			Expect(rec.Code).To(Equal(http.StatusAccepted))
			var created v1.Task
			decode(rec, &created)
			Expect(created.Id).NotTo(BeEmpty())
			Expect(created.Kind).To(Equal("computation"))

			// When
			rec = do(http.MethodGet, "/tasks/"+created.Id+"?wait=2s", nil)

			// Then
			Expect(rec.Code).To(Equal(http.StatusOK))
			var task v1.Task
			decode(rec, &task)
			Expect(task.State).To(Equal("completed"))
			Expect(task.Result).NotTo(BeNil())
			Expect(*task.Result).To(Equal("hi"))
		})

		It("should reject bad submissions", func() {
			Expect(do(http.MethodPost, "/tasks", map[string]string{}).Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodPost, "/tasks", v1.CreateTaskRequest{Job: "nope"}).Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodPost, "/tasks", v1.CreateTaskRequest{Job: "echo", Delay: "soon"}).Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodGet, "/tasks/x?wait=forever", nil).Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 404 for an unknown task", func() {
			rec := do(http.MethodGet, "/tasks/does-not-exist", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should cancel a running task", func() {
			rec := do(http.MethodPost, "/tasks", v1.CreateTaskRequest{
				Job:    "sleep",
				Params: map[string]string{"duration": "10s"},
			})
			Expect(rec.Code).To(Equal(http.StatusAccepted))
			var created v1.Task
			decode(rec, &created)

			rec = do(http.MethodDelete, "/tasks/"+created.Id, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp v1.CancelResponse
			decode(rec, &resp)
			Expect(resp.Cancelled).To(BeTrue())

			rec = do(http.MethodGet, "/tasks/"+created.Id+"?wait=1s", nil)
			var task v1.Task
			decode(rec, &task)
			Expect(task.State).To(Equal("cancelled"))
		})

		It("should list finished tasks from the journal", func() {
			for range 3 {
				Expect(do(http.MethodPost, "/tasks", v1.CreateTaskRequest{Job: "echo"}).Code).To(Equal(http.StatusAccepted))
			}

			Eventually(func() int {
				rec := do(http.MethodGet, "/tasks?state=completed&pageSize=2", nil)
				var resp v1.TaskListResponse
				decode(rec, &resp)
				return resp.Total
			}).Should(Equal(3))

			rec := do(http.MethodGet, "/tasks?state=completed&pageSize=2&sort=enqueuedAt:desc", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp v1.TaskListResponse
			decode(rec, &resp)
			Expect(resp.Tasks).To(HaveLen(2))
			Expect(resp.PageCount).To(Equal(2))
		})

		It("should sort the listing by comma separated or repeated sort entries", func() {
			ids := make([]string, 0, 3)
			for range 3 {
				rec := do(http.MethodPost, "/tasks", v1.CreateTaskRequest{Job: "echo"})
				Expect(rec.Code).To(Equal(http.StatusAccepted))
				var created v1.Task
				decode(rec, &created)
				Expect(do(http.MethodGet, "/tasks/"+created.Id+"?wait=2s", nil).Code).To(Equal(http.StatusOK))
				ids = append(ids, created.Id)
			}
			Eventually(func() int {
				var resp v1.TaskListResponse
				decode(do(http.MethodGet, "/tasks?state=completed", nil), &resp)
				return resp.Total
			}).Should(Equal(3))

			listed := func(query string) []string {
				rec := do(http.MethodGet, "/tasks?"+query, nil)
				Expect(rec.Code).To(Equal(http.StatusOK))
				var resp v1.TaskListResponse
				decode(rec, &resp)
				out := make([]string, 0, len(resp.Tasks))
				for _, t := range resp.Tasks {
					out = append(out, t.Id)
				}
				return out
			}

			Expect(listed("sort=enqueuedAt")).To(Equal(ids))
			Expect(listed("sort=name,enqueuedAt:desc")).To(Equal([]string{ids[2], ids[1], ids[0]}))
			Expect(listed("sort=name&sort=enqueuedAt:DESC")).To(Equal([]string{ids[2], ids[1], ids[0]}))
		})

		It("should reject a page outside the supported range", func() {
			rec := do(http.MethodGet, "/tasks?page=9223372036854775807&pageSize=100", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			var body v1.ErrorResponse
			decode(rec, &body)
			Expect(body.Error).To(ContainSubstring("page"))

			rec = do(http.MethodGet, "/tasks?page=99999999999999999999", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			decode(rec, &body)
			Expect(body.Error).To(ContainSubstring("page"))

			Expect(do(http.MethodGet, "/tasks?page=2147483647&pageSize=100", nil).Code).To(Equal(http.StatusOK))
		})

		It("should export the journal as a workbook", func() {
			Expect(do(http.MethodPost, "/tasks", v1.CreateTaskRequest{Job: "echo"}).Code).To(Equal(http.StatusAccepted))

			rec := do(http.MethodGet, "/tasks/export", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("spreadsheetml"))
			Expect(rec.Body.Len()).To(BeNumerically(">", 0))
		})
	})

	Context("schedules", func() {
		It("should create, get and cancel a schedule", func() {
			rec := do(http.MethodPost, "/schedules", v1.CreateScheduleRequest{Job: "echo", Interval: "50ms"})
			Expect(rec.Code).To(Equal(http.StatusCreated))
			var created v1.Schedule
			decode(rec, &created)
			Expect(created.State).To(Equal("active"))

			Eventually(func() int {
				var s v1.Schedule
				decode(do(http.MethodGet, "/schedules/"+created.Id, nil), &s)
				return s.Runs
			}).Should(BeNumerically(">=", 2))

			rec = do(http.MethodDelete, "/schedules/"+created.Id, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var cancelled v1.Schedule
			decode(rec, &cancelled)
			Expect(cancelled.State).To(Equal("cancelled"))

			var list v1.ScheduleList
			decode(do(http.MethodGet, "/schedules", nil), &list)
			Expect(list.Schedules).To(HaveLen(1))
		})

		It("should reject a schedule without interval", func() {
			Expect(do(http.MethodPost, "/schedules", v1.CreateScheduleRequest{Job: "echo"}).Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodGet, "/schedules/unknown", nil).Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("batches", func() {
		It("should wait for every job in all mode", func() {
			rec := do(http.MethodPost, "/batches", v1.BatchRequest{
				Mode: v1.BatchRequestModeAll,
				Jobs: []v1.JobRequest{
					{Job: "echo", Params: map[string]string{"message": "a"}},
					{Job: "fail"},
				},
				Timeout: "5s",
			})
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.BatchResponse
			decode(rec, &resp)
			Expect(resp.Winner).To(BeNil())
			Expect(resp.Outcomes).To(HaveLen(2))
			Expect(resp.Outcomes[0].State).To(Equal("completed"))
			Expect(resp.Outcomes[1].State).To(Equal("failed"))
		})

		It("should return the first finished job in any mode", func() {
			rec := do(http.MethodPost, "/batches", v1.BatchRequest{
				Mode: v1.BatchRequestModeAny,
				Jobs: []v1.JobRequest{
					{Job: "sleep", Params: map[string]string{"duration": "5s"}},
					{Job: "echo"},
				},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.BatchResponse
			decode(rec, &resp)
			Expect(resp.Winner).NotTo(BeNil())
			Expect(*resp.Winner).To(Equal(1))
		})

		It("should reject an unknown mode", func() {
			rec := do(http.MethodPost, "/batches", v1.BatchRequest{Mode: "some", Jobs: []v1.JobRequest{{Job: "echo"}}})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a batch without jobs or with an unnamed job", func() {
			Expect(do(http.MethodPost, "/batches", v1.BatchRequest{Mode: v1.BatchRequestModeAll}).Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodPost, "/batches", v1.BatchRequest{Mode: v1.BatchRequestModeAll, Jobs: []v1.JobRequest{{Job: ""}}}).Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("pool", func() {
		It("should report the pool status", func() {
			rec := do(http.MethodGet, "/pool", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var status v1.PoolStatus
			decode(rec, &status)
			Expect(status.Stage).To(Equal("running"))
			Expect(status.PoolSize).To(Equal(2))
			Expect(status.QueueCapacity).To(Equal(10))
		})

		It("should refuse tasks after a forced shutdown", func() {
			Expect(do(http.MethodPost, "/pool/shutdown?mode=bogus", nil).Code).To(Equal(http.StatusBadRequest))

			rec := do(http.MethodPost, "/pool/shutdown?mode=force", nil)
			Expect(rec.Code).To(Equal(http.StatusAccepted))

			rec = do(http.MethodPost, "/tasks", v1.CreateTaskRequest{Job: "echo"})
			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})
})
