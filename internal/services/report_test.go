package services_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/services"
)

var _ = Describe("ReportService", func() {
	var (
		ctx    context.Context
		fx     *fixture
		report *services.ReportService
	)

	BeforeEach(func() {
		ctx = context.Background()
		fx = newFixture(defaultConfig())
		report = services.NewReportService(fx.store)
	})

	AfterEach(func() {
		fx.close()
	})

	It("should export the journal as a workbook", func() {
		// Arrange
		for _, job := range []string{"echo", "fail"} {
			run, err := fx.tasks.Submit(ctx, services.SubmitParams{Job: models.JobRequest{Job: job, Params: map[string]string{"message": "m"}}})
			Expect(err).NotTo(HaveOccurred())
			Eventually(func() bool {
				stored, err := fx.store.Tasks().Get(ctx, run.ID)
				return err == nil && stored.Terminal()
			}).Should(BeTrue())
		}

		// Act
		var buf bytes.Buffer
		Expect(report.Export(ctx, &buf, services.TaskListParams{})).To(Succeed())

		// Assert
		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"Tasks", "Summary"}))

		rows, err := f.GetRows("Tasks")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][0]).To(Equal("ID"))
		Expect(rows[1][1]).To(Equal("echo"))
		Expect(rows[1][5]).To(Equal("completed"))
		Expect(rows[2][5]).To(Equal("failed"))

		summary, err := f.GetRows("Summary")
		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(Equal([][]string{
			{"State", "Tasks"},
			{"completed", "1"},
			{"failed", "1"},
			{"total", "2"},
		}))
	})

	It("should honour the filters", func() {
		run, err := fx.tasks.Submit(ctx, services.SubmitParams{Job: models.JobRequest{Job: "echo"}})
		Expect(err).NotTo(HaveOccurred())
		Eventually(func() error {
			_, err := fx.store.Tasks().Get(ctx, run.ID)
			return err
		}).Should(Succeed())

		var buf bytes.Buffer
		Expect(report.Export(ctx, &buf, services.TaskListParams{States: []string{"failed"}})).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Tasks")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})
})
