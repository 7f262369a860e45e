package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/store"
)

const (
	sheetTasks   = "Tasks"
	sheetSummary = "Summary"
)

var taskSheetHeader = []any{
	"ID", "Name", "Kind", "Trigger", "Schedule", "State",
	"Enqueued At", "Started At", "Completed At", "Duration (ms)", "Result", "Error",
}

// ReportService exports the task journal as an XLSX workbook.
type ReportService struct {
	store *store.Store
}

func NewReportService(st *store.Store) *ReportService {
	return &ReportService{store: st}
}

// Export writes a workbook with a "Tasks" sheet (one row per run matching
// params, pagination ignored) and a "Summary" sheet (runs per state).
func (r *ReportService) Export(ctx context.Context, w io.Writer, params TaskListParams) error {
	opts := []store.ListOption{
		store.ByStates(params.States...),
		store.ByKinds(params.Kinds...),
		store.ByNames(params.Names...),
		store.ByRepeatingID(params.RepeatingID),
		store.WithDefaultSort(),
	}
	runs, err := r.store.Tasks().List(ctx, opts...)
	if err != nil {
		return err
	}

	counts, err := r.store.Tasks().CountByState(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTasks); err != nil {
		return err
	}
	if err := writeTaskSheet(f, runs); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	if err := writeSummarySheet(f, counts); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeTaskSheet(f *excelize.File, runs []models.TaskRun) error {
	if err := f.SetSheetRow(sheetTasks, "A1", &taskSheetHeader); err != nil {
		return err
	}

	for i, run := range runs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			run.ID,
			run.Name,
			run.Kind,
			run.Trigger,
			run.RepeatingID,
			run.State,
			formatTime(&run.EnqueuedAt),
			formatTime(run.StartedAt),
			formatTime(run.CompletedAt),
			run.Duration().Milliseconds(),
			run.Result,
			run.Error,
		}
		if err := f.SetSheetRow(sheetTasks, cell, &row); err != nil {
			return err
		}
	}

	return f.AutoFilter(sheetTasks, fmt.Sprintf("A1:L%d", len(runs)+1), nil)
}

func writeSummarySheet(f *excelize.File, counts map[string]int) error {
	if err := f.SetSheetRow(sheetSummary, "A1", &[]any{"State", "Tasks"}); err != nil {
		return err
	}

	states := make([]string, 0, len(counts))
	for state := range counts {
		states = append(states, state)
	}
	sort.Strings(states)

	total := 0
	for i, state := range states {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &[]any{state, counts[state]}); err != nil {
			return err
		}
		total += counts[state]
	}

	cell, err := excelize.CoordinatesToCellName(1, len(states)+2)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetSummary, cell, &[]any{"total", total})
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
