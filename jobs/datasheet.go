package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/skydecor/catalog/internal/datasheet"
	jobmetrics "github.com/skydecor/catalog/internal/jobs"
	"github.com/skydecor/catalog/internal/shared"
)

// Generator is the part of datasheet.Cache the jobs drive.
type Generator interface {
	GenerateAll(ctx context.Context) (datasheet.BulkResult, error)
	Regenerate(ctx context.Context, productCode string) error
}

// DatasheetJob handles the datasheet tasks.
type DatasheetJob struct {
	Generator Generator
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewDatasheetJob wires dependencies for the datasheet handlers.
func NewDatasheetJob(gen Generator, logger *slog.Logger, metrics *jobmetrics.Metrics) *DatasheetJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasheetJob{Generator: gen, Logger: logger, Metrics: metrics}
}

// Handlers lists the task handlers to register on the worker.
func (j *DatasheetJob) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskDatasheetGenerateAll, Handler: j.HandleGenerateAll},
		{Type: TaskDatasheetGenerate, Handler: j.HandleGenerate},
	}
}

// HandleGenerateAll processes TaskDatasheetGenerateAll.
func (j *DatasheetJob) HandleGenerateAll(ctx context.Context, t *asynq.Task) (err error) {
	tracker := j.Metrics.Track(TaskDatasheetGenerateAll)
	defer func() { err = tracker.End(err) }()

	result, err := j.Generator.GenerateAll(ctx)
	if errors.Is(err, datasheet.ErrNoProducts) {
		j.Logger.Info("datasheet bulk run skipped: no products")
		return nil
	}
	if err != nil {
		j.Logger.Error("datasheet bulk run", slog.Any("error", err))
		return err
	}
	j.Logger.Info("datasheet bulk run finished",
		slog.Int("total", result.Total),
		slog.Int("completed", result.Completed),
		slog.Int("failed", result.Failed))
	return nil
}

// HandleGenerate processes TaskDatasheetGenerate.
func (j *DatasheetJob) HandleGenerate(ctx context.Context, t *asynq.Task) (err error) {
	var payload DatasheetPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.ProductCode == "" {
		return fmt.Errorf("datasheet task payload: %w", asynq.SkipRetry)
	}
	tracker := j.Metrics.Track(TaskDatasheetGenerate)
	defer func() { err = tracker.End(err) }()

	err = j.Generator.Regenerate(ctx, payload.ProductCode)
	switch {
	case err == nil:
		j.Logger.Info("datasheet generated", slog.String("product_code", payload.ProductCode))
		return nil
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrValidation):
		j.Logger.Warn("datasheet task dropped", slog.String("product_code", payload.ProductCode), slog.Any("error", err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	default:
		return err
	}
}
