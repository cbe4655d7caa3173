package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydecor/catalog/internal/catalog"
	"github.com/skydecor/catalog/internal/datasheet"
)

type stubGenerator struct {
	result    datasheet.BulkResult
	err       error
	generated []string
}

func (s *stubGenerator) GenerateAll(ctx context.Context) (datasheet.BulkResult, error) {
	return s.result, s.err
}

func (s *stubGenerator) Regenerate(ctx context.Context, code string) error {
	s.generated = append(s.generated, code)
	return s.err
}

func TestGenerateAllSkipsEmptyCatalog(t *testing.T) {
	job := NewDatasheetJob(&stubGenerator{err: datasheet.ErrNoProducts}, nil, nil)
	require.NoError(t, job.HandleGenerateAll(context.Background(), NewGenerateAllTask()))

	boom := errors.New("db down")
	job = NewDatasheetJob(&stubGenerator{err: boom}, nil, nil)
	require.ErrorIs(t, job.HandleGenerateAll(context.Background(), NewGenerateAllTask()), boom)
}

func TestGenerateTask(t *testing.T) {
	gen := &stubGenerator{}
	job := NewDatasheetJob(gen, nil, nil)
	task, err := NewGenerateTask(" SD-1 ")
	require.NoError(t, err)

	var payload DatasheetPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "SD-1", payload.ProductCode)

	require.NoError(t, job.HandleGenerate(context.Background(), task))
	assert.Equal(t, []string{"SD-1"}, gen.generated)

	err = job.HandleGenerate(context.Background(), asynq.NewTask(TaskDatasheetGenerate, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	gen.err = catalog.ErrProductNotFound
	err = job.HandleGenerate(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func TestClientEnqueueGenerateAll(t *testing.T) {
	fake := &fakeEnqueuer{}
	c := &Client{client: fake}
	id, err := c.EnqueueGenerateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)
	require.Len(t, fake.tasks, 1)
	assert.Equal(t, TaskDatasheetGenerateAll, fake.tasks[0].Type())

	fake.err = asynq.ErrDuplicateTask
	id, err = c.EnqueueGenerateAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
}

type fakeInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (f fakeInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) { return f.info, f.err }

func TestHealthHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(fakeInspector{info: &asynq.QueueInfo{Queue: QueueDatasheets, Pending: 3, Retry: 1}}, nil).MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending":3`)
	assert.Contains(t, rec.Body.String(), `"retry":1`)
	assert.Contains(t, rec.Body.String(), `"queue":"datasheets"`)

	r = chi.NewRouter()
	r.Route("/jobs", NewHandler(fakeInspector{err: errors.New("redis down")}, nil).MountRoutes)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestClientEnqueueGenerateDeduplicates(t *testing.T) {
	fake := &fakeEnqueuer{}
	c := &Client{client: fake}
	id, err := c.EnqueueGenerate(context.Background(), "SD-1001")
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)
	assert.Equal(t, TaskDatasheetGenerate, fake.tasks[0].Type())
	assert.Equal(t, "SD-1001", payloadCode(fake.tasks[0]))

	fake.err = asynq.ErrDuplicateTask
	id, err = c.EnqueueGenerate(context.Background(), "SD-1001")
	require.NoError(t, err)
	assert.Empty(t, id)

	fake.err = errors.New("redis down")
	_, err = c.EnqueueGenerate(context.Background(), "SD-1001")
	require.Error(t, err)
}

func TestRetryDelayBacksOffWithCap(t *testing.T) {
	assert.Equal(t, 10*time.Second, retryDelay(0, nil, nil))
	assert.Equal(t, 40*time.Second, retryDelay(2, nil, nil))
	assert.Equal(t, 5*time.Minute, retryDelay(10, nil, nil))
	assert.Equal(t, 5*time.Minute, retryDelay(200, nil, nil))
}

func TestPayloadCodeOfBulkTaskIsEmpty(t *testing.T) {
	assert.Empty(t, payloadCode(NewGenerateAllTask()))
}

func TestNewWorkerRejectsIncompleteHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{Handlers: []TaskHandler{{Type: TaskDatasheetGenerate}}})
	require.Error(t, err)

	var w *Worker
	require.Error(t, w.Run(context.Background()))
}
