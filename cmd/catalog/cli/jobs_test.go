package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/skydecor/catalog/jobs"
)

type stubClient struct {
	tasks []*asynq.Task
	err   error
}

func (s *stubClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type(), Queue: jobs.QueueDatasheets}, nil
}

func (s *stubClient) Close() error { return nil }

type stubInspector struct {
	info *asynq.QueueInfo
}

func (s stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) { return s.info, nil }

func (s stubInspector) ListScheduledTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error) {
	return []*asynq.TaskInfo{{ID: "cron-1", Type: jobs.TaskDatasheetGenerateAll}}, nil
}

func (s stubInspector) Close() error { return nil }

func TestTriggerGenerateAllJSON(t *testing.T) {
	client := &stubClient{}
	c := &JobsCLI{client: client, inspector: stubInspector{}}
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	code := c.Command(context.Background(), JobsOptions{
		Args:       []string{"trigger", jobs.TaskDatasheetGenerateAll},
		JSONOutput: true,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	require.Zero(t, code, stderr.String())
	require.Len(t, client.tasks, 1)

	var out map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	require.Equal(t, "task-1", out["id"])
	require.Equal(t, jobs.TaskDatasheetGenerateAll, out["type"])
}

func TestTriggerGenerateRequiresCode(t *testing.T) {
	client := &stubClient{}
	c := &JobsCLI{client: client}
	stderr := new(bytes.Buffer)

	code := c.Command(context.Background(), JobsOptions{
		Args:   []string{"trigger", jobs.TaskDatasheetGenerate},
		Stdout: new(bytes.Buffer),
		Stderr: stderr,
	})
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "product code is required")
	require.Empty(t, client.tasks)
}

func TestTriggerDuplicateIsNotAFailure(t *testing.T) {
	c := &JobsCLI{client: &stubClient{err: asynq.ErrDuplicateTask}}
	stderr := new(bytes.Buffer)

	code := c.Command(context.Background(), JobsOptions{
		Args:   []string{"trigger", jobs.TaskDatasheetGenerateAll},
		Stdout: new(bytes.Buffer),
		Stderr: stderr,
	})
	require.Zero(t, code)
	require.Contains(t, stderr.String(), "already queued")
}

func TestStatsHuman(t *testing.T) {
	c := &JobsCLI{inspector: stubInspector{info: &asynq.QueueInfo{Queue: jobs.QueueDatasheets, Pending: 3, Active: 1}}}
	stdout := new(bytes.Buffer)

	code := c.Command(context.Background(), JobsOptions{Args: []string{"stats"}, Stdout: stdout, Stderr: new(bytes.Buffer)})
	require.Zero(t, code)
	require.Contains(t, stdout.String(), "PENDING")
	require.Regexp(t, jobs.QueueDatasheets+`\s+3\s+1`, stdout.String())
}

func TestUnknownSubcommand(t *testing.T) {
	c := &JobsCLI{}
	stderr := new(bytes.Buffer)
	code := c.Command(context.Background(), JobsOptions{Args: []string{"purge"}, Stdout: new(bytes.Buffer), Stderr: stderr})
	require.Equal(t, 2, code)
	require.Contains(t, stderr.String(), "usage")
}
