// Package cli holds operator commands bundled into the catalog binary.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/hibiken/asynq"

	"github.com/skydecor/catalog/jobs"
)

type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type queueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	ListScheduledTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	Close() error
}

// JobsCLI wraps manual management helpers for the datasheet queue.
type JobsCLI struct {
	client    taskClient
	inspector queueInspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) *JobsCLI {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	return &JobsCLI{client: asynq.NewClient(opts), inspector: asynq.NewInspector(opts)}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var errs []error
	if c.inspector != nil {
		errs = append(errs, c.inspector.Close())
	}
	if c.client != nil {
		errs = append(errs, c.client.Close())
	}
	return errors.Join(errs...)
}

// Trigger enqueues a datasheet job by task name.
func (c *JobsCLI) Trigger(ctx context.Context, name, productCode string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	var task *asynq.Task
	switch name {
	case jobs.TaskDatasheetGenerateAll:
		task = jobs.NewGenerateAllTask()
	case jobs.TaskDatasheetGenerate:
		if productCode == "" {
			return nil, errors.New("jobs cli: product code is required")
		}
		var err error
		if task, err = jobs.NewGenerateTask(productCode); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
	return c.client.EnqueueContext(ctx, task)
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
}

// InspectQueue reports the depth of the datasheet queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDatasheets)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDatasheets}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Archived = info.Archived
	}
	return stats, nil
}

// ListScheduled returns scheduled task infos.
func (c *JobsCLI) ListScheduled(ctx context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(jobs.QueueDatasheets, asynq.PageSize(size), asynq.Page(1))
}

// JobsOptions configures Command.
type JobsOptions struct {
	Args       []string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

const jobsUsage = `usage: catalog jobs [--json] <command>
  trigger datasheet:generate_all
  trigger datasheet:generate <productCode>
  stats
  scheduled`

// Command runs one jobs subcommand and returns the process exit code.
func (c *JobsCLI) Command(ctx context.Context, opts JobsOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if len(opts.Args) == 0 {
		_, _ = fmt.Fprintln(opts.Stderr, jobsUsage)
		return 2
	}

	var out any
	switch opts.Args[0] {
	case "trigger":
		if len(opts.Args) < 2 {
			_, _ = fmt.Fprintln(opts.Stderr, jobsUsage)
			return 2
		}
		code := ""
		if len(opts.Args) > 2 {
			code = opts.Args[2]
		}
		info, err := c.Trigger(ctx, opts.Args[1], code)
		if errors.Is(err, asynq.ErrDuplicateTask) {
			_, _ = fmt.Fprintln(opts.Stderr, "jobs trigger: an identical task is already queued")
			return 0
		}
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs trigger: %v\n", err)
			return 1
		}
		out = map[string]string{"id": info.ID, "type": info.Type, "queue": info.Queue}
		if !opts.JSONOutput {
			_, _ = fmt.Fprintf(opts.Stdout, "enqueued %s as %s on %s\n", info.Type, info.ID, info.Queue)
			return 0
		}
	case "stats":
		stats, err := c.InspectQueue(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs stats: %v\n", err)
			return 1
		}
		out = stats
		if !opts.JSONOutput {
			tw := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "QUEUE\tPENDING\tACTIVE\tSCHEDULED\tRETRY\tARCHIVED")
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Archived)
			_ = tw.Flush()
			return 0
		}
	case "scheduled":
		tasks, err := c.ListScheduled(ctx, 20)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs scheduled: %v\n", err)
			return 1
		}
		rows := make([]map[string]string, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, map[string]string{"id": t.ID, "type": t.Type, "next": t.NextProcessAt.Format("2006-01-02 15:04:05")})
		}
		out = rows
		if !opts.JSONOutput {
			for _, row := range rows {
				_, _ = fmt.Fprintf(opts.Stdout, "%s\t%s\t%s\n", row["id"], row["type"], row["next"])
			}
			return 0
		}
	default:
		_, _ = fmt.Fprintln(opts.Stderr, jobsUsage)
		return 2
	}

	if err := json.NewEncoder(opts.Stdout).Encode(out); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "jobs: encode json: %v\n", err)
		return 1
	}
	return 0
}
