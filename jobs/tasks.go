package jobs

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDatasheets carries every datasheet task.
	QueueDatasheets = "datasheets"
	// TaskDatasheetGenerateAll regenerates every product datasheet.
	TaskDatasheetGenerateAll = "datasheet:generate_all"
	// TaskDatasheetGenerate regenerates a single product datasheet.
	TaskDatasheetGenerate = "datasheet:generate"
)

// DatasheetPayload names the product of a TaskDatasheetGenerate task.
type DatasheetPayload struct {
	ProductCode string `json:"productCode"`
}

// NewGenerateAllTask builds the bulk task. A running bulk run blocks a
// duplicate enqueue for an hour.
func NewGenerateAllTask() *asynq.Task {
	return asynq.NewTask(TaskDatasheetGenerateAll, nil,
		asynq.Queue(QueueDatasheets),
		asynq.MaxRetry(1),
		asynq.Unique(time.Hour),
		asynq.Timeout(2*time.Hour),
	)
}

// NewGenerateTask builds a single product task.
func NewGenerateTask(productCode string) (*asynq.Task, error) {
	data, err := json.Marshal(DatasheetPayload{ProductCode: strings.TrimSpace(productCode)})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDatasheetGenerate, data,
		asynq.Queue(QueueDatasheets),
		asynq.MaxRetry(3),
		asynq.Unique(10*time.Minute),
		asynq.Timeout(2*time.Minute),
	), nil
}

// payloadCode extracts the product code for logging; bulk tasks have none.
func payloadCode(t *asynq.Task) string {
	var p DatasheetPayload
	if len(t.Payload()) == 0 || json.Unmarshal(t.Payload(), &p) != nil {
		return ""
	}
	return p.ProductCode
}
