package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"
)

// DefaultWatchInterval is how often a watched task is refreshed.
const DefaultWatchInterval = 5 * time.Second

const taskStatusSuccess = "success"

// Task represents the state of an asynchronous operation running in the
// iland Cloud.
type Task struct {
	UUID      string `json:"uuid"`
	Status    string `json:"status"`
	Active    bool   `json:"active"`
	Message   string `json:"message"`
	Operation string `json:"operation"`
}

// GetTask retrieves the current state of a task by UUID.
func (c *httpAPIClient) GetTask(taskUUID string) (Task, error) {
	task := Task{}

	body, err := c.get("/tasks/" + url.PathEscape(taskUUID))
	if err != nil {
		return task, err
	}

	if err = json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("Unable to decode task response: %v", err)
	}

	return task, nil
}

// WatchTask polls a task on the given interval, writing one progress line
// per refresh, until the task reports inactive.
func (c *httpAPIClient) WatchTask(taskUUID string, out io.Writer, interval time.Duration) error {

	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	for {
		task, err := c.GetTask(taskUUID)
		if err != nil {
			return err
		}

		if !task.Active {
			if task.Status == taskStatusSuccess {
				fmt.Fprintf(out, "%v - %v\n", task.Operation, task.Status)
			} else {
				fmt.Fprintf(out, "%v - %v (%v)\n", task.Operation, task.Status, task.Message)
			}
			return nil
		}

		fmt.Fprintf(out, "%v - %v\n", task.Operation, task.Status)
		time.Sleep(interval)
	}
}
