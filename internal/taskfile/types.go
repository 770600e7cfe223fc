package taskfile

import (
	"time"

	"github.com/joshharrison/planloom/internal/graph"
)

// Request is one scheduling request as received from a caller.
type Request struct {
	Tasks []TaskInput `json:"tasks" yaml:"tasks" binding:"dive"`
}

// TaskInput is the wire form of a task. Dependencies name other tasks by
// title, compared case-insensitively.
type TaskInput struct {
	Title          string     `json:"title" yaml:"title" binding:"required,notblank"`
	EstimatedHours *float64   `json:"estimatedHours" yaml:"estimatedHours" binding:"omitempty,gte=0,lte=100000"`
	DueDate        *Timestamp `json:"dueDate" yaml:"dueDate"`
	Dependencies   []string   `json:"dependencies" yaml:"dependencies"`
}

// Response is the success payload of a scheduling request.
type Response struct {
	RecommendedOrder []string `json:"recommendedOrder"`
}

// GraphTasks converts the request into scheduler input. The request is not
// retained.
func (r *Request) GraphTasks() []graph.Task {
	tasks := make([]graph.Task, len(r.Tasks))
	for i, in := range r.Tasks {
		var due *time.Time
		if in.DueDate != nil {
			d := in.DueDate.Time
			due = &d
		}
		tasks[i] = graph.Task{
			Title:          in.Title,
			EstimatedHours: in.EstimatedHours,
			DueDate:        due,
			Dependencies:   in.Dependencies,
		}
	}
	return tasks
}
