package graph

import "time"

// Task is a single unit submitted for scheduling. Title identifies the task
// within one request and is compared case-insensitively.
type Task struct {
	Title          string     `json:"title"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Dependencies   []string   `json:"dependencies,omitempty"`
}

// Node is a task placed in the graph. Index is the task's position in the
// input and serves as the final scheduling tie-break.
type Node struct {
	Key   string
	Index int
	Task  Task
}

// TaskGraph is the request-scoped dependency graph. All maps are keyed by
// the case-folded title; edges run from a dependency to its dependent.
type TaskGraph struct {
	Tasks    map[string]*Node
	Order    []string            // keys in input order
	Adj      map[string][]string // task -> tasks that depend on it
	RevAdj   map[string][]string // task -> tasks it depends on
	InDegree map[string]int
	Roots    []string // tasks with no dependencies
	Leaves   []string // tasks nothing depends on
}
