package planner

import "time"

// TaskDeps holds per-task predecessor and successor lists, keyed by title.
type TaskDeps struct {
	Predecessors map[string][]string `json:"predecessors"`
	Successors   map[string][]string `json:"successors"`
}

// Plan is a recommended order enriched with critical path timing.
type Plan struct {
	ID               string                  `json:"id"`
	ProjectID        string                  `json:"projectId,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
	TotalTasks       int                     `json:"totalTasks"`
	TotalWaves       int                     `json:"totalWaves"`
	TotalHours       float64                 `json:"totalHours"`
	RecommendedOrder []string                `json:"recommendedOrder"`
	CriticalPath     []string                `json:"criticalPath"`
	Waves            []PlanWave              `json:"waves"`
	Tasks            map[string]*PlannedTask `json:"tasks"`
	Deps             TaskDeps                `json:"deps"`
}

// PlanWave is a group of tasks whose prerequisites all sit in earlier waves.
type PlanWave struct {
	Index      int           `json:"index"`
	IsCritical bool          `json:"isCritical"`
	Tasks      []PlannedTask `json:"tasks"`
}

// PlannedTask is one task with its position and timing in the plan. Offsets
// are hours from the start of the plan assuming unlimited parallelism.
type PlannedTask struct {
	Title          string     `json:"title"`
	Position       int        `json:"position"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Dependencies   []string   `json:"dependencies"`
	EarliestStart  float64    `json:"earliestStart"`
	EarliestFinish float64    `json:"earliestFinish"`
	SlackHours     float64    `json:"slackHours"`
	IsCritical     bool       `json:"isCritical"`
	WaveIndex      int        `json:"waveIndex"`
}

// PlanConfig holds inputs that do not come from the task set.
type PlanConfig struct {
	ProjectID string
	// Now stamps CreatedAt; defaults to time.Now.
	Now func() time.Time
}
