package api

// ErrorResponse is the body of every non-2xx response. Kind is stable and
// machine readable; Error is meant for people.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Kind       string   `json:"kind"`
	Titles     []string `json:"titles,omitempty"`
	Dependency string   `json:"dependency,omitempty"`
	Dependent  string   `json:"dependent,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Error kinds produced at the HTTP boundary, in addition to graph.Kind values.
const (
	KindInvalidRequest = "invalid_request"
	KindTooManyTasks   = "too_many_tasks"
	KindInternal       = "internal"
)

const (
	endpointSchedule = "schedule"
	endpointPlan     = "plan"
)
