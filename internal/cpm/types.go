package cpm

// CPMResult holds the complete critical path analysis. Durations are whole
// minutes derived from estimated hours; tasks without an estimate take zero.
type CPMResult struct {
	Tasks        map[string]*TaskSchedule
	CriticalPath []string // ordered task keys on critical path
	TotalMinutes int
	Waves        []Wave // parallelizable groups
	Order        []string
}

// TaskSchedule holds the scheduling info for a single task.
type TaskSchedule struct {
	TaskID     string
	Duration   int
	ES, EF     int // earliest start/finish
	LS, LF     int // latest start/finish
	Slack      int
	IsCritical bool
	Wave       int // which parallel wave this belongs to
}

// Wave represents a group of tasks whose prerequisites all sit in earlier waves.
type Wave struct {
	Index      int
	TaskIDs    []string
	IsCritical bool // true if wave contains critical path tasks
}
