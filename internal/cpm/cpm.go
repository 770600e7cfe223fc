package cpm

import (
	"fmt"
	"math"

	"github.com/joshharrison/planloom/internal/graph"
)

// Analyze performs critical path method analysis on a task graph. order must
// be a topological order of g's keys, normally the scheduler's output.
func Analyze(g *graph.TaskGraph, order []string) (*CPMResult, error) {
	if len(order) != g.TaskCount() {
		return nil, fmt.Errorf("order covers %d of %d tasks", len(order), g.TaskCount())
	}

	result := &CPMResult{
		Tasks: make(map[string]*TaskSchedule, len(order)),
		Order: order,
	}

	position := make(map[string]int, len(order))
	for i, id := range order {
		if _, ok := g.Tasks[id]; !ok {
			return nil, fmt.Errorf("order references unknown task %q", id)
		}
		position[id] = i
		result.Tasks[id] = &TaskSchedule{TaskID: id, Duration: DurationMinutes(g.Tasks[id].Task.EstimatedHours)}
	}

	// Forward pass: compute ES and EF
	for _, id := range order {
		ts := result.Tasks[id]
		es := 0
		for _, pred := range g.RevAdj[id] {
			if position[pred] >= position[id] {
				return nil, fmt.Errorf("order places %q before its dependency %q", id, pred)
			}
			if ef := result.Tasks[pred].EF; ef > es {
				es = ef
			}
		}
		ts.ES = es
		ts.EF = es + ts.Duration
		if ts.EF > result.TotalMinutes {
			result.TotalMinutes = ts.EF
		}
	}

	// Backward pass in reverse order: LF = min(LS of successors), or the
	// project end for tasks nothing depends on.
	for i := len(order) - 1; i >= 0; i-- {
		ts := result.Tasks[order[i]]
		lf := result.TotalMinutes
		for _, succ := range g.Adj[order[i]] {
			if ls := result.Tasks[succ].LS; ls < lf {
				lf = ls
			}
		}
		ts.LF = lf
		ts.LS = lf - ts.Duration
		ts.Slack = ts.LS - ts.ES
		ts.IsCritical = ts.Slack == 0
	}

	for _, id := range order {
		if result.Tasks[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	result.Waves = computeWaves(result, g)
	return result, nil
}

// DurationMinutes converts an optional estimate in hours to whole minutes.
// Estimates above graph.MaxEstimatedHours saturate at that bound.
func DurationMinutes(hours *float64) int {
	if hours == nil || !(*hours > 0) {
		return 0
	}
	if *hours > graph.MaxEstimatedHours {
		return graph.MaxEstimatedHours * 60
	}
	return int(math.Round(*hours * 60))
}

// computeWaves groups tasks by dependency depth: a task sits one wave after
// its deepest prerequisite. Within a wave tasks keep schedule order.
func computeWaves(result *CPMResult, g *graph.TaskGraph) []Wave {
	var waves []Wave
	for _, id := range result.Order {
		level := 0
		for _, pred := range g.RevAdj[id] {
			if w := result.Tasks[pred].Wave + 1; w > level {
				level = w
			}
		}
		result.Tasks[id].Wave = level

		for len(waves) <= level {
			waves = append(waves, Wave{Index: len(waves)})
		}
		waves[level].TaskIDs = append(waves[level].TaskIDs, id)
		if result.Tasks[id].IsCritical {
			waves[level].IsCritical = true
		}
	}
	return waves
}
