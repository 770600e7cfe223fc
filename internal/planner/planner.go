package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joshharrison/planloom/internal/cpm"
	"github.com/joshharrison/planloom/internal/graph"
	"github.com/joshharrison/planloom/internal/scheduler"
)

// Build validates and schedules tasks, then runs critical path analysis over
// the resulting order. Scheduling failures are returned unchanged so callers
// can inspect them as *graph.Error.
func Build(tasks []graph.Task, config PlanConfig) (*Plan, error) {
	g, err := graph.Build(tasks)
	if err != nil {
		return nil, err
	}
	order, err := scheduler.ScheduleGraph(g)
	if err != nil {
		return nil, err
	}
	result, err := cpm.Analyze(g, order)
	if err != nil {
		return nil, fmt.Errorf("critical path analysis: %w", err)
	}
	return Generate(g, result, config), nil
}

// Generate creates a Plan from CPM analysis results. The recommended order is
// the order the analysis was run over.
func Generate(g *graph.TaskGraph, cpmResult *cpm.CPMResult, config PlanConfig) *Plan {
	now := time.Now
	if config.Now != nil {
		now = config.Now
	}

	plan := &Plan{
		ID:               fmt.Sprintf("plan-%s", uuid.NewString()),
		ProjectID:        config.ProjectID,
		CreatedAt:        now().UTC(),
		TotalTasks:       g.TaskCount(),
		TotalWaves:       len(cpmResult.Waves),
		TotalHours:       minutesToHours(cpmResult.TotalMinutes),
		RecommendedOrder: g.Titles(cpmResult.Order),
		CriticalPath:     g.Titles(cpmResult.CriticalPath),
		Tasks:            make(map[string]*PlannedTask, g.TaskCount()),
		Deps: TaskDeps{
			Predecessors: make(map[string][]string),
			Successors:   make(map[string][]string),
		},
	}

	for i, id := range cpmResult.Order {
		node := g.Tasks[id]
		schedule := cpmResult.Tasks[id]
		title := node.Task.Title

		pt := &PlannedTask{
			Title:          title,
			Position:       i,
			EstimatedHours: node.Task.EstimatedHours,
			DueDate:        node.Task.DueDate,
			Dependencies:   g.Titles(g.RevAdj[id]),
			EarliestStart:  minutesToHours(schedule.ES),
			EarliestFinish: minutesToHours(schedule.EF),
			SlackHours:     minutesToHours(schedule.Slack),
			IsCritical:     schedule.IsCritical,
			WaveIndex:      schedule.Wave,
		}
		plan.Tasks[title] = pt

		if preds := g.RevAdj[id]; len(preds) > 0 {
			plan.Deps.Predecessors[title] = g.Titles(preds)
		}
		if succs := g.Adj[id]; len(succs) > 0 {
			plan.Deps.Successors[title] = g.Titles(succs)
		}
	}

	for _, wave := range cpmResult.Waves {
		pw := PlanWave{Index: wave.Index, IsCritical: wave.IsCritical}
		for _, id := range wave.TaskIDs {
			pw.Tasks = append(pw.Tasks, *plan.Tasks[g.Title(id)])
		}
		plan.Waves = append(plan.Waves, pw)
	}

	return plan
}

func minutesToHours(m int) float64 {
	return float64(m) / 60
}
