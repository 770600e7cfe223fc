package cpm

import (
	"testing"

	"github.com/joshharrison/planloom/internal/graph"
	"github.com/joshharrison/planloom/internal/scheduler"
)

func hours(h float64) *float64 { return &h }

func analyzeTasks(t *testing.T, tasks []graph.Task) *CPMResult {
	t.Helper()
	g, err := graph.Build(tasks)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	order, err := scheduler.ScheduleGraph(g)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	result, err := Analyze(g, order)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return result
}

func TestAnalyze_LinearChain(t *testing.T) {
	// A -> B -> C (1h each)
	result := analyzeTasks(t, []graph.Task{
		{Title: "A", EstimatedHours: hours(1)},
		{Title: "B", EstimatedHours: hours(1), Dependencies: []string{"A"}},
		{Title: "C", EstimatedHours: hours(1), Dependencies: []string{"B"}},
	})

	if result.TotalMinutes != 180 {
		t.Errorf("expected total 180 minutes, got %d", result.TotalMinutes)
	}
	if len(result.CriticalPath) != 3 {
		t.Errorf("expected 3 tasks on critical path, got %d: %v", len(result.CriticalPath), result.CriticalPath)
	}
	if len(result.Waves) != 3 {
		t.Errorf("expected 3 waves, got %d", len(result.Waves))
	}

	assertSchedule(t, result.Tasks["a"], 0, 60, 0, 60, 0, true)
	assertSchedule(t, result.Tasks["b"], 60, 120, 60, 120, 0, true)
	assertSchedule(t, result.Tasks["c"], 120, 180, 120, 180, 0, true)
}

func TestAnalyze_DiamondDAG(t *testing.T) {
	// A -> B -> D
	// A -> C -> D
	result := analyzeTasks(t, []graph.Task{
		{Title: "A", EstimatedHours: hours(1)},
		{Title: "B", EstimatedHours: hours(1), Dependencies: []string{"A"}},
		{Title: "C", EstimatedHours: hours(1), Dependencies: []string{"A"}},
		{Title: "D", EstimatedHours: hours(1), Dependencies: []string{"B", "C"}},
	})

	if result.TotalMinutes != 180 {
		t.Errorf("expected total 180 minutes, got %d", result.TotalMinutes)
	}
	if len(result.Waves) != 3 {
		t.Fatalf("expected 3 waves, got %d", len(result.Waves))
	}
	if wave1 := result.Waves[1]; len(wave1.TaskIDs) != 2 {
		t.Errorf("expected 2 tasks in wave 1, got %d: %v", len(wave1.TaskIDs), wave1.TaskIDs)
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if !result.Tasks[id].IsCritical {
			t.Errorf("expected task %s to be critical", id)
		}
	}
}

func TestAnalyze_WithEstimates(t *testing.T) {
	// A(5) -> B(1) -> D(1)
	// A(5) -> C(10) -> D(1)
	result := analyzeTasks(t, []graph.Task{
		{Title: "A", EstimatedHours: hours(5)},
		{Title: "B", EstimatedHours: hours(1), Dependencies: []string{"A"}},
		{Title: "C", EstimatedHours: hours(10), Dependencies: []string{"A"}},
		{Title: "D", EstimatedHours: hours(1), Dependencies: []string{"B", "C"}},
	})

	if result.TotalMinutes != 16*60 {
		t.Errorf("expected total %d minutes, got %d", 16*60, result.TotalMinutes)
	}
	if result.Tasks["b"].IsCritical {
		t.Error("expected task B to NOT be critical")
	}
	if result.Tasks["b"].Slack != 9*60 {
		t.Errorf("expected B slack=%d, got %d", 9*60, result.Tasks["b"].Slack)
	}
	want := []string{"a", "c", "d"}
	if len(result.CriticalPath) != len(want) {
		t.Fatalf("expected critical path %v, got %v", want, result.CriticalPath)
	}
	for i := range want {
		if result.CriticalPath[i] != want[i] {
			t.Errorf("expected critical path %v, got %v", want, result.CriticalPath)
			break
		}
	}
}

func TestAnalyze_ParallelIndependent(t *testing.T) {
	result := analyzeTasks(t, []graph.Task{
		{Title: "A", EstimatedHours: hours(2)},
		{Title: "B", EstimatedHours: hours(1)},
		{Title: "C"},
	})

	if len(result.Waves) != 1 {
		t.Fatalf("expected 1 wave, got %d", len(result.Waves))
	}
	if len(result.Waves[0].TaskIDs) != 3 {
		t.Errorf("expected 3 tasks in wave 0, got %v", result.Waves[0].TaskIDs)
	}
	if !result.Tasks["a"].IsCritical || result.Tasks["b"].IsCritical {
		t.Errorf("expected only A critical: a=%v b=%v", result.Tasks["a"].IsCritical, result.Tasks["b"].IsCritical)
	}
	if result.Tasks["c"].Slack != 120 {
		t.Errorf("expected C slack=120, got %d", result.Tasks["c"].Slack)
	}
}

func TestAnalyze_ZeroDurationKeepsWaveDepth(t *testing.T) {
	// No estimates anywhere: waves must still follow dependency depth.
	result := analyzeTasks(t, []graph.Task{
		{Title: "A"},
		{Title: "B", Dependencies: []string{"A"}},
		{Title: "C", Dependencies: []string{"B"}},
	})
	if len(result.Waves) != 3 {
		t.Fatalf("expected 3 waves, got %d", len(result.Waves))
	}
	if result.Tasks["c"].Wave != 2 {
		t.Errorf("expected C in wave 2, got %d", result.Tasks["c"].Wave)
	}
	if result.TotalMinutes != 0 {
		t.Errorf("expected total 0, got %d", result.TotalMinutes)
	}
}

func TestAnalyze_RejectsInvalidOrder(t *testing.T) {
	g, err := graph.Build([]graph.Task{
		{Title: "A"},
		{Title: "B", Dependencies: []string{"A"}},
	})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	if _, err := Analyze(g, []string{"b", "a"}); err == nil {
		t.Error("expected error for order violating a dependency")
	}
	if _, err := Analyze(g, []string{"a"}); err == nil {
		t.Error("expected error for incomplete order")
	}
}

func TestDurationMinutes(t *testing.T) {
	if got := DurationMinutes(nil); got != 0 {
		t.Errorf("expected 0 for nil, got %d", got)
	}
	if got := DurationMinutes(hours(1.5)); got != 90 {
		t.Errorf("expected 90, got %d", got)
	}
	if got := DurationMinutes(hours(0.01)); got != 1 {
		t.Errorf("expected rounding to 1, got %d", got)
	}
	if got := DurationMinutes(hours(1e300)); got != graph.MaxEstimatedHours*60 {
		t.Errorf("expected saturation at %d, got %d", graph.MaxEstimatedHours*60, got)
	}
}

func assertSchedule(t *testing.T, ts *TaskSchedule, es, ef, ls, lf, slack int, critical bool) {
	t.Helper()
	if ts == nil {
		t.Fatal("schedule is nil")
	}
	if ts.ES != es || ts.EF != ef || ts.LS != ls || ts.LF != lf || ts.Slack != slack || ts.IsCritical != critical {
		t.Errorf("task %s: got ES=%d EF=%d LS=%d LF=%d slack=%d critical=%v; want ES=%d EF=%d LS=%d LF=%d slack=%d critical=%v",
			ts.TaskID, ts.ES, ts.EF, ts.LS, ts.LF, ts.Slack, ts.IsCritical,
			es, ef, ls, lf, slack, critical)
	}
}

func TestAnalyze_LargestEstimatesStayPositive(t *testing.T) {
	bound := float64(graph.MaxEstimatedHours)
	result := analyzeTasks(t, []graph.Task{
		{Title: "big", EstimatedHours: hours(bound)},
		{Title: "next", EstimatedHours: hours(bound), Dependencies: []string{"big"}},
	})

	want := 2 * graph.MaxEstimatedHours * 60
	if result.TotalMinutes != want {
		t.Errorf("expected total %d minutes, got %d", want, result.TotalMinutes)
	}
	assertSchedule(t, result.Tasks["big"], 0, want/2, 0, want/2, 0, true)
	assertSchedule(t, result.Tasks["next"], want/2, want, want/2, want, 0, true)
}
