package scheduler

import (
	"fmt"

	"github.com/joshharrison/planloom/internal/graph"
)

// Schedule validates tasks and returns their titles in execution order.
// Failures are *graph.Error values: empty input, invalid task, duplicate
// title, unknown dependency or cycle.
func Schedule(tasks []graph.Task) ([]string, error) {
	g, err := graph.Build(tasks)
	if err != nil {
		return nil, err
	}
	keys, err := ScheduleGraph(g)
	if err != nil {
		return nil, err
	}
	return g.Titles(keys), nil
}

// ScheduleGraph runs Kahn's algorithm over g and returns graph keys in
// execution order. g is not modified.
func ScheduleGraph(g *graph.TaskGraph) ([]string, error) {
	inDegree := make(map[string]int, len(g.InDegree))
	for id, d := range g.InDegree {
		inDegree[id] = d
	}

	q := make(readyQueue, 0, len(g.Roots))
	for _, id := range g.Roots {
		q.push(g.Tasks[id])
	}

	order := make([]string, 0, g.TaskCount())
	for q.Len() > 0 {
		node := q.pop()
		order = append(order, node.Key)

		// Release dependents whose last prerequisite just finished
		for _, succ := range g.Adj[node.Key] {
			inDegree[succ]--
			switch {
			case inDegree[succ] == 0:
				q.push(g.Tasks[succ])
			case inDegree[succ] < 0:
				panic(fmt.Sprintf("scheduler: negative in-degree for %q", succ))
			}
		}
	}

	if len(order) != g.TaskCount() {
		return nil, graph.NewCycleError(g.Titles(unplaced(g, inDegree)))
	}
	return order, nil
}

// unplaced returns the keys still holding prerequisites, in input order.
func unplaced(g *graph.TaskGraph, inDegree map[string]int) []string {
	var keys []string
	for _, id := range g.Order {
		if inDegree[id] > 0 {
			keys = append(keys, id)
		}
	}
	return keys
}
