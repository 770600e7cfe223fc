package graph

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// MaxEstimatedHours bounds a single estimate so that durations in minutes,
// and their sums across a task set, stay within int range.
const MaxEstimatedHours = 100000

// fold is stateless and safe for concurrent use.
var fold = cases.Fold()

// Key returns the canonical, case-folded form of a title. All lookups in a
// TaskGraph go through it.
func Key(title string) string {
	return fold.String(title)
}

// Build validates tasks and constructs their dependency graph. Checks run in
// order and the first failing check wins: empty input, malformed tasks,
// duplicate titles, unknown dependencies. Cycles are not detected here; they
// surface when the graph is ordered.
func Build(tasks []Task) (*TaskGraph, error) {
	if len(tasks) == 0 {
		return nil, &Error{Kind: KindEmptyInput}
	}

	for i, t := range tasks {
		if strings.TrimSpace(t.Title) == "" {
			return nil, &Error{Kind: KindInvalidTask, Detail: fmt.Sprintf("task %d has an empty title", i)}
		}
		if h := t.EstimatedHours; h != nil && (*h < 0 || *h > MaxEstimatedHours || math.IsNaN(*h) || math.IsInf(*h, 0)) {
			return nil, &Error{Kind: KindInvalidTask, Detail: fmt.Sprintf("task '%s' has invalid estimated hours %v", t.Title, *h)}
		}
	}

	keys := make([]string, len(tasks))
	for i, t := range tasks {
		keys[i] = Key(t.Title)
	}

	if dups := duplicateTitles(tasks, keys); len(dups) > 0 {
		return nil, &Error{Kind: KindDuplicateTitle, Titles: dups}
	}

	g := &TaskGraph{
		Tasks:    make(map[string]*Node, len(tasks)),
		Order:    keys,
		Adj:      make(map[string][]string, len(tasks)),
		RevAdj:   make(map[string][]string, len(tasks)),
		InDegree: make(map[string]int, len(tasks)),
	}

	// Index all tasks
	for i, t := range tasks {
		g.Tasks[keys[i]] = &Node{Key: keys[i], Index: i, Task: t}
		g.InDegree[keys[i]] = 0
	}

	edgeSet := make(map[[2]string]bool)
	for i, t := range tasks {
		to := keys[i]
		for _, dep := range t.Dependencies {
			from := Key(dep)
			if _, ok := g.Tasks[from]; !ok {
				return nil, &Error{Kind: KindUnknownDependency, Dependency: dep, Dependent: t.Title}
			}
			edge := [2]string{from, to}
			if edgeSet[edge] {
				continue
			}
			edgeSet[edge] = true
			g.Adj[from] = append(g.Adj[from], to)
			g.RevAdj[to] = append(g.RevAdj[to], from)
			g.InDegree[to]++
		}
	}

	for _, key := range g.Order {
		if len(g.RevAdj[key]) == 0 {
			g.Roots = append(g.Roots, key)
		}
		if len(g.Adj[key]) == 0 {
			g.Leaves = append(g.Leaves, key)
		}
	}

	return g, nil
}

// duplicateTitles returns one title per colliding group, in the casing and
// order of the group's first occurrence.
func duplicateTitles(tasks []Task, keys []string) []string {
	counts := make(map[string]int, len(keys))
	for _, key := range keys {
		counts[key]++
	}
	reported := make(map[string]bool)
	var dups []string
	for i, key := range keys {
		if counts[key] > 1 && !reported[key] {
			reported[key] = true
			dups = append(dups, tasks[i].Title)
		}
	}
	return dups
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// Title returns the caller's original title for a key.
func (g *TaskGraph) Title(key string) string {
	if n, ok := g.Tasks[key]; ok {
		return n.Task.Title
	}
	return key
}

// Titles maps keys to original titles.
func (g *TaskGraph) Titles(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = g.Title(k)
	}
	return out
}
