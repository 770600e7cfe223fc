package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshharrison/planloom/internal/cpm"
	"github.com/joshharrison/planloom/internal/graph"
	"github.com/joshharrison/planloom/internal/reporter"
	"github.com/joshharrison/planloom/internal/scheduler"
	"github.com/joshharrison/planloom/internal/taskfile"
	"github.com/joshharrison/planloom/internal/ui"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Compute the recommended order, critical path and waves",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			plan, err := buildPlan(cmd.Context(), path)
			if err != nil {
				reporter.PrintError(cmd.ErrOrStderr(), "", err)
				return errReported
			}
			rpt := reporter.New(plan)

			if flagOutput != "" {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				if err := os.WriteFile(flagOutput, append(data, '\n'), 0644); err != nil {
					return fmt.Errorf("write plan: %w", err)
				}
				settings.logger.Info("plan written", "path", flagOutput, "plan_id", plan.ID)
			}

			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), plan)
			}
			rpt.PrintPlan(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&flagServer, "server", "", "Plan on a running planloom server at this URL instead of locally")
	cmd.Flags().StringVar(&flagProject, "project", "", "Project ID recorded in the plan")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Also write the plan as JSON to this path")

	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Validate task files without printing an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}

			type checkResult struct {
				File  string `json:"file"`
				OK    bool   `json:"ok"`
				Tasks int    `json:"tasks"`
				Error string `json:"error,omitempty"`
				Kind  string `json:"kind,omitempty"`
			}

			failed := false
			var results []checkResult
			for _, path := range args {
				r := checkResult{File: path, OK: true}
				req, err := taskfile.Load(path)
				if err == nil {
					r.Tasks = len(req.Tasks)
					_, err = scheduler.Schedule(req.GraphTasks())
				}
				if err != nil {
					failed = true
					r.OK = false
					r.Error = errorMessage(err)
					r.Kind = errorKind(err)
				}
				results = append(results, r)

				if !flagJSON {
					if err != nil {
						reporter.PrintError(cmd.OutOrStdout(), path, err)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.OutcomeIcon(true), ui.SourcePrefix(path),
							ui.Dim(fmt.Sprintf("%d tasks", r.Tasks)))
					}
				}
			}

			if flagJSON {
				if err := outputJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
}

func dotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dot [file]",
		Short: "Print the dependency graph in Graphviz DOT format",
		Long: `Prints the task graph as DOT with the critical path highlighted.
Pipe to "dot -Tsvg" to render it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			req, err := taskfile.Load(path)
			if err != nil {
				return err
			}
			g, err := graph.Build(req.GraphTasks())
			if err != nil {
				reporter.PrintError(cmd.ErrOrStderr(), "", err)
				return errReported
			}
			order, err := scheduler.ScheduleGraph(g)
			if err != nil {
				reporter.PrintError(cmd.ErrOrStderr(), "", err)
				return errReported
			}
			result, err := cpm.Analyze(g, order)
			if err != nil {
				return fmt.Errorf("critical path analysis: %w", err)
			}
			printDOT(cmd.OutOrStdout(), g, order, result)
			return nil
		},
	}
}

// printDOT writes nodes in recommended order and edges from each
// prerequisite to its dependents.
func printDOT(w io.Writer, g *graph.TaskGraph, order []string, result *cpm.CPMResult) {
	fmt.Fprintln(w, "digraph planloom {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for i, id := range order {
		task := g.Tasks[id].Task
		label := fmt.Sprintf("%d. %s", i+1, escapeDOT(task.Title))
		if task.EstimatedHours != nil {
			label += `\n` + ui.FormatHours(*task.EstimatedHours)
		}
		attrs := fmt.Sprintf(`label="%s"`, label)
		if schedule, ok := result.Tasks[id]; ok && schedule.IsCritical {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %q [%s];\n", id, attrs)
	}

	fmt.Fprintln(w)

	for _, from := range order {
		for _, to := range g.Adj[from] {
			style := ""
			if result.Tasks[from].IsCritical && result.Tasks[to].IsCritical {
				style = ` [color=red, penwidth=2]`
			}
			fmt.Fprintf(w, "  %q -> %q%s;\n", from, to, style)
		}
	}

	fmt.Fprintln(w, "}")
}

func escapeDOT(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
