package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/planloom/internal/graph"
	"github.com/joshharrison/planloom/internal/planner"
	"github.com/joshharrison/planloom/internal/ui"
)

// Reporter renders plans for the terminal.
type Reporter struct {
	Plan *planner.Plan
}

// New creates a new Reporter.
func New(plan *planner.Plan) *Reporter {
	return &Reporter{Plan: plan}
}

// PrintOrder writes a numbered recommended order. source labels the input
// when several files are scheduled at once and may be empty.
func PrintOrder(w io.Writer, source string, order []string) {
	if source != "" {
		fmt.Fprintf(w, "%s %s\n", ui.SourcePrefix(source), ui.BoldCyan("Recommended order"))
	} else {
		fmt.Fprintf(w, "%s\n", ui.BoldCyan("Recommended order"))
	}
	width := len(fmt.Sprint(len(order)))
	for i, title := range order {
		fmt.Fprintf(w, "  %s %s\n", ui.Dim(fmt.Sprintf("%*d.", width, i+1)), title)
	}
}

// PrintPlan writes the plan header, a per-wave breakdown and the critical path.
func (r *Reporter) PrintPlan(w io.Writer) {
	p := r.Plan

	fmt.Fprintf(w, "\n%s\n", ui.BoldCyan("Planloom Plan"))
	fmt.Fprintf(w, "%s\n", ui.Cyan("═════════════"))
	fmt.Fprintf(w, "Plan:      %s\n", ui.Dim(p.ID))
	if p.ProjectID != "" {
		fmt.Fprintf(w, "Project:   %s\n", p.ProjectID)
	}
	fmt.Fprintf(w, "Tasks:     %d total\n", p.TotalTasks)
	fmt.Fprintf(w, "Waves:     %d\n", p.TotalWaves)
	fmt.Fprintf(w, "Duration:  %s\n\n", ui.Bold(ui.FormatHours(p.TotalHours)))

	for _, wave := range p.Waves {
		label := ""
		if wave.IsCritical {
			label = " " + ui.BoldYellow("critical")
		}
		fmt.Fprintf(w, "  %s %d%s  (%d tasks)\n", ui.BoldWhite("Wave"), wave.Index+1, label, len(wave.Tasks))
		for _, task := range wave.Tasks {
			printTask(w, task)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", ui.Cyan("─────────────"))
	fmt.Fprintf(w, "Order:     %s\n", strings.Join(p.RecommendedOrder, " → "))
	if len(p.CriticalPath) > 0 {
		fmt.Fprintf(w, "Critical:  %s\n", ui.BoldYellow("⚡ "+strings.Join(p.CriticalPath, " → ")))
	}
}

func printTask(w io.Writer, task planner.PlannedTask) {
	title := truncate(task.Title, 40)

	timing := ui.Dim(fmt.Sprintf("[%s-%s]",
		ui.FormatHours(task.EarliestStart), ui.FormatHours(task.EarliestFinish)))
	slack := ""
	if !task.IsCritical {
		slack = ui.Dim("slack " + ui.FormatHours(task.SlackHours))
	}

	fmt.Fprintf(w, "    %s %3d  %-40s %6s  %s  %s %s\n",
		ui.CriticalMarker(task.IsCritical), task.Position+1, title,
		ui.FormatEstimate(task.EstimatedHours), ui.FormatDue(task.DueDate), timing, slack)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// JSON returns the plan as indented JSON.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Plan, "", "  ")
}

// PrintError writes a scheduling failure with whatever detail the error
// carries.
func PrintError(w io.Writer, source string, err error) {
	prefix := ui.OutcomeIcon(false)
	if source != "" {
		prefix += " " + ui.SourcePrefix(source)
	}

	var ge *graph.Error
	if !errors.As(err, &ge) {
		fmt.Fprintf(w, "%s %s\n", prefix, ui.Red(err.Error()))
		return
	}

	fmt.Fprintf(w, "%s %s %s\n", prefix, ui.BoldRed(string(ge.Kind)), ge.Error())
	switch ge.Kind {
	case graph.KindDuplicateTitle:
		for _, title := range ge.Titles {
			fmt.Fprintf(w, "    %s %s\n", ui.Red("•"), title)
		}
	case graph.KindCycleDetected:
		if len(ge.Remaining) > 0 {
			fmt.Fprintf(w, "    %s %s\n", ui.Dim("unplaced:"), strings.Join(ge.Remaining, ", "))
		}
	}
}
