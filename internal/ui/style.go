package ui

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored planloom logo to stderr.
func PrintLogo() {
	w := os.Stderr
	frame := color.New(color.FgCyan)
	beads := color.New(color.FgYellow)
	threads := color.New(color.FgCyan, color.Faint)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +--------------------------+")
	beads.Fprintln(w, "   |  o--o--o     o--o--o--o  |")
	threads.Fprintln(w, "   |        \\   /            |")
	brand.Fprintln(w, "   |  P  L  A  N  L  O  O  M  |")
	threads.Fprintln(w, "   |        /   \\            |")
	beads.Fprintln(w, "   |  o--o--o     o--o--o--o  |")
	frame.Fprintln(w, "   +--------------------------+")
	tag.Fprintln(w, "   Dependency-aware task ordering")
	fmt.Fprintln(w)
}

// sourceColors is a palette of distinct bold colors for telling input files apart.
var sourceColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

func sourceColorIndex(name string) int {
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(sourceColors)))
}

// SourcePrefix returns a colored [name] prefix string. The same name always
// gets the same color.
func SourcePrefix(name string) string {
	c := sourceColors[sourceColorIndex(name)]
	return Dim("[") + c(name) + Dim("]")
}

// CriticalMarker returns a lightning bolt for critical tasks and a blank of
// the same width otherwise.
func CriticalMarker(critical bool) string {
	if critical {
		return BoldYellow("⚡")
	}
	return " "
}

// OutcomeIcon returns a colored icon for a command outcome.
func OutcomeIcon(ok bool) string {
	if ok {
		return Green("✓")
	}
	return Red("✗")
}

// FormatHours renders an hour count without trailing zeros, e.g. "2h", "1.5h".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// FormatEstimate renders an optional estimate; nil shows as a dim dash.
func FormatEstimate(h *float64) string {
	if h == nil {
		return Dim("-")
	}
	return FormatHours(*h)
}

// FormatDue renders an optional due date. Midnight UTC dates print as a
// plain day.
func FormatDue(t *time.Time) string {
	if t == nil {
		return Dim("no due date")
	}
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return u.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
