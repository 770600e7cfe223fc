package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/planloom/internal/api"
	"github.com/joshharrison/planloom/internal/config"
	"github.com/joshharrison/planloom/internal/logging"
)

func init() {
	color.NoColor = true
	gin.SetMode(gin.TestMode)
}

const scenarioJSON = `{"tasks": [
	{"title": "A", "estimatedHours": 2, "dueDate": "2025-01-10", "dependencies": []},
	{"title": "B", "estimatedHours": 5, "dueDate": "2025-01-05", "dependencies": ["A"]},
	{"title": "C", "estimatedHours": 3, "dueDate": "2025-01-05", "dependencies": []}
]}`

const cycleYAML = `
tasks:
  - title: X
    dependencies: [Y]
  - title: Y
    dependencies: [X]
`

// run executes the CLI with isolated config directories.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScheduleCommand(t *testing.T) {
	path := writeFile(t, "tasks.json", scenarioJSON)

	out, _, err := run(t, "schedule", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1. C")
	assert.Contains(t, out, "2. A")
	assert.Contains(t, out, "3. B")
}

func TestScheduleCommand_JSON(t *testing.T) {
	path := writeFile(t, "tasks.json", scenarioJSON)

	out, _, err := run(t, "schedule", "--json", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recommendedOrder": ["C", "A", "B"]}`, out)
}

func TestScheduleCommand_MultipleFilesKeepArgumentOrder(t *testing.T) {
	good := writeFile(t, "good.json", scenarioJSON)
	bad := writeFile(t, "bad.yaml", cycleYAML)

	out, _, err := run(t, "schedule", "--json", bad, good)
	assert.ErrorIs(t, err, errReported)

	var results []fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, bad, results[0].File)
	assert.Equal(t, "cycle_detected", results[0].Kind)
	assert.Equal(t, "cycle detected in dependencies", results[0].Error)
	assert.Equal(t, good, results[1].File)
	assert.Equal(t, []string{"C", "A", "B"}, results[1].RecommendedOrder)
}

func TestScheduleCommand_ErrorIsReported(t *testing.T) {
	path := writeFile(t, "tasks.json", `{"tasks": [{"title": "Deploy", "dependencies": ["Nonexistent"]}]}`)

	_, stderr, err := run(t, "schedule", path)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "unknown dependency 'Nonexistent' referenced by 'Deploy'")
}

func TestScheduleCommand_Remote(t *testing.T) {
	cfg := config.Default().Server
	srv := httptest.NewServer(api.New(cfg, logging.Discard()).Handler())
	defer srv.Close()

	path := writeFile(t, "tasks.json", scenarioJSON)
	out, _, err := run(t, "schedule", "--json", "--server", srv.URL, "--project", "p1", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recommendedOrder": ["C", "A", "B"]}`, out)

	bad := writeFile(t, "bad.json", `{"tasks": []}`)
	out, _, err = run(t, "schedule", "--json", "--server", srv.URL, bad)
	assert.ErrorIs(t, err, errReported)
	assert.JSONEq(t, `{"error": "no tasks provided", "kind": "empty_input"}`, out)
}

func TestPlanCommand(t *testing.T) {
	path := writeFile(t, "tasks.json", scenarioJSON)
	output := filepath.Join(t.TempDir(), "plan.json")

	out, _, err := run(t, "plan", "--project", "demo", "-o", output, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Critical:  ⚡ A → B")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var plan map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &plan))
	assert.Equal(t, "demo", plan["projectId"])
}

func TestCheckCommand(t *testing.T) {
	good := writeFile(t, "good.json", scenarioJSON)
	bad := writeFile(t, "bad.yaml", cycleYAML)

	out, _, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "3 tasks")

	out, _, err = run(t, "check", good, bad)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "cycle_detected")
}

func TestDotCommand(t *testing.T) {
	path := writeFile(t, "tasks.json", scenarioJSON)

	out, _, err := run(t, "dot", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph planloom {"))
	assert.Contains(t, out, `"a" -> "b" [color=red, penwidth=2];`)
	assert.Contains(t, out, `label="1. C\n3h"`)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "planloom dev\n", out)
}

func TestInvalidLogLevelFlag(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}

func TestLogLevelFlagOverridesBadEnv(t *testing.T) {
	t.Setenv("PLANLOOM_LOG_LEVEL", "loud")

	_, _, err := run(t, "version")
	assert.Error(t, err)

	out, _, err := run(t, "--log-level", "debug", "version")
	require.NoError(t, err)
	assert.Equal(t, "planloom dev\n", out)
}
