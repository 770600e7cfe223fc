package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshharrison/planloom/internal/client"
	"github.com/joshharrison/planloom/internal/graph"
	"github.com/joshharrison/planloom/internal/planner"
	"github.com/joshharrison/planloom/internal/reporter"
	"github.com/joshharrison/planloom/internal/scheduler"
	"github.com/joshharrison/planloom/internal/taskfile"
)

// fileResult is the outcome of scheduling one input file.
type fileResult struct {
	File             string   `json:"file"`
	RecommendedOrder []string `json:"recommendedOrder,omitempty"`
	Error            string   `json:"error,omitempty"`
	Kind             string   `json:"kind,omitempty"`

	err error
}

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [file...]",
		Short: "Print the recommended order for one or more task files",
		Long: `Reads task files (JSON or YAML, "-" for stdin) and prints the
recommended order for each. Several files are scheduled concurrently and
reported in argument order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}

			results, err := scheduleFiles(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				if err := writeResultsJSON(out, results); err != nil {
					return err
				}
			} else {
				printResults(out, cmd.ErrOrStderr(), results)
			}

			for _, r := range results {
				if r.err != nil {
					return errReported
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagServer, "server", "", "Schedule on a running planloom server at this URL instead of locally")
	cmd.Flags().StringVar(&flagProject, "project", "", "Project ID sent to the server")

	return cmd
}

// scheduleFiles schedules every file concurrently. Per-file failures are
// recorded in the results; only cancellation aborts the whole batch.
func scheduleFiles(ctx context.Context, paths []string) ([]fileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	remote, err := remoteClient()
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			start := time.Now()
			order, err := scheduleFile(ctx, remote, path)
			results[i] = fileResult{File: path, RecommendedOrder: order, err: err}
			if err != nil {
				results[i].Error = errorMessage(err)
				results[i].Kind = errorKind(err)
			}
			settings.logger.Debug("scheduled file", "file", path, "duration", time.Since(start), "error", err)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scheduleFile(ctx context.Context, remote *client.Client, path string) ([]string, error) {
	req, err := taskfile.Load(path)
	if err != nil {
		return nil, err
	}
	if remote != nil {
		return remote.Schedule(ctx, flagProject, req)
	}
	return scheduler.Schedule(req.GraphTasks())
}

// buildPlan loads a single task file and produces a plan, locally or remotely.
func buildPlan(ctx context.Context, path string) (*planner.Plan, error) {
	req, err := taskfile.Load(path)
	if err != nil {
		return nil, err
	}
	remote, err := remoteClient()
	if err != nil {
		return nil, err
	}
	if remote != nil {
		return remote.Plan(ctx, flagProject, req)
	}
	return planner.Build(req.GraphTasks(), planner.PlanConfig{ProjectID: flagProject})
}

// remoteClient returns nil unless --server was given.
func remoteClient() (*client.Client, error) {
	if flagServer == "" {
		return nil, nil
	}
	c := settings.cfg.Client
	return client.New(c.ServerURL, client.Options{
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
	})
}

// errorMessage drops the kind suffix a server error carries in its Error text.
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func errorKind(err error) string {
	if kind := graph.KindOf(err); kind != "" {
		return string(kind)
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	var schemaErr *taskfile.SchemaError
	if errors.As(err, &schemaErr) {
		return "invalid_request"
	}
	return ""
}

func printResults(out, errOut io.Writer, results []fileResult) {
	multi := len(results) > 1
	for i, r := range results {
		label := ""
		if multi {
			label = r.File
		}
		if r.err != nil {
			reporter.PrintError(errOut, label, r.err)
			continue
		}
		reporter.PrintOrder(out, label, r.RecommendedOrder)
		if multi && i < len(results)-1 {
			fmt.Fprintln(out)
		}
	}
}

// writeResultsJSON writes the bare response shape for a single file and an
// array of per-file results otherwise.
func writeResultsJSON(w io.Writer, results []fileResult) error {
	if len(results) == 1 {
		r := results[0]
		if r.err != nil {
			return outputJSON(w, map[string]string{"error": r.Error, "kind": r.Kind})
		}
		return outputJSON(w, taskfile.Response{RecommendedOrder: r.RecommendedOrder})
	}
	return outputJSON(w, results)
}
