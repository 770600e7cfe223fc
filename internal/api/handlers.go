package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joshharrison/planloom/internal/graph"
	"github.com/joshharrison/planloom/internal/planner"
	"github.com/joshharrison/planloom/internal/scheduler"
	"github.com/joshharrison/planloom/internal/taskfile"
)

// maxBodyBytes bounds request bodies independently of MaxTasks.
const maxBodyBytes = 8 << 20

// Handlers serves the scheduling endpoints. It holds no per-request state.
type Handlers struct {
	logger   *slog.Logger
	metrics  *Metrics
	maxTasks int
}

// NewHandlers creates handlers that reject requests above maxTasks tasks.
func NewHandlers(logger *slog.Logger, metrics *Metrics, maxTasks int) *Handlers {
	setupValidator()
	return &Handlers{logger: logger, metrics: metrics, maxTasks: maxTasks}
}

// HandleSchedule handles POST /api/v1/schedule and
// POST /api/v1/projects/:projectId/schedule.
//
// Responds 200 with {"recommendedOrder": [...]}, or 400 with an
// ErrorResponse naming the failure kind.
func (h *Handlers) HandleSchedule(c *gin.Context) {
	req, ok := h.bind(c, endpointSchedule)
	if !ok {
		return
	}

	start := time.Now()
	order, err := scheduler.Schedule(req.GraphTasks())
	elapsed := time.Since(start)
	if err != nil {
		h.fail(c, endpointSchedule, err, elapsed, len(req.Tasks))
		return
	}

	h.metrics.observe(endpointSchedule, "ok", elapsed, len(req.Tasks))
	h.logger.Debug("schedule computed",
		"project_id", c.Param("projectId"),
		"tasks", len(req.Tasks),
		"duration", elapsed,
		"request_id", c.GetString(requestIDKey),
	)
	c.JSON(http.StatusOK, taskfile.Response{RecommendedOrder: order})
}

// HandlePlan handles POST /api/v1/plan and POST /api/v1/projects/:projectId/plan.
// It schedules like HandleSchedule and adds critical path timing and waves.
func (h *Handlers) HandlePlan(c *gin.Context) {
	req, ok := h.bind(c, endpointPlan)
	if !ok {
		return
	}

	start := time.Now()
	plan, err := planner.Build(req.GraphTasks(), planner.PlanConfig{ProjectID: c.Param("projectId")})
	elapsed := time.Since(start)
	if err != nil {
		h.fail(c, endpointPlan, err, elapsed, len(req.Tasks))
		return
	}

	h.metrics.observe(endpointPlan, "ok", elapsed, len(req.Tasks))
	c.JSON(http.StatusOK, plan)
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// bind decodes and validates the request body, writing a 400 on failure.
func (h *Handlers) bind(c *gin.Context, endpoint string) (*taskfile.Request, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req taskfile.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.reject(endpoint, KindInvalidRequest)
		h.logger.Info("request rejected", "endpoint", endpoint, "kind", KindInvalidRequest, "error", err,
			"request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: describeBindError(err),
			Kind:  KindInvalidRequest,
		})
		return nil, false
	}

	if h.maxTasks > 0 && len(req.Tasks) > h.maxTasks {
		h.metrics.reject(endpoint, KindTooManyTasks)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "too many tasks: limit is " + strconv.Itoa(h.maxTasks),
			Kind:  KindTooManyTasks,
		})
		return nil, false
	}
	return &req, true
}

// fail maps a scheduling failure to a response. Validation failures are the
// caller's to fix and get 400; anything else is ours.
func (h *Handlers) fail(c *gin.Context, endpoint string, err error, elapsed time.Duration, taskCount int) {
	var ge *graph.Error
	if !errors.As(err, &ge) {
		h.metrics.observe(endpoint, KindInternal, elapsed, taskCount)
		h.logger.Error("scheduling failed", "endpoint", endpoint, "error", err,
			"request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Kind: KindInternal})
		return
	}

	h.metrics.observe(endpoint, string(ge.Kind), elapsed, taskCount)
	h.logger.Info("schedule rejected",
		"endpoint", endpoint,
		"project_id", c.Param("projectId"),
		"kind", ge.Kind,
		"error", ge.Error(),
		"request_id", c.GetString(requestIDKey),
	)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:      ge.Error(),
		Kind:       string(ge.Kind),
		Titles:     ge.Titles,
		Dependency: ge.Dependency,
		Dependent:  ge.Dependent,
	})
}
