package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the scheduling API on router.
func RegisterRoutes(router gin.IRouter, h *Handlers) {
	router.GET("/healthz", h.HandleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/schedule", h.HandleSchedule)
		v1.POST("/plan", h.HandlePlan)

		projects := v1.Group("/projects/:projectId")
		{
			projects.POST("/schedule", h.HandleSchedule)
			projects.POST("/plan", h.HandlePlan)
		}
	}
}
