package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/dto"
	"github.com/paintworks/pw_backend/internal/middleware"
)

// projectHandler handles HTTP requests related to projects.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
	userService    portssvc.UserSvcFacade
}

// newProjectHandler creates a new projectHandler.
func newProjectHandler(ps portssvc.ProjectSvcFacade, us portssvc.UserSvcFacade) *projectHandler {
	return &projectHandler{
		projectService: ps,
		userService:    us,
	}
}

// RegisterProjectRoutes registers all project-related routes.
func RegisterProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade, userService portssvc.UserSvcFacade) {
	h := newProjectHandler(projectService, userService)

	projects := rg.Group("/projects")
	{
		projects.GET("", h.listProjects)
		projects.POST("", h.createProject)
		projects.GET("/mine", h.listMyProjects)
		projects.GET("/:id", h.getProject)
		projects.PUT("/:id", h.saveProject)
		projects.PATCH("/:id", h.patchProject)
		projects.DELETE("/:id", h.deleteProject)
		projects.GET("/:id/totals", h.getProjectTotals)
		projects.GET("/:id/progress", h.getProjectProgress)
		projects.POST("/:id/feedback", h.submitFeedback)
	}
}

// listProjects godoc
// @Summary List projects
// @Description Returns a filtered, sorted and paginated page of projects
// @Tags projects
// @Produce json
// @Param search query string false "Search text"
// @Param status query string false "Status filter (quotation, approved, in-progress, completed, all)"
// @Param sortKey query string false "Sort key" default(modifiedAt)
// @Param sortDir query string false "Sort direction (asc or desc)" default(desc)
// @Param page query int false "1-based page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.ListProjectsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	var params dto.ListProjectsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	result, err := h.projectService.ListProjects(c.Request.Context(), params.ToSpec())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list projects", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to list projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToListProjectsResponse(result))
}

// listMyProjects godoc
// @Summary List the signed-in customer's projects
// @Description Returns the projects whose customer email matches the signed-in user
// @Tags projects
// @Produce json
// @Success 200 {object} []dto.ProjectResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/mine [get]
func (h *projectHandler) listMyProjects(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to load profile")
		return
	}

	projects, err := h.projectService.ListProjectsForCustomer(c.Request.Context(), user.Email)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list customer projects", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to list projects")
		return
	}

	responses := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = dto.ToProjectResponse(&projects[i])
	}
	c.JSON(http.StatusOK, responses)
}

// createProject godoc
// @Summary Create a project
// @Description Creates a new project; requires owner, admin or project manager
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, userID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to create project", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// getProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	project, err := h.projectService.GetProjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// saveProject godoc
// @Summary Replace a project
// @Description Full-document save; omitted collections become empty
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body dto.SaveProjectRequest true "Full project document"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *projectHandler) saveProject(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SaveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	project, err := h.projectService.SaveProject(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to save project", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to save project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// patchProject godoc
// @Summary Partially update a project
// @Description Applies only the provided fields
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body dto.PatchProjectRequest true "Fields to update"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [patch]
func (h *projectHandler) patchProject(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.PatchProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	project, err := h.projectService.PatchProject(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to patch project", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// deleteProject godoc
// @Summary Delete a project
// @Description Permanently removes a project; restricted to the organisation owner
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *projectHandler) deleteProject(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), c.Param("id"), userID); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to delete project", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

// getProjectTotals godoc
// @Summary Project cost report
// @Description Returns per-category usage vs budget, total cost, profit and per-employee pay
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} costing.Report
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id}/totals [get]
func (h *projectHandler) getProjectTotals(c *gin.Context) {
	report, err := h.projectService.ComputeTotals(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to compute totals")
		return
	}

	c.JSON(http.StatusOK, report)
}

// getProjectProgress godoc
// @Summary Project progress estimate
// @Description Derives completion percentage and a suggested status from duration and hours worked
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} schedule.Estimate
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id}/progress [get]
func (h *projectHandler) getProjectProgress(c *gin.Context) {
	estimate, err := h.projectService.EstimateProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to estimate progress")
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// submitFeedback godoc
// @Summary Submit customer feedback
// @Description Records rating and comments; only the project's customer may submit
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param feedback body dto.SubmitFeedbackRequest true "Feedback"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /projects/{id}/feedback [post]
func (h *projectHandler) submitFeedback(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	project, err := h.projectService.SubmitFeedback(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to submit feedback", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to submit feedback")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}
