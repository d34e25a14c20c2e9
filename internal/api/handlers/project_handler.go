package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamflow-app/teamflow-backend/internal/api/middleware"
	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/service"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), c.Param("id"), c.Param("projectId"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListByWorkspace(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.ProjectResponse, len(projects))
	for i, p := range projects {
		response[i] = toProjectResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"projects": response})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	err := h.projectService.Delete(c.Request.Context(), c.Param("id"), c.Param("projectId"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
