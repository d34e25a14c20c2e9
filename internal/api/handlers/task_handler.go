package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamflow-app/teamflow-backend/internal/api/middleware"
	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), c.Param("id"), c.Param("projectId"), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), c.Param("id"), c.Param("projectId"), c.Param("taskId"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByProject(c.Request.Context(), c.Param("id"), c.Param("projectId"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.TaskResponse, len(tasks))
	for i, t := range tasks {
		response[i] = toTaskResponse(t)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": response})
}

// Update applies a partial update. The guard in the service judges the
// request by the exact set of fields it carries, so this handler binds
// without defaulting anything.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), c.Param("id"), c.Param("projectId"), c.Param("taskId"), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// UpdateStatus is the status-only path, addressable without the
// project ID so board UIs can move cards cheaply.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), c.Param("id"), c.Param("taskId"), userID, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// GetPermissions reports what the requesting user could do to the
// task, for UIs that grey out controls.
func (h *TaskHandler) GetPermissions(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	caps, err := h.taskService.GetPermissions(c.Request.Context(), c.Param("id"), c.Param("taskId"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskPermissionsResponse(caps))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	err := h.taskService.Delete(c.Request.Context(), c.Param("id"), c.Param("projectId"), c.Param("taskId"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
