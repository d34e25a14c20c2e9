package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamflow-app/teamflow-backend/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

// Search finds invitation candidates by partial email match. Requires
// at least 3 characters; returns at most 10 active users.
func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		query = c.Query("email")
	}

	results, err := h.userService.SearchByEmail(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": results})
}
