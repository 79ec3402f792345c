package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-wardlow/tt/pkg/response"
)

// Handler wires HTTP routes to the Service.
type Handler struct {
	service *Service
}

// NewHandler returns a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the user routes. guard must reject anonymous
// callers before List runs.
func (h *Handler) RegisterRoutes(r gin.IRoutes, guard gin.HandlerFunc) {
	r.GET("/users", guard, h.list)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
