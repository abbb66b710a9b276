package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/usecase/admin"
	"github.com/BruksfildServices01/lefade-api/internal/usecase/kpi"
)

type AdminHandler struct {
	snapshot   *kpi.GetSnapshot
	changeRole *admin.ChangeRole
}

func NewAdminHandler(snapshot *kpi.GetSnapshot, changeRole *admin.ChangeRole) *AdminHandler {
	return &AdminHandler{snapshot: snapshot, changeRole: changeRole}
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) Metrics(c *gin.Context) {
	snap, err := h.snapshot.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kpis": snap})
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.Validation(err))
		return
	}

	u, err := h.changeRole.Execute(c.Request.Context(), currentUserID(c), id, req.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}
