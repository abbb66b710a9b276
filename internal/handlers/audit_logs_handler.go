package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/httpresp"
	"github.com/BruksfildServices01/lefade-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
	tz   string
}

func NewAuditLogsHandler(logs *audit.Logger, tz string) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, tz: tz}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	// --------------------------------------------------
	// Date range, whole days in the shop timezone
	// --------------------------------------------------

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := timezone.ParseDate(fromStr, h.tz)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeValidation, "Invalid request data", "from: expected YYYY-MM-DD")
			return
		}
		f.From = &from
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := timezone.ParseDate(toStr, h.tz)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeValidation, "Invalid request data", "to: expected YYYY-MM-DD")
			return
		}
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}

