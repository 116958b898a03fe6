package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	auditdomain "github.com/X-CodesTech/wassel-api/internal/audit/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// @Summary      List Audit Logs
// @Description  Page backwards through the organization's audit trail
// @Tags         audit
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        action       query     string  false  "Action"
// @Param        target_type  query     string  false  "Target Type"
// @Param        target_id    query     string  false  "Target ID"
// @Param        actor_type   query     string  false  "Actor Type"
// @Param        start_at     query     string  false  "Start At (RFC3339)"
// @Param        end_at       query     string  false  "End At (RFC3339)"
// @Param        cursor_id    query     string  false  "Cursor ID from the previous page"
// @Param        cursor_at    query     string  false  "Cursor timestamp from the previous page (RFC3339)"
// @Param        limit        query     int     false  "Limit"
// @Success      200  {object}  []auditdomain.AuditLog
// @Router       /audit-logs [get]
func (s *Server) ListAuditLogs(c *gin.Context) {
	var query struct {
		Action     string `form:"action"`
		TargetType string `form:"target_type"`
		TargetID   string `form:"target_id"`
		ActorType  string `form:"actor_type"`
		StartAt    string `form:"start_at"`
		EndAt      string `form:"end_at"`
		CursorID   string `form:"cursor_id"`
		CursorAt   string `form:"cursor_at"`
		Limit      string `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startAt, err := parseOptionalTime(query.StartAt)
	if err != nil {
		AbortWithError(c, newValidationError("start_at", "invalid_time", "start_at must be RFC3339"))
		return
	}
	endAt, err := parseOptionalTime(query.EndAt)
	if err != nil {
		AbortWithError(c, newValidationError("end_at", "invalid_time", "end_at must be RFC3339"))
		return
	}

	var cursor *auditdomain.AuditCursor
	if id := strings.TrimSpace(query.CursorID); id != "" {
		cursorID, err := snowflake.ParseString(id)
		if err != nil {
			AbortWithError(c, newValidationError("cursor_id", "invalid_cursor", "invalid cursor_id"))
			return
		}
		cursorAt, err := parseOptionalTime(query.CursorAt)
		if err != nil || cursorAt == nil {
			AbortWithError(c, newValidationError("cursor_at", "invalid_cursor", "cursor_at must be RFC3339"))
			return
		}
		cursor = &auditdomain.AuditCursor{ID: cursorID, CreatedAt: *cursorAt}
	}

	limit := 0
	if trimmed := strings.TrimSpace(query.Limit); trimmed != "" {
		limit, err = strconv.Atoi(trimmed)
		if err != nil || limit < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
	}

	resp, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListFilter{
		OrgID:      authOrgID(c),
		Action:     strings.TrimSpace(query.Action),
		TargetType: strings.TrimSpace(query.TargetType),
		TargetID:   strings.TrimSpace(query.TargetID),
		ActorType:  strings.TrimSpace(query.ActorType),
		StartAt:    startAt,
		EndAt:      endAt,
		Cursor:     cursor,
		Limit:      limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := gin.H{"data": resp}
	if limit > 0 && len(resp) == limit {
		last := resp[len(resp)-1]
		out["next_cursor_id"] = last.ID.String()
		out["next_cursor_at"] = last.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	c.JSON(http.StatusOK, out)
}
