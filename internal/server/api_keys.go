package server

import (
	"net/http"
	"strings"

	"github.com/X-CodesTech/wassel-api/internal/requestcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type issueAPIKeyRequest struct {
	Name      string  `json:"name"`
	ExpiresAt *string `json:"expiresAt"`
}

// @Summary      Issue API Key
// @Description  Issue a new API key. The plaintext is returned once and never stored.
// @Tags         api-keys
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body issueAPIKeyRequest true "Issue API Key Request"
// @Success      200  {object}  apikeyservice.IssueResult
// @Router       /api-keys [post]
func (s *Server) IssueAPIKey(c *gin.Context) {
	var req issueAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expiresAt, err := parseOptionalTime(stringOrEmpty(req.ExpiresAt))
	if err != nil {
		AbortWithError(c, newValidationError("expiresAt", "invalid_time", "expiresAt must be RFC3339"))
		return
	}

	orgID := authOrgID(c)
	if orgID == 0 {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.apiKeySvc.Issue(c.Request.Context(), orgID, strings.TrimSpace(req.Name), expiresAt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.Key.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "", nil, "api_key.issue", "api_key", &targetID, map[string]any{
			"name":   resp.Key.Name,
			"prefix": resp.Key.Prefix,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List API Keys
// @Description  List the organization's API keys
// @Tags         api-keys
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  []apikeydomain.APIKey
// @Router       /api-keys [get]
func (s *Server) ListAPIKeys(c *gin.Context) {
	orgID := authOrgID(c)
	if orgID == 0 {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.apiKeySvc.List(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Revoke API Key
// @Description  Deactivate an API key
// @Tags         api-keys
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "API Key ID"
// @Success      200  {object}  map[string]string
// @Router       /api-keys/{id} [delete]
func (s *Server) RevokeAPIKey(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	orgID := authOrgID(c)
	if orgID == 0 {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.apiKeySvc.Revoke(c.Request.Context(), orgID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := id
		_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "", nil, "api_key.revoke", "api_key", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "revoked"}})
}

func authOrgID(c *gin.Context) snowflake.ID {
	return snowflake.ID(requestcontext.OrgIDFromContext(c.Request.Context()))
}
