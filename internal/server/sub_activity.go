package server

import (
	"net/http"
	"strings"

	auditdomain "github.com/X-CodesTech/wassel-api/internal/audit/domain"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
	"github.com/gin-gonic/gin"
)

type createSubActivityRequest struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	NameAr         string   `json:"nameAr"`
	AllowedMethods []string `json:"allowedMethods"`
	Active         *bool    `json:"active"`
}

type updateSubActivityRequest struct {
	Name           *string  `json:"name,omitempty"`
	NameAr         *string  `json:"nameAr,omitempty"`
	AllowedMethods []string `json:"allowedMethods,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

// @Summary      Create Sub-Activity
// @Description  Create a billable sub-activity
// @Tags         sub-activities
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createSubActivityRequest true "Create Sub-Activity Request"
// @Success      200  {object}  subactivitydomain.SubActivity
// @Router       /sub-activities [post]
func (s *Server) CreateSubActivity(c *gin.Context) {
	var req createSubActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subActivitySvc.Create(c.Request.Context(), subactivitydomain.CreateRequest{
		Code:           strings.TrimSpace(req.Code),
		Name:           strings.TrimSpace(req.Name),
		NameAr:         strings.TrimSpace(req.NameAr),
		AllowedMethods: req.AllowedMethods,
		Active:         req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSubActivity(c, auditdomain.ActionSubActivityCreate, resp)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Sub-Activities
// @Description  List the sub-activity catalog
// @Tags         sub-activities
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        name     query     string  false  "Name"
// @Param        active   query     bool    false  "Active"
// @Param        sort_by  query     string  false  "Sort By"
// @Param        order_by query     string  false  "Order By"
// @Success      200  {object}  []subactivitydomain.SubActivity
// @Router       /sub-activities [get]
func (s *Server) ListSubActivities(c *gin.Context) {
	var query struct {
		Name    string `form:"name"`
		Active  string `form:"active"`
		SortBy  string `form:"sort_by"`
		OrderBy string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.subActivitySvc.List(c.Request.Context(), subactivitydomain.ListRequest{
		Name:    strings.TrimSpace(query.Name),
		Active:  active,
		SortBy:  strings.TrimSpace(query.SortBy),
		OrderBy: strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Sub-Activity
// @Description  Get sub-activity by ID
// @Tags         sub-activities
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Sub-Activity ID"
// @Success      200  {object}  subactivitydomain.SubActivity
// @Router       /sub-activities/{id} [get]
func (s *Server) GetSubActivity(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.subActivitySvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Sub-Activity
// @Description  Update sub-activity details
// @Tags         sub-activities
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path      string                    true  "Sub-Activity ID"
// @Param        request  body      updateSubActivityRequest  true  "Update Sub-Activity Request"
// @Success      200  {object}  subactivitydomain.SubActivity
// @Router       /sub-activities/{id} [patch]
func (s *Server) UpdateSubActivity(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateSubActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subActivitySvc.Update(c.Request.Context(), subactivitydomain.UpdateRequest{
		ID:             id,
		Name:           trimPtr(req.Name),
		NameAr:         trimPtr(req.NameAr),
		AllowedMethods: req.AllowedMethods,
		Active:         req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSubActivity(c, auditdomain.ActionSubActivityUpdate, resp)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Archive Sub-Activity
// @Description  Archive a sub-activity. New price lines can no longer reference it.
// @Tags         sub-activities
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Sub-Activity ID"
// @Success      200  {object}  subactivitydomain.SubActivity
// @Router       /sub-activities/{id}/archive [post]
func (s *Server) ArchiveSubActivity(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.subActivitySvc.Archive(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSubActivity(c, auditdomain.ActionSubActivityArchive, resp)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) auditSubActivity(c *gin.Context, action string, record *subactivitydomain.SubActivity) {
	if s.auditSvc == nil || record == nil {
		return
	}
	targetID := record.ID.String()
	_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "", nil, action, "sub_activity", &targetID, map[string]any{
		"code":   record.Code,
		"name":   record.Name,
		"active": record.Active,
	})
}
