package server

import (
	"net/http"
	"strconv"
	"strings"

	locationdomain "github.com/X-CodesTech/wassel-api/internal/location/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      List Locations
// @Description  List the location catalog
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        search      query     string  false  "Search"
// @Param        country     query     string  false  "Country"
// @Param        active      query     bool    false  "Active"
// @Param        page_token  query     string  false  "Page Token"
// @Param        page_size   query     int     false  "Page Size"
// @Success      200  {object}  []locationdomain.Location
// @Router       /locations [get]
func (s *Server) ListLocations(c *gin.Context) {
	var query struct {
		Search    string `form:"search"`
		Country   string `form:"country"`
		Active    string `form:"active"`
		PageToken string `form:"page_token"`
		PageSize  string `form:"page_size"`
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

	pageSize := 0
	if trimmed := strings.TrimSpace(query.PageSize); trimmed != "" {
		pageSize, err = strconv.Atoi(trimmed)
		if err != nil || pageSize < 0 {
			AbortWithError(c, newValidationError("page_size", "invalid_page_size", "invalid page size"))
			return
		}
	}

	items, nextToken, err := s.locationSvc.List(c.Request.Context(), locationdomain.ListRequest{
		Search:    strings.TrimSpace(query.Search),
		Country:   strings.TrimSpace(query.Country),
		Active:    active,
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":            items,
		"next_page_token": nextToken,
	})
}

// @Summary      Get Location
// @Description  Get a location with its bilingual display strings
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  locationdomain.Location
// @Router       /locations/{id} [get]
func (s *Server) GetLocation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.locationSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resp,
		"display": gin.H{
			"en": locationdomain.FormatAddress(resp, locationdomain.LanguageEnglish),
			"ar": locationdomain.FormatAddress(resp, locationdomain.LanguageArabic),
		},
	})
}
