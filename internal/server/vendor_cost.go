package server

import (
	"net/http"

	vendorcostdomain "github.com/X-CodesTech/wassel-api/internal/vendorcost/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      Get Vendor Costs
// @Description  List vendor costs for a sub-activity at a location or trip, with the aggregated range
// @Tags         vendor-costs
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        subActivityId  query     string  true   "Sub-Activity ID"
// @Param        location       query     string  false  "Location ID"
// @Param        fromLocation   query     string  false  "From Location ID"
// @Param        toLocation     query     string  false  "To Location ID"
// @Success      200  {object}  vendorcostdomain.Response
// @Router       /vendor-costs [get]
func (s *Server) GetVendorCosts(c *gin.Context) {
	var query vendorcostdomain.Query
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vendorCostSvc.GetVendorCosts(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
