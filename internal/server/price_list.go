package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	auditdomain "github.com/X-CodesTech/wassel-api/internal/audit/domain"
	"github.com/X-CodesTech/wassel-api/internal/observability/metrics"
	pricelistdomain "github.com/X-CodesTech/wassel-api/internal/pricelist/domain"
	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	"github.com/gin-gonic/gin"
)

type createPriceListRequest struct {
	OwnerType     string  `json:"ownerType"`
	OwnerID       string  `json:"ownerId"`
	Name          string  `json:"name"`
	EffectiveFrom *string `json:"effectiveFrom"`
	EffectiveTo   *string `json:"effectiveTo"`
}

// @Summary      Create Price List
// @Description  Create a vendor or customer price list
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createPriceListRequest true "Create Price List Request"
// @Success      200  {object}  pricelistdomain.PriceListView
// @Router       /price-lists [post]
func (s *Server) CreatePriceList(c *gin.Context) {
	var req createPriceListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(stringOrEmpty(req.EffectiveFrom))
	if err != nil {
		AbortWithError(c, newValidationError("effectiveFrom", "invalid_time", "effectiveFrom must be RFC3339"))
		return
	}
	to, err := parseOptionalTime(stringOrEmpty(req.EffectiveTo))
	if err != nil {
		AbortWithError(c, newValidationError("effectiveTo", "invalid_time", "effectiveTo must be RFC3339"))
		return
	}

	resp, err := s.priceListSvc.Create(c.Request.Context(), pricelistdomain.CreateRequest{
		OwnerType:     pricelistdomain.OwnerType(strings.TrimSpace(req.OwnerType)),
		OwnerID:       strings.TrimSpace(req.OwnerID),
		Name:          strings.TrimSpace(req.Name),
		EffectiveFrom: from,
		EffectiveTo:   to,
	})
	if err != nil {
		metrics.Backoffice().IncMutation(auditdomain.ActionPriceListCreate, "error")
		AbortWithError(c, err)
		return
	}

	metrics.Backoffice().IncMutation(auditdomain.ActionPriceListCreate, "ok")
	s.auditPriceList(c, auditdomain.ActionPriceListCreate, resp.ID, map[string]any{
		"owner_type": resp.OwnerType,
		"owner_id":   resp.OwnerID,
		"name":       resp.Name,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Price List
// @Description  Get a price list with all of its lines
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Price List ID"
// @Success      200  {object}  pricelistdomain.PriceListView
// @Router       /price-lists/{id} [get]
func (s *Server) GetPriceList(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.priceListSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Price Lists
// @Description  List price lists for one owner
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        owner_type  query  string  true  "Owner Type"
// @Param        owner_id    query  string  true  "Owner ID"
// @Success      200  {object}  []pricelistdomain.PriceListView
// @Router       /price-lists [get]
func (s *Server) ListPriceLists(c *gin.Context) {
	var query struct {
		OwnerType string `form:"owner_type"`
		OwnerID   string `form:"owner_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.priceListSvc.ListByOwner(c.Request.Context(),
		pricelistdomain.OwnerType(strings.TrimSpace(query.OwnerType)),
		strings.TrimSpace(query.OwnerID),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Add Price Line
// @Description  Add a priced sub-activity line to a price list
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path  string                     true  "Price List ID"
// @Param        request  body  pricingdomain.LinePayload  true  "Line Payload"
// @Success      200  {object}  pricelistdomain.MutationResult
// @Router       /price-lists/{id}/lines [post]
func (s *Server) AddPriceLine(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	payload, err := bindLinePayload(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.priceListSvc.AddLine(c.Request.Context(), id, payload)
	if err != nil {
		metrics.Backoffice().IncMutation(auditdomain.ActionPriceLineAdd, "error")
		AbortWithError(c, err)
		return
	}

	metrics.Backoffice().IncMutation(auditdomain.ActionPriceLineAdd, "ok")
	s.auditPriceList(c, auditdomain.ActionPriceLineAdd, id, map[string]any{
		"sub_activity":   payload.SubActivity,
		"pricing_method": payload.PricingMethod,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Price Line
// @Description  Replace a price line's values. The pricing method is immutable.
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path  string                     true  "Price List ID"
// @Param        lineId   path  string                     true  "Line ID"
// @Param        request  body  pricingdomain.LinePayload  true  "Line Payload"
// @Success      200  {object}  pricelistdomain.MutationResult
// @Router       /price-lists/{id}/lines/{lineId} [patch]
func (s *Server) UpdatePriceLine(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	lineID := strings.TrimSpace(c.Param("lineId"))

	payload, err := bindLinePayload(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.priceListSvc.UpdateLine(c.Request.Context(), id, lineID, payload)
	if err != nil {
		metrics.Backoffice().IncMutation(auditdomain.ActionPriceLineUpdate, "error")
		AbortWithError(c, err)
		return
	}

	metrics.Backoffice().IncMutation(auditdomain.ActionPriceLineUpdate, "ok")
	s.auditPriceList(c, auditdomain.ActionPriceLineUpdate, id, map[string]any{
		"line_id": lineID,
		"changed": resp.Changed,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Price Line
// @Description  Remove a line and its location rows from a price list
// @Tags         price-lists
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id      path  string  true  "Price List ID"
// @Param        lineId  path  string  true  "Line ID"
// @Success      200  {object}  pricelistdomain.MutationResult
// @Router       /price-lists/{id}/lines/{lineId} [delete]
func (s *Server) DeletePriceLine(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	lineID := strings.TrimSpace(c.Param("lineId"))

	resp, err := s.priceListSvc.DeleteLine(c.Request.Context(), id, lineID)
	if err != nil {
		metrics.Backoffice().IncMutation(auditdomain.ActionPriceLineDelete, "error")
		AbortWithError(c, err)
		return
	}

	metrics.Backoffice().IncMutation(auditdomain.ActionPriceLineDelete, "ok")
	s.auditPriceList(c, auditdomain.ActionPriceLineDelete, id, map[string]any{
		"line_id": lineID,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// bindLinePayload decodes a line payload rejecting any JSON key outside
// the declared schema. Unknown keys surface as field errors, not opaque
// bind failures.
func bindLinePayload(c *gin.Context) (pricingdomain.LinePayload, error) {
	var payload pricingdomain.LinePayload

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return payload, invalidRequestError()
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		if field, ok := unknownFieldName(err); ok {
			return payload, newValidationError(field, "unrecognized_field", field+" is not a recognized field")
		}
		return payload, invalidRequestError()
	}
	return payload, nil
}

// unknownFieldName extracts the offending key from encoding/json's
// unknown-field error text.
func unknownFieldName(err error) (string, bool) {
	const marker = `json: unknown field "`
	msg := err.Error()
	if !strings.HasPrefix(msg, marker) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(msg, marker), `"`), true
}

func (s *Server) auditPriceList(c *gin.Context, action, listID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	targetID := listID
	_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "", nil, action, "price_list", &targetID, metadata)
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
