package server

import (
	"net/http"
	"strings"

	auditdomain "github.com/X-CodesTech/wassel-api/internal/audit/domain"
	"github.com/X-CodesTech/wassel-api/internal/observability/metrics"
	orderdomain "github.com/X-CodesTech/wassel-api/internal/order/domain"
	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	CustomerID    string  `json:"customerId"`
	VendorID      *string `json:"vendorId"`
	SubActivityID string  `json:"subActivityId"`
	FromLocation  *string `json:"fromLocation"`
	ToLocation    *string `json:"toLocation"`
	RequestedAt   *string `json:"requestedAt"`
	AgreedPrice   *string `json:"agreedPrice"`
	AgreedCost    *string `json:"agreedCost"`
	Notes         string  `json:"notes"`
}

type updateOrderRequest struct {
	VendorID    *string `json:"vendorId,omitempty"`
	RequestedAt *string `json:"requestedAt,omitempty"`
	AgreedPrice *string `json:"agreedPrice,omitempty"`
	AgreedCost  *string `json:"agreedCost,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type transitionOrderRequest struct {
	Status string `json:"status"`
}

// @Summary      Create Order
// @Description  Create a freight order in draft
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createOrderRequest true "Create Order Request"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders [post]
func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), orderdomain.CreateRequest{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		VendorID:      trimPtr(req.VendorID),
		SubActivityID: strings.TrimSpace(req.SubActivityID),
		FromLocation:  trimPtr(req.FromLocation),
		ToLocation:    trimPtr(req.ToLocation),
		RequestedAt:   trimPtr(req.RequestedAt),
		AgreedPrice:   trimPtr(req.AgreedPrice),
		AgreedCost:    trimPtr(req.AgreedCost),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditOrder(c, auditdomain.ActionOrderCreate, resp, nil)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Orders
// @Description  List freight orders
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        status       query     string  false  "Status"
// @Param        customer_id  query     string  false  "Customer ID"
// @Param        vendor_id    query     string  false  "Vendor ID"
// @Param        sort_by      query     string  false  "Sort By"
// @Param        order_by     query     string  false  "Order By"
// @Success      200  {object}  []orderdomain.Order
// @Router       /orders [get]
func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		Status     string `form:"status"`
		CustomerID string `form:"customer_id"`
		VendorID   string `form:"vendor_id"`
		SortBy     string `form:"sort_by"`
		OrderBy    string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListRequest{
		Status:     strings.TrimSpace(query.Status),
		CustomerID: strings.TrimSpace(query.CustomerID),
		VendorID:   strings.TrimSpace(query.VendorID),
		SortBy:     strings.TrimSpace(query.SortBy),
		OrderBy:    strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Order
// @Description  Get order by ID
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{id} [get]
func (s *Server) GetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Order
// @Description  Update a draft order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path      string              true  "Order ID"
// @Param        request  body      updateOrderRequest  true  "Update Order Request"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{id} [patch]
func (s *Server) UpdateOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Update(c.Request.Context(), orderdomain.UpdateRequest{
		ID:          id,
		VendorID:    trimPtr(req.VendorID),
		RequestedAt: trimPtr(req.RequestedAt),
		AgreedPrice: trimPtr(req.AgreedPrice),
		AgreedCost:  trimPtr(req.AgreedCost),
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditOrder(c, auditdomain.ActionOrderUpdate, resp, nil)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Transition Order
// @Description  Move an order through its lifecycle
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path      string                  true  "Order ID"
// @Param        request  body      transitionOrderRequest  true  "Transition Request"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{id}/transition [post]
func (s *Server) TransitionOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req transitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	to := orderdomain.Status(strings.TrimSpace(req.Status))
	resp, err := s.orderSvc.Transition(c.Request.Context(), id, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	metrics.Backoffice().IncOrderTransition(string(to))
	s.auditOrder(c, auditdomain.ActionOrderTransition, resp, map[string]any{
		"to": string(to),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) auditOrder(c *gin.Context, action string, record *orderdomain.Order, extra map[string]any) {
	if s.auditSvc == nil || record == nil {
		return
	}
	targetID := record.ID.String()
	metadata := map[string]any{
		"order_id": targetID,
		"status":   string(record.Status),
	}
	for key, value := range extra {
		metadata[key] = value
	}
	_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "", nil, action, "order", &targetID, metadata)
}
