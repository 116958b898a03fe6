// Package events stores domain events emitted by price-list and order
// mutations in a transactional outbox.
package events

// Domain event types emitted by the back office.
const (
	EventPriceLineAdded     = "price_list.line_added"
	EventPriceLineUpdated   = "price_list.line_updated"
	EventPriceLineRemoved   = "price_list.line_removed"
	EventOrderStatusChanged = "order.status_changed"
	EventAttachmentUploaded = "order.attachment_uploaded"
)

// PriceLinePayload captures the minimal data downstream consumers need to
// react to a price-list mutation.
type PriceLinePayload struct {
	PriceListID   string `json:"price_list_id"`
	LineID        string `json:"line_id"`
	SubActivityID string `json:"sub_activity_id"`
	PricingMethod string `json:"pricing_method"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p PriceLinePayload) ToMap() map[string]any {
	return map[string]any{
		"price_list_id":   p.PriceListID,
		"line_id":         p.LineID,
		"sub_activity_id": p.SubActivityID,
		"pricing_method":  p.PricingMethod,
	}
}

// OrderStatusPayload captures an order status transition.
type OrderStatusPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p OrderStatusPayload) ToMap() map[string]any {
	return map[string]any{
		"order_id": p.OrderID,
		"from":     p.From,
		"to":       p.To,
	}
}
