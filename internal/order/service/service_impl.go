package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/X-CodesTech/wassel-api/internal/events"
	orderdomain "github.com/X-CodesTech/wassel-api/internal/order/domain"
	"github.com/X-CodesTech/wassel-api/internal/requestcontext"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
	"github.com/X-CodesTech/wassel-api/pkg/db/option"
	"github.com/X-CodesTech/wassel-api/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	SubActivitySvc subactivitydomain.Service
	Outbox         *events.Outbox
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID          *snowflake.Node
	subActivitySvc subactivitydomain.Service
	outbox         *events.Outbox
	repo           repository.Repository[orderdomain.Order]
}

func NewService(p ServiceParam) orderdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("order.service"),

		genID:          p.GenID,
		subActivitySvc: p.SubActivitySvc,
		outbox:         p.Outbox,
		repo:           repository.ProvideStore[orderdomain.Order](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req orderdomain.CreateRequest) (*orderdomain.Order, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, orderdomain.ErrInvalidCustomer
	}

	subActivity, err := s.subActivitySvc.Get(ctx, req.SubActivityID)
	if err != nil {
		return nil, err
	}
	if !subActivity.Active {
		return nil, subactivitydomain.ErrSubActivityInactive
	}

	now := time.Now().UTC()
	record := &orderdomain.Order{
		ID:            s.genID.Generate(),
		OrgID:         snowflake.ID(requestcontext.OrgIDFromContext(ctx)),
		CustomerID:    customerID,
		SubActivityID: subActivity.ID,
		Status:        orderdomain.StatusDraft,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if req.VendorID != nil {
		vendorID, err := snowflake.ParseString(strings.TrimSpace(*req.VendorID))
		if err != nil {
			return nil, orderdomain.ErrInvalidVendor
		}
		record.VendorID = &vendorID
	}
	if record.FromLocationID, err = parseOptionalID(req.FromLocation); err != nil {
		return nil, orderdomain.ErrInvalidLocation
	}
	if record.ToLocationID, err = parseOptionalID(req.ToLocation); err != nil {
		return nil, orderdomain.ErrInvalidLocation
	}
	if record.RequestedAt, err = parseOptionalDate(req.RequestedAt); err != nil {
		return nil, err
	}
	if record.AgreedPrice, err = parseOptionalAmount(req.AgreedPrice); err != nil {
		return nil, err
	}
	if record.AgreedCost, err = parseOptionalAmount(req.AgreedCost); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", record.ID.String()),
		zap.String("customer_id", record.CustomerID.String()),
	)
	return record, nil
}

func (s *Service) Get(ctx context.Context, id string) (*orderdomain.Order, error) {
	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, orderdomain.ErrInvalidID
	}

	record, err := s.repo.First(ctx, map[string]any{"id": orderID})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, orderdomain.ErrOrderNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, req orderdomain.ListRequest) ([]orderdomain.Order, error) {
	filter := map[string]any{}
	if status := strings.TrimSpace(req.Status); status != "" {
		if !orderdomain.Status(status).Valid() {
			return nil, orderdomain.ErrInvalidStatus
		}
		filter["status"] = status
	}
	if customer := strings.TrimSpace(req.CustomerID); customer != "" {
		id, err := snowflake.ParseString(customer)
		if err != nil {
			return nil, orderdomain.ErrInvalidCustomer
		}
		filter["customer_id"] = id
	}
	if vendor := strings.TrimSpace(req.VendorID); vendor != "" {
		id, err := snowflake.ParseString(vendor)
		if err != nil {
			return nil, orderdomain.ErrInvalidVendor
		}
		filter["vendor_id"] = id
	}

	return s.repo.Find(ctx, filter, option.WithSortBy(option.QuerySortBy{
		SortBy:  req.SortBy,
		OrderBy: req.OrderBy,
		Allow:   map[string]bool{"created_at": true, "updated_at": true, "status": true},
	}))
}

// Update edits the negotiable fields of a draft order. Confirmed and
// later orders are locked.
func (s *Service) Update(ctx context.Context, req orderdomain.UpdateRequest) (*orderdomain.Order, error) {
	record, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if record.Status != orderdomain.StatusDraft {
		return nil, orderdomain.ErrOrderImmutable
	}

	if req.VendorID != nil {
		vendorID, err := snowflake.ParseString(strings.TrimSpace(*req.VendorID))
		if err != nil {
			return nil, orderdomain.ErrInvalidVendor
		}
		record.VendorID = &vendorID
	}
	if req.RequestedAt != nil {
		if record.RequestedAt, err = parseOptionalDate(req.RequestedAt); err != nil {
			return nil, err
		}
	}
	if req.AgreedPrice != nil {
		if record.AgreedPrice, err = parseOptionalAmount(req.AgreedPrice); err != nil {
			return nil, err
		}
	}
	if req.AgreedCost != nil {
		if record.AgreedCost, err = parseOptionalAmount(req.AgreedCost); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		record.Notes = strings.TrimSpace(*req.Notes)
	}
	record.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Transition moves an order along its lifecycle and records the change
// in the outbox within the same transaction.
func (s *Service) Transition(ctx context.Context, id string, to orderdomain.Status) (*orderdomain.Order, error) {
	if !to.Valid() {
		return nil, orderdomain.ErrInvalidStatus
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !orderdomain.CanTransition(record.Status, to) {
		return nil, orderdomain.ErrInvalidTransition
	}

	from := record.Status
	record.Status = to
	record.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(record).Updates(map[string]any{
			"status":     record.Status,
			"updated_at": record.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		payload := events.OrderStatusPayload{
			OrderID: record.ID.String(),
			From:    string(from),
			To:      string(to),
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			OrgID:   eventOrgID(record),
			Type:    events.EventOrderStatusChanged,
			Payload: payload.ToMap(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order transitioned",
		zap.String("order_id", record.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return record, nil
}

func eventOrgID(record *orderdomain.Order) snowflake.ID {
	if record.OrgID != 0 {
		return record.OrgID
	}
	return record.ID
}

func parseOptionalID(raw *string) (*snowflake.ID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, orderdomain.ErrInvalidDate
	}
	at = at.UTC()
	return &at, nil
}

func parseOptionalAmount(raw *string) (*decimal.Decimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil || value.IsNegative() {
		return nil, orderdomain.ErrInvalidAmount
	}
	return &value, nil
}
