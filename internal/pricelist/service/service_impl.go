package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/X-CodesTech/wassel-api/internal/events"
	locationdomain "github.com/X-CodesTech/wassel-api/internal/location/domain"
	pricelistdomain "github.com/X-CodesTech/wassel-api/internal/pricelist/domain"
	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	"github.com/X-CodesTech/wassel-api/internal/requestcontext"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
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
	LocationSvc    locationdomain.Service
	Outbox         *events.Outbox
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID          *snowflake.Node
	subActivitySvc subactivitydomain.Service
	locationSvc    locationdomain.Service
	outbox         *events.Outbox

	listrepo repository.Repository[pricelistdomain.PriceList]
	linerepo repository.Repository[pricingdomain.SubActivityPrice]
}

func NewService(p ServiceParam) pricelistdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("pricelist.service"),

		genID:          p.GenID,
		subActivitySvc: p.SubActivitySvc,
		locationSvc:    p.LocationSvc,
		outbox:         p.Outbox,

		listrepo: repository.ProvideStore[pricelistdomain.PriceList](p.DB),
		linerepo: repository.ProvideStore[pricingdomain.SubActivityPrice](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req pricelistdomain.CreateRequest) (*pricelistdomain.PriceListView, error) {
	if !req.OwnerType.Valid() {
		return nil, pricelistdomain.ErrInvalidOwnerType
	}
	ownerID, err := snowflake.ParseString(strings.TrimSpace(req.OwnerID))
	if err != nil {
		return nil, pricelistdomain.ErrInvalidOwner
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pricelistdomain.ErrInvalidName
	}

	now := time.Now().UTC()
	effectiveFrom := now
	if req.EffectiveFrom != nil {
		effectiveFrom = req.EffectiveFrom.UTC()
	}
	if req.EffectiveTo != nil && !req.EffectiveTo.After(effectiveFrom) {
		return nil, pricelistdomain.ErrInvalidWindow
	}

	record := &pricelistdomain.PriceList{
		ID:            s.genID.Generate(),
		OrgID:         orgIDFromContext(ctx),
		OwnerID:       ownerID,
		OwnerType:     req.OwnerType,
		Name:          name,
		Active:        true,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   req.EffectiveTo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.listrepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("price list created",
		zap.String("price_list_id", record.ID.String()),
		zap.String("owner_type", string(record.OwnerType)),
	)
	return s.loadView(ctx, record.ID)
}

func (s *Service) Get(ctx context.Context, id string) (*pricelistdomain.PriceListView, error) {
	listID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, pricelistdomain.ErrInvalidID
	}
	return s.loadView(ctx, listID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerType pricelistdomain.OwnerType, ownerID string) ([]pricelistdomain.PriceListView, error) {
	if !ownerType.Valid() {
		return nil, pricelistdomain.ErrInvalidOwnerType
	}
	owner, err := snowflake.ParseString(strings.TrimSpace(ownerID))
	if err != nil {
		return nil, pricelistdomain.ErrInvalidOwner
	}

	lists, err := s.listrepo.Find(ctx, map[string]any{
		"owner_type": ownerType,
		"owner_id":   owner,
	})
	if err != nil {
		return nil, err
	}

	views := make([]pricelistdomain.PriceListView, 0, len(lists))
	for _, list := range lists {
		view, err := s.loadView(ctx, list.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *Service) AddLine(ctx context.Context, priceListID string, payload pricingdomain.LinePayload) (*pricelistdomain.MutationResult, error) {
	list, err := s.loadList(ctx, priceListID)
	if err != nil {
		return nil, err
	}

	role := list.OwnerType.Role()
	if err := s.validatePayload(role, payload); err != nil {
		return nil, err
	}

	subActivity, err := s.resolveSubActivity(ctx, payload)
	if err != nil {
		return nil, err
	}

	existing, err := s.linerepo.Count(ctx, map[string]any{
		"price_list_id":   list.ID,
		"sub_activity_id": subActivity.ID,
		"pricing_method":  payload.PricingMethod,
	})
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, pricelistdomain.ErrDuplicateLine
	}

	line, rows, err := s.buildRecords(ctx, list, subActivity.ID, payload)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(line).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return s.publishLineEvent(ctx, tx, events.EventPriceLineAdded, list, line)
	})
	if err != nil {
		return nil, err
	}

	return s.mutationResult(ctx, list.ID, true)
}

func (s *Service) UpdateLine(ctx context.Context, priceListID, lineID string, payload pricingdomain.LinePayload) (*pricelistdomain.MutationResult, error) {
	list, err := s.loadList(ctx, priceListID)
	if err != nil {
		return nil, err
	}
	line, err := s.loadLine(ctx, list.ID, lineID)
	if err != nil {
		return nil, err
	}

	// The pricing method of an existing line can never change in place.
	if payload.PricingMethod != line.PricingMethod {
		return nil, pricelistdomain.ErrMethodImmutable
	}

	role := list.OwnerType.Role()
	if err := s.validatePayload(role, payload); err != nil {
		return nil, err
	}

	names := pricingdomain.FieldNamesFor(role)
	current := pricingdomain.RenderLine(*line, names)
	if !pricingdomain.HasChanges(current, payload, names) {
		return s.mutationResult(ctx, list.ID, false)
	}

	updated, rows, err := s.buildRecords(ctx, list, line.SubActivityID, payload)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if line.PricingMethod == pricingdomain.PricingMethodPerItem {
			return s.applySingleValue(ctx, tx, line, updated.BasePrice, list)
		}

		if err := tx.Where("line_id = ?", line.ID).
			Delete(&pricingdomain.LocationPrice{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].LineID = line.ID
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		if err := tx.Model(line).Update("updated_at", time.Now().UTC()).Error; err != nil {
			return err
		}
		return s.publishLineEvent(ctx, tx, events.EventPriceLineUpdated, list, line)
	})
	if err != nil {
		return nil, err
	}

	return s.mutationResult(ctx, list.ID, true)
}

func (s *Service) DeleteLine(ctx context.Context, priceListID, lineID string) (*pricelistdomain.MutationResult, error) {
	list, err := s.loadList(ctx, priceListID)
	if err != nil {
		return nil, err
	}
	line, err := s.loadLine(ctx, list.ID, lineID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("line_id = ?", line.ID).
			Delete(&pricingdomain.LocationPrice{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&pricingdomain.SubActivityPrice{}, "id = ?", line.ID).Error; err != nil {
			return err
		}
		return s.publishLineEvent(ctx, tx, events.EventPriceLineRemoved, list, line)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("price line deleted",
		zap.String("price_list_id", list.ID.String()),
		zap.String("line_id", line.ID.String()),
	)
	return s.mutationResult(ctx, list.ID, true)
}

func (s *Service) applySingleValue(ctx context.Context, tx *gorm.DB, line *pricingdomain.SubActivityPrice, value *decimal.Decimal, list *pricelistdomain.PriceList) error {
	if err := tx.Model(line).Updates(map[string]any{
		"base_price": value,
		"updated_at": time.Now().UTC(),
	}).Error; err != nil {
		return err
	}
	return s.publishLineEvent(ctx, tx, events.EventPriceLineUpdated, list, line)
}

func (s *Service) validatePayload(role pricingdomain.Role, payload pricingdomain.LinePayload) error {
	if errs := pricingdomain.NewValidator(role).Validate(payload); len(errs) > 0 {
		return &pricelistdomain.ValidationError{Errors: errs}
	}
	return nil
}

func (s *Service) resolveSubActivity(ctx context.Context, payload pricingdomain.LinePayload) (*subactivitydomain.SubActivity, error) {
	subActivity, err := s.subActivitySvc.Get(ctx, payload.SubActivity)
	if err != nil {
		return nil, err
	}
	if !subActivity.Active {
		return nil, subactivitydomain.ErrSubActivityInactive
	}
	if !subActivity.AllowsMethod(string(payload.PricingMethod)) {
		return nil, subactivitydomain.ErrMethodNotAllowed
	}
	return subActivity, nil
}

// buildRecords turns a validated payload into persistence rows, resolving
// every location reference against the catalog.
func (s *Service) buildRecords(ctx context.Context, list *pricelistdomain.PriceList, subActivityID snowflake.ID, payload pricingdomain.LinePayload) (*pricingdomain.SubActivityPrice, []pricingdomain.LocationPrice, error) {
	names := pricingdomain.FieldNamesFor(list.OwnerType.Role())
	now := time.Now().UTC()

	line := &pricingdomain.SubActivityPrice{
		ID:            s.genID.Generate(),
		OrgID:         list.OrgID,
		PriceListID:   list.ID,
		SubActivityID: subActivityID,
		PricingMethod: payload.PricingMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if payload.PricingMethod == pricingdomain.PricingMethodPerItem {
		value, _ := payload.SingleValue(names)
		line.BasePrice = value
		return line, nil, nil
	}

	refs, err := s.collectLocationRefs(payload)
	if err != nil {
		return nil, nil, err
	}
	known, err := s.locationSvc.GetMany(ctx, refs)
	if err != nil {
		return nil, nil, err
	}
	for _, ref := range refs {
		if known[ref] == nil {
			return nil, nil, pricelistdomain.ErrInvalidLocationRef
		}
	}

	rows := make([]pricingdomain.LocationPrice, 0, len(payload.LocationPrices))
	for i, rowPayload := range payload.LocationPrices {
		value, _ := rowPayload.Value(names)
		row := pricingdomain.LocationPrice{
			ID:            s.genID.Generate(),
			LineID:        line.ID,
			PricingMethod: rowPayload.PricingMethod,
			Amount:        *value,
			Position:      i,
		}
		if rowPayload.PricingMethod == pricingdomain.PricingMethodPerLocation {
			id, err := parseLocationRef(rowPayload.Location)
			if err != nil {
				return nil, nil, err
			}
			row.LocationID = id
		} else {
			fromID, err := parseLocationRef(rowPayload.FromLocation)
			if err != nil {
				return nil, nil, err
			}
			toID, err := parseLocationRef(rowPayload.ToLocation)
			if err != nil {
				return nil, nil, err
			}
			row.FromLocationID = fromID
			row.ToLocationID = toID
		}
		rows = append(rows, row)
	}
	return line, rows, nil
}

func parseLocationRef(raw string) (*snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return nil, pricelistdomain.ErrInvalidLocationRef
	}
	return &id, nil
}

func (s *Service) collectLocationRefs(payload pricingdomain.LinePayload) ([]snowflake.ID, error) {
	seen := map[snowflake.ID]bool{}
	refs := make([]snowflake.ID, 0, len(payload.LocationPrices))
	add := func(raw string) error {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return pricelistdomain.ErrInvalidLocationRef
		}
		if !seen[id] {
			seen[id] = true
			refs = append(refs, id)
		}
		return nil
	}

	for _, row := range payload.LocationPrices {
		if row.PricingMethod == pricingdomain.PricingMethodPerLocation {
			if err := add(row.Location); err != nil {
				return nil, err
			}
			continue
		}
		if err := add(row.FromLocation); err != nil {
			return nil, err
		}
		if err := add(row.ToLocation); err != nil {
			return nil, err
		}
	}
	return refs, nil
}

func (s *Service) publishLineEvent(ctx context.Context, tx *gorm.DB, eventType string, list *pricelistdomain.PriceList, line *pricingdomain.SubActivityPrice) error {
	payload := events.PriceLinePayload{
		PriceListID:   list.ID.String(),
		LineID:        line.ID.String(),
		SubActivityID: line.SubActivityID.String(),
		PricingMethod: string(line.PricingMethod),
	}
	return s.outbox.PublishTx(ctx, tx, events.Event{
		OrgID:   orgIDForEvent(list),
		Type:    eventType,
		Payload: payload.ToMap(),
	})
}

func (s *Service) loadList(ctx context.Context, id string) (*pricelistdomain.PriceList, error) {
	listID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, pricelistdomain.ErrInvalidID
	}
	list, err := s.listrepo.First(ctx, map[string]any{"id": listID})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pricelistdomain.ErrPriceListNotFound
		}
		return nil, err
	}
	return list, nil
}

func (s *Service) loadLine(ctx context.Context, listID snowflake.ID, lineID string) (*pricingdomain.SubActivityPrice, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(lineID))
	if err != nil {
		return nil, pricelistdomain.ErrInvalidLineID
	}

	var line pricingdomain.SubActivityPrice
	if err := s.db.WithContext(ctx).
		Preload("LocationPrices").
		Where("id = ? AND price_list_id = ?", parsed, listID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricelistdomain.ErrLineNotFound
		}
		return nil, err
	}
	return &line, nil
}

// loadView performs the wholesale read clients rely on after mutations.
func (s *Service) loadView(ctx context.Context, listID snowflake.ID) (*pricelistdomain.PriceListView, error) {
	list, err := s.listrepo.First(ctx, map[string]any{"id": listID})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pricelistdomain.ErrPriceListNotFound
		}
		return nil, err
	}

	var lines []pricingdomain.SubActivityPrice
	if err := s.db.WithContext(ctx).
		Preload("LocationPrices").
		Where("price_list_id = ?", list.ID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}

	names := pricingdomain.FieldNamesFor(list.OwnerType.Role())
	view := &pricelistdomain.PriceListView{
		ID:                list.ID.String(),
		OwnerType:         list.OwnerType,
		OwnerID:           list.OwnerID.String(),
		Name:              list.Name,
		Active:            list.Active,
		EffectiveFrom:     list.EffectiveFrom,
		EffectiveTo:       list.EffectiveTo,
		SubActivityPrices: make([]pricelistdomain.LineView, 0, len(lines)),
	}
	for _, line := range lines {
		view.SubActivityPrices = append(view.SubActivityPrices, pricelistdomain.LineView{
			ID:          line.ID.String(),
			LinePayload: pricingdomain.RenderLine(line, names),
		})
	}
	return view, nil
}

func (s *Service) mutationResult(ctx context.Context, listID snowflake.ID, changed bool) (*pricelistdomain.MutationResult, error) {
	view, err := s.loadView(ctx, listID)
	if err != nil {
		return nil, err
	}
	return &pricelistdomain.MutationResult{Changed: changed, PriceList: view}, nil
}

func orgIDForEvent(list *pricelistdomain.PriceList) snowflake.ID {
	if list.OrgID != 0 {
		return list.OrgID
	}
	return list.ID
}

func orgIDFromContext(ctx context.Context) snowflake.ID {
	return snowflake.ID(requestcontext.OrgIDFromContext(ctx))
}
