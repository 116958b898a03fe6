package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/X-CodesTech/wassel-api/internal/cache"
	"github.com/X-CodesTech/wassel-api/internal/clock"
	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	vendorcostdomain "github.com/X-CodesTech/wassel-api/internal/vendorcost/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCacheTTL = 30 * time.Second

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cache cache.Cache[string, *vendorcostdomain.Response] `optional:"true"`
	Clock clock.Clock                                     `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cache cache.Cache[string, *vendorcostdomain.Response]
	clock clock.Clock
	ttl   time.Duration
}

func NewService(p ServiceParam) vendorcostdomain.Service {
	c := p.Cache
	if c == nil {
		c = cache.NewTTLCache[string, *vendorcostdomain.Response]()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("vendorcost.service"),
		cache: c,
		clock: clk,
		ttl:   defaultCacheTTL,
	}
}

type costRow struct {
	PriceListID   snowflake.ID
	VendorID      snowflake.ID
	PricingMethod string
	Amount        decimal.Decimal
}

func (s *Service) GetVendorCosts(ctx context.Context, q vendorcostdomain.Query) (*vendorcostdomain.Response, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(q)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	subActivityID, err := snowflake.ParseString(strings.TrimSpace(q.SubActivityID))
	if err != nil {
		return nil, vendorcostdomain.ErrInvalidSubActivity
	}

	rows, err := s.collectRows(ctx, subActivityID, q)
	if err != nil {
		return nil, err
	}

	resp := buildResponse(rows)
	s.cache.Set(key, resp, s.ttl)
	return resp, nil
}

// collectRows gathers flat per-item costs alongside rows that match
// the queried location or trip. A vendor with only a flat cost still
// counts: the flat cost applies regardless of geography.
func (s *Service) collectRows(ctx context.Context, subActivityID snowflake.ID, q vendorcostdomain.Query) ([]costRow, error) {
	now := s.clock.Now()

	var flat []costRow
	err := s.activeVendorLines(ctx, subActivityID, now).
		Where("sub_activity_prices.pricing_method = ?", pricingdomain.PricingMethodPerItem).
		Select("price_lists.id AS price_list_id, price_lists.owner_id AS vendor_id, sub_activity_prices.pricing_method AS pricing_method, sub_activity_prices.base_price AS amount").
		Scan(&flat).Error
	if err != nil {
		return nil, err
	}

	located := s.activeVendorLines(ctx, subActivityID, now).
		Joins("JOIN location_prices ON location_prices.line_id = sub_activity_prices.id").
		Select("price_lists.id AS price_list_id, price_lists.owner_id AS vendor_id, location_prices.pricing_method AS pricing_method, location_prices.amount AS amount")

	if q.IsTrip() {
		fromID, err := snowflake.ParseString(strings.TrimSpace(q.FromLocation))
		if err != nil {
			return nil, vendorcostdomain.ErrInvalidLocation
		}
		toID, err := snowflake.ParseString(strings.TrimSpace(q.ToLocation))
		if err != nil {
			return nil, vendorcostdomain.ErrInvalidLocation
		}
		located = located.Where(
			"location_prices.pricing_method = ? AND location_prices.from_location_id = ? AND location_prices.to_location_id = ?",
			pricingdomain.PricingMethodPerTrip, fromID, toID,
		)
	} else if strings.TrimSpace(q.Location) != "" {
		locationID, err := snowflake.ParseString(strings.TrimSpace(q.Location))
		if err != nil {
			return nil, vendorcostdomain.ErrInvalidLocation
		}
		located = located.Where(
			"location_prices.pricing_method = ? AND location_prices.location_id = ?",
			pricingdomain.PricingMethodPerLocation, locationID,
		)
	} else {
		// No geography given: flat costs are the whole answer.
		return flat, nil
	}

	var rows []costRow
	if err := located.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return append(flat, rows...), nil
}

func (s *Service) activeVendorLines(ctx context.Context, subActivityID snowflake.ID, now time.Time) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("sub_activity_prices").
		Joins("JOIN price_lists ON price_lists.id = sub_activity_prices.price_list_id").
		Where("price_lists.owner_type = ?", "vendor").
		Where("price_lists.active = ?", true).
		Where("price_lists.effective_from <= ?", now).
		Where("price_lists.effective_to IS NULL OR price_lists.effective_to > ?", now).
		Where("sub_activity_prices.sub_activity_id = ?", subActivityID)
}

func buildResponse(rows []costRow) *vendorcostdomain.Response {
	data := make([]vendorcostdomain.VendorCost, 0, len(rows))
	values := make([]decimal.Decimal, 0, len(rows))
	vendors := map[snowflake.ID]bool{}
	for _, row := range rows {
		data = append(data, vendorcostdomain.VendorCost{
			PriceListID:   row.PriceListID.String(),
			VendorID:      row.VendorID.String(),
			PricingMethod: row.PricingMethod,
			Cost:          row.Amount,
		})
		values = append(values, row.Amount)
		vendors[row.VendorID] = true
	}
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Cost.LessThan(data[j].Cost)
	})

	window := pricingdomain.RangeOf(values)
	window.TotalVendors = len(vendors)

	return &vendorcostdomain.Response{
		Data:      data,
		CostRange: window,
		Display:   pricingdomain.FormatCostDisplay(nil, values),
	}
}

func cacheKey(q vendorcostdomain.Query) string {
	return strings.Join([]string{
		strings.TrimSpace(q.SubActivityID),
		strings.TrimSpace(q.Location),
		strings.TrimSpace(q.FromLocation),
		strings.TrimSpace(q.ToLocation),
	}, "|")
}
