package service

import (
	"context"
	"errors"
	"testing"
	"time"

	pricelistdomain "github.com/X-CodesTech/wassel-api/internal/pricelist/domain"
	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	vendorcostdomain "github.com/X-CodesTech/wassel-api/internal/vendorcost/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	svc           vendorcostdomain.Service
	db            *gorm.DB
	node          *snowflake.Node
	subActivityID snowflake.ID
	locationA     snowflake.ID
	locationB     snowflake.ID
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&pricelistdomain.PriceList{},
		&pricingdomain.SubActivityPrice{},
		&pricingdomain.LocationPrice{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := NewService(ServiceParam{
		DB:  db,
		Log: zap.NewNop(),
	})

	return &fixture{
		svc:           svc,
		db:            db,
		node:          node,
		subActivityID: node.Generate(),
		locationA:     node.Generate(),
		locationB:     node.Generate(),
	}
}

func (f *fixture) seedVendorList(t *testing.T, active bool) *pricelistdomain.PriceList {
	t.Helper()
	list := &pricelistdomain.PriceList{
		ID:            f.node.Generate(),
		OwnerID:       f.node.Generate(),
		OwnerType:     pricelistdomain.OwnerTypeVendor,
		Name:          "rates",
		Active:        active,
		EffectiveFrom: time.Now().UTC().Add(-time.Hour),
	}
	if err := f.db.Create(list).Error; err != nil {
		t.Fatalf("seed price list: %v", err)
	}
	return list
}

func (f *fixture) seedFlatLine(t *testing.T, list *pricelistdomain.PriceList, cost string) {
	t.Helper()
	price := decimal.RequireFromString(cost)
	line := &pricingdomain.SubActivityPrice{
		ID:            f.node.Generate(),
		PriceListID:   list.ID,
		SubActivityID: f.subActivityID,
		PricingMethod: pricingdomain.PricingMethodPerItem,
		BasePrice:     &price,
	}
	if err := f.db.Create(line).Error; err != nil {
		t.Fatalf("seed line: %v", err)
	}
}

func (f *fixture) seedLocatedLine(t *testing.T, list *pricelistdomain.PriceList, method pricingdomain.PricingMethod, rows []pricingdomain.LocationPrice) {
	t.Helper()
	line := &pricingdomain.SubActivityPrice{
		ID:            f.node.Generate(),
		PriceListID:   list.ID,
		SubActivityID: f.subActivityID,
		PricingMethod: method,
	}
	if err := f.db.Create(line).Error; err != nil {
		t.Fatalf("seed line: %v", err)
	}
	for i := range rows {
		rows[i].ID = f.node.Generate()
		rows[i].LineID = line.ID
		rows[i].PricingMethod = method
		rows[i].Position = i
	}
	if err := f.db.Create(&rows).Error; err != nil {
		t.Fatalf("seed rows: %v", err)
	}
}

func TestQueryValidation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetVendorCosts(ctx, vendorcostdomain.Query{})
	if !errors.Is(err, vendorcostdomain.ErrMissingSubActivity) {
		t.Fatalf("expected ErrMissingSubActivity, got %v", err)
	}

	_, err = f.svc.GetVendorCosts(ctx, vendorcostdomain.Query{
		SubActivityID: f.subActivityID.String(),
		Location:      f.locationA.String(),
		FromLocation:  f.locationA.String(),
		ToLocation:    f.locationB.String(),
	})
	if !errors.Is(err, vendorcostdomain.ErrAmbiguousLocation) {
		t.Fatalf("expected ErrAmbiguousLocation, got %v", err)
	}

	_, err = f.svc.GetVendorCosts(ctx, vendorcostdomain.Query{
		SubActivityID: f.subActivityID.String(),
		FromLocation:  f.locationA.String(),
	})
	if !errors.Is(err, vendorcostdomain.ErrIncompleteTrip) {
		t.Fatalf("expected ErrIncompleteTrip, got %v", err)
	}
}

func TestFlatCosts(t *testing.T) {
	f := setupFixture(t)

	f.seedFlatLine(t, f.seedVendorList(t, true), "50")
	f.seedFlatLine(t, f.seedVendorList(t, true), "100")

	resp, err := f.svc.GetVendorCosts(context.Background(), vendorcostdomain.Query{
		SubActivityID: f.subActivityID.String(),
	})
	if err != nil {
		t.Fatalf("get vendor costs: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 vendors, got %d", len(resp.Data))
	}
	if !resp.CostRange.Min.Equal(decimal.NewFromInt(50)) || !resp.CostRange.Max.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("range = %v-%v", resp.CostRange.Min, resp.CostRange.Max)
	}
	if !resp.CostRange.Average.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("average = %v", resp.CostRange.Average)
	}
	if resp.Display != "50-100" {
		t.Fatalf("display = %q", resp.Display)
	}
	// Data comes back cheapest first.
	if !resp.Data[0].Cost.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("first cost = %v", resp.Data[0].Cost)
	}
}

func TestLocationQueryMergesFlatCosts(t *testing.T) {
	f := setupFixture(t)

	f.seedFlatLine(t, f.seedVendorList(t, true), "80")
	f.seedLocatedLine(t, f.seedVendorList(t, true), pricingdomain.PricingMethodPerLocation, []pricingdomain.LocationPrice{
		{LocationID: &f.locationA, Amount: decimal.NewFromInt(100)},
		{LocationID: &f.locationB, Amount: decimal.NewFromInt(250)},
	})

	resp, err := f.svc.GetVendorCosts(context.Background(), vendorcostdomain.Query{
		SubActivityID: f.subActivityID.String(),
		Location:      f.locationA.String(),
	})
	if err != nil {
		t.Fatalf("get vendor costs: %v", err)
	}
	// The flat 80 applies anywhere, the located 100 matches; the 250
	// row targets another location and must not appear.
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 costs, got %d", len(resp.Data))
	}
	if resp.Display != "80-100" {
		t.Fatalf("display = %q", resp.Display)
	}
}

func TestTotalVendorsCountsDistinctVendors(t *testing.T) {
	f := setupFixture(t)

	// One vendor contributes both a flat cost and a located one.
	list := f.seedVendorList(t, true)
	f.seedFlatLine(t, list, "80")
	f.seedLocatedLine(t, f.seedVendorList(t, true), pricingdomain.PricingMethodPerLocation, []pricingdomain.LocationPrice{
		{LocationID: &f.locationA, Amount: decimal.NewFromInt(100)},
	})
	f.seedLocatedLine(t, list, pricingdomain.PricingMethodPerLocation, []pricingdomain.LocationPrice{
		{LocationID: &f.locationA, Amount: decimal.NewFromInt(120)},
	})

	resp, err := f.svc.GetVendorCosts(context.Background(), vendorcostdomain.Query{
		SubActivityID: f.subActivityID.String(),
		Location:      f.locationA.String(),
	})
	if err != nil {
		t.Fatalf("get vendor costs: %v", err)
	}
	if resp.CostRange.Count != 3 {
		t.Fatalf("count = %d", resp.CostRange.Count)
	}
	if resp.CostRange.TotalVendors != 2 {
		t.Fatalf("total vendors = %d", resp.CostRange.TotalVendors)
	}
}

func TestTripQuery(t *testing.T) {
	f := setupFixture(t)

	f.seedLocatedLine(t, f.seedVendorList(t, true), pricingdomain.PricingMethodPerTrip, []pricingdomain.LocationPrice{
		{FromLocationID: &f.locationA, ToLocationID: &f.locationB, Amount: decimal.NewFromInt(300)},
		{FromLocationID: &f.locationB, ToLocationID: &f.locationA, Amount: decimal.NewFromInt(320)},
	})

	resp, err := f.svc.GetVendorCosts(context.Background(), vendorcostdomain.Query{
		SubActivityID: f.subActivityID.String(),
		FromLocation:  f.locationA.String(),
		ToLocation:    f.locationB.String(),
	})
	if err != nil {
		t.Fatalf("get vendor costs: %v", err)
	}
	// Direction matters: only the A to B row qualifies.
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 cost, got %d", len(resp.Data))
	}
	if resp.Display != "300" {
		t.Fatalf("display = %q", resp.Display)
	}
}

func TestInactiveAndExpiredListsExcluded(t *testing.T) {
	f := setupFixture(t)

	f.seedFlatLine(t, f.seedVendorList(t, false), "10")

	expired := f.seedVendorList(t, true)
	past := time.Now().UTC().Add(-time.Minute)
	if err := f.db.Model(expired).Update("effective_to", past).Error; err != nil {
		t.Fatalf("expire list: %v", err)
	}
	f.seedFlatLine(t, expired, "20")

	resp, err := f.svc.GetVendorCosts(context.Background(), vendorcostdomain.Query{
		SubActivityID: f.subActivityID.String(),
	})
	if err != nil {
		t.Fatalf("get vendor costs: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Fatalf("expected no costs, got %d", len(resp.Data))
	}
	if resp.Display != "N/A" {
		t.Fatalf("display = %q", resp.Display)
	}
}

func TestResponsesAreCached(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	query := vendorcostdomain.Query{SubActivityID: f.subActivityID.String()}

	f.seedFlatLine(t, f.seedVendorList(t, true), "50")

	first, err := f.svc.GetVendorCosts(ctx, query)
	if err != nil {
		t.Fatalf("get vendor costs: %v", err)
	}

	// A write after the first read must not show up within the TTL.
	f.seedFlatLine(t, f.seedVendorList(t, true), "90")

	second, err := f.svc.GetVendorCosts(ctx, query)
	if err != nil {
		t.Fatalf("get vendor costs: %v", err)
	}
	if len(second.Data) != len(first.Data) {
		t.Fatalf("expected cached response, got %d costs", len(second.Data))
	}
}
