// Package snapshot maintains precomputed vendor cost aggregates. The
// worker periodically folds every active vendor price row into one
// snapshot per (sub-activity, geography) key so dashboard reads never
// pay for the join.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/X-CodesTech/wassel-api/internal/observability/metrics"
	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	vendorcostdomain "github.com/X-CodesTech/wassel-api/internal/vendorcost/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config Config `optional:"true"`
}

type Worker struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	cfg   Config
}

func NewWorker(p Params) *Worker {
	cfg := p.Config.withDefaults()
	return &Worker{
		db:    p.DB,
		log:   p.Log.Named("vendorcost.snapshot"),
		genID: p.GenID,
		cfg:   cfg,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(); err != nil {
			w.log.Warn("vendor cost snapshot run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	_, err := w.processBatch(ctx, w.cfg.BatchSize)

	m := metrics.Backoffice()
	m.ObserveSnapshotDuration(time.Since(start))
	if err != nil {
		m.IncSnapshotRun("error")
		return err
	}
	m.IncSnapshotRun("ok")
	return nil
}

// aggregateKey identifies one snapshot: a sub-activity at a location,
// on a trip, or with no geography at all for flat per-item costs.
type aggregateKey struct {
	SubActivityID  snowflake.ID
	LocationID     *snowflake.ID
	FromLocationID *snowflake.ID
	ToLocationID   *snowflake.ID
}

type aggregateRow struct {
	MinCost     decimal.Decimal
	MaxCost     decimal.Decimal
	AverageCost decimal.Decimal
	VendorCount int
}

func (w *Worker) processBatch(ctx context.Context, limit int) (int, error) {
	if w.db == nil || w.genID == nil {
		return 0, errors.New("snapshot_worker_unavailable")
	}
	if limit <= 0 {
		limit = w.cfg.BatchSize
	}

	keys, err := w.collectKeys(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	processed := 0
	now := time.Now().UTC()
	err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			agg, err := w.aggregate(ctx, tx, key, now)
			if err != nil {
				return err
			}
			if err := w.upsert(ctx, tx, key, agg, now); err != nil {
				return err
			}
			processed++
		}
		return nil
	})
	if err != nil {
		return processed, err
	}
	return processed, nil
}

// collectKeys lists every distinct aggregate the current pricing data
// can feed, bounded by limit.
func (w *Worker) collectKeys(ctx context.Context, limit int) ([]aggregateKey, error) {
	var located []aggregateKey
	err := w.activeVendorLines(ctx, time.Now().UTC()).
		Joins("JOIN location_prices ON location_prices.line_id = sub_activity_prices.id").
		Select("DISTINCT sub_activity_prices.sub_activity_id AS sub_activity_id, location_prices.location_id AS location_id, location_prices.from_location_id AS from_location_id, location_prices.to_location_id AS to_location_id").
		Limit(limit).
		Scan(&located).Error
	if err != nil {
		return nil, err
	}

	var flat []aggregateKey
	err = w.activeVendorLines(ctx, time.Now().UTC()).
		Where("sub_activity_prices.pricing_method = ?", pricingdomain.PricingMethodPerItem).
		Select("DISTINCT sub_activity_prices.sub_activity_id AS sub_activity_id").
		Limit(limit).
		Scan(&flat).Error
	if err != nil {
		return nil, err
	}

	return append(located, flat...), nil
}

func (w *Worker) aggregate(ctx context.Context, tx *gorm.DB, key aggregateKey, now time.Time) (aggregateRow, error) {
	var agg aggregateRow

	query := w.activeVendorLinesTx(ctx, tx, now).
		Where("sub_activity_prices.sub_activity_id = ?", key.SubActivityID)

	if key.LocationID == nil && key.FromLocationID == nil {
		query = query.
			Where("sub_activity_prices.pricing_method = ?", pricingdomain.PricingMethodPerItem).
			Select("MIN(sub_activity_prices.base_price) AS min_cost, MAX(sub_activity_prices.base_price) AS max_cost, AVG(sub_activity_prices.base_price) AS average_cost, COUNT(DISTINCT price_lists.owner_id) AS vendor_count")
	} else {
		query = query.
			Joins("JOIN location_prices ON location_prices.line_id = sub_activity_prices.id").
			Select("MIN(location_prices.amount) AS min_cost, MAX(location_prices.amount) AS max_cost, AVG(location_prices.amount) AS average_cost, COUNT(DISTINCT price_lists.owner_id) AS vendor_count")
		if key.LocationID != nil {
			query = query.Where("location_prices.location_id = ?", *key.LocationID)
		} else {
			query = query.Where(
				"location_prices.from_location_id = ? AND location_prices.to_location_id = ?",
				*key.FromLocationID, *key.ToLocationID,
			)
		}
	}

	if err := query.Scan(&agg).Error; err != nil {
		return agg, err
	}
	return agg, nil
}

// upsert replaces the snapshot row for a key. The geography columns are
// nullable and NULLs never collide in a unique index, so ON CONFLICT
// cannot be used here; the delete and insert share the batch transaction.
func (w *Worker) upsert(ctx context.Context, tx *gorm.DB, key aggregateKey, agg aggregateRow, now time.Time) error {
	del := tx.WithContext(ctx).Where("sub_activity_id = ?", key.SubActivityID)
	del = whereNullableID(del, "location_id", key.LocationID)
	del = whereNullableID(del, "from_location_id", key.FromLocationID)
	del = whereNullableID(del, "to_location_id", key.ToLocationID)
	if err := del.Delete(&vendorcostdomain.Snapshot{}).Error; err != nil {
		return err
	}

	record := vendorcostdomain.Snapshot{
		ID:             w.genID.Generate(),
		SubActivityID:  key.SubActivityID,
		LocationID:     key.LocationID,
		FromLocationID: key.FromLocationID,
		ToLocationID:   key.ToLocationID,
		MinCost:        agg.MinCost,
		MaxCost:        agg.MaxCost,
		AverageCost:    agg.AverageCost,
		VendorCount:    agg.VendorCount,
		ComputedAt:     now,
	}
	return tx.WithContext(ctx).Create(&record).Error
}

func whereNullableID(query *gorm.DB, column string, id *snowflake.ID) *gorm.DB {
	if id == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", *id)
}

func (w *Worker) activeVendorLines(ctx context.Context, now time.Time) *gorm.DB {
	return w.activeVendorLinesTx(ctx, w.db, now)
}

func (w *Worker) activeVendorLinesTx(ctx context.Context, tx *gorm.DB, now time.Time) *gorm.DB {
	return tx.WithContext(ctx).
		Table("sub_activity_prices").
		Joins("JOIN price_lists ON price_lists.id = sub_activity_prices.price_list_id").
		Where("price_lists.owner_type = ?", "vendor").
		Where("price_lists.active = ?", true).
		Where("price_lists.effective_from <= ?", now).
		Where("price_lists.effective_to IS NULL OR price_lists.effective_to > ?", now)
}
