package service

import (
	"context"
	"errors"
	"strings"

	locationdomain "github.com/X-CodesTech/wassel-api/internal/location/domain"
	"github.com/X-CodesTech/wassel-api/pkg/db/option"
	"github.com/X-CodesTech/wassel-api/pkg/db/pagination"
	"github.com/X-CodesTech/wassel-api/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	locationrepo repository.Repository[locationdomain.Location]
}

func NewService(p ServiceParam) locationdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("location.service"),

		locationrepo: repository.ProvideStore[locationdomain.Location](p.DB),
	}
}

func (s *Service) Get(ctx context.Context, id string) (*locationdomain.Location, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, locationdomain.ErrInvalidID
	}

	record, err := s.locationrepo.First(ctx, map[string]any{"id": parsed})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, locationdomain.ErrLocationNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) GetMany(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]*locationdomain.Location, error) {
	out := make(map[snowflake.ID]*locationdomain.Location, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var records []locationdomain.Location
	if err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		out[records[i].ID] = &records[i]
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, req locationdomain.ListRequest) ([]locationdomain.Location, string, error) {
	filter := map[string]any{}
	if req.Active != nil {
		filter["active"] = *req.Active
	}
	if country := strings.TrimSpace(req.Country); country != "" {
		filter["country"] = country
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	opts := []option.QueryOption{option.ApplyPagination(page)}

	query := s.db.WithContext(ctx).Model(&locationdomain.Location{})
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"village LIKE ? OR city LIKE ? OR area LIKE ? OR village_ar LIKE ? OR city_ar LIKE ? OR area_ar LIKE ?",
			like, like, like, like, like, like,
		)
	}

	var records []locationdomain.Location
	if err := option.Apply(query, opts...).Find(&records).Error; err != nil {
		return nil, "", err
	}

	nextToken := ""
	if len(records) == page.Limit() {
		nextToken = pagination.EncodeToken(records[len(records)-1].ID.String())
	}
	return records, nextToken, nil
}
