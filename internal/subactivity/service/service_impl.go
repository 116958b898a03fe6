package service

import (
	"context"
	"errors"
	"strings"
	"time"

	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
	"github.com/X-CodesTech/wassel-api/pkg/db/option"
	"github.com/X-CodesTech/wassel-api/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	repo  repository.Repository[subactivitydomain.SubActivity]
}

func NewService(p ServiceParam) subactivitydomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("subactivity.service"),

		genID: p.GenID,
		repo:  repository.ProvideStore[subactivitydomain.SubActivity](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req subactivitydomain.CreateRequest) (*subactivitydomain.SubActivity, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, subactivitydomain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, subactivitydomain.ErrInvalidName
	}
	if err := validateMethods(req.AllowedMethods); err != nil {
		return nil, err
	}

	existing, err := s.repo.Count(ctx, map[string]any{"code": code})
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, subactivitydomain.ErrDuplicateCode
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	record := &subactivitydomain.SubActivity{
		ID:             s.genID.Generate(),
		Code:           code,
		Name:           name,
		NameAr:         strings.TrimSpace(req.NameAr),
		AllowedMethods: datatypes.NewJSONSlice(req.AllowedMethods),
		Active:         active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("sub-activity created",
		zap.String("sub_activity_id", record.ID.String()),
		zap.String("code", record.Code),
	)
	return record, nil
}

func (s *Service) Get(ctx context.Context, id string) (*subactivitydomain.SubActivity, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, subactivitydomain.ErrInvalidID
	}

	record, err := s.repo.First(ctx, map[string]any{"id": parsed})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, subactivitydomain.ErrSubActivityNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, req subactivitydomain.ListRequest) ([]subactivitydomain.SubActivity, error) {
	filter := map[string]any{}
	if req.Active != nil {
		filter["active"] = *req.Active
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			Allow:   map[string]bool{"created_at": true, "code": true, "name": true},
			SortBy:  req.SortBy,
			OrderBy: req.OrderBy,
		}),
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		var records []subactivitydomain.SubActivity
		query := s.db.WithContext(ctx).Model(&subactivitydomain.SubActivity{}).
			Where("name LIKE ? OR name_ar LIKE ?", "%"+name+"%", "%"+name+"%")
		if len(filter) > 0 {
			query = query.Where(filter)
		}
		if err := option.Apply(query, opts...).Find(&records).Error; err != nil {
			return nil, err
		}
		return records, nil
	}

	return s.repo.Find(ctx, filter, opts...)
}

func (s *Service) Update(ctx context.Context, req subactivitydomain.UpdateRequest) (*subactivitydomain.SubActivity, error) {
	record, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, subactivitydomain.ErrInvalidName
		}
		record.Name = name
	}
	if req.NameAr != nil {
		record.NameAr = strings.TrimSpace(*req.NameAr)
	}
	if req.AllowedMethods != nil {
		if err := validateMethods(req.AllowedMethods); err != nil {
			return nil, err
		}
		record.AllowedMethods = datatypes.NewJSONSlice(req.AllowedMethods)
	}
	if req.Active != nil {
		record.Active = *req.Active
	}
	record.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Archive(ctx context.Context, id string) (*subactivitydomain.SubActivity, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.Active {
		return record, nil
	}

	record.Active = false
	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("sub-activity archived", zap.String("sub_activity_id", record.ID.String()))
	return record, nil
}

func validateMethods(methods []string) error {
	for _, method := range methods {
		if !pricingdomain.PricingMethod(method).Valid() {
			return subactivitydomain.ErrInvalidMethod
		}
	}
	return nil
}
