// Package domain contains the location reference data used by price rows
// and freight orders.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Location is one entry of the bilingual location hierarchy. Any of the
// parts may be empty; formatting skips blanks.
type Location struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	Village   string `gorm:"type:text" json:"village"`
	VillageAr string `gorm:"type:text" json:"villageAr"`
	City      string `gorm:"type:text" json:"city"`
	CityAr    string `gorm:"type:text" json:"cityAr"`
	Area      string `gorm:"type:text" json:"area"`
	AreaAr    string `gorm:"type:text" json:"areaAr"`
	Country   string `gorm:"type:text" json:"country"`
	CountryAr string `gorm:"type:text" json:"countryAr"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Location) TableName() string { return "locations" }

// ListRequest filters the location catalog.
type ListRequest struct {
	Search    string
	Country   string
	Active    *bool
	PageToken string
	PageSize  int
}

// Service exposes read access to the location catalog.
type Service interface {
	Get(ctx context.Context, id string) (*Location, error)
	GetMany(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]*Location, error)
	List(ctx context.Context, req ListRequest) ([]Location, string, error)
}

var (
	ErrInvalidID        = errors.New("invalid_location_id")
	ErrLocationNotFound = errors.New("location_not_found")
)
