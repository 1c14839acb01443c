package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing carries the catalog fields the moderation core needs: identity
// and metadata for decisions, quality-assessment inputs, and the title and
// dealer name surfaced in the moderator queue. The catalog service owns
// the rest of the record (full media, pricing history, etc.).
type Listing struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DealerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"dealer_id"`
	DealerName      string         `gorm:"size:255" json:"dealer_name"`
	Title           string         `gorm:"size:255" json:"title"`
	Make            string         `gorm:"size:80" json:"make"`
	Model           string         `gorm:"size:80" json:"model"`
	Year            int            `json:"year"`
	Mileage         int            `json:"mileage"`
	VIN             string         `gorm:"size:17" json:"vin"`
	Price           float64        `json:"price"`
	Description     string         `gorm:"type:text" json:"description"`
	ImageCount      int            `json:"image_count"`
	HasPrimaryImage bool           `json:"has_primary_image"`
	Published       bool           `gorm:"not null;default:true" json:"published"`
	PriceFlagged    bool           `gorm:"not null;default:false" json:"price_flagged"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
