package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
)

type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	// soft-deleted rows are excluded by gorm.DeletedAt
	err := c.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, moderr.Newf(moderr.KindUnknownListing, "listing %s not found", id)
	}
	if err != nil {
		return nil, moderr.Wrap(moderr.KindInternal, err, "failed to fetch listing")
	}
	return &listing, nil
}

func (c *GormCatalog) ApplyRemediation(ctx context.Context, listingID uuid.UUID, action RemediationAction) error {
	if !ValidRemediation(action) {
		return moderr.Newf(moderr.KindValidation, "unknown remediation action %q", action)
	}

	var updates map[string]interface{}
	switch action {
	case RemediationNone:
		return nil
	case RemediationUnpublish:
		updates = map[string]interface{}{"published": false}
	case RemediationPriceCorrect:
		updates = map[string]interface{}{"price_flagged": true}
	}

	result := c.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", listingID).
		Updates(updates)
	if result.Error != nil {
		return moderr.Wrap(moderr.KindInternal, result.Error, "failed to apply remediation")
	}
	if result.RowsAffected == 0 {
		return moderr.Newf(moderr.KindUnknownListing, "listing %s not found", listingID)
	}

	slog.Info("remediation applied", "listing_id", listingID.String(), "action", string(action))
	return nil
}
