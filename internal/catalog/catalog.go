// Package catalog is the moderation core's view of the Listing Catalog
// collaborator. The interface is the contract; the GORM adapter serves
// deployments where the catalog shares the database.
package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/models"
)

// RemediationAction is the disposition payload applied to a listing when a
// report is resolved. It is supplied by the caller, never inferred.
type RemediationAction string

const (
	RemediationNone         RemediationAction = "none"
	RemediationUnpublish    RemediationAction = "unpublish"
	RemediationPriceCorrect RemediationAction = "price-correct"
)

func ValidRemediation(a RemediationAction) bool {
	switch a {
	case RemediationNone, RemediationUnpublish, RemediationPriceCorrect:
		return true
	}
	return false
}

type Service interface {
	// GetListing returns the listing or an unknown-listing error when the
	// id does not reference an existing, not-yet-deleted listing.
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	// ApplyRemediation applies a disposition action to the listing.
	ApplyRemediation(ctx context.Context, listingID uuid.UUID, action RemediationAction) error
}
