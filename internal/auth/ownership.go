package auth

import (
	"github.com/google/uuid"

	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
)

// Authorize permits an action on a resource only when the acting user owns
// it. The check is a pure ID comparison.
func Authorize(actorID, ownerID uuid.UUID) error {
	if actorID != ownerID {
		return apperrors.OwnershipViolation()
	}
	return nil
}
