package services

import (
	"time"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/models"
)

// Clock returns the current time. Services stamp created/updated times with it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// CanMutate reports whether actor may update or delete an entity owned by ownerID.
func CanMutate(actor *models.User, ownerID uint) bool {
	return actor != nil && actor.ID != 0 && actor.ID == ownerID
}

// requireActor fails with EUNAUTHORIZED when there is no authenticated actor.
func requireActor(actor *models.User) error {
	if actor == nil || actor.ID == 0 {
		return errs.Errorf(errs.EUNAUTHORIZED, "Authentication credentials were not provided.")
	}
	return nil
}

// requireOwner distinguishes an anonymous caller (EUNAUTHORIZED) from an
// authenticated non-owner (EFORBIDDEN).
func requireOwner(actor *models.User, ownerID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !CanMutate(actor, ownerID) {
		return errs.Errorf(errs.EFORBIDDEN, "You do not have permission to perform this action.")
	}
	return nil
}
