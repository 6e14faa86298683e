package auth

import (
	"context"
	"fmt"
	"slices"

	"github.com/mirola777/order-capture-service/internal/domain"
)

// AllowAll grants every request. It is used when permissions are not enforced.
type AllowAll struct{}

func (AllowAll) ValidatePermissions(context.Context, domain.Actor, string, string, string) error {
	return nil
}

// ClaimsChecker grants an action when the actor holds the permission and may
// act for the shop.
type ClaimsChecker struct{}

func (ClaimsChecker) ValidatePermissions(_ context.Context, actor domain.Actor, resource, action, shopID string) error {
	if actor.UserID == "" {
		return fmt.Errorf("%w: anonymous actor on %s", domain.ErrPermissionDenied, resource)
	}
	if !slices.Contains(actor.Permissions, action) {
		return fmt.Errorf("%w: %s lacks %s on %s", domain.ErrPermissionDenied, actor.UserID, action, resource)
	}
	if !slices.Contains(actor.ShopIDs, shopID) {
		return fmt.Errorf("%w: %s may not act for shop %s", domain.ErrPermissionDenied, actor.UserID, shopID)
	}
	return nil
}

func NewPermissionChecker(enforce bool) domain.PermissionChecker {
	if enforce {
		return ClaimsChecker{}
	}
	return AllowAll{}
}
