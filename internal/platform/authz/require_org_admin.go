package authz

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orgdomain "timeclock-control-plane/internal/orgsettings/domain"
)

// SettingsGetter returns an org's settings. Used by RequireOrgAdmin to resolve
// the configured admin role.
type SettingsGetter interface {
	Get(ctx context.Context, orgID string) (*orgdomain.Settings, error)
}

// RoleChecker reports whether a user holds a role in an org. Backed by the
// chat platform's member list.
type RoleChecker interface {
	HasRole(ctx context.Context, orgID, userID, roleID string) (bool, error)
}

// RequireOrgAdmin ensures the caller holds the org's configured admin role.
// Ledger adjustments and license changes go through this check. Returns a gRPC
// error (Unauthenticated, PermissionDenied, or Internal) on failure.
func RequireOrgAdmin(ctx context.Context, settings SettingsGetter, roles RoleChecker, orgID, userID string) error {
	if orgID == "" || userID == "" {
		return status.Error(codes.Unauthenticated, "org and user context required")
	}
	s, err := settings.Get(ctx, orgID)
	if err != nil {
		return status.Error(codes.Internal, "failed to resolve org settings")
	}
	if s == nil || s.AdminRole == "" {
		// No admin role configured yet; nobody is elevated until one is set.
		return status.Error(codes.PermissionDenied, "no admin role configured for this organization")
	}
	has, err := roles.HasRole(ctx, orgID, userID, s.AdminRole)
	if err != nil {
		return status.Error(codes.Internal, "failed to resolve member roles")
	}
	if !has {
		return status.Error(codes.PermissionDenied, "organization admin role required")
	}
	return nil
}
