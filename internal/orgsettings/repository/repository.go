package repository

import (
	"context"

	"timeclock-control-plane/internal/orgsettings/domain"
)

// Repository defines persistence for per-org settings.
type Repository interface {
	// Get returns the settings for orgID, or nil if none have been stored.
	Get(ctx context.Context, orgID string) (*domain.Settings, error)
	// SetPanelChannel upserts the panel channel id for orgID.
	SetPanelChannel(ctx context.Context, orgID, channelID string) error
	// SetNotifyChannel upserts the notify channel id for orgID.
	SetNotifyChannel(ctx context.Context, orgID, channelID string) error
	// SetPaymentChannel upserts the payment channel id for orgID.
	SetPaymentChannel(ctx context.Context, orgID, channelID string) error
	// SetAdminRole upserts the admin role id for orgID.
	SetAdminRole(ctx context.Context, orgID, roleID string) error
	// SetBeneficiary upserts the payment beneficiary id for orgID.
	SetBeneficiary(ctx context.Context, orgID, beneficiaryID string) error
}
