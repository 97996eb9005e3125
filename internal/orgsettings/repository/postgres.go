package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"timeclock-control-plane/internal/orgsettings/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an org settings repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the settings for orgID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) Get(ctx context.Context, orgID string) (*domain.Settings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT org_id, panel_channel, notify_channel, payment_channel, admin_role, beneficiary
		 FROM org_settings WHERE org_id = $1`,
		orgID,
	)
	var (
		s                                         domain.Settings
		panel, notify, payment, role, beneficiary sql.NullString
	)
	if err := row.Scan(&s.OrgID, &panel, &notify, &payment, &role, &beneficiary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.PanelChannel = panel.String
	s.NotifyChannel = notify.String
	s.PaymentChannel = payment.String
	s.AdminRole = role.String
	s.Beneficiary = beneficiary.String
	return &s, nil
}

// SetPanelChannel upserts the panel channel id for orgID.
func (r *PostgresRepository) SetPanelChannel(ctx context.Context, orgID, channelID string) error {
	return r.upsertField(ctx, "panel_channel", orgID, channelID)
}

// SetNotifyChannel upserts the notify channel id for orgID.
func (r *PostgresRepository) SetNotifyChannel(ctx context.Context, orgID, channelID string) error {
	return r.upsertField(ctx, "notify_channel", orgID, channelID)
}

// SetPaymentChannel upserts the payment channel id for orgID.
func (r *PostgresRepository) SetPaymentChannel(ctx context.Context, orgID, channelID string) error {
	return r.upsertField(ctx, "payment_channel", orgID, channelID)
}

// SetAdminRole upserts the admin role id for orgID.
func (r *PostgresRepository) SetAdminRole(ctx context.Context, orgID, roleID string) error {
	return r.upsertField(ctx, "admin_role", orgID, roleID)
}

// SetBeneficiary upserts the payment beneficiary id for orgID.
func (r *PostgresRepository) SetBeneficiary(ctx context.Context, orgID, beneficiaryID string) error {
	return r.upsertField(ctx, "beneficiary", orgID, beneficiaryID)
}

// upsertField writes a single settings column, creating the row on first use.
// column is always one of the fixed names above, never caller input.
func (r *PostgresRepository) upsertField(ctx context.Context, column, orgID, value string) error {
	query := fmt.Sprintf(
		`INSERT INTO org_settings (org_id, %s) VALUES ($1, $2)
		 ON CONFLICT (org_id) DO UPDATE SET %s = EXCLUDED.%s`,
		column, column, column,
	)
	_, err := r.db.ExecContext(ctx, query, orgID, value)
	return err
}
