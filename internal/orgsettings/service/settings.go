// Package service wraps the org settings repository with audit logging for
// the per-field setters.
package service

import (
	"context"

	"timeclock-control-plane/internal/orgsettings/domain"
	"timeclock-control-plane/internal/orgsettings/repository"
)

// AuditLogger records administrative mutations. Best-effort; implementations
// must not fail the calling operation.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string)
}

// Service exposes the org settings operations.
type Service struct {
	repo  repository.Repository
	audit AuditLogger
}

// NewService returns a settings service backed by repo. audit may be nil.
func NewService(repo repository.Repository, audit AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// Get returns the org's settings; nil when the org has none stored yet.
func (s *Service) Get(ctx context.Context, orgID string) (*domain.Settings, error) {
	return s.repo.Get(ctx, orgID)
}

// SetPanelChannel stores the panel channel id for the org.
func (s *Service) SetPanelChannel(ctx context.Context, orgID, actorID, channelID string) error {
	if err := s.repo.SetPanelChannel(ctx, orgID, channelID); err != nil {
		return err
	}
	s.logChange(ctx, orgID, actorID, "set_panel_channel", channelID)
	return nil
}

// SetNotifyChannel stores the notify channel id for the org.
func (s *Service) SetNotifyChannel(ctx context.Context, orgID, actorID, channelID string) error {
	if err := s.repo.SetNotifyChannel(ctx, orgID, channelID); err != nil {
		return err
	}
	s.logChange(ctx, orgID, actorID, "set_notify_channel", channelID)
	return nil
}

// SetPaymentChannel stores the payment channel id for the org.
func (s *Service) SetPaymentChannel(ctx context.Context, orgID, actorID, channelID string) error {
	if err := s.repo.SetPaymentChannel(ctx, orgID, channelID); err != nil {
		return err
	}
	s.logChange(ctx, orgID, actorID, "set_payment_channel", channelID)
	return nil
}

// SetAdminRole stores the admin role id for the org.
func (s *Service) SetAdminRole(ctx context.Context, orgID, actorID, roleID string) error {
	if err := s.repo.SetAdminRole(ctx, orgID, roleID); err != nil {
		return err
	}
	s.logChange(ctx, orgID, actorID, "set_admin_role", roleID)
	return nil
}

// SetBeneficiary stores the payment beneficiary id for the org.
func (s *Service) SetBeneficiary(ctx context.Context, orgID, actorID, beneficiaryID string) error {
	if err := s.repo.SetBeneficiary(ctx, orgID, beneficiaryID); err != nil {
		return err
	}
	s.logChange(ctx, orgID, actorID, "set_beneficiary", beneficiaryID)
	return nil
}

func (s *Service) logChange(ctx context.Context, orgID, actorID, action, value string) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(ctx, orgID, actorID, action, "org_settings", value)
}
