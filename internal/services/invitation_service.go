package services

import (
	"context"
	"fmt"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
	"github.com/eyalfuks51/wedding-Eyal/internal/repository"
)

// InvitationService backs the guest-management dashboard.
type InvitationService interface {
	ListForEvent(ctx context.Context, slug string) ([]domain.Invitation, error)
	Create(ctx context.Context, slug string, inv *domain.Invitation) error
	Update(ctx context.Context, inv *domain.Invitation) error
	Delete(ctx context.Context, id string) error
}

type invitationService struct {
	events      repository.EventRepository
	invitations repository.InvitationRepository
}

func NewInvitationService(events repository.EventRepository, invitations repository.InvitationRepository) InvitationService {
	return &invitationService{events: events, invitations: invitations}
}

func (s *invitationService) ListForEvent(ctx context.Context, slug string) ([]domain.Invitation, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.invitations.List(ctx, event.ID)
}

func (s *invitationService) Create(ctx context.Context, slug string, inv *domain.Invitation) error {
	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	inv.EventID = event.ID

	if err := s.invitations.Create(ctx, inv); err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

func (s *invitationService) Update(ctx context.Context, inv *domain.Invitation) error {
	return s.invitations.Update(ctx, inv)
}

func (s *invitationService) Delete(ctx context.Context, id string) error {
	return s.invitations.Delete(ctx, id)
}
