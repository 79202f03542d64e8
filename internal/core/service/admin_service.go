package service

import (
	"context"
	"fmt"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
)

// AdminService wraps the targeted backend mutations with the same pre-flight
// validation the screens use.
type AdminService struct {
	client   ports.AdminClient
	validate ports.Validator
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(client ports.AdminClient, validate ports.Validator) *AdminService {
	return &AdminService{client: client, validate: validate}
}

func (s *AdminService) SetUserPin(ctx context.Context, id, pin string) error {
	change := domain.PinChange{Pin: pin}
	if err := s.validate.Validate(change); err != nil {
		return err
	}
	if err := s.client.SetUserPin(ctx, id, change); err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	return nil
}

func (s *AdminService) SetUserRole(ctx context.Context, id, role string) error {
	change := domain.RoleChange{Role: role}
	if err := s.validate.Validate(change); err != nil {
		return err
	}
	if err := s.client.SetUserRole(ctx, id, change); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

func (s *AdminService) UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) error {
	if err := s.validate.Validate(patch); err != nil {
		return err
	}
	if err := s.client.UpdateBooking(ctx, id, patch); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}

func (s *AdminService) RenewDiscount(ctx context.Context, id string) error {
	if err := s.client.RenewDiscount(ctx, id); err != nil {
		return fmt.Errorf("renew discount: %w", err)
	}
	return nil
}

// CreateLocation returns the created location with its server-issued link code.
func (s *AdminService) CreateLocation(ctx context.Context, name string) (*domain.Location, error) {
	loc := domain.Location{Name: name}
	if err := s.validate.Validate(loc); err != nil {
		return nil, err
	}
	created, err := s.client.CreateLocation(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return created, nil
}

// Business returns the saved profile laid over the defaults.
func (s *AdminService) Business(ctx context.Context) (domain.BusinessInfo, error) {
	info, err := s.client.Business(ctx)
	if err != nil {
		return domain.DefaultBusinessInfo(), fmt.Errorf("load business info: %w", err)
	}
	return info, nil
}

func (s *AdminService) SaveBusiness(ctx context.Context, info domain.BusinessInfo) error {
	if err := s.validate.Validate(info); err != nil {
		return err
	}
	if err := s.client.SaveBusiness(ctx, info); err != nil {
		return fmt.Errorf("save business info: %w", err)
	}
	return nil
}

// FinanceSummary returns the server's totals unchanged.
func (s *AdminService) FinanceSummary(ctx context.Context) (domain.FinanceSummary, error) {
	sum, err := s.client.FinanceSummary(ctx)
	if err != nil {
		return domain.FinanceSummary{}, fmt.Errorf("finance summary: %w", err)
	}
	return sum, nil
}
