package service

import (
	"context"

	"github.com/dukerupert/njord/internal/domain"
)

// EnquiryService provides contact-form business logic.
type EnquiryService interface {
	Create(ctx context.Context, e *domain.Enquiry) (*domain.Enquiry, error)
	Get(ctx context.Context, id string) (*domain.Enquiry, error)
	List(ctx context.Context) ([]domain.Enquiry, error)
	Update(ctx context.Context, e *domain.Enquiry) (*domain.Enquiry, error)
	Delete(ctx context.Context, id string) (*domain.Enquiry, error)
}

type enquiryService struct {
	enquiries domain.EnquiryStore
}

// NewEnquiryService creates a new EnquiryService instance.
func NewEnquiryService(enquiries domain.EnquiryStore) EnquiryService {
	return &enquiryService{enquiries: enquiries}
}

func (s *enquiryService) Create(ctx context.Context, e *domain.Enquiry) (*domain.Enquiry, error) {
	if e.Status == "" {
		e.Status = "Submitted"
	}
	return s.enquiries.Create(ctx, e)
}

func (s *enquiryService) Get(ctx context.Context, id string) (*domain.Enquiry, error) {
	return s.enquiries.GetByID(ctx, id)
}

func (s *enquiryService) List(ctx context.Context) ([]domain.Enquiry, error) {
	return s.enquiries.List(ctx)
}

func (s *enquiryService) Update(ctx context.Context, e *domain.Enquiry) (*domain.Enquiry, error) {
	return s.enquiries.Update(ctx, e)
}

func (s *enquiryService) Delete(ctx context.Context, id string) (*domain.Enquiry, error) {
	return s.enquiries.Delete(ctx, id)
}
