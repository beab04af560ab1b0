package service

import (
	"context"

	"github.com/dukerupert/njord/internal/domain"
)

// TermService is the thin CRUD surface shared by categories, brands, colors,
// and blog categories.
type TermService interface {
	Create(ctx context.Context, title string) (*domain.Term, error)
	Get(ctx context.Context, id string) (*domain.Term, error)
	List(ctx context.Context) ([]domain.Term, error)
	Update(ctx context.Context, id, title string) (*domain.Term, error)
	Delete(ctx context.Context, id string) (*domain.Term, error)
}

type termService struct {
	store domain.TermStore
}

// NewTermService creates a TermService over one taxonomy store.
func NewTermService(store domain.TermStore) TermService {
	return &termService{store: store}
}

func (s *termService) Create(ctx context.Context, title string) (*domain.Term, error) {
	if title == "" {
		return nil, domain.Invalid("term.create", "title must be provided")
	}
	return s.store.Create(ctx, &domain.Term{Title: title})
}

func (s *termService) Get(ctx context.Context, id string) (*domain.Term, error) {
	return s.store.GetByID(ctx, id)
}

func (s *termService) List(ctx context.Context) ([]domain.Term, error) {
	return s.store.List(ctx)
}

func (s *termService) Update(ctx context.Context, id, title string) (*domain.Term, error) {
	term, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	term.Title = title
	return s.store.Update(ctx, term)
}

func (s *termService) Delete(ctx context.Context, id string) (*domain.Term, error) {
	return s.store.Delete(ctx, id)
}
