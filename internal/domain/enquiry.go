package domain

import (
	"context"
	"time"
)

// Enquiry is a contact-form submission.
type Enquiry struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	Comment   string    `json:"comment"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EnquiryStore is the enquiry persistence contract.
type EnquiryStore interface {
	Create(ctx context.Context, e *Enquiry) (*Enquiry, error)
	GetByID(ctx context.Context, id string) (*Enquiry, error)
	List(ctx context.Context) ([]Enquiry, error)
	Update(ctx context.Context, e *Enquiry) (*Enquiry, error)
	Delete(ctx context.Context, id string) (*Enquiry, error)
}
