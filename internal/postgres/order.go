package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/njord/internal/domain"
)

// OrderStore implements domain.OrderStore. Line items and the payment intent
// are stored as JSONB documents alongside the mutable status column.
type OrderStore struct {
	db DBTX
}

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(db DBTX) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	productsJSON, err := json.Marshal(order.Products)
	if err != nil {
		return nil, fmt.Errorf("marshal order products: %w", err)
	}

	paymentJSON, err := json.Marshal(order.PaymentIntent)
	if err != nil {
		return nil, fmt.Errorf("marshal payment intent: %w", err)
	}

	query := `
		INSERT INTO orders (id, orderby, products, payment_intent, order_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		order.ID,
		order.OrderBy,
		productsJSON,
		paymentJSON,
		order.OrderStatus,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	return order, nil
}

func (s *OrderStore) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `
		SELECT id, orderby, products, payment_intent, order_status, created_at, updated_at
		FROM orders
		WHERE id = $1`

	order, err := scanOrder(s.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("order.get", "order", orderID)
		}
		return nil, err
	}

	return order, nil
}

func (s *OrderStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	query := `
		SELECT id, orderby, products, payment_intent, order_status, created_at, updated_at
		FROM orders
		WHERE orderby = $1
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// UpdateStatus overwrites the status column and the status field inside the
// payment intent document in a single statement.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET order_status = $1,
		    payment_intent = jsonb_set(payment_intent, '{status}', to_jsonb($1::text)),
		    updated_at = $2
		WHERE id = $3
		RETURNING id, orderby, products, payment_intent, order_status, created_at, updated_at`

	order, err := scanOrder(s.db.QueryRow(ctx, query, status, time.Now().UTC(), orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("order.update_status", "order", orderID)
		}
		return nil, err
	}

	return order, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order        domain.Order
		productsJSON []byte
		paymentJSON  []byte
	)

	err := row.Scan(
		&order.ID,
		&order.OrderBy,
		&productsJSON,
		&paymentJSON,
		&order.OrderStatus,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(productsJSON, &order.Products); err != nil {
		return nil, fmt.Errorf("unmarshal order products: %w", err)
	}
	if err := json.Unmarshal(paymentJSON, &order.PaymentIntent); err != nil {
		return nil, fmt.Errorf("unmarshal payment intent: %w", err)
	}

	return &order, nil
}
