package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/njord/internal/domain"
)

// ProductStore implements domain.ProductStore. Ratings are stored as a JSONB
// document; images as a text array.
type ProductStore struct {
	db DBTX
}

// NewProductStore creates a new PostgreSQL-backed product store.
func NewProductStore(db DBTX) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, title, slug, description, price, category, brand, quantity, sold, images, color, tags, ratings, total_rating, created_at, updated_at`

func (s *ProductStore) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	ratingsJSON, err := json.Marshal(ratingsOrEmpty(p.Ratings))
	if err != nil {
		return nil, fmt.Errorf("marshal ratings: %w", err)
	}

	query := `
		INSERT INTO products (id, title, slug, description, price, category, brand, quantity, sold, images, color, tags, ratings, total_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
		RETURNING created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.Price, p.Category, p.Brand,
		p.Quantity, p.Sold, p.Images, p.Color, p.Tags, ratingsJSON, p.TotalRating,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("product.create", "a product with this slug already exists")
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return p, nil
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("product.get", "product", id)
		}
		return nil, err
	}

	return p, nil
}

// List applies equality filters, an optional price range, whitelist-mapped
// sorting, and page/limit pagination.
func (s *ProductStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}
	if filter.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("brand = $%d", argIndex))
		args = append(args, filter.Brand)
		argIndex++
	}
	if filter.Color != "" {
		conditions = append(conditions, fmt.Sprintf("color = $%d", argIndex))
		args = append(args, filter.Color)
		argIndex++
	}
	if filter.PriceGTE != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.PriceGTE)
		argIndex++
	}
	if filter.PriceLTE != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.PriceLTE)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, orderClause(filter.SortBy), argIndex, argIndex+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (s *ProductStore) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ratingsJSON, err := json.Marshal(ratingsOrEmpty(p.Ratings))
	if err != nil {
		return nil, fmt.Errorf("marshal ratings: %w", err)
	}

	query := `
		UPDATE products
		SET title = $1, slug = $2, description = $3, price = $4, category = $5,
		    brand = $6, quantity = $7, images = $8, color = $9, tags = $10,
		    ratings = $11, total_rating = $12, updated_at = $13
		WHERE id = $14
		RETURNING sold, created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		p.Title, p.Slug, p.Description, p.Price, p.Category, p.Brand,
		p.Quantity, p.Images, p.Color, p.Tags, ratingsJSON, p.TotalRating,
		time.Now().UTC(), p.ID,
	).Scan(&p.Sold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("product.update", "product", p.ID)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return p, nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) (*domain.Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	p, err := scanProduct(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("product.delete", "product", id)
		}
		return nil, err
	}

	return p, nil
}

func (s *ProductStore) FindPrice(ctx context.Context, id string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := s.db.QueryRow(ctx, `SELECT price FROM products WHERE id = $1`, id).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.NotFound("product.find_price", "product", id)
		}
		return decimal.Zero, fmt.Errorf("find product price: %w", err)
	}
	return price, nil
}

// BatchAdjustInventory queues one UPDATE per adjustment and sends them as a
// single batch. A failure part-way through surfaces as EPARTIAL with the
// number of applied adjustments; earlier updates are not rolled back.
func (s *ProductStore) BatchAdjustInventory(ctx context.Context, adjustments []domain.InventoryAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, adj := range adjustments {
		batch.Queue(
			`UPDATE products SET quantity = quantity + $1, sold = sold + $2, updated_at = now() WHERE id = $3`,
			adj.QuantityDelta, adj.SoldDelta, adj.ProductID,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := range adjustments {
		ct, err := results.Exec()
		if err != nil {
			return domain.Partial(err, "product.batch_adjust_inventory",
				fmt.Sprintf("inventory update applied to %d of %d products", i, len(adjustments)))
		}
		if ct.RowsAffected() == 0 {
			return domain.Partial(
				fmt.Errorf("product %s not found", adjustments[i].ProductID),
				"product.batch_adjust_inventory",
				fmt.Sprintf("inventory update applied to %d of %d products", i, len(adjustments)),
			)
		}
	}

	return nil
}

func (s *ProductStore) SetRatings(ctx context.Context, productID string, ratings []domain.Rating, totalRating int) (*domain.Product, error) {
	ratingsJSON, err := json.Marshal(ratingsOrEmpty(ratings))
	if err != nil {
		return nil, fmt.Errorf("marshal ratings: %w", err)
	}

	query := `
		UPDATE products
		SET ratings = $1, total_rating = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + productColumns

	p, err := scanProduct(s.db.QueryRow(ctx, query, ratingsJSON, totalRating, time.Now().UTC(), productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("product.set_ratings", "product", productID)
		}
		return nil, err
	}

	return p, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p           domain.Product
		ratingsJSON []byte
	)

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.Category, &p.Brand,
		&p.Quantity, &p.Sold, &p.Images, &p.Color, &p.Tags, &ratingsJSON,
		&p.TotalRating, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if err := json.Unmarshal(ratingsJSON, &p.Ratings); err != nil {
		return nil, fmt.Errorf("unmarshal ratings: %w", err)
	}

	return &p, nil
}

func ratingsOrEmpty(ratings []domain.Rating) []domain.Rating {
	if ratings == nil {
		return []domain.Rating{}
	}
	return ratings
}

// orderClause maps an API sort key to a safe ORDER BY expression. A leading
// "-" selects descending order; unknown keys fall back to newest first.
func orderClause(sortBy string) string {
	dir := "ASC"
	key := sortBy
	if strings.HasPrefix(key, "-") {
		dir = "DESC"
		key = key[1:]
	}

	columns := map[string]string{
		"title":     "title",
		"price":     "price",
		"category":  "category",
		"brand":     "brand",
		"quantity":  "quantity",
		"sold":      "sold",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}

	col, ok := columns[key]
	if !ok {
		return "created_at DESC"
	}
	return col + " " + dir
}
