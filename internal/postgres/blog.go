package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/njord/internal/domain"
)

// BlogStore implements domain.BlogStore. Likes, dislikes, and images are
// stored as text arrays.
type BlogStore struct {
	db DBTX
}

// NewBlogStore creates a new PostgreSQL-backed blog store.
func NewBlogStore(db DBTX) *BlogStore {
	return &BlogStore{db: db}
}

const blogColumns = `id, title, description, category, num_views, is_liked, is_disliked, likes, dislikes, images, author, created_at, updated_at`

func (s *BlogStore) Create(ctx context.Context, b *domain.Blog) (*domain.Blog, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	query := `
		INSERT INTO blogs (id, title, description, category, num_views, is_liked, is_disliked, likes, dislikes, images, author, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		b.ID, b.Title, b.Description, b.Category, b.NumViews, b.IsLiked, b.IsDisliked,
		idsOrEmpty(b.Likes), idsOrEmpty(b.Dislikes), idsOrEmpty(b.Images), b.Author,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert blog: %w", err)
	}

	return b, nil
}

func (s *BlogStore) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	b, err := scanBlog(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("blog.get", "blog", id)
		}
		return nil, err
	}

	return b, nil
}

func (s *BlogStore) List(ctx context.Context) ([]domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]domain.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blog rows: %w", err)
	}

	return blogs, nil
}

func (s *BlogStore) Update(ctx context.Context, b *domain.Blog) (*domain.Blog, error) {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, category = $3, author = $4, updated_at = $5
		WHERE id = $6
		RETURNING num_views, is_liked, is_disliked, likes, dislikes, images, created_at, updated_at`

	err := s.db.QueryRow(ctx, query, b.Title, b.Description, b.Category, b.Author, time.Now().UTC(), b.ID).
		Scan(&b.NumViews, &b.IsLiked, &b.IsDisliked, &b.Likes, &b.Dislikes, &b.Images, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("blog.update", "blog", b.ID)
		}
		return nil, fmt.Errorf("update blog: %w", err)
	}

	return b, nil
}

func (s *BlogStore) Delete(ctx context.Context, id string) (*domain.Blog, error) {
	query := `DELETE FROM blogs WHERE id = $1 RETURNING ` + blogColumns

	b, err := scanBlog(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("blog.delete", "blog", id)
		}
		return nil, err
	}

	return b, nil
}

// IncrementViews bumps the counter only; updated_at is untouched so reading
// a post does not look like an edit.
func (s *BlogStore) IncrementViews(ctx context.Context, id string) error {
	ct, err := s.db.Exec(ctx, `UPDATE blogs SET num_views = num_views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment blog views: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFound("blog.increment_views", "blog", id)
	}

	return nil
}

func (s *BlogStore) SetReactions(ctx context.Context, id string, likes, dislikes []string, isLiked, isDisliked bool) (*domain.Blog, error) {
	query := `
		UPDATE blogs
		SET likes = $1, dislikes = $2, is_liked = $3, is_disliked = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + blogColumns

	b, err := scanBlog(s.db.QueryRow(ctx, query,
		idsOrEmpty(likes), idsOrEmpty(dislikes), isLiked, isDisliked, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("blog.set_reactions", "blog", id)
		}
		return nil, err
	}

	return b, nil
}

func (s *BlogStore) SetImages(ctx context.Context, id string, images []string) (*domain.Blog, error) {
	query := `
		UPDATE blogs
		SET images = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + blogColumns

	b, err := scanBlog(s.db.QueryRow(ctx, query, idsOrEmpty(images), time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("blog.set_images", "blog", id)
		}
		return nil, err
	}

	return b, nil
}

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var b domain.Blog

	err := row.Scan(
		&b.ID, &b.Title, &b.Description, &b.Category, &b.NumViews,
		&b.IsLiked, &b.IsDisliked, &b.Likes, &b.Dislikes, &b.Images,
		&b.Author, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan blog: %w", err)
	}

	return &b, nil
}

func idsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
