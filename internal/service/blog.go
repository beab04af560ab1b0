package service

import (
	"context"
	"slices"

	"github.com/dukerupert/njord/internal/domain"
)

// BlogService provides blog content business logic.
type BlogService interface {
	Create(ctx context.Context, b *domain.Blog) (*domain.Blog, error)
	// Get returns the blog and bumps its view counter.
	Get(ctx context.Context, id string) (*domain.Blog, error)
	List(ctx context.Context) ([]domain.Blog, error)
	Update(ctx context.Context, b *domain.Blog) (*domain.Blog, error)
	Delete(ctx context.Context, id string) (*domain.Blog, error)

	// Like toggles the user's like; a like always removes any dislike.
	Like(ctx context.Context, blogID, userID string) (*domain.Blog, error)
	// Dislike toggles the user's dislike; a dislike always removes any like.
	Dislike(ctx context.Context, blogID, userID string) (*domain.Blog, error)

	// AttachImages appends uploaded image URLs to the blog post.
	AttachImages(ctx context.Context, blogID string, urls []string) (*domain.Blog, error)
}

type blogService struct {
	blogs domain.BlogStore
}

// NewBlogService creates a new BlogService instance.
func NewBlogService(blogs domain.BlogStore) BlogService {
	return &blogService{blogs: blogs}
}

func (s *blogService) Create(ctx context.Context, b *domain.Blog) (*domain.Blog, error) {
	return s.blogs.Create(ctx, b)
}

func (s *blogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.blogs.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	blog.NumViews++
	return blog, nil
}

func (s *blogService) List(ctx context.Context) ([]domain.Blog, error) {
	return s.blogs.List(ctx)
}

func (s *blogService) Update(ctx context.Context, b *domain.Blog) (*domain.Blog, error) {
	return s.blogs.Update(ctx, b)
}

func (s *blogService) Delete(ctx context.Context, id string) (*domain.Blog, error) {
	return s.blogs.Delete(ctx, id)
}

func (s *blogService) Like(ctx context.Context, blogID, userID string) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	likes := slices.Clone(blog.Likes)
	dislikes := remove(blog.Dislikes, userID)

	if slices.Contains(likes, userID) {
		likes = remove(likes, userID)
		return s.blogs.SetReactions(ctx, blogID, likes, dislikes, false, false)
	}

	likes = append(likes, userID)
	return s.blogs.SetReactions(ctx, blogID, likes, dislikes, true, false)
}

func (s *blogService) Dislike(ctx context.Context, blogID, userID string) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	dislikes := slices.Clone(blog.Dislikes)
	likes := remove(blog.Likes, userID)

	if slices.Contains(dislikes, userID) {
		dislikes = remove(dislikes, userID)
		return s.blogs.SetReactions(ctx, blogID, likes, dislikes, false, false)
	}

	dislikes = append(dislikes, userID)
	return s.blogs.SetReactions(ctx, blogID, likes, dislikes, false, true)
}

func (s *blogService) AttachImages(ctx context.Context, blogID string, urls []string) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	return s.blogs.SetImages(ctx, blogID, append(blog.Images, urls...))
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
