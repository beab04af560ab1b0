package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/middleware"
	"github.com/dukerupert/njord/internal/service"
)

// ProductHandler serves catalog endpoints.
type ProductHandler struct {
	products service.ProductService
	logger   *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

type productRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Color       string          `json:"color"`
	Tags        string          `json:"tags"`
	Images      []string        `json:"images"`
}

// Create handles POST /api/v1/product (admin).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.products.Create(r.Context(), &domain.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Quantity:    req.Quantity,
		Color:       req.Color,
		Tags:        req.Tags,
		Images:      req.Images,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, product)
}

// Get handles GET /api/v1/product/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, product)
}

// List handles GET /api/v1/product with filtering, sorting, and pagination
// query parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, products)
}

// Update handles PUT /api/v1/product/{id} (admin).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.products.Update(r.Context(), &domain.Product{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Quantity:    req.Quantity,
		Color:       req.Color,
		Tags:        req.Tags,
		Images:      req.Images,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, product)
}

// Delete handles DELETE /api/v1/product/{id} (admin).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, product)
}

type wishlistRequest struct {
	ProductID string `json:"prodId" validate:"required"`
}

// ToggleWishList handles PUT /api/v1/product/wishlist.
func (h *ProductHandler) ToggleWishList(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	user, err := h.products.ToggleWishList(r.Context(), middleware.GetUserID(r.Context()), req.ProductID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user)
}

type ratingRequest struct {
	ProductID string `json:"prodId" validate:"required"`
	Star      int    `json:"star" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
}

// Rate handles PUT /api/v1/product/rating.
func (h *ProductHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.products.Rate(r.Context(), middleware.GetUserID(r.Context()), req.ProductID, req.Star, req.Comment)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, product)
}

// parseProductFilter builds a ProductFilter from query parameters. Price
// bounds use the price[gte] / price[lte] convention.
func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Color:    q.Get("color"),
		SortBy:   q.Get("sort"),
	}

	if fields := q.Get("fields"); fields != "" {
		filter.Fields = strings.Split(fields, ",")
	}

	if v := q.Get("price[gte]"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, domain.Invalid("product.list", "price[gte] must be a number")
		}
		filter.PriceGTE = &d
	}
	if v := q.Get("price[lte]"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, domain.Invalid("product.list", "price[lte] must be a number")
		}
		filter.PriceLTE = &d
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return filter, domain.Invalid("product.list", "page must be a positive integer")
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return filter, domain.Invalid("product.list", "limit must be a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}
