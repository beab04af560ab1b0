package routes

import (
	"net/http"

	"github.com/dukerupert/njord/internal/auth"
	"github.com/dukerupert/njord/internal/handler/api"
	"github.com/dukerupert/njord/internal/middleware"
)

// APIDeps contains the handlers and middleware dependencies for the JSON API.
type APIDeps struct {
	// Auth and profile
	Users *api.UserHandler

	// Cart and checkout
	Carts *api.CartHandler

	// Catalog
	Products       *api.ProductHandler
	Categories     *api.TermHandler
	Brands         *api.TermHandler
	Colors         *api.TermHandler
	BlogCategories *api.TermHandler

	// Content and marketing
	Coupons   *api.CouponHandler
	Blogs     *api.BlogHandler
	Enquiries *api.EnquiryHandler

	// Image uploads
	Uploads *api.UploadHandler

	// Token validation for protected routes
	Tokens *auth.TokenManager

	// Prometheus registry handler for GET /metrics
	Metrics *middleware.Metrics

	// Health is served at GET /healthz
	Health http.HandlerFunc

	// StoragePath is the local directory served under /uploads
	StoragePath string
}
