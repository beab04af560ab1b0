package routes

import (
	"github.com/dukerupert/njord/internal/handler/api"
	"github.com/dukerupert/njord/internal/middleware"
	"github.com/dukerupert/njord/internal/router"
)

// RegisterAPIRoutes registers every /api/v1 endpoint plus the system routes
// (/healthz, /metrics, /uploads). Auth endpoints carry a stricter rate limit
// than the global one.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	requireAuth := router.Middleware(middleware.RequireAuth(deps.Tokens))
	requireAdmin := router.Middleware(middleware.RequireAdmin)
	strict := router.Middleware(middleware.RateLimit(middleware.StrictRateLimiterConfig()))

	// System
	r.Get("/healthz", deps.Health)
	r.Handle("GET", "/metrics", deps.Metrics.Handler())
	r.Static("/uploads", deps.StoragePath)

	// Auth
	r.Post("/api/v1/user/register", deps.Users.Register, strict)
	r.Post("/api/v1/user/login", deps.Users.Login, strict)
	r.Post("/api/v1/user/admin-login", deps.Users.AdminLogin, strict)
	r.Get("/api/v1/user/refresh", deps.Users.Refresh)
	r.Get("/api/v1/user/logout", deps.Users.Logout)
	r.Post("/api/v1/user/forgot-password", deps.Users.ForgotPassword, strict)
	r.Put("/api/v1/user/reset-password/{token}", deps.Users.ResetPassword, strict)

	// Profile
	r.Put("/api/v1/user/password", deps.Users.UpdatePassword, requireAuth)
	r.Put("/api/v1/user/edit-user", deps.Users.Update, requireAuth)
	r.Put("/api/v1/user/address", deps.Users.SaveAddress, requireAuth)
	r.Get("/api/v1/user/wishlist", deps.Users.WishList, requireAuth)

	// Cart and checkout
	r.Post("/api/v1/user/cart", deps.Carts.BuildCart, requireAuth)
	r.Get("/api/v1/user/cart", deps.Carts.GetCart, requireAuth)
	r.Delete("/api/v1/user/empty-cart", deps.Carts.EmptyCart, requireAuth)
	r.Post("/api/v1/user/cart/applycoupon", deps.Carts.ApplyCoupon, requireAuth)
	r.Post("/api/v1/user/cart/cash-order", deps.Carts.CreateCashOrder, requireAuth)
	r.Get("/api/v1/user/get-orders", deps.Carts.GetOrders, requireAuth)

	// User administration
	r.Get("/api/v1/user/all-users", deps.Users.List, requireAuth, requireAdmin)
	r.Get("/api/v1/user/getorderbyuser/{id}", deps.Carts.GetOrdersByUser, requireAuth, requireAdmin)
	r.Put("/api/v1/user/order/update-order/{id}", deps.Carts.UpdateOrderStatus, requireAuth, requireAdmin)
	r.Put("/api/v1/user/block-user/{id}", deps.Users.Block, requireAuth, requireAdmin)
	r.Put("/api/v1/user/unblock-user/{id}", deps.Users.Unblock, requireAuth, requireAdmin)
	r.Get("/api/v1/user/{id}", deps.Users.Get, requireAuth, requireAdmin)
	r.Delete("/api/v1/user/{id}", deps.Users.Delete, requireAuth, requireAdmin)

	// Products
	r.Get("/api/v1/product", deps.Products.List)
	r.Get("/api/v1/product/{id}", deps.Products.Get)
	r.Post("/api/v1/product", deps.Products.Create, requireAuth, requireAdmin)
	r.Put("/api/v1/product/wishlist", deps.Products.ToggleWishList, requireAuth)
	r.Put("/api/v1/product/rating", deps.Products.Rate, requireAuth)
	r.Put("/api/v1/product/upload/{id}", deps.Uploads.UploadProductImages, requireAuth, requireAdmin)
	r.Put("/api/v1/product/{id}", deps.Products.Update, requireAuth, requireAdmin)
	r.Delete("/api/v1/product/{id}", deps.Products.Delete, requireAuth, requireAdmin)

	// Taxonomies
	registerTaxonomy(r, "/api/v1/category", deps.Categories, requireAuth, requireAdmin)
	registerTaxonomy(r, "/api/v1/brand", deps.Brands, requireAuth, requireAdmin)
	registerTaxonomy(r, "/api/v1/color", deps.Colors, requireAuth, requireAdmin)
	registerTaxonomy(r, "/api/v1/blogcategory", deps.BlogCategories, requireAuth, requireAdmin)

	// Coupons
	r.Post("/api/v1/coupon", deps.Coupons.Create, requireAuth, requireAdmin)
	r.Get("/api/v1/coupon", deps.Coupons.List, requireAuth, requireAdmin)
	r.Get("/api/v1/coupon/{id}", deps.Coupons.Get, requireAuth, requireAdmin)
	r.Put("/api/v1/coupon/{id}", deps.Coupons.Update, requireAuth, requireAdmin)
	r.Delete("/api/v1/coupon/{id}", deps.Coupons.Delete, requireAuth, requireAdmin)

	// Blog
	r.Get("/api/v1/blog", deps.Blogs.List)
	r.Post("/api/v1/blog", deps.Blogs.Create, requireAuth, requireAdmin)
	r.Put("/api/v1/blog/likes", deps.Blogs.Like, requireAuth)
	r.Put("/api/v1/blog/dislikes", deps.Blogs.Dislike, requireAuth)
	r.Put("/api/v1/blog/upload/{id}", deps.Uploads.UploadBlogImages, requireAuth, requireAdmin)
	r.Get("/api/v1/blog/{id}", deps.Blogs.Get)
	r.Put("/api/v1/blog/{id}", deps.Blogs.Update, requireAuth, requireAdmin)
	r.Delete("/api/v1/blog/{id}", deps.Blogs.Delete, requireAuth, requireAdmin)

	// Enquiries
	r.Post("/api/v1/enquiry", deps.Enquiries.Create)
	r.Get("/api/v1/enquiry", deps.Enquiries.List, requireAuth, requireAdmin)
	r.Get("/api/v1/enquiry/{id}", deps.Enquiries.Get, requireAuth, requireAdmin)
	r.Put("/api/v1/enquiry/{id}", deps.Enquiries.Update, requireAuth, requireAdmin)
	r.Delete("/api/v1/enquiry/{id}", deps.Enquiries.Delete, requireAuth, requireAdmin)
}

// registerTaxonomy wires the shared CRUD surface for one taxonomy kind.
// Reads are public; writes are admin-only.
func registerTaxonomy(r *router.Router, base string, h *api.TermHandler, requireAuth, requireAdmin router.Middleware) {
	r.Get(base, h.List)
	r.Get(base+"/{id}", h.Get)
	r.Post(base, h.Create, requireAuth, requireAdmin)
	r.Put(base+"/{id}", h.Update, requireAuth, requireAdmin)
	r.Delete(base+"/{id}", h.Delete, requireAuth, requireAdmin)
}
