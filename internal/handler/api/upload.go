package api

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/service"
	"github.com/dukerupert/njord/internal/storage"
)

// maxUploadSize bounds a single multipart upload request.
const maxUploadSize = 10 << 20 // 10 MiB

// UploadHandler stores uploaded images and attaches their URLs to products
// or blog posts.
type UploadHandler struct {
	files    storage.Storage
	products service.ProductService
	blogs    service.BlogService
	logger   *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(files storage.Storage, products service.ProductService, blogs service.BlogService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{files: files, products: products, blogs: blogs, logger: logger}
}

// UploadProductImages handles PUT /api/v1/product/upload/{id} (admin).
func (h *UploadHandler) UploadProductImages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	urls, err := h.storeImages(r, "products/"+id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.products.AttachImages(r.Context(), id, urls)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, product)
}

// UploadBlogImages handles PUT /api/v1/blog/upload/{id} (admin).
func (h *UploadHandler) UploadBlogImages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	urls, err := h.storeImages(r, "blogs/"+id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	blog, err := h.blogs.AttachImages(r.Context(), id, urls)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, blog)
}

// storeImages parses the multipart form and writes every "images" part to
// storage, returning the public URLs.
func (h *UploadHandler) storeImages(r *http.Request, prefix string) ([]string, error) {
	const op = "upload.store_images"

	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, domain.Invalid(op, "request must be multipart form data within the size limit")
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		return nil, domain.Invalid(op, "at least one image must be provided")
	}

	urls := make([]string, 0, len(files))
	for _, header := range files {
		url, err := h.storeOne(r, prefix, header)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	return urls, nil
}

func (h *UploadHandler) storeOne(r *http.Request, prefix string, header *multipart.FileHeader) (string, error) {
	const op = "upload.store_one"

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return "", domain.Invalid(op, fmt.Sprintf("unsupported image type %q", ext))
	}

	file, err := header.Open()
	if err != nil {
		return "", domain.Internal(err, op, "failed to read uploaded file")
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
	url, err := h.files.Put(r.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		return "", domain.Internal(err, op, "failed to store uploaded file")
	}

	return url, nil
}
