package receipt

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/snapsplit/snapsplit/pkg/middleware"
	"github.com/snapsplit/snapsplit/pkg/response"
)

// maxImageSize caps uploaded receipt images at 10MB
const maxImageSize = 10 << 20

// ItemParser extracts line items from a receipt image
type ItemParser interface {
	Parse(ctx context.Context, imageData []byte, mimeType string) ([]ParsedItem, error)
}

// Handler handles HTTP requests for receipt scanning
type Handler struct {
	parser ItemParser
}

// NewHandler creates a new receipt handler
func NewHandler(parser ItemParser) *Handler {
	return &Handler{parser: parser}
}

// Routes returns the router for receipt endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/scan", h.Scan)

	return r
}

// Scan handles POST /receipts/scan
// @Summary      Scan a receipt image
// @Description  Upload a receipt image and get parsed line items back
// @Tags         receipts
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Receipt image (max 10MB)"
// @Success      200 {object} response.APIResponse{data=ScanResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      413 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /receipts/scan [post]
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.PayloadTooLarge(w, "Image too large (max 10MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file upload")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		response.BadRequest(w, "File must be an image")
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded file")
		return
	}

	items, err := h.parser.Parse(r.Context(), imageData, mimeType)
	if err != nil {
		response.UnprocessableEntity(w, "Failed to parse receipt")
		return
	}
	if items == nil {
		items = []ParsedItem{}
	}

	response.JSON(w, http.StatusOK, &ScanResponse{Items: items})
}
