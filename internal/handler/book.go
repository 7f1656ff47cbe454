package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/handler/dto"
	"github.com/shelfmark/shelfmark/internal/service"
)

// BookHandler handles the per-user book endpoints.
type BookHandler struct {
	svc    *service.BookService
	logger *slog.Logger
	isDev  bool
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.BookService, logger *slog.Logger, isDev bool) *BookHandler {
	return &BookHandler{
		svc:    svc,
		logger: logger,
		isDev:  isDev,
	}
}

// List handles GET /books. Returns the caller's books, newest first;
// an empty shelf encodes as an empty array.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or missing authentication token"})
		return
	}

	books, err := h.svc.ListBooks(r.Context(), identity.UserID)
	if err != nil {
		h.writeInternalError(w, err, "Server error while fetching books")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBookListResponse(books))
}

// Create handles POST /books. Ownership is taken from the gate-resolved
// identity, never from the request body.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or missing authentication token"})
		return
	}

	var req dto.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	book, err := h.svc.CreateBook(r.Context(), identity.UserID, req.Title, req.Author)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Message: "Validation failed",
				Errors:  ve.Fields,
			})
			return
		}
		h.writeInternalError(w, err, "Server error while adding book")
		return
	}

	h.logger.Info("book_created",
		"book_id", book.ID,
		"user_id", identity.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToBookResponse(book))
}

func (h *BookHandler) writeInternalError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error("internal_error", "error", err)

	resp := dto.ErrorResponse{Message: msg}
	if h.isDev {
		resp.Detail = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}
