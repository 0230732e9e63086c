package httpapi

import (
	"encoding/json"
	"net/http"

	"gigflow-marketplace-service/internal/ports/inbound"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type createGigRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Budget      float64 `json:"budget" validate:"gte=0"`
}

// GigHandlers exposes the gig operations over HTTP
type GigHandlers struct {
	gigService inbound.GigService
	validate   *validator.Validate
	logger     zerolog.Logger
}

type GigHandlersParams struct {
	GigService inbound.GigService
	Validate   *validator.Validate
	Logger     zerolog.Logger
}

func NewGigHandlers(params GigHandlersParams) *GigHandlers {
	return &GigHandlers{
		gigService: params.GigService,
		validate:   params.Validate,
		logger:     params.Logger.With().Str("component", "gig_handlers").Logger(),
	}
}

// CreateGig handles POST /api/gigs
func (h *GigHandlers) CreateGig(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identityFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, NewHttpError("authentication required"))
		return
	}

	var req createGigRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, NewHttpError("error decoding request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, NewHttpError(err.Error()))
		return
	}

	gig, err := h.gigService.CreateGig(r.Context(), inbound.CreateGigRequest{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		OwnerID:     ownerID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, gig)
}

// ListOpenGigs handles GET /api/gigs with an optional search term
func (h *GigHandlers) ListOpenGigs(w http.ResponseWriter, r *http.Request) {
	gigs, err := h.gigService.ListOpenGigs(r.Context(), inbound.ListGigsRequest{
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, gigs)
}

// GetMyGigs handles GET /api/gigs/my-gigs
func (h *GigHandlers) GetMyGigs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identityFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, NewHttpError("authentication required"))
		return
	}

	gigs, err := h.gigService.GetMyGigs(r.Context(), ownerID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, gigs)
}

// GetGig handles GET /api/gigs/{gigId}
func (h *GigHandlers) GetGig(w http.ResponseWriter, r *http.Request) {
	gigID, err := uuid.Parse(chi.URLParam(r, "gigId"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, NewHttpError("invalid gig id format"))
		return
	}

	gig, err := h.gigService.GetGig(r.Context(), gigID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, gig)
}
