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

type submitBidRequest struct {
	GigID   string  `json:"gig_id" validate:"required,uuid"`
	Message string  `json:"message" validate:"required"`
	Price   float64 `json:"price" validate:"gte=0"`
}

// BidHandlers exposes the bid operations over HTTP
type BidHandlers struct {
	bidService inbound.BidService
	validate   *validator.Validate
	logger     zerolog.Logger
}

type BidHandlersParams struct {
	BidService inbound.BidService
	Validate   *validator.Validate
	Logger     zerolog.Logger
}

func NewBidHandlers(params BidHandlersParams) *BidHandlers {
	return &BidHandlers{
		bidService: params.BidService,
		validate:   params.Validate,
		logger:     params.Logger.With().Str("component", "bid_handlers").Logger(),
	}
}

// SubmitBid handles POST /api/bids
func (h *BidHandlers) SubmitBid(w http.ResponseWriter, r *http.Request) {
	freelancerID, ok := identityFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, NewHttpError("authentication required"))
		return
	}

	var req submitBidRequest
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

	gigID, err := uuid.Parse(req.GigID)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, NewHttpError("invalid gig_id format"))
		return
	}

	view, err := h.bidService.SubmitBid(r.Context(), inbound.SubmitBidRequest{
		GigID:        gigID,
		FreelancerID: freelancerID,
		Message:      req.Message,
		Price:        req.Price,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}

// Hire handles PATCH /api/bids/{bidId}/hire. No body: the bid identifier and
// the caller identity carry everything the transition needs.
func (h *BidHandlers) Hire(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := identityFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, NewHttpError("authentication required"))
		return
	}

	bidID, err := uuid.Parse(chi.URLParam(r, "bidId"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, NewHttpError("invalid bid id format"))
		return
	}

	result, err := h.bidService.Hire(r.Context(), inbound.HireRequest{
		BidID:       bidID,
		RequesterID: requesterID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"message": "Freelancer hired successfully",
		"bid":     result.Bid,
		"allBids": result.AllBids,
	})
}

// GetMyBids handles GET /api/bids/my-bids
func (h *BidHandlers) GetMyBids(w http.ResponseWriter, r *http.Request) {
	freelancerID, ok := identityFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, NewHttpError("authentication required"))
		return
	}

	views, err := h.bidService.GetMyBids(r.Context(), freelancerID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, views)
}

// GetBidsForGig handles GET /api/bids/{gigId}; gig owner only
func (h *BidHandlers) GetBidsForGig(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := identityFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, NewHttpError("authentication required"))
		return
	}

	gigID, err := uuid.Parse(chi.URLParam(r, "gigId"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, NewHttpError("invalid gig id format"))
		return
	}

	views, err := h.bidService.GetBidsForGig(r.Context(), gigID, requesterID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, views)
}
