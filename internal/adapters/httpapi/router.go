package httpapi

import (
	"net/http"

	"gigflow-marketplace-service/internal/ports/inbound"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type RouterParams struct {
	GigService inbound.GigService
	BidService inbound.BidService
	WsHandler  http.HandlerFunc
	Logger     zerolog.Logger
}

// NewRouter assembles the HTTP surface: the REST API, the health check, and
// the WebSocket notification endpoint.
func NewRouter(params RouterParams) chi.Router {
	validate := validator.New()

	gigHandlers := NewGigHandlers(GigHandlersParams{
		GigService: params.GigService,
		Validate:   validate,
		Logger:     params.Logger,
	})
	bidHandlers := NewBidHandlers(BidHandlersParams{
		BidService: params.BidService,
		Validate:   validate,
		Logger:     params.Logger,
	})

	router := chi.NewRouter()

	router.Get("/api/health", handleHealth)

	router.Route("/api/gigs", func(r chi.Router) {
		r.Get("/", gigHandlers.ListOpenGigs)
		r.With(RequireIdentity).Post("/", gigHandlers.CreateGig)
		r.With(RequireIdentity).Get("/my-gigs", gigHandlers.GetMyGigs)
		r.Get("/{gigId}", gigHandlers.GetGig)
	})

	router.Route("/api/bids", func(r chi.Router) {
		r.Use(RequireIdentity)
		r.Post("/", bidHandlers.SubmitBid)
		r.Get("/my-bids", bidHandlers.GetMyBids)
		r.Get("/{gigId}", bidHandlers.GetBidsForGig)
		r.Patch("/{bidId}/hire", bidHandlers.Hire)
	})

	if params.WsHandler != nil {
		router.Get("/ws", params.WsHandler)
	}

	return router
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "OK", "message": "GigFlow API is running"}`))
}
