package app

import (
	"context"
	"math"
	"time"

	"gigflow-marketplace-service/internal/domain/gig"
	"gigflow-marketplace-service/internal/domain/shared"
	"gigflow-marketplace-service/internal/ports/inbound"
	"gigflow-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GigService implements the gig use cases. Gigs are created open and only the
// hire transition ever mutates their status.
type GigService struct {
	gigRepo  outbound.GigRepository
	userRepo outbound.UserRepository
	logger   zerolog.Logger
}

type GigServiceParams struct {
	GigRepo  outbound.GigRepository
	UserRepo outbound.UserRepository
	Logger   zerolog.Logger
}

// NewGigService creates a new gig service
func NewGigService(params GigServiceParams) *GigService {
	return &GigService{
		gigRepo:  params.GigRepo,
		userRepo: params.UserRepo,
		logger:   params.Logger.With().Str("component", "gig_service").Logger(),
	}
}

// CreateGig creates a new open gig
func (service *GigService) CreateGig(ctx context.Context, req inbound.CreateGigRequest) (*gig.Gig, error) {
	service.logger.Info().
		Str("owner_id", req.OwnerID.String()).
		Str("title", req.Title).
		Float64("budget", req.Budget).
		Msg("Attempting to create gig")

	if req.Title == "" {
		return nil, shared.ErrInvalidTitle
	}
	if req.Description == "" {
		return nil, shared.ErrInvalidDescription
	}
	if req.Budget < 0 || math.IsInf(req.Budget, 0) || math.IsNaN(req.Budget) {
		return nil, shared.ErrInvalidBudget
	}

	owner, err := service.userRepo.GetByID(ctx, req.OwnerID)
	if err != nil {
		service.logger.Error().Err(err).Str("owner_id", req.OwnerID.String()).Msg("Owner not found")
		return nil, shared.ErrUserNotFound
	}

	now := time.Now()
	newGig := &gig.Gig{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		OwnerID:     owner.ID,
		Status:      gig.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.gigRepo.Create(ctx, newGig); err != nil {
		service.logger.Error().Err(err).Str("gig_id", newGig.ID.String()).Msg("Failed to save gig")
		return nil, err
	}

	service.logger.Info().Str("gig_id", newGig.ID.String()).Msg("Gig created successfully")
	return newGig, nil
}

// GetGig retrieves a gig by ID
func (service *GigService) GetGig(ctx context.Context, gigID uuid.UUID) (*gig.Gig, error) {
	return service.gigRepo.GetByID(ctx, gigID)
}

// ListOpenGigs retrieves open gigs, optionally filtered by a search term
func (service *GigService) ListOpenGigs(ctx context.Context, req inbound.ListGigsRequest) ([]*gig.Gig, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	return service.gigRepo.ListOpen(ctx, req.Search, req.Page, req.PageSize)
}

// GetMyGigs retrieves all gigs owned by a user, open and assigned
func (service *GigService) GetMyGigs(ctx context.Context, ownerID uuid.UUID) ([]*gig.Gig, error) {
	return service.gigRepo.GetByOwnerID(ctx, ownerID)
}
