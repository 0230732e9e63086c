package app

import (
	"context"
	"math"
	"time"

	"gigflow-marketplace-service/internal/domain/bid"
	"gigflow-marketplace-service/internal/domain/shared"
	"gigflow-marketplace-service/internal/ports/inbound"
	"gigflow-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BidService implements the bid use cases: admission of new bids, the hire
// transition, and the bid read-side projections
type BidService struct {
	bidRepo  outbound.BidRepository
	gigRepo  outbound.GigRepository
	userRepo outbound.UserRepository
	notifier outbound.Notifier
	logger   zerolog.Logger
}

type BidServiceParams struct {
	BidRepo  outbound.BidRepository
	GigRepo  outbound.GigRepository
	UserRepo outbound.UserRepository
	Notifier outbound.Notifier
	Logger   zerolog.Logger
}

// NewBidService creates a new bid service
func NewBidService(params BidServiceParams) *BidService {
	return &BidService{
		bidRepo:  params.BidRepo,
		gigRepo:  params.GigRepo,
		userRepo: params.UserRepo,
		notifier: params.Notifier,
		logger:   params.Logger.With().Str("component", "bid_service").Logger(),
	}
}

// SubmitBid validates and persists a new pending bid on an open gig.
// Preconditions are checked in order: input shape, gig existence, gig still
// open, no self-bid, no duplicate bid. The duplicate pre-check only buys a
// friendly error without burning an insert; the (gig_id, freelancer_id)
// uniqueness constraint in storage is the authoritative defense, so a race
// loser still gets shared.ErrDuplicateBid from Create.
func (service *BidService) SubmitBid(ctx context.Context, req inbound.SubmitBidRequest) (*inbound.BidView, error) {
	service.logger.Info().
		Str("gig_id", req.GigID.String()).
		Str("freelancer_id", req.FreelancerID.String()).
		Float64("price", req.Price).
		Msg("Attempting to submit bid")

	if req.Message == "" {
		service.logger.Warn().Str("gig_id", req.GigID.String()).Msg("Bid message is empty")
		return nil, shared.ErrInvalidMessage
	}

	if req.Price < 0 || math.IsInf(req.Price, 0) || math.IsNaN(req.Price) {
		service.logger.Warn().Float64("price", req.Price).Msg("Invalid bid price")
		return nil, shared.ErrInvalidPrice
	}

	gig, err := service.gigRepo.GetByID(ctx, req.GigID)
	if err != nil {
		service.logger.Error().Err(err).Str("gig_id", req.GigID.String()).Msg("Gig not found")
		return nil, err
	}

	if !gig.IsOpen() {
		service.logger.Warn().Str("gig_id", gig.ID.String()).Msg("Gig not accepting bids")
		return nil, shared.ErrGigClosed
	}

	if gig.IsOwnedBy(req.FreelancerID) {
		service.logger.Warn().
			Str("gig_id", gig.ID.String()).
			Str("freelancer_id", req.FreelancerID.String()).
			Msg("Owner attempted to bid on own gig")
		return nil, shared.ErrSelfBidForbidden
	}

	exists, err := service.bidRepo.ExistsForGigAndFreelancer(ctx, req.GigID, req.FreelancerID)
	if err != nil {
		service.logger.Error().Err(err).Str("gig_id", req.GigID.String()).Msg("Failed to check for existing bid")
		return nil, err
	}
	if exists {
		service.logger.Warn().
			Str("gig_id", req.GigID.String()).
			Str("freelancer_id", req.FreelancerID.String()).
			Msg("Freelancer already bid on this gig")
		return nil, shared.ErrDuplicateBid
	}

	now := time.Now()
	newBid := &bid.Bid{
		ID:           uuid.New(),
		GigID:        req.GigID,
		FreelancerID: req.FreelancerID,
		Message:      req.Message,
		Price:        req.Price,
		Status:       bid.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.bidRepo.Create(ctx, newBid); err != nil {
		service.logger.Error().Err(err).Str("bid_id", newBid.ID.String()).Msg("Failed to persist bid")
		return nil, err
	}

	service.logger.Info().
		Str("bid_id", newBid.ID.String()).
		Str("gig_id", newBid.GigID.String()).
		Msg("Bid submitted successfully")

	view := &inbound.BidView{Bid: *newBid, GigTitle: gig.Title}
	if freelancer, err := service.userRepo.GetByID(ctx, newBid.FreelancerID); err != nil {
		service.logger.Warn().Err(err).Str("freelancer_id", newBid.FreelancerID.String()).Msg("Failed to project freelancer on bid")
	} else {
		view.Freelancer = freelancer
	}

	return view, nil
}

// Hire executes the hire transition: exactly one bid becomes hired, its gig
// becomes assigned, and every sibling bid still pending becomes rejected, as
// one atomic unit. The repository owns the read-validate-write sequence under
// lock. Once the commit lands the hire is a success: the notification fires
// from the committed state, and a failed post-commit re-read degrades the
// response to a projection of the commit instead of reporting failure.
func (service *BidService) Hire(ctx context.Context, req inbound.HireRequest) (*inbound.HireResult, error) {
	service.logger.Info().
		Str("bid_id", req.BidID.String()).
		Str("requester_id", req.RequesterID.String()).
		Msg("Attempting to hire")

	commit, err := service.bidRepo.Hire(ctx, req.BidID, req.RequesterID)
	if err != nil {
		service.logger.Warn().Err(err).Str("bid_id", req.BidID.String()).Msg("Hire transition rejected")
		return nil, err
	}

	service.logger.Info().
		Str("bid_id", commit.HiredBid.ID.String()).
		Str("gig_id", commit.Gig.ID.String()).
		Str("freelancer_id", commit.HiredBid.FreelancerID.String()).
		Msg("Hire committed")

	service.notifyHired(ctx, commit)

	// Re-read the full bid set so the caller observes the committed terminal
	// statuses rather than whatever this request saw mid-flight.
	allBids, err := service.bidRepo.GetByGigID(ctx, commit.Gig.ID)
	if err != nil {
		service.logger.Error().Err(err).Str("gig_id", commit.Gig.ID.String()).Msg("Failed to read bids after hire commit")
		views := service.projectBids(ctx, []*bid.Bid{commit.HiredBid}, commit.Gig.Title)
		return &inbound.HireResult{Bid: views[0], AllBids: views}, nil
	}

	views := service.projectBids(ctx, allBids, commit.Gig.Title)

	var hiredView *inbound.BidView
	for _, view := range views {
		if view.ID == commit.HiredBid.ID {
			hiredView = view
			break
		}
	}

	return &inbound.HireResult{Bid: hiredView, AllBids: views}, nil
}

// GetBidsForGig retrieves all bids on a gig; only its owner may look
func (service *BidService) GetBidsForGig(ctx context.Context, gigID, requesterID uuid.UUID) ([]*inbound.BidView, error) {
	gig, err := service.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if !gig.IsOwnedBy(requesterID) {
		service.logger.Warn().
			Str("gig_id", gigID.String()).
			Str("requester_id", requesterID.String()).
			Msg("Non-owner requested bids for gig")
		return nil, shared.ErrForbidden
	}

	bids, err := service.bidRepo.GetByGigID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	return service.projectBids(ctx, bids, gig.Title), nil
}

// GetMyBids retrieves all bids submitted by a freelancer, newest first
func (service *BidService) GetMyBids(ctx context.Context, freelancerID uuid.UUID) ([]*inbound.BidView, error) {
	bids, err := service.bidRepo.GetByFreelancerID(ctx, freelancerID)
	if err != nil {
		return nil, err
	}

	views := make([]*inbound.BidView, 0, len(bids))
	titles := make(map[uuid.UUID]string)
	var freelancer *shared.User
	if len(bids) > 0 {
		if user, err := service.userRepo.GetByID(ctx, freelancerID); err == nil {
			freelancer = user
		}
	}

	for _, b := range bids {
		title, ok := titles[b.GigID]
		if !ok {
			if gig, err := service.gigRepo.GetByID(ctx, b.GigID); err == nil {
				title = gig.Title
			}
			titles[b.GigID] = title
		}
		views = append(views, &inbound.BidView{Bid: *b, Freelancer: freelancer, GigTitle: title})
	}

	return views, nil
}

// projectBids assembles display projections for a gig's bids by explicit
// freelancer lookups, one per distinct freelancer
func (service *BidService) projectBids(ctx context.Context, bids []*bid.Bid, gigTitle string) []*inbound.BidView {
	views := make([]*inbound.BidView, 0, len(bids))
	users := make(map[uuid.UUID]*shared.User)

	for _, b := range bids {
		freelancer, ok := users[b.FreelancerID]
		if !ok {
			user, err := service.userRepo.GetByID(ctx, b.FreelancerID)
			if err != nil {
				service.logger.Warn().Err(err).Str("freelancer_id", b.FreelancerID.String()).Msg("Failed to project freelancer on bid")
			} else {
				freelancer = user
			}
			users[b.FreelancerID] = freelancer
		}
		views = append(views, &inbound.BidView{Bid: *b, Freelancer: freelancer, GigTitle: gigTitle})
	}

	return views
}

// notifyHired publishes the hired event to the freelancer's channel using the
// committed bid and gig. Dispatch failure is logged and swallowed: the hire
// succeeded the moment the commit landed.
func (service *BidService) notifyHired(ctx context.Context, commit *outbound.HireCommit) {
	if service.notifier == nil {
		return
	}

	event := outbound.Event{
		Type:   outbound.EventTypeHired,
		UserID: commit.HiredBid.FreelancerID,
		Data: map[string]interface{}{
			"message": "You have been hired for " + commit.Gig.Title + "!",
			"gig": map[string]interface{}{
				"id":    commit.Gig.ID,
				"title": commit.Gig.Title,
			},
			"bid": map[string]interface{}{
				"id": commit.HiredBid.ID,
			},
		},
		Timestamp: time.Now().Unix(),
	}

	if err := service.notifier.Publish(ctx, commit.HiredBid.FreelancerID, event); err != nil {
		service.logger.Error().
			Err(err).
			Str("bid_id", commit.HiredBid.ID.String()).
			Str("freelancer_id", commit.HiredBid.FreelancerID.String()).
			Msg("Failed to publish hired notification")
		return
	}

	service.logger.Info().
		Str("bid_id", commit.HiredBid.ID.String()).
		Str("freelancer_id", commit.HiredBid.FreelancerID.String()).
		Msg("Hired notification published")
}
