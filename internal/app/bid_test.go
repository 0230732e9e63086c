package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"gigflow-marketplace-service/internal/domain/bid"
	"gigflow-marketplace-service/internal/domain/gig"
	"gigflow-marketplace-service/internal/domain/shared"
	"gigflow-marketplace-service/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type testEnv struct {
	store    *memStore
	notifier *fakeNotifier
	gigSvc   *GigService
	bidSvc   *BidService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	notif := &fakeNotifier{}
	logger := zerolog.Nop()

	gigSvc := NewGigService(GigServiceParams{
		GigRepo:  &memGigRepo{store: store},
		UserRepo: &memUserRepo{store: store},
		Logger:   logger,
	})
	bidSvc := NewBidService(BidServiceParams{
		BidRepo:  &memBidRepo{store: store},
		GigRepo:  &memGigRepo{store: store},
		UserRepo: &memUserRepo{store: store},
		Notifier: notif,
		Logger:   logger,
	})

	return &testEnv{store: store, notifier: notif, gigSvc: gigSvc, bidSvc: bidSvc}
}

func (e *testEnv) seedUser(t *testing.T, name string) uuid.UUID {
	t.Helper()
	user := &shared.User{ID: uuid.New(), Name: name, Email: name + "@example.com"}
	if err := (&memUserRepo{store: e.store}).Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func (e *testEnv) seedGig(t *testing.T, ownerID uuid.UUID, title string) *gig.Gig {
	t.Helper()
	created, err := e.gigSvc.CreateGig(context.Background(), inbound.CreateGigRequest{
		Title:       title,
		Description: "Build the thing described in " + title,
		Budget:      500,
		OwnerID:     ownerID,
	})
	if err != nil {
		t.Fatalf("seed gig: %v", err)
	}
	return created
}

func (e *testEnv) seedBid(t *testing.T, gigID, freelancerID uuid.UUID, price float64) *inbound.BidView {
	t.Helper()
	view, err := e.bidSvc.SubmitBid(context.Background(), inbound.SubmitBidRequest{
		GigID:        gigID,
		FreelancerID: freelancerID,
		Message:      "I can do this",
		Price:        price,
	})
	if err != nil {
		t.Fatalf("seed bid: %v", err)
	}
	return view
}

func TestSubmitBidCreatesPendingBid(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser(t, "client")
	freelancer := env.seedUser(t, "dev")
	g := env.seedGig(t, owner, "Logo design")

	view, err := env.bidSvc.SubmitBid(context.Background(), inbound.SubmitBidRequest{
		GigID:        g.ID,
		FreelancerID: freelancer,
		Message:      "Portfolio attached",
		Price:        120,
	})
	if err != nil {
		t.Fatalf("SubmitBid returned error: %v", err)
	}

	if view.Status != bid.StatusPending {
		t.Errorf("new bid status = %q, want %q", view.Status, bid.StatusPending)
	}
	if view.GigTitle != "Logo design" {
		t.Errorf("projected gig title = %q, want %q", view.GigTitle, "Logo design")
	}
	if view.Freelancer == nil || view.Freelancer.ID != freelancer {
		t.Errorf("projected freelancer = %+v, want user %s", view.Freelancer, freelancer)
	}

	stored, err := env.bidSvc.bidRepo.GetByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("stored bid not found: %v", err)
	}
	if stored.Status != bid.StatusPending {
		t.Errorf("stored bid status = %q, want %q", stored.Status, bid.StatusPending)
	}
}

func TestSubmitBidRejectsEmptyMessage(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser(t, "client")
	freelancer := env.seedUser(t, "dev")
	g := env.seedGig(t, owner, "Logo design")

	_, err := env.bidSvc.SubmitBid(context.Background(), inbound.SubmitBidRequest{
		GigID:        g.ID,
		FreelancerID: freelancer,
		Price:        50,
	})
	if !errors.Is(err, shared.ErrInvalidMessage) {
		t.Errorf("err = %v, want %v", err, shared.ErrInvalidMessage)
	}
}

func TestSubmitBidRejectsInvalidPrice(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser(t, "client")
	freelancer := env.seedUser(t, "dev")
	g := env.seedGig(t, owner, "Logo design")

	for _, price := range []float64{-1, math.Inf(1), math.NaN()} {
		_, err := env.bidSvc.SubmitBid(context.Background(), inbound.SubmitBidRequest{
			GigID:        g.ID,
			FreelancerID: freelancer,
			Message:      "cheap",
			Price:        price,
		})
		if !errors.Is(err, shared.ErrInvalidPrice) {
			t.Errorf("price %v: err = %v, want %v", price, err, shared.ErrInvalidPrice)
		}
	}
}

func TestSubmitBidUnknownGig(t *testing.T) {
	env := newTestEnv()
	freelancer := env.seedUser(t, "dev")

	_, err := env.bidSvc.SubmitBid(context.Background(), inbound.SubmitBidRequest{
		GigID:        uuid.New(),
		FreelancerID: freelancer,
		Message:      "hello",
		Price:        10,
	})
	if !errors.Is(err, shared.ErrGigNotFound) {
		t.Errorf("err = %v, want %v", err, shared.ErrGigNotFound)
	}
}

func TestSubmitBidRejectsClosedGig(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser(t, "client")
	first := env.seedUser(t, "dev1")
	second := env.seedUser(t, "dev2")
	g := env.seedGig(t, owner, "API integration")
	hired := env.seedBid(t, g.ID, first, 200)

	if _, err := env.bidSvc.Hire(context.Background(), inbound.HireRequest{BidID: hired.ID, RequesterID: owner}); err != nil {
		t.Fatalf("hire: %v", err)
	}

	_, err := env.bidSvc.SubmitBid(context.Background(), inbound.SubmitBidRequest{
		GigID:        g.ID,
		FreelancerID: second,
		Message:      "too late",
		Price:        150,
	})
	if !errors.Is(err, shared.ErrGigClosed) {
		t.Errorf("err = %v, want %v", err, shared.ErrGigClosed)
	}
}

func TestSubmitBidRejectsOwnGig(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser(t, "client")
	g := env.seedGig(t, owner, "Logo design")

	_, err := env.bidSvc.SubmitBid(context.Background(), inbound.SubmitBidRequest{
		GigID:        g.ID,
		FreelancerID: owner,
		Message:      "I will do my own gig",
		Price:        1,
	})
	if !errors.Is(err, shared.ErrSelfBidForbidden) {
		t.Errorf("err = %v, want %v", err, shared.ErrSelfBidForbidden)
	}
}

func TestSubmitBidRejectsDuplicate(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser(t, "client")
	freelancer := env.seedUser(t, "dev")
	g := env.seedGig(t, owner, "Logo design")
	env.seedBid(t, g.ID, freelancer, 100)

	_, err := env.bidSvc.SubmitBid(context.Background(), inbound.SubmitBidRequest{
		GigID:        g.ID,
		FreelancerID: freelancer,
		Message:      "second try",
		Price:        90,
	})
	if !errors.Is(err, shared.ErrDuplicateBid) {
		t.Errorf("err = %v, want %v", err, shared.ErrDuplicateBid)
	}

	bids, err := env.bidSvc.GetBidsForGig(context.Background(), g.ID, owner)
	if err != nil {
		t.Fatalf("GetBidsForGig: %v", err)
	}
	if len(bids) != 1 {
		t.Errorf("bid count after duplicate attempt = %d, want 1", len(bids))
	}
}

func TestGetBidsForGigOwnerOnly(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser(t, "client")
	freelancer := env.seedUser(t, "dev")
	g := env.seedGig(t, owner, "Logo design")
	env.seedBid(t, g.ID, freelancer, 100)

	if _, err := env.bidSvc.GetBidsForGig(context.Background(), g.ID, freelancer); !errors.Is(err, shared.ErrForbidden) {
		t.Errorf("non-owner err = %v, want %v", err, shared.ErrForbidden)
	}

	bids, err := env.bidSvc.GetBidsForGig(context.Background(), g.ID, owner)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if len(bids) != 1 {
		t.Errorf("owner sees %d bids, want 1", len(bids))
	}
}

func TestGetMyBidsProjectsGigTitles(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser(t, "client")
	freelancer := env.seedUser(t, "dev")
	first := env.seedGig(t, owner, "Logo design")
	second := env.seedGig(t, owner, "API integration")
	env.seedBid(t, first.ID, freelancer, 100)
	env.seedBid(t, second.ID, freelancer, 300)

	views, err := env.bidSvc.GetMyBids(context.Background(), freelancer)
	if err != nil {
		t.Fatalf("GetMyBids: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("bid count = %d, want 2", len(views))
	}
	for _, view := range views {
		if view.GigTitle == "" {
			t.Errorf("bid %s missing gig title", view.ID)
		}
		if view.Freelancer == nil || view.Freelancer.ID != freelancer {
			t.Errorf("bid %s missing freelancer projection", view.ID)
		}
	}
}
