package app

// In-memory fakes of the outbound ports. The bid store runs the hire
// transition under one mutex, mirroring the row-locked transaction of the
// real repository: concurrent hires on the same gig serialize and the loser
// re-observes the winner's committed state.

import (
	"context"
	"sort"
	"sync"
	"time"

	"gigflow-marketplace-service/internal/domain/bid"
	"gigflow-marketplace-service/internal/domain/gig"
	"gigflow-marketplace-service/internal/domain/shared"
	"gigflow-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
)

type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*shared.User
	gigs  map[uuid.UUID]*gig.Gig
	bids  map[uuid.UUID]*bid.Bid
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[uuid.UUID]*shared.User),
		gigs:  make(map[uuid.UUID]*gig.Gig),
		bids:  make(map[uuid.UUID]*bid.Bid),
	}
}

type memGigRepo struct{ store *memStore }

func (r *memGigRepo) Create(ctx context.Context, g *gig.Gig) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *g
	r.store.gigs[g.ID] = &copied
	return nil
}

func (r *memGigRepo) GetByID(ctx context.Context, id uuid.UUID) (*gig.Gig, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	g, ok := r.store.gigs[id]
	if !ok {
		return nil, shared.ErrGigNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *memGigRepo) ListOpen(ctx context.Context, search string, page, pageSize int) ([]*gig.Gig, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var gigs []*gig.Gig
	for _, g := range r.store.gigs {
		if g.Status == gig.StatusOpen {
			copied := *g
			gigs = append(gigs, &copied)
		}
	}
	return gigs, nil
}

func (r *memGigRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*gig.Gig, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var gigs []*gig.Gig
	for _, g := range r.store.gigs {
		if g.OwnerID == ownerID {
			copied := *g
			gigs = append(gigs, &copied)
		}
	}
	return gigs, nil
}

type memBidRepo struct{ store *memStore }

func (r *memBidRepo) Create(ctx context.Context, b *bid.Bid) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	// Uniqueness of (gig_id, freelancer_id) is authoritative here, as the
	// database constraint is in the real repository.
	for _, existing := range r.store.bids {
		if existing.GigID == b.GigID && existing.FreelancerID == b.FreelancerID {
			return shared.ErrDuplicateBid
		}
	}
	copied := *b
	r.store.bids[b.ID] = &copied
	return nil
}

func (r *memBidRepo) GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bids[id]
	if !ok {
		return nil, shared.ErrBidNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBidRepo) GetByGigID(ctx context.Context, gigID uuid.UUID) ([]*bid.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var bids []*bid.Bid
	for _, b := range r.store.bids {
		if b.GigID == gigID {
			copied := *b
			bids = append(bids, &copied)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })
	return bids, nil
}

func (r *memBidRepo) GetByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*bid.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var bids []*bid.Bid
	for _, b := range r.store.bids {
		if b.FreelancerID == freelancerID {
			copied := *b
			bids = append(bids, &copied)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })
	return bids, nil
}

func (r *memBidRepo) ExistsForGigAndFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bids {
		if b.GigID == gigID && b.FreelancerID == freelancerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBidRepo) Hire(ctx context.Context, bidID, requesterID uuid.UUID) (*outbound.HireCommit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	targetBid, ok := r.store.bids[bidID]
	if !ok {
		return nil, shared.ErrBidNotFound
	}
	targetGig, ok := r.store.gigs[targetBid.GigID]
	if !ok {
		return nil, shared.ErrGigNotFound
	}
	if targetGig.OwnerID != requesterID {
		return nil, shared.ErrForbidden
	}
	if targetGig.Status != gig.StatusOpen {
		return nil, shared.ErrGigAlreadyAssigned
	}
	if targetBid.Status != bid.StatusPending {
		return nil, shared.ErrBidNotPending
	}

	now := time.Now()
	targetGig.Status = gig.StatusAssigned
	targetGig.UpdatedAt = now
	targetBid.Status = bid.StatusHired
	targetBid.UpdatedAt = now
	for _, sibling := range r.store.bids {
		if sibling.GigID == targetGig.ID && sibling.ID != targetBid.ID && sibling.Status == bid.StatusPending {
			sibling.Status = bid.StatusRejected
			sibling.UpdatedAt = now
		}
	}

	gigCopy := *targetGig
	bidCopy := *targetBid
	return &outbound.HireCommit{Gig: &gigCopy, HiredBid: &bidCopy}, nil
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) Create(ctx context.Context, user *shared.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	published []outbound.Event
	failWith  error
}

func (n *fakeNotifier) Subscribe(ctx context.Context, userID uuid.UUID, sessionID string, eventChan chan outbound.Event) error {
	return nil
}

func (n *fakeNotifier) Unsubscribe(ctx context.Context, userID uuid.UUID, sessionID string) error {
	return nil
}

func (n *fakeNotifier) Publish(ctx context.Context, userID uuid.UUID, event outbound.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWith != nil {
		return n.failWith
	}
	n.published = append(n.published, event)
	return nil
}

func (n *fakeNotifier) IsSubscribed(ctx context.Context, userID uuid.UUID, sessionID string) bool {
	return false
}

func (n *fakeNotifier) events() []outbound.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]outbound.Event(nil), n.published...)
}
