package gig

import (
	"testing"

	"github.com/google/uuid"
)

func TestStatusHelpers(t *testing.T) {
	g := &Gig{Status: StatusOpen}
	if !g.IsOpen() || g.IsAssigned() {
		t.Errorf("open gig: IsOpen=%v IsAssigned=%v", g.IsOpen(), g.IsAssigned())
	}

	g.Assign()
	if g.IsOpen() || !g.IsAssigned() {
		t.Errorf("assigned gig: IsOpen=%v IsAssigned=%v", g.IsOpen(), g.IsAssigned())
	}
}

func TestIsOwnedBy(t *testing.T) {
	owner := uuid.New()
	g := &Gig{OwnerID: owner}

	if !g.IsOwnedBy(owner) {
		t.Error("owner not recognized")
	}
	if g.IsOwnedBy(uuid.New()) {
		t.Error("stranger recognized as owner")
	}
}
