package matchreq

import (
	"net/http"

	"github.com/pitchside/fieldbook-gateway/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "match request not found")

// Request status vocabulary.
const (
	RequestOpen      = "open"
	RequestPending   = "pending"
	RequestMatched   = "matched"
	RequestExpired   = "expired"
	RequestCancelled = "cancelled"
)

// Participant status vocabulary (both decision axes).
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
	StatusCancelled = "cancelled"
)

// MatchRequest is a player's public request to find an opposing team for a
// booked slot.
type MatchRequest struct {
	ID        int64
	BookingID int64
	OwnerID   string
	// OwnerTeamNames collects every team name the upstream attributes to the
	// request owner; the set is used to tell the owner's own entry apart
	// from genuine opponents.
	OwnerTeamNames []string
	Status         string
	Participants   []Participant
}

// Participant is a team that applied to join a match request. Acceptance is
// bilateral: OwnerDecision is the booking owner's call, SelfStatus is the
// state of the applying side. Both arrive normalized.
type Participant struct {
	ID            int64
	UserID        string
	TeamName      string
	Role          string
	OwnerFlag     bool
	OwnerDecision string
	SelfStatus    string
}

// NeedsOwnerAction reports whether the participant is still waiting on the
// booking owner's decision.
func (p *Participant) NeedsOwnerAction() bool {
	return p.OwnerDecision == "" || p.OwnerDecision == StatusPending
}

// MutuallyAccepted reports whether both sides have accepted.
func (p *Participant) MutuallyAccepted() bool {
	return p.OwnerDecision == StatusAccepted && p.SelfStatus == StatusAccepted
}

// Withdrawn reports whether the participating side has backed out.
func (p *Participant) Withdrawn() bool {
	return p.SelfStatus == StatusWithdrawn || p.SelfStatus == StatusCancelled
}
