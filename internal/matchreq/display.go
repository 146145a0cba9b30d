package matchreq

// Badge summarizes a match request for list display.
type Badge struct {
	Status        string `json:"status"`
	PendingCount  int    `json:"pending_count"`
	AcceptedCount int    `json:"accepted_count"`
}

// FilterParticipantsForDisplay drops the owner's own team entries from the
// participant list; what remains are the genuine opponents.
func FilterParticipantsForDisplay(req *MatchRequest) []Participant {
	if req == nil {
		return nil
	}
	out := make([]Participant, 0, len(req.Participants))
	for i := range req.Participants {
		p := &req.Participants[i]
		if IsOwnerParticipant(p, req) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// ClassifyRequestStatus derives the overall request status. Explicit status
// text wins; otherwise the state is inferred from the displayed participants:
// mutual acceptance means matched, anyone still awaiting the owner's call
// means pending, else the request is simply open.
func ClassifyRequestStatus(req *MatchRequest) string {
	if req == nil {
		return RequestOpen
	}
	if s := NormalizeRequestStatus(req.Status); s != "" {
		return s
	}

	display := FilterParticipantsForDisplay(req)
	for i := range display {
		if display[i].MutuallyAccepted() {
			return RequestMatched
		}
	}
	for i := range display {
		if !display[i].Withdrawn() && display[i].NeedsOwnerAction() {
			return RequestPending
		}
	}
	return RequestOpen
}

// BadgeFor computes the owner-facing badge: how many opponents await a
// decision and how many the owner has already accepted.
func BadgeFor(req *MatchRequest) Badge {
	b := Badge{Status: ClassifyRequestStatus(req)}
	for _, p := range FilterParticipantsForDisplay(req) {
		if p.Withdrawn() {
			continue
		}
		if p.NeedsOwnerAction() {
			b.PendingCount++
		}
		if p.OwnerDecision == StatusAccepted {
			b.AcceptedCount++
		}
	}
	return b
}
