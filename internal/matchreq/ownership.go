package matchreq

import "strings"

// IsOwnerParticipant decides whether a participant record is the booking
// owner's own team rather than a genuine opponent. The upstream has no
// canonical flag for this, so the resolver reconciles identity best-effort:
// an explicit host/owner marker wins, then a team-name match against the
// request's known owner team names, then a user-id match against the
// resolved owner id. The id match additionally requires a team-name match
// when owner team names are known; with no resolvable owner id the answer
// defaults to "not the owner".
func IsOwnerParticipant(p *Participant, req *MatchRequest) bool {
	if p == nil || req == nil {
		return false
	}

	if p.OwnerFlag {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(p.Role)) {
	case "owner", "host", "creator":
		return true
	}

	nameMatches := ownerTeamNameMatches(p.TeamName, req.OwnerTeamNames)
	if nameMatches {
		return true
	}

	if req.OwnerID == "" || p.UserID == "" {
		return false
	}
	if p.UserID != req.OwnerID {
		return false
	}
	// Id matches; when owner team names are known the name must agree too.
	if len(req.OwnerTeamNames) > 0 {
		return nameMatches
	}
	return true
}

func ownerTeamNameMatches(teamName string, ownerNames []string) bool {
	name := strings.ToLower(strings.TrimSpace(teamName))
	if name == "" {
		return false
	}
	for _, owner := range ownerNames {
		if name == strings.ToLower(strings.TrimSpace(owner)) {
			return true
		}
	}
	return false
}
