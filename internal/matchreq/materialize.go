package matchreq

import (
	"strings"

	"github.com/pitchside/fieldbook-gateway/internal/payload"
)

// participantListKeys are the array-valued keys under which the upstream has
// been observed to report participants, in priority order.
var participantListKeys = []string{
	"participants", "joinRequests", "join_requests", "applicants",
	"requests", "members", "teams", "items",
}

// FromPayload materializes a MatchRequest from a raw upstream object,
// resolving every field through ordered candidate keys and normalizing all
// statuses at the boundary.
func FromPayload(obj payload.Object) *MatchRequest {
	obj = payload.Unwrap(obj)
	if len(obj) == 0 {
		return nil
	}

	req := &MatchRequest{
		ID: payload.Int64(obj,
			"id", "matchRequestId", "matchRequestID", "match_request_id", "requestId", "request_id"),
		BookingID: payload.Int64(obj,
			"bookingId", "bookingID", "BookingID", "booking_id"),
		OwnerID: resolveOwnerID(obj),
		Status:  payload.String(obj, "status", "state", "matchStatus", "match_status"),
	}

	req.OwnerTeamNames = collectOwnerTeamNames(obj)

	for _, raw := range payload.PickList(obj, participantListKeys...) {
		p := participantFromPayload(raw)
		if p.ID == 0 && p.UserID == "" && p.TeamName == "" {
			continue
		}
		req.Participants = append(req.Participants, p)
	}

	if req.ID == 0 && req.BookingID == 0 {
		return nil
	}
	return req
}

func resolveOwnerID(obj payload.Object) string {
	if owner, ok := payload.Child(obj, "owner", "creator", "host", "user"); ok {
		if id := payload.String(owner, "id", "userId", "userID", "user_id"); id != "" {
			return id
		}
	}
	return payload.String(obj,
		"ownerId", "ownerID", "owner_id", "userId", "userID", "user_id",
		"createdBy", "created_by", "creatorId", "creator_id", "hostId", "host_id")
}

func collectOwnerTeamNames(obj payload.Object) []string {
	seen := map[string]bool{}
	var names []string
	add := func(name string) {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			return
		}
		seen[key] = true
		names = append(names, trimmed)
	}

	add(payload.String(obj,
		"teamName", "team_name", "ownerTeamName", "owner_team_name",
		"hostTeamName", "host_team_name", "myTeamName", "my_team_name"))
	if owner, ok := payload.Child(obj, "owner", "creator", "host", "team"); ok {
		add(payload.String(owner, "teamName", "team_name", "name"))
	}
	return names
}

func participantFromPayload(obj payload.Object) Participant {
	return Participant{
		ID: payload.Int64(obj,
			"id", "participantId", "participantID", "participant_id", "joinRequestId", "join_request_id"),
		UserID: payload.String(obj,
			"userId", "userID", "user_id", "playerId", "playerID", "player_id",
			"accountId", "account_id", "memberId", "member_id", "uid",
			"requesterId", "requester_id", "applicantId", "applicant_id"),
		TeamName: payload.String(obj,
			"teamName", "team_name", "name", "clubName", "club_name"),
		Role: payload.String(obj, "role", "participantRole", "participant_role"),
		OwnerFlag: payload.Bool(obj,
			"isOwner", "is_owner", "isHost", "is_host", "isOwnerTeam", "is_owner_team", "owner"),
		OwnerDecision: NormalizeStatus(firstPresent(obj,
			"ownerStatus", "owner_status", "ownerDecision", "owner_decision",
			"hostStatus", "host_status", "approvalStatus", "approval_status",
			"confirmStatus", "confirm_status")),
		SelfStatus: NormalizeStatus(firstPresent(obj,
			"participantStatus", "participant_status", "joinStatus", "join_status",
			"requestStatus", "request_status", "status", "state")),
	}
}

// firstPresent keeps raw scalar values intact for NormalizeStatus, which
// needs to see numbers (the literal 0 means pending upstream).
func firstPresent(obj payload.Object, keys ...string) any {
	v, _ := payload.Pick(obj, keys...)
	return v
}
