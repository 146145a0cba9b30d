package matchreq

import (
	"strings"

	"github.com/pitchside/fieldbook-gateway/internal/payload"
)

// NormalizeStatus collapses free-text or numeric status values from the
// upstream into the fixed participant vocabulary. Matching is by ordered
// substring groups; the order is a deliberate tie-break — "confirm" counts
// as acceptance because in this domain confirming a match is the owner
// accepting it. Unknown values pass through lower-cased.
func NormalizeStatus(v any) string {
	s := strings.ToLower(strings.TrimSpace(rawStatusString(v)))
	if s == "" {
		return ""
	}
	switch {
	case containsAny(s, "accept", "approve", "confirm", "match"):
		return StatusAccepted
	case containsAny(s, "reject", "deny", "decline"):
		return StatusRejected
	case strings.Contains(s, "withdraw"):
		return StatusWithdrawn
	case strings.Contains(s, "cancel"):
		return StatusCancelled
	case containsAny(s, "pending", "wait") || s == "0":
		return StatusPending
	}
	return s
}

// NormalizeRequestStatus collapses a request-level status value into the
// open/pending/matched/expired/cancelled vocabulary. Returns "" when the
// value carries no recognizable signal, leaving classification to inference.
func NormalizeRequestStatus(v any) string {
	s := strings.ToLower(strings.TrimSpace(rawStatusString(v)))
	if s == "" {
		return ""
	}
	switch {
	case strings.Contains(s, "match"), strings.Contains(s, "full"):
		return RequestMatched
	case strings.Contains(s, "cancel"):
		return RequestCancelled
	case strings.Contains(s, "expire"):
		return RequestExpired
	case containsAny(s, "pending", "wait"):
		return RequestPending
	case containsAny(s, "open", "active", "finding", "looking"):
		return RequestOpen
	}
	return ""
}

func rawStatusString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		obj := payload.Object{"v": v}
		return payload.String(obj, "v")
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
