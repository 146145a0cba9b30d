package matchreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"Accepted", StatusAccepted},
		{"APPROVE", StatusAccepted},
		{"confirmed_by_owner", StatusAccepted},
		{"matched", StatusAccepted},
		{"Rejected", StatusRejected},
		{"deny", StatusRejected},
		{"DECLINED", StatusRejected},
		{"withdrawn", StatusWithdrawn},
		{"withdraw_request", StatusWithdrawn},
		{"cancelled", StatusCancelled},
		{"Canceled", StatusCancelled},
		{"pending", StatusPending},
		{"WAITING", StatusPending},
		{"0", StatusPending},
		{float64(0), StatusPending},
		{nil, ""},
		{"", ""},
		{"  ", ""},
		{"something_else", "something_else"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeStatus(tc.in), "input %v", tc.in)
	}
}

func TestNormalizeStatusConfirmBeatsCancel(t *testing.T) {
	// The accept group is checked first: a value carrying both "confirm"
	// and "cancel" signals counts as acceptance.
	assert.Equal(t, StatusAccepted, NormalizeStatus("confirm_after_cancel"))
}

func TestNormalizeRequestStatus(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"OPEN", RequestOpen},
		{"actively_looking", RequestOpen},
		{"matched", RequestMatched},
		{"MATCH_FOUND", RequestMatched},
		{"cancelled", RequestCancelled},
		{"expired", RequestExpired},
		{"waiting_confirmation", RequestPending},
		{nil, ""},
		{"garbage", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeRequestStatus(tc.in), "input %v", tc.in)
	}
}
