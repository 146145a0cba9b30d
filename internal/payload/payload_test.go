package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickPriorityOrder(t *testing.T) {
	obj := Object{
		"bookingID": float64(7),
		"bookingId": float64(42),
	}

	// First present candidate wins, later ones are ignored.
	assert.Equal(t, int64(42), Int64(obj, "bookingId", "bookingID"))
	assert.Equal(t, int64(7), Int64(obj, "BookingID", "bookingID", "bookingId"))
}

func TestPickSkipsNullValues(t *testing.T) {
	obj := Object{
		"status": nil,
		"state":  "open",
	}

	v, ok := Pick(obj, "status", "state")
	require.True(t, ok)
	assert.Equal(t, "open", v)
}

func TestPickTotalAbsence(t *testing.T) {
	obj := Object{}

	_, ok := Pick(obj, "a", "b")
	assert.False(t, ok)
	assert.Equal(t, "", String(obj, "a"))
	assert.Equal(t, int64(0), Int64(obj, "a"))
	assert.True(t, Time(obj, "a").IsZero())

	// Nil object must not panic either.
	_, ok = Pick(nil, "a")
	assert.False(t, ok)
}

func TestNumericCoercion(t *testing.T) {
	obj := Object{
		"idString": "101",
		"idNumber": float64(101),
		"price":    "250.5",
	}

	assert.Equal(t, int64(101), Int64(obj, "idString"))
	assert.Equal(t, int64(101), Int64(obj, "idNumber"))
	assert.Equal(t, "101", String(obj, "idNumber"))
	assert.InDelta(t, 250.5, Float64(obj, "price"), 0.0001)
}

func TestTimeParsing(t *testing.T) {
	obj := Object{
		"rfc3339": "2026-08-30T10:00:00Z",
		"sql":     "2026-08-30 10:00:00",
		"unix":    float64(1_770_000_000),
	}

	want := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	assert.True(t, Time(obj, "rfc3339").Equal(want))
	assert.True(t, Time(obj, "sql").Equal(want))
	assert.Equal(t, int64(1_770_000_000), Time(obj, "unix").Unix())
}

func TestPickListTopLevel(t *testing.T) {
	obj := Object{
		"participants": []any{
			map[string]any{"id": float64(1)},
			map[string]any{"id": float64(2)},
		},
	}

	list := PickList(obj, "participants", "members")
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), Int64(list[1], "id"))
}

func TestPickListRecursesIntoWrappers(t *testing.T) {
	obj := Object{
		"data": map[string]any{
			"result": map[string]any{
				"members": []any{
					map[string]any{"id": float64(9)},
				},
			},
		},
	}

	list := PickList(obj, "participants", "members")
	require.Len(t, list, 1)
	assert.Equal(t, int64(9), Int64(list[0], "id"))
}

func TestPickListDepthBound(t *testing.T) {
	// Five wrapper levels exceed the bound; the list must not be found.
	obj := Object{
		"data": map[string]any{
			"data": map[string]any{
				"data": map[string]any{
					"data": map[string]any{
						"data": map[string]any{
							"members": []any{map[string]any{"id": float64(1)}},
						},
					},
				},
			},
		},
	}

	assert.Empty(t, PickList(obj, "members"))
}

func TestUnwrap(t *testing.T) {
	obj := Object{
		"data": map[string]any{
			"result": map[string]any{
				"id":     float64(5),
				"status": "open",
			},
		},
	}

	inner := Unwrap(obj)
	assert.Equal(t, int64(5), Int64(inner, "id"))
	assert.Equal(t, "open", String(inner, "status"))
}

func TestDecodeMalformed(t *testing.T) {
	assert.NotNil(t, Decode([]byte("not json")))
	assert.NotNil(t, Decode([]byte(`[1,2,3]`)))
	assert.NotNil(t, Decode(nil))
}
