package booking

import (
	"github.com/pitchside/fieldbook-gateway/internal/payload"
)

// FromPayload materializes a Booking from a raw upstream object. Field names
// vary per endpoint, so every field is resolved through an ordered candidate
// list. Absent fields yield zero values; nothing here can fail.
func FromPayload(obj payload.Object) Booking {
	obj = payload.Unwrap(obj)

	return Booking{
		DisplayKey: payload.String(obj,
			"bookingCode", "booking_code", "code", "displayId", "display_id", "id"),
		DBID: payload.Int64(obj,
			"bookingId", "bookingID", "BookingID", "booking_id", "dbId", "db_id", "id"),
		MatchRequestID: payload.Int64(obj,
			"matchRequestId", "matchRequestID", "match_request_id", "openMatchId", "open_match_id", "requestId", "request_id"),
		FieldID: payload.String(obj,
			"fieldId", "fieldID", "field_id", "courtId", "court_id"),
		FieldName: payload.String(obj,
			"fieldName", "field_name", "courtName", "court_name", "venueName", "venue_name"),
		ScheduleID: payload.String(obj,
			"scheduleId", "scheduleID", "schedule_id", "slotId", "slot_id", "timeSlotId", "time_slot_id"),
		StartTime: payload.Time(obj,
			"startTime", "start_time", "timeStart", "beginTime", "from"),
		EndTime: payload.Time(obj,
			"endTime", "end_time", "timeEnd", "finishTime", "to"),
		Price: payload.Float64(obj,
			"price", "totalPrice", "total_price", "amount"),
		Deposit: payload.Float64(obj,
			"deposit", "depositAmount", "deposit_amount", "downPayment", "down_payment"),
		Status: NormalizeStatus(payload.String(obj,
			"status", "bookingStatus", "booking_status", "state")),
		PaymentStatus: NormalizePaymentStatus(payload.String(obj,
			"paymentStatus", "payment_status", "payStatus", "pay_status")),
		CreatedAt: payload.Time(obj,
			"createdAt", "created_at", "createdDate", "created_date", "createTime"),
	}
}

// ListFromPayload materializes every object in a raw list, skipping entries
// that resolve to no usable identity at all.
func ListFromPayload(list payload.List) []Booking {
	out := make([]Booking, 0, len(list))
	for _, obj := range list {
		b := FromPayload(obj)
		if b.DisplayKey == "" && b.DBID == 0 {
			continue
		}
		if b.DisplayKey == "" {
			// Fall back to the db id so the booking stays addressable.
			b.DisplayKey = payload.String(obj, "bookingId", "bookingID", "booking_id", "id")
		}
		out = append(out, b)
	}
	return out
}
