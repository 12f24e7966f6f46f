package facility

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationJSONUsesDayLayout(t *testing.T) {
	r := Reservation{ID: 3, MemberID: 1, ActivityID: 2, Date: time.Date(2026, 10, 17, 18, 30, 0, 0, time.UTC)}

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"member_id":1,"activity_id":2,"date":"2026-10-17"}`, string(raw))

	var back Reservation
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, Reservation{ID: 3, MemberID: 1, ActivityID: 2, Date: Day(r.Date)}, back)

	raw, err = json.Marshal(Reservation{})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"date":""`)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"2026-10-17T00:00:00Z"}`), &back))
}

func TestBookingJSONKeepsNames(t *testing.T) {
	b := Booking{
		Reservation:  Reservation{ID: 9, MemberID: 1, ActivityID: 2, Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)},
		MemberName:   "Ana",
		ActivityName: "Yoga",
	}

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9,"member_id":1,"activity_id":2,"date":"2026-11-02","member_name":"Ana","activity_name":"Yoga"}`, string(raw))

	var back Booking
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, b, back)
}
