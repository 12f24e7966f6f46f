package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportcenter/internal/facility"
)

var today = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ve *facility.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Field
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.c", "ana.garcia@club.example.com", "x+y@d.io"}
	invalid := []string{"", "a@b", "a b@c.d", "@b.c", "a@.c", "a@b.", "a@@b.c"}

	for _, e := range valid {
		assert.True(t, ValidEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, ValidEmail(e), e)
	}
}

func TestCheckMemberOrder(t *testing.T) {
	err := CheckMember(facility.Member{})
	assert.Equal(t, FieldName, fieldOf(t, err))
	assert.Equal(t, MsgNameRequired, err.Error())

	err = CheckMember(facility.Member{Name: "Ana"})
	assert.Equal(t, FieldEmail, fieldOf(t, err))
	assert.Equal(t, MsgEmailRequired, err.Error())

	err = CheckMember(facility.Member{Name: "Ana", Email: "ana@club"})
	assert.Equal(t, MsgEmailFormat, err.Error())

	assert.NoError(t, CheckMember(facility.Member{Name: "Ana", Email: "ana@club.es"}))
}

func TestMemberFieldErrors(t *testing.T) {
	errs := MemberFieldErrors(facility.Member{Name: "  ", Email: "nope"})
	assert.Equal(t, map[string]string{
		FieldName:  MsgNameRequired,
		FieldEmail: MsgEmailFormat,
	}, errs)

	assert.Empty(t, MemberFieldErrors(facility.Member{Name: "Ana", Email: "ana@club.es"}))
}

func TestActivityRules(t *testing.T) {
	err := CheckActivity(facility.Activity{Capacity: 5})
	assert.Equal(t, FieldName, fieldOf(t, err))

	err = CheckActivity(facility.Activity{Name: "Yoga", Capacity: 0})
	assert.Equal(t, FieldCapacity, fieldOf(t, err))
	assert.Equal(t, MsgCapacityPositive, err.Error())

	err = CheckActivity(facility.Activity{Name: "Yoga", Capacity: -3})
	assert.Equal(t, FieldCapacity, fieldOf(t, err))

	assert.NoError(t, CheckActivity(facility.Activity{Name: "Yoga", Capacity: 1}))

	assert.Equal(t, map[string]string{
		FieldName:     MsgActivityName,
		FieldCapacity: MsgCapacityPositive,
	}, ActivityFieldErrors(facility.Activity{}))
}

func TestParseCapacity(t *testing.T) {
	n, err := ParseCapacity(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"", "abc", "3.5", "1e3"} {
		_, err := ParseCapacity(bad)
		assert.Equal(t, FieldCapacity, fieldOf(t, err), bad)
		assert.Equal(t, MsgCapacityInteger, err.Error())
	}
}

func TestCheckReservationOrder(t *testing.T) {
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name  string
		r     facility.Reservation
		field string
		msg   string
	}{
		{"no member", facility.Reservation{ActivityID: 1, Date: tomorrow}, FieldMemberID, MsgMemberRequired},
		{"member before activity", facility.Reservation{}, FieldMemberID, MsgMemberRequired},
		{"no activity", facility.Reservation{MemberID: 1, Date: tomorrow}, FieldActivityID, MsgActivityRequired},
		{"no date", facility.Reservation{MemberID: 1, ActivityID: 1}, FieldDate, MsgDateRequired},
		{"past date", facility.Reservation{MemberID: 1, ActivityID: 1, Date: yesterday}, FieldDate, MsgDateInPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReservation(tt.r, today)
			assert.Equal(t, tt.field, fieldOf(t, err))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestCheckReservationTodayIsAllowed(t *testing.T) {
	earlierToday := time.Date(2026, 10, 16, 0, 0, 1, 0, time.UTC)
	assert.NoError(t, CheckReservation(facility.Reservation{MemberID: 1, ActivityID: 1, Date: earlierToday}, today))
}

func TestReservationFieldErrors(t *testing.T) {
	errs := ReservationFieldErrors(facility.Reservation{Date: today.AddDate(0, 0, -2)}, today)
	assert.Equal(t, map[string]string{
		FieldMemberID:   MsgMemberRequired,
		FieldActivityID: MsgActivityRequired,
		FieldDate:       MsgDateInPast,
	}, errs)

	assert.Empty(t, ReservationFieldErrors(facility.Reservation{MemberID: 1, ActivityID: 2, Date: today}, today))
}
