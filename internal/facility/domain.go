// internal/facility/domain.go
package facility

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayLayout is the wire and storage format of a reservation day.
const DayLayout = "2006-01-02"

// NoReservations is reported as the top activity when nothing is booked yet.
const NoReservations = "no reservations yet"

// Member represents a registered member of the sports center.
type Member struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// IsNew reports whether the member has not been persisted yet.
func (m Member) IsNew() bool { return m.ID <= 0 }

// NewMember returns a draft member. Members start out active.
func NewMember() Member {
	return Member{Active: true}
}

// Activity is a bookable session type with a per-day capacity.
type Activity struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// IsNew reports whether the activity has not been persisted yet.
func (a Activity) IsNew() bool { return a.ID <= 0 }

// Reservation books a member into an activity on a calendar day.
// Member and activity are referenced by id only.
type Reservation struct {
	ID         int64     `json:"id"`
	MemberID   int64     `json:"member_id"`
	ActivityID int64     `json:"activity_id"`
	Date       time.Time `json:"date"`
}

// IsNew reports whether the reservation has not been persisted yet.
func (r Reservation) IsNew() bool { return r.ID <= 0 }

// NewReservation returns a draft reservation for today, optionally
// prefilled with a member and/or activity (zero means unset).
func NewReservation(today time.Time, memberID, activityID int64) Reservation {
	return Reservation{
		MemberID:   memberID,
		ActivityID: activityID,
		Date:       Day(today),
	}
}

// Booking is a reservation joined with the names of what it references.
type Booking struct {
	Reservation
	MemberName   string `json:"member_name"`
	ActivityName string `json:"activity_name"`
}

// reservationJSON is the wire form of a Reservation: the date travels as
// a DayLayout string so a fetched reservation can be sent back unchanged.
type reservationJSON struct {
	ID         int64  `json:"id"`
	MemberID   int64  `json:"member_id"`
	ActivityID int64  `json:"activity_id"`
	Date       string `json:"date"`
}

func (r Reservation) wire() reservationJSON {
	return reservationJSON{
		ID:         r.ID,
		MemberID:   r.MemberID,
		ActivityID: r.ActivityID,
		Date:       FormatDay(r.Date),
	}
}

func (w reservationJSON) reservation() (Reservation, error) {
	day, err := ParseDay(w.Date)
	if err != nil {
		return Reservation{}, fmt.Errorf("date must use the YYYY-MM-DD format: %w", err)
	}
	return Reservation{ID: w.ID, MemberID: w.MemberID, ActivityID: w.ActivityID, Date: day}, nil
}

func (r Reservation) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

func (r *Reservation) UnmarshalJSON(data []byte) error {
	var w reservationJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	res, err := w.reservation()
	if err != nil {
		return err
	}
	*r = res
	return nil
}

type bookingJSON struct {
	reservationJSON
	MemberName   string `json:"member_name"`
	ActivityName string `json:"activity_name"`
}

// MarshalJSON keeps the joined names next to the reservation fields.
func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookingJSON{
		reservationJSON: b.Reservation.wire(),
		MemberName:      b.MemberName,
		ActivityName:    b.ActivityName,
	})
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	var w bookingJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	res, err := w.reservation()
	if err != nil {
		return err
	}
	*b = Booking{Reservation: res, MemberName: w.MemberName, ActivityName: w.ActivityName}
	return nil
}

// Day truncates t to its calendar day. The zero time stays zero, it is
// the "date not set" sentinel.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// FormatDay renders a day in DayLayout, or "" for the unset sentinel.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Day(t).Format(DayLayout)
}

// ParseDay parses a DayLayout string. An empty string yields the zero time.
func ParseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
