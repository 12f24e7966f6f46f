// Package validation holds the pure field rules for members, activities
// and reservations. The Check* functions stop at the first failing rule
// and return it as a *facility.ValidationError; the *FieldErrors
// functions evaluate every field independently for live display.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"sportcenter/internal/facility"
)

// Field names used in errors and field maps.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldCapacity   = "capacity"
	FieldMemberID   = "member_id"
	FieldActivityID = "activity_id"
	FieldDate       = "date"
)

// Messages.
const (
	MsgNameRequired     = "name is required"
	MsgActivityName     = "activity name is required"
	MsgEmailRequired    = "email is required"
	MsgEmailFormat      = "email format is not valid"
	MsgCapacityInteger  = "maximum capacity must be an integer"
	MsgCapacityPositive = "maximum capacity must be greater than 0"
	MsgMemberRequired   = "a member must be selected"
	MsgActivityRequired = "an activity must be selected"
	MsgDateRequired     = "a date must be selected"
	MsgDateInPast       = "the date cannot be earlier than today"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CheckMember validates m for saving: name, then email presence, then
// email format.
func CheckMember(m facility.Member) error {
	if blank(m.Name) {
		return facility.Invalid(FieldName, MsgNameRequired)
	}
	if blank(m.Email) {
		return facility.Invalid(FieldEmail, MsgEmailRequired)
	}
	if !ValidEmail(m.Email) {
		return facility.Invalid(FieldEmail, MsgEmailFormat)
	}
	return nil
}

// MemberFieldErrors returns every failing member field with its message.
func MemberFieldErrors(m facility.Member) map[string]string {
	errs := make(map[string]string)
	if blank(m.Name) {
		errs[FieldName] = MsgNameRequired
	}
	switch {
	case blank(m.Email):
		errs[FieldEmail] = MsgEmailRequired
	case !ValidEmail(m.Email):
		errs[FieldEmail] = MsgEmailFormat
	}
	return errs
}

// ParseCapacity converts textual capacity input to an integer.
func ParseCapacity(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, facility.Invalid(FieldCapacity, MsgCapacityInteger)
	}
	return n, nil
}

// CheckActivity validates a for saving: name, then capacity.
func CheckActivity(a facility.Activity) error {
	if blank(a.Name) {
		return facility.Invalid(FieldName, MsgActivityName)
	}
	if a.Capacity <= 0 {
		return facility.Invalid(FieldCapacity, MsgCapacityPositive)
	}
	return nil
}

// ActivityFieldErrors returns every failing activity field with its message.
func ActivityFieldErrors(a facility.Activity) map[string]string {
	errs := make(map[string]string)
	if blank(a.Name) {
		errs[FieldName] = MsgActivityName
	}
	if a.Capacity <= 0 {
		errs[FieldCapacity] = MsgCapacityPositive
	}
	return errs
}

// CheckReservation runs the field rules of a reservation in save order:
// member, activity, date set, date not in the past. The admission check
// comes after these and needs the store, so it lives in package admission.
func CheckReservation(r facility.Reservation, today time.Time) error {
	if r.MemberID == 0 {
		return facility.Invalid(FieldMemberID, MsgMemberRequired)
	}
	if r.ActivityID == 0 {
		return facility.Invalid(FieldActivityID, MsgActivityRequired)
	}
	if r.Date.IsZero() {
		return facility.Invalid(FieldDate, MsgDateRequired)
	}
	if facility.Day(r.Date).Before(facility.Day(today)) {
		return facility.Invalid(FieldDate, MsgDateInPast)
	}
	return nil
}

// ReservationFieldErrors returns every failing reservation field.
func ReservationFieldErrors(r facility.Reservation, today time.Time) map[string]string {
	errs := make(map[string]string)
	if r.MemberID == 0 {
		errs[FieldMemberID] = MsgMemberRequired
	}
	if r.ActivityID == 0 {
		errs[FieldActivityID] = MsgActivityRequired
	}
	switch {
	case r.Date.IsZero():
		errs[FieldDate] = MsgDateRequired
	case facility.Day(r.Date).Before(facility.Day(today)):
		errs[FieldDate] = MsgDateInPast
	}
	return errs
}
