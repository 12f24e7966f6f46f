// internal/reservations/domain.go
package reservations

import (
	"sportcenter/internal/facility"
	"sportcenter/internal/validation"
)

// ReservationRequest is the body of a reservation create or update. Date
// uses facility.DayLayout; an empty date means "not set".
type ReservationRequest struct {
	MemberID   int64  `json:"member_id"`
	ActivityID int64  `json:"activity_id"`
	Date       string `json:"date"`
}

// Reservation builds the candidate for id.
func (req ReservationRequest) Reservation(id int64) (facility.Reservation, error) {
	day, err := facility.ParseDay(req.Date)
	if err != nil {
		return facility.Reservation{}, facility.Invalid(validation.FieldDate, "date must use the YYYY-MM-DD format")
	}
	return facility.Reservation{
		ID:         id,
		MemberID:   req.MemberID,
		ActivityID: req.ActivityID,
		Date:       day,
	}, nil
}

// AdmissionResponse is the body of an admission query.
type AdmissionResponse struct {
	Admit     bool `json:"admit"`
	Booked    int  `json:"booked"`
	Capacity  int  `json:"capacity"`
	Remaining int  `json:"remaining"`
}
