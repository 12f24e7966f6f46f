// internal/membership/domain.go
package membership

import (
	"sportcenter/internal/facility"
)

// MemberRequest is the body of a member create or update.
type MemberRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active *bool  `json:"active,omitempty"`
}

// Member builds the candidate for id. A missing active flag keeps the
// draft default.
func (req MemberRequest) Member(id int64) facility.Member {
	m := facility.NewMember()
	m.ID = id
	m.Name = req.Name
	m.Email = req.Email
	if req.Active != nil {
		m.Active = *req.Active
	}
	return m
}
