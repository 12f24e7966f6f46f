// internal/membership/service.go
package membership

import (
	"context"

	"sportcenter/internal/facility"
)

// Service defines the interface for the membership service.
type Service interface {
	Save(ctx context.Context, m facility.Member) (facility.Member, error)
	// Delete removes the member unless a reservation references it.
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (facility.Member, error)
	// List returns members ordered by name.
	List(ctx context.Context) ([]facility.Member, error)
	Draft() facility.Member
	FieldErrors(m facility.Member) map[string]string
}
