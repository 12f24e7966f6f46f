// internal/activities/service.go
package activities

import (
	"context"

	"sportcenter/internal/facility"
)

// Service defines the interface for the activity service.
type Service interface {
	Save(ctx context.Context, a facility.Activity) (facility.Activity, error)
	// Delete removes the activity unless a reservation references it.
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (facility.Activity, error)
	// List returns activities ordered by name.
	List(ctx context.Context) ([]facility.Activity, error)
	// Search returns activities whose name contains query, ignoring case.
	Search(ctx context.Context, query string) ([]facility.Activity, error)
	FieldErrors(a facility.Activity) map[string]string
}
