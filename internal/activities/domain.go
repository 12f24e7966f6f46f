// internal/activities/domain.go
package activities

import (
	"bytes"
	"encoding/json"

	"sportcenter/internal/facility"
	"sportcenter/internal/validation"
)

// ActivityRequest is the body of an activity create or update. Capacity
// may be sent as a JSON number or as a numeric string.
type ActivityRequest struct {
	Name     string          `json:"name"`
	Capacity json.RawMessage `json:"capacity"`
}

// Activity builds the candidate for id. A capacity that is not an integer
// is reported as a *facility.ValidationError on the capacity field.
func (req ActivityRequest) Activity(id int64) (facility.Activity, error) {
	capacity, err := parseCapacity(req.Capacity)
	if err != nil {
		return facility.Activity{}, err
	}
	return facility.Activity{ID: id, Name: req.Name, Capacity: capacity}, nil
}

func parseCapacity(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, facility.Invalid(validation.FieldCapacity, validation.MsgCapacityInteger)
		}
		return validation.ParseCapacity(text)
	}
	return validation.ParseCapacity(string(raw))
}

