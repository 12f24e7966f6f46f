package stats

import (
	"net/http"

	"sportcenter/internal/httpx"
)

// HandleStats answers GET /stats.
func (a *Aggregator) HandleStats(w http.ResponseWriter, r *http.Request) {
	sum, err := a.Recompute(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sum)
}
