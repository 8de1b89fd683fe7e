package httpapi

import (
	"net/http"

	"SpeedReaderwebserver/internal/domain"
)

func (a *api) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	summary, err := a.statsSvc.ComputeUserStats(r.Context(), acct.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, summary)
}

func (a *api) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, domain.DefaultLeaderboardLimit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	entries, err := a.statsSvc.Leaderboard(r.Context(), r.URL.Query().Get("drill_type"), limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, listResponse[domain.LeaderboardEntry]{Items: entries})
}
