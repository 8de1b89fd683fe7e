package httpapi

import (
	"net/http"

	"SpeedReaderwebserver/internal/domain"
)

func (a *api) handlePassagesList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := a.passageSvc.List(r.Context(), q.Get("difficulty"), q.Get("category"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, listResponse[domain.Passage]{Items: items})
}

func (a *api) handlePassagesGet(w http.ResponseWriter, r *http.Request) {
	p, err := a.passageSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}
