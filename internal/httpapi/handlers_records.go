package httpapi

import (
	"net/http"

	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/service"
)

type listResponse[T any] struct {
	Items []T `json:"items"`
}

func (a *api) handleDrillsCreate(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req service.DrillInput
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	rec, err := a.recordSvc.AppendDrill(r.Context(), acct.ID, req)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, rec)
}

func (a *api) handleDrillsList(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	limit, err := queryLimit(r, 0)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	items, err := a.recordSvc.ListDrills(r.Context(), acct.ID, limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, listResponse[domain.DrillRecord]{Items: items})
}

func (a *api) handleReadingSessionsCreate(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req service.ReadingSessionInput
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	rec, err := a.recordSvc.AppendReadingSession(r.Context(), acct.ID, req)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, rec)
}

func (a *api) handleReadingSessionsList(w http.ResponseWriter, r *http.Request) {
	acct, ok := CurrentAccount(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	limit, err := queryLimit(r, 0)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	items, err := a.recordSvc.ListReadingSessions(r.Context(), acct.ID, limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, listResponse[domain.ReadingSessionRecord]{Items: items})
}
