package http

import (
	"net/http"

	"finboard/internal/filter"
	"finboard/internal/invalidation"
	"finboard/internal/log"
)

type setFilterRequest struct {
	Filter string `json:"filter"`
}

func (s *Server) handleGetFilter(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{"success": true, "data": filter.FromContext(r.Context())}).Write(w)
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeJSON[setFilterRequest](w, r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	f := sanitizeInput(req.Filter)
	if f == "" {
		UnprocessableEntityError("filter is required").Write(w)
		return
	}
	s.saveFilter(w, r, func(st *filter.Store) (filter.State, error) {
		return st.SetFilter(r.Context(), f)
	})
}

func (s *Server) handleResetFilter(w http.ResponseWriter, r *http.Request) {
	s.saveFilter(w, r, func(st *filter.Store) (filter.State, error) {
		return st.Reset(r.Context())
	})
}

// saveFilter applies a transition to the cookie-backed store. The dashboard
// partition is triggered so clients refetch the scoped view.
func (s *Server) saveFilter(w http.ResponseWriter, r *http.Request, apply func(*filter.Store) (filter.State, error)) {
	store := filter.NewStore(filter.NewCookieStorage(w, r))
	_, _ = store.Load(r.Context())
	st, err := apply(store)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Saving filter failed", log.FieldError, err.Error())
		InternalServerError("failed to save filter").Write(w)
		return
	}
	NewResponse().
		TriggerSignals(invalidation.Strings([]invalidation.Signal{invalidation.Dashboard, invalidation.Accounts})).
		JSON(map[string]any{"success": true, "data": st}).
		Write(w)
}
