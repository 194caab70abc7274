package http

import (
	"context"
	"net/http"
	"time"

	"finboard/internal/actions"
	"finboard/internal/auth"
	"finboard/internal/filter"
	"finboard/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.db == nil {
		checks["database"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else if err := s.db.Ready(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
		checks["database"] = "failed"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	traceStats := s.tracer.GetStats()
	secMetrics := s.detector.GetMetrics()
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"limited_total":  s.limiter.Hits(),
	}
	checks["requests"] = map[string]any{
		"total":           traceStats.TotalRequests,
		"avg_response_us": traceStats.AverageResponseTime,
		"suspicious":      secMetrics.SuspiciousRequests,
		"blocked_methods": secMetrics.BlockedMethods,
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// userID returns the authenticated user. The auth middleware guarantees it
// for every /api route.
func userID(r *http.Request) string {
	id, _ := auth.UserIDFromCtx(r.Context())
	return id
}

// entityHandlers binds the mutations and list view of one entity.
type entityHandlers[T, In, P any] struct {
	create func(ctx context.Context, userID string, in In) actions.Result[T]
	update func(ctx context.Context, userID, id string, p P) actions.Result[T]
	remove func(ctx context.Context, userID, id string) actions.Result[T]
	list   func(ctx context.Context, userID string) ([]T, error)
}

// registerEntity mounts the collection and item routes of an entity under
// /api/{name}.
func registerEntity[T, In, P any](s *Server, mux *http.ServeMux, name string, h entityHandlers[T, In, P]) {
	base := "/api/" + name

	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		items, err := h.list(r.Context(), userID(r))
		if err != nil {
			s.viewError(w, r, name, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		NewResponse().JSON(map[string]any{"success": true, "data": items}).Write(w)
	})

	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		in, err := DecodeJSON[In](w, r)
		if err != nil {
			BadRequestError(err.Error()).Write(w)
			return
		}
		ResultResponse(h.create(r.Context(), userID(r), in), http.StatusCreated).Write(w)
	})

	mux.HandleFunc("PATCH "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		patch, err := DecodeJSON[P](w, r)
		if err != nil {
			BadRequestError(err.Error()).Write(w)
			return
		}
		ResultResponse(h.update(r.Context(), userID(r), pathID(r), patch), http.StatusOK).Write(w)
	})

	mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		ResultResponse(h.remove(r.Context(), userID(r), pathID(r)), http.StatusOK).Write(w)
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.views.Dashboard(r.Context(), userID(r), filter.FromContext(r.Context()))
	if err != nil {
		s.viewError(w, r, "dashboard", err)
		return
	}
	NewResponse().JSON(map[string]any{"success": true, "data": d}).Write(w)
}

func (s *Server) handleAccountsView(w http.ResponseWriter, r *http.Request) {
	vm, err := s.views.Accounts(r.Context(), userID(r), filter.FromContext(r.Context()))
	if err != nil {
		s.viewError(w, r, "accounts_view", err)
		return
	}
	NewResponse().JSON(map[string]any{"success": true, "data": vm}).Write(w)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	p := ParseMonthParams(r.URL.Query())
	rep, err := s.views.Report(r.Context(), userID(r), p.Year, p.Month)
	if err != nil {
		s.viewError(w, r, "report", err)
		return
	}
	NewResponse().JSON(map[string]any{"success": true, "data": rep}).Write(w)
}

// viewError logs a failed read and answers with the status of its class.
func (s *Server) viewError(w http.ResponseWriter, r *http.Request, view string, err error) {
	kind := actions.Classify(err)
	msg := err.Error()
	if kind != actions.KindValidation && kind != actions.KindNotFound {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "View failed",
			log.FieldOperation, view, log.FieldError, msg)
		msg = "failed to load " + view
	}
	ErrorResponse(StatusFor(kind), msg).Write(w)
}
