package audithandler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

type Handler struct {
	Service *audit.Service
	Render  *web.Renderer
}

func NewHandler(service *audit.Service, rd *web.Renderer) *Handler {
	return &Handler{Service: service, Render: rd}
}

// RegisterRoutes mounts the audit log under an admin-only router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audit", h.handleListEvents)
	r.Get("/audit/export", h.handleExportEvents)
}

type auditPage struct {
	Filter  audit.Filter
	Events  []audit.Event
	Total   int
	Limit   int
	Offset  int
	PrevURL string
	NextURL string
}

func readFilter(r *http.Request) audit.Filter {
	q := r.URL.Query()
	return audit.Filter{Action: q.Get("action"), EntityType: q.Get("entity_type"), ActorUser: q.Get("actor")}
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := shared.ParsePage(q, 50, 200)
	filter := readFilter(r)

	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		slog.Warn("audit count failed", "err", err)
	}
	events, err := h.Service.List(r.Context(), filter, false, page.Limit, page.Offset)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}

	view := auditPage{Filter: filter, Events: events, Total: total, Limit: page.Limit, Offset: page.Offset}
	if prev, ok := page.Prev(); ok {
		view.PrevURL = pageURL(q, prev)
	}
	if next, ok := page.Next(len(events), total); ok {
		view.NextURL = pageURL(q, next)
	}
	h.Render.Render(w, r, http.StatusOK, "admin_audit", "Audit log", view)
}

func pageURL(q url.Values, page shared.Page) string {
	return "/admin/audit?" + page.Query(q).Encode()
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.ListExport(r.Context(), readFilter(r))
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	if err := audit.WriteCSV(w, events, h.Render.Location()); err != nil {
		slog.Warn("audit export failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
	}
}
