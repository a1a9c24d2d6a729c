package export

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kongbun/internal/export"
	"github.com/MrJamesThe3rd/kongbun/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/campaigns/{id}.csv", h.sheet)
	r.Get("/campaigns/{id}/summary", h.summary)
}

func (h *Handler) sheet(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	table, err := h.svc.Build(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.Filename()))

	if err := table.WriteCSV(w); err != nil {
		slog.Error("failed to write sheet", "campaign_id", id, "error", err)
	}
}

// summary is the tab-separated text admins paste into chat.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	table, err := h.svc.Build(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(table.Text())); err != nil {
		slog.Error("failed to write summary", "campaign_id", id, "error", err)
	}
}
