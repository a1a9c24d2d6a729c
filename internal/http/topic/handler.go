package topic

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kongbun/internal/http/respond"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
	"github.com/MrJamesThe3rd/kongbun/internal/rollup"
)

type Handler struct {
	ledger *ledger.Service
	rollup *rollup.Service
}

func NewHandler(l *ledger.Service, r *rollup.Service) *Handler {
	return &Handler{ledger: l, rollup: r}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/options", h.options)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type topicResponse struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Status    lifecycle.TopicStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type topicSummaryResponse struct {
	topicResponse
	TotalCampaigns int64           `json:"total_campaigns"`
	TotalValue     decimal.Decimal `json:"total_value"`
	DisplayTotal   string          `json:"display_total"`
}

func toResponse(t *ledger.Topic) topicResponse {
	return topicResponse{
		ID:        t.ID,
		Name:      t.Name,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.rollup.ListTopicsWithAggregates(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]topicSummaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = topicSummaryResponse{
			topicResponse:  toResponse(s.Topic),
			TotalCampaigns: s.TotalCampaigns,
			TotalValue:     s.TotalValue,
			DisplayTotal:   s.DisplayTotal,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

// options lists the topics new campaigns may be filed under.
func (h *Handler) options(w http.ResponseWriter, r *http.Request) {
	topics, err := h.ledger.ListTopicOptions(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]topicResponse, len(topics))
	for i, t := range topics {
		resp[i] = toResponse(t)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	t, err := h.ledger.GetTopic(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

type createTopicRequest struct {
	Name   string                `json:"name"`
	Status lifecycle.TopicStatus `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTopicRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if req.Status == "" {
		req.Status = lifecycle.TopicPending
	}

	t, err := h.ledger.CreateTopic(r.Context(), ledger.CreateTopicParams{Name: req.Name, Status: req.Status})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

type updateTopicRequest struct {
	Name   *string                `json:"name,omitempty"`
	Status *lifecycle.TopicStatus `json:"status,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	var req updateTopicRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	t, err := h.ledger.UpdateTopic(r.Context(), id, ledger.UpdateTopicParams{Name: req.Name, Status: req.Status})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteTopic(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
