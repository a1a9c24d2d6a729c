package broadcast

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kongbun/internal/broadcast"
	"github.com/MrJamesThe3rd/kongbun/internal/http/respond"
)

type Handler struct {
	svc *broadcast.Service
}

func NewHandler(svc *broadcast.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/audience", h.audience)
	r.Post("/", h.dispatch)
}

type scopeDTO struct {
	Kind broadcast.ScopeKind `json:"kind"`
	ID   uuid.UUID           `json:"id,omitzero"`
}

type audienceRequest struct {
	Scope  scopeDTO `json:"scope"`
	Window string   `json:"window"`
}

type dispatchRequest struct {
	Scope    scopeDTO       `json:"scope"`
	Window   string         `json:"window"`
	Template string         `json:"template"`
	Payload  map[string]any `json:"payload,omitempty"`
}

type audienceResponse struct {
	Scope      scopeDTO         `json:"scope"`
	Window     broadcast.Window `json:"window"`
	Cutoff     *time.Time       `json:"cutoff,omitempty"`
	Count      int              `json:"count"`
	Recipients []string         `json:"recipients"`
}

type dispatchResponse struct {
	Audience   audienceResponse `json:"audience"`
	Dispatched bool             `json:"dispatched"`
}

func toAudienceResponse(a *broadcast.Audience) audienceResponse {
	return audienceResponse{
		Scope:      scopeDTO{Kind: a.Scope.Kind, ID: a.Scope.ID},
		Window:     a.Window,
		Cutoff:     a.Cutoff,
		Count:      len(a.Recipients),
		Recipients: a.Recipients,
	}
}

// audience previews who a broadcast would reach without sending anything.
func (h *Handler) audience(w http.ResponseWriter, r *http.Request) {
	var req audienceRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	window, err := broadcast.ParseWindow(req.Window)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	a, err := h.svc.SelectAudience(r.Context(), broadcast.Scope{Kind: req.Scope.Kind, ID: req.Scope.ID}, window)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAudienceResponse(a))
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	window, err := broadcast.ParseWindow(req.Window)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.Broadcast(r.Context(),
		broadcast.Scope{Kind: req.Scope.Kind, ID: req.Scope.ID},
		window,
		broadcast.Message{Template: req.Template, Payload: req.Payload},
	)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, dispatchResponse{Audience: toAudienceResponse(res.Audience), Dispatched: res.Dispatched})
}
