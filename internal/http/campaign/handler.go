package campaign

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kongbun/internal/http/respond"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
	"github.com/MrJamesThe3rd/kongbun/internal/media"
	"github.com/MrJamesThe3rd/kongbun/internal/pricing"
	"github.com/MrJamesThe3rd/kongbun/internal/rollup"
)

type Handler struct {
	ledger   *ledger.Service
	rollup   *rollup.Service
	resolver media.Resolver
}

func NewHandler(l *ledger.Service, r *rollup.Service, resolver media.Resolver) *Handler {
	if resolver == nil {
		resolver = media.Passthrough{}
	}

	return &Handler{ledger: l, rollup: r, resolver: resolver}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type pricingDTO struct {
	Kind       pricing.Kind `json:"kind"`
	UnitPrice  int64        `json:"unit_price,omitempty"`
	StockLimit int64        `json:"stock_limit,omitempty"`
}

func (p pricingDTO) mode() (pricing.Mode, error) {
	kind, err := pricing.ParseKind(string(p.Kind))
	if err != nil {
		return nil, &ledger.ValidationError{Field: "pricing.kind", Reason: err.Error()}
	}

	if kind == pricing.KindOpen {
		return pricing.Open{}, nil
	}

	return pricing.Fixed{Price: p.UnitPrice, StockLimit: p.StockLimit}, nil
}

type pricingResponse struct {
	Kind      pricing.Kind  `json:"kind"`
	UnitPrice int64         `json:"unit_price"`
	Stock     pricing.Stock `json:"stock"`
}

type campaignResponse struct {
	ID           uuid.UUID                `json:"id"`
	TopicID      *uuid.UUID               `json:"topic_id"`
	Name         string                   `json:"name"`
	Description  string                   `json:"description"`
	Status       lifecycle.CampaignStatus `json:"status"`
	Pricing      pricingResponse          `json:"pricing"`
	ImageRef     string                   `json:"image_ref,omitempty"`
	ImageURL     string                   `json:"image_url,omitempty"`
	DetailsKind  ledger.DetailsKind       `json:"details_kind"`
	ReplyMessage string                   `json:"reply_message,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

type campaignSummaryResponse struct {
	campaignResponse
	TotalContributions int64           `json:"total_contributions"`
	TotalUnits         decimal.Decimal `json:"total_units"`
	TotalValue         decimal.Decimal `json:"total_value"`
	Display            pricing.Display `json:"display"`
}

func (h *Handler) toResponse(r *http.Request, c *ledger.Campaign) (campaignResponse, error) {
	imageURL, err := h.resolver.Resolve(r.Context(), c.ImageRef)
	if err != nil {
		return campaignResponse{}, err
	}

	return campaignResponse{
		ID:          c.ID,
		TopicID:     c.TopicID,
		Name:        c.Name,
		Description: c.Description,
		Status:      c.Status,
		Pricing: pricingResponse{
			Kind:      c.Pricing.Kind(),
			UnitPrice: c.Pricing.UnitPrice(),
			Stock:     c.Pricing.Stock(),
		},
		ImageRef:     c.ImageRef,
		ImageURL:     imageURL,
		DetailsKind:  c.DetailsKind,
		ReplyMessage: c.ReplyMessage,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	topicID, ok := respond.OptionalID(w, r, "topic_id")
	if !ok {
		return
	}

	summaries, err := h.rollup.ListCampaignsWithAggregates(r.Context(), topicID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]campaignSummaryResponse, len(summaries))

	for i, s := range summaries {
		c, err := h.toResponse(r, s.Campaign)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		resp[i] = campaignSummaryResponse{
			campaignResponse:   c,
			TotalContributions: s.TotalContributions,
			TotalUnits:         s.TotalUnits,
			TotalValue:         s.TotalValue,
			Display:            s.Display,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	c, err := h.ledger.GetCampaign(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeCampaign(w, r, http.StatusOK, c)
}

type createCampaignRequest struct {
	TopicID      uuid.UUID                `json:"topic_id"`
	Name         string                   `json:"name"`
	Description  string                   `json:"description"`
	Status       lifecycle.CampaignStatus `json:"status"`
	Pricing      pricingDTO               `json:"pricing"`
	ImageRef     string                   `json:"image_ref"`
	DetailsKind  ledger.DetailsKind       `json:"details_kind"`
	ReplyMessage string                   `json:"reply_message"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	mode, err := req.Pricing.mode()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.Status == "" {
		req.Status = lifecycle.CampaignPending
	}

	c, err := h.ledger.CreateCampaign(r.Context(), ledger.CreateCampaignParams{
		TopicID:      req.TopicID,
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		Pricing:      mode,
		ImageRef:     req.ImageRef,
		DetailsKind:  req.DetailsKind,
		ReplyMessage: req.ReplyMessage,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeCampaign(w, r, http.StatusCreated, c)
}

type updateCampaignRequest struct {
	TopicID      *uuid.UUID                `json:"topic_id,omitempty"`
	Name         *string                   `json:"name,omitempty"`
	Description  *string                   `json:"description,omitempty"`
	Status       *lifecycle.CampaignStatus `json:"status,omitempty"`
	Pricing      *pricingDTO               `json:"pricing,omitempty"`
	ImageRef     *string                   `json:"image_ref,omitempty"`
	DetailsKind  *ledger.DetailsKind       `json:"details_kind,omitempty"`
	ReplyMessage *string                   `json:"reply_message,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	var req updateCampaignRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := ledger.UpdateCampaignParams{
		TopicID:      req.TopicID,
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		ImageRef:     req.ImageRef,
		DetailsKind:  req.DetailsKind,
		ReplyMessage: req.ReplyMessage,
	}

	if req.Pricing != nil {
		mode, err := req.Pricing.mode()
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params.Pricing = mode
	}

	c, err := h.ledger.UpdateCampaign(r.Context(), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeCampaign(w, r, http.StatusOK, c)
}

type deleteCampaignResponse struct {
	ID                   uuid.UUID `json:"id"`
	RemovedContributions int64     `json:"removed_contributions"`
}

// delete removes the campaign. One with contributions is only removed,
// together with them, when ?cascade=true.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	cascade := r.URL.Query().Get("cascade") == "true"

	removed, err := h.ledger.DeleteCampaign(r.Context(), id, cascade)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, deleteCampaignResponse{ID: id, RemovedContributions: removed})
}

func (h *Handler) writeCampaign(w http.ResponseWriter, r *http.Request, status int, c *ledger.Campaign) {
	resp, err := h.toResponse(r, c)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, status, resp)
}
