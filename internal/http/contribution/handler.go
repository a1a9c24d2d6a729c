package contribution

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kongbun/internal/http/respond"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/media"
)

type Handler struct {
	ledger   *ledger.Service
	resolver media.Resolver
}

func NewHandler(l *ledger.Service, resolver media.Resolver) *Handler {
	if resolver == nil {
		resolver = media.Passthrough{}
	}

	return &Handler{ledger: l, resolver: resolver}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/slip", h.attachSlip)
}

type slipResponse struct {
	ID  uuid.UUID `json:"id"`
	Ref string    `json:"ref"`
	URL string    `json:"url,omitempty"`
}

type contributionResponse struct {
	ID                   uuid.UUID               `json:"id"`
	CampaignID           uuid.UUID               `json:"campaign_id"`
	AmountUnits          int64                   `json:"amount_units"`
	UnitPrice            int64                   `json:"unit_price"`
	Value                decimal.Decimal         `json:"value"`
	ContributorChannelID string                  `json:"contributor_channel_id,omitempty"`
	ContributorName      string                  `json:"contributor_name,omitempty"`
	SourceChannel        ledger.SourceChannel    `json:"source_channel"`
	SourceCode           string                  `json:"source_code"`
	Details              *ledger.DetailsEnvelope `json:"details,omitempty"`
	Slip                 *slipResponse           `json:"slip,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
}

func (h *Handler) toResponse(r *http.Request, c *ledger.Contribution) (contributionResponse, error) {
	details, err := ledger.NewDetailsEnvelope(c.Details)
	if err != nil {
		return contributionResponse{}, err
	}

	resp := contributionResponse{
		ID:                   c.ID,
		CampaignID:           c.CampaignID,
		AmountUnits:          c.AmountUnits,
		UnitPrice:            c.UnitPrice,
		Value:                c.Value(),
		ContributorChannelID: c.ContributorChannelID,
		ContributorName:      c.ContributorName,
		SourceChannel:        c.Source,
		SourceCode:           c.Source.Code(),
		Details:              details,
		CreatedAt:            c.CreatedAt,
	}

	if c.Slip != nil {
		url, err := h.resolver.Resolve(r.Context(), c.Slip.Ref)
		if err != nil {
			return contributionResponse{}, err
		}

		resp.Slip = &slipResponse{ID: c.Slip.ID, Ref: c.Slip.Ref, URL: url}
	}

	return resp, nil
}

// list requires exactly one of campaign_id or topic_id.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := respond.OptionalID(w, r, "campaign_id")
	if !ok {
		return
	}

	topicID, ok := respond.OptionalID(w, r, "topic_id")
	if !ok {
		return
	}

	cs, err := h.ledger.ListContributions(r.Context(), ledger.ContributionFilter{CampaignID: campaignID, TopicID: topicID})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]contributionResponse, len(cs))

	for i, c := range cs {
		resp[i], err = h.toResponse(r, c)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	c, err := h.ledger.GetContribution(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeContribution(w, r, http.StatusOK, c)
}

type createContributionRequest struct {
	CampaignID           uuid.UUID               `json:"campaign_id"`
	AmountUnits          int64                   `json:"amount_units"`
	ContributorChannelID string                  `json:"contributor_channel_id"`
	ContributorName      string                  `json:"contributor_name"`
	SourceChannel        string                  `json:"source_channel"`
	Details              *ledger.DetailsEnvelope `json:"details,omitempty"`
	SlipRef              string                  `json:"slip_ref"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createContributionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	source, err := ledger.ParseSourceChannel(req.SourceChannel)
	if err != nil {
		respond.BadRequest(w, "source_channel", err.Error())
		return
	}

	details, err := req.Details.Details()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.ledger.CreateContribution(r.Context(), ledger.CreateContributionParams{
		CampaignID:           req.CampaignID,
		AmountUnits:          req.AmountUnits,
		Details:              details,
		ContributorChannelID: req.ContributorChannelID,
		ContributorName:      req.ContributorName,
		Source:               source,
		SlipRef:              req.SlipRef,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeContribution(w, r, http.StatusCreated, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteContribution(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type attachSlipRequest struct {
	SlipRef string `json:"slip_ref"`
}

func (h *Handler) attachSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.URLID(w, r)
	if !ok {
		return
	}

	var req attachSlipRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.ledger.AttachSlip(r.Context(), id, req.SlipRef)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeContribution(w, r, http.StatusOK, c)
}

func (h *Handler) writeContribution(w http.ResponseWriter, r *http.Request, status int, c *ledger.Contribution) {
	resp, err := h.toResponse(r, c)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, status, resp)
}
