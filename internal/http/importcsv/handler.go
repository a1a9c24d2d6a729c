package importcsv

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kongbun/internal/http/respond"
	"github.com/MrJamesThe3rd/kongbun/internal/importer"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type rowDTO struct {
	AmountUnits          int64                   `json:"amount_units"`
	ContributorChannelID string                  `json:"contributor_channel_id,omitempty"`
	ContributorName      string                  `json:"contributor_name,omitempty"`
	SourceChannel        ledger.SourceChannel    `json:"source_channel"`
	Details              *ledger.DetailsEnvelope `json:"details,omitempty"`
	SlipRef              string                  `json:"slip_ref,omitempty"`
	RecordedAt           *time.Time              `json:"recorded_at,omitempty"`
}

type importResponse struct {
	CampaignID uuid.UUID       `json:"campaign_id"`
	Imported   int             `json:"imported"`
	TotalUnits decimal.Decimal `json:"total_units"`
	IDs        []uuid.UUID     `json:"ids"`
}

func toRowDTO(p ledger.CreateContributionParams) (rowDTO, error) {
	details, err := ledger.NewDetailsEnvelope(p.Details)
	if err != nil {
		return rowDTO{}, err
	}

	dto := rowDTO{
		AmountUnits:          p.AmountUnits,
		ContributorChannelID: p.ContributorChannelID,
		ContributorName:      p.ContributorName,
		SourceChannel:        p.Source,
		Details:              details,
		SlipRef:              p.SlipRef,
	}

	if !p.RecordedAt.IsZero() {
		dto.RecordedAt = &p.RecordedAt
	}

	return dto, nil
}

// importCSV records every row of the uploaded sheet against one campaign,
// or none of them.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.BadRequest(w, "form", err.Error())
		return
	}

	campaignID, ok := respond.ParseID(w, "campaign_id", r.FormValue("campaign_id"))
	if !ok {
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file", "is required")
		return
	}
	defer file.Close()

	sum, err := h.svc.Import(r.Context(), campaignID, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ids := make([]uuid.UUID, len(sum.Contributions))
	for i, c := range sum.Contributions {
		ids[i] = c.ID
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		CampaignID: sum.CampaignID,
		Imported:   sum.Imported,
		TotalUnits: sum.TotalUnits,
		IDs:        ids,
	})
}

// preview parses the uploaded sheet and echoes the rows without writing.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.BadRequest(w, "form", err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file", "is required")
		return
	}
	defer file.Close()

	rows, err := h.svc.Preview(file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]rowDTO, len(rows))

	for i, p := range rows {
		resp[i], err = toRowDTO(p)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
