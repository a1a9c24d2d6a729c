// Package export renders a campaign's contributions for spreadsheets and
// for pasting into chat.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
	"github.com/MrJamesThe3rd/kongbun/internal/media"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=export
type Ledger interface {
	GetCampaign(ctx context.Context, id uuid.UUID) (*ledger.Campaign, error)
	ListContributions(ctx context.Context, filter ledger.ContributionFilter) ([]*ledger.Contribution, error)
}

var header = []string{"#", "สลิป", "ข้อมูลผู้ร่วมบุญ", "คำขอพร", "จำนวน", "ชื่อไลน์", "ที่มา", "วันที่"}

// utf8BOM makes spreadsheet tools open the sheet as UTF-8 instead of the
// system code page.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const timeLayout = "2006-01-02 15:04"

// formulaPrefixes start a formula in spreadsheet tools.
const formulaPrefixes = "=+-@\t\r"

// Service handles the export of a campaign's contributions.
type Service struct {
	ledger   Ledger
	resolver media.Resolver
}

func NewService(l Ledger, resolver media.Resolver) *Service {
	if resolver == nil {
		resolver = media.Passthrough{}
	}

	return &Service{ledger: l, resolver: resolver}
}

// Table is the campaign and its contribution rows, header first.
type Table struct {
	Campaign *ledger.Campaign
	Rows     [][]string
}

// Build loads the campaign and renders one row per contribution in
// creation order, resolving slip refs to URLs.
func (s *Service) Build(ctx context.Context, campaignID uuid.UUID) (*Table, error) {
	campaign, err := s.ledger.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	contributions, err := s.ledger.ListContributions(ctx, ledger.ContributionFilter{CampaignID: &campaignID})
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}

	rows := make([][]string, 0, len(contributions)+1)
	rows = append(rows, header)

	for i, c := range contributions {
		slipURL := ""
		if c.Slip != nil {
			slipURL, err = s.resolver.Resolve(ctx, c.Slip.Ref)
			if err != nil {
				return nil, fmt.Errorf("resolving slip for contribution %s: %w", c.ID, err)
			}
		}

		info, wish := describe(c)

		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			safeCell(slipURL),
			safeCell(info),
			safeCell(wish),
			strconv.FormatInt(c.AmountUnits, 10),
			safeCell(c.ContributorName),
			c.Source.Code(),
			c.CreatedAt.Format(timeLayout),
		})
	}

	return &Table{Campaign: campaign, Rows: rows}, nil
}

// WriteCSV writes t as a UTF-8 CSV with a byte order mark.
func (t *Table) WriteCSV(w io.Writer) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// Text renders t tab-separated, one line per row, for pasting into a chat
// or a spreadsheet. Line breaks inside cells become spaces.
func (t *Table) Text() string {
	var sb strings.Builder

	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteByte('\t')
			}

			sb.WriteString(flatten(cell))
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}

// Filename is a download name for the sheet that is safe in a header.
func (t *Table) Filename() string {
	return "campaign-" + t.Campaign.ID.String() + ".csv"
}

// describe splits details into the contributor info and wish columns.
func describe(c *ledger.Contribution) (info, wish string) {
	switch d := c.Details.(type) {
	case ledger.Wish:
		return d.Name, d.Wish
	case nil:
		return c.ContributorName, ""
	default:
		return ledger.Summary(d), ""
	}
}

// safeCell quotes contributor text that a spreadsheet would otherwise
// evaluate as a formula.
func safeCell(s string) string {
	trimmed := strings.TrimLeft(s, " ")
	if trimmed != "" && strings.ContainsRune(formulaPrefixes, rune(trimmed[0])) {
		return "'" + s
	}

	return s
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
