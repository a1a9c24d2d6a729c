package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// FaithLabel replaces both price and stock of open campaigns.
	FaithLabel = "ตามกำลังศรัทธา"
	// CurrencySuffix follows totals of open campaigns, whose units are baht.
	CurrencySuffix = "(บาท)"
)

// Display is the human-readable rendering of a campaign's pricing and total.
type Display struct {
	Price string `json:"price"`
	Stock string `json:"stock"`
	Total string `json:"total"`
}

// Describe renders m and a campaign total for presentation. Open campaigns
// show the faith-based label regardless of contribution volume.
func Describe(m Mode, total decimal.Decimal) Display {
	p := message.NewPrinter(language.Thai)

	if m.Kind() == KindOpen {
		return Display{
			Price: FaithLabel,
			Stock: FaithLabel,
			Total: formatAmount(p, total) + " " + CurrencySuffix,
		}
	}

	return Display{
		Price: p.Sprintf("%d", m.UnitPrice()),
		Stock: p.Sprintf("%d", m.Stock().Limit),
		Total: formatAmount(p, total),
	}
}

// FormatAmount renders an amount with Thai digit grouping.
func FormatAmount(v decimal.Decimal) string {
	return formatAmount(message.NewPrinter(language.Thai), v)
}

func formatAmount(p *message.Printer, v decimal.Decimal) string {
	if v.IsInteger() && v.Abs().LessThanOrEqual(decimal.NewFromInt(1<<62)) {
		return p.Sprintf("%d", v.IntPart())
	}

	return v.String()
}
