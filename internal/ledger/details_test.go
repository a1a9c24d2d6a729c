package ledger_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
)

func TestDetailsRoundTrip(t *testing.T) {
	tests := []ledger.Details{
		ledger.NameOnly{Name: "สมหญิง"},
		ledger.BirthInfo{Name: "สมชาย", Date: "12", Month: "มีนาคม", Year: "2530", Time: "06:30", Constellation: "มีน", Age: "37"},
		ledger.FreeText{Text: "ถวายเพล"},
		ledger.Wish{Name: "ครอบครัว", Wish: "ขอให้ค้าขายร่ำรวย"},
		nil,
	}

	for _, d := range tests {
		kind, data, err := ledger.EncodeDetails(d)
		require.NoError(t, err)

		got, err := ledger.DecodeDetails(kind, data)
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestDetailsEnvelope(t *testing.T) {
	var env ledger.DetailsEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"birth_info","data":{"name":"ก","year":"2530"}}`), &env))

	d, err := env.Details()
	require.NoError(t, err)
	assert.Equal(t, ledger.BirthInfo{Name: "ก", Year: "2530"}, d)

	bad := ledger.DetailsEnvelope{Kind: "horoscope"}
	_, err = bad.Details()
	assert.ErrorIs(t, err, ledger.ErrValidation)

	out, err := ledger.NewDetailsEnvelope(ledger.FreeText{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, ledger.DetailsFreeText, out.Kind)
	assert.JSONEq(t, `{"text":"x"}`, string(out.Data))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "สมชาย 12 มีนาคม 2530", ledger.Summary(ledger.BirthInfo{Name: "สมชาย", Date: "12", Month: "มีนาคม", Year: "2530"}))
	assert.Equal(t, "ก: ขอให้หายป่วย", ledger.Summary(ledger.Wish{Name: "ก", Wish: "ขอให้หายป่วย"}))
	assert.Equal(t, "ขอให้หายป่วย", ledger.Summary(ledger.Wish{Wish: "ขอให้หายป่วย"}))
	assert.Empty(t, ledger.Summary(nil))
}

func TestParseSourceChannel(t *testing.T) {
	for in, want := range map[string]ledger.SourceChannel{
		"L":               ledger.SourceLine,
		"line":            ledger.SourceLine,
		"IB":              ledger.SourceInstantMessage,
		"instant_message": ledger.SourceInstantMessage,
		"P":               ledger.SourcePhone,
	} {
		got, err := ledger.ParseSourceChannel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ledger.ParseSourceChannel("email")
	assert.Error(t, err)
}
