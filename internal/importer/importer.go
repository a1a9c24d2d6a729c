// Package importer reads contribution sheets exported from spreadsheets or
// chat tools and turns each row into ledger.CreateContributionParams.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/kongbun/internal/encoding"
	"github.com/MrJamesThe3rd/kongbun/internal/ledger"
)

type column string

const (
	colAmount        column = "amount"
	colContributor   column = "contributor_name"
	colChannelID     column = "channel_id"
	colSource        column = "source"
	colName          column = "name"
	colWish          column = "wish"
	colText          column = "text"
	colBirthDate     column = "birth_date"
	colBirthMonth    column = "birth_month"
	colBirthYear     column = "birth_year"
	colBirthTime     column = "birth_time"
	colConstellation column = "constellation"
	colAge           column = "age"
	colRecordedAt    column = "recorded_at"
	colSlip          column = "slip_ref"
)

// aliases maps every accepted header, lower-cased, to its column. Sheets
// are filled in by hand in Thai or English.
var aliases = map[string]column{
	"amount":           colAmount,
	"amount_units":     colAmount,
	"units":            colAmount,
	"จำนวน":            colAmount,
	"contributor_name": colContributor,
	"line_name":        colContributor,
	"ชื่อไลน์":         colContributor,
	"channel_id":       colChannelID,
	"line_id":          colChannelID,
	"user_id":          colChannelID,
	"source":           colSource,
	"source_channel":   colSource,
	"ช่องทาง":          colSource,
	"name":             colName,
	"ชื่อ":             colName,
	"wish":             colWish,
	"คำอธิษฐาน":        colWish,
	"text":             colText,
	"ข้อความ":          colText,
	"birth_date":       colBirthDate,
	"วันเกิด":          colBirthDate,
	"birth_month":      colBirthMonth,
	"เดือนเกิด":        colBirthMonth,
	"birth_year":       colBirthYear,
	"ปีเกิด":           colBirthYear,
	"birth_time":       colBirthTime,
	"เวลาเกิด":         colBirthTime,
	"constellation":    colConstellation,
	"ลัคนา":            colConstellation,
	"age":              colAge,
	"อายุ":             colAge,
	"recorded_at":      colRecordedAt,
	"date":             colRecordedAt,
	"วันที่":           colRecordedAt,
	"slip":             colSlip,
	"slip_ref":         colSlip,
	"สลิป":             colSlip,
}

// maxUnits bounds a single row; larger values are typing mistakes.
const maxUnits = 1 << 53

// buddhistEraOffset converts Thai solar calendar years to Gregorian.
const buddhistEraOffset = 543

var yearPattern = regexp.MustCompile(`\d{4}`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Parser reads a sheet whose header row names at least the amount column
// and one contributor column. Rows before the header are skipped, so title
// lines above the table are fine.
type Parser struct {
	defaultSource ledger.SourceChannel
	loc           *time.Location
}

type ParserOption func(*Parser)

// WithDefaultSource sets the channel for rows that leave source empty.
func WithDefaultSource(s ledger.SourceChannel) ParserOption {
	return func(p *Parser) { p.defaultSource = s }
}

// WithLocation sets the zone for recorded_at values without an offset.
func WithLocation(loc *time.Location) ParserOption {
	return func(p *Parser) { p.loc = loc }
}

func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{defaultSource: ledger.SourceLine, loc: time.UTC}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Parser) Parse(r io.Reader) ([]ledger.CreateContributionParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := detectHeader(rows)
	if !ok {
		return nil, &ledger.ValidationError{
			Field:  "file",
			Reason: "no header row with an amount column and a name, line_name or channel_id column",
		}
	}

	return p.parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

// sniffDelimiter picks tab when the first line has one, comma otherwise.
func sniffDelimiter(br *bufio.Reader) rune {
	buf, _ := br.Peek(br.Size())
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		buf = buf[:i]
	}

	if bytes.IndexByte(buf, '\t') >= 0 {
		return '\t'
	}

	return ','
}

type colIndex map[column]int

func detectHeader(rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if c, ok := aliases[strings.ToLower(strings.TrimSpace(cell))]; ok {
				if _, dup := cols[c]; !dup {
					cols[c] = i
				}
			}
		}

		if cols.has(colAmount) && (cols.has(colName) || cols.has(colContributor) || cols.has(colChannelID)) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func (c colIndex) has(col column) bool {
	_, ok := c[col]
	return ok
}

func (c colIndex) value(row []string, col column) string {
	idx, ok := c[col]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// parseRows converts data rows. Blank rows are skipped; any other bad row
// fails the whole sheet so an import is never partial.
func (p *Parser) parseRows(cols colIndex, rows [][]string, headerRowNum int) ([]ledger.CreateContributionParams, error) {
	var out []ledger.CreateContributionParams

	for i, row := range rows {
		if isBlank(row) {
			continue
		}

		rowNum := headerRowNum + i + 1 // 1-based line in the sheet

		params, err := p.parseRow(cols, row)
		if err != nil {
			return nil, &ledger.ValidationError{Field: fmt.Sprintf("row %d", rowNum), Reason: err.Error()}
		}

		out = append(out, params)
	}

	if len(out) == 0 {
		return nil, &ledger.ValidationError{Field: "file", Reason: "no contribution rows"}
	}

	return out, nil
}

func (p *Parser) parseRow(cols colIndex, row []string) (ledger.CreateContributionParams, error) {
	units, err := parseUnits(cols.value(row, colAmount))
	if err != nil {
		return ledger.CreateContributionParams{}, err
	}

	source := p.defaultSource
	if s := cols.value(row, colSource); s != "" {
		source, err = ledger.ParseSourceChannel(s)
		if err != nil {
			return ledger.CreateContributionParams{}, err
		}
	}

	var recordedAt time.Time
	if s := cols.value(row, colRecordedAt); s != "" {
		recordedAt, err = p.parseTime(s)
		if err != nil {
			return ledger.CreateContributionParams{}, err
		}
	}

	name := cols.value(row, colName)
	contributor := cols.value(row, colContributor)
	if contributor == "" {
		contributor = name
	}

	return ledger.CreateContributionParams{
		AmountUnits:          units,
		Details:              detailsOf(cols, row, name),
		ContributorChannelID: cols.value(row, colChannelID),
		ContributorName:      contributor,
		Source:               source,
		SlipRef:              cols.value(row, colSlip),
		RecordedAt:           recordedAt,
	}, nil
}

// parseUnits accepts "3", "1,000" or "5.00" but not fractions or values
// below one.
func parseUnits(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}

	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("amount %q is not a whole number", s)
	}

	if d.LessThan(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("amount %q must be at least 1", s)
	}

	if d.GreaterThan(decimal.NewFromInt(maxUnits)) {
		return 0, fmt.Errorf("amount %q is too large", s)
	}

	return d.IntPart(), nil
}

// parseTime accepts the common sheet layouts. Years past 2400 are read as
// Buddhist era and rewritten before parsing so that day-of-month is checked
// against the Gregorian calendar.
func (p *Parser) parseTime(s string) (time.Time, error) {
	text := gregorianYear(s)

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, text, p.loc)
		if err != nil {
			continue
		}

		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("recorded_at %q is not a recognised date", s)
}

// gregorianYear replaces the first four-digit run of s with its Gregorian
// year when it is past 2400.
func gregorianYear(s string) string {
	loc := yearPattern.FindStringIndex(s)
	if loc == nil {
		return s
	}

	year, err := strconv.Atoi(s[loc[0]:loc[1]])
	if err != nil || year <= 2400 {
		return s
	}

	return s[:loc[0]] + strconv.Itoa(year-buddhistEraOffset) + s[loc[1]:]
}

// detailsOf picks the richest variant the row fills in.
func detailsOf(cols colIndex, row []string, name string) ledger.Details {
	birth := ledger.BirthInfo{
		Name:          name,
		Date:          cols.value(row, colBirthDate),
		Month:         cols.value(row, colBirthMonth),
		Year:          cols.value(row, colBirthYear),
		Time:          cols.value(row, colBirthTime),
		Constellation: cols.value(row, colConstellation),
		Age:           cols.value(row, colAge),
	}

	switch {
	case birth.Date != "" || birth.Month != "" || birth.Year != "":
		return birth
	case cols.value(row, colWish) != "":
		return ledger.Wish{Name: name, Wish: cols.value(row, colWish)}
	case cols.value(row, colText) != "":
		return ledger.FreeText{Text: cols.value(row, colText)}
	case name != "":
		return ledger.NameOnly{Name: name}
	}

	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
