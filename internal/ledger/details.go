package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DetailsKind tags the variant of a contribution's details.
type DetailsKind string

const (
	DetailsNone      DetailsKind = ""
	DetailsName      DetailsKind = "name"
	DetailsBirthInfo DetailsKind = "birth_info"
	DetailsFreeText  DetailsKind = "free_text"
	DetailsWish      DetailsKind = "wish"
)

func ParseDetailsKind(s string) (DetailsKind, error) {
	switch k := DetailsKind(s); k {
	case DetailsNone, DetailsName, DetailsBirthInfo, DetailsFreeText, DetailsWish:
		return k, nil
	}

	return "", fmt.Errorf("unknown details kind %q", s)
}

// Details is what a contributor wrote alongside a donation. Exactly one of
// NameOnly, BirthInfo, FreeText or Wish.
type Details interface {
	Kind() DetailsKind
	validate() error
}

// NameOnly is the name to dedicate the merit to.
type NameOnly struct {
	Name string `json:"name"`
}

// BirthInfo is used for ceremonies that need the participant's horoscope.
// Fields are kept as written; Thai forms mix calendars and free text.
type BirthInfo struct {
	Name          string `json:"name"`
	Date          string `json:"date,omitempty"`
	Month         string `json:"month,omitempty"`
	Year          string `json:"year,omitempty"`
	Time          string `json:"time,omitempty"`
	Constellation string `json:"constellation,omitempty"`
	Age           string `json:"age,omitempty"`
}

type FreeText struct {
	Text string `json:"text"`
}

type Wish struct {
	Name string `json:"name,omitempty"`
	Wish string `json:"wish"`
}

func (NameOnly) Kind() DetailsKind  { return DetailsName }
func (BirthInfo) Kind() DetailsKind { return DetailsBirthInfo }
func (FreeText) Kind() DetailsKind  { return DetailsFreeText }
func (Wish) Kind() DetailsKind      { return DetailsWish }

func (d NameOnly) validate() error {
	return requireText("details.name", d.Name)
}

func (d BirthInfo) validate() error {
	if err := requireText("details.name", d.Name); err != nil {
		return err
	}

	if d.Date == "" && d.Month == "" && d.Year == "" {
		return &ValidationError{Field: "details.year", Reason: "birth date is required"}
	}

	return nil
}

func (d FreeText) validate() error {
	return requireText("details.text", d.Text)
}

func (d Wish) validate() error {
	return requireText("details.wish", d.Wish)
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}

	return nil
}

// EncodeDetails serializes d for storage. A nil d encodes as DetailsNone
// with no payload.
func EncodeDetails(d Details) (DetailsKind, []byte, error) {
	if d == nil {
		return DetailsNone, nil, nil
	}

	data, err := json.Marshal(d)
	if err != nil {
		return "", nil, fmt.Errorf("encoding %s details: %w", d.Kind(), err)
	}

	return d.Kind(), data, nil
}

// DecodeDetails is the inverse of EncodeDetails.
func DecodeDetails(kind DetailsKind, data []byte) (Details, error) {
	var (
		d   Details
		err error
	)

	switch kind {
	case DetailsNone:
		return nil, nil
	case DetailsName:
		var v NameOnly
		err = json.Unmarshal(data, &v)
		d = v
	case DetailsBirthInfo:
		var v BirthInfo
		err = json.Unmarshal(data, &v)
		d = v
	case DetailsFreeText:
		var v FreeText
		err = json.Unmarshal(data, &v)
		d = v
	case DetailsWish:
		var v Wish
		err = json.Unmarshal(data, &v)
		d = v
	default:
		return nil, fmt.Errorf("unknown details kind %q", kind)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s details: %w", kind, err)
	}

	return d, nil
}

// DetailsEnvelope is the wire form of Details.
type DetailsEnvelope struct {
	Kind DetailsKind     `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

func NewDetailsEnvelope(d Details) (*DetailsEnvelope, error) {
	if d == nil {
		return nil, nil
	}

	kind, data, err := EncodeDetails(d)
	if err != nil {
		return nil, err
	}

	return &DetailsEnvelope{Kind: kind, Data: data}, nil
}

func (e *DetailsEnvelope) Details() (Details, error) {
	if e == nil {
		return nil, nil
	}

	d, err := DecodeDetails(e.Kind, e.Data)
	if err != nil {
		return nil, &ValidationError{Field: "details", Reason: err.Error()}
	}

	return d, nil
}

// Summary renders d as a single line, the way the sheet and clipboard
// exports show it.
func Summary(d Details) string {
	switch v := d.(type) {
	case NameOnly:
		return v.Name
	case BirthInfo:
		parts := []string{v.Name}
		for _, p := range []string{v.Date, v.Month, v.Year, v.Time, v.Constellation, v.Age} {
			if p != "" {
				parts = append(parts, p)
			}
		}

		return strings.Join(parts, " ")
	case FreeText:
		return v.Text
	case Wish:
		if v.Name == "" {
			return v.Wish
		}

		return v.Name + ": " + v.Wish
	}

	return ""
}
