// Package broadcast selects which past contributors should hear about a
// campaign and hands them to an external dispatcher.
package broadcast

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow  = errors.New("invalid broadcast window")
	ErrInvalidScope   = errors.New("invalid broadcast scope")
	ErrInvalidMessage = errors.New("invalid broadcast message")
)

// Window limits the audience to contributors seen within a recent period.
type Window string

const (
	WindowAll         Window = "all"
	WindowLast3Months Window = "3months"
	WindowLastYear    Window = "year"
	WindowNone        Window = "none"
)

// ParseWindow also accepts the labels used by the admin form.
func ParseWindow(s string) (Window, error) {
	switch s {
	case string(WindowAll), "Broadcast":
		return WindowAll, nil
	case string(WindowLast3Months):
		return WindowLast3Months, nil
	case string(WindowLastYear):
		return WindowLastYear, nil
	case string(WindowNone), "NOBroadcast":
		return WindowNone, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}

// Cutoff is the earliest contribution time included by w at now. ok is false
// when the window has no lower bound.
func (w Window) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	switch w {
	case WindowLast3Months:
		return now.AddDate(0, -3, 0), true
	case WindowLastYear:
		return now.AddDate(-1, 0, 0), true
	}

	return time.Time{}, false
}

type ScopeKind string

const (
	ScopeCampaign ScopeKind = "campaign"
	ScopeTopic    ScopeKind = "topic"
	ScopeEveryone ScopeKind = "everyone"
)

// Scope is the part of the ledger whose contributors are considered.
type Scope struct {
	Kind ScopeKind
	ID   uuid.UUID
}

func CampaignScope(id uuid.UUID) Scope { return Scope{Kind: ScopeCampaign, ID: id} }
func TopicScope(id uuid.UUID) Scope    { return Scope{Kind: ScopeTopic, ID: id} }
func Everyone() Scope                  { return Scope{Kind: ScopeEveryone} }

func (s Scope) validate() error {
	switch s.Kind {
	case ScopeCampaign, ScopeTopic:
		if s.ID == uuid.Nil {
			return fmt.Errorf("%w: %s id is required", ErrInvalidScope, s.Kind)
		}

		return nil
	case ScopeEveryone:
		return nil
	}

	return fmt.Errorf("%w: unknown kind %q", ErrInvalidScope, s.Kind)
}

// AudienceQuery is what the store filters contributions by.
type AudienceQuery struct {
	CampaignID *uuid.UUID
	TopicID    *uuid.UUID
	Since      *time.Time
}

func (s Scope) query(since *time.Time) AudienceQuery {
	q := AudienceQuery{Since: since}

	id := s.ID

	switch s.Kind {
	case ScopeCampaign:
		q.CampaignID = &id
	case ScopeTopic:
		q.TopicID = &id
	}

	return q
}

// Audience is a deduplicated, sorted set of contributor channel ids.
type Audience struct {
	Scope      Scope
	Window     Window
	Cutoff     *time.Time
	Recipients []string
}

// Message is what the dispatcher renders for each recipient.
type Message struct {
	Template string
	Payload  map[string]any
}

type Result struct {
	Audience   *Audience
	Dispatched bool
}
