// Package lifecycle holds the status state machines of topics and campaigns.
//
// Status changes are always explicit admin actions; nothing here moves an
// entity between states on its own.
package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus        = errors.New("invalid status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrTopicNotDeletable    = errors.New("topic can only be deleted while in progress")
	ErrUnknownPolicy        = errors.New("unknown transition policy")
)

// TopicStatus is the status of a topic. It guards deletion and nothing else.
type TopicStatus string

const (
	TopicPending    TopicStatus = "pending"
	TopicInProgress TopicStatus = "in_progress"
	TopicClosed     TopicStatus = "closed"
)

// DeletableTopicStatus is the only status in which a topic may be deleted.
const DeletableTopicStatus = TopicInProgress

func (s TopicStatus) Valid() bool {
	switch s {
	case TopicPending, TopicInProgress, TopicClosed:
		return true
	}

	return false
}

// Deletable reports whether a topic in status s may be deleted.
func (s TopicStatus) Deletable() bool {
	return s == DeletableTopicStatus
}

// ParseTopicStatus validates s.
func ParseTopicStatus(s string) (TopicStatus, error) {
	status := TopicStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: topic status %q", ErrInvalidStatus, s)
	}

	return status, nil
}

// CheckTopicDelete returns ErrTopicNotDeletable unless s allows deletion.
func CheckTopicDelete(s TopicStatus) error {
	if !s.Deletable() {
		return ErrTopicNotDeletable
	}

	return nil
}

// CampaignStatus is the status of a campaign: pending → open → closed.
type CampaignStatus string

const (
	CampaignPending CampaignStatus = "pending"
	CampaignOpen    CampaignStatus = "open"
	CampaignClosed  CampaignStatus = "closed"
)

func (s CampaignStatus) Valid() bool {
	return s.rank() >= 0
}

// AcceptsContributions reports whether contributors may give to a campaign
// in status s.
func (s CampaignStatus) AcceptsContributions() bool {
	return s == CampaignOpen
}

func (s CampaignStatus) rank() int {
	switch s {
	case CampaignPending:
		return 0
	case CampaignOpen:
		return 1
	case CampaignClosed:
		return 2
	}

	return -1
}

// ParseCampaignStatus validates s.
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	status := CampaignStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: campaign status %q", ErrInvalidStatus, s)
	}

	return status, nil
}

// Policy decides whether an admin may move a campaign between two states.
type Policy interface {
	CheckCampaign(from, to CampaignStatus) error
}

// Unrestricted accepts any transition into a valid state.
type Unrestricted struct{}

func (Unrestricted) CheckCampaign(_, to CampaignStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: campaign status %q", ErrInvalidStatus, to)
	}

	return nil
}

// Forward only lets campaigns stay put or move towards closed.
type Forward struct{}

func (Forward) CheckCampaign(from, to CampaignStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: campaign status %q", ErrInvalidStatus, to)
	}

	if to.rank() < from.rank() {
		return fmt.Errorf("%w: %s → %s", ErrTransitionNotAllowed, from, to)
	}

	return nil
}

const (
	PolicyUnrestricted = "unrestricted"
	PolicyForward      = "forward"
)

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", PolicyUnrestricted:
		return Unrestricted{}, nil
	case PolicyForward:
		return Forward{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}
