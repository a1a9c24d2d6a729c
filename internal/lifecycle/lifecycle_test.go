package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kongbun/internal/lifecycle"
)

func TestCheckTopicDelete(t *testing.T) {
	tests := []struct {
		status  lifecycle.TopicStatus
		wantErr bool
	}{
		{status: lifecycle.TopicInProgress, wantErr: false},
		{status: lifecycle.TopicPending, wantErr: true},
		{status: lifecycle.TopicClosed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			err := lifecycle.CheckTopicDelete(tt.status)
			if tt.wantErr {
				assert.ErrorIs(t, err, lifecycle.ErrTopicNotDeletable)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestParseStatus(t *testing.T) {
	ts, err := lifecycle.ParseTopicStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.TopicInProgress, ts)

	_, err = lifecycle.ParseTopicStatus("archived")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStatus)

	cs, err := lifecycle.ParseCampaignStatus("open")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.CampaignOpen, cs)
	assert.True(t, cs.AcceptsContributions())
	assert.False(t, lifecycle.CampaignClosed.AcceptsContributions())

	_, err = lifecycle.ParseCampaignStatus("")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStatus)
}

func TestPolicies(t *testing.T) {
	type testCase struct {
		name    string
		policy  lifecycle.Policy
		from    lifecycle.CampaignStatus
		to      lifecycle.CampaignStatus
		wantErr error
	}

	tests := []testCase{
		{name: "UnrestrictedBackwards", policy: lifecycle.Unrestricted{}, from: lifecycle.CampaignClosed, to: lifecycle.CampaignPending},
		{name: "UnrestrictedInvalid", policy: lifecycle.Unrestricted{}, from: lifecycle.CampaignOpen, to: "done", wantErr: lifecycle.ErrInvalidStatus},
		{name: "ForwardOpen", policy: lifecycle.Forward{}, from: lifecycle.CampaignPending, to: lifecycle.CampaignOpen},
		{name: "ForwardSkip", policy: lifecycle.Forward{}, from: lifecycle.CampaignPending, to: lifecycle.CampaignClosed},
		{name: "ForwardSame", policy: lifecycle.Forward{}, from: lifecycle.CampaignOpen, to: lifecycle.CampaignOpen},
		{name: "ForwardBackwards", policy: lifecycle.Forward{}, from: lifecycle.CampaignClosed, to: lifecycle.CampaignOpen, wantErr: lifecycle.ErrTransitionNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.CheckCampaign(tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestPolicyByName(t *testing.T) {
	p, err := lifecycle.PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Unrestricted{}, p)

	p, err = lifecycle.PolicyByName("forward")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Forward{}, p)

	_, err = lifecycle.PolicyByName("strict")
	assert.ErrorIs(t, err, lifecycle.ErrUnknownPolicy)
}
