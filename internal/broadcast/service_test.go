package broadcast_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kongbun/internal/auth"
	"github.com/MrJamesThe3rd/kongbun/internal/broadcast"
)

var now = time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*broadcast.Service, *broadcast.MockRepository, *broadcast.MockDispatcher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := broadcast.NewMockRepository(ctrl)
	dispatcher := broadcast.NewMockDispatcher(ctrl)

	svc := broadcast.NewService(repo, dispatcher, broadcast.WithClock(func() time.Time { return now }))

	return svc, repo, dispatcher
}

func adminCtx() context.Context {
	return auth.WithContext(context.Background(), auth.Context{Subject: "admin", Role: auth.RoleAdmin})
}

func TestParseWindow(t *testing.T) {
	tests := map[string]broadcast.Window{
		"all":         broadcast.WindowAll,
		"Broadcast":   broadcast.WindowAll,
		"3months":     broadcast.WindowLast3Months,
		"year":        broadcast.WindowLastYear,
		"none":        broadcast.WindowNone,
		"NOBroadcast": broadcast.WindowNone,
	}

	for in, want := range tests {
		got, err := broadcast.ParseWindow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := broadcast.ParseWindow("week")
	assert.ErrorIs(t, err, broadcast.ErrInvalidWindow)
}

func TestWindow_Cutoff(t *testing.T) {
	cutoff, ok := broadcast.WindowLast3Months.Cutoff(now)
	assert.True(t, ok)
	// May 31 minus three months normalizes past Feb 29.
	assert.Equal(t, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), cutoff)

	cutoff, ok = broadcast.WindowLastYear.Cutoff(now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 5, 31, 12, 0, 0, 0, time.UTC), cutoff)

	_, ok = broadcast.WindowAll.Cutoff(now)
	assert.False(t, ok)
}

func TestService_SelectAudience(t *testing.T) {
	campaignID := uuid.New()
	topicID := uuid.New()

	type testCase struct {
		name      string
		scope     broadcast.Scope
		window    broadcast.Window
		setupMock func(m *broadcast.MockRepository)
		want      []string
		wantErr   error
	}

	yearAgo := now.AddDate(-1, 0, 0)

	tests := []testCase{
		{
			name:   "NoneIsEmptyWithoutQuery",
			scope:  broadcast.CampaignScope(campaignID),
			window: broadcast.WindowNone,
			want:   []string{},
		},
		{
			name:   "AllHasNoCutoff",
			scope:  broadcast.CampaignScope(campaignID),
			window: broadcast.WindowAll,
			setupMock: func(m *broadcast.MockRepository) {
				m.EXPECT().
					ContributorChannels(gomock.Any(), broadcast.AudienceQuery{CampaignID: &campaignID}).
					Return([]string{"U2", "U1", "U2", " ", ""}, nil)
			},
			want: []string{"U1", "U2"},
		},
		{
			name:   "TopicLastYear",
			scope:  broadcast.TopicScope(topicID),
			window: broadcast.WindowLastYear,
			setupMock: func(m *broadcast.MockRepository) {
				m.EXPECT().
					ContributorChannels(gomock.Any(), broadcast.AudienceQuery{TopicID: &topicID, Since: &yearAgo}).
					Return([]string{"U9"}, nil)
			},
			want: []string{"U9"},
		},
		{
			name:   "Everyone",
			scope:  broadcast.Everyone(),
			window: broadcast.WindowAll,
			setupMock: func(m *broadcast.MockRepository) {
				m.EXPECT().
					ContributorChannels(gomock.Any(), broadcast.AudienceQuery{}).
					Return(nil, nil)
			},
			want: []string{},
		},
		{
			name:    "MissingScopeID",
			scope:   broadcast.Scope{Kind: broadcast.ScopeCampaign},
			window:  broadcast.WindowAll,
			wantErr: broadcast.ErrInvalidScope,
		},
		{
			name:    "BadWindow",
			scope:   broadcast.CampaignScope(campaignID),
			window:  "fortnight",
			wantErr: broadcast.ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := svc.SelectAudience(context.Background(), tt.scope, tt.window)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Recipients)
		})
	}
}

func TestService_Broadcast(t *testing.T) {
	campaignID := uuid.New()
	msg := broadcast.Message{Template: "new_campaign", Payload: map[string]any{"campaign_id": campaignID.String()}}

	t.Run("Dispatches", func(t *testing.T) {
		svc, repo, dispatcher := newService(t)
		repo.EXPECT().ContributorChannels(gomock.Any(), gomock.Any()).Return([]string{"U1", "U2"}, nil)
		dispatcher.EXPECT().Send(gomock.Any(), []string{"U1", "U2"}, "new_campaign", msg.Payload).Return(nil)

		got, err := svc.Broadcast(adminCtx(), broadcast.CampaignScope(campaignID), broadcast.WindowAll, msg)
		require.NoError(t, err)
		assert.True(t, got.Dispatched)
	})

	t.Run("EmptyAudienceSkipsDispatch", func(t *testing.T) {
		svc, _, _ := newService(t)

		got, err := svc.Broadcast(adminCtx(), broadcast.CampaignScope(campaignID), broadcast.WindowNone, msg)
		require.NoError(t, err)
		assert.False(t, got.Dispatched)
		assert.Empty(t, got.Audience.Recipients)
	})

	t.Run("DispatcherError", func(t *testing.T) {
		svc, repo, dispatcher := newService(t)
		repo.EXPECT().ContributorChannels(gomock.Any(), gomock.Any()).Return([]string{"U1"}, nil)
		dispatcher.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout"))

		_, err := svc.Broadcast(adminCtx(), broadcast.CampaignScope(campaignID), broadcast.WindowAll, msg)
		assert.Error(t, err)
	})

	t.Run("RequiresAdmin", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Broadcast(context.Background(), broadcast.CampaignScope(campaignID), broadcast.WindowAll, msg)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("RequiresTemplate", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Broadcast(adminCtx(), broadcast.CampaignScope(campaignID), broadcast.WindowAll, broadcast.Message{})
		assert.ErrorIs(t, err, broadcast.ErrInvalidMessage)
	})
}
