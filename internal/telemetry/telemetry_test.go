package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kongbun/internal/telemetry"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name string
		cfg  telemetry.Config
	}{
		{name: "Disabled", cfg: telemetry.Config{Endpoint: "http://localhost:4318", ServiceName: "kongbun"}},
		{name: "NoEndpoint", cfg: telemetry.Config{Enabled: true, ServiceName: "kongbun"}},
		// Non-routable address; nothing is exported because no spans end.
		{name: "Enabled", cfg: telemetry.Config{Enabled: true, Endpoint: "http://192.0.2.1:4318", ServiceName: "kongbun"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := telemetry.Setup(context.Background(), tt.cfg)
			require.NoError(t, err)
			require.NoError(t, shutdown(context.Background()))
		})
	}
}
