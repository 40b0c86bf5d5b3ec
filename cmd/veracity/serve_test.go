package main_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	main "github.com/fwojciec/veracity/cmd/veracity"
	"github.com/fwojciec/veracity/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var logs bytes.Buffer
		deps := &main.Dependencies{
			Ctx:      ctx,
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
			Analyses: &mock.AnalysisService{},
			History:  &mock.HistoryService{},
		}

		cmd := &main.ServeCmd{Addr: "127.0.0.1:0", Rate: 1, Burst: 5, CORSOrigin: []string{"http://localhost:3000"}}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, logs.String(), "listening")
		assert.Contains(t, logs.String(), "shutting down")
	})

	t.Run("returns listen error", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Logger:   slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
			Analyses: &mock.AnalysisService{},
		}

		cmd := &main.ServeCmd{Addr: "not-an-address"}
		assert.Error(t, cmd.Run(deps))
	})
}
