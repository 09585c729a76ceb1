package pulse_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackOrchardLabs/PyPulse/pkg/pulse"
)

func newTestClient(t *testing.T) *pulse.Client {
	t.Helper()

	client, err := pulse.New(t.Context(), pulse.Config{
		DataDir:       t.TempDir(),
		DisableReaper: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestClient(t *testing.T) {
	t.Run("A fresh client should report no progress and no history", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.False(t, record.Active)

		history, err := client.History(ctx)
		require.NoError(t, err)
		assert.Empty(t, history.CompletedTasks)
	})

	t.Run("Close should be safe to call multiple times", func(t *testing.T) {
		client, err := pulse.New(t.Context(), pulse.Config{DataDir: t.TempDir()})
		require.NoError(t, err)

		assert.NoError(t, client.Close())
		assert.NoError(t, client.Close())
	})

	t.Run("The owned reaper should deactivate an abandoned record", func(t *testing.T) {
		ctx := t.Context()
		dataDir := t.TempDir()

		client, err := pulse.New(ctx, pulse.Config{
			DataDir:      dataDir,
			ReapInterval: time.Millisecond,
			MaxIdle:      time.Millisecond,
		})
		require.NoError(t, err)
		defer client.Close()

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Abandoned", TotalSteps: 2})
		require.NoError(t, err)
		sess.Step("half way")
		// No Close: simulate a producer that died mid-task.

		waitFor(t, ctx, client, func(active bool) bool { return !active })

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.False(t, record.Active)
		assert.Equal(t, "Abandoned", record.TaskName)
		assert.Equal(t, 0.5, record.Progress)
	})
}

func waitFor(t *testing.T, ctx context.Context, client *pulse.Client, ok func(active bool) bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		record, err := client.Progress(ctx)
		require.NoError(t, err)
		if ok(record.Active) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("condition never reached")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
