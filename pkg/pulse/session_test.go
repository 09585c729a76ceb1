package pulse_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackOrchardLabs/PyPulse/pkg/pulse"
)

func TestSession(t *testing.T) {
	t.Run("A missing task name should be rejected", func(t *testing.T) {
		client := newTestClient(t)

		_, err := client.NewSession(t.Context(), pulse.SessionConfig{})
		assert.Error(t, err)
	})

	t.Run("A negative step total should be rejected", func(t *testing.T) {
		client := newTestClient(t)

		_, err := client.NewSession(t.Context(), pulse.SessionConfig{TaskName: "Build", TotalSteps: -1})
		assert.Error(t, err)
	})

	t.Run("Creating a session should publish a starting record", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 3})
		require.NoError(t, err)
		defer sess.Close()

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.True(t, record.Active)
		assert.Equal(t, "Build", record.TaskName)
		assert.Equal(t, "Starting...", record.CurrentStep)
		assert.Equal(t, 0.0, record.Progress)
	})

	t.Run("Steps should derive progress from the step index", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 4})
		require.NoError(t, err)
		defer sess.Close()

		sess.Step("Compiling")
		sess.Step("Linking")

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.5, record.Progress)
		assert.Equal(t, "Step 2/4: Linking", record.CurrentStep)
	})

	t.Run("StepAt should use the explicit ratio", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 4})
		require.NoError(t, err)
		defer sess.Close()

		sess.StepAt("Compiling", 0.9)

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.9, record.Progress)
		assert.Equal(t, "Step 1/4: Compiling", record.CurrentStep)
	})

	t.Run("UpdateProgress should refine within the current step", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 2})
		require.NoError(t, err)
		defer sess.Close()

		sess.Step("Fetching")
		sess.UpdateProgress(0.25, "")

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.25, record.Progress)
		assert.Equal(t, "Step 1/2", record.CurrentStep)
	})

	t.Run("A zero step total should derive zero progress", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build"})
		require.NoError(t, err)
		defer sess.Close()

		sess.Step("Working")

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.0, record.Progress)
	})

	t.Run("Closing should complete the task exactly once", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 2})
		require.NoError(t, err)

		sess.Step("Compiling")
		sess.Close()
		sess.Close()

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.False(t, record.Active)

		history, err := client.History(ctx)
		require.NoError(t, err)
		require.Len(t, history.CompletedTasks, 1)
		assert.Equal(t, "Build", history.CompletedTasks[0].TaskName)
	})

	t.Run("Steps after close should be ignored", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 2})
		require.NoError(t, err)

		sess.Close()
		sess.Step("Too late")

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.False(t, record.Active)
	})

	t.Run("Failing should leave an error record at the last known ratio", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 2})
		require.NoError(t, err)

		sess.Step("Compiling")
		sess.Fail(errors.New("out of disk"))

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.Equal(t, "out of disk", record.Error)
		assert.Equal(t, 0.5, record.Progress)
		assert.Equal(t, "Error occurred", record.CurrentStep)

		history, err := client.History(ctx)
		require.NoError(t, err)
		assert.Len(t, history.CompletedTasks, 1)
	})

	t.Run("Failing with a nil error should behave like a normal close", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 2})
		require.NoError(t, err)

		sess.Step("Compiling")
		sess.Fail(nil)

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.False(t, record.Active)
		assert.Empty(t, record.Error)
	})

	t.Run("End should dispatch on the error", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 1})
		require.NoError(t, err)
		sess.End(errors.New("boom"))

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.Equal(t, "boom", record.Error)
	})
}
