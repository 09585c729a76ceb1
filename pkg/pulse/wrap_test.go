package pulse_test

import (
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackOrchardLabs/PyPulse/pkg/pulse"
)

func TestWrap(t *testing.T) {
	t.Run("Wrapping should yield every element in order and complete once", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		tracker, err := client.NewTracker(ctx, pulse.TrackerConfig{Description: "Import", Total: 3})
		require.NoError(t, err)

		var got []string
		for v := range pulse.Wrap(tracker, values("a", "b", "c")) {
			got = append(got, v)
		}

		assert.Equal(t, []string{"a", "b", "c"}, got)
		assert.Equal(t, 3, tracker.Count())

		history, err := client.History(ctx)
		require.NoError(t, err)
		require.Len(t, history.CompletedTasks, 1)
		assert.Equal(t, "Import", history.CompletedTasks[0].TaskName)
	})

	t.Run("An early break should still close the tracker", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		tracker, err := client.NewTracker(ctx, pulse.TrackerConfig{Description: "Import", Total: 5})
		require.NoError(t, err)

		var got []int
		for v := range pulse.Wrap(tracker, values(1, 2, 3, 4, 5)) {
			got = append(got, v)
			if len(got) == 2 {
				break
			}
		}

		assert.Equal(t, []int{1, 2}, got)
		// Only fully processed elements count; the break interrupted the
		// second one before its advance.
		assert.Equal(t, 1, tracker.Count())

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.False(t, record.Active)
	})

	t.Run("An escaping panic should still close the tracker", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		tracker, err := client.NewTracker(ctx, pulse.TrackerConfig{Description: "Import", Total: 3})
		require.NoError(t, err)

		func() {
			defer func() { _ = recover() }()
			for v := range pulse.Wrap(tracker, values(1, 2, 3)) {
				if v == 2 {
					panic("boom")
				}
			}
		}()

		assert.Equal(t, 1, tracker.Count())

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.False(t, record.Active)

		history, err := client.History(ctx)
		require.NoError(t, err)
		assert.Len(t, history.CompletedTasks, 1)
	})

	t.Run("A disabled tracker should stay transparent", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		tracker, err := client.NewTracker(ctx, pulse.TrackerConfig{Description: "Import", Disabled: true})
		require.NoError(t, err)

		var n int
		for range pulse.Wrap(tracker, values(1, 2, 3, 4)) {
			n++
		}

		assert.Equal(t, 4, n)

		record, err := client.Progress(ctx)
		require.NoError(t, err)
		assert.False(t, record.Active)
		assert.Empty(t, record.TaskName)

		history, err := client.History(ctx)
		require.NoError(t, err)
		assert.Empty(t, history.CompletedTasks)
	})
}

func TestWrapSlice(t *testing.T) {
	t.Run("Wrapping a slice should adopt its length as the total", func(t *testing.T) {
		ctx := t.Context()
		client := newTestClient(t)

		tracker, err := client.NewTracker(ctx, pulse.TrackerConfig{
			Description: "Import",
			MinInterval: time.Nanosecond,
		})
		require.NoError(t, err)

		items := []string{"a", "b", "c", "d"}
		var seen int
		var midStep string
		for range pulse.WrapSlice(tracker, items) {
			seen++
			if seen == 2 {
				record, err := client.Progress(ctx)
				require.NoError(t, err)
				midStep = record.CurrentStep
			}
		}

		assert.Equal(t, len(items), seen)
		assert.Equal(t, len(items), tracker.Count())
		assert.Equal(t, "1/1: 1/4it", midStep)
	})
}

func values[T any](vs ...T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range vs {
			if !yield(v) {
				return
			}
		}
	}
}
