package clear_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackOrchardLabs/PyPulse/internal/app/clear"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage/memory"
)

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		setup       func(t *testing.T, repo *memory.Repository)
		expResponse *clear.Response
		expHistory  int
	}{
		"Clearing with no active task should be a no-op": {
			setup:       func(t *testing.T, repo *memory.Repository) {},
			expResponse: &clear.Response{},
			expHistory:  0,
		},

		"Clearing an active task should archive it": {
			setup: func(t *testing.T, repo *memory.Repository) {
				err := repo.UpdateProgress(t.Context(), model.ProgressUpdate{TaskName: "Backup", CurrentStep: "s", Progress: 0.4})
				require.NoError(t, err)
			},
			expResponse: &clear.Response{ClearedTask: "Backup"},
			expHistory:  1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			repo, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(t, err)
			test.setup(t, repo)

			svc, err := clear.NewService(clear.ServiceConfig{Repository: repo})
			require.NoError(t, err)

			resp, err := svc.Run(ctx)
			require.NoError(t, err)
			assert.Equal(t, test.expResponse, resp)

			record, err := repo.GetProgress(ctx)
			require.NoError(t, err)
			assert.False(t, record.Active)

			history, err := repo.GetHistory(ctx)
			require.NoError(t, err)
			assert.Len(t, history.CompletedTasks, test.expHistory)
		})
	}
}
