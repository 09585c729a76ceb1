package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackOrchardLabs/PyPulse/internal/app/position"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage/memory"
)

func TestService(t *testing.T) {
	ctx := t.Context()

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	svc, err := position.NewService(position.ServiceConfig{Repository: repo})
	require.NoError(t, err)

	pos, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultWidgetPosition, pos)

	err = svc.Save(ctx, model.WidgetPosition{X: 640, Y: 20})
	require.NoError(t, err)

	pos, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.WidgetPosition{X: 640, Y: 20}, pos)
}

func TestServiceConfig(t *testing.T) {
	_, err := position.NewService(position.ServiceConfig{})
	assert.Error(t, err)
}
