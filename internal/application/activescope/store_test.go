package activescope_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/activescope"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

type namesStub map[int64]string

func (n namesStub) UnitName(_ context.Context, companyID, unitID int64) (string, bool) {
	if companyID != 3 {
		return "", false
	}
	name, ok := n[unitID]
	return name, ok
}

type failingRepo struct{ activescope.MemoryRepository }

func (*failingRepo) Get(context.Context, string) (*int64, error) { return nil, errors.New("db caída") }

func ptr(v int64) *int64 { return &v }

func TestStore_SetGetReset(t *testing.T) {
	ctx := context.Background()
	s := activescope.NewStore(activescope.NewMemoryRepository(), namesStub{5: "Planta Norte"}, logger.Nop())
	key := activescope.SessionKey("acme", 7)
	assert.Equal(t, "acme:7", key)

	assert.Nil(t, s.GetActiveUnit(ctx, key))
	_, ok := s.GetActiveUnitName(ctx, key, 3)
	assert.False(t, ok)

	require.NoError(t, s.SetActiveUnit(ctx, key, ptr(5)))
	require.NotNil(t, s.GetActiveUnit(ctx, key))
	assert.Equal(t, int64(5), *s.GetActiveUnit(ctx, key))

	name, ok := s.GetActiveUnitName(ctx, key, 3)
	assert.True(t, ok)
	assert.Equal(t, "Planta Norte", name)

	require.NoError(t, s.Reset(ctx, key))
	assert.Nil(t, s.GetActiveUnit(ctx, key))
}

func TestStore_NilLimpiaLaUnidad(t *testing.T) {
	ctx := context.Background()
	s := activescope.NewStore(activescope.NewMemoryRepository(), nil, logger.Nop())
	require.NoError(t, s.SetActiveUnit(ctx, "k", ptr(9)))
	require.NoError(t, s.SetActiveUnit(ctx, "k", nil))
	assert.Nil(t, s.GetActiveUnit(ctx, "k"))
}

func TestStore_UnidadFueraDelListadoNoTieneNombre(t *testing.T) {
	ctx := context.Background()
	s := activescope.NewStore(activescope.NewMemoryRepository(), namesStub{5: "Planta Norte"}, logger.Nop())
	require.NoError(t, s.SetActiveUnit(ctx, "k", ptr(6)))
	_, ok := s.GetActiveUnitName(ctx, "k", 3)
	assert.False(t, ok)
}

func TestStore_ErrorDeRepositorioEsSinUnidad(t *testing.T) {
	s := activescope.NewStore(&failingRepo{}, nil, logger.Nop())
	assert.Nil(t, s.GetActiveUnit(context.Background(), "k"))
}
