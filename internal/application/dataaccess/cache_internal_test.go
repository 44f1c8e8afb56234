package dataaccess

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

func TestGeneraciones_BarridoDeClavesSinUso(t *testing.T) {
	c := NewCache(nil, time.Minute, nil, logger.Nop())
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	const vieja = "drivers|c3:*"
	g := c.generation(vieja)

	now = now.Add(3 * time.Minute)
	for i := 0; i < sweepEvery; i++ {
		c.generation(fmt.Sprintf("drivers|id=%d", i))
	}

	assert.Equal(t, sweepEvery, c.trackedKeys(), "la clave sin uso se barrió y las recientes quedan")
	assert.False(t, c.setIfCurrent(context.Background(), vieja, g, []int{1}),
		"una carga con generación barrida no escribe")

	g2 := c.generation(vieja)
	assert.Greater(t, g2, g, "la clave vuelta a registrar recibe una generación nueva")
}

func TestGeneraciones_ClaveTocadaNoSeBarre(t *testing.T) {
	c := NewCache(nil, time.Minute, nil, logger.Nop())
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	const viva = "drivers|c3:u5"
	g := c.generation(viva)
	now = now.Add(90 * time.Second)
	require.Equal(t, g, c.generation(viva))

	now = now.Add(90 * time.Second)
	for i := 0; i < sweepEvery; i++ {
		c.generation(fmt.Sprintf("vehicles|id=%d", i))
	}
	assert.Equal(t, sweepEvery+1, c.trackedKeys())
	assert.Equal(t, g, c.generation(viva))
}
