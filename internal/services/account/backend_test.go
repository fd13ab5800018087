package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/aura/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSimulatedBackendReturnsConfiguredError(t *testing.T) {
	failure := errors.New("service unavailable")
	backend := &SimulatedBackend{Delay: time.Millisecond, Err: failure}

	assert.ErrorIs(t, backend.CreateAccount(context.Background(), &models.User{}), failure)
	assert.ErrorIs(t, backend.SendResetLink(context.Background(), "asha@example.com"), failure)
}

func TestSimulatedBackendHonoursContext(t *testing.T) {
	backend := &SimulatedBackend{Delay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, backend.SendResetLink(ctx, "asha@example.com"), context.Canceled)
}

func TestSimulatedBackendSucceedsWithoutDelay(t *testing.T) {
	backend := &SimulatedBackend{}
	assert.NoError(t, backend.CreateAccount(context.Background(), &models.User{}))
}
