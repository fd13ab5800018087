package account

import (
	"context"
	"time"

	"github.com/KirkDiggler/aura/internal/models"
)

// Backend is the account API the forms submit to
type Backend interface {
	CreateAccount(ctx context.Context, user *models.User) error
	SendResetLink(ctx context.Context, email string) error
}

// SimulatedBackend stands in for the account API. Every call waits Delay
// and then returns Err.
type SimulatedBackend struct {
	Delay time.Duration
	Err   error
}

// CreateAccount pretends to create user
func (b *SimulatedBackend) CreateAccount(ctx context.Context, user *models.User) error {
	return b.wait(ctx)
}

// SendResetLink pretends to email a reset link
func (b *SimulatedBackend) SendResetLink(ctx context.Context, email string) error {
	return b.wait(ctx)
}

func (b *SimulatedBackend) wait(ctx context.Context) error {
	if b.Delay > 0 {
		t := time.NewTimer(b.Delay)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return b.Err
}
