package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-form/internal/application/auth"
	"github.com/jhoicas/invoice-form/internal/application/dto"
	"github.com/jhoicas/invoice-form/internal/domain"
	"github.com/jhoicas/invoice-form/internal/infrastructure/memory"
	"github.com/jhoicas/invoice-form/pkg/jwt"
	"github.com/jhoicas/invoice-form/pkg/logger"
)

const secret = "test-secret"

func newUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	uc := auth.NewAuthUseCase(memory.NewUserRepository(), auth.JWTConfig{
		Secret: secret, ExpMinutes: 30, Issuer: "test",
	}, logger.Nop())
	require.NoError(t, uc.EnsureDefaultUser(context.Background(), "admin", "clave123"))
	return uc
}

func TestLogin_OK(t *testing.T) {
	uc := newUseCase(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, 1800, resp.ExpiresIn)

	_, username, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEnsureDefaultUser(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	// Repetir no falla ni cambia la clave.
	require.NoError(t, uc.EnsureDefaultUser(ctx, "admin", "otra"))
	_, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "clave123"})
	assert.NoError(t, err)

	assert.NoError(t, uc.EnsureDefaultUser(ctx, "", ""), "sin username no hace nada")
	assert.ErrorIs(t, uc.EnsureDefaultUser(ctx, "otro", ""), domain.ErrInvalidInput)
}
