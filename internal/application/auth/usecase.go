package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invoice-form/internal/application/dto"
	"github.com/jhoicas/invoice-form/internal/domain"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/internal/domain/repository"
	"github.com/jhoicas/invoice-form/pkg/jwt"
	"github.com/jhoicas/invoice-form/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login del operador y alta del usuario inicial.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.Named("auth")}
}

// Login verifica username/password y genera el JWT.
// Usuario inexistente y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		uc.log.Warn().Str("username", in.Username).Msg("login con usuario desconocido")
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("username", in.Username).Msg("password incorrecto")
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		Username:  user.Username,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
	}, nil
}

// EnsureDefaultUser crea el operador inicial si no existe. Sin username no hace nada.
func (uc *AuthUseCase) EnsureDefaultUser(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}
	if password == "" {
		return fmt.Errorf("%w: SEED_PASSWORD es requerido junto a SEED_USERNAME", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("buscar usuario: %w", err)
	}
	if existing != nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Otra instancia pudo crearlo en paralelo.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil
		}
		return err
	}
	uc.log.Info().Str("username", username).Msg("usuario inicial creado")
	return nil
}
