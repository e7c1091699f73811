package service

import (
	"errors"

	"jabatata-pos/pkg/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPasscode = errors.New("invalid passcode")

// AuthService turns a correct admin passcode into a session token. This is a
// convenience lock for a single-operator machine, not an account system:
// there is no lockout, no attempt counting and no user identity.
type AuthService interface {
	Unlock(passcode string) (string, error)
}

type authService struct {
	passcodeHash []byte
	logger       *zap.Logger
}

func NewAuthService(passcodeHash []byte, logger *zap.Logger) AuthService {
	return &authService{passcodeHash: passcodeHash, logger: logger}
}

func (s *authService) Unlock(passcode string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)); err != nil {
		// Deliberately indistinguishable from "not yet fully typed".
		return "", ErrInvalidPasscode
	}

	tok, err := token.GenerateAdminToken()
	if err != nil {
		s.logger.Error("failed to sign admin token", zap.Error(err))
		return "", err
	}

	s.logger.Info("admin mode unlocked")
	return tok, nil
}
