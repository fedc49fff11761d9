package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
	pkgAuth "github.com/polkiloo/cherrytrack/internal/pkg/auth"
)

const msgWrongPasscode = "密码错误"

// Passcodes maps each staff role to its configured passcode.
type Passcodes map[model.Role]string

// AuthUseCase checks staff passcodes and issues role tokens.
type AuthUseCase struct {
	passcodes Passcodes
	verifier  pkgAuth.PasscodeVerifier
	tokens    pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(passcodes Passcodes, verifier pkgAuth.PasscodeVerifier, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{passcodes: passcodes, verifier: verifier, tokens: strategy}
}

// Authenticate checks passcode against the requested role. Any other role
// value, including empty, accepts either passcode.
func (u *AuthUseCase) Authenticate(ctx context.Context, passcode, role string) (model.Role, string, error) {
	if passcode == "" {
		return "", "", domainErrors.Unauthorized(msgWrongPasscode)
	}

	candidates := []model.Role{model.RoleAdmin, model.RoleLogistics}
	if r := model.Role(role); r.Valid() {
		candidates = []model.Role{r}
	}

	for _, candidate := range candidates {
		if err := u.verifier.Compare(u.passcodes[candidate], passcode); err != nil {
			continue
		}
		token, err := u.tokens.IssueToken(candidate)
		if err != nil {
			return "", "", err
		}
		return candidate, token, nil
	}

	return "", "", domainErrors.Unauthorized(msgWrongPasscode)
}

// ParseToken extracts the role from provided token.
func (u *AuthUseCase) ParseToken(token string) (model.Role, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
