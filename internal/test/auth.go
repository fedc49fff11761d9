package test

import (
	"context"
	"errors"
	"strings"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
	pkgAuth "github.com/polkiloo/cherrytrack/internal/pkg/auth"
)

// StrategyStub issues and parses tokens via function overrides.
// By default tokens look like "token-<role>".
type StrategyStub struct {
	IssueFn func(model.Role) (string, error)
	ParseFn func(string) (model.Role, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(role model.Role) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(role)
	}
	return "token-" + string(role), nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (model.Role, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	raw, ok := strings.CutPrefix(token, "token-")
	role := model.Role(raw)
	if !ok || !role.Valid() {
		return "", pkgAuth.ErrInvalidToken
	}
	return role, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// VerifierStub compares passcodes by plain equality unless overridden.
type VerifierStub struct {
	CompareFn func(string, string) error
}

// Compare validates supplied against expected.
func (v VerifierStub) Compare(expected, supplied string) error {
	if v.CompareFn != nil {
		return v.CompareFn(expected, supplied)
	}
	if expected == "" || expected != supplied {
		return errors.New("mismatch")
	}
	return nil
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Role    model.Role
	Err     error
	ParseFn func(string) (model.Role, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (model.Role, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Role, nil
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	AuthenticateFn func(context.Context, string, string) (model.Role, string, error)
	ParseFn        func(string) (model.Role, error)
}

// Authenticate returns an admin token unless overridden.
func (s AuthFacadeStub) Authenticate(ctx context.Context, passcode, role string) (model.Role, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, passcode, role)
	}
	return model.RoleAdmin, "token", nil
}

// ParseToken returns admin role unless overridden.
func (s AuthFacadeStub) ParseToken(token string) (model.Role, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.RoleAdmin, nil
}

var _ pkgAuth.Strategy = StrategyStub{}
var _ pkgAuth.PasscodeVerifier = VerifierStub{}
