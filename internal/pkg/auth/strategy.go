package auth

import (
	"time"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// Strategy issues and verifies role tokens.
type Strategy interface {
	IssueToken(role model.Role) (string, error)
	ParseToken(token string) (model.Role, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
