package infra

import (
	"time"

	"github.com/mandalnilabja/chatrelay/internal/provider"
)

// CredentialChecker reports which provider families have a secret configured.
type CredentialChecker interface {
	Configured(family provider.Family) bool
}

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	Creds     CredentialChecker
	StartTime time.Time
}

// New creates a new instance of infrastructure handlers.
func New(creds CredentialChecker, startTime time.Time) *Handlers {
	return &Handlers{
		Creds:     creds,
		StartTime: startTime,
	}
}
