package port

import (
	"context"

	"beam_automation/internal/domain/entity"
)

// GameAPI is the REST transport for the Beam player, marketplace and game
// services. Non-2xx responses come back as entity TransportErrors; 404s as
// NotFoundErrors.
type GameAPI interface {
	Get(ctx context.Context, path string, query map[string]string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
	// ProjectID is the game/project scope of the credentials, may be empty.
	ProjectID() string
}

// GameAPIProvider hands out (cached) REST clients per credential set.
type GameAPIProvider interface {
	GetClient(creds entity.APICredentials) (GameAPI, error)
}
