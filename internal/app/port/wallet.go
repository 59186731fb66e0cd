package port

import (
	"context"

	"beam_automation/internal/domain/entity"
)

// CredentialProvider supplies the credentials for one host invocation. The
// values never leave the dispatcher.
type CredentialProvider interface {
	Credentials(ctx context.Context) (entity.Credentials, error)
}
