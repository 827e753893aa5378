package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// AdminEnsurer creates an admin account when it does not exist yet
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

// CreateDefaultAdmin makes sure the configured admin account exists.
// Nothing is seeded when no username is configured.
func CreateDefaultAdmin(ctx context.Context, ensurer AdminEnsurer, username, password string, lgr zerolog.Logger) error {
	if username == "" {
		lgr.Info().Msg("No default admin configured, skipping admin seed")
		return nil
	}
	if password == "" {
		return fmt.Errorf("default admin %q has no password configured", username)
	}

	created, err := ensurer.EnsureAdmin(ctx, username, password)
	if err != nil {
		lgr.Error().Err(err).Str("username", username).Msg("Error creating default admin")
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	if created {
		lgr.Info().Str("username", username).Msg("Default admin created")
	} else {
		lgr.Debug().Str("username", username).Msg("Default admin already exists")
	}
	return nil
}
