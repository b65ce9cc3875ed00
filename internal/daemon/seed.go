package daemon

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
	"github.com/biomed-cmms/cmms-access/internal/config"
)

const seedTimeout = 30 * time.Second

// seed migrates the schema, writes the catalog and creates the admin account
// when the user table is empty.
func seed(cfg *config.Config, authService *auth.Service, local *auth.LocalProvider, cat *catalog.Catalog) error {
	if err := authService.Migrate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if err := authService.SeedCatalog(ctx, cat.Seed()); err != nil {
		return err
	}

	count, err := local.CountUsers()
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	if cfg.Admin.Password == "" {
		log.Warn().Msg("no user exists and admin.password is empty, skipping initial admin account")

		return nil
	}

	if _, err = local.CreateUser(
		cfg.Admin.Username,
		cfg.Admin.Email,
		cfg.Admin.Password,
		"Administrator",
		auth.RolePlatformAdmin,
	); err != nil {
		return err
	}

	log.Warn().Str("username", cfg.Admin.Username).Msg("created initial admin account, change its password")

	return nil
}
