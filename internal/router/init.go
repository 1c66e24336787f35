package router

import (
	"github.com/teamhm/matrimony-backend/internal/application"
	"github.com/teamhm/matrimony-backend/internal/container"
	pginfra "github.com/teamhm/matrimony-backend/internal/infrastructure/postgres"
	handlers "github.com/teamhm/matrimony-backend/internal/interface/http"
	"github.com/teamhm/matrimony-backend/internal/router/modules"
)

// InitModules builds the services from the container singletons and registers
// every feature module. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	profiles := pginfra.NewProfileRepository(container.GetPGPool())

	indexer := application.NewProfileIndexer(container.GetES(), cfg.ESProfilesIndex, logger)

	var pub application.EmailPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	identity := application.NewIdentityService(users, container.GetJWT(), pub, logger, cfg.ResetPasswordURL)
	approval := application.NewApprovalService(users, profiles, pub, indexer, logger)
	profileSvc := application.NewProfileService(profiles, container.GetGCS(), cfg.GCSBucket, indexer, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(identity, logger)))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profileSvc, logger), container.GetJWT()))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(approval, profileSvc, logger), container.GetJWT()))
}
