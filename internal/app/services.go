package app

import (
	"fmt"

	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/services"
)

type Services struct {
	Session   services.SessionService
	Feed      services.FeedService
	Directory services.DirectoryService
	Profile   services.ProfileService
	Admin     services.AdminService
	NDA       services.NDAService
	Avatar    services.AvatarService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients) (Services, error) {
	log.Info("Wiring services...")
	tables := clients.Backend

	feed := services.NewFeedService(log, tables, services.FeedOptions{AtomicLikes: cfg.AtomicLikes})
	directory := services.NewDirectoryService(log, tables)
	avatar, err := services.NewAvatarService(log, tables)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	return Services{
		Session:   services.NewSessionService(log, clients.Backend, feed, directory),
		Feed:      feed,
		Directory: directory,
		Profile:   services.NewProfileService(log, tables),
		Admin:     services.NewAdminService(log, tables),
		NDA:       services.NewNDAService(log, tables),
		Avatar:    avatar,
	}, nil
}
