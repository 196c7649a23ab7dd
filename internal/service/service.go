// Package service wires configuration, database and synchronization together
// for the command line tools.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/config"
	"github.com/GoPowerDNS-Admin/idsync/internal/db"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/repository"
	"github.com/GoPowerDNS-Admin/idsync/internal/identity"
	"github.com/GoPowerDNS-Admin/idsync/internal/image"
	"github.com/GoPowerDNS-Admin/idsync/internal/logger"
	"github.com/GoPowerDNS-Admin/idsync/internal/rolemapping"
)

// ErrConfigNil is returned by New without configuration.
var ErrConfigNil = errors.New("config is nil")

// Service holds the repositories and the synchronizer of one database.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log zerolog.Logger

	Users        *repository.Users
	Roles        *repository.Roles
	Assignments  *repository.Assignments
	Images       *repository.Images
	Synchronizer *identity.Synchronizer
}

// New opens the database, migrates it and builds the synchronizer.
func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	gdb, err := db.Open(&cfg.DB)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, err
	}

	return newService(cfg, gdb), nil
}

func newService(cfg *config.Config, gdb *gorm.DB) *Service {
	s := &Service{
		cfg:         cfg,
		db:          gdb,
		log:         logger.Component("sync"),
		Users:       repository.NewUsers(gdb),
		Roles:       repository.NewRoles(gdb),
		Assignments: repository.NewAssignments(gdb),
		Images:      repository.NewImages(gdb),
	}

	mapper := rolemapping.NewMapper(s.Roles, s.Assignments, logger.Component("rolemapping"))

	var images identity.ImageSyncer
	if cfg.Image.Enabled {
		images = image.NewSyncer(cfg.Image, s.Images, s.Users, logger.Component("image"))
	}

	s.Synchronizer = identity.NewSynchronizer(s.Users, mapper, images, cfg.Defaults, s.log)

	return s
}

// Synchronize runs a synchronization with the role mapping of authenticator.
// The authenticator name is stored and looked up in lower case.
func (s *Service) Synchronize(ctx context.Context, store *attribute.Store, authenticator string) (*models.User, error) {
	authenticator = strings.ToLower(authenticator)

	return s.Synchronizer.Synchronize(ctx, store, authenticator, s.cfg.Entries(authenticator))
}

// Close closes the database connection.
func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	return sqlDB.Close()
}
