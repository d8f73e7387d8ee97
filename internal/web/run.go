package web

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bigredeye/coursesapi/internal/config"
	"github.com/bigredeye/coursesapi/internal/database"
)

func Run(ctx context.Context, config *config.Config, logger *zap.Logger) error {
	db, err := database.OpenDataBase(logger, config)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		return err
	}

	s := newServer(config, logger, db)
	return errors.Wrap(s.run(ctx), "Server failed")
}
