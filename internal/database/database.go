package database

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"moul.io/zapgorm2"

	"github.com/bigredeye/coursesapi/internal/config"
	lf "github.com/bigredeye/coursesapi/internal/logfield"
	"github.com/bigredeye/coursesapi/internal/models"
)

type DataBase struct {
	*gorm.DB
}

func makeDialector(conf *config.Config) (gorm.Dialector, error) {
	switch conf.DataBase.Driver {
	case config.PostgresDriver:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			conf.DataBase.Host,
			conf.DataBase.Port,
			conf.DataBase.User,
			conf.DataBase.Pass,
			conf.DataBase.Name,
		)
		return postgres.Open(dsn), nil
	case config.SQLiteDriver:
		return sqlite.Open(conf.DataBase.Path + "?_pragma=foreign_keys(1)"), nil
	default:
		return nil, errors.Errorf("Unknown database driver %q", conf.DataBase.Driver)
	}
}

func OpenDataBase(logger *zap.Logger, conf *config.Config) (*DataBase, error) {
	dialector, err := makeDialector(conf)
	if err != nil {
		return nil, err
	}

	zapLogger := zapgorm2.New(logger.Named("gorm"))
	zapLogger.SetAsDefault()

	var db *gorm.DB
	open := func() error {
		var err error
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: zapLogger,
		})
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = conf.DataBase.ConnectTimeout
	err = backoff.RetryNotify(open, policy, func(err error, next time.Duration) {
		logger.Warn("Failed to open database, retrying",
			lf.Driver(conf.DataBase.Driver),
			zap.Duration("next_attempt", next),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to open database")
	}

	return &DataBase{db}, nil
}

func (db *DataBase) Migrate() error {
	err := db.AutoMigrate(&models.Student{}, &models.Course{}, &models.Enrollment{})
	return errors.Wrap(err, "Failed to migrate database")
}

// InTransaction runs fn against a DataBase bound to a single transaction.
// Operations that open their own transactions nest as savepoints.
func (db *DataBase) InTransaction(fn func(tx *DataBase) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&DataBase{tx})
	})
}

func (db *DataBase) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
