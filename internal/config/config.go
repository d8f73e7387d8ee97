package config

import (
	"time"

	"github.com/docker/go-units"
	"github.com/pkg/errors"

	"github.com/bigredeye/coursesapi/pkg/conf"
)

const (
	PostgresDriver = "postgres"
	SQLiteDriver   = "sqlite"
)

type Config struct {
	Server struct {
		ListenAddress   string
		MaxBodySize     string
		ShutdownTimeout time.Duration
	}

	DataBase struct {
		Driver string
		Host   string
		Port   uint16
		User   string
		Pass   string
		Name   string

		// Path of the database file when Driver is sqlite.
		Path string

		ConnectTimeout time.Duration
	}

	Log struct {
		Development bool
		File        string
	}
}

func (c *Config) setDefaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Server.MaxBodySize == "" {
		c.Server.MaxBodySize = "1MiB"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.DataBase.Driver == "" {
		c.DataBase.Driver = SQLiteDriver
	}
	if c.DataBase.Path == "" {
		c.DataBase.Path = "courses.db"
	}
	if c.DataBase.Port == 0 {
		c.DataBase.Port = 5432
	}
	if c.DataBase.ConnectTimeout == 0 {
		c.DataBase.ConnectTimeout = 30 * time.Second
	}
}

func (c *Config) validate() error {
	switch c.DataBase.Driver {
	case PostgresDriver, SQLiteDriver:
	default:
		return errors.Errorf("Unknown database driver %q", c.DataBase.Driver)
	}
	if _, err := c.MaxBodyBytes(); err != nil {
		return err
	}
	return nil
}

// MaxBodyBytes parses Server.MaxBodySize, e.g. "512KiB" or "2MB".
func (c *Config) MaxBodyBytes() (int64, error) {
	size, err := units.RAMInBytes(c.Server.MaxBodySize)
	if err != nil {
		return 0, errors.Wrapf(err, "Invalid max body size %q", c.Server.MaxBodySize)
	}
	return size, nil
}

// Default returns the configuration used when nothing is overridden:
// a local sqlite database and the server on :8080.
func Default() *Config {
	config := &Config{}
	config.setDefaults()
	return config
}

func ParseConfig(path string) (*Config, error) {
	config := &Config{}
	if err := conf.ParseConfig(config, conf.EnvPrefix("COURSES"), conf.File(path)); err != nil {
		return nil, errors.Wrap(err, "Failed to parse config")
	}
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid config")
	}
	return config, nil
}
