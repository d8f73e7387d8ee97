package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bigredeye/coursesapi/internal/config"
	"github.com/bigredeye/coursesapi/internal/database"
	"github.com/bigredeye/coursesapi/internal/seed"
	"github.com/bigredeye/coursesapi/internal/web"
	zlog "github.com/bigredeye/coursesapi/pkg/log"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:          "courses",
		Short:        "Courses API server",
		SilenceUsage: true,
	}
)

func setup() (*config.Config, *zap.Logger, error) {
	conf, err := config.ParseConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := zlog.Init(zlog.Options{
		Development: conf.Log.Development,
		File:        conf.Log.File,
	})
	return conf, logger, nil
}

func openDataBase(conf *config.Config, logger *zap.Logger) (*database.DataBase, error) {
	db, err := database.OpenDataBase(logger, conf)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func makeServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := setup()
			if err != nil {
				return err
			}
			defer zlog.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return web.Run(ctx, conf, logger)
		},
	}
}

func makeMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := setup()
			if err != nil {
				return err
			}
			defer zlog.Sync()

			db, err := openDataBase(conf, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.Info("Migrated database")
			return nil
		},
	}
}

func makeSeedCommand() *cobra.Command {
	var students int
	var courses int
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := setup()
			if err != nil {
				return err
			}
			defer zlog.Sync()

			db, err := openDataBase(conf, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			seeder := seed.NewSeeder(db, logger)
			if len(file) > 0 {
				fixtures, err := seed.LoadFixtures(file)
				if err != nil {
					return err
				}
				if err := seeder.Apply(fixtures); err != nil {
					return err
				}
			}

			made, err := seeder.MakeStudents(students)
			if err != nil {
				return err
			}
			ids := make([]uint, 0, len(made))
			for _, student := range made {
				ids = append(ids, student.ID)
			}
			if _, err := seeder.MakeCourses(courses, ids...); err != nil {
				return err
			}

			logger.Info("Seeded database",
				zap.String("file", file),
				zap.Int("students", students),
				zap.Int("courses", courses),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&students, "students", 0, "Number of random students")
	cmd.Flags().IntVar(&courses, "courses", 0, "Number of random courses, each enrolling all random students")
	cmd.Flags().StringVar(&file, "file", "", "Path to a yaml fixtures file")

	return cmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config")

	rootCmd.AddCommand(makeServeCommand())
	rootCmd.AddCommand(makeMigrateCommand())
	rootCmd.AddCommand(makeSeedCommand())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Command failed: %+v\n", err)
		os.Exit(1)
	}
}
