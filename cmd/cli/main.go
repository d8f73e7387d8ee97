package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bigredeye/coursesapi/pkg/client/courses"
)

var log *zap.Logger

var endpoint string

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func unwrap[T any](value T, err error) T {
	check(err)
	return value
}

var (
	rootCmd = &cobra.Command{
		Use:          "coursectl",
		Short:        "Courses API client",
		SilenceUsage: true,
	}

	coursesCmd = &cobra.Command{
		Use:   "courses",
		Short: "Manage courses",
	}

	studentsCmd = &cobra.Command{
		Use:   "students",
		Short: "Manage students",
	}
)

func newClient() (*courses.Client, error) {
	return courses.NewClient(endpoint)
}

func initLogging() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.ConsoleSeparator = " "
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.StampMilli)
	log = unwrap(config.Build())
}

func initCommands() {
	defaultEndpoint := os.Getenv("COURSES_ENDPOINT")
	if defaultEndpoint == "" {
		defaultEndpoint = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", defaultEndpoint, "Courses API endpoint")

	coursesCmd.AddCommand(makeListCoursesCommand())
	coursesCmd.AddCommand(makeGetCourseCommand())
	coursesCmd.AddCommand(makeCreateCourseCommand())
	coursesCmd.AddCommand(makeUpdateCourseCommand())
	coursesCmd.AddCommand(makeDeleteCourseCommand())

	studentsCmd.AddCommand(makeListStudentsCommand())
	studentsCmd.AddCommand(makeGetStudentCommand())
	studentsCmd.AddCommand(makeCreateStudentCommand())
	studentsCmd.AddCommand(makeDeleteStudentCommand())

	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(studentsCmd)
}

func init() {
	initLogging()
	initCommands()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Command failed: %s\n", err.Error())
		os.Exit(1)
	}
}
