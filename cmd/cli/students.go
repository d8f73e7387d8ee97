package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bigredeye/coursesapi/api"
	"github.com/bigredeye/coursesapi/internal/models"
)

func printStudent(student *api.Student) {
	fmt.Printf("%d\t%s\t%s\n", student.ID, student.Name, student.BirthDate)
}

func makeListStudentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List students",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			list, err := client.ListStudents()
			if err != nil {
				return err
			}
			for i := range list {
				printStudent(&list[i])
			}
			return nil
		},
	}
}

func makeGetStudentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			student, err := client.GetStudent(id)
			if err != nil {
				return err
			}
			printStudent(student)
			return nil
		},
	}
}

func makeCreateStudentCommand() *cobra.Command {
	var name string
	var birthDate string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a student",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := models.ParseDate(birthDate)
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			student, err := client.CreateStudent(name, date)
			if err != nil {
				return err
			}
			log.Info("Created student", zap.Uint("id", student.ID))
			printStudent(student)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Student name")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "Birth date, YYYY-MM-DD")
	check(cmd.MarkFlagRequired("name"))
	check(cmd.MarkFlagRequired("birth-date"))

	return cmd
}

func makeDeleteStudentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.DeleteStudent(id); err != nil {
				return err
			}
			log.Info("Deleted student", zap.Uint("id", id))
			return nil
		},
	}
}
