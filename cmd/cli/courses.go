package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bigredeye/coursesapi/api"
	"github.com/bigredeye/coursesapi/pkg/client/courses"
)

func parseIDArg(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(id), nil
}

func printCourse(course *api.Course) {
	fmt.Printf("%d\t%s\t%v\n", course.ID, course.Name, course.Students)
}

func makeListCoursesCommand() *cobra.Command {
	var filter courses.CourseFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			list, err := client.ListCourses(filter)
			if err != nil {
				return err
			}
			for i := range list {
				printCourse(&list[i])
			}
			return nil
		},
	}

	cmd.Flags().UintVar(&filter.ID, "id", 0, "Only the course with this id")
	cmd.Flags().StringVar(&filter.Name, "name", "", "Only courses with this name")

	return cmd
}

func makeGetCourseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a course",
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
			course, err := client.GetCourse(id)
			if err != nil {
				return err
			}
			printCourse(course)
			return nil
		},
	}
}

func makeCreateCourseCommand() *cobra.Command {
	var name string
	var students []uint

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			course, err := client.CreateCourse(name, students)
			if err != nil {
				return err
			}
			log.Info("Created course", zap.Uint("id", course.ID), zap.String("name", course.Name))
			printCourse(course)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Course name")
	cmd.Flags().UintSliceVar(&students, "students", nil, "Student ids")
	check(cmd.MarkFlagRequired("name"))

	return cmd
}

func makeUpdateCourseCommand() *cobra.Command {
	var name string
	var students []uint

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change course name or students",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			req := &api.CourseRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("students") {
				ids := api.StudentIDs(students)
				req.Students = &ids
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			course, err := client.UpdateCourse(id, req)
			if err != nil {
				return err
			}
			log.Info("Updated course", zap.Uint("id", course.ID))
			printCourse(course)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New course name")
	cmd.Flags().UintSliceVar(&students, "students", nil, "New student ids, replacing the current ones")

	return cmd
}

func makeDeleteCourseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a course",
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
			if err := client.DeleteCourse(id); err != nil {
				return err
			}
			log.Info("Deleted course", zap.Uint("id", id))
			return nil
		},
	}
}
