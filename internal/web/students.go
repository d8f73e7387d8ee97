package web

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/bigredeye/coursesapi/api"
	"github.com/bigredeye/coursesapi/internal/database"
	lf "github.com/bigredeye/coursesapi/internal/logfield"
	"github.com/bigredeye/coursesapi/internal/models"
)

const (
	studentsPath = "/api/v1/students/"
	studentPath  = "/api/v1/students/:id/"
)

type studentsService struct {
	webService
}

func setupStudentsService(server *server, r *gin.Engine) {
	s := studentsService{webService{server, server.config, server.logger.With(lf.Module("students"))}}

	r.GET(studentsPath, s.list)
	r.POST(studentsPath, s.create)
	r.GET(studentPath, s.retrieve)
	r.PUT(studentPath, s.replace)
	r.PATCH(studentPath, s.update)
	r.DELETE(studentPath, s.delete)
}

func (s studentsService) bindRequest(c *gin.Context) (*api.StudentRequest, error) {
	req := &api.StudentRequest{}

	if isFormRequest(c) {
		if name, ok := c.GetPostForm("name"); ok {
			req.Name = &name
		}
		if raw, ok := c.GetPostForm("birth_date"); ok {
			date, err := models.ParseDate(raw)
			if err != nil {
				return nil, invalidRequest(err)
			}
			req.BirthDate = &date
		}
		return req, nil
	}

	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		return req, nil
	}
	if err != nil {
		return nil, invalidRequest(err)
	}
	return req, nil
}

func checkBirthDate(date *models.Date, required bool) error {
	if date == nil && required {
		return invalidRequestf("birth_date: This field is required.")
	}
	return nil
}

func (s studentsService) list(c *gin.Context) {
	id, err := queryID(c, "id")
	if err != nil {
		s.fail(c, err)
		return
	}
	filter := database.StudentFilter{
		ID:   id,
		Name: queryString(c, "name"),
	}
	if raw := c.Query("birth_date"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			s.fail(c, invalidRequest(err))
			return
		}
		filter.BirthDate = &date
	}

	students, err := s.server.db.ListStudents(filter)
	if err != nil {
		s.fail(c, errors.Wrap(err, "Failed to list students"))
		return
	}

	c.JSON(http.StatusOK, api.MakeStudents(students))
}

func (s studentsService) retrieve(c *gin.Context) {
	id, ok := s.itemID(c)
	if !ok {
		return
	}

	student, err := s.server.db.FindStudentByID(id)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MakeStudent(student))
}

func (s studentsService) create(c *gin.Context) {
	req, err := s.bindRequest(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := checkName(req.Name, true); err != nil {
		s.fail(c, err)
		return
	}
	if err := checkBirthDate(req.BirthDate, true); err != nil {
		s.fail(c, err)
		return
	}

	student := &models.Student{
		Name:      *req.Name,
		BirthDate: *req.BirthDate,
	}
	if err := s.server.db.AddStudent(student); err != nil {
		s.fail(c, err)
		return
	}

	s.log.Info("Created student", lf.StudentID(student.ID))
	c.JSON(http.StatusCreated, api.MakeStudent(student))
}

func (s studentsService) replace(c *gin.Context) {
	s.modify(c, true)
}

func (s studentsService) update(c *gin.Context) {
	s.modify(c, false)
}

func (s studentsService) modify(c *gin.Context, full bool) {
	id, ok := s.itemID(c)
	if !ok {
		return
	}

	req, err := s.bindRequest(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := checkName(req.Name, full); err != nil {
		s.fail(c, err)
		return
	}
	if err := checkBirthDate(req.BirthDate, full); err != nil {
		s.fail(c, err)
		return
	}

	student, err := s.server.db.UpdateStudent(id, database.StudentPatch{
		Name:      req.Name,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	s.log.Info("Updated student", lf.StudentID(student.ID))
	c.JSON(http.StatusOK, api.MakeStudent(student))
}

func (s studentsService) delete(c *gin.Context) {
	id, ok := s.itemID(c)
	if !ok {
		return
	}

	if err := s.server.db.DeleteStudent(id); err != nil {
		s.fail(c, err)
		return
	}

	s.log.Info("Deleted student", lf.StudentID(id))
	c.Status(http.StatusNoContent)
}
