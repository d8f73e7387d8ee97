package web

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bigredeye/coursesapi/api"
	"github.com/bigredeye/coursesapi/internal/database"
	lf "github.com/bigredeye/coursesapi/internal/logfield"
)

const (
	coursesPath = "/api/v1/courses/"
	coursePath  = "/api/v1/courses/:id/"
)

type coursesService struct {
	webService
}

func setupCoursesService(server *server, r *gin.Engine) {
	s := coursesService{webService{server, server.config, server.logger.With(lf.Module("courses"))}}

	r.GET(coursesPath, s.list)
	r.POST(coursesPath, s.create)
	r.GET(coursePath, s.retrieve)
	r.PUT(coursePath, s.replace)
	r.PATCH(coursePath, s.update)
	r.DELETE(coursePath, s.delete)
}

func (s coursesService) bindRequest(c *gin.Context) (*api.CourseRequest, error) {
	req := &api.CourseRequest{}

	if isFormRequest(c) {
		if name, ok := c.GetPostForm("name"); ok {
			req.Name = &name
		}
		if values, ok := c.GetPostFormArray("students"); ok {
			ids := make(api.StudentIDs, 0, len(values))
			for _, value := range values {
				id, err := api.ParseID(value)
				if err != nil {
					return nil, invalidRequest(err)
				}
				ids = append(ids, id)
			}
			req.Students = &ids
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

func (s coursesService) list(c *gin.Context) {
	id, err := queryID(c, "id")
	if err != nil {
		s.fail(c, err)
		return
	}
	filter := database.CourseFilter{
		ID:   id,
		Name: queryString(c, "name"),
	}

	courses, err := s.server.db.ListCourses(filter)
	if err != nil {
		s.fail(c, errors.Wrap(err, "Failed to list courses"))
		return
	}

	c.JSON(http.StatusOK, api.MakeCourses(courses))
}

func (s coursesService) retrieve(c *gin.Context) {
	id, ok := s.itemID(c)
	if !ok {
		return
	}

	course, err := s.server.db.FindCourseByID(id)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MakeCourse(course))
}

func (s coursesService) create(c *gin.Context) {
	req, err := s.bindRequest(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := checkName(req.Name, true); err != nil {
		s.fail(c, err)
		return
	}

	var students []uint
	if req.Students != nil {
		students = *req.Students
	}

	course, err := s.server.db.CreateCourse(*req.Name, students)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.log.Info("Created course",
		lf.CourseID(course.ID),
		lf.CourseName(course.Name),
		lf.StudentIDs(course.StudentIDs()),
	)
	c.JSON(http.StatusCreated, api.MakeCourse(course))
}

// replace handles PUT: every field is overwritten and missing students
// clear the course.
func (s coursesService) replace(c *gin.Context) {
	s.modify(c, true)
}

func (s coursesService) update(c *gin.Context) {
	s.modify(c, false)
}

func (s coursesService) modify(c *gin.Context, full bool) {
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

	patch := database.CoursePatch{Name: req.Name}
	if req.Students != nil {
		ids := []uint(*req.Students)
		patch.StudentIDs = &ids
	} else if full {
		patch.StudentIDs = &[]uint{}
	}

	course, err := s.server.db.UpdateCourse(id, patch)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.log.Info("Updated course",
		lf.CourseID(course.ID),
		lf.CourseName(course.Name),
		lf.StudentIDs(course.StudentIDs()),
		zap.Bool("full", full),
	)
	c.JSON(http.StatusOK, api.MakeCourse(course))
}

func (s coursesService) delete(c *gin.Context) {
	id, ok := s.itemID(c)
	if !ok {
		return
	}

	if err := s.server.db.DeleteCourse(id); err != nil {
		s.fail(c, err)
		return
	}

	s.log.Info("Deleted course", lf.CourseID(id))
	c.Status(http.StatusNoContent)
}
