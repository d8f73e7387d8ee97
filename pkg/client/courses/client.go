package courses

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bigredeye/coursesapi/api"
	"github.com/bigredeye/coursesapi/internal/models"
)

type Client struct {
	client *resty.Client
}

func NewClient(endpoint string) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("empty endpoint")
	}

	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(time.Second * 10).
		SetRetryCount(3).
		SetHeader("Accept", "application/json")

	return &Client{client}, nil
}

// Error is returned for every non-2xx response.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
}

func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func check(res *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !res.IsError() {
		return nil
	}

	apiErr := &Error{StatusCode: res.StatusCode()}
	if body, ok := res.Error().(*api.ErrorResponse); ok && body != nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

type CourseFilter struct {
	ID   uint
	Name string
}

func (f CourseFilter) params() map[string]string {
	params := make(map[string]string)
	if f.ID != 0 {
		params["id"] = strconv.FormatUint(uint64(f.ID), 10)
	}
	if f.Name != "" {
		params["name"] = f.Name
	}
	return params
}

func (c *Client) ListCourses(filter CourseFilter) ([]api.Course, error) {
	var res []api.Course
	err := check(c.client.R().
		SetResult(&res).
		SetError(&api.ErrorResponse{}).
		SetQueryParams(filter.params()).
		Get("/api/v1/courses/"))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetCourse(id uint) (*api.Course, error) {
	res := &api.Course{}
	err := check(c.client.R().
		SetResult(res).
		SetError(&api.ErrorResponse{}).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		Get("/api/v1/courses/{id}/"))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateCourse(name string, students []uint) (*api.Course, error) {
	ids := api.StudentIDs(students)
	res := &api.Course{}
	err := check(c.client.R().
		SetResult(res).
		SetError(&api.ErrorResponse{}).
		SetBody(&api.CourseRequest{Name: &name, Students: &ids}).
		Post("/api/v1/courses/"))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateCourse changes only the fields set in req.
func (c *Client) UpdateCourse(id uint, req *api.CourseRequest) (*api.Course, error) {
	res := &api.Course{}
	err := check(c.client.R().
		SetResult(res).
		SetError(&api.ErrorResponse{}).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetBody(req).
		Patch("/api/v1/courses/{id}/"))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DeleteCourse(id uint) error {
	return check(c.client.R().
		SetError(&api.ErrorResponse{}).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		Delete("/api/v1/courses/{id}/"))
}

func (c *Client) ListStudents() ([]api.Student, error) {
	var res []api.Student
	err := check(c.client.R().
		SetResult(&res).
		SetError(&api.ErrorResponse{}).
		Get("/api/v1/students/"))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetStudent(id uint) (*api.Student, error) {
	res := &api.Student{}
	err := check(c.client.R().
		SetResult(res).
		SetError(&api.ErrorResponse{}).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		Get("/api/v1/students/{id}/"))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateStudent(name string, birthDate models.Date) (*api.Student, error) {
	res := &api.Student{}
	err := check(c.client.R().
		SetResult(res).
		SetError(&api.ErrorResponse{}).
		SetBody(&api.StudentRequest{Name: &name, BirthDate: &birthDate}).
		Post("/api/v1/students/"))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DeleteStudent(id uint) error {
	return check(c.client.R().
		SetError(&api.ErrorResponse{}).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		Delete("/api/v1/students/{id}/"))
}
