package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigredeye/coursesapi/api"
	"github.com/bigredeye/coursesapi/internal/config"
	"github.com/bigredeye/coursesapi/internal/models"
)

func studentIDs(students []models.Student) []uint {
	ids := make([]uint, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.ID)
	}
	return ids
}

func coursePathFor(id uint) string {
	return fmt.Sprintf("/api/v1/courses/%d/", id)
}

func TestRetrieveCourse(t *testing.T) {
	env := newTestEnv(t)
	courses, err := env.seeder.MakeCourses(10)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, coursePathFor(courses[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[api.Course](t, rec)
	assert.Equal(t, courses[0].Name, data.Name)
	assert.Equal(t, courses[0].ID, data.ID)
	assert.Empty(t, data.Students)
}

func TestRetrieveCourseWithStudents(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(3)
	require.NoError(t, err)
	courses, err := env.seeder.MakeCourses(2, studentIDs(students)...)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, coursePathFor(courses[1].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, studentIDs(students), decode[api.Course](t, rec).Students)
}

func TestRetrieveMissingCourse(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.seeder.MakeCourses(2)
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/courses/100500/", "/api/v1/courses/python/", "/api/v1/courses/-1/"} {
		rec := env.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Not found.", decode[api.ErrorResponse](t, rec).Detail)
	}
}

func TestListCourses(t *testing.T) {
	env := newTestEnv(t)
	courses, err := env.seeder.MakeCourses(10)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, coursesPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[[]api.Course](t, rec)
	require.Len(t, data, len(courses))
	for i, c := range data {
		assert.Equal(t, courses[i].Name, c.Name)
		assert.Equal(t, courses[i].ID, c.ID)
	}
}

func TestListCoursesEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, coursesPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestFilterCoursesID(t *testing.T) {
	env := newTestEnv(t)
	courses, err := env.seeder.MakeCourses(9)
	require.NoError(t, err)
	index := 5

	rec := env.do(http.MethodGet, fmt.Sprintf("%s?id=%d", coursesPath, courses[index].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[[]api.Course](t, rec)
	require.Len(t, data, 1)
	assert.Equal(t, courses[index].ID, data[0].ID)
	assert.Equal(t, courses[index].Name, data[0].Name)
}

func TestFilterCoursesName(t *testing.T) {
	env := newTestEnv(t)
	courses, err := env.seeder.MakeCourses(10)
	require.NoError(t, err)
	index := 3

	rec := env.do(http.MethodGet, coursesPath+"?name="+url.QueryEscape(courses[index].Name), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[[]api.Course](t, rec)
	require.Len(t, data, 1)
	assert.Equal(t, courses[index].ID, data[0].ID)
	assert.Equal(t, courses[index].Name, data[0].Name)
}

func TestFilterCoursesCombined(t *testing.T) {
	env := newTestEnv(t)
	courses, err := env.seeder.MakeCourses(3)
	require.NoError(t, err)

	path := fmt.Sprintf("%s?id=%d&name=%s", coursesPath, courses[0].ID, url.QueryEscape(courses[1].Name))
	rec := env.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = env.do(http.MethodGet, coursesPath+"?name=nothing-like-this", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = env.do(http.MethodGet, coursesPath+"?id=", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.Course](t, rec), 3)
}

func TestFilterCoursesInvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, coursesPath+"?id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[api.ErrorResponse](t, rec).Detail, "id")
}

func TestCreateCourse(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(5)
	require.NoError(t, err)

	// Students keyed by id, the way a form serializer would send them.
	entries := make([]string, 0, len(students))
	for _, student := range students {
		entries = append(entries, fmt.Sprintf(`"%d": {"name": %q, "birth_date": %q}`,
			student.ID, student.Name, student.BirthDate.String()))
	}
	body := fmt.Sprintf(`{"name": "Python", "students": {%s}}`, strings.Join(entries, ", "))

	rec := env.do(http.MethodPost, coursesPath, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decode[api.Course](t, rec)
	assert.Equal(t, "Python", data.Name)
	assert.Equal(t, studentIDs(students), data.Students)
	assert.NotZero(t, data.ID)

	rec = env.do(http.MethodGet, coursePathFor(data.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, data, decode[api.Course](t, rec))
}

func TestCreateCourseKeepsStudentsOrder(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(4)
	require.NoError(t, err)

	ids := studentIDs(students)
	reversed := []uint{ids[3], ids[2], ids[1], ids[0]}

	rec := env.do(http.MethodPost, coursesPath, map[string]interface{}{
		"name":     "Go",
		"students": reversed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, reversed, decode[api.Course](t, rec).Students)

	body := fmt.Sprintf(`{"name": "Rust", "students": {"%d": {}, "%d": {}, "%d": {}}}`, ids[2], ids[0], ids[1])
	rec = env.do(http.MethodPost, coursesPath, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []uint{ids[2], ids[0], ids[1]}, decode[api.Course](t, rec).Students)
}

func TestCreateCourseDeduplicatesStudents(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(2)
	require.NoError(t, err)
	ids := studentIDs(students)

	rec := env.do(http.MethodPost, coursesPath, map[string]interface{}{
		"name":     "C++",
		"students": []uint{ids[1], ids[0], ids[1]},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []uint{ids[1], ids[0]}, decode[api.Course](t, rec).Students)
}

func TestCreateCourseWithoutStudents(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, coursesPath, map[string]interface{}{"name": "Haskell"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id": 1, "name": "Haskell", "students": []}`, rec.Body.String())
}

func TestCreateCourseFromForm(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(3)
	require.NoError(t, err)
	ids := studentIDs(students)

	form := url.Values{}
	form.Set("name", "Django")
	form.Add("students", fmt.Sprint(ids[2]))
	form.Add("students", fmt.Sprint(ids[0]))

	req := httptest.NewRequest(http.MethodPost, coursesPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decode[api.Course](t, rec)
	assert.Equal(t, "Django", data.Name)
	assert.Equal(t, []uint{ids[2], ids[0]}, data.Students)
}

func TestCreateCourseFromMultipart(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(3)
	require.NoError(t, err)
	ids := studentIDs(students)

	rec := env.doMultipart(t, http.MethodPost, coursesPath, url.Values{
		"name":     {"Flask"},
		"students": {fmt.Sprint(ids[1]), fmt.Sprint(ids[2]), fmt.Sprint(ids[0])},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decode[api.Course](t, rec)
	assert.Equal(t, "Flask", data.Name)
	assert.Equal(t, []uint{ids[1], ids[2], ids[0]}, data.Students)

	rec = env.do(http.MethodGet, coursePathFor(data.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint{ids[1], ids[2], ids[0]}, decode[api.Course](t, rec).Students)
}

func TestUpdateCourseFromMultipart(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(4)
	require.NoError(t, err)
	ids := studentIDs(students)
	courses, err := env.seeder.MakeCourses(1, ids[0])
	require.NoError(t, err)
	course := courses[0]

	rec := env.doMultipart(t, http.MethodPatch, coursePathFor(course.ID), url.Values{
		"name":     {"Django DB"},
		"students": {fmt.Sprint(ids[3]), fmt.Sprint(ids[1]), fmt.Sprint(ids[2])},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decode[api.Course](t, rec)
	assert.Equal(t, course.ID, data.ID)
	assert.Equal(t, "Django DB", data.Name)
	assert.Equal(t, []uint{ids[3], ids[1], ids[2]}, data.Students)

	// Name alone keeps the students.
	rec = env.doMultipart(t, http.MethodPatch, coursePathFor(course.ID), url.Values{
		"name": {"Django ORM"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data = decode[api.Course](t, rec)
	assert.Equal(t, "Django ORM", data.Name)
	assert.Equal(t, []uint{ids[3], ids[1], ids[2]}, data.Students)
}

func TestCreateCourseUnknownStudents(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(1)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, coursesPath, map[string]interface{}{
		"name":     "Python",
		"students": []uint{students[0].ID, 1001, 1000},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown students: 1000, 1001", decode[api.ErrorResponse](t, rec).Detail)

	rec = env.do(http.MethodGet, coursesPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateCourseInvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct {
		name string
		body string
	}{
		{"missing name", `{"students": []}`},
		{"blank name", `{"name": ""}`},
		{"malformed json", `{"name": "Python"`},
		{"students not a list", `{"name": "Python", "students": 5}`},
		{"fractional id", `{"name": "Python", "students": [1.5]}`},
		{"negative id", `{"name": "Python", "students": [-1]}`},
		{"empty body", ``},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, coursesPath, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[api.ErrorResponse](t, rec).Detail)
		})
	}
}

func TestUpdateCourse(t *testing.T) {
	env := newTestEnv(t)
	courses, err := env.seeder.MakeCourses(10)
	require.NoError(t, err)
	students, err := env.seeder.MakeStudents(5)
	require.NoError(t, err)

	course := courses[6]
	ids := studentIDs(students)
	rec := env.do(http.MethodPatch, coursePathFor(course.ID), map[string]interface{}{
		"name":     "Django DB",
		"students": ids,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decode[api.Course](t, rec)
	assert.Equal(t, "Django DB", data.Name)
	assert.Equal(t, ids, data.Students)
	assert.Equal(t, course.ID, data.ID)
}

func TestUpdateCourseReplacesStudents(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(4)
	require.NoError(t, err)
	ids := studentIDs(students)
	courses, err := env.seeder.MakeCourses(1, ids[0], ids[1])
	require.NoError(t, err)
	course := courses[0]

	rec := env.do(http.MethodPatch, coursePathFor(course.ID), map[string]interface{}{
		"students": []uint{ids[3], ids[1]},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode[api.Course](t, rec)
	assert.Equal(t, course.Name, data.Name)
	assert.Equal(t, []uint{ids[3], ids[1]}, data.Students)

	rec = env.do(http.MethodPatch, coursePathFor(course.ID), map[string]interface{}{"name": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data = decode[api.Course](t, rec)
	assert.Equal(t, "Renamed", data.Name)
	assert.Equal(t, []uint{ids[3], ids[1]}, data.Students)

	rec = env.do(http.MethodGet, coursePathFor(course.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, data, decode[api.Course](t, rec))
}

func TestUpdateCourseEmptyPatch(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(2)
	require.NoError(t, err)
	courses, err := env.seeder.MakeCourses(1, studentIDs(students)...)
	require.NoError(t, err)

	rec := env.do(http.MethodPatch, coursePathFor(courses[0].ID), `{}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, api.MakeCourse(&courses[0]), decode[api.Course](t, rec))
}

func TestUpdateCourseUnknownStudentsKeepsOldState(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(2)
	require.NoError(t, err)
	courses, err := env.seeder.MakeCourses(1, studentIDs(students)...)
	require.NoError(t, err)

	rec := env.do(http.MethodPatch, coursePathFor(courses[0].ID), map[string]interface{}{
		"name":     "Changed",
		"students": []uint{777},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, coursePathFor(courses[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.MakeCourse(&courses[0]), decode[api.Course](t, rec))
}

func TestUpdateMissingCourse(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPatch, coursePathFor(42), map[string]interface{}{"name": "Nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReplaceCourse(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(3)
	require.NoError(t, err)
	courses, err := env.seeder.MakeCourses(1, studentIDs(students)...)
	require.NoError(t, err)
	course := courses[0]

	rec := env.do(http.MethodPut, coursePathFor(course.ID), map[string]interface{}{"name": "Algorithms"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode[api.Course](t, rec)
	assert.Equal(t, "Algorithms", data.Name)
	assert.Empty(t, data.Students)

	rec = env.do(http.MethodPut, coursePathFor(course.ID), map[string]interface{}{
		"students": studentIDs(students),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCourse(t *testing.T) {
	env := newTestEnv(t)
	students, err := env.seeder.MakeStudents(2)
	require.NoError(t, err)
	courses, err := env.seeder.MakeCourses(10, studentIDs(students)...)
	require.NoError(t, err)
	course := courses[9]

	rec := env.do(http.MethodDelete, coursePathFor(course.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(http.MethodGet, coursePathFor(course.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, coursePathFor(course.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, coursesPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.Course](t, rec), 9)

	// Students stay around after their course is gone.
	rec = env.do(http.MethodGet, studentsPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.Student](t, rec), 2)
}

func TestSlashlessPathsRedirect(t *testing.T) {
	env := newTestEnv(t)
	courses, err := env.seeder.MakeCourses(1)
	require.NoError(t, err)
	course := courses[0]

	rec := env.do(http.MethodGet, "/api/v1/courses", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, coursesPath, rec.Header().Get("Location"))

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/courses/%d", course.ID), nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, coursePathFor(course.ID), rec.Header().Get("Location"))

	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/v1/courses/%d", course.ID), `{"name": "Go"}`)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, coursePathFor(course.ID), rec.Header().Get("Location"))

	// Redirects do not reach the handlers.
	rec = env.do(http.MethodGet, coursePathFor(course.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, course.Name, decode[api.Course](t, rec).Name)
}

func TestCourseIDsOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{"9223372036854775807", "9223372036854775808", "18446744073709551615"} {
		rec := env.do(http.MethodGet, "/api/v1/courses/"+id+"/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)

		rec = env.do(http.MethodDelete, "/api/v1/courses/"+id+"/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
	}

	rec := env.do(http.MethodGet, coursesPath+"?id=18446744073709551615", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, coursesPath, `{"name": "Go", "students": [18446744073709551615]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseNameIsTrimmed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, coursesPath, map[string]interface{}{"name": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name: This field may not be blank.", decode[api.ErrorResponse](t, rec).Detail)

	rec = env.do(http.MethodPost, coursesPath, map[string]interface{}{"name": "  Go \t"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decode[api.Course](t, rec)
	assert.Equal(t, "Go", course.Name)

	rec = env.do(http.MethodPatch, coursePathFor(course.ID), map[string]interface{}{"name": "\n"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, coursesPath+"?name=Go", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.Course](t, rec), 1)
}

func TestRequestBodyTooLarge(t *testing.T) {
	env := newTestEnv(t, func(conf *config.Config) {
		conf.Server.MaxBodySize = "64B"
	})

	body := fmt.Sprintf(`{"name": %q}`, strings.Repeat("x", 128))
	rec := env.do(http.MethodPost, coursesPath, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
