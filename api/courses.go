package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bigredeye/coursesapi/internal/models"
)

type Course struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Students []uint `json:"students"`
}

func MakeCourse(course *models.Course) Course {
	return Course{
		ID:       course.ID,
		Name:     course.Name,
		Students: course.StudentIDs(),
	}
}

func MakeCourses(courses []models.Course) []Course {
	res := make([]Course, 0, len(courses))
	for i := range courses {
		res = append(res, MakeCourse(&courses[i]))
	}
	return res
}

// CourseRequest is the body of create and update requests. Absent fields are nil.
type CourseRequest struct {
	Name     *string     `json:"name,omitempty"`
	Students *StudentIDs `json:"students,omitempty"`
}

// StudentIDs accepts either a list of ids or an object keyed by id.
// Object keys keep their document order, values are ignored.
type StudentIDs []uint

func (ids StudentIDs) MarshalJSON() ([]byte, error) {
	if ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]uint(ids))
}

func (ids *StudentIDs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "Invalid students")
	}

	res := StudentIDs{}
	switch tok {
	case nil:
	case json.Delim('['):
		for dec.More() {
			var value interface{}
			if err := dec.Decode(&value); err != nil {
				return errors.Wrap(err, "Invalid students")
			}
			id, err := ParseID(value)
			if err != nil {
				return err
			}
			res = append(res, id)
		}
	case json.Delim('{'):
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return errors.Wrap(err, "Invalid students")
			}
			id, err := ParseID(key)
			if err != nil {
				return err
			}
			var details json.RawMessage
			if err := dec.Decode(&details); err != nil {
				return errors.Wrap(err, "Invalid students")
			}
			res = append(res, id)
		}
	default:
		return errors.New("Expected a list of student ids")
	}

	*ids = res
	return nil
}

// IDBitSize bounds ids to the range of a signed 64-bit database column.
const IDBitSize = 63

// ParseID converts a JSON number or a decimal string into an id.
func ParseID(value interface{}) (uint, error) {
	var raw string
	switch v := value.(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = v
	default:
		return 0, errors.Errorf("Invalid student id %v", value)
	}

	id, err := strconv.ParseUint(raw, 10, IDBitSize)
	if err != nil {
		return 0, errors.Errorf("Invalid student id %q", raw)
	}
	return uint(id), nil
}
