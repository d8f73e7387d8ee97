package seed

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/bigredeye/coursesapi/internal/database"
	lf "github.com/bigredeye/coursesapi/internal/logfield"
	"github.com/bigredeye/coursesapi/internal/models"
)

type StudentFixture struct {
	Name      string      `yaml:"name"`
	BirthDate models.Date `yaml:"birth_date"`
}

type CourseFixture struct {
	Name string `yaml:"name"`
	// Names of students from the same fixtures file.
	Students []string `yaml:"students"`
}

type Fixtures struct {
	Students []StudentFixture `yaml:"students"`
	Courses  []CourseFixture  `yaml:"courses"`
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	fixtures := &Fixtures{}
	if err := yaml.UnmarshalStrict(data, fixtures); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal fixtures")
	}
	return fixtures, nil
}

func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read fixtures")
	}
	return ParseFixtures(data)
}

type Seeder struct {
	db     *database.DataBase
	logger *zap.Logger
	rand   *rand.Rand
}

func NewSeeder(db *database.DataBase, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger.With(lf.Module("seed")),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func randomName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String()[:8])
}

func (s *Seeder) randomBirthDate() models.Date {
	start := models.NewDate(1990, time.January, 1)
	return models.Date{Time: start.AddDate(0, 0, s.rand.Intn(20*365))}
}

// MakeStudents stores n students with random names and birth dates.
func (s *Seeder) MakeStudents(n int) ([]models.Student, error) {
	students := make([]models.Student, 0, n)
	for i := 0; i < n; i++ {
		student := models.Student{
			Name:      randomName("student"),
			BirthDate: s.randomBirthDate(),
		}
		if err := s.db.AddStudent(&student); err != nil {
			return nil, errors.Wrap(err, "Failed to add student")
		}
		students = append(students, student)
	}
	s.logger.Debug("Made students", zap.Int("count", n))
	return students, nil
}

// MakeCourses stores n courses with random names. Every course gets the
// given students.
func (s *Seeder) MakeCourses(n int, studentIDs ...uint) ([]models.Course, error) {
	courses := make([]models.Course, 0, n)
	for i := 0; i < n; i++ {
		course, err := s.db.CreateCourse(randomName("course"), studentIDs)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to add course")
		}
		courses = append(courses, *course)
	}
	s.logger.Debug("Made courses", zap.Int("count", n))
	return courses, nil
}

// Apply stores fixtures in one transaction: either every entry is added
// or none is.
func (s *Seeder) Apply(fixtures *Fixtures) error {
	return s.db.InTransaction(func(tx *database.DataBase) error {
		return s.apply(tx, fixtures)
	})
}

func (s *Seeder) apply(db *database.DataBase, fixtures *Fixtures) error {
	ids := make(map[string]uint, len(fixtures.Students))
	for _, fixture := range fixtures.Students {
		student := &models.Student{
			Name:      fixture.Name,
			BirthDate: fixture.BirthDate,
		}
		if err := db.AddStudent(student); err != nil {
			return errors.Wrapf(err, "Failed to add student %q", fixture.Name)
		}
		ids[fixture.Name] = student.ID
	}

	for _, fixture := range fixtures.Courses {
		studentIDs := make([]uint, 0, len(fixture.Students))
		for _, name := range fixture.Students {
			id, found := ids[name]
			if !found {
				return errors.Errorf("Course %q references unknown student %q", fixture.Name, name)
			}
			studentIDs = append(studentIDs, id)
		}

		course, err := db.CreateCourse(fixture.Name, studentIDs)
		if err != nil {
			return errors.Wrapf(err, "Failed to add course %q", fixture.Name)
		}
		s.logger.Info("Added course", lf.CourseID(course.ID), lf.CourseName(course.Name))
	}

	return nil
}
