package database

import (
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bigredeye/coursesapi/internal/models"
)

type CourseFilter struct {
	ID   *uint
	Name *string
}

// CoursePatch lists the fields to change; nil fields are left untouched.
type CoursePatch struct {
	Name       *string
	StudentIDs *[]uint
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// uniqueIDs drops repeated ids, keeping the first occurrence.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	res := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, found := seen[id]; found {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

func checkStudentsExist(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	var found []uint
	err := tx.Model(&models.Student{}).Where("id IN ?", ids).Pluck("id", &found).Error
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}

	missing := make([]uint, 0, len(ids)-len(found))
	for _, id := range ids {
		if !slices.Contains(found, id) {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)
	return &UnknownStudents{IDs: missing}
}

func replaceEnrollments(tx *gorm.DB, course *models.Course, studentIDs []uint) error {
	if err := checkStudentsExist(tx, studentIDs); err != nil {
		return err
	}

	err := tx.Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error
	if err != nil {
		return err
	}

	course.Enrollments = models.MakeEnrollments(course.ID, studentIDs)
	if len(course.Enrollments) == 0 {
		return nil
	}
	err = tx.Omit(clause.Associations).Create(&course.Enrollments).Error
	return translateEnrollmentError(err, studentIDs)
}

func (db *DataBase) ListCourses(filter CourseFilter) (courses []models.Course, err error) {
	courses = make([]models.Course, 0)
	query := db.Preload("Enrollments", orderByPosition).Order("id")
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	err = query.Find(&courses).Error
	if err != nil {
		courses = nil
	}
	return
}

func (db *DataBase) FindCourseByID(id uint) (*models.Course, error) {
	var course models.Course
	err := db.Preload("Enrollments", orderByPosition).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (db *DataBase) CreateCourse(name string, studentIDs []uint) (*models.Course, error) {
	course := &models.Course{Name: name}
	studentIDs = uniqueIDs(studentIDs)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(course).Error; err != nil {
			return err
		}
		return replaceEnrollments(tx, course, studentIDs)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (db *DataBase) UpdateCourse(id uint, patch CoursePatch) (*models.Course, error) {
	var course models.Course

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&course, id).Error; err != nil {
			return err
		}

		if patch.Name != nil {
			err := tx.Model(&course).Update("name", *patch.Name).Error
			if err != nil {
				return err
			}
			course.Name = *patch.Name
		}

		if patch.StudentIDs != nil {
			return replaceEnrollments(tx, &course, uniqueIDs(*patch.StudentIDs))
		}
		return tx.Scopes(orderByPosition).Find(&course.Enrollments, "course_id = ?", course.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (db *DataBase) DeleteCourse(id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error
		if err != nil {
			return err
		}

		res := tx.Delete(&models.Course{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < 1 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
