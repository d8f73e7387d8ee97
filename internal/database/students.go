package database

import (
	"gorm.io/gorm"

	"github.com/bigredeye/coursesapi/internal/models"
)

type StudentFilter struct {
	ID        *uint
	Name      *string
	BirthDate *models.Date
}

type StudentPatch struct {
	Name      *string
	BirthDate *models.Date
}

func (db *DataBase) ListStudents(filter StudentFilter) (students []models.Student, err error) {
	students = make([]models.Student, 0)
	query := db.Order("id")
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.BirthDate != nil {
		query = query.Where("birth_date = ?", *filter.BirthDate)
	}
	err = query.Find(&students).Error
	if err != nil {
		students = nil
	}
	return
}

func (db *DataBase) FindStudentByID(id uint) (*models.Student, error) {
	var student models.Student
	err := db.First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (db *DataBase) AddStudent(student *models.Student) error {
	return db.Create(student).Error
}

func (db *DataBase) UpdateStudent(id uint, patch StudentPatch) (*models.Student, error) {
	var student models.Student

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.BirthDate != nil {
			updates["birth_date"] = *patch.BirthDate
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&student).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&student, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// DeleteStudent removes the student together with all of its enrollments.
func (db *DataBase) DeleteStudent(id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ?", id).Delete(&models.Enrollment{}).Error
		if err != nil {
			return err
		}

		res := tx.Delete(&models.Student{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected < 1 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
