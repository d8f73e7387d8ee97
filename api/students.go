package api

import "github.com/bigredeye/coursesapi/internal/models"

type Student struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	BirthDate models.Date `json:"birth_date"`
}

func MakeStudent(student *models.Student) Student {
	return Student{
		ID:        student.ID,
		Name:      student.Name,
		BirthDate: student.BirthDate,
	}
}

func MakeStudents(students []models.Student) []Student {
	res := make([]Student, 0, len(students))
	for i := range students {
		res = append(res, MakeStudent(&students[i]))
	}
	return res
}

type StudentRequest struct {
	Name      *string      `json:"name,omitempty"`
	BirthDate *models.Date `json:"birth_date,omitempty"`
}
