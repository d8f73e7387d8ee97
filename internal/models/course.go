package models

import "time"

type Course struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"index"`

	// Sorted by Position once loaded from the database.
	Enrollments []Enrollment `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Enrollment links a student to a course. Position keeps the order in which
// the students were assigned.
type Enrollment struct {
	CourseID  uint `gorm:"primaryKey"`
	StudentID uint `gorm:"primaryKey;index"`
	Position  int

	Student *Student `gorm:"constraint:OnDelete:CASCADE"`
}

func (c *Course) StudentIDs() []uint {
	ids := make([]uint, 0, len(c.Enrollments))
	for _, enrollment := range c.Enrollments {
		ids = append(ids, enrollment.StudentID)
	}
	return ids
}

func MakeEnrollments(courseID uint, studentIDs []uint) []Enrollment {
	enrollments := make([]Enrollment, 0, len(studentIDs))
	for i, id := range studentIDs {
		enrollments = append(enrollments, Enrollment{
			CourseID:  courseID,
			StudentID: id,
			Position:  i,
		})
	}
	return enrollments
}
