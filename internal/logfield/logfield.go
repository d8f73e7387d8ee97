package lf

import "go.uber.org/zap"

const (
	FieldModule     = "module"
	FieldCourseID   = "course_id"
	FieldCourseName = "course_name"
	FieldStudentID  = "student_id"
	FieldStudentIDs = "student_ids"
	FieldFilter     = "filter"
	FieldDriver     = "db_driver"
)

func Module(module string) zap.Field {
	return zap.String(FieldModule, module)
}

func CourseID(ID uint) zap.Field {
	return zap.Uint(FieldCourseID, ID)
}

func CourseName(name string) zap.Field {
	return zap.String(FieldCourseName, name)
}

func StudentID(ID uint) zap.Field {
	return zap.Uint(FieldStudentID, ID)
}

func StudentIDs(IDs []uint) zap.Field {
	return zap.Uints(FieldStudentIDs, IDs)
}

func Filter(filter interface{}) zap.Field {
	return zap.Any(FieldFilter, filter)
}

func Driver(driver string) zap.Field {
	return zap.String(FieldDriver, driver)
}
