package service

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/noah-isme/sma-adp-console/internal/models"
	"github.com/noah-isme/sma-adp-console/pkg/export"
)

// Column renders one export column of T.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// BuildDataset renders items through cols.
func BuildDataset[T any](title string, cols []Column[T], items []T) export.Dataset {
	data := export.Dataset{
		Title:   title,
		Headers: make([]string, len(cols)),
		Rows:    make([][]string, 0, len(items)),
	}
	for i, col := range cols {
		data.Headers[i] = col.Header
	}
	for _, item := range items {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = col.Value(item)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func refLabel(r models.Ref) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// StudentColumns lists the student export columns.
func StudentColumns() []Column[models.Student] {
	return []Column[models.Student]{
		{"Roll Number", func(s models.Student) string { return s.RollNumber }},
		{"Name", func(s models.Student) string { return s.Name }},
		{"Email", func(s models.Student) string { return s.Email }},
		{"Phone", func(s models.Student) string { return s.Phone }},
		{"Class", func(s models.Student) string { return refLabel(s.Class) }},
		{"Department", func(s models.Student) string { return refLabel(s.Department) }},
		{"Age", func(s models.Student) string { return cast.ToString(s.Age) }},
		{"Status", func(s models.Student) string { return s.Status }},
	}
}

// ClassColumns lists the class export columns.
func ClassColumns() []Column[models.Class] {
	return []Column[models.Class]{
		{"Class", func(c models.Class) string { return c.ClassCode }},
		{"Academic Year", func(c models.Class) string { return c.AcademicYear }},
		{"Department", func(c models.Class) string { return refLabel(c.Department) }},
		{"Capacity", func(c models.Class) string { return cast.ToString(c.Capacity) }},
		{"Strength", func(c models.Class) string { return cast.ToString(c.CurrentStrength) }},
		{"Available", func(c models.Class) string { return cast.ToString(c.AvailableSeats) }},
		{"Utilization", func(c models.Class) string { return percent(c.Utilization) }},
		{"Status", func(c models.Class) string { return c.Status }},
	}
}

// DepartmentColumns lists the department export columns.
func DepartmentColumns() []Column[models.Department] {
	return []Column[models.Department]{
		{"Code", func(d models.Department) string { return d.DepartmentCode }},
		{"Name", func(d models.Department) string { return d.DepartmentName }},
		{"Head", func(d models.Department) string {
			if d.HeadOfDepartment == nil {
				return ""
			}
			return d.HeadOfDepartment.Name
		}},
		{"Faculty", func(d models.Department) string { return cast.ToString(d.TotalFaculty) }},
		{"Students", func(d models.Department) string { return cast.ToString(d.TotalStudents) }},
		{"Students/Faculty", func(d models.Department) string { return strconv.FormatFloat(d.StudentsPerFaculty, 'f', 2, 64) }},
		{"Age", func(d models.Department) string { return cast.ToString(d.Age) }},
		{"Status", func(d models.Department) string { return d.Status }},
	}
}

// CourseColumns lists the course export columns.
func CourseColumns() []Column[models.Course] {
	return []Column[models.Course]{
		{"Code", func(c models.Course) string { return c.CourseCode }},
		{"Name", func(c models.Course) string { return c.CourseName }},
		{"Department", func(c models.Course) string { return refLabel(c.Department) }},
		{"Credits", func(c models.Course) string { return cast.ToString(c.CreditHours) }},
		{"Semester", func(c models.Course) string { return strings.TrimSpace(c.Semester + " " + cast.ToString(c.Year)) }},
		{"Enrolled", func(c models.Course) string { return cast.ToString(c.EnrolledStudents) + "/" + cast.ToString(c.MaxStudents) }},
		{"Enrollment", func(c models.Course) string { return percent(c.EnrollmentRate) }},
		{"Status", func(c models.Course) string { return c.Status }},
	}
}
