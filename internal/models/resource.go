package models

import "strings"

// Resource identifies one of the managed record types.
type Resource string

const (
	ResourceStudents    Resource = "students"
	ResourceClasses     Resource = "classes"
	ResourceDepartments Resource = "departments"
	ResourceCourses     Resource = "courses"
)

// Resources lists every managed resource in display order.
func Resources() []Resource {
	return []Resource{ResourceStudents, ResourceClasses, ResourceDepartments, ResourceCourses}
}

// ParseResource resolves a path segment into a Resource.
func ParseResource(raw string) (Resource, bool) {
	candidate := Resource(strings.ToLower(strings.TrimSpace(raw)))
	for _, r := range Resources() {
		if r == candidate {
			return r, true
		}
	}
	return "", false
}

// Singular returns the human label used in notifications ("Student").
func (r Resource) Singular() string {
	switch r {
	case ResourceStudents:
		return "Student"
	case ResourceClasses:
		return "Class"
	case ResourceDepartments:
		return "Department"
	case ResourceCourses:
		return "Course"
	default:
		return "Record"
	}
}
