package service

import (
	"github.com/noah-isme/sma-adp-console/internal/form"
	"github.com/noah-isme/sma-adp-console/internal/models"
)

const (
	phonePattern        = `^[0-9]{10,11}$`
	rollNumberPattern   = `^[A-Z0-9]+$`
	classNamePattern    = `^[A-Z0-9]+$`
	sectionPattern      = `^[A-Z]$`
	departmentPattern   = `^[A-Z]{2,6}$`
	courseCodePattern   = `^[A-Z]{2,4}\d{3,4}$`
	academicYearPattern = `^\d{4}-\d{4}$`
)

func requiredLeaf(def interface{}, rules ...form.Rule) form.Spec {
	return form.Leaf(def, append([]form.Rule{form.Required()}, rules...)...)
}

func textLeaf(rules ...form.Rule) form.Spec {
	return form.Leaf("", rules...)
}

func multiSelect() form.Spec {
	return form.Leaf([]string{})
}

func numberLeaf(def interface{}, rules ...form.Rule) form.Spec {
	return form.Leaf(def, rules...).Normalized(form.Number)
}

func timeRange() form.Spec {
	return form.Group(
		form.Named("start", textLeaf()),
		form.Named("end", textLeaf()),
	)
}

// StudentSchema describes the student create/edit form.
func StudentSchema() form.Spec {
	return form.Group(
		form.Named("name", requiredLeaf("", form.MinLength(3), form.MaxLength(100)).Normalized(form.TrimSpace)),
		form.Named("rollNumber", requiredLeaf("", form.Pattern(rollNumberPattern, "roll number")).Normalized(form.UpperCase)),
		form.Named("email", requiredLeaf("", form.Email()).Normalized(form.TrimSpace)),
		form.Named("phone", requiredLeaf("", form.Pattern(phonePattern, "phone"))),
		form.Named("dateOfBirth", requiredLeaf("")),
		form.Named("gender", requiredLeaf("")),
		form.Named("class", requiredLeaf("")),
		form.Named("department", requiredLeaf("")),
		form.Named("academicYear", requiredLeaf("", form.Pattern(academicYearPattern, "academic year"))),
		form.Named("status", requiredLeaf("Active")),
		form.Named("courses", multiSelect()),
		form.Named("address", form.Group(
			form.Named("street", requiredLeaf("")),
			form.Named("city", requiredLeaf("")),
			form.Named("state", requiredLeaf("")),
			form.Named("zipCode", requiredLeaf("")),
			form.Named("country", form.Leaf("India")),
		)),
		form.Named("guardianInfo", form.Group(
			form.Named("name", requiredLeaf("")),
			form.Named("relationship", requiredLeaf("")),
			form.Named("phone", requiredLeaf("", form.Pattern(phonePattern, "phone"))),
			form.Named("email", textLeaf(form.Email())),
		)),
	)
}

// ClassSchema describes the class create/edit form.
func ClassSchema() form.Spec {
	return form.Group(
		form.Named("className", requiredLeaf("", form.Pattern(classNamePattern, "class name")).Normalized(form.UpperCase)),
		form.Named("section", requiredLeaf("", form.Pattern(sectionPattern, "section")).Normalized(form.UpperCase)),
		form.Named("academicYear", requiredLeaf("", form.Pattern(academicYearPattern, "academic year"))),
		form.Named("capacity", numberLeaf("", form.Required(), form.Min(1), form.Max(100))),
		form.Named("currentStrength", numberLeaf(0, form.Min(0))),
		form.Named("department", requiredLeaf("")),
		form.Named("status", requiredLeaf("Active")),
		form.Named("description", textLeaf(form.MaxLength(500))),
		form.Named("classTeacher", form.Group(
			form.Named("name", textLeaf()),
			form.Named("email", textLeaf(form.Email())),
			form.Named("phone", textLeaf(form.Pattern(phonePattern, "phone"))),
		)),
		form.Named("schedule", form.Group(
			form.Named("days", multiSelect()),
			form.Named("time", timeRange()),
			form.Named("roomNumber", textLeaf()),
		)),
	)
}

// DepartmentSchema describes the department form. Establishment years are
// bounded by currentYear.
func DepartmentSchema(currentYear int) form.Spec {
	return form.Group(
		form.Named("departmentName", requiredLeaf("", form.MinLength(2)).Normalized(form.TrimSpace)),
		form.Named("departmentCode", requiredLeaf("", form.Pattern(departmentPattern, "department code")).Normalized(form.UpperCase)),
		form.Named("establishmentYear", numberLeaf("", form.Required(), form.Min(1900), form.Max(float64(currentYear)))),
		form.Named("status", requiredLeaf("Active")),
		form.Named("description", textLeaf(form.MaxLength(1000))),
		form.Named("totalFaculty", numberLeaf(0, form.Min(0))),
		form.Named("totalStudents", numberLeaf(0, form.Min(0))),
		form.Named("contactEmail", requiredLeaf("", form.Email())),
		form.Named("contactPhone", requiredLeaf("", form.Pattern(phonePattern, "phone"))),
		form.Named("headOfDepartment", form.Group(
			form.Named("name", requiredLeaf("")),
			form.Named("email", requiredLeaf("", form.Email())),
			form.Named("phone", requiredLeaf("", form.Pattern(phonePattern, "phone"))),
			form.Named("qualification", textLeaf()),
		)),
		form.Named("location", form.Group(
			form.Named("building", textLeaf()),
			form.Named("floor", textLeaf()),
			form.Named("room", textLeaf()),
		)),
		form.Named("facilities", form.List(requiredLeaf("").Normalized(form.TrimSpace))),
	)
}

// CourseSchema describes the course form. Grading weights are plain bounded
// numbers; how they combine is the backend's concern.
func CourseSchema() form.Spec {
	weight := func() form.Spec { return numberLeaf(0, form.Min(0), form.Max(100)) }
	return form.Group(
		form.Named("courseName", requiredLeaf("").Normalized(form.TrimSpace)),
		form.Named("courseCode", requiredLeaf("", form.Pattern(courseCodePattern, "course code")).Normalized(form.UpperCase)),
		form.Named("creditHours", numberLeaf("", form.Required(), form.Min(1), form.Max(6))),
		form.Named("description", textLeaf(form.MaxLength(1000))),
		form.Named("department", requiredLeaf("")),
		form.Named("semester", requiredLeaf("")),
		form.Named("year", numberLeaf("", form.Required())),
		form.Named("maxStudents", numberLeaf("", form.Required(), form.Min(1), form.Max(100))),
		form.Named("enrolledStudents", numberLeaf(0, form.Min(0))),
		form.Named("courseType", requiredLeaf("Core")),
		form.Named("status", requiredLeaf("Active")),
		form.Named("instructor", form.Group(
			form.Named("name", textLeaf()),
			form.Named("email", textLeaf(form.Email())),
			form.Named("phone", textLeaf(form.Pattern(phonePattern, "phone"))),
		)),
		form.Named("schedule", form.Group(
			form.Named("days", multiSelect()),
			form.Named("time", timeRange()),
			form.Named("room", textLeaf()),
		)),
		form.Named("gradingPolicy", form.Group(
			form.Named("assignments", weight()),
			form.Named("midterm", weight()),
			form.Named("final", weight()),
			form.Named("projects", weight()),
			form.Named("attendance", weight()),
		)),
		form.Named("prerequisites", multiSelect()),
		form.Named("resources", form.List(CourseResourceSchema())),
	)
}

// CourseResourceSchema is one entry of the course resources section.
func CourseResourceSchema() form.Spec {
	return form.Group(
		form.Named("type", requiredLeaf("Syllabus")),
		form.Named("title", requiredLeaf("")),
		form.Named("url", requiredLeaf("")),
		form.Named("uploadedAt", textLeaf()),
	)
}

// StudentValues maps a fetched student onto StudentSchema paths.
// References collapse to ids and dates to YYYY-MM-DD.
func StudentValues(s models.Student) map[string]interface{} {
	return map[string]interface{}{
		"name":         s.Name,
		"rollNumber":   s.RollNumber,
		"email":        s.Email,
		"phone":        s.Phone,
		"dateOfBirth":  s.DateOfBirth.String(),
		"gender":       s.Gender,
		"class":        s.Class.ID,
		"department":   s.Department.ID,
		"academicYear": s.AcademicYear,
		"status":       nonEmpty(s.Status),
		"courses":      models.IDs(s.Courses),
		"address": map[string]interface{}{
			"street":  s.Address.Street,
			"city":    s.Address.City,
			"state":   s.Address.State,
			"zipCode": s.Address.ZipCode,
			"country": nonEmpty(s.Address.Country),
		},
		"guardianInfo": map[string]interface{}{
			"name":         s.GuardianInfo.Name,
			"relationship": s.GuardianInfo.Relationship,
			"phone":        s.GuardianInfo.Phone,
			"email":        s.GuardianInfo.Email,
		},
	}
}

// ClassValues maps a fetched class onto ClassSchema paths. Absent teacher
// and schedule blocks are left out so the form keeps its empty defaults.
func ClassValues(c models.Class) map[string]interface{} {
	values := map[string]interface{}{
		"className":       c.ClassName,
		"section":         c.Section,
		"academicYear":    c.AcademicYear,
		"capacity":        c.Capacity,
		"currentStrength": c.CurrentStrength,
		"department":      c.Department.ID,
		"status":          nonEmpty(c.Status),
		"description":     c.Description,
	}
	if c.ClassTeacher != nil {
		values["classTeacher"] = contactValues(*c.ClassTeacher, false)
	}
	if c.Schedule != nil {
		values["schedule"] = map[string]interface{}{
			"days":       stringsOrEmpty(c.Schedule.Days),
			"time":       map[string]interface{}{"start": c.Schedule.Time.Start, "end": c.Schedule.Time.End},
			"roomNumber": c.Schedule.RoomNumber,
		}
	}
	return values
}

// DepartmentValues maps a fetched department onto DepartmentSchema paths.
func DepartmentValues(d models.Department) map[string]interface{} {
	values := map[string]interface{}{
		"departmentName":    d.DepartmentName,
		"departmentCode":    d.DepartmentCode,
		"establishmentYear": zeroAsEmpty(d.EstablishmentYear),
		"status":            nonEmpty(d.Status),
		"description":       d.Description,
		"totalFaculty":      d.TotalFaculty,
		"totalStudents":     d.TotalStudents,
		"contactEmail":      d.ContactEmail,
		"contactPhone":      d.ContactPhone,
		"facilities":        stringsOrEmpty(d.Facilities),
	}
	if d.HeadOfDepartment != nil {
		values["headOfDepartment"] = contactValues(*d.HeadOfDepartment, true)
	}
	if d.Location != nil {
		values["location"] = map[string]interface{}{
			"building": d.Location.Building,
			"floor":    d.Location.Floor,
			"room":     d.Location.Room,
		}
	}
	return values
}

// CourseValues maps a fetched course onto CourseSchema paths.
func CourseValues(c models.Course) map[string]interface{} {
	values := map[string]interface{}{
		"courseName":       c.CourseName,
		"courseCode":       c.CourseCode,
		"creditHours":      zeroAsEmpty(c.CreditHours),
		"description":      c.Description,
		"department":       c.Department.ID,
		"semester":         c.Semester,
		"year":             zeroAsEmpty(c.Year),
		"maxStudents":      zeroAsEmpty(c.MaxStudents),
		"enrolledStudents": c.EnrolledStudents,
		"courseType":       nonEmpty(c.CourseType),
		"status":           nonEmpty(c.Status),
		"prerequisites":    models.IDs(c.Prerequisites),
	}
	if c.Instructor != nil {
		values["instructor"] = contactValues(*c.Instructor, false)
	}
	if c.Schedule != nil {
		values["schedule"] = map[string]interface{}{
			"days": stringsOrEmpty(c.Schedule.Days),
			"time": map[string]interface{}{"start": c.Schedule.Time.Start, "end": c.Schedule.Time.End},
			"room": c.Schedule.Room,
		}
	}
	if len(c.GradingPolicy) > 0 {
		policy := make(map[string]interface{}, len(c.GradingPolicy))
		for k, v := range c.GradingPolicy {
			policy[k] = v
		}
		values["gradingPolicy"] = policy
	}
	resources := make([]interface{}, 0, len(c.Resources))
	for _, r := range c.Resources {
		uploaded := ""
		if r.UploadedAt != nil {
			uploaded = r.UploadedAt.String()
		}
		resources = append(resources, map[string]interface{}{
			"type":       r.Type,
			"title":      r.Title,
			"url":        r.URL,
			"uploadedAt": uploaded,
		})
	}
	values["resources"] = resources
	return values
}

func contactValues(c models.Contact, withQualification bool) map[string]interface{} {
	values := map[string]interface{}{
		"name":  c.Name,
		"email": c.Email,
		"phone": c.Phone,
	}
	if withQualification {
		values["qualification"] = c.Qualification
	}
	return values
}

// nonEmpty turns "" into nil so patching restores the field default.
func nonEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// zeroAsEmpty renders an unset required number as an empty input.
func zeroAsEmpty(n int) interface{} {
	if n == 0 {
		return ""
	}
	return n
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
