package models

import "time"

// CourseSchedule describes when and where a course meets.
type CourseSchedule struct {
	Days []string  `json:"days"`
	Time TimeRange `json:"time"`
	Room string    `json:"room"`
}

// CourseResource is an attachment listed on a course.
type CourseResource struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	UploadedAt *Date  `json:"uploadedAt,omitempty"`
}

// Course represents a unit of study offered by a department. The grading
// policy is carried opaquely; its weights are not interpreted here.
type Course struct {
	ID               string             `json:"_id,omitempty"`
	CourseName       string             `json:"courseName"`
	CourseCode       string             `json:"courseCode"`
	CreditHours      int                `json:"creditHours"`
	Description      string             `json:"description,omitempty"`
	Department       Ref                `json:"department"`
	Instructor       *Contact           `json:"instructor,omitempty"`
	Prerequisites    []Ref              `json:"prerequisites"`
	Semester         string             `json:"semester"`
	Year             int                `json:"year"`
	Schedule         *CourseSchedule    `json:"schedule,omitempty"`
	MaxStudents      int                `json:"maxStudents"`
	EnrolledStudents int                `json:"enrolledStudents"`
	CourseType       string             `json:"courseType"`
	GradingPolicy    map[string]float64 `json:"gradingPolicy,omitempty"`
	Resources        []CourseResource   `json:"resources,omitempty"`
	Status           string             `json:"status"`
	CreatedAt        *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time         `json:"updatedAt,omitempty"`

	AvailableSeats int     `json:"availableSeats"`
	IsFull         bool    `json:"isFull"`
	EnrollmentRate float64 `json:"enrollmentRate"`
}
