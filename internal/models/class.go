package models

import "time"

// Contact is a named person attached to a record (class teacher, instructor, head).
type Contact struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Qualification string `json:"qualification,omitempty"`
}

// TimeRange is a start/end pair in HH:mm.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ClassSchedule describes when and where a class meets.
type ClassSchedule struct {
	Days       []string  `json:"days"`
	Time       TimeRange `json:"time"`
	RoomNumber string    `json:"roomNumber"`
}

// Class represents a teaching group.
type Class struct {
	ID              string         `json:"_id,omitempty"`
	ClassName       string         `json:"className"`
	Section         string         `json:"section"`
	AcademicYear    string         `json:"academicYear"`
	Capacity        int            `json:"capacity"`
	CurrentStrength int            `json:"currentStrength"`
	Department      Ref            `json:"department"`
	ClassTeacher    *Contact       `json:"classTeacher,omitempty"`
	Schedule        *ClassSchedule `json:"schedule,omitempty"`
	Description     string         `json:"description,omitempty"`
	Status          string         `json:"status"`
	CreatedAt       *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time     `json:"updatedAt,omitempty"`

	ClassCode      string  `json:"classCode"`
	AvailableSeats int     `json:"availableSeats"`
	IsFull         bool    `json:"isFull"`
	Utilization    float64 `json:"utilization"`
}
