package models

import "time"

// Address is a student's postal address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country,omitempty"`
}

// GuardianInfo identifies the student's guardian.
type GuardianInfo struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
}

// Student represents a learner registered in the institution.
type Student struct {
	ID             string       `json:"_id,omitempty"`
	Name           string       `json:"name"`
	RollNumber     string       `json:"rollNumber"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	Address        Address      `json:"address"`
	DateOfBirth    Date         `json:"dateOfBirth"`
	Gender         string       `json:"gender"`
	Class          Ref          `json:"class"`
	Department     Ref          `json:"department"`
	Courses        []Ref        `json:"courses"`
	EnrollmentDate Date         `json:"enrollmentDate"`
	Status         string       `json:"status"`
	AcademicYear   string       `json:"academicYear"`
	GuardianInfo   GuardianInfo `json:"guardianInfo"`
	CreatedAt      *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`

	// Virtual fields, computed on every load and never sent back.
	Age         int    `json:"age"`
	FullAddress string `json:"fullAddress"`
}
