package models

import "time"

// Location pins a department to a building.
type Location struct {
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Room     string `json:"room"`
}

// Department represents an academic department.
type Department struct {
	ID                string     `json:"_id,omitempty"`
	DepartmentName    string     `json:"departmentName"`
	DepartmentCode    string     `json:"departmentCode"`
	HeadOfDepartment  *Contact   `json:"headOfDepartment,omitempty"`
	ContactEmail      string     `json:"contactEmail"`
	ContactPhone      string     `json:"contactPhone"`
	EstablishmentYear int        `json:"establishmentYear"`
	Description       string     `json:"description,omitempty"`
	TotalFaculty      int        `json:"totalFaculty"`
	TotalStudents     int        `json:"totalStudents"`
	Location          *Location  `json:"location,omitempty"`
	Facilities        []string   `json:"facilities,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`

	Age                int     `json:"age"`
	StudentsPerFaculty float64 `json:"studentsPerFaculty"`
}
