package dto

import (
	"time"

	"github.com/noah-isme/sma-adp-console/internal/models"
)

// DashboardStats holds the headline counters.
type DashboardStats struct {
	TotalStudents     int `json:"totalStudents"`
	ActiveStudents    int `json:"activeStudents"`
	TotalClasses      int `json:"totalClasses"`
	ActiveClasses     int `json:"activeClasses"`
	TotalDepartments  int `json:"totalDepartments"`
	ActiveDepartments int `json:"activeDepartments"`
	TotalCourses      int `json:"totalCourses"`
	ActiveCourses     int `json:"activeCourses"`
}

// DashboardResponse is the consolidated dashboard view. Every section falls
// back to its zero value when its source failed; Failures names those sources.
type DashboardResponse struct {
	Stats          DashboardStats   `json:"stats"`
	RecentStudents []models.Student `json:"recentStudents"`
	RecentClasses  []models.Class   `json:"recentClasses"`
	Failures       []string         `json:"failures,omitempty"`
	GeneratedAt    time.Time        `json:"generatedAt"`
}

// Partial reports whether any source was defaulted.
func (r *DashboardResponse) Partial() bool {
	return r != nil && len(r.Failures) > 0
}
