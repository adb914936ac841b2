package service

import (
	"math"
	"strings"
	"time"

	"github.com/noah-isme/sma-adp-console/internal/models"
)

// VirtualFieldComputer derives read-only presentation fields from raw
// records. Results are recomputed on every load; nothing here is persisted.
type VirtualFieldComputer struct {
	now func() time.Time
}

// NewVirtualFieldComputer constructs a computer. A nil clock uses time.Now.
func NewVirtualFieldComputer(now func() time.Time) *VirtualFieldComputer {
	if now == nil {
		now = time.Now
	}
	return &VirtualFieldComputer{now: now}
}

// Student fills Age and FullAddress.
func (c *VirtualFieldComputer) Student(s models.Student) models.Student {
	s.Age = AgeAt(s.DateOfBirth.Time, c.now())
	s.FullAddress = FullAddress(s.Address)
	return s
}

// Class fills ClassCode, AvailableSeats, IsFull and Utilization.
func (c *VirtualFieldComputer) Class(cl models.Class) models.Class {
	cl.ClassCode = cl.ClassName + "-" + cl.Section
	cl.AvailableSeats = AvailableSeats(cl.Capacity, cl.CurrentStrength)
	cl.IsFull = cl.CurrentStrength >= cl.Capacity
	cl.Utilization = Percentage(cl.CurrentStrength, cl.Capacity)
	return cl
}

// Department fills Age as years since establishment and StudentsPerFaculty.
func (c *VirtualFieldComputer) Department(d models.Department) models.Department {
	d.Age = 0
	if d.EstablishmentYear > 0 {
		d.Age = c.now().Year() - d.EstablishmentYear
	}
	d.StudentsPerFaculty = Ratio(d.TotalStudents, d.TotalFaculty)
	return d
}

// Course fills AvailableSeats, IsFull and EnrollmentRate.
func (c *VirtualFieldComputer) Course(co models.Course) models.Course {
	co.AvailableSeats = AvailableSeats(co.MaxStudents, co.EnrolledStudents)
	co.IsFull = co.EnrolledStudents >= co.MaxStudents
	co.EnrollmentRate = Percentage(co.EnrolledStudents, co.MaxStudents)
	return co
}

// AgeAt returns full years between birth and now, or 0 for an unset birth date.
func AgeAt(birth, now time.Time) int {
	if birth.IsZero() {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// FullAddress joins the non-blank address parts with ", ".
func FullAddress(a models.Address) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// AvailableSeats is capacity minus occupancy, never negative.
func AvailableSeats(capacity, occupied int) int {
	if seats := capacity - occupied; seats > 0 {
		return seats
	}
	return 0
}

// Ratio returns part/whole rounded to two decimals, 0 for whole ≤ 0.
func Ratio(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100) / 100
}

// Percentage returns part/whole*100 rounded to two decimals, 0 for whole ≤ 0.
func Percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}
