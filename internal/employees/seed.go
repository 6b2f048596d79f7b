package employees

import (
	"context"
	"fmt"
	"time"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/models"
)

// Demo staff. PINs are published on the demo login page.
var demoStaff = []struct {
	employee models.Employee
	pin      string
}{
	{models.Employee{Meta: models.Meta{ID: "emp_director"}, FirstName: "Dana", LastName: "Whitfield", Email: "dana@brightbeginnings.example", Role: models.RoleDirector, Classroom: "Oak Room", Salaried: true, Active: true}, "1001"},
	{models.Employee{Meta: models.Meta{ID: "emp_infants"}, FirstName: "Marisol", LastName: "Vega", Email: "marisol@brightbeginnings.example", Role: models.RoleTeacher, Classroom: "Sunflowers", HourlyRate: 19.5, Active: true}, "2002"},
	{models.Employee{Meta: models.Meta{ID: "emp_toddlers"}, FirstName: "Jamal", LastName: "Okafor", Email: "jamal@brightbeginnings.example", Role: models.RoleTeacher, Classroom: "Bluebirds", HourlyRate: 18.75, Active: true}, "3003"},
	{models.Employee{Meta: models.Meta{ID: "emp_cook"}, FirstName: "Rosa", LastName: "Lindqvist", Email: "rosa@brightbeginnings.example", Role: models.RoleCook, HourlyRate: 17, Active: true}, "4004"},
}

// Seed populates empty employee collections with demo data.
func (s *Store) Seed(ctx context.Context) error {
	staff := make([]models.Employee, 0, len(demoStaff))
	for _, d := range demoStaff {
		emp := d.employee
		hash, err := auth.HashSecret(d.pin)
		if err != nil {
			return err
		}
		emp.PINHash = hash
		staff = append(staff, emp)
	}
	if _, err := s.Employees.SeedIfEmpty(ctx, staff); err != nil {
		return fmt.Errorf("failed to seed employees: %w", err)
	}

	week := models.WeekStart(s.now())
	var shifts []models.Shift
	for day := 0; day < 5; day++ {
		date := week.AddDate(0, 0, day)
		for _, d := range demoStaff[1:3] {
			shifts = append(shifts, models.Shift{
				EmployeeID: d.employee.ID,
				Classroom:  d.employee.Classroom,
				Start:      date.Add(7 * time.Hour),
				End:        date.Add(15*time.Hour + 30*time.Minute),
			})
		}
	}
	if _, err := s.Shifts.SeedIfEmpty(ctx, shifts); err != nil {
		return fmt.Errorf("failed to seed schedules: %w", err)
	}

	if _, err := s.Allocations.SeedIfEmpty(ctx, []models.SalariedAllocation{
		{EmployeeID: "emp_director", AnnualSalary: 62400, PeriodsPerYear: 26},
	}); err != nil {
		return fmt.Errorf("failed to seed allocations: %w", err)
	}

	if _, err := s.Training.SeedIfEmpty(ctx, []models.TrainingModule{
		{EmployeeID: "emp_infants", Title: "Safe Sleep Practices", Hours: 2, DueDate: week.AddDate(0, 1, 0)},
		{EmployeeID: "emp_toddlers", Title: "Pediatric First Aid & CPR", Hours: 6, DueDate: week.AddDate(0, 0, -3)},
		{EmployeeID: "emp_cook", Title: "Food Handler Certification", Hours: 3, DueDate: week.AddDate(0, 2, 0)},
	}); err != nil {
		return fmt.Errorf("failed to seed training: %w", err)
	}

	if _, err := s.Notifications.SeedIfEmpty(ctx, []models.Notification{
		{Title: "Fire drill Thursday", Body: "Drill at 10:15. Review the evacuation map posted by each exit."},
		{EmployeeID: "emp_toddlers", Title: "CPR renewal overdue", Body: "Please book a renewal class this week."},
	}); err != nil {
		return fmt.Errorf("failed to seed notifications: %w", err)
	}

	return nil
}
