package auth

import (
	"context"
	"strings"

	"github.com/brightbeginnings/daycare/internal/models"
)

// FamilyLookup finds family accounts by login email.
// This allows the authenticator to be independent of the storage implementation.
type FamilyLookup interface {
	FindByEmail(ctx context.Context, email string) (models.Family, error)
}

// EmployeeLookup lists the employees allowed to use the time clock.
type EmployeeLookup interface {
	ActiveEmployees(ctx context.Context) ([]models.Employee, error)
}

// PasswordAuthenticator authenticates parents by email and password.
type PasswordAuthenticator struct {
	families FamilyLookup
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(families FamilyLookup) *PasswordAuthenticator {
	return &PasswordAuthenticator{families: families}
}

// Authenticate verifies the email and password, returning a family session.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (Session, error) {
	family, err := a.families.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !CheckSecret(family.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return Session{Role: RoleFamily, SubjectID: family.ID, Name: family.Name}, nil
}

// PINAuthenticator authenticates staff at the time clock PIN pad.
type PINAuthenticator struct {
	employees EmployeeLookup
}

// NewPINAuthenticator creates a PIN authenticator.
func NewPINAuthenticator(employees EmployeeLookup) *PINAuthenticator {
	return &PINAuthenticator{employees: employees}
}

// Authenticate returns a session for the active employee whose PIN matches.
// Directors and admins receive the admin role.
func (a *PINAuthenticator) Authenticate(ctx context.Context, pin string) (Session, models.Employee, error) {
	if err := ValidatePIN(pin); err != nil {
		return Session{}, models.Employee{}, ErrInvalidPIN
	}
	staff, err := a.employees.ActiveEmployees(ctx)
	if err != nil {
		return Session{}, models.Employee{}, err
	}
	for _, emp := range staff {
		if !CheckSecret(emp.PINHash, pin) {
			continue
		}
		role := RoleEmployee
		if emp.Role == models.RoleDirector || emp.Role == models.RoleAdmin {
			role = RoleAdmin
		}
		return Session{Role: role, SubjectID: emp.ID, Name: emp.FullName()}, emp, nil
	}
	return Session{}, models.Employee{}, ErrInvalidPIN
}
