// Package families stores parent accounts, their enrolled children and the
// progress reports teachers write about them.
package families

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/employees"
	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// KeyFamilies is the collection key for family accounts.
const KeyFamilies = "families"

// Store wraps the families collection with account and enrollment queries.
type Store struct {
	Families *storage.Collection[models.Family, *models.Family]

	now    func() time.Time
	logger *slog.Logger
	auth   *auth.PasswordAuthenticator
}

// New creates the family store on top of kv.
func New(kv storage.KV, opts storage.Options) *Store {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
		opts.Now = now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		Families: storage.NewCollection[models.Family](kv, storage.Key(KeyFamilies), "fam", opts).
			WithValidator(validateFamily).
			WithUnique("email", func(f models.Family) string { return normalizeEmail(f.Email) }),
		now:      now,
		logger:   logger,
	}
	s.auth = auth.NewPasswordAuthenticator(s)
	return s
}

func validateFamily(f *models.Family) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = normalizeEmail(f.Email)
	if f.Name == "" {
		return storage.Invalid("name", "is required")
	}
	if f.Email == "" {
		return storage.Invalid("email", "is required")
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return storage.Invalid("email", "is not a valid address")
	}
	for i := range f.Children {
		c := &f.Children[i]
		if c.ID == "" {
			c.ID = storage.NewID("child")
		}
		if c.AgeGroup != "" && !c.AgeGroup.Valid() {
			return storage.Invalid("children.ageGroup", "unknown age group %q", c.AgeGroup)
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns the family whose login email matches, ignoring case.
// Login emails are unique across families.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.Family, error) {
	email = normalizeEmail(email)
	matches, err := s.Families.Find(ctx, func(f models.Family) bool { return f.Email == email })
	if err != nil {
		return models.Family{}, err
	}
	if len(matches) == 0 {
		return models.Family{}, fmt.Errorf("family %q: %w", email, storage.ErrNotFound)
	}
	return matches[0], nil
}

// Authenticate checks a parent portal login.
func (s *Store) Authenticate(ctx context.Context, email, password string) (auth.Session, error) {
	session, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Family login failed", "email", normalizeEmail(email))
		return auth.Session{}, err
	}
	s.logger.Info("Family login successful", "family_id", session.SubjectID)
	return session, nil
}

// SetPassword stores the bcrypt hash of a new portal password.
func (s *Store) SetPassword(ctx context.Context, familyID, password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return storage.Invalid("password", "%v", err)
	}
	hash, err := auth.HashSecret(password)
	if err != nil {
		return err
	}
	if _, err := s.Families.Update(ctx, familyID, func(f *models.Family) error {
		f.PasswordHash = hash
		return nil
	}); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

// AddChild enrolls a child in the family and returns the stored child.
func (s *Store) AddChild(ctx context.Context, familyID string, child models.Child) (models.Child, error) {
	if strings.TrimSpace(child.FirstName) == "" {
		return models.Child{}, storage.Invalid("firstName", "is required")
	}
	child.ID = storage.NewID("child")
	child.Reports = nil
	if _, err := s.Families.Update(ctx, familyID, func(f *models.Family) error {
		f.Children = append(f.Children, child)
		return nil
	}); err != nil {
		return models.Child{}, err
	}
	s.logger.Info("Child enrolled", "family_id", familyID, "child_id", child.ID, "classroom", child.Classroom)
	return child, nil
}

// AddProgressReport appends a report to one child's record.
func (s *Store) AddProgressReport(ctx context.Context, familyID, childID string, report models.ProgressReport) (models.ProgressReport, error) {
	if strings.TrimSpace(report.Summary) == "" {
		return models.ProgressReport{}, storage.Invalid("summary", "is required")
	}
	report.ID = storage.NewID("rpt")
	if report.Date.IsZero() {
		report.Date = s.now()
	}
	_, err := s.Families.Update(ctx, familyID, func(f *models.Family) error {
		for i := range f.Children {
			if f.Children[i].ID == childID {
				f.Children[i].Reports = append(f.Children[i].Reports, report)
				return nil
			}
		}
		return fmt.Errorf("child %q: %w", childID, storage.ErrNotFound)
	})
	if err != nil {
		return models.ProgressReport{}, err
	}
	return report, nil
}

// ChildrenByClassroom counts enrolled children per classroom. Each room's age
// group is the youngest present. Children without a classroom are skipped.
func (s *Store) ChildrenByClassroom(ctx context.Context) ([]employees.RoomLoad, error) {
	all, err := s.Families.List(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make(map[string]*employees.RoomLoad)
	for _, f := range all {
		for _, c := range f.Children {
			if c.Classroom == "" {
				continue
			}
			room, ok := rooms[c.Classroom]
			if !ok {
				room = &employees.RoomLoad{Classroom: c.Classroom, AgeGroup: c.AgeGroup}
				rooms[c.Classroom] = room
			}
			room.Children++
			if younger(c.AgeGroup, room.AgeGroup) {
				room.AgeGroup = c.AgeGroup
			}
		}
	}
	out := make([]employees.RoomLoad, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Classroom < out[j].Classroom })
	return out, nil
}

var ageOrder = map[models.AgeGroup]int{
	models.AgeInfant:    0,
	models.AgeToddler:   1,
	models.AgePreschool: 2,
	models.AgeSchoolAge: 3,
}

// younger reports whether a is a younger age group than b. Unknown groups
// rank youngest.
func younger(a, b models.AgeGroup) bool {
	ra, ok := ageOrder[a]
	if !ok {
		ra = -1
	}
	rb, ok := ageOrder[b]
	if !ok {
		rb = -1
	}
	return ra < rb
}
