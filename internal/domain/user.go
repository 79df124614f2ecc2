package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID         int
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Password   password
	BirthDate  *time.Time
	Role       Role
	Points     int
	TotalSpent decimal.Decimal
	VisitCount int
	LastVisit  *time.Time
	Tier       Tier
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}

	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type password struct {
	plaintext *string
	Hash      []byte
}

func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plaintext
	p.Hash = hash

	return nil
}

func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

// BirthdayMatches reports whether birth falls on today's month and day.
// Outside leap years, Feb 29 birthdays are celebrated on Feb 28.
func BirthdayMatches(birth, today time.Time) bool {
	if birth.Month() == today.Month() && birth.Day() == today.Day() {
		return true
	}

	return birth.Month() == time.February && birth.Day() == 29 &&
		today.Month() == time.February && today.Day() == 28 && !isLeap(today.Year())
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetById(ctx context.Context, id int) (*User, error)
	SetRoleByEmail(ctx context.Context, email string, role Role) (user *User, changed bool, err error)
	AdjustPoints(ctx context.Context, id int, delta int) (*User, error)
	GetByBirthday(ctx context.Context, today time.Time) ([]*User, error)
	ListIDs(ctx context.Context) ([]int, error)
	ApplyTotals(ctx context.Context, batch []UserTotals, mode RecomputeMode) error
}
