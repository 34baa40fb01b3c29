package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxPersonNameLen = 50
	maxEmailLen      = 120
	minPasswordLen   = 8
)

// PasswordCost is the bcrypt work factor used by HashPassword.
var PasswordCost = bcrypt.DefaultCost

var validate = validator.New()

// User models a registered account. Password only ever holds a bcrypt hash.
type User struct {
	Base
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	IsAdmin   bool   `json:"is_admin"`
}

// NewUser validates every field, normalizes the email and hashes the password.
func NewUser(firstName, lastName, email, password string, isAdmin bool) (*User, error) {
	if err := validatePersonName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := validatePersonName("last_name", lastName); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	u := &User{
		Base:      newBase(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsAdmin:   isAdmin,
	}
	if err := u.HashPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail is the canonical form used for storage and uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword replaces the stored hash with a bcrypt hash of plaintext.
func (u *User) HashPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordCost)
	if err != nil {
		return invalid("password", "%v", err)
	}
	u.Password = string(hash)
	return nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
func (u *User) VerifyPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

func (u *User) Attribute(name string) (any, bool) {
	switch name {
	case "first_name":
		return u.FirstName, true
	case "last_name":
		return u.LastName, true
	case "email":
		return u.Email, true
	case "is_admin":
		return u.IsAdmin, true
	}
	return u.attribute(name)
}

// UserPatch is a partial update of a User. Nil fields are left untouched.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

// Validate checks the present fields without touching any entity.
func (p UserPatch) Validate() error {
	if p.FirstName != nil {
		if err := validatePersonName("first_name", *p.FirstName); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		if err := validatePersonName("last_name", *p.LastName); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := validateEmail(NormalizeEmail(*p.Email)); err != nil {
			return err
		}
	}
	if p.Password != nil {
		if err := validatePassword(*p.Password); err != nil {
			return err
		}
	}
	return nil
}

func (p UserPatch) Apply(u *User) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Password != nil {
		if err := u.HashPassword(*p.Password); err != nil {
			return err
		}
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	u.touch()
	return nil
}

func validatePersonName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid(field, "is required")
	}
	if utf8.RuneCountInString(v) > maxPersonNameLen {
		return invalid(field, "must be at most %d characters", maxPersonNameLen)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if len(email) > maxEmailLen || validate.Var(email, "email") != nil {
		return invalid("email", "must be a valid email address")
	}
	return nil
}

func validatePassword(p string) error {
	if utf8.RuneCountInString(p) < minPasswordLen {
		return invalid("password", "must be at least %d characters", minPasswordLen)
	}
	return nil
}
