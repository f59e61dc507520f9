package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/schoolconnect/core"
)

// Roles
const (
	RoleParent  = "parent"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleParent, RoleTeacher, RoleAdmin}

	// HashCost is the bcrypt cost used to hash passwords.
	HashCost = bcrypt.DefaultCost // mockable
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	ProfilePicture *string   `json:"profilePicture"`
	PasswordHash   []byte    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`  // UTC
	LastActive     time.Time `json:"lastActive"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), HashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsParent() bool  { return u.Role == RoleParent }

// IsStaff reports whether the user is a teacher or an admin.
func (u User) IsStaff() bool { return u.IsTeacher() || u.IsAdmin() }

// IsSelfOrAdmin reports whether the user is the one identified by id, or an admin.
func (u User) IsSelfOrAdmin(id int) bool { return u.ID == id || u.IsAdmin() }

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=parent teacher"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	if nu.Role == "" {
		nu.Role = RoleParent
	}

	if err := validate.Struct(nu); err != nil {
		return core.WrapValidationErrors(err, "Name, email and password are required")
	}
	return svc.checkUniqueness(ctx, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
// The password is never changed through it.
type UpdateUser struct {
	Name           string  `json:"name" validate:"omitempty,notblank"`
	Email          string  `json:"email" validate:"omitempty,email"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, validate *validator.Validate, svc *Service) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return core.WrapValidationErrors(err, "Invalid profile data")
	}
	return svc.checkUniqueness(ctx, uu.Email, origUsr.ID)
}

// ChangePassword contains the current and the new password of a User.
type ChangePassword struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`

	// attributes the new password is compared against
	name  string
	email string
}

func (cp *ChangePassword) Validate(usr User, validate *validator.Validate) error {
	cp.name = usr.Name
	cp.email = usr.Email
	return core.WrapValidationErrors(validate.Struct(cp), "Current and new passwords are required")
}

// GetFilter selects one User. ID takes precedence over Email.
type GetFilter struct {
	ID    int
	Email string
}
