package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. It is decided when a token is
// issued and compared by equality everywhere else.
type Role uint8

const (
	RoleCustomer Role = iota + 1
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleAdmin:
		return "Admin"
	default:
		return ""
	}
}

// ParseRole accepts the exact stored role names only.
func ParseRole(s string) (Role, error) {
	switch s {
	case "Customer":
		return RoleCustomer, nil
	case "Admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if r.String() == "" {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type User struct {
	ID              uuid.UUID   `json:"id"`
	Email           string      `json:"email"`
	Firstname       string      `json:"firstname"`
	Lastname        string      `json:"lastname"`
	PasswordHash    string      `json:"-"`
	Role            Role        `json:"role"`
	IsEmailVerified bool        `json:"isEmailVerified"`
	Carts           []uuid.UUID `json:"carts"`
	Favourites      []uuid.UUID `json:"favourites"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Identity is the caller attached to a request once its cookies check out.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// UserDetail is a user with cart and favourites expanded into products.
type UserDetail struct {
	User
	CartProducts      []Product `json:"cartProducts"`
	FavouriteProducts []Product `json:"favouriteProducts"`
}

type UserPage struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
}
