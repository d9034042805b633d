package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried in user records and token claims.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// Login origins. An account created through Google OAuth carries no password.
const (
	LoginTypeLocal  = "local"
	LoginTypeGoogle = "google"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Password  string `bson:"password,omitempty" json:"-"` // bcrypt hash; empty for google accounts
	Role      string `bson:"role" json:"role"`
	LoginType string `bson:"login_type" json:"loginType"`

	ResetPasswordToken   string    `bson:"reset_password_token,omitempty" json:"-"` // SHA-256 of the emailed value
	ResetPasswordExpires time.Time `bson:"reset_password_expires,omitempty" json:"-"`
}

// Profile is the non-secret view of a user returned in envelopes and OAuth
// payloads. The password hash never leaves the record.
type Profile struct {
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	LoginType string `json:"loginType"`
}

// ProfileOf builds the wire profile for a user. withID controls whether the
// document ID is included (signup responses omit it).
func ProfileOf(u *User, withID bool) Profile {
	p := Profile{
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		LoginType: u.LoginType,
	}
	if withID {
		p.ID = u.ID.Hex()
	}
	return p
}
