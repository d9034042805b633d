package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions recorded in the activity feed.
const (
	ActionSignup         = "signup"
	ActionLogin          = "login"
	ActionSelfUpdate     = "self_update"
	ActionAdminUpdate    = "admin_update"
	ActionForgotPassword = "forgot_password"
	ActionResetPassword  = "reset_password"
	ActionOAuthSignup    = "oauth_signup"
	ActionOAuthLogin     = "oauth_login"
	ActionUserDeleted    = "user_deleted"
	ActionCatalogCreate  = "catalog_create"
	ActionCatalogUpdate  = "catalog_update"
	ActionCatalogDelete  = "catalog_delete"
)

// Activity is an immutable audit record of a significant account or catalog
// action, surfaced on the admin feed.
type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID   string `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserName string `bson:"user_name,omitempty" json:"user_name,omitempty"`
	Action   string `bson:"action" json:"action"`
	Detail   string `bson:"detail,omitempty" json:"detail,omitempty"`
}
