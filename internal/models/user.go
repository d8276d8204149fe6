package models

import "time"

// Profile field limits shared by validation tags and handlers.
const (
	DisplayNameMaxLength = 50
	BioMaxLength         = 160
)

// DefaultTheme is applied whenever a profile carries an unknown theme key.
const DefaultTheme = "theme:linen"

// Themes lists the selectable profile themes.
var Themes = []string{"theme:linen", "theme:rose", "theme:sea", "theme:forest"}

// UserProfile is the per-user document stored in the "users" collection,
// keyed by the Firebase UID. postCount and totalLikesReceived are maintained
// incrementally inside transactions, never recomputed from scratch.
type UserProfile struct {
	UID                  string     `json:"uid" bson:"_id"`
	Email                string     `json:"email" bson:"email"`
	DisplayName          string     `json:"display_name" bson:"displayName"`
	Address              string     `json:"address" bson:"address"`
	Bio                  string     `json:"bio" bson:"bio"`
	PhotoURL             string     `json:"photo_url" bson:"photoUrl"`
	BackgroundURL        string     `json:"background_url" bson:"backgroundUrl"`
	Theme                string     `json:"theme" bson:"theme"`
	PostCount            int        `json:"post_count" bson:"postCount"`
	TotalLikesReceived   int        `json:"total_likes_received" bson:"totalLikesReceived"`
	AddressLastChangedAt *time.Time `json:"address_last_changed_at" bson:"addressLastChangedAt"`
	EmailVerified        bool       `json:"email_verified" bson:"emailVerified"`
	CreatedAt            time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt            time.Time  `json:"updated_at" bson:"updatedAt"`
}

// ResolveTheme maps an unknown or empty theme key to the default.
func ResolveTheme(value string) string {
	for _, theme := range Themes {
		if value == theme {
			return value
		}
	}
	return DefaultTheme
}

// SignUpRequest defines the request body for account creation
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=50"`
	Address     string `json:"address" validate:"required"`
}

// UpdateProfileRequest defines the request body for editing profile fields
type UpdateProfileRequest struct {
	DisplayName   *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=50"`
	Bio           *string `json:"bio,omitempty" validate:"omitempty,max=160"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	BackgroundURL *string `json:"background_url,omitempty"`
	Theme         *string `json:"theme,omitempty"`
}

// ChangeAddressRequest defines the request body for an @ddress change
type ChangeAddressRequest struct {
	Address string `json:"address" validate:"required"`
}
