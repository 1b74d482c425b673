package storage

import (
	"time"
)

// Image is the metadata record for an uploaded image. The binary lives on
// the media host; MediaKey addresses it there.
type Image struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	MediaKey    string    `json:"-" db:"media_key"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Profile struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	Username  string    `json:"username" db:"username"`
	Interests []string  `json:"interests" db:"interests"`
	PhotoURL  string    `json:"photo_url" db:"photo_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ShareRecord grants read access to one image until ExpiresAt. Records are
// never updated; revocation deletes the row.
type ShareRecord struct {
	Token        string    `json:"token" db:"token"`
	ImageID      string    `json:"image_id" db:"image_id"`
	PasscodeHash *string   `json:"-" db:"passcode_hash"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
}
