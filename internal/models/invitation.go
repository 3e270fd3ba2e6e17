package models

import "time"

// Invitation is a single-use, time-limited signup token for one email
// address. Redemption hard-deletes the row; there is no soft delete and no
// background sweep, expiry is enforced when the token is read.
type Invitation struct {
	Token     string    `gorm:"primarykey;type:varchar(36)" json:"token"`
	Email     string    `gorm:"type:varchar(255);index;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}
