package domain

import "time"

// User is a registered account. Profile fields are plain strings: a missing
// profile row reads as empty values.
type User struct {
	ID                 int64
	Username           string
	Email              string
	PasswordHash       string
	FirstName          string
	LastName           string
	Profile            Profile
	IsVerified         bool
	VerificationToken  string
	PasswordResetToken string
	CreatedAt          time.Time
}

type Profile struct {
	Telefonumber string
	Address      string
	City         string
	ZipCode      string
	Birthday     string
}

// ProfileUpdate carries a partial profile edit; nil fields are left as is.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Telefonumber *string
	Address      *string
	City         *string
	ZipCode      *string
	Birthday     *string
}
