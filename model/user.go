package model

import "time"

// User holds the account record. Authorization flags live here; everything
// presentational lives on Profile.
type User struct {
	Id           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsAdmin      bool       `db:"is_admin" json:"isAdmin"`
	IsTerminated bool       `db:"is_terminated" json:"-"`
	BannedUntil  *time.Time `db:"banned_until" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// IsBanned reports whether a temporary ban is still in effect.
func (u *User) IsBanned(now time.Time) bool {
	return u.BannedUntil != nil && u.BannedUntil.After(now)
}

type SocialLink struct {
	Platform string `db:"platform" json:"platform"`
	Url      string `db:"url" json:"url"`
}

type Profile struct {
	Id          int64     `db:"id" json:"-"`
	UserId      int64     `db:"user_id" json:"userId"`
	Username    string    `db:"-" json:"username"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Bio         string    `db:"bio" json:"bio"`
	PictureBlob string    `db:"profile_picture_uuid" json:"-"`
	PictureUrl  *string   `db:"-" json:"profilePictureUrl"`
	IsOnline    bool      `db:"is_online" json:"isOnline"`
	LastOnline  time.Time `db:"last_online" json:"lastOnline"`
	IsAdmin     bool      `db:"-" json:"isAdmin"`

	SocialLinks []*SocialLink `db:"-" json:"socialLinks"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Author is the displayable slice of a user attached to posts and comments.
type Author struct {
	Id          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	PictureBlob string  `json:"-"`
	PictureUrl  *string `json:"profilePictureUrl"`
}
