package model

import "time"

// Tier is the subscription level of an identity. It bounds how many profiles it may own.
type Tier string

const (
	TierFree Tier = "free"
	TierPlus Tier = "plus"
	TierPro  Tier = "pro"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPlus, TierPro:
		return true
	}
	return false
}

// Identity is a login of the social application. It owns one or more profiles.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Tier         Tier      `json:"tier"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is a public persona. Everything visible to other users hangs off a profile,
// never off the identity behind it.
type Profile struct {
	ID          string    `json:"id"`
	IdentityID  string    `json:"-"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarKey   string    `json:"-"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post is a short entry published by a profile.
type Post struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Handle    string    `json:"handle,omitempty"`
	Body      string    `json:"body"`
	MediaKey  string    `json:"-"`
	MediaURL  string    `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Album groups photos under a profile.
type Album struct {
	ID        string       `json:"id"`
	ProfileID string       `json:"profile_id"`
	Title     string       `json:"title"`
	Photos    []AlbumPhoto `json:"photos,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// AlbumPhoto is a stored image inside an album.
type AlbumPhoto struct {
	ID        string    `json:"id"`
	AlbumID   string    `json:"album_id"`
	MediaKey  string    `json:"-"`
	URL       string    `json:"url,omitempty"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow records that Follower follows Followee. Both are profile IDs.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
