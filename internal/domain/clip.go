package domain

import "time"

const (
	// DefaultClipCategory is used when a clip is created without a category.
	DefaultClipCategory = "Destaque"

	// Media upload is not handled; new clips point at these placeholders.
	PlaceholderClipURL       = "/static/uploads/placeholder.mp4"
	PlaceholderClipThumbnail = "/static/uploads/placeholder.jpg"
)

// Clip is the metadata of a shared gameplay clip.
type Clip struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Username  string    `gorm:"size:191" json:"username"`
	Game      string    `gorm:"size:120;index;not null" json:"game"`
	Category  string    `gorm:"size:120;index;not null" json:"category"`
	Views     int       `gorm:"not null;default:0" json:"views"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	Comments  int       `gorm:"not null;default:0" json:"comments"`
	URL       string    `gorm:"size:255" json:"url"`
	Thumbnail string    `gorm:"size:255" json:"thumbnail"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// ClipLike records that a user liked a clip; (user, clip) is unique.
type ClipLike struct {
	ID        uint      `gorm:"primaryKey"`
	ClipID    string    `gorm:"size:64;uniqueIndex:idx_like_user_clip;not null"`
	UserID    uint      `gorm:"uniqueIndex:idx_like_user_clip;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ClipFilter narrows a clip listing. Empty fields match everything.
type ClipFilter struct {
	Category string
	Game     string
}

// Game is an entry of the games catalog used by clips and the ranking.
type Game struct {
	ID   string `gorm:"primaryKey;size:64" json:"id"`
	Name string `gorm:"size:120;uniqueIndex;not null" json:"name"`
}

// Follow is a directed follower -> followee edge.
type Follow struct {
	ID         uint      `gorm:"primaryKey"`
	FollowerID uint      `gorm:"uniqueIndex:idx_follow_pair;not null"`
	FolloweeID uint      `gorm:"uniqueIndex:idx_follow_pair;index;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// PlayerStats is one row of the ranking query.
type PlayerStats struct {
	UserID    uint
	Username  string
	Followers int64
	Clips     int64
}

// RankedPlayer is a ranking entry as seen by one viewer.
type RankedPlayer struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Rank      int    `json:"rank"`
	Followers int64  `json:"followers"`
	Clips     int64  `json:"clips"`
	Following bool   `json:"following"`
}
