package domain

import "time"

// DefaultLoadoutColor is used when a loadout is created without a colour.
const DefaultLoadoutColor = "#FFFFFF"

// Weapon is a catalog entry.
type Weapon struct {
	ID    string `gorm:"primaryKey;size:64" json:"id"`
	Name  string `gorm:"size:120;not null" json:"name"`
	Type  string `gorm:"size:60;not null" json:"type"`
	Image string `gorm:"size:255" json:"image"`
}

// Skin is a catalog entry bound to one weapon.
type Skin struct {
	ID       string `gorm:"primaryKey;size:64" json:"id"`
	Name     string `gorm:"size:120;not null" json:"name"`
	WeaponID string `gorm:"size:64;index;not null" json:"weapon_id"`
	Rarity   string `gorm:"size:60" json:"rarity"`
	Image    string `gorm:"size:255" json:"image"`
}

// Sticker is a catalog entry.
type Sticker struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	Name   string `gorm:"size:120;not null" json:"name"`
	Rarity string `gorm:"size:60" json:"rarity"`
	Image  string `gorm:"size:255" json:"image"`
}

// Loadout is a persisted user loadout.
type Loadout struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Username  string    `gorm:"size:191" json:"username"`
	WeaponID  string    `gorm:"size:64;not null" json:"weapon_id"`
	SkinID    string    `gorm:"size:64;not null" json:"skin_id"`
	Stickers  []string  `gorm:"serializer:json;type:text" json:"stickers"`
	Color     string    `gorm:"size:16;not null" json:"color"`
	Votes     int       `gorm:"not null;default:0" json:"votes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// LoadoutVote records that a user voted for a loadout; (user, loadout) is unique.
type LoadoutVote struct {
	ID        uint      `gorm:"primaryKey"`
	LoadoutID string    `gorm:"size:64;uniqueIndex:idx_vote_user_loadout;not null"`
	UserID    uint      `gorm:"uniqueIndex:idx_vote_user_loadout;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Draft is the working copy of a loadout being edited in a collaboration room.
type Draft struct {
	ID       string   `json:"id,omitempty"`
	WeaponID string   `json:"weapon_id"`
	SkinID   string   `json:"skin_id"`
	Stickers []string `json:"stickers"`
	Color    string   `json:"color,omitempty"`
}

// Clone returns a copy that shares no slices with d.
func (d Draft) Clone() Draft {
	out := d
	if d.Stickers != nil {
		out.Stickers = append([]string(nil), d.Stickers...)
	}
	return out
}
