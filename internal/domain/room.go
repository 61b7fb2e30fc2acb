package domain

import "time"

// Lobby room statuses shown in the bomb game hub.
const (
	LobbyStatusWaiting = "Aguardando"
	LobbyStatusPlaying = "Em andamento"
)

// DefaultLobbyCapacity is used when a lobby room is created without max_players.
const DefaultLobbyCapacity = 16

// LobbyRoom is a persisted bomb game room listed by the REST lobby.
// Its ID doubles as the real-time room identifier in the bomb namespace.
type LobbyRoom struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Name       string    `gorm:"size:120;not null" json:"name"`
	Category   string    `gorm:"size:60;not null" json:"category"`
	Players    int       `gorm:"not null" json:"players"`
	MaxPlayers int       `gorm:"not null" json:"max_players"`
	Status     string    `gorm:"size:30;not null" json:"status"`
	CreatorID  uint      `gorm:"index" json:"creator_id,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`

	// Online is filled from the live session registry, never stored.
	Online int `gorm:"-" json:"online"`
}

// IsFull reports whether another player may join.
func (r *LobbyRoom) IsFull() bool {
	return r.Players >= r.MaxPlayers
}
