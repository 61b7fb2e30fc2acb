package dto

import (
	"encoding/json"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// Client -> server event names.
const (
	EventJoinBombRoom     = "join_bomb_room"
	EventLeaveBombRoom    = "leave_bomb_room"
	EventJoinLoadoutRoom  = "join_loadout_room"
	EventLeaveLoadoutRoom = "leave_loadout_room"
	EventBombGameStart    = "bomb_game_start"
	EventBombGameInput    = "bomb_game_input"
	EventBombGameResult   = "bomb_game_result"
	EventBombGameHint     = "bomb_game_cooperative_hint"
	EventLoadoutUpdate    = "loadout_update"
	EventLoadoutVote      = "loadout_vote"
)

// Server -> client event names.
const (
	EventConnectionResponse = "connection_response"
	EventRoomJoined         = "room_joined"
	EventRoomLeft           = "room_left"
	EventGameStarted        = "game_started"
	EventInputReceived      = "input_received"
	EventGameResult         = "game_result"
	EventHintReceived       = "hint_received"
	EventLoadoutUpdated     = "loadout_updated"
	EventVoteReceived       = "vote_received"
	EventError              = "error"
)

// Frame is the inbound WebSocket envelope.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// OutFrame is the outbound WebSocket envelope.
type OutFrame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// --- inbound payloads ---

type RoomRequest struct {
	Room string `json:"room" binding:"required,max=191"`
}

// BombStartRequest may still carry the sequence older clients fetched over
// REST; it is ignored because the server draws the sequence.
type BombStartRequest struct {
	Room      string `json:"room" binding:"required,max=191"`
	Sequence  string `json:"sequence,omitempty"`
	TimeLimit *int   `json:"time_limit,omitempty"`
}

type BombInputRequest struct {
	Room     string `json:"room" binding:"required,max=191"`
	RoundID  string `json:"round_id,omitempty"`
	Input    string `json:"input" binding:"required,max=8"`
	Position *int   `json:"position" binding:"required"`
}

// BombResultRequest carries the attempt. ExpectedSequence, Success and Reward
// are client claims that are only checked against server state.
type BombResultRequest struct {
	Room             string   `json:"room" binding:"required,max=191"`
	RoundID          string   `json:"round_id,omitempty"`
	Sequence         *string  `json:"sequence" binding:"required"`
	TimeTaken        *float64 `json:"time_taken,omitempty"`
	ExpectedSequence *string  `json:"expected_sequence,omitempty"`
	Success          *bool    `json:"success,omitempty"`
	Reward           *int     `json:"reward,omitempty"`
}

type BombHintRequest struct {
	Room string `json:"room" binding:"required,max=191"`
	Hint string `json:"hint" binding:"required,max=500"`
}

type LoadoutDraft struct {
	ID       string   `json:"id,omitempty" binding:"omitempty,max=64"`
	WeaponID string   `json:"weapon_id" binding:"required,max=64"`
	SkinID   string   `json:"skin_id" binding:"required,max=64"`
	Stickers []string `json:"stickers" binding:"max=5,dive,required,max=64"`
	Color    string   `json:"color,omitempty" binding:"omitempty,hexcolor"`
}

// ToDomain converts the payload into a draft.
func (d LoadoutDraft) ToDomain() domain.Draft {
	stickers := d.Stickers
	if stickers == nil {
		stickers = []string{}
	}
	return domain.Draft{ID: d.ID, WeaponID: d.WeaponID, SkinID: d.SkinID, Stickers: stickers, Color: d.Color}
}

type LoadoutUpdateRequest struct {
	Room    string        `json:"room" binding:"required,max=191"`
	Loadout *LoadoutDraft `json:"loadout" binding:"required"`
}

// LoadoutVoteRequest.UserID is optional; when present it must match the
// authenticated user.
type LoadoutVoteRequest struct {
	Room      string `json:"room" binding:"required,max=191"`
	LoadoutID string `json:"loadout_id" binding:"required,max=64"`
	UserID    *uint  `json:"user_id,omitempty"`
}

// --- outbound payloads ---

type ConnectionResponse struct {
	Status        string `json:"status"`
	ParticipantID string `json:"participant_id"`
}

type RoomEvent struct {
	Room          string `json:"room"`
	ParticipantID string `json:"participant_id,omitempty"`
}

type GameStarted struct {
	RoundID   string `json:"round_id"`
	Sequence  string `json:"sequence"`
	TimeLimit int    `json:"time_limit"`
}

type InputReceived struct {
	Input    string `json:"input"`
	Position int    `json:"position"`
}

type GameResult struct {
	RoundID   string  `json:"round_id"`
	Success   bool    `json:"success"`
	TimeTaken float64 `json:"time_taken"`
	Reward    int     `json:"reward"`
	Reason    string  `json:"reason"`
}

type HintReceived struct {
	Hint string `json:"hint"`
}

type LoadoutUpdated struct {
	Loadout domain.Draft `json:"loadout"`
}

type VoteReceived struct {
	LoadoutID string `json:"loadout_id"`
	UserID    uint   `json:"user_id"`
	Votes     int    `json:"votes"`
}

// ErrorDTO is sent only to the participant whose request was rejected.
type ErrorDTO struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}
