package domain

import (
	"math"
	"time"
)

// SequenceCorpus is the fixed set of key sequences a round can draw from.
var SequenceCorpus = []string{
	"SEEWQWA",
	"AQWERTY",
	"ZXCVBNM",
	"QAZWSXE",
	"EDCRFVT",
}

const (
	// DefaultTimeLimit applies when startRound does not request one.
	DefaultTimeLimit = 60 * time.Second

	minReward  = 10
	baseReward = 100
)

// RoundState is the per-room bomb session state.
type RoundState int

const (
	RoundIdle RoundState = iota
	RoundActive
	RoundSettled
)

func (s RoundState) String() string {
	switch s {
	case RoundIdle:
		return "idle"
	case RoundActive:
		return "active"
	case RoundSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Settlement reasons.
const (
	SettledBySubmission = "submitted"
	SettledByTimeout    = "timeout"
)

// InputEvent is one relayed key press.
type InputEvent struct {
	ParticipantID ParticipantID `json:"-"`
	Input         string        `json:"input"`
	Position      int           `json:"position"`
	At            time.Time     `json:"-"`
}

// Round is one timed attempt at a sequence. Sequence is authoritative server state.
type Round struct {
	ID        string
	Room      string
	Sequence  string
	TimeLimit time.Duration
	StartedAt time.Time
	Inputs    []InputEvent
	Outcome   *Outcome
}

// Deadline is the instant the round fails if unsettled.
func (r *Round) Deadline() time.Time {
	return r.StartedAt.Add(r.TimeLimit)
}

// Outcome is the verification result of a round or a stateless verify call.
type Outcome struct {
	Success     bool
	Reward      int
	Elapsed     float64 // seconds
	Reason      string
	SettledBy   uint // user that submitted the result, zero for timeouts or anonymous
	Submitted   string
	CompletedAt time.Time
}

// Reward computes max(10, 100 - floor(elapsed)). Negative elapsed counts as zero.
func Reward(elapsedSeconds float64) int {
	if elapsedSeconds < 0 || math.IsNaN(elapsedSeconds) {
		elapsedSeconds = 0
	}
	return max(minReward, baseReward-int(math.Floor(elapsedSeconds)))
}

// Verify compares a submission against the expected sequence (case-sensitive).
func Verify(submitted, expected string, elapsedSeconds float64) Outcome {
	if submitted != expected {
		return Outcome{Success: false, Reward: 0, Elapsed: elapsedSeconds, Submitted: submitted}
	}
	return Outcome{Success: true, Reward: Reward(elapsedSeconds), Elapsed: elapsedSeconds, Submitted: submitted}
}

// RoundRecord is the persisted history row for a settled round.
type RoundRecord struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	RoundID   string    `gorm:"size:64;uniqueIndex;not null" json:"round_id"`
	Room      string    `gorm:"size:191;index;not null" json:"room"`
	Sequence  string    `gorm:"size:32;not null" json:"sequence"`
	Success   bool      `gorm:"not null" json:"success"`
	Reward    int       `gorm:"not null" json:"reward"`
	Elapsed   float64   `gorm:"not null" json:"time_taken"`
	Reason    string    `gorm:"size:20;not null" json:"reason"`
	UserID    uint      `gorm:"index" json:"user_id,omitempty"`
	Inputs    int       `gorm:"not null" json:"inputs"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	SettledAt time.Time `gorm:"index;not null" json:"settled_at"`
}

// NewRoundRecord flattens a settled round. It returns nil for unsettled rounds.
func NewRoundRecord(r *Round) *RoundRecord {
	if r == nil || r.Outcome == nil {
		return nil
	}
	return &RoundRecord{
		RoundID:   r.ID,
		Room:      r.Room,
		Sequence:  r.Sequence,
		Success:   r.Outcome.Success,
		Reward:    r.Outcome.Reward,
		Elapsed:   r.Outcome.Elapsed,
		Reason:    r.Outcome.Reason,
		UserID:    r.Outcome.SettledBy,
		Inputs:    len(r.Inputs),
		StartedAt: r.StartedAt,
		SettledAt: r.Outcome.CompletedAt,
	}
}

// LeaderboardEntry is one ranked user on the bomb leaderboard.
type LeaderboardEntry struct {
	UserID uint  `json:"user_id"`
	Reward int64 `json:"reward"`
	Rank   int   `json:"rank"`
}
