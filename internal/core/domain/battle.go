package domain

import "time"

// BattleLog records the outcome of a single battle played by a user.
type BattleLog struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	WinnerID    int       `json:"winner_id"`
	LoserID     int       `json:"loser_id"`
	TotalRounds int       `json:"total_rounds"`
	CreatedAt   time.Time `json:"created_at"`
}
