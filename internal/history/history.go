// Package history records finished rounds so players can review results
// after a match. One row per seat per round, appended when the authoritative
// state reaches round end.
package history

import (
	"context"

	"github.com/UParthsarathi/3Poker-exp/game"
)

// RoundResult is one seat's line in a finished round.
type RoundResult struct {
	RoomCode     string `json:"room_code"`
	Round        int    `json:"round"`
	WildcardRank byte   `json:"wildcard_rank"`
	Seat         int    `json:"seat"`
	Name         string `json:"name"`
	Caller       bool   `json:"caller"`
	RoundScore   int    `json:"round_score"`
	TotalScore   int    `json:"total_score"`
	RecordedAtMs int64  `json:"recorded_at_ms"`
}

// Service appends round results and lists them back per room.
type Service interface {
	RecordRound(ctx context.Context, code string, s *game.State) error
	ListRounds(ctx context.Context, code string) ([]RoundResult, error)
	Close() error
}

// resultsFromState flattens a round-end snapshot into ledger rows.
func resultsFromState(code string, s *game.State, nowMs int64) []RoundResult {
	rows := make([]RoundResult, 0, len(s.Players))
	for _, p := range s.Players {
		rows = append(rows, RoundResult{
			RoomCode:     code,
			Round:        s.Round,
			WildcardRank: s.WildcardRank,
			Seat:         p.Seat,
			Name:         p.Name,
			Caller:       p.Caller,
			RoundScore:   p.RoundScore,
			TotalScore:   p.TotalScore,
			RecordedAtMs: nowMs,
		})
	}
	return rows
}
