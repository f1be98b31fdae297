package game

import "fmt"

// Seat describes one participant slot at match start.
type Seat struct {
	Name string
	Bot  bool
}

type Config struct {
	Mode        Mode
	Seats       []Seat
	TotalRounds int

	// RNG seed (0 => time-based)
	Seed int64
}

func (c Config) validate() error {
	if len(c.Seats) < MinSeats || len(c.Seats) > MaxSeats {
		return fmt.Errorf("seat count must be %d-%d, got %d", MinSeats, MaxSeats, len(c.Seats))
	}
	if c.TotalRounds <= 0 {
		return fmt.Errorf("TotalRounds must be > 0")
	}
	if _, ok := ModeDictionary[c.Mode]; !ok {
		return fmt.Errorf("invalid mode %d", c.Mode)
	}
	dealt := len(c.Seats) * HandSize
	if dealt >= 52 {
		return fmt.Errorf("cannot deal %d cards from a 52 card deck", dealt)
	}
	return nil
}
