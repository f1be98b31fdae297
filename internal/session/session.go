// Package session persists a player's place in an online room across
// process restarts, so a dropped client can rejoin its seat. One session
// per store: joining a new room replaces the old record.
package session

import "context"

// Session is everything a client needs to resume: the join code, its seat,
// and for hosts the writer token that restores push authority.
type Session struct {
	Code        string `json:"code"`
	Seat        int    `json:"seat"`
	Name        string `json:"name"`
	WriterToken string `json:"writer_token,omitempty"`
}

// Host reports whether the session carries write authority.
func (s Session) Host() bool { return s.WriterToken != "" }

// Store persists at most one session.
type Store interface {
	Save(ctx context.Context, s Session) error
	// Load returns the saved session, or ok=false when none exists.
	Load(ctx context.Context) (s Session, ok bool, err error)
	Clear(ctx context.Context) error
	Close() error
}
