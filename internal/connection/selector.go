// Package connection turns raw departure boards into the answer the bot
// actually gives: the next departure from a stop that goes the right way.
//
// A Connection is a departure annotated with the remaining wait, split
// into whole minutes and a seconds remainder. Selection filters a board
// by a destination set, drops departures already in the past, and ranks
// the rest by (minutes, seconds).
package connection

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/fgerlach/havagbot/internal/havag"
)

// ErrNoConnection reports that no upcoming departure matched the
// destination set.
var ErrNoConnection = errors.New("no connection found")

// Source provides departure boards. Satisfied by *havag.Client.
type Source interface {
	Departures(ctx context.Context, stop string) ([]havag.Departure, error)
}

// Connection is a departure annotated with the time remaining until it
// leaves.
type Connection struct {
	havag.Departure
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// sooner reports whether c departs before other, comparing whole minutes
// first and the seconds remainder as tie-break.
func (c Connection) sooner(other Connection) bool {
	if c.Minutes != other.Minutes {
		return c.Minutes < other.Minutes
	}
	return c.Seconds < other.Seconds
}

// newConnection annotates dep with the remaining time until departure,
// relative to now.
func newConnection(dep havag.Departure, now time.Time) Connection {
	total := int(dep.Scheduled.Sub(now) / time.Second)
	return Connection{
		Departure: dep,
		Minutes:   total / 60,
		Seconds:   total % 60,
	}
}

// Selector picks connections from the departure boards of a Source.
type Selector struct {
	source Source
	now    func() time.Time
}

// NewSelector creates a selector reading boards from source.
func NewSelector(source Source) *Selector {
	return &Selector{
		source: source,
		now:    time.Now,
	}
}

// Upcoming returns the stop's future departures as connections, soonest
// first. When destinations is non-empty only departures toward one of
// them are kept; departures already in the past are always dropped.
func (s *Selector) Upcoming(ctx context.Context, stop string, destinations []string) ([]Connection, error) {
	board, err := s.source.Departures(ctx, stop)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var upcoming []Connection
	for _, dep := range board {
		if len(destinations) > 0 && !contains(destinations, dep.Destination) {
			continue
		}
		if dep.Scheduled.Before(now) {
			continue
		}
		upcoming = append(upcoming, newConnection(dep, now))
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].sooner(upcoming[j])
	})

	return upcoming, nil
}

// Next returns the soonest connection from stop toward one of the
// destinations. It fails with ErrNoConnection when nothing matches; an
// empty destination set matches nothing.
func (s *Selector) Next(ctx context.Context, stop string, destinations []string) (*Connection, error) {
	if len(destinations) == 0 {
		return nil, ErrNoConnection
	}

	upcoming, err := s.Upcoming(ctx, stop, destinations)
	if err != nil {
		return nil, err
	}
	if len(upcoming) == 0 {
		return nil, ErrNoConnection
	}

	return &upcoming[0], nil
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
