package cli

import (
	"sort"
	"strconv"

	"github.com/fgerlach/havagbot/internal/connection"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByTime SortOrder = "time"
	SortByLine SortOrder = "line"
)

// sortConnections sorts a slice of connections based on the specified sort order
func sortConnections(conns []connection.Connection, sortOrder SortOrder) {
	switch sortOrder {
	case SortByTime:
		sort.SliceStable(conns, func(i, j int) bool {
			return conns[i].Scheduled.Before(conns[j].Scheduled)
		})
	case SortByLine:
		sort.SliceStable(conns, func(i, j int) bool {
			if conns[i].Line != conns[j].Line {
				return compareByLine(conns[i].Line, conns[j].Line)
			}
			// If lines are equal, sort by departure time
			return conns[i].Scheduled.Before(conns[j].Scheduled)
		})
	}
}

// compareByLine compares two line labels, numerically when both parse
// as numbers so that line 3 sorts before line 16.
func compareByLine(a, b string) bool {
	numA, errA := strconv.Atoi(a)
	numB, errB := strconv.Atoi(b)

	if errA == nil && errB == nil {
		return numA < numB
	}

	// Numeric lines come before named ones
	if errA == nil {
		return true
	}
	if errB == nil {
		return false
	}

	return a < b
}
