package havag

import (
	"context"
	"fmt"
	"time"

	"github.com/fgerlach/havagbot/internal/hessian"
	"github.com/fgerlach/havagbot/internal/logger"
)

const (
	// DefaultEndpoint is the public rtpi endpoint of the HAVAG departure
	// service.
	DefaultEndpoint = "http://83.221.237.42:20010/init/rtpi"

	methodDepartures = "getDeparturesForStop"

	// timeLayout is the timestamp format used by departure records. Times
	// are local to the network, without zone information.
	timeLayout = "2006.01.02.15:04:05"
)

// Departure is one upcoming departure at a stop.
type Departure struct {
	Line        string    `json:"line"`
	Destination string    `json:"destination"`
	Scheduled   time.Time `json:"scheduled"`
}

// Client fetches departure boards from the rtpi service.
type Client struct {
	endpoint string
	rpc      *hessian.Client
	log      *logger.Logger
}

// NewClient creates a departure client for the service at endpoint. Use
// DefaultEndpoint for the public service.
func NewClient(endpoint string, log *logger.Logger) (*Client, error) {
	rpc, err := hessian.NewClient(endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating RPC client: %w", err)
	}

	return &Client{
		endpoint: endpoint,
		rpc:      rpc,
		log:      log,
	}, nil
}

// Departures fetches the current departure board for stop. The reply is
// validated eagerly: every record must carry a line, a destination, and a
// parseable timestamp. Remote failures return a *RemoteError, malformed
// records a *RecordError.
func (c *Client) Departures(ctx context.Context, stop string) ([]Departure, error) {
	reply, err := c.rpc.Call(ctx, methodDepartures, stop)
	if err != nil {
		return nil, &RemoteError{Stop: stop, Err: err}
	}

	rows, ok := reply.([]interface{})
	if !ok {
		return nil, &RecordError{Index: -1, Reason: fmt.Sprintf("reply is %T, want list", reply)}
	}

	departures := make([]Departure, 0, len(rows))
	for i, row := range rows {
		dep, err := parseDeparture(i, row)
		if err != nil {
			return nil, err
		}
		departures = append(departures, dep)
	}

	c.log.Debug("departure board fetched", logger.Fields{
		"stop":  stop,
		"count": len(departures),
	})

	return departures, nil
}

// parseDeparture validates one raw record. Fields beyond the third are
// ignored.
func parseDeparture(index int, row interface{}) (Departure, error) {
	fields, ok := row.([]interface{})
	if !ok {
		return Departure{}, &RecordError{Index: index, Reason: fmt.Sprintf("record is %T, want list", row)}
	}
	if len(fields) < 3 {
		return Departure{}, &RecordError{Index: index, Reason: fmt.Sprintf("record has %d fields, want at least 3", len(fields))}
	}

	line, ok := fields[0].(string)
	if !ok {
		return Departure{}, &RecordError{Index: index, Reason: fmt.Sprintf("line is %T, want string", fields[0])}
	}
	destination, ok := fields[1].(string)
	if !ok {
		return Departure{}, &RecordError{Index: index, Reason: fmt.Sprintf("destination is %T, want string", fields[1])}
	}
	raw, ok := fields[2].(string)
	if !ok {
		return Departure{}, &RecordError{Index: index, Reason: fmt.Sprintf("scheduled time is %T, want string", fields[2])}
	}

	scheduled, err := time.ParseInLocation(timeLayout, raw, time.Local)
	if err != nil {
		return Departure{}, &RecordError{Index: index, Reason: fmt.Sprintf("invalid timestamp %q", raw)}
	}

	return Departure{
		Line:        line,
		Destination: destination,
		Scheduled:   scheduled,
	}, nil
}

// RemoteError reports a failed call to the departure service.
type RemoteError struct {
	Stop string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("fetching departures for %q: %v", e.Stop, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// RecordError reports a malformed record in a service reply. Index is the
// record's position in the reply, or -1 when the reply as a whole has the
// wrong shape.
type RecordError struct {
	Index  int
	Reason string
}

func (e *RecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("departure reply: %s", e.Reason)
	}
	return fmt.Sprintf("departure record %d: %s", e.Index, e.Reason)
}
