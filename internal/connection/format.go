package connection

import (
	"fmt"
	"strconv"
)

// clockLayout is how departure times render in replies.
const clockLayout = "15:04"

// Format renders a connection as the bot's reply line, for example
// "3 -> Schkeuditz @ 10:05 (5 Min.)". A departure less than a whole
// minute away renders its minutes as the literal "< 1".
func Format(c Connection) string {
	minutes := strconv.Itoa(c.Minutes)
	if c.Minutes < 1 {
		minutes = "< 1"
	}

	return fmt.Sprintf("%s -> %s @ %s (%s Min.)",
		c.Line, c.Destination, c.Scheduled.Format(clockLayout), minutes)
}
