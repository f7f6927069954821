package connection

import (
	"testing"
	"time"

	"github.com/fgerlach/havagbot/internal/havag"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		conn Connection
		want string
	}{
		{
			name: "whole minutes",
			conn: Connection{
				Departure: havag.Departure{
					Line:        "3",
					Destination: "Schkeuditz",
					Scheduled:   time.Date(2024, 1, 1, 10, 5, 0, 0, time.Local),
				},
				Minutes: 5,
				Seconds: 0,
			},
			want: "3 -> Schkeuditz @ 10:05 (5 Min.)",
		},
		{
			name: "under a minute",
			conn: Connection{
				Departure: havag.Departure{
					Line:        "7",
					Destination: "Kröllwitz",
					Scheduled:   time.Date(2024, 1, 1, 9, 59, 40, 0, time.Local),
				},
				Minutes: 0,
				Seconds: 40,
			},
			want: "7 -> Kröllwitz @ 09:59 (< 1 Min.)",
		},
		{
			name: "long wait keeps plain minutes",
			conn: Connection{
				Departure: havag.Departure{
					Line:        "16",
					Destination: "Beesen",
					Scheduled:   time.Date(2024, 1, 1, 11, 30, 0, 0, time.Local),
				},
				Minutes: 90,
				Seconds: 12,
			},
			want: "16 -> Beesen @ 11:30 (90 Min.)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.conn); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
