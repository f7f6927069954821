package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const validConfig = `[AUTHENTICATION]
token = 123456:TESTTOKEN
allowed_ids = 111, 222

[LOCATIONS]
workplace = Marktplatz
direction_workplace = Büschdorf, Hauptbahnhof
home = Kröllwitz
direction_home = Kröllwitz, Heide
`

// writeConfig writes content to a temp file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot.ini")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Setenv(EnvToken, "")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Token != "123456:TESTTOKEN" {
		t.Errorf("Token = %q, want %q", cfg.Token, "123456:TESTTOKEN")
	}
	if want := []int64{111, 222}; !reflect.DeepEqual(cfg.AllowedIDs, want) {
		t.Errorf("AllowedIDs = %v, want %v", cfg.AllowedIDs, want)
	}
	if cfg.Workplace != "Marktplatz" {
		t.Errorf("Workplace = %q, want %q", cfg.Workplace, "Marktplatz")
	}
	if want := []string{"Büschdorf", "Hauptbahnhof"}; !reflect.DeepEqual(cfg.DirectionWorkplace, want) {
		t.Errorf("DirectionWorkplace = %v, want %v", cfg.DirectionWorkplace, want)
	}
	if cfg.Home != "Kröllwitz" {
		t.Errorf("Home = %q, want %q", cfg.Home, "Kröllwitz")
	}
	if want := []string{"Kröllwitz", "Heide"}; !reflect.DeepEqual(cfg.DirectionHome, want) {
		t.Errorf("DirectionHome = %v, want %v", cfg.DirectionHome, want)
	}
}

func TestLoad_EnvTokenOverride(t *testing.T) {
	t.Setenv(EnvToken, "999999:FROMENV")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Token != "999999:FROMENV" {
		t.Errorf("Token = %q, want env override %q", cfg.Token, "999999:FROMENV")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantSection string
		wantKey     string
	}{
		{
			name: "missing authentication section",
			content: `[LOCATIONS]
workplace = Marktplatz
`,
			wantSection: "AUTHENTICATION",
			wantKey:     "",
		},
		{
			name: "missing token key",
			content: `[AUTHENTICATION]
allowed_ids = 111

[LOCATIONS]
workplace = Marktplatz
direction_workplace = Büschdorf
home = Kröllwitz
direction_home = Kröllwitz
`,
			wantSection: "AUTHENTICATION",
			wantKey:     "token",
		},
		{
			name: "non-numeric allow-list entry",
			content: `[AUTHENTICATION]
token = abc
allowed_ids = 111, bogus

[LOCATIONS]
workplace = Marktplatz
direction_workplace = Büschdorf
home = Kröllwitz
direction_home = Kröllwitz
`,
			wantSection: "AUTHENTICATION",
			wantKey:     "allowed_ids",
		},
		{
			name: "missing locations section",
			content: `[AUTHENTICATION]
token = abc
allowed_ids = 111
`,
			wantSection: "LOCATIONS",
			wantKey:     "",
		},
		{
			name: "missing direction_home key",
			content: `[AUTHENTICATION]
token = abc
allowed_ids = 111

[LOCATIONS]
workplace = Marktplatz
direction_workplace = Büschdorf
home = Kröllwitz
`,
			wantSection: "LOCATIONS",
			wantKey:     "direction_home",
		},
		{
			name: "empty workplace",
			content: `[AUTHENTICATION]
token = abc
allowed_ids = 111

[LOCATIONS]
workplace =
direction_workplace = Büschdorf
home = Kröllwitz
direction_home = Kröllwitz
`,
			wantSection: "LOCATIONS",
			wantKey:     "workplace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvToken, "")

			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil, want config error")
			}

			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Load() error = %v, want *config.Error", err)
			}
			if cfgErr.Section != tt.wantSection {
				t.Errorf("Section = %q, want %q", cfgErr.Section, tt.wantSection)
			}
			if cfgErr.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", cfgErr.Key, tt.wantKey)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}

func TestLoad_EmptyAllowList(t *testing.T) {
	t.Setenv(EnvToken, "")

	content := `[AUTHENTICATION]
token = abc
allowed_ids =

[LOCATIONS]
workplace = Marktplatz
direction_workplace = Büschdorf
home = Kröllwitz
direction_home = Kröllwitz
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.AllowedIDs) != 0 {
		t.Errorf("AllowedIDs = %v, want empty", cfg.AllowedIDs)
	}
}

func TestParseAllowedIDs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int64
		wantErr bool
	}{
		{
			name: "single id",
			raw:  "111",
			want: []int64{111},
		},
		{
			name: "spaced list",
			raw:  "111, 222,  333",
			want: []int64{111, 222, 333},
		},
		{
			name: "trailing comma skipped",
			raw:  "111,222,",
			want: []int64{111, 222},
		},
		{
			name: "empty list",
			raw:  "",
			want: nil,
		},
		{
			name:    "non-numeric entry",
			raw:     "111, abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAllowedIDs(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAllowedIDs(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAllowedIDs(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "trims whitespace",
			raw:  " Kröllwitz , Soltauer Straße ",
			want: []string{"Kröllwitz", "Soltauer Straße"},
		},
		{
			name: "drops blanks",
			raw:  "Büschdorf,,",
			want: []string{"Büschdorf"},
		},
		{
			name: "empty value",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitList(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
