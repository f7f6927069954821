// Package config loads the bot's INI configuration file.
//
// The file carries the Telegram credential, the numeric allow-list, and the
// two commute routes (a stop name paired with the destination names that
// count as "going the right way" from it):
//
//	[AUTHENTICATION]
//	token = 123456:ABC...
//	allowed_ids = 111, 222
//
//	[LOCATIONS]
//	workplace = Marktplatz
//	direction_workplace = Büschdorf, Hauptbahnhof
//	home = Kröllwitz
//	direction_home = Kröllwitz
//
// Configuration is loaded once at startup and immutable afterwards. A
// non-empty TELEGRAM_BOT_TOKEN environment variable overrides the token from
// the file so the credential can stay out of checked-in configs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Section and key names of the config file contract.
const (
	sectionAuth      = "AUTHENTICATION"
	sectionLocations = "LOCATIONS"

	keyToken              = "token"
	keyAllowedIDs         = "allowed_ids"
	keyWorkplace          = "workplace"
	keyDirectionWorkplace = "direction_workplace"
	keyHome               = "home"
	keyDirectionHome      = "direction_home"
)

// EnvToken overrides the configured bot token when set and non-empty.
const EnvToken = "TELEGRAM_BOT_TOKEN"

// Config holds everything the bot needs at runtime. Loaded once, never
// mutated afterwards.
type Config struct {
	// Token is the Telegram bot credential.
	Token string

	// AllowedIDs is the chat identities permitted to use the bot. An empty
	// list denies every request (fail-closed).
	AllowedIDs []int64

	// Workplace is the stop to depart from when heading home, paired with
	// DirectionHome as the accepted destinations. Home and
	// DirectionWorkplace form the opposite commute.
	Workplace          string
	DirectionWorkplace []string
	Home               string
	DirectionHome      []string
}

// Error describes a missing or malformed configuration entry, naming the
// section and key it concerns.
type Error struct {
	Section string
	Key     string
	Reason  string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: section %s: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("config: %s.%s: %s", e.Section, e.Key, e.Reason)
}

// Load reads the INI file at path and returns the parsed configuration.
// Missing sections or keys, non-numeric allow-list entries, and an empty
// token all fail with a *Error; an unreadable file fails with a wrapped
// filesystem error. Either way the caller should treat failure as fatal.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := &Config{}

	token, err := requireKey(file, sectionAuth, keyToken)
	if err != nil {
		return nil, err
	}
	if env := os.Getenv(EnvToken); env != "" {
		token = env
	}
	if token == "" {
		return nil, &Error{Section: sectionAuth, Key: keyToken, Reason: "empty value"}
	}
	cfg.Token = token

	rawIDs, err := requireKey(file, sectionAuth, keyAllowedIDs)
	if err != nil {
		return nil, err
	}
	cfg.AllowedIDs, err = parseAllowedIDs(rawIDs)
	if err != nil {
		return nil, err
	}

	cfg.Workplace, err = requireStop(file, keyWorkplace)
	if err != nil {
		return nil, err
	}
	cfg.Home, err = requireStop(file, keyHome)
	if err != nil {
		return nil, err
	}

	rawDir, err := requireKey(file, sectionLocations, keyDirectionWorkplace)
	if err != nil {
		return nil, err
	}
	cfg.DirectionWorkplace = splitList(rawDir)

	rawDir, err = requireKey(file, sectionLocations, keyDirectionHome)
	if err != nil {
		return nil, err
	}
	cfg.DirectionHome = splitList(rawDir)

	return cfg, nil
}

// requireKey fetches a key's value or fails with a *Error naming what is
// missing.
func requireKey(file *ini.File, section, key string) (string, error) {
	sec, err := file.GetSection(section)
	if err != nil {
		return "", &Error{Section: section, Reason: "section missing"}
	}
	k, err := sec.GetKey(key)
	if err != nil {
		return "", &Error{Section: section, Key: key, Reason: "key missing"}
	}
	return k.String(), nil
}

// requireStop fetches a stop name from the LOCATIONS section and rejects
// empty values.
func requireStop(file *ini.File, key string) (string, error) {
	value, err := requireKey(file, sectionLocations, key)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", &Error{Section: sectionLocations, Key: key, Reason: "empty value"}
	}
	return value, nil
}

// parseAllowedIDs parses the comma-separated allow-list into integers.
// Blank entries (trailing commas) are skipped; anything non-numeric is a
// config error.
func parseAllowedIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, &Error{
				Section: sectionAuth,
				Key:     keyAllowedIDs,
				Reason:  fmt.Sprintf("entry %q is not numeric", part),
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// splitList splits a comma-separated value into trimmed entries, dropping
// blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
