// Package prefs persists the console's operator preferences: the session
// token, theme, API host override and demo-mode flag.
package prefs

import (
	"context"
	"strconv"
)

// Keys of the persisted preference map.
const (
	KeyToken    = "token"
	KeyTheme    = "theme"
	KeyAPIHost  = "api_host"
	KeyDemoMode = "demo_mode"
)

// Theme values persisted under KeyTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Store is durable string key/value storage. Get reports whether the key was
// present. Update applies fn to a copy of the current values under the
// store's write lock and persists the result atomically.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, fn func(values map[string]string) error) error
}

// Token returns the persisted session token, or "" when none is stored.
func Token(ctx context.Context, s Store) (string, error) {
	v, _, err := s.Get(ctx, KeyToken)
	return v, err
}

// SaveToken persists token. An empty token removes the key.
func SaveToken(ctx context.Context, s Store, token string) error {
	if token == "" {
		return s.Delete(ctx, KeyToken)
	}
	return s.Set(ctx, KeyToken, token)
}

// Theme returns the stored theme and whether one was stored.
func Theme(ctx context.Context, s Store) (string, bool, error) {
	v, ok, err := s.Get(ctx, KeyTheme)
	if err != nil || !ok {
		return "", false, err
	}
	if v != ThemeDark && v != ThemeLight {
		return "", false, nil
	}
	return v, true, nil
}

func SaveTheme(ctx context.Context, s Store, dark bool) error {
	theme := ThemeLight
	if dark {
		theme = ThemeDark
	}
	return s.Set(ctx, KeyTheme, theme)
}

// APIHost returns the operator's host override, or "" when none is stored.
func APIHost(ctx context.Context, s Store) (string, error) {
	v, _, err := s.Get(ctx, KeyAPIHost)
	return v, err
}

// DemoMode reports whether demo mode was persisted as "true". The second
// result is false when the operator never chose a mode.
func DemoMode(ctx context.Context, s Store) (bool, bool, error) {
	v, ok, err := s.Get(ctx, KeyDemoMode)
	if err != nil || !ok {
		return false, false, err
	}
	enabled, perr := strconv.ParseBool(v)
	if perr != nil {
		return false, false, nil
	}
	return enabled, true, nil
}

// SaveConnection persists the API host (when non-empty) and the demo flag
// in one write.
func SaveConnection(ctx context.Context, s Store, host string, demo bool) error {
	return s.Update(ctx, func(values map[string]string) error {
		if host != "" {
			values[KeyAPIHost] = host
		}
		values[KeyDemoMode] = strconv.FormatBool(demo)
		return nil
	})
}
