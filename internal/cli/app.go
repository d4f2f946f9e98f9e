package cli

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"

	"sundial/internal/api"
	"sundial/internal/config"
)

// LocalUser is the owner the CLI acts as when no user is configured
const LocalUser int64 = 1

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries what every command handler needs
type App struct {
	api    api.API
	config *config.Config
	out    io.Writer
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(a api.API, cfg *config.Config, out io.Writer) *App {
	return &App{api: a, config: cfg, out: out}
}

// ownerContext attaches the configured user to ctx
func (a *App) ownerContext(ctx context.Context) context.Context {
	user := LocalUser
	if a.config != nil && a.config.Application.User > 0 {
		user = a.config.Application.User
	}
	return api.WithOwner(ctx, user)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// parseID reads a positive record id from a command argument
func parseID(arg, resource string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %s", resource, arg)
	}
	return id, nil
}

var shorthandPattern = regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`)

// parseTimeShorthand parses time shorthand like "30m", "2h", "1d", etc.
func parseTimeShorthand(shorthand string) (time.Duration, error) {
	matches := shorthandPattern.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %s", shorthand)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	day := 24 * time.Hour
	switch matches[2] {
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * day, nil
	case "w":
		return time.Duration(value) * 7 * day, nil
	case "mo":
		return time.Duration(value) * 30 * day, nil
	case "y":
		return time.Duration(value) * 365 * day, nil
	}
	return 0, fmt.Errorf("invalid time unit: %s", matches[2])
}
