package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/keeper/internal/zoo"
)

// NoticeLevel ranks a notice for display.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeWarn:
		return "warn"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a non-blocking message for the user.
type Notice struct {
	Level   NoticeLevel
	Message string
	At      time.Time
}

// describeError turns a request failure into a short user-facing sentence.
func describeError(action string, err error) string {
	var statusErr *zoo.StatusError
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &statusErr):
		if statusErr.Message != "" {
			return fmt.Sprintf("%s failed: %s (%d)", action, statusErr.Message, statusErr.Code)
		}
		return fmt.Sprintf("%s failed: server returned %d", action, statusErr.Code)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%s failed: request timed out", action)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return fmt.Sprintf("%s failed: API not reachable", action)
	case strings.Contains(msg, "timeout"):
		return fmt.Sprintf("%s failed: request timed out", action)
	case strings.Contains(msg, "no such host"):
		return fmt.Sprintf("%s failed: host not found", action)
	}
	return fmt.Sprintf("%s failed: %v", action, err)
}
