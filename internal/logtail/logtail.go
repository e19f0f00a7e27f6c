package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file is not an
// error; keeper creates its log lazily.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		// Compact once the window doubles so memory stays bounded.
		if maxLines > 0 && len(lines) >= 2*maxLines {
			lines = append(lines[:0], lines[len(lines)-maxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// Level extracts the level=... attribute written by slog's text handler.
func Level(line string) (slog.Level, bool) {
	for _, field := range strings.Fields(line) {
		value, ok := strings.CutPrefix(field, "level=")
		if !ok {
			continue
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return 0, false
		}
		return level, true
	}
	return 0, false
}

// FilterLevel keeps lines at or above min. Lines without a level, such as
// continuation lines, follow the verdict of the last leveled line.
func FilterLevel(lines []string, min slog.Level) []string {
	out := make([]string, 0, len(lines))
	keep := true
	for _, line := range lines {
		if level, ok := Level(line); ok {
			keep = level >= min
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}
