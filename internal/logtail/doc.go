// Package logtail reads the tail of keeper's client log for the in-app
// log overlay.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines and scans the file once, so memory
// stays O(maxLines) regardless of file size. Lines come back in
// chronological order.
//
//	lines, err := logtail.Read(cfg.LogFile, 500)
//	if err != nil {
//		return err
//	}
//
// A missing file yields nil, nil. keeper only creates its log on the first
// write, so an empty overlay is the normal state right after install.
//
// # Levels
//
// keeper logs through slog's text handler, so every record carries a
// level=INFO style attribute. Level parses it and FilterLevel drops records
// below a threshold. Lines without a level attribute inherit the decision
// made for the record before them.
//
//	warnings := logtail.FilterLevel(lines, slog.LevelWarn)
package logtail
