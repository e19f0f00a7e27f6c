package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutDetailWidth is the minimum width that fits the detail pane
	// next to the table.
	LayoutDetailWidth = 110
)

// Modal widths.
const (
	filterModalWidth  = 56
	formModalWidth    = 60
	confirmModalWidth = 44
	helpModalWidth    = 52
)

// Log overlay limits.
const (
	// LogTailLines is the number of client log lines read per refresh.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is how often the header re-renders so notices expire.
	DefaultUIInterval = time.Second
)
