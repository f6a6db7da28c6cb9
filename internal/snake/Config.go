package snake

import "time"

const (
	TickInterval = 140 * time.Millisecond
	RestartDelay = 2 * time.Second

	InitialLength = 5
	FoodPoints    = 10
	QueueCapacity = 4

	// Food respawns inside this margin, measured from each grid edge.
	foodInsetRatio = 0.15

	// Tile size is derived from the viewport so a full grid is roughly
	// 25 tiles wide and 14 tall before rounding.
	viewportColsDivisor = 25
	viewportRowsDivisor = 14

	// Floor on grid dimensions so the starting snake always fits.
	minGridCols = InitialLength + 1
	minGridRows = 3
)
