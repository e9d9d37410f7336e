package wire

import "sync/atomic"

// The six preset spawn coordinates for screen.create_surface, carried
// verbatim from original_source/core/vioarr_screen.c's
// g_spawnCoordinateX/g_spawnCoordinateY tables.
const spawnCoordinateCount = 6

var spawnCoordinateX = [spawnCoordinateCount]int{100, 200, 300, 100, 200, 300}
var spawnCoordinateY = [spawnCoordinateCount]int{100, 100, 100, 200, 200, 200}

var spawnIndex atomic.Uint32

// ResolveSpawn substitutes a -1 sentinel in x or y with the matching
// preset from the rotating spawn-coordinate table, advancing the
// shared index on every call exactly as the original's g_spawnIndex
// does (unconditionally, not only when a sentinel was consumed).
func ResolveSpawn(x, y int) (int, int) {
	i := spawnIndex.Add(1) - 1
	i %= spawnCoordinateCount
	if x == -1 {
		x = spawnCoordinateX[i]
	}
	if y == -1 {
		y = spawnCoordinateY[i]
	}
	return x, y
}
