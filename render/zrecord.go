package render

// zEntry is one accepted write
type zEntry struct {
	x, y int
	z    float64
}

// ZRecord is the per-frame append-only occlusion record
// Entries are not deduplicated; a cell may be pushed several times
type ZRecord struct {
	entries []zEntry
}

// Occluded reports whether any recorded write at (x, y) is strictly closer than z
// Equal depth is not occluded, so later equal-depth writes overwrite
func (r *ZRecord) Occluded(x, y int, z float64) bool {
	for _, e := range r.entries {
		if e.x == x && e.y == y && e.z < z {
			return true
		}
	}
	return false
}

// Push records an accepted write
func (r *ZRecord) Push(x, y int, z float64) {
	r.entries = append(r.entries, zEntry{x: x, y: y, z: z})
}

// Len returns the number of recorded writes
func (r *ZRecord) Len() int {
	return len(r.entries)
}

// Reset empties the record, keeping capacity for the next frame
func (r *ZRecord) Reset() {
	r.entries = r.entries[:0]
}
