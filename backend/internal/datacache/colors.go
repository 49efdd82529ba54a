package datacache

import (
	"fmt"
	"maps"
	"strings"
	"sync"

	"familymap/backend/internal/constants"
)

// ColorTable assigns palette slots to labels in first-seen order. Slots wrap
// once the palette is exhausted, so labels may share a slot. Entries are never
// removed. A table is shared by every session, hence the lock.
type ColorTable struct {
	mu    sync.Mutex
	size  int
	slots map[string]string
}

// NewColorTable creates a table over a palette of size slots
func NewColorTable(size int) *ColorTable {
	if size < 1 {
		size = constants.DefaultPaletteSize
	}
	return &ColorTable{
		size:  size,
		slots: make(map[string]string),
	}
}

// ColorFor returns the slot name for label, assigning the next slot on first sight
func (t *ColorTable) ColorFor(label string) string {
	key := strings.ToLower(label)

	t.mu.Lock()
	defer t.mu.Unlock()

	if slot, ok := t.slots[key]; ok {
		return slot
	}
	slot := fmt.Sprintf("%s%d", constants.ColorSlotPrefix, len(t.slots)%t.size+1)
	t.slots[key] = slot
	return slot
}

// Len returns the number of labels assigned so far
func (t *ColorTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}

// Snapshot returns a copy of every assignment
func (t *ColorTable) Snapshot() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.slots)
}
