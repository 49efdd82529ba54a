package datacache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestColorFor_StableAcrossCasing(t *testing.T) {
	table := NewColorTable(27)

	first := table.ColorFor("Birth")
	assert.Equal(t, "color1", first)
	assert.Equal(t, first, table.ColorFor("birth"))
	assert.Equal(t, first, table.ColorFor("BIRTH"))
	assert.Equal(t, "color2", table.ColorFor("Death"))
	assert.Equal(t, 2, table.Len())
}

func TestColorFor_WrapsAfterPalette(t *testing.T) {
	table := NewColorTable(3)

	got := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		got = append(got, table.ColorFor(fmt.Sprintf("type-%d", i)))
	}

	assert.Equal(t, []string{"color1", "color2", "color3", "color1", "color2"}, got)
	assert.Equal(t, "color1", table.ColorFor("type-3"))
}

func TestColorTable_InvalidSizeFallsBack(t *testing.T) {
	table := NewColorTable(0)

	for i := 0; i < 27; i++ {
		table.ColorFor(fmt.Sprintf("label-%d", i))
	}
	assert.Equal(t, "color1", table.ColorFor("one more"))
}

func TestColorTable_SharedBetweenCaches(t *testing.T) {
	table := NewColorTable(27)
	a := New(table, zap.NewNop())
	b := New(table, zap.NewNop())

	slot := a.ColorFor("Marriage")
	b.Logout()

	assert.Equal(t, slot, b.ColorFor("marriage"))
	assert.Equal(t, map[string]string{"marriage": slot}, table.Snapshot())
}

func TestColorTable_ConcurrentAssignment(t *testing.T) {
	table := NewColorTable(100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				table.ColorFor(fmt.Sprintf("label-%d", j))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, table.Len())
	seen := map[string]bool{}
	for _, slot := range table.Snapshot() {
		assert.False(t, seen[slot], "slot %s assigned twice", slot)
		seen[slot] = true
	}
}
