package dedupe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	t.Run("seeded ids are not new", func(t *testing.T) {
		guard := NewGuard([]string{"place-a", "place-b"})
		assert.False(t, guard.IsNew("place-a"))
		assert.False(t, guard.IsNew("place-b"))
		assert.True(t, guard.IsNew("place-c"))
	})

	t.Run("claim is idempotent and sticky", func(t *testing.T) {
		guard := NewGuard(nil)
		assert.True(t, guard.IsNew("place-a"))

		guard.Claim("place-a")
		assert.False(t, guard.IsNew("place-a"))

		guard.Claim("place-a")
		assert.False(t, guard.IsNew("place-a"))
		assert.Equal(t, 1, guard.Len())
	})

	t.Run("empty ids are never tracked", func(t *testing.T) {
		guard := NewGuard([]string{""})
		assert.Equal(t, 0, guard.Len())
		assert.False(t, guard.IsNew(""))

		guard.Claim("")
		assert.Equal(t, 0, guard.Len())
		assert.False(t, guard.TryClaim(""))
	})

	t.Run("try claim admits exactly one caller", func(t *testing.T) {
		guard := NewGuard(nil)
		assert.True(t, guard.TryClaim("place-a"))
		assert.False(t, guard.TryClaim("place-a"))
	})

	t.Run("release makes an id claimable again", func(t *testing.T) {
		guard := NewGuard(nil)
		assert.True(t, guard.TryClaim("place-a"))
		guard.Release("place-a")
		assert.True(t, guard.TryClaim("place-a"))
	})

	t.Run("concurrent claims admit one winner per id", func(t *testing.T) {
		guard := NewGuard(nil)

		var wg sync.WaitGroup
		wins := make(chan string, 100)
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if guard.TryClaim("contested") {
					wins <- "won"
				}
			}()
		}
		wg.Wait()
		close(wins)

		count := 0
		for range wins {
			count++
		}
		assert.Equal(t, 1, count)
		assert.Equal(t, 1, guard.Len())
	})
}
