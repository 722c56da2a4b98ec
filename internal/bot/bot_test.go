package bot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendTextWithoutClientReturnsError(t *testing.T) {
	// The worker may tick before Telegram is reachable; a prompt must
	// fail with an error that releases the session claim, never panic.
	b := &Bot{}
	err := b.SendText(100, "🧠 <b>Переведи:</b> кот")
	assert.Error(t, err)
}

func TestAwaitingImportSurvivesConcurrentUpdates(t *testing.T) {
	b := &Bot{awaitingImport: make(map[int64]bool)}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				b.setAwaitingImport(id, true)
				_ = b.isAwaitingImport(id)
				b.setAwaitingImport(id, false)
			}
		}(int64(i))
	}
	wg.Wait()

	for i := int64(0); i < 8; i++ {
		assert.False(t, b.isAwaitingImport(i))
	}
}
