package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelWrappingPreservesIdentity(t *testing.T) {
	err := Wrap(ErrDeckNotFound, "loading stage records")
	assert.True(t, Is(err, ErrDeckNotFound))
	assert.False(t, Is(err, ErrInvalidInput))
}

func TestNewDeckNotFoundCarriesFormattedMessage(t *testing.T) {
	err := NewDeckNotFound("deck %s has no records", "test-deck-123")
	assert.True(t, IsDeckNotFound(err))
	assert.Contains(t, err.Error(), "test-deck-123")
}

func TestIsInvalidInputNilSafe(t *testing.T) {
	assert.False(t, IsInvalidInput(nil))
	assert.True(t, IsInvalidInput(NewInvalidInput("csv has no header row")))
}

func TestWithDetailKeepsSentinel(t *testing.T) {
	err := WithDetail(Wrap(ErrStageFailed, "analysis"), "Deck ID: d1")
	assert.True(t, Is(err, ErrStageFailed))
}
