package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferencesStoreGetReturnsDefaultWhenUnset(t *testing.T) {
	store := NewPreferencesStore(nil)
	assert.Equal(t, DefaultPreferences(), store.Get("pawel"))
}

func TestPreferencesStoreUpdateIsImmutableOnOriginal(t *testing.T) {
	store := NewPreferencesStore(nil)
	original := store.Get("pawel")

	updated := store.Update("pawel", WithCategory("music"), WithBudget(500))

	assert.Equal(t, "any", original.Category, "fetching before Update must not see the update")
	assert.Equal(t, "music", updated.Category)
	assert.Equal(t, 500, updated.BudgetPLNPerNight)
	assert.Equal(t, updated, store.Get("pawel"))
}

func TestPreferencesApplyDoesNotMutateReceiver(t *testing.T) {
	base := DefaultPreferences()
	derived := base.Apply(WithCategory("food"))

	assert.Equal(t, "any", base.Category)
	assert.Equal(t, "food", derived.Category)
}
