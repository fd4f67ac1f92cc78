package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cashfolio/cashfolio/pkg/view"
)

func TestCollapseState_Toggle(t *testing.T) {
	cs := view.NewCollapseState()

	assert.False(t, cs.Collapsed("2024-01-05"))

	cs.Toggle("2024-01-05")
	assert.True(t, cs.Collapsed("2024-01-05"))
	assert.Equal(t, 1, cs.Count())

	cs.Toggle("2024-01-05")
	assert.False(t, cs.Collapsed("2024-01-05"))
	assert.Equal(t, 0, cs.Count())
}

func TestCollapseState_ToggleAll(t *testing.T) {
	keys := []string{"2024-01-05", "2024-01-06", "2024-01-07"}

	t.Run("all expanded collapses everything", func(t *testing.T) {
		cs := view.NewCollapseState()

		cs.ToggleAll(keys)
		for _, k := range keys {
			assert.True(t, cs.Collapsed(k))
		}
		assert.Equal(t, 3, cs.Count())
	})

	t.Run("all collapsed expands everything", func(t *testing.T) {
		cs := view.NewCollapseState()
		cs.ToggleAll(keys)

		cs.ToggleAll(keys)
		for _, k := range keys {
			assert.False(t, cs.Collapsed(k))
		}
		assert.Equal(t, 0, cs.Count())
	})

	t.Run("mixed state collapses the rest", func(t *testing.T) {
		cs := view.NewCollapseState()
		cs.Toggle("2024-01-05")

		cs.ToggleAll(keys)
		for _, k := range keys {
			assert.True(t, cs.Collapsed(k))
		}
		assert.Equal(t, 3, cs.Count())
	})

	t.Run("empty key set is a no-op", func(t *testing.T) {
		cs := view.NewCollapseState()
		cs.Toggle("2024-01-05")

		cs.ToggleAll(nil)
		assert.True(t, cs.Collapsed("2024-01-05"))
		assert.Equal(t, 1, cs.Count())
	})

	t.Run("keys outside the set are untouched", func(t *testing.T) {
		cs := view.NewCollapseState()
		cs.Toggle("2023-12-31")

		cs.ToggleAll(keys)
		assert.True(t, cs.Collapsed("2023-12-31"))
		assert.Equal(t, 4, cs.Count())
	})
}

func TestCollapseState_Reset(t *testing.T) {
	cs := view.NewCollapseState()
	cs.Toggle("2024-01-05")
	cs.Toggle("2024-01-06")

	cs.Reset()
	assert.Equal(t, 0, cs.Count())
	assert.False(t, cs.Collapsed("2024-01-05"))
	assert.False(t, cs.Collapsed("2024-01-06"))
}
