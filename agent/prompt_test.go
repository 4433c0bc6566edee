package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomservice/catalog"
)

func TestSystemPrompt(t *testing.T) {
	cat, err := catalog.NewCatalog([]catalog.MenuItem{
		{Name: "Still Water", Price: 6.00, Category: "Beverage", Description: "Bottled water", PreparationTime: 2, AvailableQuantity: 40},
	})
	require.NoError(t, err)

	prompt := SystemPrompt(cat)
	assert.Contains(t, prompt, "senior room service attendant")
	assert.Contains(t, prompt, "only call one tool at a time")
	assert.Contains(t, prompt, "order_validator")
	assert.Contains(t, prompt, "order_placer")
	assert.Contains(t, prompt, "<menu>")
	assert.Contains(t, prompt, "Still Water ($6.00, Beverage)")
}
