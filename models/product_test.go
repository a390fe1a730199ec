package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAvailable(t *testing.T) {
	p := Product{Stock: 3, IsActive: true}
	assert.True(t, p.IsAvailable())

	p.Stock = 0
	assert.False(t, p.IsAvailable())

	p.Stock = 3
	p.IsActive = false
	assert.False(t, p.IsAvailable())
}

func TestProductJSONIncludesAvailability(t *testing.T) {
	p := Product{ProductID: "p1", Name: "Lamp", Stock: 2, IsActive: true}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, true, out["isAvailable"])
	assert.Equal(t, "p1", out["productId"])
}

func TestValidCategory(t *testing.T) {
	for _, c := range ProductCategories {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory("groceries"))
	assert.False(t, ValidCategory(""))
}
