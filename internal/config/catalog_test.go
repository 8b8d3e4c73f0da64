package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_ShippedFile(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "configs", "catalog.yaml"))
	require.NoError(t, err)

	require.NotEmpty(t, c.Activities)
	first := c.Activities[0]
	assert.Equal(t, "city-tour", first.Slug)
	require.NotNil(t, first.Schedule)
	assert.Equal(t, []string{"10:00", "15:00"}, first.Schedule.Times)
	assert.Equal(t, 15, first.Schedule.Seats)
	require.NotNil(t, first.OriginalPrice)
	assert.Equal(t, 30.0, *first.OriginalPrice)
}

func TestLoadCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", "activities: []\n"},
		{"missing slug", "activities:\n  - name: Tour\n"},
		{"duplicate slug", "activities:\n  - slug: a\n  - slug: a\n"},
		{"not yaml", "activities: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			_, err := LoadCatalog(path)
			assert.Error(t, err)
		})
	}
}
