package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateWatchDTO(t *testing.T) {
	t.Parallel()

	dto, err := ParseCreateWatchDTO(url.Values{
		"height":     {"9"},
		"width":      {"9"},
		"mine_count": {"10"},
		"extraneous": {"ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, dto.Height)
	assert.Equal(t, 9, dto.Width)
	assert.Equal(t, 10, dto.MineCount)
	assert.Nil(t, dto.Seed)

	dto, err = ParseCreateWatchDTO(url.Values{
		"height":     {"8"},
		"width":      {"8"},
		"mine_count": {"8"},
		"seed":       {"42"},
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Seed)
	assert.Equal(t, uint64(42), *dto.Seed)
}

func TestParseCreateWatchDTORejectsBadParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query url.Values
	}{
		{"missing height", url.Values{"width": {"8"}, "mine_count": {"8"}}},
		{"zero width", url.Values{"height": {"8"}, "width": {"0"}, "mine_count": {"8"}}},
		{"too many mines", url.Values{"height": {"2"}, "width": {"2"}, "mine_count": {"5"}}},
		{"negative mines", url.Values{"height": {"8"}, "width": {"8"}, "mine_count": {"-1"}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseCreateWatchDTO(test.query)
			assert.Error(t, err)
		})
	}
}

func TestParseRecordsFilterDTO(t *testing.T) {
	t.Parallel()

	dto, err := ParseRecordsFilterDTO(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, dto.Height)
	assert.Nil(t, dto.Won)

	dto, err = ParseRecordsFilterDTO(url.Values{
		"height": {"16"},
		"won":    {"true"},
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Height)
	assert.Equal(t, 16, *dto.Height)
	require.NotNil(t, dto.Won)
	assert.True(t, *dto.Won)
}
