package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoFromBounds(t *testing.T) {
	info, err := InfoFromBounds(0, 180, 1080, 2130, 120)
	require.NoError(t, err)
	assert.Equal(t, Info{CellSize: 120, OffsetX: 0, OffsetY: 180, Rows: 16, Cols: 9}, info)
}

func TestInfoFromBoundsRejectsTinyArea(t *testing.T) {
	_, err := InfoFromBounds(0, 0, 100, 50, 120)
	assert.ErrorIs(t, err, ErrBadGeometry)

	_, err = InfoFromBounds(0, 0, 500, 500, 0)
	assert.ErrorIs(t, err, ErrBadGeometry)
}

func TestCellCenter(t *testing.T) {
	info := Info{CellSize: 100, OffsetX: 10, OffsetY: 200, Rows: 4, Cols: 4}
	x, y := info.CellCenter(0, 0)
	assert.Equal(t, 60, x)
	assert.Equal(t, 250, y)
	x, y = info.CellCenter(2, 3)
	assert.Equal(t, 360, x)
	assert.Equal(t, 450, y)
}
