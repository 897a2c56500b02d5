package grid

import "fmt"

// Info is the viewport geometry produced by screen detection: cell pixel
// size, the pixel offset of cell (0,0) and the visible grid dimensions.
// It only exists for coordinate mapping and takes no part in solving.
type Info struct {
	CellSize int `json:"cell_size"`
	OffsetX  int `json:"offset_x"`
	OffsetY  int `json:"offset_y"`
	Rows     int `json:"rows"`
	Cols     int `json:"cols"`
}

var ErrBadGeometry = fmt.Errorf("game area does not fit a single cell")

// InfoFromBounds derives a viewport Info from detected game-area bounds
// and a detected cell size, the same arithmetic the screen analyzer does
// after sampling grid lines.
func InfoFromBounds(left, top, right, bottom, cellSize int) (Info, error) {
	width, height := right-left, bottom-top
	if cellSize <= 0 || width < cellSize || height < cellSize {
		return Info{}, ErrBadGeometry
	}
	return Info{
		CellSize: cellSize,
		OffsetX:  left,
		OffsetY:  top,
		Rows:     height / cellSize,
		Cols:     width / cellSize,
	}, nil
}

// CellCenter maps a grid coordinate to the pixel at the middle of that
// cell, where taps are aimed.
func (info Info) CellCenter(row, col int) (x, y int) {
	x = info.OffsetX + col*info.CellSize + info.CellSize/2
	y = info.OffsetY + row*info.CellSize + info.CellSize/2
	return
}
