package xlsx

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Position is a 0-indexed cell coordinate.
type Position struct {
	Row int
	Col int
}

// Ref returns the A1-style reference of the position, or "" if the position
// lies outside the worksheet grid.
func (p Position) Ref() string {
	ref, err := excelize.CoordinatesToCellName(p.Col+1, p.Row+1)
	if err != nil {
		return ""
	}
	return ref
}

// ParsePosition parses an A1-style reference. Absolute markers such as
// "$B$2" are accepted.
func ParsePosition(ref string) (Position, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(ref, "$", ""))
	if err != nil {
		return Position{}, err
	}
	return Position{Row: row - 1, Col: col - 1}, nil
}

// MergedRegion is a rectangular cell range that shares the value of its
// top-left (anchor) cell. Coordinates are 0-indexed and inclusive.
type MergedRegion struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// ParseMergedRegion parses a range reference like "A1:B3". The corners may
// be given in any order, and a single cell reference is a one-cell region.
func ParseMergedRegion(ref string) (MergedRegion, error) {
	if !strings.Contains(ref, ":") {
		ref += ":" + ref
	}
	rng := strings.Split(strings.ReplaceAll(ref, "$", ""), ":")
	c := make([]int, 4)
	var err error
	if c[0], c[1], err = excelize.CellNameToCoordinates(rng[0]); err != nil {
		return MergedRegion{}, err
	}
	if c[2], c[3], err = excelize.CellNameToCoordinates(rng[1]); err != nil {
		return MergedRegion{}, err
	}
	return MergedRegion{
		StartRow: min(c[1], c[3]) - 1,
		StartCol: min(c[0], c[2]) - 1,
		EndRow:   max(c[1], c[3]) - 1,
		EndCol:   max(c[0], c[2]) - 1,
	}, nil
}

// Anchor returns the region's top-left cell.
func (m MergedRegion) Anchor() Position {
	return Position{Row: m.StartRow, Col: m.StartCol}
}

// Contains reports whether p lies inside the region.
func (m MergedRegion) Contains(p Position) bool {
	return p.Row >= m.StartRow && p.Row <= m.EndRow &&
		p.Col >= m.StartCol && p.Col <= m.EndCol
}

// MergeMap maps every non-anchor cell of a sheet's merged regions to its
// anchor.
type MergeMap map[Position]Position

// NewMergeMap builds the non-anchor to anchor mapping for regions.
func NewMergeMap(regions []MergedRegion) MergeMap {
	m := make(MergeMap)
	for _, r := range regions {
		anchor := r.Anchor()
		for row := r.StartRow; row <= r.EndRow; row++ {
			for col := r.StartCol; col <= r.EndCol; col++ {
				p := Position{Row: row, Col: col}
				if p != anchor {
					m[p] = anchor
				}
			}
		}
	}
	return m
}

// Anchor returns the anchor of p if p is a non-anchor merged cell.
func (m MergeMap) Anchor(p Position) (Position, bool) {
	a, ok := m[p]
	return a, ok
}
