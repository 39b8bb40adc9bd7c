package types

import "fmt"

// ScanWindow is the inclusive range of block heights examined in one
// run. It is computed once from the chain tip and never mutated.
type ScanWindow struct {
	StartHeight uint64 `json:"start_height"`
	EndHeight   uint64 `json:"end_height"`
}

// NewScanWindow computes the window [tip-size+1, tip], clamping the
// start so it never goes below height 0.
func NewScanWindow(tip, size uint64) (ScanWindow, error) {
	if size == 0 {
		return ScanWindow{}, fmt.Errorf("scan window size must be positive")
	}

	var start uint64
	if size <= tip {
		start = tip - size + 1
	}

	return ScanWindow{
		StartHeight: start,
		EndHeight:   tip,
	}, nil
}

func (w ScanWindow) Size() uint64 {
	return w.EndHeight - w.StartHeight + 1
}

// Heights returns the window's block heights in ascending order.
func (w ScanWindow) Heights() []uint64 {
	heights := make([]uint64, 0, w.Size())
	for h := w.StartHeight; h <= w.EndHeight; h++ {
		heights = append(heights, h)
	}
	return heights
}
