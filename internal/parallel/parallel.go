// Package parallel splits layout reorders across goroutines.
//
// Work is a grid of independent cells, one per (image, channel block) when
// reordering a blocked activation. Each goroutine receives one contiguous
// run of cells, so a run walks memory in order and the cells of one image
// stay together.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how a grid is split.
type Config struct {
	Workers  int // goroutines per call; below 2 runs on the caller
	MinCells int // smallest run handed to a goroutine
}

// DefaultConfig uses one goroutine per usable CPU. Every cell of a blocked
// reorder moves a full channel block of a spatial plane, so runs of two
// cells already outweigh the goroutine start.
func DefaultConfig() Config {
	return Config{
		Workers:  runtime.GOMAXPROCS(0),
		MinCells: 2,
	}
}

// Sequential returns a Config that runs every grid on the calling goroutine.
func Sequential() Config {
	return Config{Workers: 1}
}

// runs returns the run length used to split n cells, or n when the grid
// is handled by the caller alone.
func (c Config) runs(n int) int {
	if c.Workers < 2 || n < 2*max(c.MinCells, 1) {
		return n
	}
	return max((n+c.Workers-1)/c.Workers, c.MinCells, 1)
}

// Ranges calls f(start, end) for contiguous runs covering [0, n) and
// returns when every run has finished.
func Ranges(n int, cfg Config, f func(start, end int)) {
	if n <= 0 {
		return
	}
	run := cfg.runs(n)
	if run >= n {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += run {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, min(start+run, n))
	}
	wg.Wait()
}

// For executes f(i) for every i in [0, n).
func For(n int, cfg Config, f func(i int)) {
	Ranges(n, cfg, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	})
}

// ForGrid executes f(o, i) for every cell of an outer x inner grid in
// row-major order within each run.
func ForGrid(outer, inner int, cfg Config, f func(o, i int)) {
	if outer <= 0 || inner <= 0 {
		return
	}
	Ranges(outer*inner, cfg, func(start, end int) {
		o, i := start/inner, start%inner
		for k := start; k < end; k++ {
			f(o, i)
			if i++; i == inner {
				o, i = o+1, 0
			}
		}
	})
}
