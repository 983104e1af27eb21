package extrude

import (
	"runtime"
	"sync"

	"github.com/terradyne/globemesh/pkg/geodata"
)

// Result pairs one polygon with its built mesh or the error that stopped it.
type Result struct {
	Polygon *geodata.Polygon
	Mesh    *Mesh
	Err     error
}

// BuildAll builds a mesh for every polygon on a bounded worker pool and
// returns results in input order. Polygons and options are immutable and
// each build writes only its own slot, so no coordination is needed beyond
// the pool itself. workers <= 0 means one worker per CPU. A failed polygon
// occupies its slot with Err set; siblings are unaffected.
func BuildAll(polygons []*geodata.Polygon, opts Options, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(polygons) {
		workers = len(polygons)
	}

	results := make([]Result, len(polygons))
	if len(polygons) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				mesh, err := Build(polygons[i], opts)
				results[i] = Result{Polygon: polygons[i], Mesh: mesh, Err: err}
			}
		}()
	}
	for i := range polygons {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
