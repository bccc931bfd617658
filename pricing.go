package zebra

import (
	"runtime"
	"sort"
	"sync"

	priorityqueue "gopkg.in/dnaeon/go-priorityqueue.v1"
)

// priced is a column found by pricing, not yet in the pool.
type priced struct {
	slot   int
	radius float64
	rc     float64
	size   int
}

type pricer struct {
	inst *Instance
	pool *Pool
	cfg  Config
}

// price returns improving columns for every candidate facility, in candidate
// order, or nothing when the duals admit no column with negative reduced cost.
// The pool is only read.
func (pr pricer) price(d duals) []priced {
	nf := len(pr.inst.candidates)
	workers := pr.cfg.PricingWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > nf {
		workers = nf
	}

	// fan out one job per facility; each result slot is written by one worker only
	results := make([][]priced, nf)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				results[k] = pr.priceFacility(k, d)
			}
		}()
	}
	for k := 0; k < nf; k++ {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	var found []priced
	for _, r := range results {
		found = append(found, r...)
	}

	if limit := pr.cfg.MaxColumnsPerRound; limit > 0 && len(found) > limit {
		found = mostNegative(found, limit)
	}
	return found
}

// priceFacility scans the customers of candidate slot k by increasing distance.
// At each distinct distance the covered set grows and the reduced cost of the
// column with that radius follows incrementally.
func (pr pricer) priceFacility(k int, d duals) []priced {
	f := pr.inst.candidates[k]
	order := pr.inst.order[k]
	tol := pr.cfg.Tolerance

	var out []priced
	cost, profit := 0.0, 0.0
	for i := 0; i < len(order); {
		r := pr.inst.dist.At(f, order[i])
		for ; i < len(order) && pr.inst.dist.At(f, order[i]) == r; i++ {
			u := order[i]
			cost += pr.inst.demand[u] * r
			profit += d.cover[u]
		}

		if pr.pool.Has(f, r) {
			continue
		}
		if rc := cost - profit - d.facility[k] - d.count; rc < -tol {
			out = append(out, priced{slot: k, radius: r, rc: rc, size: i})
		}
	}

	pr.rank(out)
	if len(out) > pr.cfg.ColumnsPerFacility {
		out = out[:pr.cfg.ColumnsPerFacility]
	}
	return out
}

// rank orders the columns of one facility by the configured radius selection.
func (pr pricer) rank(cols []priced) {
	sort.SliceStable(cols, func(a, b int) bool {
		ca, cb := cols[a], cols[b]
		if pr.cfg.RadiusSelection == LargestCoverage {
			if ca.size != cb.size {
				return ca.size > cb.size
			}
			return ca.rc < cb.rc
		}
		if ca.rc != cb.rc {
			return ca.rc < cb.rc
		}
		return ca.size > cb.size
	})
}

// mostNegative keeps the limit columns with the smallest reduced cost, in
// candidate order.
func mostNegative(cols []priced, limit int) []priced {
	pq := priorityqueue.New[int, float64](priorityqueue.MinHeap)
	for i, c := range cols {
		pq.Put(i, c.rc)
	}

	keep := make([]int, 0, limit)
	for len(keep) < limit && pq.Len() > 0 {
		keep = append(keep, pq.Get().Value)
	}
	sort.Ints(keep)

	out := make([]priced, len(keep))
	for j, i := range keep {
		out[j] = cols[i]
	}
	return out
}
