package scheduling

import (
	"sort"
	"sync"

	"ironcraft/apperr"
)

// runBatch issues one store call per id concurrently and awaits the
// group. Failures are gathered into a PartialFailure; calls that
// succeeded are not rolled back and are not retried.
func runBatch(op, collection string, ids []string, call func(id string) error) error {
	if len(ids) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []apperr.FailedCall

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := call(id); err != nil {
				mu.Lock()
				failed = append(failed, apperr.FailedCall{Collection: collection, ID: id, Err: err})
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	if len(failed) == 0 {
		return nil
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].ID < failed[j].ID })
	return &apperr.PartialFailure{Op: op, Failed: failed}
}
