// Package pipeline implements the double-buffered producer/consumer
// that overlaps reading the next batch with parallel processing of
// the previous one, generalized from the teacher's channel-based
// construction pipeline (constructcf.go: GetReadSeqBucket feeding
// `cs`, ParaConstructCF workers draining it into `wc`, WriteKmer
// draining `wc` until numCPU empty-batch signals arrive).
//
// Batches pass from the producer through a channel of capacity 1 to a
// dispatch loop, and from there through a channel of capacity
// numWorkers to the workers. Each worker processes whole batches, so
// several batches are processed at once. Residency is not held to two
// batches: up to 2*numWorkers+3 can be live at one time (one being
// produced, one in the first channel, one held by the dispatch loop,
// numWorkers queued and numWorkers in process).
package pipeline

import "sync"

// Produce returns the next batch and true, or a zero batch and false
// once the input is exhausted. It is called from a single dedicated
// goroutine, the way the teacher's GetReadSeqBucket is the sole
// writer of its `cs` channel.
type Produce func() (batch interface{}, ok bool)

// Process consumes one batch. It is called concurrently from the
// worker pool; batches are otherwise independent (spec.md §5).
type Process func(batch interface{})

// Run drives produce/process: one producer goroutine feeds batches
// through the capacity-1 channel, and numWorkers goroutines call
// process concurrently, one whole batch per call; Run returns once the
// producer reports exhaustion and every dispatched batch has finished
// processing.
func Run(produce Produce, process Process, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	slots := make(chan interface{}, 1)
	go func() {
		defer close(slots)
		for {
			batch, ok := produce()
			if !ok {
				return
			}
			slots <- batch
		}
	}()

	var wg sync.WaitGroup
	work := make(chan interface{}, numWorkers)
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for batch := range work {
				process(batch)
			}
		}()
	}
	for batch := range slots {
		work <- batch
	}
	close(work)
	wg.Wait()
}
