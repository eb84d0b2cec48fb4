package montecarlo

import (
	"context"
	"runtime"
	"sync"
)

// pathJob is a contiguous block of indices handled by one worker
type pathJob struct {
	start int
	end   int
}

// pathPool runs index-addressed work on a fixed set of goroutines. Each
// index must write only to its own output slot, so results do not depend
// on scheduling.
type pathPool struct {
	workerCount int
	jobQueue    chan pathJob
	work        func(i int)
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// newPathPool creates a pool; workerCount <= 0 uses every CPU
func newPathPool(ctx context.Context, workerCount int, work func(i int)) *pathPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &pathPool{
		workerCount: workerCount,
		jobQueue:    make(chan pathJob, workerCount*2),
		work:        work,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers
func (p *pathPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Submit queues a block, failing once the context is cancelled
func (p *pathPool) Submit(job pathJob) error {
	select {
	case p.jobQueue <- job:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Stop waits for queued blocks to finish and releases the pool
func (p *pathPool) Stop() {
	close(p.jobQueue)
	p.wg.Wait()
	p.cancel()
}

func (p *pathPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			for i := job.start; i < job.end; i++ {
				if i%64 == 0 && p.ctx.Err() != nil {
					return
				}
				p.work(i)
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// parallelFor calls work(i) for every i in [0, n) and reports whether the
// context was cancelled before all of them ran
func parallelFor(ctx context.Context, workers, n int, work func(i int)) error {
	if n == 0 {
		return ctx.Err()
	}
	pool := newPathPool(ctx, workers, work)
	pool.Start()

	chunk := n / (pool.workerCount * 4)
	if chunk < 1 {
		chunk = 1
	}
	var submitErr error
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		if submitErr = pool.Submit(pathJob{start: start, end: end}); submitErr != nil {
			break
		}
	}
	pool.Stop()

	if submitErr != nil {
		return submitErr
	}
	return ctx.Err()
}
