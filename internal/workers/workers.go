// Package workers runs the server's background processes. It defines the
// Worker contract and a Workers aggregate that starts every worker against
// a shared lifetime context.
package workers

import "context"

// Worker is a background process tied to the server lifetime. Run must not
// block: implementations spawn their goroutines internally and stop when
// ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every registered worker. Workers stop when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}
