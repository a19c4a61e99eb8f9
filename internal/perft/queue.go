package perft

import (
	"context"
	"fmt"
	"sync"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/movegen"
)

// divideTask asks a worker for the subtree size below one root move
type divideTask struct {
	move  core.Move
	depth int
}

// DivideQueue fans root moves out to a fixed pool of workers. Each worker
// owns a private clone of the root position; the caller's board is never
// touched after the clones are taken.
type DivideQueue struct {
	tasks   chan divideTask
	results chan DivideEntry
	workers int
	wg      sync.WaitGroup
}

// newDivideQueue clones root once per worker and starts the pool
func newDivideQueue(ctx context.Context, root *board.Board, workerCount, capacity int) *DivideQueue {
	if workerCount < 1 {
		workerCount = 1
	}

	q := &DivideQueue{
		tasks:   make(chan divideTask, capacity),
		results: make(chan DivideEntry, capacity),
		workers: workerCount,
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, root.Clone())
	}
	return q
}

// worker processes tasks until the channel closes or ctx ends
func (q *DivideQueue) worker(ctx context.Context, b *board.Board) {
	defer q.wg.Done()

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			var nodes uint64
			if err := b.MakeMove(task.move); err == nil {
				nodes = Count(b, task.depth-1)
				b.UndoMove()
			}

			select {
			case q.results <- DivideEntry{Move: task.move.UCI(), Nodes: nodes}:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// ParallelDivide computes the same entries as Divide using workers goroutines
func ParallelDivide(ctx context.Context, b *board.Board, depth, workers int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidPerftDepth, depth)
	}

	moves := movegen.LegalMoves(b, b.Turn())
	if len(moves) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := newDivideQueue(ctx, b, min(workers, len(moves)), len(moves))
	for _, m := range moves {
		q.tasks <- divideTask{move: m, depth: depth}
	}
	close(q.tasks)

	entries := make([]DivideEntry, 0, len(moves))
	for range moves {
		select {
		case e := <-q.results:
			entries = append(entries, e)
		case <-ctx.Done():
			cancel()
			q.wg.Wait()
			return nil, ctx.Err()
		}
	}
	q.wg.Wait()

	sortEntries(entries)
	return entries, nil
}
