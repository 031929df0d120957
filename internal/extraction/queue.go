package extraction

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

// Queue is the handoff between the synchronous ingestion path and task
// extraction. Enqueue never blocks the caller: a full buffer rejects the
// item instead of stalling message delivery. A dispatcher goroutine
// drains the buffer and a weighted semaphore caps how many extractions
// run at once.
type Queue struct {
	items     chan *domain.Message
	semaphore *semaphore.Weighted
	processor func(context.Context, *domain.Message)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewQueue(size int, maxConcurrent int64) *Queue {
	if size <= 0 {
		size = 256
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Queue{
		items:     make(chan *domain.Message, size),
		semaphore: semaphore.NewWeighted(maxConcurrent),
	}
}

// SetProcessor sets the function invoked for each dequeued message.
// Must be called before Start.
func (q *Queue) SetProcessor(fn func(context.Context, *domain.Message)) {
	q.processor = fn
}

// Start launches the dispatcher. Must be called before Enqueue.
func (q *Queue) Start(ctx context.Context) {
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.wg.Add(1)
	go q.dispatch()
}

// Stop cancels the dispatcher and the context of in-flight extractions,
// then blocks until they have returned. Aborted extractions are not
// retried; their messages simply end up without a task.
func (q *Queue) Stop() {
	if q.cancel != nil {
		q.cancel()
	}
	q.wg.Wait()
}

func (q *Queue) Enqueue(msg *domain.Message) error {
	select {
	case q.items <- msg:
		return nil
	default:
		return fmt.Errorf("extraction queue full, dropping message %s", msg.ID)
	}
}

func (q *Queue) dispatch() {
	defer q.wg.Done()
	for {
		select {
		case msg := <-q.items:
			if err := q.semaphore.Acquire(q.ctx, 1); err != nil {
				return
			}
			q.wg.Add(1)
			go q.run(msg)
		case <-q.ctx.Done():
			return
		}
	}
}

// run executes one extraction. A panicking processor is contained here
// so it cannot take the dispatcher down with it.
func (q *Queue) run(msg *domain.Message) {
	defer q.wg.Done()
	defer q.semaphore.Release(1)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] extraction panic for message %s: %v", msg.ID, r)
		}
	}()
	q.processor(q.ctx, msg)
}
