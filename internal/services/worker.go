package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

var (
	ErrQueueFull     = errors.New("analysis queue is full")
	ErrWorkerStopped = errors.New("worker stopped")
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(job *AnalysisJob) error
}

type worker struct {
	analyzer    AnalyzerService
	tracker     StatusTracker
	jobQueue    chan *AnalysisJob
	concurrency int
	timeout     time.Duration
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(
	analyzer AnalyzerService,
	tracker StatusTracker,
	concurrency int,
	queueSize int,
	timeout time.Duration,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &worker{
		analyzer:    analyzer,
		tracker:     tracker,
		jobQueue:    make(chan *AnalysisJob, queueSize),
		concurrency: concurrency,
		timeout:     timeout,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.drain()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. It never blocks.
func (w *worker) EnqueueJob(job *AnalysisJob) error {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", job.ID)
		return ErrWorkerStopped
	default:
	}

	select {
	case w.jobQueue <- job:
		log.Printf("📥 Job %s enqueued\n", job.ID)
		return nil
	default:
		log.Printf("⚠️  Queue full, rejecting job %s\n", job.ID)
		return ErrQueueFull
	}
}

// drain fails the jobs that were queued but never picked up.
func (w *worker) drain() {
	for {
		select {
		case job := <-w.jobQueue:
			log.Printf("⚠️  Dropping queued job %s on shutdown\n", job.ID)
			if w.tracker != nil {
				w.tracker.Fail(job.ID, "Failed to upload resume")
			}
		default:
			return
		}
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context done\n", workerID)
			return
		case job := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, job.ID)
			if err := w.run(ctx, job); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, job.ID, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, job.ID)
			}
		}
	}
}

func (w *worker) run(ctx context.Context, job *AnalysisJob) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	return w.analyzer.Analyze(ctx, job)
}
