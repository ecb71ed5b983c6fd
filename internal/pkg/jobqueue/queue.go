package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/streamnest/StreamNest/internal/pkg/cache"
)

const (
	// Redis key prefixes
	JobKeyPrefix = "job:"
	JobQueueKey  = "job_queue"

	// Job settings
	DefaultMaxRetries = 3
	JobTTL            = 24 * time.Hour // Jobs expire after 24 hours
)

// ProcessorFunc handles a single job.
type ProcessorFunc func(ctx context.Context, job *Job) error

// Queue manages background jobs using Redis
type Queue struct {
	client     *redis.Client
	workers    int
	processors map[JobType]ProcessorFunc
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
}

// NewQueue creates a new job queue
func NewQueue(workers int) *Queue {
	if workers <= 0 {
		workers = 1
	}

	return &Queue{
		client:     cache.GetClient(),
		workers:    workers,
		processors: make(map[JobType]ProcessorFunc),
		stopCh:     make(chan struct{}),
	}
}

// Register attaches a processor for a job type. Must be called before Start.
func (q *Queue) Register(jobType JobType, fn ProcessorFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.processors[jobType] = fn
}

// Start starts the job queue workers
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}

	q.running = true
	log.Infof("[JobQueue] Starting %d workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Stop stops the job queue workers
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}

	log.Info("[JobQueue] Stopping workers...")
	close(q.stopCh)
	q.running = false
	// Workers take q.mu to look up processors, so the wait must happen
	// without holding it.
	q.mu.Unlock()

	q.wg.Wait()
	log.Info("[JobQueue] All workers stopped")
}

// Enqueue adds a new job to the queue and returns its id.
func (q *Queue) Enqueue(jobType JobType, payload map[string]interface{}) (string, error) {
	now := time.Now()
	job := &Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		Status:     JobStatusPending,
		Payload:    payload,
		CreatedAt:  now,
		UpdatedAt:  now,
		MaxRetries: DefaultMaxRetries,
	}

	ctx := context.Background()
	if err := q.saveJob(ctx, job); err != nil {
		return "", err
	}
	if err := q.client.LPush(ctx, JobQueueKey, job.ID).Err(); err != nil {
		return "", err
	}
	return job.ID, nil
}

// GetJob loads a job by id.
func (q *Queue) GetJob(ctx context.Context, jobID string) (*Job, error) {
	raw, err := q.client.Get(ctx, JobKeyPrefix+jobID).Result()
	if err != nil {
		return nil, err
	}
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (q *Queue) saveJob(ctx context.Context, job *Job) error {
	job.UpdatedAt = time.Now()
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.Set(ctx, JobKeyPrefix+job.ID, raw, JobTTL).Err()
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()

	ctx := context.Background()
	for {
		select {
		case <-q.stopCh:
			return
		default:
		}

		res, err := q.client.BRPop(ctx, 2*time.Second, JobQueueKey).Result()
		if err != nil {
			if err != redis.Nil {
				log.Errorf("[JobQueue] Worker %d: pop failed: %v", id, err)
				time.Sleep(time.Second)
			}
			continue
		}
		if len(res) < 2 {
			continue
		}

		job, err := q.GetJob(ctx, res[1])
		if err != nil {
			log.Errorf("[JobQueue] Worker %d: job %s vanished: %v", id, res[1], err)
			continue
		}
		q.process(ctx, job)
	}
}

func (q *Queue) process(ctx context.Context, job *Job) {
	q.mu.Lock()
	fn, ok := q.processors[job.Type]
	q.mu.Unlock()
	if !ok {
		job.Status = JobStatusFailed
		job.ErrorMsg = fmt.Sprintf("no processor registered for job type %s", job.Type)
		_ = q.saveJob(ctx, job)
		log.Errorf("[JobQueue] %s", job.ErrorMsg)
		return
	}

	now := time.Now()
	job.Status = JobStatusProcessing
	job.ProcessedAt = &now
	_ = q.saveJob(ctx, job)

	if err := fn(ctx, job); err != nil {
		job.RetryCount++
		job.ErrorMsg = err.Error()
		if job.RetryCount < job.MaxRetries {
			job.Status = JobStatusRetrying
			_ = q.saveJob(ctx, job)
			_ = q.client.LPush(ctx, JobQueueKey, job.ID).Err()
			log.Warnf("[JobQueue] Job %s (%s) failed, retry %d/%d: %v", job.ID, job.Type, job.RetryCount, job.MaxRetries, err)
			return
		}
		job.Status = JobStatusFailed
		_ = q.saveJob(ctx, job)
		log.Errorf("[JobQueue] Job %s (%s) failed permanently: %v", job.ID, job.Type, err)
		return
	}

	done := time.Now()
	job.Status = JobStatusCompleted
	job.CompletedAt = &done
	job.ErrorMsg = ""
	_ = q.saveJob(ctx, job)
}
