package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/streamnest/StreamNest/internal/pkg/env"
)

var (
	manager     *Queue
	managerOnce sync.Once
)

// InitManager starts the shared queue and the periodic billing resync
// scheduler. Safe to call more than once.
func InitManager() *Queue {
	managerOnce.Do(func() {
		manager = NewQueue(2)
		manager.Register(JobTypeBillingResync, processBillingResync)
		manager.Start()

		go scheduleBillingResync(manager, resyncInterval())
	})
	return manager
}

// GetManager returns the shared queue, initializing it on first use.
func GetManager() *Queue {
	return InitManager()
}

// resyncInterval reads BILLING_RESYNC_HOURS, defaulting to every 6 hours.
func resyncInterval() time.Duration {
	hours, err := strconv.Atoi(env.GetEnv("BILLING_RESYNC_HOURS", "6"))
	if err != nil || hours <= 0 {
		hours = 6
	}
	return time.Duration(hours) * time.Hour
}

func scheduleBillingResync(q *Queue, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-q.stopCh:
			return
		case <-ticker.C:
			if _, err := q.Enqueue(JobTypeBillingResync, nil); err != nil {
				log.Errorf("[JobQueue] Failed to enqueue billing resync: %v", err)
			}
		}
	}
}
