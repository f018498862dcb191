package camunda

import (
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"docverify-workers/internal/common/config"
	"docverify-workers/internal/common/logger"
)

// WorkerSet opens and closes the job workers of one process.
type WorkerSet struct {
	client  zbc.Client
	logger  logger.Logger
	mu      sync.RWMutex
	workers map[string]worker.JobWorker
}

func NewWorkerSet(client zbc.Client, log logger.Logger) *WorkerSet {
	return &WorkerSet{
		client:  client,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled in config.
func (s *WorkerSet) Start(taskType string, wcfg config.WorkerConfig, handler func(worker.JobClient, entities.Job)) {
	if !wcfg.Enabled {
		s.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	w := s.client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	s.mu.Lock()
	s.workers[taskType] = w
	s.mu.Unlock()

	s.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
}

// Running lists the task types with an open worker.
func (s *WorkerSet) Running() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.workers))
	for taskType := range s.workers {
		out = append(out, taskType)
	}
	return out
}

// Close stops polling and waits for in-flight jobs, bounded by timeout per worker.
func (s *WorkerSet) Close(timeout time.Duration) {
	s.mu.Lock()
	open := s.workers
	s.workers = make(map[string]worker.JobWorker)
	s.mu.Unlock()

	for taskType, w := range open {
		w.Close()
		if !awaitClose(w, timeout) {
			s.logger.Warn("worker did not stop in time", map[string]interface{}{"taskType": taskType})
		}
	}
}

func awaitClose(w worker.JobWorker, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		w.AwaitClose()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
