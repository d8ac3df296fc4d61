// Package shutdown coordinates graceful termination of a service process.
package shutdown

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Timeout bounds the time given to registered tasks once a signal arrives.
const Timeout = 15 * time.Second

// Task releases one resource (HTTP server, database client, ...).
type Task func(context.Context) error

type Manager struct {
	cancel context.CancelFunc
	mu     sync.Mutex
	tasks  []Task
	once   sync.Once
	exit   func(int)
}

// New derives a cancellable context that is closed when shutdown begins.
func New(ctx context.Context) (context.Context, *Manager) {
	ctx, cancel := context.WithCancel(ctx)
	return ctx, &Manager{cancel: cancel, exit: os.Exit}
}

func (m *Manager) Register(task Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// Shutdown cancels the root context and runs the tasks in reverse
// registration order, so the HTTP server stops before its dependencies.
// Task errors are logged and the remaining tasks still run.
func (m *Manager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		m.cancel()

		m.mu.Lock()
		tasks := make([]Task, len(m.tasks))
		copy(tasks, m.tasks)
		m.mu.Unlock()

		for i := len(tasks) - 1; i >= 0; i-- {
			if err := tasks[i](ctx); err != nil {
				log.Printf("[SHUTDOWN] Error during shutdown: %v", err)
			}
		}
		log.Println("[SHUTDOWN] Graceful shutdown complete")
	})
}

// StartListening waits for SIGINT/SIGTERM in the background, shuts down and
// exits the process.
func (m *Manager) StartListening() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("[SHUTDOWN] Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), Timeout)
		defer cancel()
		m.Shutdown(ctx)
		m.exit(0)
	}()
}
