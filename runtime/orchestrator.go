// Package runtime wires the change feed to the subscriber registry.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"chat-notify/contract"
	"chat-notify/observability"
	"chat-notify/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Orchestrator owns the supervised background work of the service: the
// notification drain, the stats sampler and any extra worker added by the
// binary.
type Orchestrator struct {
	mu            sync.Mutex
	log           *slog.Logger
	supervisor    contract.ISupervisor
	registry      *Registry
	open          contract.SourceOpener
	metrics       *observability.Metrics
	statsInterval time.Duration
	extra         []contract.Worker
	started       bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry *Registry,
	open contract.SourceOpener, metrics *observability.Metrics, statsInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		log:           log,
		supervisor:    supervisor,
		registry:      registry,
		open:          open,
		metrics:       metrics,
		statsInterval: statsInterval,
	}
}

// Add registers workers to run alongside the built-in ones.
func (o *Orchestrator) Add(worker ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extra = append(o.extra, worker...)
}

func (o *Orchestrator) Registry() *Registry { return o.registry }

// Start registers every worker with the supervisor and blocks until the
// supervision ends.
func (o *Orchestrator) Start(ctx context.Context) error {
	fanout := workers.NewNotificationFanout(o.log, o.open, o.registry, o.metrics)
	stats := workers.NewProcessStatsWorker(o.log, o.registry, o.metrics, o.statsInterval)

	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.started = true
	o.supervisor.Add(fanout, stats)
	o.supervisor.Add(o.extra...)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervised context. Start returns once every worker is done.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
