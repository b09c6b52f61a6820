package monitoring

import (
	"context"
	"time"

	"github.com/isdelr/taskdeck-be/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Digest periodically logs a snapshot of task totals and host resource
// usage. The schedule is a standard cron expression.
type Digest struct {
	tasks    *store.TaskRepository
	schedule cron.Schedule
	done     chan bool
}

// NewDigest creates a new Digest running on the given cron schedule.
func NewDigest(tasks *store.TaskRepository, scheduleExpr string) (*Digest, error) {
	schedule, err := cron.ParseStandard(scheduleExpr)
	if err != nil {
		return nil, err
	}
	return &Digest{
		tasks:    tasks,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the digest loop.
func (d *Digest) Run() {
	log.Info().Msg("Starting background task digest...")

	// Emit once immediately on start
	d.snapshot()

	for {
		next := d.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-d.done:
			timer.Stop()
			log.Info().Msg("Stopping background task digest.")
			return
		case <-timer.C:
			d.snapshot()
		}
	}
}

// Stop halts the digest loop.
func (d *Digest) Stop() {
	d.done <- true
}

// snapshot logs current task totals together with host cpu and memory use.
func (d *Digest) snapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	open, err := d.tasks.CountByCompleted(ctx, false)
	if err != nil {
		log.Error().Err(err).Msg("Digest: Failed to count open tasks")
		return
	}
	completed, err := d.tasks.CountByCompleted(ctx, true)
	if err != nil {
		log.Error().Err(err).Msg("Digest: Failed to count completed tasks")
		return
	}

	event := log.Info().
		Int("open_tasks", open).
		Int("completed_tasks", completed)

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		event = event.Float64("host_cpu_pct", percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		event = event.Float64("host_mem_pct", vm.UsedPercent)
	}

	event.Msg("task digest")
}
