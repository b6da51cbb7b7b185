// Package cluster keeps a fixed pool of worker processes alive. In
// clustered mode the primary process spawns one copy of its own binary
// per CPU core; each worker runs the full server independently and
// shares nothing with its siblings. A dying worker is replaced
// immediately, unconditionally, with no backoff and no crash-loop
// limit.
package cluster

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// Mode selects between forking workers and running the server inline.
type Mode string

const (
	ModeCluster Mode = "cluster"
	ModeSingle  Mode = "single"
)

// WorkerEnv marks a spawned process as a worker so it runs the server
// instead of forking again.
const WorkerEnv = "PLAZA_WORKER"

// SlotEnv carries the worker's slot index. The slot is stable across
// respawns, so a replacement worker inherits its predecessor's
// resources (notably its store directory) rather than starting blank.
const SlotEnv = "PLAZA_WORKER_SLOT"

// spawnRetryDelay spaces out retries when forking itself fails, e.g.
// EAGAIN under memory pressure. A spawn failure never abandons the
// slot.
const spawnRetryDelay = time.Second

// IsWorker reports whether this process was spawned by a primary.
func IsWorker() bool {
	return os.Getenv(WorkerEnv) == "1"
}

// Slot returns this worker's slot index, or 0 when not set.
func Slot() int {
	slot, err := strconv.Atoi(os.Getenv(SlotEnv))
	if err != nil || slot < 0 {
		return 0
	}
	return slot
}

// SpawnFunc builds the command for one worker slot. Overridable so
// tests can supervise something cheaper than the real binary.
type SpawnFunc func(ctx context.Context, slot int) (*exec.Cmd, error)

type Supervisor struct {
	log   *slog.Logger
	count int
	spawn SpawnFunc
	wg    sync.WaitGroup
}

// NewSupervisor supervises count worker slots. The default spawn
// re-executes the current binary with the worker marker set and the
// worker's output attached to the primary's.
func NewSupervisor(log *slog.Logger, count int) *Supervisor {
	return &Supervisor{
		log:   log,
		count: count,
		spawn: func(ctx context.Context, slot int) (*exec.Cmd, error) {
			executable, err := os.Executable()
			if err != nil {
				return nil, err
			}
			cmd := exec.CommandContext(ctx, executable, os.Args[1:]...)
			cmd.Env = append(os.Environ(), WorkerEnv+"=1", SlotEnv+"="+strconv.Itoa(slot))
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			return cmd, nil
		},
	}
}

// WithSpawn replaces the spawn function. Test hook.
func (s *Supervisor) WithSpawn(spawn SpawnFunc) *Supervisor {
	s.spawn = spawn
	return s
}

// Run fills every worker slot and blocks until the context is canceled
// and all children have been reaped. Each slot runs its own
// spawn/wait/respawn loop, so a crashed worker is replaced by exactly
// one new process and exits are always reaped (no zombie accumulation).
func (s *Supervisor) Run(ctx context.Context) {
	s.log.Info("starting worker pool", "workers", s.count)
	for i := 0; i < s.count; i++ {
		s.superviseSlot(ctx, i)
	}
	s.wg.Wait()
	s.log.Info("worker pool drained")
}

func (s *Supervisor) superviseSlot(ctx context.Context, slot int) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				return
			}

			cmd, err := s.spawn(ctx, slot)
			if err == nil {
				err = cmd.Start()
			}
			if err != nil {
				// A failed fork (e.g. EAGAIN under memory pressure) must
				// not shrink the pool: keep the slot and retry.
				s.log.Error("cannot start worker, retrying", "slot", slot, "error", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(spawnRetryDelay):
				}
				continue
			}
			s.log.Info("worker started", "slot", slot, "pid", cmd.Process.Pid)

			err = cmd.Wait()
			if ctx.Err() != nil {
				return
			}

			// A worker crash is never fatal to the supervisor: log and
			// replace, immediately.
			s.log.Warn("worker died, a new one is being created", "slot", slot, "pid", cmd.Process.Pid, "error", err)
		}
	}()
}
