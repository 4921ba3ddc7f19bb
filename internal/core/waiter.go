package core

import (
	"context"
	"fmt"
	"time"

	"skiff/internal/core/domain"
	"skiff/internal/ports"
)

const defaultPollInterval = 3 * time.Second

// RolloutWaiter polls the primary workload after an apply until it reaches a
// terminal state. The clock and sleep are injectable so deadline behavior is
// testable without real delays.
type RolloutWaiter struct {
	cluster  ports.Cluster
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
}

func ProvideRolloutWaiter(cluster ports.Cluster) *RolloutWaiter {
	return &RolloutWaiter{
		cluster:  cluster,
		interval: defaultPollInterval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until the workload's rollout succeeds, fails, or the timeout
// elapses. Only the primary workload gates success; sidecar workloads are
// applied but not individually waited on.
func (w *RolloutWaiter) Wait(ctx context.Context, workload domain.RenderedWorkload, timeout time.Duration) error {
	deadline := w.now().Add(timeout)
	for {
		status, err := w.cluster.WorkloadStatus(ctx, workload)
		if err != nil {
			return &domain.KubectlError{Err: fmt.Errorf(
				"failed to read status of %s %s/%s: %w",
				workload.Kind, workload.Namespace, workload.Name, err,
			)}
		}

		switch status.State {
		case domain.RolloutSucceeded:
			return nil
		case domain.RolloutFailed:
			return &domain.RolloutError{State: domain.RolloutFailed, LastStatus: status.Message}
		}

		if !w.now().Before(deadline) {
			return &domain.RolloutError{State: domain.RolloutTimedOut, LastStatus: status.Message}
		}
		w.sleep(w.interval)
	}
}
