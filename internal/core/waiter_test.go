package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"skiff/internal/core/domain"
	"skiff/internal/ports"
	"skiff/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var waitedWorkload = domain.RenderedWorkload{Kind: "Deployment", Name: "api", Namespace: "prod"}

// newTestWaiter returns a waiter whose clock only advances when sleep is
// called, so deadline behavior is deterministic.
func newTestWaiter(cluster ports.Cluster) *RolloutWaiter {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	waiter := &RolloutWaiter{
		cluster:  cluster,
		interval: 3 * time.Second,
		now:      func() time.Time { return now },
	}
	waiter.sleep = func(d time.Duration) { now = now.Add(d) }
	return waiter
}

func TestRolloutWaiter_Wait_SucceedsImmediately(t *testing.T) {
	cluster := new(testutil.MockCluster)
	cluster.On("WorkloadStatus", mock.Anything, waitedWorkload).
		Return(ports.WorkloadStatus{State: domain.RolloutSucceeded}, nil)

	err := newTestWaiter(cluster).Wait(context.Background(), waitedWorkload, time.Minute)

	require.NoError(t, err)
}

func TestRolloutWaiter_Wait_SucceedsAfterProgressing(t *testing.T) {
	cluster := new(testutil.MockCluster)
	cluster.On("WorkloadStatus", mock.Anything, waitedWorkload).
		Return(ports.WorkloadStatus{State: domain.RolloutProgressing, Message: "1 of 2 replicas updated"}, nil).Twice()
	cluster.On("WorkloadStatus", mock.Anything, waitedWorkload).
		Return(ports.WorkloadStatus{State: domain.RolloutSucceeded}, nil)

	err := newTestWaiter(cluster).Wait(context.Background(), waitedWorkload, time.Minute)

	require.NoError(t, err)
	cluster.AssertNumberOfCalls(t, "WorkloadStatus", 3)
}

func TestRolloutWaiter_Wait_FailureCarriesLastStatus(t *testing.T) {
	cluster := new(testutil.MockCluster)
	cluster.On("WorkloadStatus", mock.Anything, waitedWorkload).
		Return(ports.WorkloadStatus{State: domain.RolloutFailed, Message: "progress deadline exceeded"}, nil)

	err := newTestWaiter(cluster).Wait(context.Background(), waitedWorkload, time.Minute)

	var rolloutErr *domain.RolloutError
	require.True(t, errors.As(err, &rolloutErr))
	assert.Equal(t, domain.RolloutFailed, rolloutErr.State)
	assert.Equal(t, "progress deadline exceeded", rolloutErr.LastStatus)
}

func TestRolloutWaiter_Wait_TimesOut(t *testing.T) {
	cluster := new(testutil.MockCluster)
	cluster.On("WorkloadStatus", mock.Anything, waitedWorkload).
		Return(ports.WorkloadStatus{State: domain.RolloutProgressing, Message: "0 of 2 replicas updated"}, nil)

	err := newTestWaiter(cluster).Wait(context.Background(), waitedWorkload, 5*time.Second)

	var rolloutErr *domain.RolloutError
	require.True(t, errors.As(err, &rolloutErr))
	assert.Equal(t, domain.RolloutTimedOut, rolloutErr.State)
	assert.Equal(t, "0 of 2 replicas updated", rolloutErr.LastStatus)
}

func TestRolloutWaiter_Wait_PendingNeverObservedTimesOut(t *testing.T) {
	cluster := new(testutil.MockCluster)
	cluster.On("WorkloadStatus", mock.Anything, waitedWorkload).
		Return(ports.WorkloadStatus{State: domain.RolloutPending, Message: "deployment api not observed yet"}, nil)

	err := newTestWaiter(cluster).Wait(context.Background(), waitedWorkload, 5*time.Second)

	var rolloutErr *domain.RolloutError
	require.True(t, errors.As(err, &rolloutErr))
	assert.Equal(t, domain.RolloutTimedOut, rolloutErr.State)
}

func TestRolloutWaiter_Wait_StatusErrorIsKubectlError(t *testing.T) {
	cluster := new(testutil.MockCluster)
	cluster.On("WorkloadStatus", mock.Anything, waitedWorkload).
		Return(ports.WorkloadStatus{}, errors.New("connection refused"))

	err := newTestWaiter(cluster).Wait(context.Background(), waitedWorkload, time.Minute)

	var kubectlErr *domain.KubectlError
	require.True(t, errors.As(err, &kubectlErr))
	assert.Contains(t, err.Error(), "connection refused")
}
