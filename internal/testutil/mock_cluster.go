package testutil

import (
	"context"

	"skiff/internal/core/domain"
	"skiff/internal/ports"

	"github.com/stretchr/testify/mock"
)

type MockCluster struct {
	mock.Mock
}

func (m *MockCluster) EnsureNamespace(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockCluster) Apply(ctx context.Context, manifests []byte) error {
	args := m.Called(ctx, manifests)
	return args.Error(0)
}

func (m *MockCluster) WorkloadStatus(ctx context.Context, workload domain.RenderedWorkload) (ports.WorkloadStatus, error) {
	args := m.Called(ctx, workload)
	return args.Get(0).(ports.WorkloadStatus), args.Error(1)
}
