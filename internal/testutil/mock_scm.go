package testutil

import (
	"skiff/internal/ports"

	"github.com/stretchr/testify/mock"
)

type MockScm struct {
	mock.Mock
}

func (m *MockScm) CommitAndPush(repoDir string, paths []string, message string) (ports.CommitResult, error) {
	args := m.Called(repoDir, paths, message)
	return args.Get(0).(ports.CommitResult), args.Error(1)
}
