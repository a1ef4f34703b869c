package rag

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Init(ctx context.Context, vectorSize int) error {
	args := m.Called(ctx, vectorSize)
	return args.Error(0)
}

func (m *MockStore) UpsertBatch(ctx context.Context, docs []VectorDoc) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, ids []string) ([]VectorDoc, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]VectorDoc), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]VectorDoc, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]VectorDoc), args.Error(1)
}

func (m *MockStore) Query(ctx context.Context, vector []float32, k int) ([]VectorDoc, error) {
	args := m.Called(ctx, vector, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]VectorDoc), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
