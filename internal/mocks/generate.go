// Package mocks provides gomock implementations of the core ports for tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockRecordAPI[model.JobRole, model.JobRoleCreate](ctrl)
//	api.EXPECT().List(gomock.Any(), 0, 10).Return(listing, nil)
package mocks

// MockRecordAPI: List, Create
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=record_api_mock.go github.com/target/records-ui/internal/core RecordAPI

// MockCacheRepository: Set, Get, Delete, Exists, SetIfNotExists, Health
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/target/records-ui/internal/core CacheRepository
