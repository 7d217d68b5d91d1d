package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/siteseeker/backend/internal/entity"
	"github.com/siteseeker/backend/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, id string, fields entity.LeadUpdate) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListAll(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ExistsByNameAndAddress(ctx context.Context, businessName, address string) (bool, error) {
	args := m.Called(ctx, businessName, address)
	return args.Bool(0), args.Error(1)
}

// MockSearchCache
type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) Get(ctx context.Context, keyword, location string) ([]entity.PlaceDetail, error) {
	args := m.Called(ctx, keyword, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PlaceDetail), args.Error(1)
}

func (m *MockSearchCache) Put(ctx context.Context, keyword, location string, results []entity.PlaceDetail) error {
	args := m.Called(ctx, keyword, location, results)
	return args.Error(0)
}

// MockPlacesClient
type MockPlacesClient struct {
	mock.Mock
}

func (m *MockPlacesClient) TextSearch(ctx context.Context, query string) ([]entity.PlaceSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PlaceSummary), args.Error(1)
}

func (m *MockPlacesClient) PlaceDetails(ctx context.Context, placeID string) (*entity.PlaceDetail, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PlaceDetail), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockLeadMirror
type MockLeadMirror struct {
	mock.Mock
}

func (m *MockLeadMirror) Refresh(ctx context.Context, leads []*entity.Lead) error {
	args := m.Called(ctx, leads)
	return args.Error(0)
}

func (m *MockLeadMirror) Load(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}
