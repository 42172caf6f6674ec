package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"vidseek/internal/api/v1/dto"
)

// MockServices contains all mock services for testing
type MockServices struct {
	VideoService  *MockVideoService
	CacheService  *MockCacheService
	ExportService *MockExportService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		VideoService:  NewMockVideoService(t),
		CacheService:  NewMockCacheService(t),
		ExportService: NewMockExportService(t),
	}
}

// AssertExpectations checks every mock
func (ms *MockServices) AssertExpectations(t *testing.T) {
	ms.VideoService.AssertExpectations(t)
	ms.CacheService.AssertExpectations(t)
	ms.ExportService.AssertExpectations(t)
}

// MockVideoService is a mock implementation of VideoService
type MockVideoService struct {
	mock.Mock
}

func NewMockVideoService(t *testing.T) *MockVideoService {
	m := &MockVideoService{}
	m.Test(t)
	return m
}

func (m *MockVideoService) Search(ctx context.Context, videoID string, req dto.SearchRequest) (*dto.SearchResponse, error) {
	args := m.Called(ctx, videoID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SearchResponse), args.Error(1)
}

func (m *MockVideoService) BuildIndex(ctx context.Context, videoID string, req dto.PageRequest) (*dto.IndexResponse, error) {
	args := m.Called(ctx, videoID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IndexResponse), args.Error(1)
}

func (m *MockVideoService) GetTranscript(ctx context.Context, videoID string, req dto.PageRequest) (*dto.TranscriptResponse, error) {
	args := m.Called(ctx, videoID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscriptResponse), args.Error(1)
}

// MockCacheService is a mock implementation of CacheService
type MockCacheService struct {
	mock.Mock
}

func NewMockCacheService(t *testing.T) *MockCacheService {
	m := &MockCacheService{}
	m.Test(t)
	return m
}

func (m *MockCacheService) Invalidate(ctx context.Context, videoID string) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

func (m *MockCacheService) Sweep(ctx context.Context) (*dto.SweepResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SweepResponse), args.Error(1)
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	mock.Mock
}

func NewMockExportService(t *testing.T) *MockExportService {
	m := &MockExportService{}
	m.Test(t)
	return m
}

// Export writes the mocked payload (second return value) to writer
func (m *MockExportService) Export(ctx context.Context, videoID string, format string, writer io.Writer) error {
	args := m.Called(ctx, videoID, format, writer)
	if payload, ok := args.Get(1).([]byte); ok {
		if _, err := writer.Write(payload); err != nil {
			return err
		}
	}
	return args.Error(0)
}
