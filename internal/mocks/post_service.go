// Package mocks provides testify mocks for service and repository
// interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
)

// PostService is a mock implementation of service.PostServiceInterface.
type PostService struct {
	mock.Mock
}

func (m *PostService) ListPublished(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *PostService) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *PostService) SavePost(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *PostService) DeletePost(ctx context.Context, id, slugHint string) error {
	args := m.Called(ctx, id, slugHint)
	return args.Error(0)
}

func (m *PostService) Sitemap(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *PostService) RobotsTxt() string {
	args := m.Called()
	return args.String(0)
}
