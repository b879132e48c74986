package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
)

// PostRepository is a mock implementation of repository.PostRepository.
type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) Upsert(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *PostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *PostRepository) ListPublished(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *PostRepository) ListAll(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *PostRepository) ListPublishedLinks(ctx context.Context, excludeID string) ([]domain.PostLink, error) {
	args := m.Called(ctx, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostLink), args.Error(1)
}

func (m *PostRepository) DeleteByID(ctx context.Context, id, slugHint string) error {
	args := m.Called(ctx, id, slugHint)
	return args.Error(0)
}

func (m *PostRepository) IncrementViews(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// ExtensionRepository is a mock implementation of
// repository.ExtensionRepository.
type ExtensionRepository struct {
	mock.Mock
}

func (m *ExtensionRepository) List(ctx context.Context) ([]domain.Extension, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Extension), args.Error(1)
}

func (m *ExtensionRepository) Upsert(ctx context.Context, ext *domain.Extension) error {
	args := m.Called(ctx, ext)
	return args.Error(0)
}

func (m *ExtensionRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
