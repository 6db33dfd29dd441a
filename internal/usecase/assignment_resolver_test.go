package usecase

import (
	"context"
	"errors"
	"testing"

	"devis_broker/internal/domain/entities"
	mock_interfaces "devis_broker/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestAssignmentResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit active forwarder binds with search channel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "fw-1").Return(entities.Forwarder{ID: "fw-1", Active: true}, nil)

		got, err := NewAssignmentResolver(repo).Resolve(ctx, " fw-1 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ForwarderID != "fw-1" || got.Channel != entities.CreationChannelSearch {
			t.Fatalf("unexpected assignment: %+v", got)
		}
	})

	t.Run("explicit unknown forwarder is rejected without substitution", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "ghost").Return(entities.Forwarder{}, nil)

		_, err := NewAssignmentResolver(repo).Resolve(ctx, "ghost")
		if !errors.Is(err, ErrUnknownForwarder) {
			t.Fatalf("expected ErrUnknownForwarder, got %v", err)
		}
	})

	t.Run("explicit inactive forwarder is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "fw-off").Return(entities.Forwarder{ID: "fw-off", Active: false}, nil)

		_, err := NewAssignmentResolver(repo).Resolve(ctx, "fw-off")
		if !errors.Is(err, ErrUnknownForwarder) {
			t.Fatalf("expected ErrUnknownForwarder, got %v", err)
		}
	})

	t.Run("no preference takes the first active forwarder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().ListActive(gomock.Any()).Return([]entities.Forwarder{{ID: "fw-a", Active: true}, {ID: "fw-b", Active: true}}, nil)

		got, err := NewAssignmentResolver(repo).Resolve(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ForwarderID != "fw-a" || got.Channel != entities.CreationChannelGeneric {
			t.Fatalf("unexpected assignment: %+v", got)
		}
	})

	t.Run("empty pool leaves the quote unassigned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().ListActive(gomock.Any()).Return(nil, nil)

		got, err := NewAssignmentResolver(repo).Resolve(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ForwarderID != "" || got.Channel != entities.CreationChannelGeneric {
			t.Fatalf("unexpected assignment: %+v", got)
		}
	})

	t.Run("repository error is propagated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().ListActive(gomock.Any()).Return(nil, ErrTransientStore)

		if _, err := NewAssignmentResolver(repo).Resolve(ctx, ""); !errors.Is(err, ErrTransientStore) {
			t.Fatalf("expected ErrTransientStore, got %v", err)
		}
	})
}
