package usecase

import (
	"context"
	"errors"
	"testing"

	"devis_broker/internal/domain/entities"
	mock_interfaces "devis_broker/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestForwarderUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("admin registers an active forwarder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f entities.Forwarder) (entities.Forwarder, error) {
			return f, nil
		})

		f, err := NewForwarderUseCase(repo).Register(ctx, adminActor, "  Transit Ouest ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.ID == "" || f.Name != "Transit Ouest" || !f.Active || f.CreatedAt.IsZero() {
			t.Fatalf("unexpected forwarder: %+v", f)
		}
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)

		if _, err := NewForwarderUseCase(repo).Register(ctx, customerActor, "x"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("blank name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)

		if _, err := NewForwarderUseCase(repo).Register(ctx, adminActor, " "); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
	})
}

func TestForwarderUseCase_SetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown forwarder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().SetActive(gomock.Any(), "ghost", false).Return(entities.Forwarder{}, nil)

		if _, err := NewForwarderUseCase(repo).SetActive(ctx, adminActor, "ghost", false); !errors.Is(err, ErrForwarderNotFound) {
			t.Fatalf("expected ErrForwarderNotFound, got %v", err)
		}
	})

	t.Run("deactivates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)
		repo.EXPECT().SetActive(gomock.Any(), "fw-1", false).Return(entities.Forwarder{ID: "fw-1", Active: false}, nil)

		f, err := NewForwarderUseCase(repo).SetActive(ctx, adminActor, "fw-1", false)
		if err != nil || f.Active {
			t.Fatalf("unexpected result: %+v err=%v", f, err)
		}
	})

	t.Run("list requires admin", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIForwarderRepository(ctrl)

		if _, err := NewForwarderUseCase(repo).List(ctx, forwarderActor); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}
