package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/passbook/internal/usecase"
	"github.com/iho/passbook/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency_Balanced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().SumAppliedTransferLegs(gomock.Any()).Return(int64(0), nil)
	ledgerRepo.EXPECT().FindUnbalancedTransfers(gomock.Any(), gomock.Any()).Return(nil, nil)

	uc := usecase.NewLedgerUseCase(ledgerRepo, nil)

	report, err := uc.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Consistent {
		t.Error("expected consistent report")
	}
}

func TestLedgerUseCase_CheckConsistency_Unbalanced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().SumAppliedTransferLegs(gomock.Any()).Return(int64(40), nil)
	ledgerRepo.EXPECT().FindUnbalancedTransfers(gomock.Any(), gomock.Any()).Return([]string{"tr-1"}, nil)

	uc := usecase.NewLedgerUseCase(ledgerRepo, nil)

	report, err := uc.CheckConsistency(context.Background())
	if !errors.Is(err, usecase.ErrInconsistentLedger) {
		t.Fatalf("expected ErrInconsistentLedger, got %v", err)
	}

	if report == nil || report.Consistent {
		t.Fatal("expected inconsistent report")
	}

	if report.TransferLegTotal != 40 {
		t.Errorf("leg total = %d, want 40", report.TransferLegTotal)
	}

	if len(report.UnbalancedIDs) != 1 || report.UnbalancedIDs[0] != "tr-1" {
		t.Errorf("unexpected unbalanced IDs: %v", report.UnbalancedIDs)
	}
}

func TestLedgerUseCase_CheckConsistency_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cached, _ := json.Marshal(usecase.ConsistencyReport{Consistent: true})

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cached, nil)

	// No repository expectations: the cached report short-circuits the
	// scan entirely.
	uc := usecase.NewLedgerUseCase(mocks.NewMockLedgerRepository(ctrl), cache)

	report, err := uc.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Consistent {
		t.Error("expected cached consistent report")
	}
}

func TestLedgerUseCase_CheckConsistency_CacheMissPopulates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().SumAppliedTransferLegs(gomock.Any()).Return(int64(0), nil)
	ledgerRepo.EXPECT().FindUnbalancedTransfers(gomock.Any(), gomock.Any()).Return(nil, nil)

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("miss"))
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	uc := usecase.NewLedgerUseCase(ledgerRepo, cache)

	if _, err := uc.CheckConsistency(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
