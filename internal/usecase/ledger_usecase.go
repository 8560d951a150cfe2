package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrInconsistentLedger is returned when transfer legs do not
	// conserve value.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: transfer legs do not sum to zero")
)

const (
	consistencyCacheKey = "ledger:consistency"
	consistencyCacheTTL = 30 * time.Second
	maxReportedBroken   = 100
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	cache      Cache
}

// NewLedgerUseCase creates a new LedgerUseCase. The cache is optional;
// when present, consistency reports are cached briefly since the check
// scans every transfer leg.
func NewLedgerUseCase(ledgerRepo LedgerRepository, cache Cache) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		cache:      cache,
	}
}

// ConsistencyReport is the outcome of a conservation check.
type ConsistencyReport struct {
	Consistent       bool      `json:"consistent"`
	TransferLegTotal int64     `json:"transfer_leg_total"`
	UnbalancedIDs    []string  `json:"unbalanced_transfer_ids,omitempty"`
	CheckedAt        time.Time `json:"checked_at"`
}

// CheckConsistency verifies the conservation invariant: every applied
// transfer contributed a conjugate pair, so the sum of all valid
// transfer legs is zero and no individual transfer is unbalanced.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, consistencyCacheKey); err == nil && cached != nil {
			var report ConsistencyReport
			if err := json.Unmarshal(cached, &report); err == nil {
				return &report, nil
			}
		}
	}

	total, err := uc.ledgerRepo.SumAppliedTransferLegs(ctx)
	if err != nil {
		return nil, err
	}

	unbalanced, err := uc.ledgerRepo.FindUnbalancedTransfers(ctx, maxReportedBroken)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Consistent:       total == 0 && len(unbalanced) == 0,
		TransferLegTotal: total,
		UnbalancedIDs:    unbalanced,
		CheckedAt:        time.Now().UTC(),
	}

	if uc.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = uc.cache.Set(ctx, consistencyCacheKey, data, consistencyCacheTTL)
		}
	}

	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
