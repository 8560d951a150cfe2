package usecase

import (
	"context"
	"log/slog"
	"time"
)

// RecoveryUseCase re-settles transfers stuck in pending. A transfer
// can only get stuck when the process dies between writing the anchor
// row and committing the apply transaction; the sweep re-runs the same
// idempotent settlement, so each stuck transfer ends up either applied
// or failed, never half-done.
type RecoveryUseCase struct {
	transferRepo TransferRepository
	transfers    *TransferUseCase
	logger       *slog.Logger
}

// NewRecoveryUseCase creates a new RecoveryUseCase.
func NewRecoveryUseCase(transferRepo TransferRepository, transfers *TransferUseCase, logger *slog.Logger) *RecoveryUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecoveryUseCase{
		transferRepo: transferRepo,
		transfers:    transfers,
		logger:       logger,
	}
}

// SweepResult summarizes one recovery pass.
type SweepResult struct {
	Scanned int
	Applied int
	Failed  int
	Errors  int
}

// Sweep settles pending transfers older than the cutoff.
func (uc *RecoveryUseCase) Sweep(ctx context.Context, olderThan time.Duration, limit int) (SweepResult, error) {
	if limit <= 0 {
		limit = DefaultSweepBatchSize
	}

	cutoff := time.Now().UTC().Add(-olderThan)

	pending, err := uc.transferRepo.ListPendingBefore(ctx, cutoff, limit)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Scanned: len(pending)}

	for _, transfer := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := uc.transfers.Settle(ctx, transfer)

		switch {
		case err == nil:
			result.Applied++
			uc.logger.Info("recovered stuck transfer",
				slog.String("transfer_id", transfer.ID))
		case isSettlementRejection(err):
			result.Failed++
			uc.logger.Warn("stuck transfer settled as failed",
				slog.String("transfer_id", transfer.ID),
				slog.String("reason", err.Error()))
		default:
			// I/O error: leave pending, the next pass retries.
			result.Errors++
			uc.logger.Error("failed to settle stuck transfer",
				slog.String("transfer_id", transfer.ID),
				slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// Run sweeps on a fixed interval until the context is cancelled.
func (uc *RecoveryUseCase) Run(ctx context.Context, interval, olderThan time.Duration, limit int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uc.logger.Info("recovery sweep started",
		slog.Duration("interval", interval),
		slog.Duration("older_than", olderThan))

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("recovery sweep shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := uc.Sweep(ctx, olderThan, limit); err != nil && ctx.Err() == nil {
				uc.logger.Error("recovery sweep pass failed",
					slog.String("error", err.Error()))
			}
		}
	}
}
