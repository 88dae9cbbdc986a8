package operations

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "priceshift/internal/errors"
)

func (m *Manager) logOperationStart(ctx context.Context, operationID string, stepCount int) {
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", operationID),
		slog.Int("step_count", stepCount))
}

func (m *Manager) logOperationComplete(ctx context.Context, state *OperationState) {
	m.logger.InfoContext(ctx, "operation_complete",
		slog.String("operation_id", state.ID),
		slog.String("status", string(state.Status)),
		slog.Duration("duration", state.Duration()),
		slog.Int("outputs", len(state.Outputs)))
}

func (m *Manager) logStageStart(ctx context.Context, operationID, stepID string, number, total int) {
	m.logger.InfoContext(ctx, "stage_start",
		slog.String("operation_id", operationID),
		slog.String("step", stepID),
		slog.Int("stage_number", number),
		slog.Int("total_stages", total))
}

func (m *Manager) logStageComplete(ctx context.Context, operationID, stepID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("operation_id", operationID),
		slog.String("step", stepID),
		slog.Duration("duration", duration))
}

func (m *Manager) logStageSkipped(ctx context.Context, operationID, stepID, reason string) {
	m.logger.InfoContext(ctx, "stage_skipped",
		slog.String("operation_id", operationID),
		slog.String("step", stepID),
		slog.String("reason", reason))
}

// logStageError logs a step failure with the error's typed context
func (m *Manager) logStageError(ctx context.Context, operationID, stepID string, err error) {
	attrs := []slog.Attr{
		slog.String("operation_id", operationID),
		slog.String("step", stepID),
		slog.String("error", err.Error()),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		attrs = append(attrs, appErr.LogAttrs()...)
	}
	m.logger.LogAttrs(ctx, slog.LevelError, "stage_error", attrs...)
}
