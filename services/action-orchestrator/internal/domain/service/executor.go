package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/port"
)

// Outcome is what an executor reports back.
type Outcome struct {
	Success bool
	Message string
}

// Executor carries out one kind of action.
type Executor interface {
	Execute(ctx context.Context, transactionID, explanation string) Outcome
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, transactionID, explanation string) Outcome

func (f ExecutorFunc) Execute(ctx context.Context, transactionID, explanation string) Outcome {
	return f(ctx, transactionID, explanation)
}

// Dispatcher routes an action to its executor.
type Dispatcher struct {
	executors map[fraud.Action]Executor
}

// NewDispatcher wires the four executors. bank may be nil, in which case
// step-up and hold are only logged.
func NewDispatcher(bank port.BankActions, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{executors: map[fraud.Action]Executor{
		fraud.ActionNotify: NotifyExecutor(logger),
		fraud.ActionStepUp: StepUpExecutor(bank, logger),
		fraud.ActionHold:   HoldExecutor(bank, logger),
		fraud.ActionAllow:  AllowExecutor(logger),
	}}
}

// Dispatch runs the executor for action. It returns fraud.ErrUnknownAction
// when none is registered.
func (d *Dispatcher) Dispatch(ctx context.Context, action fraud.Action, transactionID, explanation string) (Outcome, error) {
	exec, ok := d.executors[action]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", fraud.ErrUnknownAction, action.String())
	}
	return exec.Execute(ctx, transactionID, explanation), nil
}

// NotifyExecutor tells the customer about the transaction.
func NotifyExecutor(logger *slog.Logger) Executor {
	return ExecutorFunc(func(ctx context.Context, transactionID, explanation string) Outcome {
		logger.InfoContext(ctx, "notification sent",
			"transaction_id", transactionID,
			"explanation", explanation,
			"action", fraud.ActionNotify.String(),
		)
		return Outcome{Success: true, Message: fmt.Sprintf("Notification sent for transaction %s", transactionID)}
	})
}

// StepUpExecutor asks the bank to re-authenticate the customer.
func StepUpExecutor(bank port.BankActions, logger *slog.Logger) Executor {
	return ExecutorFunc(func(ctx context.Context, transactionID, explanation string) Outcome {
		if bank != nil {
			if err := bank.StepUp(ctx, transactionID, explanation); err != nil {
				logger.ErrorContext(ctx, "step-up action failed", "transaction_id", transactionID, "error", err)
				return Outcome{Message: fmt.Sprintf("Failed to trigger step-up auth: %v", err)}
			}
		}
		logger.InfoContext(ctx, "step-up authentication triggered",
			"transaction_id", transactionID,
			"explanation", explanation,
			"action", fraud.ActionStepUp.String(),
		)
		return Outcome{Success: true, Message: fmt.Sprintf("Step-up authentication triggered for transaction %s", transactionID)}
	})
}

// HoldExecutor asks the bank to hold the transaction.
func HoldExecutor(bank port.BankActions, logger *slog.Logger) Executor {
	return ExecutorFunc(func(ctx context.Context, transactionID, explanation string) Outcome {
		if bank != nil {
			if err := bank.Hold(ctx, transactionID, explanation); err != nil {
				logger.ErrorContext(ctx, "hold action failed", "transaction_id", transactionID, "error", err)
				return Outcome{Message: fmt.Sprintf("Failed to hold transaction: %v", err)}
			}
		}
		logger.InfoContext(ctx, "transaction held",
			"transaction_id", transactionID,
			"explanation", explanation,
			"action", fraud.ActionHold.String(),
		)
		return Outcome{Success: true, Message: fmt.Sprintf("Transaction %s placed on hold", transactionID)}
	})
}

// AllowExecutor lets the transaction proceed.
func AllowExecutor(logger *slog.Logger) Executor {
	return ExecutorFunc(func(ctx context.Context, transactionID, explanation string) Outcome {
		logger.InfoContext(ctx, "transaction allowed",
			"transaction_id", transactionID,
			"explanation", explanation,
			"action", fraud.ActionAllow.String(),
		)
		return Outcome{Success: true, Message: fmt.Sprintf("Transaction %s allowed to proceed", transactionID)}
	})
}
