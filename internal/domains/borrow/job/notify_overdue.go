package job

import (
	"context"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/borrow/service"
	"library-backend/pkg/logger"
)

// NotifyOverdueHandler runs the scheduled reminder sweep in the worker.
type NotifyOverdueHandler struct {
	service service.Service
}

func NewNotifyOverdueHandler(svc service.Service) *NotifyOverdueHandler {
	return &NotifyOverdueHandler{service: svc}
}

// ProcessTask handles one sweep. The payload is empty; the query itself
// decides who is overdue.
func (h *NotifyOverdueHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	sent, err := h.service.NotifyOverdueBorrowers(ctx)
	if err != nil {
		logger.Error("Overdue reminder sweep failed", err)
		return err
	}

	logger.Info("Overdue reminder sweep finished", map[string]interface{}{
		"sent": sent,
	})
	return nil
}
