package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/silkshop/backend/internal/application/seed"
	"github.com/silkshop/backend/internal/domain/shared"
	"github.com/silkshop/backend/internal/infrastructure/cache"
	"github.com/silkshop/backend/internal/infrastructure/fixtures"
	"github.com/silkshop/backend/internal/interfaces/http/dto"
)

const seedLockName = "catalog"

// SeedHandler exposes reconciliation and cleanup as admin endpoints.
// Runs are serialised through a RunLock so concurrent triggers cannot
// double-apply the fixture.
type SeedHandler struct {
	BaseHandler
	reconciler  *seed.Reconciler
	cleaner     *seed.Cleaner
	lock        cache.RunLock
	fixturePath string
	lockTTL     time.Duration
	log         *zap.Logger
}

func NewSeedHandler(reconciler *seed.Reconciler, cleaner *seed.Cleaner, lock cache.RunLock, fixturePath string, lockTTL time.Duration, log *zap.Logger) *SeedHandler {
	return &SeedHandler{
		reconciler:  reconciler,
		cleaner:     cleaner,
		lock:        lock,
		fixturePath: fixturePath,
		lockTTL:     lockTTL,
		log:         log,
	}
}

// RegisterRoutes registers seed routes
func (h *SeedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/seed")
	admin.POST("/run", h.Run)
	admin.POST("/clean", h.Clean)
}

// Run loads the fixture and reconciles the catalog against it.
func (h *SeedHandler) Run(c *gin.Context) {
	ctx := c.Request.Context()

	acquired, err := h.lock.Acquire(ctx, seedLockName, h.lockTTL)
	if err != nil {
		h.log.Error("acquiring run lock failed", zap.Error(err))
		h.InternalError(c, "Could not acquire run lock")
		return
	}
	if !acquired {
		h.Conflict(c, dto.ErrCodeRunLocked, shared.ErrRunLocked.Message)
		return
	}
	defer func() {
		if err := h.lock.Release(ctx, seedLockName); err != nil {
			h.log.Warn("releasing run lock failed", zap.Error(err))
		}
	}()

	spec, err := fixtures.Load(h.fixturePath)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	report, err := h.reconciler.Run(ctx, spec)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Clean tears down all managed catalog entities.
func (h *SeedHandler) Clean(c *gin.Context) {
	ctx := c.Request.Context()

	acquired, err := h.lock.Acquire(ctx, seedLockName, h.lockTTL)
	if err != nil {
		h.log.Error("acquiring run lock failed", zap.Error(err))
		h.InternalError(c, "Could not acquire run lock")
		return
	}
	if !acquired {
		h.Conflict(c, dto.ErrCodeRunLocked, shared.ErrRunLocked.Message)
		return
	}
	defer func() {
		if err := h.lock.Release(ctx, seedLockName); err != nil {
			h.log.Warn("releasing run lock failed", zap.Error(err))
		}
	}()

	report, err := h.cleaner.Run(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
