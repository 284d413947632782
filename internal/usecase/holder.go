package usecase

import (
	"sync"

	"SmartScan/internal/domain/models"
)

// ResultHolder keeps the most recent scan result in memory for the read
// API. Results are never persisted; a restart starts empty.
type ResultHolder struct {
	mu  sync.RWMutex
	res *models.RankedResult
}

// NewResultHolder creates an empty holder.
func NewResultHolder() *ResultHolder {
	return &ResultHolder{}
}

// Set replaces the held result.
func (h *ResultHolder) Set(res *models.RankedResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.res = res
}

// Latest returns the held result, or nil when no scan has completed yet.
func (h *ResultHolder) Latest() *models.RankedResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.res
}
