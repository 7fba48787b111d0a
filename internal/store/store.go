// Package store holds finished case records keyed by case id. The default
// backend is an in-process map; a Postgres backend can be swapped in without
// touching the pipeline or adapter.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mirrorloop/mirrorloop/internal/schema"
)

var ErrNotFound = errors.New("case not found")

// CaseStore is the capability set the API layer needs: put-by-key, get-by-key
// and unique case id generation.
type CaseStore interface {
	Put(ctx context.Context, caseID string, result schema.ApiResult) error
	Get(ctx context.Context, caseID string) (*schema.ApiResult, error)
	NewCaseID() string
}

var lastCaseMillis atomic.Int64

// NewCaseID mints a time-derived case identifier, CASE-<millisecond epoch>.
// Concurrent requests can land in the same millisecond, so minting is
// monotonic within the process: a timestamp already handed out is bumped
// forward rather than reused.
func NewCaseID() string {
	now := time.Now().UnixMilli()
	for {
		last := lastCaseMillis.Load()
		if now <= last {
			now = last + 1
		}
		if lastCaseMillis.CompareAndSwap(last, now) {
			return fmt.Sprintf("CASE-%d", now)
		}
	}
}

// Memory is the process-lifetime store. Records do not survive a restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]schema.ApiResult
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]schema.ApiResult)}
}

func (m *Memory) Put(_ context.Context, caseID string, result schema.ApiResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[caseID] = result
	return nil
}

func (m *Memory) Get(_ context.Context, caseID string) (*schema.ApiResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result, ok := m.data[caseID]
	if !ok {
		return nil, ErrNotFound
	}
	return &result, nil
}

func (m *Memory) NewCaseID() string {
	return NewCaseID()
}
