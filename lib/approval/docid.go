package approvalhandler

import (
	"fmt"
	"sync"
	"time"
)

// docIDGenerator формирует номера вида AP-<год>-<6 младших цифр миллисекунд>,
// в пределах процесса номера строго возрастают
type docIDGenerator struct {
	mu     sync.Mutex
	now    func() time.Time
	lastMs int64
}

func newDocIDGenerator(now func() time.Time) *docIDGenerator {
	return &docIDGenerator{now: now}
}

func (g *docIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	ms := now.UnixMilli()
	if ms <= g.lastMs {
		ms = g.lastMs + 1
	}
	g.lastMs = ms
	return fmt.Sprintf("AP-%d-%06d", now.Year(), ms%1_000_000)
}
