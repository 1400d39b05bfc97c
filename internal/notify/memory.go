package notify

import (
	"context"
	"sync"
)

// MemoryNotifier records notices instead of sending them. Used in tests and
// when no mail API is configured.
type MemoryNotifier struct {
	mu        sync.Mutex
	CaseReady []CaseNotice
	Decisions []DecisionNotice
	Err       error // returned from every send when set
}

// NewMemoryNotifier creates an empty recording notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) SendCaseReady(_ context.Context, notice CaseNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.CaseReady = append(n.CaseReady, notice)
	return nil
}

func (n *MemoryNotifier) SendDecision(_ context.Context, notice DecisionNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Decisions = append(n.Decisions, notice)
	return nil
}

var _ Notifier = (*MemoryNotifier)(nil)
