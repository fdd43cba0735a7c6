package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Document number prefixes
const (
	PrefixSalesOrder = "SO"
	PrefixChallan    = "DC"
	PrefixInvoice    = "INV"
	PrefixReturn     = "RN"
)

// DocumentNumbers lists existing document numbers matching a prefix string.
// Each document repository implements this over its own number column.
type DocumentNumbers interface {
	ListNosByPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Numbering generates monotonically increasing, period-scoped document
// numbers of the form "PFX-YYYYMM-0001". The scan-then-insert window is a
// race under concurrent creation, so Next holds a per-(prefix,period)
// mutex which the caller releases only after its transaction finishes.
type Numbering struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	now   func() time.Time
}

func NewNumbering() *Numbering {
	return &Numbering{
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}
}

func (n *Numbering) keyLock(key string) *sync.Mutex {
	n.mu.Lock()
	defer n.mu.Unlock()
	if l, ok := n.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	n.locks[key] = l
	return l
}

// Next returns the next number for the prefix in the current period and a
// release func. The caller must invoke release after the row carrying the
// number has been committed (or the operation aborted).
func (n *Numbering) Next(ctx context.Context, prefix string, src DocumentNumbers) (string, func(), error) {
	period := n.now().Format("200601")
	full := prefix + "-" + period + "-"

	lock := n.keyLock(full)
	lock.Lock()
	release := func() { lock.Unlock() }

	existing, err := src.ListNosByPrefix(ctx, full)
	if err != nil {
		release()
		return "", nil, fmt.Errorf("failed to scan %s numbers: %w", prefix, err)
	}

	max := 0
	for _, no := range existing {
		suffix := strings.TrimPrefix(no, full)
		if suffix == no {
			continue
		}
		seq, parseErr := strconv.Atoi(suffix)
		if parseErr != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}

	return fmt.Sprintf("%s%04d", full, max+1), release, nil
}
