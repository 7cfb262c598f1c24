package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brickline/storefront/internal/domain/invoice"
	ierr "github.com/brickline/storefront/internal/errors"
)

// InMemoryCounterStore implements invoice.CounterRepository. Allocate holds
// the store mutex for the read-and-increment, mirroring the row lock the
// postgres store relies on.
type InMemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*invoice.Counter

	allocateCalls int
	// conflicts > 0 makes the next Allocate calls fail with a version
	// conflict, for exercising the allocator's retry path
	conflicts int
}

func NewInMemoryCounterStore() *InMemoryCounterStore {
	return &InMemoryCounterStore{
		counters: make(map[string]*invoice.Counter),
	}
}

func counterKey(prefix, suffix string) string {
	return prefix + "|" + suffix
}

func (s *InMemoryCounterStore) Allocate(ctx context.Context, prefix, suffix string) (*invoice.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.allocateCalls++

	if s.conflicts > 0 {
		s.conflicts--
		return nil, ierr.NewError("counter row contended").
			WithHint("Invoice number allocation conflicted, retry").
			Mark(ierr.ErrVersionConflict)
	}

	counter, ok := s.counters[counterKey(prefix, suffix)]
	if !ok {
		return nil, ierr.NewErrorf("no counter for series %s %s", prefix, suffix).
			WithHint("Invoice counter is not configured for the active series").
			Mark(ierr.ErrCounterNotConfigured)
	}

	number := counter.NextNumber
	counter.NextNumber++
	counter.UpdatedAt = time.Now().UTC()

	return &invoice.Allocation{
		Number: number,
		Prefix: prefix,
		Suffix: suffix,
	}, nil
}

func (s *InMemoryCounterStore) Seed(ctx context.Context, counter *invoice.Counter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := counterKey(counter.Prefix, counter.Suffix)
	if _, exists := s.counters[key]; exists {
		return ierr.NewError("counter already exists for series").
			WithHint("A counter is already live for this series").
			Mark(ierr.ErrAlreadyExists)
	}

	cp := *counter
	s.counters[key] = &cp
	return nil
}

func (s *InMemoryCounterStore) GetBySeries(ctx context.Context, prefix, suffix string) (*invoice.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter, ok := s.counters[counterKey(prefix, suffix)]
	if !ok {
		return nil, ierr.NewErrorf("no counter for series %s %s", prefix, suffix).
			WithHint("Counter not found").
			Mark(ierr.ErrNotFound)
	}

	cp := *counter
	return &cp, nil
}

func (s *InMemoryCounterStore) List(ctx context.Context) ([]*invoice.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := make([]*invoice.Counter, 0, len(s.counters))
	for _, counter := range s.counters {
		cp := *counter
		counters = append(counters, &cp)
	}

	sort.Slice(counters, func(i, j int) bool {
		if counters[i].Prefix != counters[j].Prefix {
			return counters[i].Prefix < counters[j].Prefix
		}
		return counters[i].Suffix < counters[j].Suffix
	})

	return counters, nil
}

// InjectConflicts makes the next n Allocate calls fail with a version conflict
func (s *InMemoryCounterStore) InjectConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = n
}

// AllocateCalls returns how many times Allocate has been invoked
func (s *InMemoryCounterStore) AllocateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocateCalls
}

// Clear removes all counters and resets instrumentation
func (s *InMemoryCounterStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]*invoice.Counter)
	s.allocateCalls = 0
	s.conflicts = 0
}
