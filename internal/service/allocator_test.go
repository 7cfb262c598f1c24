package service

import (
	"sync"
	"testing"
	"time"

	"github.com/brickline/storefront/internal/domain/invoice"
	ierr "github.com/brickline/storefront/internal/errors"
	"github.com/brickline/storefront/internal/testutil"
	"github.com/brickline/storefront/internal/types"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type NumberAllocatorSuite struct {
	testutil.BaseServiceTestSuite
	allocator NumberAllocator
}

func TestNumberAllocator(t *testing.T) {
	suite.Run(t, new(NumberAllocatorSuite))
}

func (s *NumberAllocatorSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.allocator = NewNumberAllocator(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		InvoiceRepo: stores.InvoiceRepo,
		CounterRepo: stores.CounterRepo,
		OrderRepo:   stores.OrderRepo,
		ClientRepo:  stores.ClientRepo,
	})
}

func (s *NumberAllocatorSuite) seedCounter(next int64) {
	series := s.GetConfig().Billing.Series
	now := time.Now().UTC()
	s.NoError(s.GetStores().CounterRepo.Seed(s.GetContext(), &invoice.Counter{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUNTER),
		Prefix:     series.Prefix,
		Suffix:     series.Suffix,
		NextNumber: next,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
}

func (s *NumberAllocatorSuite) TestAllocateIsStrictlyIncreasing() {
	s.seedCounter(1)

	var last int64
	for i := 0; i < 100; i++ {
		alloc, err := s.allocator.Allocate(s.GetContext())
		s.NoError(err)
		s.Equal(last+1, alloc.Number)
		s.Equal("W-", alloc.Prefix)
		s.Equal("-25", alloc.Suffix)
		last = alloc.Number
	}

	counter, err := s.GetStores().CounterRepo.GetBySeries(s.GetContext(), "W-", "-25")
	s.NoError(err)
	s.Equal(int64(101), counter.NextNumber)
}

func (s *NumberAllocatorSuite) TestAllocateConcurrentCallersGetDistinctNumbers() {
	s.seedCounter(1)

	const callers = 50
	var mu sync.Mutex
	numbers := make(map[int64]struct{}, callers)

	var wg conc.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Go(func() {
			alloc, err := s.allocator.Allocate(s.GetContext())
			s.NoError(err)

			mu.Lock()
			defer mu.Unlock()
			numbers[alloc.Number] = struct{}{}
		})
	}
	wg.Wait()

	s.Len(numbers, callers)

	counter, err := s.GetStores().CounterRepo.GetBySeries(s.GetContext(), "W-", "-25")
	s.NoError(err)
	s.Equal(int64(callers+1), counter.NextNumber)
}

func (s *NumberAllocatorSuite) TestAllocateRetriesOnConflict() {
	s.seedCounter(1)
	s.GetStores().CounterStore.InjectConflicts(2)

	alloc, err := s.allocator.Allocate(s.GetContext())
	s.NoError(err)
	s.Equal(int64(1), alloc.Number)
	s.Equal(3, s.GetStores().CounterStore.AllocateCalls())
}

func (s *NumberAllocatorSuite) TestAllocateGivesUpAfterRetriesExhausted() {
	s.seedCounter(1)
	s.GetStores().CounterStore.InjectConflicts(10)

	alloc, err := s.allocator.Allocate(s.GetContext())
	s.Error(err)
	s.Nil(alloc)
	s.True(ierr.IsDatabase(err))

	// initial attempt plus the configured retries
	retries := int(s.GetConfig().Billing.AllocatorMaxRetries)
	s.Equal(retries+1, s.GetStores().CounterStore.AllocateCalls())
}

func (s *NumberAllocatorSuite) TestAllocateMissingCounterDoesNotRetry() {
	alloc, err := s.allocator.Allocate(s.GetContext())
	s.Error(err)
	s.Nil(alloc)
	s.True(ierr.IsCounterNotConfigured(err))
	s.Equal(1, s.GetStores().CounterStore.AllocateCalls())
}
