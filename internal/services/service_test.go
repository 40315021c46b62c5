package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	badgerdb "github.com/ArowuTest/lottery-rounds/internal/repositories/badger"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	admin  = models.Address("0xad")
	alice  = models.Address("0xa1")
	bob    = models.Address("0xb0")
	feeTo  = models.Address("0xfe")
	oracle = models.Address("0x0rac1e")
)

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type oracleMock struct {
	mock.Mock
}

func (m *oracleMock) RequestRandomness(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *oracleMock) Address() models.Address {
	return oracle
}

type transportMock struct {
	mock.Mock
}

func (m *transportMock) Transfer(ctx context.Context, to models.Address, amount uint64) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

type publisherMock struct {
	mu     sync.Mutex
	events []*models.Event
}

func (p *publisherMock) Publish(event *models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *publisherMock) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]models.EventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

var errDiskFull = errors.New("disk full")

// faults selects repository writes that fail with errDiskFull
type faults struct {
	roundCreate    bool
	roundUpdate    bool
	requestCreate  bool
	settingsUpdate bool
}

type faultyStore struct {
	repositories.Store
	faults *faults
}

func (s faultyStore) Rounds() repositories.RoundRepository {
	return faultyRounds{RoundRepository: s.Store.Rounds(), faults: s.faults}
}

func (s faultyStore) DrawRequests() repositories.DrawRequestRepository {
	return faultyRequests{DrawRequestRepository: s.Store.DrawRequests(), faults: s.faults}
}

func (s faultyStore) Settings() repositories.SystemSettingsRepository {
	return faultySettings{SystemSettingsRepository: s.Store.Settings(), faults: s.faults}
}

type faultyRounds struct {
	repositories.RoundRepository
	faults *faults
}

func (r faultyRounds) Create(ctx context.Context, round *models.Round) error {
	if r.faults.roundCreate {
		return errDiskFull
	}
	return r.RoundRepository.Create(ctx, round)
}

func (r faultyRounds) Update(ctx context.Context, round *models.Round) error {
	if r.faults.roundUpdate {
		return errDiskFull
	}
	return r.RoundRepository.Update(ctx, round)
}

type faultyRequests struct {
	repositories.DrawRequestRepository
	faults *faults
}

func (r faultyRequests) Create(ctx context.Context, req *models.DrawRequest) error {
	if r.faults.requestCreate {
		return errDiskFull
	}
	return r.DrawRequestRepository.Create(ctx, req)
}

type faultySettings struct {
	repositories.SystemSettingsRepository
	faults *faults
}

func (r faultySettings) UpdateSettings(ctx context.Context, settings *models.SystemSettings) error {
	if r.faults.settingsUpdate {
		return errDiskFull
	}
	return r.SystemSettingsRepository.UpdateSettings(ctx, settings)
}

type fixture struct {
	svc       services.LotteryService
	clock     *manualClock
	oracle    *oracleMock
	transport *transportMock
	publisher *publisherMock
	faults    *faults
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := badgerdb.NewStore("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		clock:     &manualClock{now: start},
		oracle:    &oracleMock{},
		transport: &transportMock{},
		publisher: &publisherMock{},
		faults:    &faults{},
	}
	f.svc = services.NewLotteryService(services.Dependencies{
		Store:     faultyStore{Store: store, faults: f.faults},
		Access:    services.NewAdminList([]string{string(admin)}),
		Oracle:    f.oracle,
		Transport: f.transport,
		Publisher: f.publisher,
		Clock:     f.clock,
	})
	return f
}

// openRound creates a round with the given parameters and a 100s window
func (f *fixture) openRound(t *testing.T, feePercent, maxEntries, entryPrice uint64) uint64 {
	t.Helper()
	id, err := f.svc.CreateRound(context.Background(), admin, 100*time.Second, feePercent, maxEntries, entryPrice)
	require.NoError(t, err)
	return id
}

func (f *fixture) buy(t *testing.T, who models.Address, roundID, count uint64) {
	t.Helper()
	round, err := f.svc.GetRound(context.Background(), roundID)
	require.NoError(t, err)
	require.NoError(t, f.svc.PurchaseEntries(context.Background(), who, roundID, count, count*round.EntryPrice))
}

// draw closes the round, triggers a draw and fulfils it with value
func (f *fixture) draw(t *testing.T, roundID uint64, requestID string, value uint64) {
	t.Helper()
	ctx := context.Background()
	f.clock.Advance(101 * time.Second)
	f.oracle.On("RequestRandomness", mock.Anything).Return(requestID, nil).Once()

	got, err := f.svc.TriggerDraw(ctx, roundID)
	require.NoError(t, err)
	require.Equal(t, requestID, got)
	require.NoError(t, f.svc.FulfillRandomness(ctx, oracle, requestID, value))
}
