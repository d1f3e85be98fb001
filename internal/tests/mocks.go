package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"tripshare/internal/domain"
	"tripshare/internal/events"
	"tripshare/internal/redis"
	"tripshare/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0)
	for _, v := range m.vehicles {
		if v.DriverID == driverID {
			copy := *v
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK JOURNEY REPOSITORY
// ──────────────────────────────────────────────

// MockJourneyRepository is a mock implementation of JourneyRepository.
type MockJourneyRepository struct {
	mu       sync.RWMutex
	journeys map[string]*domain.Journey

	// Counters for verification
	GetForUpdateCallCount int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockJourneyRepository creates a new mock journey repository.
func NewMockJourneyRepository() *MockJourneyRepository {
	return &MockJourneyRepository{
		journeys: make(map[string]*domain.Journey),
	}
}

// AddJourney adds a journey to the mock repository.
func (m *MockJourneyRepository) AddJourney(journey *domain.Journey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journeys[journey.ID] = journey
}

func (m *MockJourneyRepository) Create(ctx context.Context, journey *domain.Journey) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journeys[journey.ID] = journey
	return nil
}

func (m *MockJourneyRepository) GetByID(ctx context.Context, id string) (*domain.Journey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	journey, ok := m.journeys[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *journey
	return &copy, nil
}

func (m *MockJourneyRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Journey, error) {
	atomic.AddInt32(&m.GetForUpdateCallCount, 1)
	return m.GetByID(ctx, id)
}

func (m *MockJourneyRepository) GetAll(ctx context.Context) ([]*domain.Journey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Journey, 0, len(m.journeys))
	for _, j := range m.journeys {
		copy := *j
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockJourneyRepository) UpdateStatus(ctx context.Context, id string, status domain.JourneyStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	journey, ok := m.journeys[id]
	if !ok {
		return repository.ErrNotFound
	}
	journey.Status = status
	return nil
}

// GetJourney returns the stored journey for test assertions.
func (m *MockJourneyRepository) GetJourney(id string) *domain.Journey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.journeys[id]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
// ListByRiderAndJourneyStatus consults the linked journey repository when
// set; without it the method returns nothing.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Journeys backs the rider-listing join.
	Journeys *MockJourneyRepository

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
	SumError          error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetActiveByRiderAndJourney(ctx context.Context, riderID, journeyID string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.RiderID == riderID && b.JourneyID == journeyID && b.IsActive() {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) GetActiveByRiderAndDeparture(ctx context.Context, riderID string, departure time.Time) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.RiderID == riderID && b.IsActive() && b.Journey.DepartureTime.Equal(departure) {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) SumPendingSeats(ctx context.Context, journeyID string) (int, error) {
	if m.SumError != nil {
		return 0, m.SumError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, b := range m.bookings {
		if b.JourneyID == journeyID && b.Status == domain.BookingStatusPending {
			total += b.SeatCount
		}
	}
	return total, nil
}

func (m *MockBookingRepository) GetPendingByRider(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.RiderID == riderID && b.Status == domain.BookingStatusPending {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) GetPendingByJourney(ctx context.Context, journeyID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.JourneyID == journeyID && b.Status == domain.BookingStatusPending {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) ListByRiderAndJourneyStatus(ctx context.Context, riderID string, status domain.JourneyStatus) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	if m.Journeys == nil {
		return result, nil
	}
	for _, b := range m.bookings {
		if b.RiderID != riderID {
			continue
		}
		journey := m.Journeys.GetJourney(b.JourneyID)
		if journey == nil || journey.Status != status {
			continue
		}
		copy := *b
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Journey.DepartureTime.Before(result[j].Journey.DepartureTime)
	})
	return result, nil
}

func (m *MockBookingRepository) ExistsByRiderAndJourney(ctx context.Context, riderID, journeyID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.RiderID == riderID && b.JourneyID == journeyID && b.Status != domain.BookingStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Status = status
	return nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// AllBookings returns every stored booking for test assertions.
func (m *MockBookingRepository) AllBookings() []*domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.JourneyRequest

	// Counters for verification
	GetForUpdateCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.JourneyRequest),
	}
}

// AddRequest adds a journey request to the mock repository.
func (m *MockRequestRepository) AddRequest(request *domain.JourneyRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = request
}

func (m *MockRequestRepository) Create(ctx context.Context, request *domain.JourneyRequest) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = request
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.JourneyRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	request, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *request
	return &copy, nil
}

func (m *MockRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.JourneyRequest, error) {
	atomic.AddInt32(&m.GetForUpdateCallCount, 1)
	return m.GetByID(ctx, id)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	request.Status = status
	return nil
}

// GetRequest returns the stored request for test assertions.
func (m *MockRequestRepository) GetRequest(id string) *domain.JourneyRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

// ──────────────────────────────────────────────
// MOCK PROPOSAL REPOSITORY
// ──────────────────────────────────────────────

// MockProposalRepository is a mock implementation of ProposalRepository.
type MockProposalRepository struct {
	mu        sync.RWMutex
	proposals map[string]*domain.Proposal

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockProposalRepository creates a new mock proposal repository.
func NewMockProposalRepository() *MockProposalRepository {
	return &MockProposalRepository{
		proposals: make(map[string]*domain.Proposal),
	}
}

// AddProposal adds a proposal to the mock repository.
func (m *MockProposalRepository) AddProposal(proposal *domain.Proposal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[proposal.ID] = proposal
}

func (m *MockProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[proposal.ID] = proposal
	return nil
}

func (m *MockProposalRepository) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	proposal, ok := m.proposals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *proposal
	return &copy, nil
}

func (m *MockProposalRepository) ListByRequest(ctx context.Context, requestID string) ([]*domain.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Proposal, 0)
	for _, p := range m.proposals {
		if p.RequestID == requestID {
			copy := *p
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockProposalRepository) HasSentByDriver(ctx context.Context, requestID, driverID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.proposals {
		if p.RequestID == requestID && p.DriverID == driverID && p.Status == domain.ProposalStatusSent {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockProposalRepository) UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	proposal, ok := m.proposals[id]
	if !ok {
		return repository.ErrNotFound
	}
	proposal.Status = status
	return nil
}

// CountByRequest returns how many proposals target the request.
func (m *MockProposalRepository) CountByRequest(requestID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, p := range m.proposals {
		if p.RequestID == requestID {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK TX MANAGER
// ──────────────────────────────────────────────

// MockTxManager runs transaction bodies against the shared mocks under a
// single mutex, which gives the same serialization a row lock gives the real
// TxManager: concurrent transactions on the same data run one at a time and
// each sees the writes of those that committed before it.
//
// Rollback is not emulated: a body that fails between two writes leaves the
// earlier write in place. Tests that inject mid-transaction write failures
// must assert on the surfaced error, not on storage state.
type MockTxManager struct {
	mu    sync.Mutex
	repos *repository.Repos

	// Error injection: returned before the body runs.
	BeginError error
}

// NewMockTxManager creates a mock transaction manager over the given repos.
func NewMockTxManager(repos *repository.Repos) *MockTxManager {
	return &MockTxManager{repos: repos}
}

func (m *MockTxManager) InTx(ctx context.Context, fn func(r *repository.Repos) error) error {
	if m.BeginError != nil {
		return m.BeginError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.repos)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface with
// SetNX semantics.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// HoldAll makes every acquisition attempt fail, simulating a lock held
	// elsewhere for longer than the retry window.
	HoldAll bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireJourneyLock(ctx context.Context, journeyID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HoldAll || m.locks[journeyID] {
		return false, nil
	}
	m.locks[journeyID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseJourneyLock(ctx context.Context, journeyID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, journeyID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is an in-memory implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu       sync.RWMutex
	journeys map[string]*redis.CachedJourney

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		journeys: make(map[string]*redis.CachedJourney),
	}
}

func (m *MockCacheStore) GetJourney(ctx context.Context, journeyID string) (*redis.CachedJourney, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	cached, ok := m.journeys[journeyID]
	if !ok {
		return nil, nil
	}
	copy := *cached
	return &copy, nil
}

func (m *MockCacheStore) SetJourney(ctx context.Context, journey *redis.CachedJourney) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journeys[journey.ID] = journey
	return nil
}

func (m *MockCacheStore) InvalidateJourney(ctx context.Context, journeyID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.journeys, journeyID)
	return nil
}

// Cached returns the cached journey for test assertions.
func (m *MockCacheStore) Cached(journeyID string) *redis.CachedJourney {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.journeys[journeyID]
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records emitted events for test assertions.
type MockNotifier struct {
	mu     sync.Mutex
	events []events.Event
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Emit(ctx context.Context, event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns all recorded events.
func (m *MockNotifier) Events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]events.Event, len(m.events))
	copy(result, m.events)
	return result
}

// EventsOfType returns recorded events of the given type.
func (m *MockNotifier) EventsOfType(t events.Type) []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]events.Event, 0)
	for _, e := range m.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}
