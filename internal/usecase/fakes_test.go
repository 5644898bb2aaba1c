package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/events"
	"ride-marketplace/internal/payments"
	"ride-marketplace/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory fakes implementing the repository interfaces, with the same
// semantics the SQL implementations guarantee.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByTelegramID(_ context.Context, telegramID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.TelegramID != nil && *user.TelegramID == telegramID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		rating := existing.Rating
		copied := *user
		copied.Rating = rating
		r.users[user.ID] = &copied
	}
	return nil
}

func (r *fakeUserRepo) setRating(id uuid.UUID, rating float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.Rating = rating
	}
}

type fakeRideRepo struct {
	mu    sync.Mutex
	rides map[uuid.UUID]*entity.Ride
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: make(map[uuid.UUID]*entity.Ride)}
}

func (r *fakeRideRepo) Create(_ context.Context, ride *entity.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *ride
	r.rides[ride.ID] = &copied
	return nil
}

func (r *fakeRideRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[id]
	if !ok {
		return nil, nil
	}
	copied := *ride
	return &copied, nil
}

func (r *fakeRideRepo) Search(_ context.Context, filter repository.RideFilter, limit, offset int) ([]*entity.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Ride
	for _, ride := range r.rides {
		if !ride.IsActive {
			continue
		}
		if filter.Origin != "" && !strings.Contains(strings.ToLower(ride.Origin), strings.ToLower(filter.Origin)) {
			continue
		}
		if filter.Destination != "" && !strings.Contains(strings.ToLower(ride.Destination), strings.ToLower(filter.Destination)) {
			continue
		}
		if filter.MinSeats != nil && ride.AvailableSeats < *filter.MinSeats {
			continue
		}
		if filter.MaxPrice != nil && ride.PricePerSeat > *filter.MaxPrice {
			continue
		}
		copied := *ride
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DepartureTime.Before(matched[j].DepartureTime)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeRideRepo) Update(_ context.Context, ride *entity.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *ride
	r.rides[ride.ID] = &copied
	return nil
}

func (r *fakeRideRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rides, id)
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	rides    *fakeRideRepo
}

func newFakeBookingRepo(rides *fakeRideRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*entity.Booking),
		rides:    rides,
	}
}

func (r *fakeBookingRepo) Reserve(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rides.mu.Lock()
	defer r.rides.mu.Unlock()

	ride, ok := r.rides.rides[booking.RideID]
	if !ok {
		return apperr.NotFound("ride %s not found", booking.RideID)
	}
	if booking.SeatsBooked > ride.AvailableSeats {
		return apperr.Capacity("requested %d seats, only %d available", booking.SeatsBooked, ride.AvailableSeats)
	}

	copied := *booking
	r.bookings[booking.ID] = &copied
	ride.AvailableSeats -= booking.SeatsBooked
	return nil
}

func (r *fakeBookingRepo) CancelWithRestore(_ context.Context, bookingID uuid.UUID) (*entity.Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[bookingID]
	if !ok {
		return nil, false, apperr.NotFound("booking %s not found", bookingID)
	}
	if booking.Status == entity.BookingStatusCancelled {
		copied := *booking
		return &copied, false, nil
	}
	if !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		return nil, false, apperr.Validation("cannot cancel a %s booking", booking.Status)
	}

	booking.Status = entity.BookingStatusCancelled

	r.rides.mu.Lock()
	if ride, ok := r.rides.rides[booking.RideID]; ok {
		ride.AvailableSeats += booking.SeatsBooked
	}
	r.rides.mu.Unlock()

	copied := *booking
	return &copied, true, nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) FindByPassengerID(_ context.Context, passengerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Booking
	for _, booking := range r.bookings {
		if booking.PassengerID == passengerID {
			copied := *booking
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeBookingRepo) CountByPassengerID(_ context.Context, passengerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, booking := range r.bookings {
		if booking.PassengerID == passengerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) CountActiveByRideID(_ context.Context, rideID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, booking := range r.bookings {
		if booking.RideID == rideID && booking.Status != entity.BookingStatusCancelled {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return apperr.NotFound("booking %s not found", bookingID)
	}
	booking.Status = status
	booking.PaymentStatus = paymentStatus
	return nil
}

func (r *fakeBookingRepo) MarkPaid(_ context.Context, bookingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return apperr.NotFound("booking %s not found", bookingID)
	}
	if booking.Status != entity.BookingStatusPending {
		return apperr.Validation("booking %s is not awaiting payment", bookingID)
	}
	booking.Status = entity.BookingStatusConfirmed
	booking.PaymentStatus = entity.PaymentStatusPaid
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*entity.Review
	users   *fakeUserRepo
}

func newFakeReviewRepo(users *fakeUserRepo) *fakeReviewRepo {
	return &fakeReviewRepo{users: users}
}

func (r *fakeReviewRepo) CreateAndRecomputeRating(_ context.Context, review *entity.Review) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *review
	r.reviews = append(r.reviews, &copied)

	var sum float64
	var count int
	for _, stored := range r.reviews {
		if stored.ReviewedID == review.ReviewedID {
			sum += stored.Rating
			count++
		}
	}
	rating := sum / float64(count)
	r.users.setRating(review.ReviewedID, rating)
	return rating, nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.ID == id {
			copied := *review
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) FindByReviewedID(_ context.Context, reviewedID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Review
	for _, review := range r.reviews {
		if review.ReviewedID == reviewedID {
			copied := *review
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeReviewRepo) CountByReviewedID(_ context.Context, reviewedID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, review := range r.reviews {
		if review.ReviewedID == reviewedID {
			count++
		}
	}
	return count, nil
}

// fakeGateway records calls; errors and failures are switchable per test.
type fakeGateway struct {
	address     string
	addressErr  error
	verifyErr   error
	verifyFails bool
	verified    []string
}

func (g *fakeGateway) GetDepositAddress(_ context.Context, _ uuid.UUID) (string, error) {
	if g.addressErr != nil {
		return "", g.addressErr
	}
	if g.address == "" {
		return "EQTestDepositAddress", nil
	}
	return g.address, nil
}

func (g *fakeGateway) VerifyTransaction(_ context.Context, txHash string) (*payments.Verification, error) {
	g.verified = append(g.verified, txHash)
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	if g.verifyFails {
		return &payments.Verification{Status: payments.VerificationFailure}, nil
	}
	return &payments.Verification{Status: payments.VerificationSuccess}, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) byType(eventType events.EventType) []events.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []events.BookingEvent
	for _, event := range p.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

type testEnv struct {
	service   *Service
	users     *fakeUserRepo
	rides     *fakeRideRepo
	bookings  *fakeBookingRepo
	reviews   *fakeReviewRepo
	gateway   *fakeGateway
	publisher *recordingPublisher
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	rides := newFakeRideRepo()
	bookings := newFakeBookingRepo(rides)
	reviews := newFakeReviewRepo(users)

	repo := &repository.Repository{
		User:    users,
		Ride:    rides,
		Booking: bookings,
		Review:  reviews,
	}

	gateway := &fakeGateway{}
	publisher := &recordingPublisher{}

	return &testEnv{
		service:   NewService(repo, gateway, publisher, zap.NewNop()),
		users:     users,
		rides:     rides,
		bookings:  bookings,
		reviews:   reviews,
		gateway:   gateway,
		publisher: publisher,
	}
}

func uuidMustParse(t *testing.T, raw string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(raw)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", raw, err)
	}
	return id
}

func (e *testEnv) addUser(role entity.UserRole) *entity.User {
	id := uuid.New()
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: "user-" + id.String()[:8],
		Email:    "user-" + id.String()[:8] + "@example.com",
		FullName: "Test User",
		Role:     role,
		Rating:   5.0,
	}
	e.users.Create(context.Background(), user)
	return user
}

func (e *testEnv) addRide(driverID uuid.UUID, seats int, price float64) *entity.Ride {
	now := time.Now()
	ride := &entity.Ride{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DriverID:       driverID,
		Origin:         "Almaty",
		Destination:    "Astana",
		DepartureTime:  now.Add(24 * time.Hour),
		AvailableSeats: seats,
		PricePerSeat:   price,
		IsActive:       true,
	}
	e.rides.Create(context.Background(), ride)
	return ride
}
