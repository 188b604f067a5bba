package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kazmirchuk/workshophub/internal/app/models"
	"github.com/kazmirchuk/workshophub/internal/pkg/apperrors"
)

// fakeUserLookup serves users from a map
type fakeUserLookup struct {
	users   map[int64]*models.User
	listErr error
}

func (f *fakeUserLookup) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserLookup) GetUsersByIDs(_ context.Context, ids []int64) (map[int64]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make(map[int64]*models.User)
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			result[id] = user
		}
	}
	return result, nil
}

type fakeWorkshopLookup struct {
	workshops map[int64]*models.Workshop
}

func (f *fakeWorkshopLookup) GetWorkshopByID(_ context.Context, id int64) (*models.Workshop, error) {
	workshop, ok := f.workshops[id]
	if !ok {
		return nil, apperrors.ErrWorkshopNotFound
	}
	return workshop, nil
}

// fakeLedger backs both the group lookup and the enrollment store so seat
// accounting and duplicate detection behave like the real transactional store.
type fakeLedger struct {
	mu          sync.Mutex
	nextID      int64
	groups      map[int64]*models.Group
	enrollments map[int64]*models.Enrollment
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		groups:      make(map[int64]*models.Group),
		enrollments: make(map[int64]*models.Enrollment),
	}
}

func (f *fakeLedger) GetGroupByID(_ context.Context, id int64) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	copied := *group
	return &copied, nil
}

func (f *fakeLedger) CreateEnrollment(_ context.Context, e *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.enrollments {
		if existing.UserID == e.UserID && existing.WorkshopID == e.WorkshopID &&
			existing.Status != models.EnrollmentCancelled {
			return apperrors.ErrDuplicateEnrollment
		}
	}

	if e.GroupID != nil {
		group, ok := f.groups[*e.GroupID]
		if !ok {
			return apperrors.ErrGroupNotFound
		}
		if group.SeatsLeft <= 0 {
			return apperrors.ErrGroupFull
		}
		group.SeatsLeft--
	}

	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now()
	copied := *e
	f.enrollments[e.ID] = &copied
	return nil
}

func (f *fakeLedger) CancelEnrollment(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.enrollments[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	if e.Status == models.EnrollmentCancelled {
		return apperrors.NewCustomError(apperrors.ErrInvalidStateTransition, "already cancelled")
	}
	e.Status = models.EnrollmentCancelled

	if e.GroupID != nil {
		if group, ok := f.groups[*e.GroupID]; ok && group.SeatsLeft < group.Capacity {
			group.SeatsLeft++
		}
	}
	return nil
}

func (f *fakeLedger) ConfirmEnrollment(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.enrollments[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	if e.Status != models.EnrollmentPending {
		return apperrors.NewCustomError(apperrors.ErrInvalidStateTransition,
			"cannot confirm enrollment in status "+string(e.Status))
	}
	e.Status = models.EnrollmentConfirmed
	return nil
}

func (f *fakeLedger) GetEnrollmentByID(_ context.Context, id int64) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeLedger) HasActiveEnrollment(_ context.Context, userID, workshopID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.UserID == userID && e.WorkshopID == workshopID && e.Status != models.EnrollmentCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) GetEnrollmentsByUserID(_ context.Context, userID int64) ([]*models.Enrollment, error) {
	return f.filter(func(e *models.Enrollment) bool { return e.UserID == userID })
}

func (f *fakeLedger) GetEnrollmentsByWorkshopID(_ context.Context, workshopID int64) ([]*models.Enrollment, error) {
	return f.filter(func(e *models.Enrollment) bool { return e.WorkshopID == workshopID })
}

func (f *fakeLedger) GetEnrollmentsByGroupID(_ context.Context, groupID int64) ([]*models.Enrollment, error) {
	return f.filter(func(e *models.Enrollment) bool { return e.GroupID != nil && *e.GroupID == groupID })
}

func (f *fakeLedger) filter(keep func(*models.Enrollment) bool) ([]*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Enrollment
	for _, e := range f.enrollments {
		if keep(e) {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeLedger) seatsLeft(groupID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups[groupID].SeatsLeft
}

// recordingSink captures dispatched events
type recordingSink struct {
	mu        sync.Mutex
	enrolled  []EnrollmentEvent
	cancelled []EnrollmentEvent
}

func (r *recordingSink) NotifyEnrolled(event EnrollmentEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enrolled = append(r.enrolled, event)
}

func (r *recordingSink) NotifyCancelled(event EnrollmentEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, event)
}

type fixture struct {
	users   *fakeUserLookup
	shops   *fakeWorkshopLookup
	ledger  *fakeLedger
	sink    *recordingSink
	service EnrollmentService
}

func newFixture() *fixture {
	price := 25.0
	users := &fakeUserLookup{users: map[int64]*models.User{
		1: {ID: 1, Email: "ann@example.com", FullName: "Ann Little", RoleType: models.RoleUser, IsActive: true},
		2: {ID: 2, Email: "bob@example.com", FullName: "Bob Stone", RoleType: models.RoleUser, IsActive: true},
		3: {ID: 3, Email: "carol@example.com", FullName: "Carol Reyes", RoleType: models.RoleUser, IsActive: false},
	}}
	shops := &fakeWorkshopLookup{workshops: map[int64]*models.Workshop{
		10: {ID: 10, Name: "Free pottery", Status: models.WorkshopPublished},
		11: {ID: 11, Name: "Paid woodwork", Status: models.WorkshopPublished, Price: &price},
	}}
	ledger := newFakeLedger()
	ledger.groups[100] = &models.Group{ID: 100, WorkshopID: 10, Title: "Morning", Capacity: 3, SeatsLeft: 3, Active: true}
	ledger.groups[101] = &models.Group{ID: 101, WorkshopID: 11, Title: "Evening", Capacity: 1, SeatsLeft: 1, Active: true}
	ledger.groups[102] = &models.Group{ID: 102, WorkshopID: 10, Title: "Closed", Capacity: 5, SeatsLeft: 5, Active: false}

	sink := &recordingSink{}
	service := NewEnrollmentService(users, shops, ledger, ledger, sink, zerolog.Nop())

	return &fixture{users: users, shops: shops, ledger: ledger, sink: sink, service: service}
}

func TestEnrollFreeWorkshopConfirmsImmediately(t *testing.T) {
	fx := newFixture()

	enrollment, err := fx.service.Enroll(context.Background(), 10, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enrollment.Status != models.EnrollmentConfirmed {
		t.Errorf("status = %s, want CONFIRMED", enrollment.Status)
	}
	if len(fx.sink.enrolled) != 1 {
		t.Fatalf("expected 1 enrolled event, got %d", len(fx.sink.enrolled))
	}
	if fx.sink.enrolled[0].Status != models.EnrollmentConfirmed {
		t.Errorf("event status = %s, want CONFIRMED", fx.sink.enrolled[0].Status)
	}
}

func TestEnrollPaidWorkshopStaysPending(t *testing.T) {
	fx := newFixture()

	enrollment, err := fx.service.Enroll(context.Background(), 11, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enrollment.Status != models.EnrollmentPending {
		t.Errorf("status = %s, want PENDING", enrollment.Status)
	}
}

func TestEnrollIntoGroupReservesSeat(t *testing.T) {
	fx := newFixture()
	groupID := int64(100)

	enrollment, err := fx.service.Enroll(context.Background(), 10, 1, &groupID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enrollment.GroupID == nil || *enrollment.GroupID != groupID {
		t.Fatalf("enrollment not bound to group")
	}
	if left := fx.ledger.seatsLeft(groupID); left != 2 {
		t.Errorf("seats left = %d, want 2", left)
	}
}

func TestEnrollRejectsInactiveUser(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.Enroll(context.Background(), 10, 3, nil)
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(fx.sink.enrolled) != 0 {
		t.Errorf("no event expected for rejected enrollment")
	}
}

func TestEnrollRejectsUnknownWorkshop(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.Enroll(context.Background(), 999, 1, nil)
	if !errors.Is(err, apperrors.ErrWorkshopNotFound) {
		t.Fatalf("expected ErrWorkshopNotFound, got %v", err)
	}
}

func TestEnrollRejectsGroupOfAnotherWorkshop(t *testing.T) {
	fx := newFixture()
	groupID := int64(101) // belongs to workshop 11

	_, err := fx.service.Enroll(context.Background(), 10, 1, &groupID)
	if !errors.Is(err, apperrors.ErrGroupWorkshopMismatch) {
		t.Fatalf("expected ErrGroupWorkshopMismatch, got %v", err)
	}
	if left := fx.ledger.seatsLeft(groupID); left != 1 {
		t.Errorf("seat was consumed by a rejected enrollment")
	}
	if has, _ := fx.ledger.HasActiveEnrollment(context.Background(), 1, 10); has {
		t.Errorf("rejected enrollment left a row behind")
	}
}

func TestEnrollRejectsInactiveGroup(t *testing.T) {
	fx := newFixture()
	groupID := int64(102)

	_, err := fx.service.Enroll(context.Background(), 10, 1, &groupID)
	if !errors.Is(err, apperrors.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	fx := newFixture()

	if _, err := fx.service.Enroll(context.Background(), 10, 1, nil); err != nil {
		t.Fatalf("first enrollment failed: %v", err)
	}

	_, err := fx.service.Enroll(context.Background(), 10, 1, nil)
	if !errors.Is(err, apperrors.ErrDuplicateEnrollment) {
		t.Fatalf("expected ErrDuplicateEnrollment, got %v", err)
	}
}

func TestEnrollAgainAfterCancel(t *testing.T) {
	fx := newFixture()

	first, err := fx.service.Enroll(context.Background(), 10, 1, nil)
	if err != nil {
		t.Fatalf("first enrollment failed: %v", err)
	}
	if err := fx.service.Cancel(context.Background(), first.ID, 1, false); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := fx.service.Enroll(context.Background(), 10, 1, nil); err != nil {
		t.Fatalf("re-enrollment after cancel failed: %v", err)
	}
}

func TestConcurrentEnrollmentsRespectCapacity(t *testing.T) {
	fx := newFixture()
	groupID := int64(100) // capacity 3

	const rivals = 8
	for i := int64(0); i < rivals; i++ {
		id := 50 + i
		fx.users.users[id] = &models.User{
			ID: id, Email: fmt.Sprintf("user%d@example.com", id),
			FullName: fmt.Sprintf("User %d", id), RoleType: models.RoleUser, IsActive: true,
		}
	}

	var g errgroup.Group
	var mu sync.Mutex
	var wins, fulls int

	for i := int64(0); i < rivals; i++ {
		userID := 50 + i
		g.Go(func() error {
			_, err := fx.service.Enroll(context.Background(), 10, userID, &groupID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, apperrors.ErrGroupFull):
				fulls++
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected enrollment error: %v", err)
	}

	if wins != 3 {
		t.Errorf("winners = %d, want 3", wins)
	}
	if fulls != rivals-3 {
		t.Errorf("group-full rejections = %d, want %d", fulls, rivals-3)
	}
	if left := fx.ledger.seatsLeft(groupID); left != 0 {
		t.Errorf("seats left = %d, want 0", left)
	}
}

func TestConcurrentDoubleSubmitCreatesOneEnrollment(t *testing.T) {
	fx := newFixture()

	// The advisory pre-check may pass for every rival; only the store's
	// atomic duplicate guard decides.
	var g errgroup.Group
	var mu sync.Mutex
	var wins, duplicates int

	for i := 0; i < 6; i++ {
		g.Go(func() error {
			_, err := fx.service.Enroll(context.Background(), 10, 1, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, apperrors.ErrDuplicateEnrollment):
				duplicates++
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected enrollment error: %v", err)
	}

	if wins != 1 {
		t.Errorf("winners = %d, want 1", wins)
	}
	if duplicates != 5 {
		t.Errorf("duplicate rejections = %d, want 5", duplicates)
	}
}

func TestCancelReleasesSeatForRival(t *testing.T) {
	fx := newFixture()
	groupID := int64(101) // capacity 1

	winner, err := fx.service.Enroll(context.Background(), 11, 1, &groupID)
	if err != nil {
		t.Fatalf("first enrollment failed: %v", err)
	}

	if _, err := fx.service.Enroll(context.Background(), 11, 2, &groupID); !errors.Is(err, apperrors.ErrGroupFull) {
		t.Fatalf("expected ErrGroupFull for rival, got %v", err)
	}

	if err := fx.service.Cancel(context.Background(), winner.ID, 1, false); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if left := fx.ledger.seatsLeft(groupID); left != 1 {
		t.Fatalf("seat not released, seats left = %d", left)
	}

	if _, err := fx.service.Enroll(context.Background(), 11, 2, &groupID); err != nil {
		t.Fatalf("rival retry after release failed: %v", err)
	}
	if left := fx.ledger.seatsLeft(groupID); left != 0 {
		t.Errorf("seats left = %d, want 0", left)
	}
}

func TestCancelForbiddenForOtherUser(t *testing.T) {
	fx := newFixture()

	enrollment, err := fx.service.Enroll(context.Background(), 10, 1, nil)
	if err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	err = fx.service.Cancel(context.Background(), enrollment.ID, 2, false)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	got, _ := fx.ledger.GetEnrollmentByID(context.Background(), enrollment.ID)
	if got.Status == models.EnrollmentCancelled {
		t.Errorf("enrollment was cancelled by a foreign actor")
	}
}

func TestCancelAllowedForPrivilegedActor(t *testing.T) {
	fx := newFixture()

	enrollment, err := fx.service.Enroll(context.Background(), 10, 1, nil)
	if err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	if err := fx.service.Cancel(context.Background(), enrollment.ID, 2, true); err != nil {
		t.Fatalf("privileged cancel failed: %v", err)
	}
	if len(fx.sink.cancelled) != 1 {
		t.Errorf("expected 1 cancelled event, got %d", len(fx.sink.cancelled))
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	fx := newFixture()

	enrollment, err := fx.service.Enroll(context.Background(), 10, 1, nil)
	if err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}
	if err := fx.service.Cancel(context.Background(), enrollment.ID, 1, false); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	err = fx.service.Cancel(context.Background(), enrollment.ID, 1, false)
	if !errors.Is(err, apperrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestCancelUnknownEnrollment(t *testing.T) {
	fx := newFixture()

	err := fx.service.Cancel(context.Background(), 404, 1, false)
	if !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestConfirmPendingEnrollment(t *testing.T) {
	fx := newFixture()

	enrollment, err := fx.service.Enroll(context.Background(), 11, 1, nil)
	if err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}
	if enrollment.Status != models.EnrollmentPending {
		t.Fatalf("precondition: status = %s, want PENDING", enrollment.Status)
	}

	if err := fx.service.Confirm(context.Background(), enrollment.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	got, _ := fx.ledger.GetEnrollmentByID(context.Background(), enrollment.ID)
	if got.Status != models.EnrollmentConfirmed {
		t.Errorf("status = %s, want CONFIRMED", got.Status)
	}
}

func TestConfirmRejectsNonPending(t *testing.T) {
	fx := newFixture()

	enrollment, err := fx.service.Enroll(context.Background(), 10, 1, nil) // free, confirms immediately
	if err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	err = fx.service.Confirm(context.Background(), enrollment.ID)
	if !errors.Is(err, apperrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestGetByWorkshopEnrichesParticipants(t *testing.T) {
	fx := newFixture()

	if _, err := fx.service.Enroll(context.Background(), 10, 1, nil); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}
	if _, err := fx.service.Enroll(context.Background(), 10, 2, nil); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	listing, err := fx.service.GetByWorkshop(context.Background(), 10)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(listing.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(listing.Participants))
	}
	for _, p := range listing.Participants {
		if p.UserEmail == "" {
			t.Errorf("participant %d missing email", p.UserID)
		}
	}
}

func TestGetByWorkshopDegradesOnUserLookupFailure(t *testing.T) {
	fx := newFixture()

	if _, err := fx.service.Enroll(context.Background(), 10, 1, nil); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	fx.users.listErr = errors.New("directory unavailable")

	listing, err := fx.service.GetByWorkshop(context.Background(), 10)
	if err != nil {
		t.Fatalf("listing should degrade, not fail: %v", err)
	}
	if len(listing.Participants) != 1 {
		t.Fatalf("participants = %d, want 1", len(listing.Participants))
	}
}

func TestGetByUserReturnsOwnEnrollmentsOnly(t *testing.T) {
	fx := newFixture()

	if _, err := fx.service.Enroll(context.Background(), 10, 1, nil); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}
	if _, err := fx.service.Enroll(context.Background(), 10, 2, nil); err != nil {
		t.Fatalf("enrollment failed: %v", err)
	}

	listing, err := fx.service.GetByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(listing.Enrollments) != 1 {
		t.Fatalf("enrollments = %d, want 1", len(listing.Enrollments))
	}
	if listing.Enrollments[0].WorkshopID != 10 {
		t.Errorf("wrong workshop in listing")
	}
}
