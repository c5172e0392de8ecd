package service

import (
	"context"
	"sync"
	"time"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/repository/contract"
	"member-portal-be/internal/repository/specification"
	"member-portal-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repository fakes shared across the service tests. They model
// just enough storage semantics (unique keys, claim transitions) to exercise
// the services without a database.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeStore struct {
	mu sync.Mutex

	usersById    map[uuid.UUID]*entity.User
	usersByEmail map[string]*entity.User
	members      map[uuid.UUID]*entity.Member // keyed by user id
	ledger       map[string]*entity.EventLedgerEntry
	audits       []*entity.AuditLogEntry
	settings     map[string]string

	// failure injection
	userCreateErr   error
	memberCreateErr error
	claimErr        error
	markDoneErr     error
	settingErr      error

	// userCreateErrOnce fires userCreateErr for the first create only,
	// simulating a lost race whose winner is visible on retry.
	userCreateErrOnce bool
	raceWinner        *entity.User

	// memberCreateErrOnce fires memberCreateErr for the first create only,
	// simulating a deadlock that clears on retry.
	memberCreateErrOnce bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		usersById:    map[uuid.UUID]*entity.User{},
		usersByEmail: map[string]*entity.User{},
		members:      map[uuid.UUID]*entity.Member{},
		ledger:       map[string]*entity.EventLedgerEntry{},
		settings:     map[string]string{},
	}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}
func (u *fakeUow) MemberRepository() contract.MemberRepository {
	return &fakeMemberRepo{store: u.store}
}
func (u *fakeUow) EventLedgerRepository() contract.EventLedgerRepository {
	return &fakeLedgerRepo{store: u.store}
}
func (u *fakeUow) AuditLogRepository() contract.AuditLogRepository {
	return &fakeAuditRepo{store: u.store}
}
func (u *fakeUow) SettingRepository() contract.SettingRepository {
	return &fakeSettingRepo{store: u.store}
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.userCreateErr != nil {
		err := r.store.userCreateErr
		if r.store.userCreateErrOnce {
			r.store.userCreateErr = nil
			if r.store.raceWinner != nil {
				r.store.usersById[r.store.raceWinner.Id] = r.store.raceWinner
				r.store.usersByEmail[r.store.raceWinner.Email] = r.store.raceWinner
			}
		}
		return err
	}
	cp := *user
	r.store.usersById[cp.Id] = &cp
	r.store.usersByEmail[cp.Email] = &cp
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u, ok := r.store.usersById[s.ID]; ok {
				cp := *u
				return &cp, nil
			}
		case specification.ByEmail:
			if u, ok := r.store.usersByEmail[s.Email]; ok {
				cp := *u
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.usersById)), nil
}

type fakeMemberRepo struct{ store *fakeStore }

func (r *fakeMemberRepo) Create(ctx context.Context, member *entity.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.memberCreateErr != nil {
		err := r.store.memberCreateErr
		if r.store.memberCreateErrOnce {
			r.store.memberCreateErr = nil
		}
		return err
	}
	cp := *member
	r.store.members[cp.UserId] = &cp
	return nil
}

func (r *fakeMemberRepo) ApplyUpdate(ctx context.Context, memberId uuid.UUID, update contract.MemberUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.members {
		if m.Id == memberId {
			if update.MembershipTier != nil {
				m.MembershipTier = *update.MembershipTier
			}
			if update.MembershipStatus != nil {
				m.MembershipStatus = *update.MembershipStatus
			}
			if update.MembershipPaymentConfirmed != nil {
				m.MembershipPaymentConfirmed = *update.MembershipPaymentConfirmed
			}
			return nil
		}
	}
	return nil
}

func (r *fakeMemberRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if s, ok := spec.(specification.UserOwnedBy); ok {
			if m, ok := r.store.members[s.UserID]; ok {
				cp := *m
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error) {
	return nil, nil
}

func (r *fakeMemberRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.members)), nil
}

type fakeLedgerRepo struct{ store *fakeStore }

func (r *fakeLedgerRepo) Claim(ctx context.Context, eventId, eventType string, staleAfter time.Duration) (entity.ClaimResult, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.claimErr != nil {
		return 0, r.store.claimErr
	}
	existing, ok := r.store.ledger[eventId]
	if !ok {
		r.store.ledger[eventId] = &entity.EventLedgerEntry{
			Id:         eventId,
			EventType:  eventType,
			Status:     entity.EventStatusPending,
			ReceivedAt: time.Now(),
		}
		return entity.ClaimFresh, nil
	}
	switch existing.Status {
	case entity.EventStatusDone:
		return entity.ClaimAlreadyDone, nil
	case entity.EventStatusPending:
		if time.Since(existing.ReceivedAt) < staleAfter {
			return entity.ClaimAlreadyDone, nil
		}
	}
	existing.Status = entity.EventStatusPending
	existing.ReceivedAt = time.Now()
	return entity.ClaimReclaimed, nil
}

func (r *fakeLedgerRepo) MarkDone(ctx context.Context, eventId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.markDoneErr != nil {
		return r.store.markDoneErr
	}
	if e, ok := r.store.ledger[eventId]; ok && e.Status != entity.EventStatusDone {
		now := time.Now()
		e.Status = entity.EventStatusDone
		e.ProcessedAt = &now
	}
	return nil
}

func (r *fakeLedgerRepo) MarkFailed(ctx context.Context, eventId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if e, ok := r.store.ledger[eventId]; ok && e.Status != entity.EventStatusDone {
		e.Status = entity.EventStatusFailed
	}
	return nil
}

func (r *fakeLedgerRepo) FindOne(ctx context.Context, eventId string) (*entity.EventLedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if e, ok := r.store.ledger[eventId]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

type fakeAuditRepo struct{ store *fakeStore }

func (r *fakeAuditRepo) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audits = append(r.store.audits, entry)
	return nil
}

func (r *fakeAuditRepo) AppendAll(ctx context.Context, entries []*entity.AuditLogEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audits = append(r.store.audits, entries...)
	return nil
}

func (r *fakeAuditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLogEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.AuditLogEntry, len(r.store.audits))
	copy(out, r.store.audits)
	return out, nil
}

func (r *fakeAuditRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.audits)), nil
}

// auditActions lists the recorded actions in order, for assertions.
func (s *fakeStore) auditActions() []entity.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.AuditAction, 0, len(s.audits))
	for _, a := range s.audits {
		out = append(out, a.Action)
	}
	return out
}

type fakeSettingRepo struct{ store *fakeStore }

func (r *fakeSettingRepo) FindByKey(ctx context.Context, key string) (*entity.Setting, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.settingErr != nil {
		return nil, r.store.settingErr
	}
	if v, ok := r.store.settings[key]; ok {
		return &entity.Setting{Key: key, Value: v}, nil
	}
	return nil, nil
}
