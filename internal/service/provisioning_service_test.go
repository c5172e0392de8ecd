package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"member-portal-be/internal/dto"
	"member-portal-be/internal/entity"
	"member-portal-be/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func purchaseMeta() *dto.PurchaseMetadata {
	return &dto.PurchaseMetadata{
		Cart: []dto.CartItem{
			{TierId: "premium-member", Name: "Premium Membership", Price: 249.00, Quantity: 1},
		},
		CustomerInfo: dto.CustomerInfo{Name: "Dewi Lestari", Email: "dewi@example.com"},
		BusinessInfo: dto.BusinessInfo{BusinessName: "Lestari Consulting"},
		ContactInfo:  dto.ContactInfo{FirstName: "Dewi", LastName: "Lestari"},
	}
}

func TestProvisionNewCustomer(t *testing.T) {
	store := newFakeStore()
	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})

	res, err := svc.Provision(context.Background(), "evt_new", purchaseMeta(), 24900, "usd")
	assert.NoError(t, err)
	assert.True(t, res.UserCreated)
	assert.Equal(t, "dewi@example.com", res.UserEmail)
	assert.Equal(t, entity.TierPremium, res.Tier)

	user := store.usersByEmail["dewi@example.com"]
	assert.NotNil(t, user)
	assert.Equal(t, entity.UserRoleMember, user.Role)

	member := store.members[user.Id]
	assert.NotNil(t, member)
	assert.Equal(t, entity.TierPremium, member.MembershipTier)
	assert.Equal(t, entity.MembershipStatusActive, member.MembershipStatus)
	assert.True(t, member.MembershipPaymentConfirmed)
	assert.Equal(t, "Lestari Consulting", member.BusinessName)

	assert.Equal(t, []entity.AuditAction{
		entity.AuditUserCreated,
		entity.AuditMembershipPaymentCompleted,
	}, store.auditActions())
	for _, a := range store.audits {
		assert.Equal(t, entity.SystemActorId, a.ActorUserId)
	}
}

func TestProvisionExistingMemberUpgrade(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()
	store.usersById[userId] = &entity.User{Id: userId, Email: "dewi@example.com", FullName: "Dewi Lestari", Role: entity.UserRoleMember}
	store.usersByEmail["dewi@example.com"] = store.usersById[userId]
	store.members[userId] = &entity.Member{
		Id:                         uuid.New(),
		UserId:                     userId,
		BusinessName:               "Original Name",
		MembershipTier:             entity.TierCommunity,
		MembershipStatus:           entity.MembershipStatusLapsed,
		MembershipPaymentConfirmed: true,
		JoinedAt:                   time.Now().Add(-365 * 24 * time.Hour),
	}

	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})
	res, err := svc.Provision(context.Background(), "evt_upgrade", purchaseMeta(), 24900, "usd")
	assert.NoError(t, err)
	assert.False(t, res.UserCreated)
	assert.True(t, res.TierChanged)

	member := store.members[userId]
	assert.Equal(t, entity.TierPremium, member.MembershipTier)
	assert.Equal(t, entity.MembershipStatusActive, member.MembershipStatus)
	// Profile fields set at creation stay untouched.
	assert.Equal(t, "Original Name", member.BusinessName)

	assert.Equal(t, []entity.AuditAction{
		entity.AuditMembershipUpgraded,
		entity.AuditMembershipPaymentCompleted,
	}, store.auditActions())
}

func TestProvisionRepeatPurchaseSameTier(t *testing.T) {
	store := newFakeStore()
	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})

	_, err := svc.Provision(context.Background(), "evt_a", purchaseMeta(), 24900, "usd")
	assert.NoError(t, err)
	res, err := svc.Provision(context.Background(), "evt_b", purchaseMeta(), 24900, "usd")
	assert.NoError(t, err)

	assert.False(t, res.TierChanged)
	assert.Equal(t, 1, len(store.members))
	// Second purchase records the payment but no upgrade entry.
	assert.Equal(t, []entity.AuditAction{
		entity.AuditUserCreated,
		entity.AuditMembershipPaymentCompleted,
		entity.AuditMembershipPaymentCompleted,
	}, store.auditActions())
}

func TestProvisionUserIdHint(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()
	// User registered under a different email than the one on the receipt.
	store.usersById[userId] = &entity.User{Id: userId, Email: "old@example.com", FullName: "Dewi", Role: entity.UserRoleMember}
	store.usersByEmail["old@example.com"] = store.usersById[userId]

	meta := purchaseMeta()
	meta.UserIdHint = userId.String()

	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})
	res, err := svc.Provision(context.Background(), "evt_hint", meta, 24900, "usd")
	assert.NoError(t, err)
	assert.False(t, res.UserCreated)
	assert.Equal(t, userId, res.UserId)
}

func TestProvisionUnparseableHintFallsBack(t *testing.T) {
	store := newFakeStore()
	meta := purchaseMeta()
	meta.UserIdHint = "not-a-uuid"

	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})
	res, err := svc.Provision(context.Background(), "evt_badhint", meta, 24900, "usd")
	assert.NoError(t, err)
	assert.True(t, res.UserCreated)
}

func TestProvisionLostCreateRaceRetriesAsUpdate(t *testing.T) {
	store := newFakeStore()
	winnerId := uuid.New()
	store.userCreateErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	store.userCreateErrOnce = true
	store.raceWinner = &entity.User{Id: winnerId, Email: "dewi@example.com", FullName: "Dewi Lestari", Role: entity.UserRoleMember}

	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})
	res, err := svc.Provision(context.Background(), "evt_race", purchaseMeta(), 24900, "usd")
	assert.NoError(t, err)
	assert.False(t, res.UserCreated)
	assert.Equal(t, winnerId, res.UserId)
	assert.Equal(t, 1, len(store.members))
}

func TestProvisionDeadlockRetriedInProcess(t *testing.T) {
	store := newFakeStore()
	store.memberCreateErr = &pgconn.PgError{Code: "40P01"}
	store.memberCreateErrOnce = true

	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})
	_, err := svc.Provision(context.Background(), "evt_deadlock", purchaseMeta(), 24900, "usd")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(store.members))
}

func TestProvisionDeadlockOnRetrySurfacesTransient(t *testing.T) {
	store := newFakeStore()
	store.memberCreateErr = &pgconn.PgError{Code: "40P01"}

	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})
	_, err := svc.Provision(context.Background(), "evt_deadlock2", purchaseMeta(), 24900, "usd")
	assert.True(t, apperr.IsKind(err, apperr.KindTransient), "got %v", err)
}

func TestProvisionTransientErrorSurfaces(t *testing.T) {
	store := newFakeStore()
	store.memberCreateErr = errors.New("connection reset by peer")

	svc := NewProvisioningService(&fakeFactory{store: store}, nopLogger{})
	_, err := svc.Provision(context.Background(), "evt_down", purchaseMeta(), 24900, "usd")
	assert.True(t, apperr.IsKind(err, apperr.KindTransient), "got %v", err)
}

func TestElectTier(t *testing.T) {
	tests := []struct {
		name string
		cart []dto.CartItem
		want entity.MembershipTier
	}{
		{
			name: "single item",
			cart: []dto.CartItem{{TierId: "meeting-member", Price: 99}},
			want: entity.TierMeeting,
		},
		{
			name: "highest price wins",
			cart: []dto.CartItem{
				{TierId: "partner-member", Price: 99},
				{TierId: "community-member", Price: 499},
			},
			want: entity.TierCommunity,
		},
		{
			name: "price tie goes to higher privilege",
			cart: []dto.CartItem{
				{TierId: "meeting-member", Price: 249},
				{TierId: "premium-member", Price: 249},
			},
			want: entity.TierPremium,
		},
		{
			name: "unknown tier id maps to community",
			cart: []dto.CartItem{{TierId: "legacy-gold", Price: 999}},
			want: entity.TierCommunity,
		},
		{
			name: "known tier beats unknown on tie",
			cart: []dto.CartItem{
				{TierId: "legacy-gold", Price: 100},
				{TierId: "community-member", Price: 100},
			},
			want: entity.TierCommunity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := electTier("evt_test", tt.cart, nopLogger{})
			if got != tt.want {
				t.Errorf("electTier() = %s, want %s", got, tt.want)
			}
		})
	}
}
