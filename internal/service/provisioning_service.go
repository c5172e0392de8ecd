package service

import (
	"context"
	"time"

	"member-portal-be/internal/dto"
	"member-portal-be/internal/entity"
	"member-portal-be/internal/pkg/apperr"
	"member-portal-be/internal/pkg/logger"
	"member-portal-be/internal/repository/contract"
	"member-portal-be/internal/repository/implementation"
	"member-portal-be/internal/repository/specification"
	"member-portal-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ProvisioningResult describes what a committed provisioning run did.
type ProvisioningResult struct {
	UserId      uuid.UUID
	MemberId    uuid.UUID
	UserEmail   string
	UserName    string
	Tier        entity.MembershipTier
	UserCreated bool
	TierChanged bool
}

type IProvisioningService interface {
	// Provision creates or updates the User and Member for one purchase,
	// with audit entries, inside a single transaction. A lost create race
	// (unique violation) is retried once as an update before surfacing a
	// conflict.
	Provision(ctx context.Context, eventId string, meta *dto.PurchaseMetadata, amount int64, currency string) (*ProvisioningResult, error)
}

type provisioningService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewProvisioningService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IProvisioningService {
	return &provisioningService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *provisioningService) Provision(ctx context.Context, eventId string, meta *dto.PurchaseMetadata, amount int64, currency string) (*ProvisioningResult, error) {
	// A unique violation aborts the whole Postgres transaction, so the
	// retry re-runs the attempt from the top; the second pass finds the
	// winner's rows and takes the update path. Deadlocks and serialization
	// failures also get one in-process retry before the processor is asked
	// to redeliver.
	res, err := s.attempt(ctx, eventId, meta, amount, currency)
	switch {
	case err == nil:
	case apperr.IsKind(err, apperr.KindConflict):
		s.logger.Warn("ProvisioningEngine", "create race lost, retrying as update", map[string]interface{}{
			"event_id": eventId,
			"email":    meta.CustomerInfo.Email,
		})
		res, err = s.attempt(ctx, eventId, meta, amount, currency)
	case implementation.IsRetryableTxError(err):
		s.logger.Warn("ProvisioningEngine", "transaction aborted by deadlock, retrying once", map[string]interface{}{
			"event_id": eventId,
			"email":    meta.CustomerInfo.Email,
		})
		res, err = s.attempt(ctx, eventId, meta, amount, currency)
	}
	return res, err
}

func (s *provisioningService) attempt(ctx context.Context, eventId string, meta *dto.PurchaseMetadata, amount int64, currency string) (*ProvisioningResult, error) {
	tier := electTier(eventId, meta.Cart, s.logger)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.New(apperr.KindTransient, eventId, err)
	}
	defer uow.Rollback()

	var audits []*entity.AuditLogEntry

	// 1. Resolve User: id hint, then email, then lazy create.
	user, userCreated, err := s.resolveUser(ctx, uow, eventId, meta)
	if err != nil {
		return nil, err
	}
	if userCreated {
		audits = append(audits, auditEntry(entity.AuditUserCreated, "user", user.Id.String(), nil, map[string]interface{}{
			"email":         user.Email,
			"role":          string(user.Role),
			"accountStatus": string(user.AccountStatus),
		}))
	}

	// 2. Resolve Member.
	member, err := uow.MemberRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	if err != nil {
		return nil, apperr.New(apperr.KindTransient, eventId, err)
	}

	tierChanged := false
	if member == nil {
		member = &entity.Member{
			Id:                         uuid.New(),
			UserId:                     user.Id,
			BusinessName:               meta.BusinessInfo.BusinessName,
			ContactFirstName:           meta.ContactInfo.FirstName,
			ContactLastName:            meta.ContactInfo.LastName,
			MembershipTier:             tier,
			MembershipStatus:           entity.MembershipStatusActive,
			MembershipPaymentConfirmed: true,
			JoinedAt:                   time.Now().UTC(),
		}
		if err := uow.MemberRepository().Create(ctx, member); err != nil {
			return nil, s.classifyWriteError(eventId, err)
		}
		audits = append(audits, auditEntry(entity.AuditMembershipPaymentCompleted, "member", member.Id.String(), nil, map[string]interface{}{
			"membershipTier":             string(tier),
			"membershipStatus":           string(entity.MembershipStatusActive),
			"membershipPaymentConfirmed": true,
			"amount":                     amount,
			"currency":                   currency,
		}))
	} else {
		// Existing member: touch only tier, status and the payment flag.
		// Profile fields set at creation stay untouched; the payment flag
		// is monotonic and never flips back to false.
		oldTier := member.MembershipTier
		tierChanged = oldTier != tier

		status := entity.MembershipStatusActive
		confirmed := true
		update := contract.MemberUpdate{
			MembershipStatus:           &status,
			MembershipPaymentConfirmed: &confirmed,
		}
		if tierChanged {
			update.MembershipTier = &tier
		}
		if err := uow.MemberRepository().ApplyUpdate(ctx, member.Id, update); err != nil {
			return nil, s.classifyWriteError(eventId, err)
		}

		if tierChanged {
			audits = append(audits, auditEntry(entity.AuditMembershipUpgraded, "member", member.Id.String(),
				map[string]interface{}{"membershipTier": string(oldTier)},
				map[string]interface{}{"membershipTier": string(tier)},
			))
		}
		audits = append(audits, auditEntry(entity.AuditMembershipPaymentCompleted, "member", member.Id.String(),
			map[string]interface{}{
				"membershipStatus":           string(member.MembershipStatus),
				"membershipPaymentConfirmed": member.MembershipPaymentConfirmed,
			},
			map[string]interface{}{
				"membershipStatus":           string(entity.MembershipStatusActive),
				"membershipPaymentConfirmed": true,
				"amount":                     amount,
				"currency":                   currency,
			},
		))
	}

	// 3. Audit trail joins the same transaction; it can never diverge from
	// the state it describes.
	if err := uow.AuditLogRepository().AppendAll(ctx, audits); err != nil {
		return nil, apperr.New(apperr.KindTransient, eventId, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, s.classifyWriteError(eventId, err)
	}

	name := displayName(meta)
	return &ProvisioningResult{
		UserId:      user.Id,
		MemberId:    member.Id,
		UserEmail:   user.Email,
		UserName:    name,
		Tier:        tier,
		UserCreated: userCreated,
		TierChanged: tierChanged,
	}, nil
}

func (s *provisioningService) resolveUser(ctx context.Context, uow unitofwork.UnitOfWork, eventId string, meta *dto.PurchaseMetadata) (*entity.User, bool, error) {
	if meta.UserIdHint != "" {
		if hintId, err := uuid.Parse(meta.UserIdHint); err == nil {
			user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: hintId})
			if err != nil {
				return nil, false, apperr.New(apperr.KindTransient, eventId, err)
			}
			if user != nil {
				return user, false, nil
			}
		} else {
			s.logger.Warn("ProvisioningEngine", "ignoring unparseable userId hint", map[string]interface{}{
				"event_id": eventId,
				"hint":     meta.UserIdHint,
			})
		}
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: meta.CustomerInfo.Email})
	if err != nil {
		return nil, false, apperr.New(apperr.KindTransient, eventId, err)
	}
	if user != nil {
		return user, false, nil
	}

	// Lazy create. Password stays unset until the member activates their
	// account through the portal.
	user = &entity.User{
		Id:            uuid.New(),
		Email:         meta.CustomerInfo.Email,
		FullName:      displayName(meta),
		Role:          entity.UserRoleMember,
		IsActive:      true,
		AccountStatus: entity.AccountStatusActive,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, false, s.classifyWriteError(eventId, err)
	}
	return user, true, nil
}

func (s *provisioningService) classifyWriteError(eventId string, err error) error {
	if implementation.IsUniqueViolation(err) {
		return apperr.New(apperr.KindConflict, eventId, err)
	}
	return apperr.New(apperr.KindTransient, eventId, err)
}

// electTier picks the cart line with the highest unit price; price ties go
// to the more privileged tier.
func electTier(eventId string, cart []dto.CartItem, log logger.ILogger) entity.MembershipTier {
	var (
		best      entity.MembershipTier
		bestRank  = -1
		bestPrice float64
	)
	for _, item := range cart {
		tier, rank, known := entity.TierFromId(item.TierId)
		if !known {
			log.Warn("ProvisioningEngine", "cart references unknown tier id", map[string]interface{}{
				"event_id": eventId,
				"tier_id":  item.TierId,
			})
		}
		if bestRank < 0 || item.Price > bestPrice || (item.Price == bestPrice && rank > bestRank) {
			best = tier
			bestRank = rank
			bestPrice = item.Price
		}
	}
	return best
}

func auditEntry(action entity.AuditAction, entityType, entityId string, oldValues, newValues map[string]interface{}) *entity.AuditLogEntry {
	return &entity.AuditLogEntry{
		Id:          uuid.New(),
		ActorUserId: entity.SystemActorId,
		Action:      action,
		EntityType:  entityType,
		EntityId:    entityId,
		OldValues:   oldValues,
		NewValues:   newValues,
		CreatedAt:   time.Now().UTC(),
	}
}

func displayName(meta *dto.PurchaseMetadata) string {
	if meta.CustomerInfo.Name != "" {
		return meta.CustomerInfo.Name
	}
	if meta.ContactInfo.FirstName != "" || meta.ContactInfo.LastName != "" {
		name := meta.ContactInfo.FirstName
		if meta.ContactInfo.LastName != "" {
			if name != "" {
				name += " "
			}
			name += meta.ContactInfo.LastName
		}
		return name
	}
	return meta.CustomerInfo.Email
}
