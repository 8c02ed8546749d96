package contact

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	contactrepo "github.com/muhammadheryan/crm/repository/contact"
	"github.com/muhammadheryan/crm/utils/errors"
	"github.com/muhammadheryan/crm/utils/logger"
	"go.uber.org/zap"
)

// ContactApp scopes every contact operation to the calling identity. Only the
// owner reads or writes a contact, whatever the caller's role; admins get
// aggregates through the stats app instead.
type ContactApp interface {
	ListContacts(ctx context.Context, identity model.Identity) ([]model.ContactEntity, error)
	GetContact(ctx context.Context, identity model.Identity, id uint64) (*model.ContactEntity, error)
	CreateContact(ctx context.Context, identity model.Identity, req *model.ContactRequest) (*model.ContactEntity, error)
	ReplaceContact(ctx context.Context, identity model.Identity, id uint64, req *model.ContactRequest) (*model.ContactEntity, error)
	UpdateContact(ctx context.Context, identity model.Identity, id uint64, patch *model.ContactPatch) (*model.ContactEntity, error)
	DeleteContact(ctx context.Context, identity model.Identity, id uint64) (*model.ContactEntity, error)
}

type contactAppImpl struct {
	contactRepo contactrepo.ContactRepository
	now         func() time.Time
}

func NewContactApp(contactRepo contactrepo.ContactRepository) ContactApp {
	return &contactAppImpl{
		contactRepo: contactRepo,
		now:         time.Now,
	}
}

const statusMessage = "must be one of future rejected lead"
const dateMessage = "must be a date (YYYY-MM-DD) or null"

func (s *contactAppImpl) ListContacts(ctx context.Context, identity model.Identity) ([]model.ContactEntity, error) {
	items, err := s.contactRepo.ListByOwner(ctx, identity.UserID)
	if err != nil {
		logger.Error("[ListContacts] err contactRepo.ListByOwner", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return items, nil
}

func (s *contactAppImpl) GetContact(ctx context.Context, identity model.Identity, id uint64) (*model.ContactEntity, error) {
	return s.authorize(ctx, "GetContact", identity, id)
}

func (s *contactAppImpl) CreateContact(ctx context.Context, identity model.Identity, req *model.ContactRequest) (*model.ContactEntity, error) {
	fields, err := validateContactRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entity := &model.ContactEntity{
		OwnerID:      identity.UserID,
		Name:         fields.name,
		Phone:        fields.phone,
		Remark:       req.Remark,
		Status:       fields.status,
		FollowUpDate: fields.followUpDate,
		Called:       req.Called,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Called {
		entity.CalledAt = &now
	}

	entity, err = s.contactRepo.Create(ctx, entity)
	if err != nil {
		logger.Error("[CreateContact] err contactRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return entity, nil
}

func (s *contactAppImpl) ReplaceContact(ctx context.Context, identity model.Identity, id uint64, req *model.ContactRequest) (*model.ContactEntity, error) {
	current, err := s.authorize(ctx, "ReplaceContact", identity, id)
	if err != nil {
		return nil, err
	}

	fields, err := validateContactRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	update := &model.ContactUpdate{
		Name:            &fields.name,
		Phone:           &fields.phone,
		Remark:          &req.Remark,
		Status:          &fields.status,
		SetFollowUpDate: true,
		FollowUpDate:    fields.followUpDate,
		UpdatedAt:       now,
	}
	applyCalled(update, current.Called, req.Called, now)

	return s.write(ctx, "ReplaceContact", identity, id, update)
}

func (s *contactAppImpl) UpdateContact(ctx context.Context, identity model.Identity, id uint64, patch *model.ContactPatch) (*model.ContactEntity, error) {
	if patch == nil || patch.Empty() {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	current, err := s.authorize(ctx, "UpdateContact", identity, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	update := &model.ContactUpdate{UpdatedAt: now}
	invalid := make(map[string]string)

	if patch.Remark != nil {
		update.Remark = patch.Remark
	}
	if patch.Status != nil {
		status, err := constant.ParseContactStatus(*patch.Status)
		if err != nil {
			invalid["status"] = statusMessage
		} else {
			update.Status = &status
		}
	}
	if patch.FollowUpDate.Set {
		update.SetFollowUpDate = true
		if patch.FollowUpDate.Raw != nil {
			date, err := model.ParseDate(*patch.FollowUpDate.Raw)
			if err != nil {
				invalid["followUpDate"] = dateMessage
			} else {
				update.FollowUpDate = &date
			}
		}
	}
	if patch.Called != nil {
		applyCalled(update, current.Called, *patch.Called, now)
	}

	if len(invalid) > 0 {
		return nil, errors.SetValidationError(invalid)
	}

	return s.write(ctx, "UpdateContact", identity, id, update)
}

func (s *contactAppImpl) DeleteContact(ctx context.Context, identity model.Identity, id uint64) (*model.ContactEntity, error) {
	current, err := s.authorize(ctx, "DeleteContact", identity, id)
	if err != nil {
		return nil, err
	}

	if err := s.contactRepo.Delete(ctx, id, identity.UserID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		logger.Error("[DeleteContact] err contactRepo.Delete", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return current, nil
}

// authorize loads the contact and checks the caller owns it. The check runs
// on every call from the identity in the token; nothing is cached.
func (s *contactAppImpl) authorize(ctx context.Context, op string, identity model.Identity, id uint64) (*model.ContactEntity, error) {
	current, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("["+op+"] err contactRepo.GetByID", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if current == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	if current.OwnerID != identity.UserID {
		logger.Info("["+op+"] forbidden", zap.Uint64("contact_id", id), zap.Uint64("user_id", identity.UserID))
		return nil, errors.SetCustomError(constant.ErrForbidden)
	}
	return current, nil
}

// write applies the update and returns the stored row. Concurrent writers to
// the same contact are last-write-wins per field.
func (s *contactAppImpl) write(ctx context.Context, op string, identity model.Identity, id uint64, update *model.ContactUpdate) (*model.ContactEntity, error) {
	if err := s.contactRepo.Update(ctx, id, identity.UserID, update); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		logger.Error("["+op+"] err contactRepo.Update", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	updated, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("["+op+"] err contactRepo.GetByID after update", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if updated == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return updated, nil
}

// applyCalled sets the called flag and keeps calledAt in step with it:
// marking called stamps the time, unmarking clears it.
func applyCalled(update *model.ContactUpdate, current, next bool, now time.Time) {
	update.Called = &next
	switch {
	case !current && next:
		update.SetCalledAt = true
		update.CalledAt = &now
	case current && !next:
		update.SetCalledAt = true
		update.CalledAt = nil
	}
}

type contactFields struct {
	name         string
	phone        string
	status       constant.ContactStatus
	followUpDate *time.Time
}

func validateContactRequest(req *model.ContactRequest) (*contactFields, error) {
	if req == nil {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	invalid := make(map[string]string)
	out := &contactFields{
		name:   strings.TrimSpace(req.Name),
		phone:  strings.TrimSpace(req.Phone),
		status: constant.DefaultContactStatus,
	}

	if out.name == "" {
		invalid["name"] = "is required"
	}
	if out.phone == "" {
		invalid["phone"] = "is required"
	}
	if req.Status != "" {
		status, err := constant.ParseContactStatus(req.Status)
		if err != nil {
			invalid["status"] = statusMessage
		} else {
			out.status = status
		}
	}
	if req.FollowUpDate != nil && strings.TrimSpace(*req.FollowUpDate) != "" {
		date, err := model.ParseDate(*req.FollowUpDate)
		if err != nil {
			invalid["followUpDate"] = dateMessage
		} else {
			out.followUpDate = &date
		}
	}

	if len(invalid) > 0 {
		return nil, errors.SetValidationError(invalid)
	}
	return out, nil
}
