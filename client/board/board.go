// Package board keeps a local mirror of the signed-in user's contacts and
// applies edits to it through explicit commands.
//
// The called flag is optimistic: the local value flips before the server
// answers and rolls back to the last value the server confirmed if the
// request fails. Every other field changes only once the server accepts it.
// Each (contact, field) pair carries a sequence number so an answer that was
// overtaken by a newer request for the same field is dropped.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
)

var ErrUnknownContact = errors.New("contact is not on the board")

// ContactAPI is the part of the REST client the board needs.
type ContactAPI interface {
	ListContacts(ctx context.Context) ([]model.ContactEntity, error)
	CreateContact(ctx context.Context, req model.ContactRequest) (*model.ContactEntity, error)
	PatchContact(ctx context.Context, id uint64, patch model.ContactPatch) (*model.ContactEntity, error)
	DeleteContact(ctx context.Context, id uint64) (*model.ContactEntity, error)
}

type Field string

const (
	FieldCalled       Field = "called"
	FieldStatus       Field = "status"
	FieldRemark       Field = "remark"
	FieldFollowUpDate Field = "followUpDate"
)

// Command is one user edit of one contact field.
type Command interface {
	ContactID() uint64
	Field() Field
	patch() model.ContactPatch
}

type SetCalled struct {
	ID     uint64
	Called bool
}

func (c SetCalled) ContactID() uint64 { return c.ID }
func (c SetCalled) Field() Field      { return FieldCalled }
func (c SetCalled) patch() model.ContactPatch {
	v := c.Called
	return model.ContactPatch{Called: &v}
}

type SetStatus struct {
	ID     uint64
	Status constant.ContactStatus
}

func (c SetStatus) ContactID() uint64 { return c.ID }
func (c SetStatus) Field() Field      { return FieldStatus }
func (c SetStatus) patch() model.ContactPatch {
	v := string(c.Status)
	return model.ContactPatch{Status: &v}
}

type SetRemark struct {
	ID     uint64
	Remark string
}

func (c SetRemark) ContactID() uint64 { return c.ID }
func (c SetRemark) Field() Field      { return FieldRemark }
func (c SetRemark) patch() model.ContactPatch {
	v := c.Remark
	return model.ContactPatch{Remark: &v}
}

// SetFollowUpDate sets the follow-up day; a nil Date clears it.
type SetFollowUpDate struct {
	ID   uint64
	Date *time.Time
}

func (c SetFollowUpDate) ContactID() uint64 { return c.ID }
func (c SetFollowUpDate) Field() Field      { return FieldFollowUpDate }
func (c SetFollowUpDate) patch() model.ContactPatch {
	if c.Date == nil {
		return model.ContactPatch{FollowUpDate: model.NullDate()}
	}
	return model.ContactPatch{FollowUpDate: model.DateOf(c.Date.Format(constant.DateLayout))}
}

// CommandError is recorded when a command fails.
type CommandError struct {
	ContactID uint64
	Field     Field
	Err       error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("update %s of contact %d: %v", e.Field, e.ContactID, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

type fieldKey struct {
	id    uint64
	field Field
}

type confirmation struct {
	seq    uint64
	called bool
}

type ContactBoard struct {
	api ContactAPI

	mu        sync.Mutex
	contacts  []model.ContactEntity
	index     map[uint64]int
	seq       map[fieldKey]uint64
	settled   map[fieldKey]uint64
	confirmed map[uint64]confirmation
	errs      []error
}

func NewContactBoard(api ContactAPI) *ContactBoard {
	return &ContactBoard{
		api:       api,
		index:     make(map[uint64]int),
		seq:       make(map[fieldKey]uint64),
		settled:   make(map[fieldKey]uint64),
		confirmed: make(map[uint64]confirmation),
	}
}

// Load replaces the board with the server's list.
func (b *ContactBoard) Load(ctx context.Context) error {
	items, err := b.api.ListContacts(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = append([]model.ContactEntity(nil), items...)
	b.reindex()
	b.confirmed = make(map[uint64]confirmation, len(items))
	for _, c := range b.contacts {
		b.confirmed[c.ID] = confirmation{seq: b.seq[fieldKey{c.ID, FieldCalled}], called: c.Called}
	}
	return nil
}

// Dispatch runs cmd and blocks until the server answered. The returned error
// is also recorded, unless the answer was superseded.
func (b *ContactBoard) Dispatch(ctx context.Context, cmd Command) error {
	if called, ok := cmd.(SetCalled); ok {
		return b.setCalled(ctx, called)
	}
	return b.update(ctx, cmd)
}

func (b *ContactBoard) setCalled(ctx context.Context, cmd SetCalled) error {
	key := fieldKey{cmd.ID, FieldCalled}

	b.mu.Lock()
	i, ok := b.index[cmd.ID]
	if !ok {
		b.mu.Unlock()
		return ErrUnknownContact
	}
	b.seq[key]++
	mySeq := b.seq[key]
	b.contacts[i].Called = cmd.Called
	b.mu.Unlock()

	res, err := b.api.PatchContact(ctx, cmd.ID, cmd.patch())

	b.mu.Lock()
	defer b.mu.Unlock()

	advanced := false
	if err == nil && res != nil {
		if conf := b.confirmed[cmd.ID]; mySeq > conf.seq {
			b.confirmed[cmd.ID] = confirmation{seq: mySeq, called: res.Called}
			advanced = true
		}
	}
	i, ok = b.index[cmd.ID]
	if b.seq[key] != mySeq {
		// the latest request already failed and rolled back to an older
		// confirmation; show the newer one
		if advanced && ok && b.settled[key] == b.seq[key] {
			b.contacts[i].Called = b.confirmed[cmd.ID].called
		}
		return nil
	}
	b.settled[key] = mySeq
	if !ok {
		return nil
	}

	if err != nil {
		b.contacts[i].Called = b.confirmed[cmd.ID].called
		return b.record(cmd, err)
	}
	b.contacts[i].Called = res.Called
	b.contacts[i].CalledAt = res.CalledAt
	b.contacts[i].UpdatedAt = res.UpdatedAt
	return nil
}

func (b *ContactBoard) update(ctx context.Context, cmd Command) error {
	key := fieldKey{cmd.ContactID(), cmd.Field()}

	b.mu.Lock()
	if _, ok := b.index[cmd.ContactID()]; !ok {
		b.mu.Unlock()
		return ErrUnknownContact
	}
	b.seq[key]++
	mySeq := b.seq[key]
	b.mu.Unlock()

	res, err := b.api.PatchContact(ctx, cmd.ContactID(), cmd.patch())

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seq[key] != mySeq {
		return nil
	}
	i, ok := b.index[cmd.ContactID()]
	if !ok {
		return nil
	}
	if err != nil {
		return b.record(cmd, err)
	}

	c := &b.contacts[i]
	switch cmd.Field() {
	case FieldStatus:
		c.Status = res.Status
	case FieldRemark:
		c.Remark = res.Remark
	case FieldFollowUpDate:
		c.FollowUpDate = res.FollowUpDate
	}
	c.UpdatedAt = res.UpdatedAt
	return nil
}

// Create adds a contact once the server stored it; newest first.
func (b *ContactBoard) Create(ctx context.Context, req model.ContactRequest) (*model.ContactEntity, error) {
	res, err := b.api.CreateContact(ctx, req)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = append([]model.ContactEntity{*res}, b.contacts...)
	b.reindex()
	b.confirmed[res.ID] = confirmation{called: res.Called}
	return res, nil
}

func (b *ContactBoard) Delete(ctx context.Context, id uint64) error {
	if _, err := b.api.DeleteContact(ctx, id); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.index[id]
	if !ok {
		return nil
	}
	b.contacts = append(b.contacts[:i], b.contacts[i+1:]...)
	b.reindex()
	delete(b.confirmed, id)
	return nil
}

func (b *ContactBoard) Contacts() []model.ContactEntity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.ContactEntity(nil), b.contacts...)
}

func (b *ContactBoard) Contact(id uint64) (model.ContactEntity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.index[id]
	if !ok {
		return model.ContactEntity{}, false
	}
	return b.contacts[i], true
}

// Errors returns the failures recorded so far, oldest first.
func (b *ContactBoard) Errors() []error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]error(nil), b.errs...)
}

func (b *ContactBoard) ClearErrors() {
	b.mu.Lock()
	b.errs = nil
	b.mu.Unlock()
}

// Summary counts the board like the contact page header does.
type Summary struct {
	Total     int
	Future    int
	Rejected  int
	Lead      int
	Converted int
	Called    int
}

func (b *ContactBoard) Summary() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Summary{Total: len(b.contacts)}
	for _, c := range b.contacts {
		switch c.Status {
		case constant.ContactStatusFuture:
			s.Future++
		case constant.ContactStatusRejected:
			s.Rejected++
		case constant.ContactStatusLead:
			s.Lead++
			// a lead with a follow-up day booked counts as converted
			if c.FollowUpDate != nil {
				s.Converted++
			}
		}
		if c.Called {
			s.Called++
		}
	}
	return s
}

// record must be called with mu held.
func (b *ContactBoard) record(cmd Command, err error) error {
	cerr := &CommandError{ContactID: cmd.ContactID(), Field: cmd.Field(), Err: err}
	b.errs = append(b.errs, cerr)
	return cerr
}

// reindex must be called with mu held.
func (b *ContactBoard) reindex() {
	b.index = make(map[uint64]int, len(b.contacts))
	for i, c := range b.contacts {
		b.index[c.ID] = i
	}
}
