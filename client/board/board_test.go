package board_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/muhammadheryan/crm/client/board"
	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchResult struct {
	contact *model.ContactEntity
	err     error
}

type pendingPatch struct {
	id    uint64
	patch model.ContactPatch
	reply chan patchResult
}

// fakeAPI parks every PatchContact on calls until the test answers it.
type fakeAPI struct {
	list    []model.ContactEntity
	listErr error
	calls   chan pendingPatch

	mu      sync.Mutex
	created []model.ContactRequest
	deleted []uint64
}

func newFakeAPI(list ...model.ContactEntity) *fakeAPI {
	return &fakeAPI{list: list, calls: make(chan pendingPatch)}
}

func (f *fakeAPI) ListContacts(ctx context.Context) ([]model.ContactEntity, error) {
	return f.list, f.listErr
}

func (f *fakeAPI) CreateContact(ctx context.Context, req model.ContactRequest) (*model.ContactEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return &model.ContactEntity{ID: 99, Name: req.Name, Phone: req.Phone, Status: constant.ContactStatusFuture}, nil
}

func (f *fakeAPI) PatchContact(ctx context.Context, id uint64, patch model.ContactPatch) (*model.ContactEntity, error) {
	p := pendingPatch{id: id, patch: patch, reply: make(chan patchResult, 1)}
	f.calls <- p
	res := <-p.reply
	return res.contact, res.err
}

func (f *fakeAPI) DeleteContact(ctx context.Context, id uint64) (*model.ContactEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return &model.ContactEntity{ID: id}, nil
}

func contact(id uint64, called bool) model.ContactEntity {
	return model.ContactEntity{ID: id, OwnerID: 1, Name: "Ann", Phone: "0812", Status: constant.ContactStatusFuture, Called: called}
}

func loaded(t *testing.T, api *fakeAPI) *board.ContactBoard {
	t.Helper()
	b := board.NewContactBoard(api)
	require.NoError(t, b.Load(context.Background()))
	return b
}

// dispatch runs cmd in the background and hands back the parked request.
func dispatch(t *testing.T, b *board.ContactBoard, api *fakeAPI, cmd board.Command) (pendingPatch, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- b.Dispatch(context.Background(), cmd) }()
	select {
	case p := <-api.calls:
		return p, done
	case <-time.After(time.Second):
		t.Fatal("request never reached the api")
		return pendingPatch{}, nil
	}
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatal("dispatch did not return")
		return nil
	}
}

func calledOf(t *testing.T, b *board.ContactBoard, id uint64) bool {
	t.Helper()
	c, ok := b.Contact(id)
	require.True(t, ok)
	return c.Called
}

func TestContactBoard_SetCalled(t *testing.T) {
	calledAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		reply      patchResult
		wantCalled bool
		wantErrs   int
	}{
		{
			name:       "success keeps server value",
			reply:      patchResult{contact: &model.ContactEntity{ID: 1, Called: true, CalledAt: &calledAt}},
			wantCalled: true,
		},
		{
			name:       "failure rolls back",
			reply:      patchResult{err: errors.New("boom")},
			wantCalled: false,
			wantErrs:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(contact(1, false))
			b := loaded(t, api)

			p, done := dispatch(t, b, api, board.SetCalled{ID: 1, Called: true})
			assert.True(t, calledOf(t, b, 1), "applied before the server answers")
			require.NotNil(t, p.patch.Called)
			assert.True(t, *p.patch.Called)

			p.reply <- tt.reply
			err := wait(t, done)

			assert.Equal(t, tt.wantCalled, calledOf(t, b, 1))
			assert.Len(t, b.Errors(), tt.wantErrs)
			if tt.wantErrs > 0 {
				var cerr *board.CommandError
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, board.FieldCalled, cerr.Field)
				assert.Equal(t, uint64(1), cerr.ContactID)
			} else {
				assert.NoError(t, err)
				c, _ := b.Contact(1)
				assert.Equal(t, &calledAt, c.CalledAt)
			}
		})
	}
}

func TestContactBoard_SetCalled_StaleResponseDiscarded(t *testing.T) {
	api := newFakeAPI(contact(1, false))
	b := loaded(t, api)

	first, done1 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: true})
	second, done2 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: false})
	assert.False(t, calledOf(t, b, 1))

	second.reply <- patchResult{contact: &model.ContactEntity{ID: 1, Called: false}}
	require.NoError(t, wait(t, done2))
	assert.False(t, calledOf(t, b, 1))

	first.reply <- patchResult{contact: &model.ContactEntity{ID: 1, Called: true}}
	require.NoError(t, wait(t, done1))

	assert.False(t, calledOf(t, b, 1))
	assert.Empty(t, b.Errors())
}

func TestContactBoard_SetCalled_LatestFailureRestoresConfirmed(t *testing.T) {
	api := newFakeAPI(contact(1, false))
	b := loaded(t, api)

	first, done1 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: true})
	second, done2 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: false})

	// the overtaken request still tells us what the server holds
	first.reply <- patchResult{contact: &model.ContactEntity{ID: 1, Called: true}}
	require.NoError(t, wait(t, done1))
	assert.False(t, calledOf(t, b, 1))

	second.reply <- patchResult{err: errors.New("timeout")}
	assert.Error(t, wait(t, done2))

	assert.True(t, calledOf(t, b, 1))
	assert.Len(t, b.Errors(), 1)
}

func TestContactBoard_SetCalled_EarlierSuccessAfterLatestFailure(t *testing.T) {
	api := newFakeAPI(contact(1, false))
	b := loaded(t, api)

	first, done1 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: true})
	second, done2 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: false})

	second.reply <- patchResult{err: errors.New("timeout")}
	assert.Error(t, wait(t, done2))
	assert.False(t, calledOf(t, b, 1))

	// the server accepted the first toggle, nothing is in flight anymore
	first.reply <- patchResult{contact: &model.ContactEntity{ID: 1, Called: true}}
	require.NoError(t, wait(t, done1))

	assert.True(t, calledOf(t, b, 1))
	assert.Len(t, b.Errors(), 1)
}

func TestContactBoard_SetCalled_EarlierSuccessWhileLatestInFlight(t *testing.T) {
	api := newFakeAPI(contact(1, false))
	b := loaded(t, api)

	first, done1 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: true})
	second, done2 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: false})

	first.reply <- patchResult{contact: &model.ContactEntity{ID: 1, Called: true}}
	require.NoError(t, wait(t, done1))
	assert.False(t, calledOf(t, b, 1), "the newest guess stays visible")

	second.reply <- patchResult{contact: &model.ContactEntity{ID: 1, Called: false}}
	require.NoError(t, wait(t, done2))
	assert.False(t, calledOf(t, b, 1))
	assert.Empty(t, b.Errors())
}

func TestContactBoard_StaleFailureIgnored(t *testing.T) {
	api := newFakeAPI(contact(1, false))
	b := loaded(t, api)

	first, done1 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: true})
	second, done2 := dispatch(t, b, api, board.SetCalled{ID: 1, Called: true})

	first.reply <- patchResult{err: errors.New("boom")}
	assert.NoError(t, wait(t, done1))
	assert.True(t, calledOf(t, b, 1))

	second.reply <- patchResult{contact: &model.ContactEntity{ID: 1, Called: true}}
	require.NoError(t, wait(t, done2))
	assert.True(t, calledOf(t, b, 1))
	assert.Empty(t, b.Errors())
}

func TestContactBoard_NonOptimisticFields(t *testing.T) {
	follow := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		cmd   board.Command
		reply model.ContactEntity
		check func(t *testing.T, p model.ContactPatch, c model.ContactEntity)
	}{
		{
			name:  "status",
			cmd:   board.SetStatus{ID: 1, Status: constant.ContactStatusLead},
			reply: model.ContactEntity{ID: 1, Status: constant.ContactStatusLead, Remark: "server remark", UpdatedAt: updated},
			check: func(t *testing.T, p model.ContactPatch, c model.ContactEntity) {
				require.NotNil(t, p.Status)
				assert.Equal(t, "lead", *p.Status)
				assert.Nil(t, p.Called)
				assert.Equal(t, constant.ContactStatusLead, c.Status)
				assert.Equal(t, "", c.Remark, "only the patched field is taken from the answer")
			},
		},
		{
			name:  "remark",
			cmd:   board.SetRemark{ID: 1, Remark: "call after lunch"},
			reply: model.ContactEntity{ID: 1, Remark: "call after lunch", UpdatedAt: updated},
			check: func(t *testing.T, p model.ContactPatch, c model.ContactEntity) {
				require.NotNil(t, p.Remark)
				assert.Equal(t, "call after lunch", c.Remark)
				assert.Equal(t, constant.ContactStatusFuture, c.Status)
			},
		},
		{
			name:  "follow-up date",
			cmd:   board.SetFollowUpDate{ID: 1, Date: &follow},
			reply: model.ContactEntity{ID: 1, FollowUpDate: &follow, UpdatedAt: updated},
			check: func(t *testing.T, p model.ContactPatch, c model.ContactEntity) {
				require.True(t, p.FollowUpDate.Set)
				require.NotNil(t, p.FollowUpDate.Raw)
				assert.Equal(t, "2024-06-01", *p.FollowUpDate.Raw)
				assert.Equal(t, &follow, c.FollowUpDate)
			},
		},
		{
			name:  "clear follow-up date",
			cmd:   board.SetFollowUpDate{ID: 1},
			reply: model.ContactEntity{ID: 1, UpdatedAt: updated},
			check: func(t *testing.T, p model.ContactPatch, c model.ContactEntity) {
				assert.True(t, p.FollowUpDate.Set)
				assert.Nil(t, p.FollowUpDate.Raw)
				assert.Nil(t, c.FollowUpDate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(contact(1, false))
			b := loaded(t, api)
			before, _ := b.Contact(1)

			p, done := dispatch(t, b, api, tt.cmd)
			during, _ := b.Contact(1)
			assert.Equal(t, before, during, "nothing changes while in flight")

			reply := tt.reply
			p.reply <- patchResult{contact: &reply}
			require.NoError(t, wait(t, done))

			after, _ := b.Contact(1)
			assert.Equal(t, updated, after.UpdatedAt)
			tt.check(t, p.patch, after)
		})
	}
}

func TestContactBoard_NonOptimisticFailureKeepsValue(t *testing.T) {
	api := newFakeAPI(contact(1, false))
	b := loaded(t, api)

	p, done := dispatch(t, b, api, board.SetStatus{ID: 1, Status: constant.ContactStatusRejected})
	p.reply <- patchResult{err: errors.New("validation failed")}
	assert.Error(t, wait(t, done))

	c, _ := b.Contact(1)
	assert.Equal(t, constant.ContactStatusFuture, c.Status)
	require.Len(t, b.Errors(), 1)

	b.ClearErrors()
	assert.Empty(t, b.Errors())
}

func TestContactBoard_UnknownContact(t *testing.T) {
	b := loaded(t, newFakeAPI(contact(1, false)))

	err := b.Dispatch(context.Background(), board.SetCalled{ID: 7, Called: true})
	assert.ErrorIs(t, err, board.ErrUnknownContact)
	err = b.Dispatch(context.Background(), board.SetRemark{ID: 7, Remark: "x"})
	assert.ErrorIs(t, err, board.ErrUnknownContact)
}

func TestContactBoard_LoadError(t *testing.T) {
	api := newFakeAPI()
	api.listErr = errors.New("down")
	b := board.NewContactBoard(api)
	assert.Error(t, b.Load(context.Background()))
	assert.Empty(t, b.Contacts())
}

func TestContactBoard_CreateAndDelete(t *testing.T) {
	api := newFakeAPI(contact(1, false))
	b := loaded(t, api)

	created, err := b.Create(context.Background(), model.ContactRequest{Name: "Bob", Phone: "0813"})
	require.NoError(t, err)
	assert.Equal(t, uint64(99), created.ID)

	list := b.Contacts()
	require.Len(t, list, 2)
	assert.Equal(t, uint64(99), list[0].ID)

	require.NoError(t, b.Delete(context.Background(), 1))
	list = b.Contacts()
	require.Len(t, list, 1)
	assert.Equal(t, uint64(99), list[0].ID)
	assert.Equal(t, []uint64{1}, api.deleted)

	// the new contact is still editable after the index moved
	p, done := dispatch(t, b, api, board.SetCalled{ID: 99, Called: true})
	assert.Equal(t, uint64(99), p.id)
	p.reply <- patchResult{contact: &model.ContactEntity{ID: 99, Called: true}}
	require.NoError(t, wait(t, done))
	assert.True(t, calledOf(t, b, 99))
}

func TestContactBoard_Summary(t *testing.T) {
	follow := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	list := []model.ContactEntity{
		{ID: 1, Status: constant.ContactStatusFuture, Called: true},
		{ID: 2, Status: constant.ContactStatusRejected, Called: true},
		{ID: 3, Status: constant.ContactStatusLead, FollowUpDate: &follow},
		{ID: 4, Status: constant.ContactStatusLead},
		{ID: 5, Status: constant.ContactStatusFuture},
	}
	b := loaded(t, newFakeAPI(list...))

	assert.Equal(t, board.Summary{Total: 5, Future: 2, Rejected: 1, Lead: 2, Converted: 1, Called: 2}, b.Summary())
}
