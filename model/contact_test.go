package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/muhammadheryan/crm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactPatch_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantRaw   *string
		wantEmpty bool
		wantErr   bool
	}{
		{name: "absent", body: `{"remark":"x"}`, wantSet: false},
		{name: "explicit null", body: `{"followUpDate":null}`, wantSet: true},
		{name: "empty string clears", body: `{"followUpDate":""}`, wantSet: true},
		{name: "date", body: `{"followUpDate":"2024-05-01"}`, wantSet: true, wantRaw: strPtr("2024-05-01")},
		{name: "nothing", body: `{}`, wantEmpty: true},
		{name: "number rejected", body: `{"followUpDate":12}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p model.ContactPatch
			err := json.Unmarshal([]byte(tt.body), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, p.FollowUpDate.Set)
			assert.Equal(t, tt.wantRaw, p.FollowUpDate.Raw)
			assert.Equal(t, tt.wantEmpty, p.Empty())
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := model.ParseDate("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), d)

	ts, err := model.ParseDate("2024-05-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())

	_, err = model.ParseDate("01/05/2024")
	assert.Error(t, err)
}

func TestNewUserResponse_MemberSinceFallback(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &model.UserEntity{ID: 1, Name: "Asha", CreatedAt: created}
	assert.Equal(t, created, model.NewUserResponse(u).MemberSince)

	since := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	u.MemberSince = &since
	assert.Equal(t, since, model.NewUserResponse(u).MemberSince)
}

func strPtr(s string) *string { return &s }
