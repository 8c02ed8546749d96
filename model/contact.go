package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/muhammadheryan/crm/constant"
)

// ContactEntity represents the contact table entity
type ContactEntity struct {
	ID           uint64                 `db:"id" json:"id"`
	OwnerID      uint64                 `db:"owner_id" json:"ownerId"`
	Name         string                 `db:"name" json:"name"`
	Phone        string                 `db:"phone" json:"phone"`
	Remark       string                 `db:"remark" json:"remark"`
	Status       constant.ContactStatus `db:"status" json:"status"`
	FollowUpDate *time.Time             `db:"follow_up_date" json:"followUpDate"`
	Called       bool                   `db:"called" json:"called"`
	CalledAt     *time.Time             `db:"called_at" json:"calledAt,omitempty"`
	CreatedAt    time.Time              `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time              `db:"updated_at" json:"updatedAt"`
}

// ContactRequest is the body of create (POST) and full update (PUT).
// Any owner field sent by the client is not part of the request and is ignored.
type ContactRequest struct {
	Name         string  `json:"name" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	Remark       string  `json:"remark"`
	Status       string  `json:"status" validate:"omitempty,contact_status"`
	FollowUpDate *string `json:"followUpDate"`
	Called       bool    `json:"called"`
}

// ContactPatch is a partial update. Nil pointers and an unset FollowUpDate
// leave the stored value unchanged.
type ContactPatch struct {
	Remark       *string      `json:"remark,omitempty"`
	Status       *string      `json:"status,omitempty"`
	FollowUpDate OptionalDate `json:"followUpDate,omitzero"`
	Called       *bool        `json:"called,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p *ContactPatch) Empty() bool {
	return p.Remark == nil && p.Status == nil && !p.FollowUpDate.Set && p.Called == nil
}

// OptionalDate distinguishes an absent JSON key (Set false) from an explicit
// null or empty string (Set true, Raw nil). Parsing is left to the caller so a
// bad value surfaces as a validation error rather than a decode error.
type OptionalDate struct {
	Set bool
	Raw *string
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(data, []byte("null")) {
		d.Raw = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("followUpDate must be a string or null: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		d.Raw = nil
		return nil
	}
	d.Raw = &s
	return nil
}

func (d OptionalDate) MarshalJSON() ([]byte, error) {
	if !d.Set || d.Raw == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*d.Raw)
}

// DateOf is a convenience constructor for a set date value.
func DateOf(s string) OptionalDate {
	return OptionalDate{Set: true, Raw: &s}
}

// NullDate is an explicit clear.
func NullDate() OptionalDate {
	return OptionalDate{Set: true}
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(constant.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ContactUpdate is the set of columns written by a single update statement.
// UpdatedAt is always written.
type ContactUpdate struct {
	Name            *string
	Phone           *string
	Remark          *string
	Status          *constant.ContactStatus
	SetFollowUpDate bool
	FollowUpDate    *time.Time
	Called          *bool
	SetCalledAt     bool
	CalledAt        *time.Time
	UpdatedAt       time.Time
}

type DeleteContactResponse struct {
	Message string         `json:"message"`
	Contact *ContactEntity `json:"contact"`
}
