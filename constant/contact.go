package constant

import "fmt"

// ContactStatus is where a contact stands in the call pipeline.
type ContactStatus string

const (
	ContactStatusFuture   ContactStatus = "future"
	ContactStatusRejected ContactStatus = "rejected"
	ContactStatusLead     ContactStatus = "lead"
)

// DefaultContactStatus is assigned to contacts created without a status.
const DefaultContactStatus = ContactStatusFuture

func ParseContactStatus(s string) (ContactStatus, error) {
	switch ContactStatus(s) {
	case ContactStatusFuture, ContactStatusRejected, ContactStatusLead:
		return ContactStatus(s), nil
	}
	return "", fmt.Errorf("unknown contact status %q", s)
}

func (s ContactStatus) Valid() bool {
	_, err := ParseContactStatus(string(s))
	return err == nil
}

// DateLayout is the wire format of calendar dates (follow-up date, member since).
const DateLayout = "2006-01-02"
