package contact

import (
	"errors"
	"strings"
	"unicode/utf8"

	"contactbook/errs"
)

// Column limits, counted in characters.
const (
	MaxNameLength  = 50
	MaxEmailLength = 100
	MaxPhoneLength = 20
)

var (
	ErrNameRequired = errs.Errorf(errs.EINVALID, "First Name and Last Name are required.")
	ErrIDMismatch   = errs.Errorf(errs.EINVALID, "ID mismatch between route parameter and contact payload.")
)

// ErrUniqueViolation is returned (possibly wrapped) by a Repository when a
// write collides with the unique email of another contact.
var ErrUniqueViolation = errors.New("contact: unique constraint violation")

// Contact is a person in the address book. Email and Phone are nil when
// absent; an empty string is a real value.
type Contact struct {
	ID        int64   `json:"id" yaml:"id"`
	FirstName string  `json:"firstName" yaml:"firstName"`
	LastName  string  `json:"lastName" yaml:"lastName"`
	Email     *string `json:"email" yaml:"email"`
	Phone     *string `json:"phone" yaml:"phone"`
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return ErrNameRequired
	}
	switch {
	case utf8.RuneCountInString(c.FirstName) > MaxNameLength:
		return errs.Errorf(errs.EINVALID, "First Name must be at most %d characters.", MaxNameLength)
	case utf8.RuneCountInString(c.LastName) > MaxNameLength:
		return errs.Errorf(errs.EINVALID, "Last Name must be at most %d characters.", MaxNameLength)
	case c.Email != nil && utf8.RuneCountInString(*c.Email) > MaxEmailLength:
		return errs.Errorf(errs.EINVALID, "Email must be at most %d characters.", MaxEmailLength)
	case c.Phone != nil && utf8.RuneCountInString(*c.Phone) > MaxPhoneLength:
		return errs.Errorf(errs.EINVALID, "Phone must be at most %d characters.", MaxPhoneLength)
	}
	return nil
}
