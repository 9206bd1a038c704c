package contact_test

import (
	"strings"
	"testing"

	"contactbook/contact"
	"contactbook/errs"

	"github.com/stretchr/testify/assert"
)

func TestContactValidate(t *testing.T) {
	tests := []struct {
		name string
		c    contact.Contact
		want error
	}{
		{name: "names present", c: contact.Contact{FirstName: "Jane", LastName: "Doe"}, want: nil},
		{name: "empty first name", c: contact.Contact{LastName: "Doe"}, want: contact.ErrNameRequired},
		{name: "whitespace last name", c: contact.Contact{FirstName: "Jane", LastName: "  "}, want: contact.ErrNameRequired},
		{name: "optional fields may be empty strings", c: contact.Contact{FirstName: "Jane", LastName: "Doe", Email: strp(""), Phone: strp("")}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Validate())
		})
	}
}

func TestContactValidate_Lengths(t *testing.T) {
	valid := func() contact.Contact {
		return contact.Contact{FirstName: "Jane", LastName: "Doe"}
	}
	tests := []struct {
		name    string
		modify  func(c *contact.Contact)
		message string
	}{
		{name: "first name at the limit", modify: func(c *contact.Contact) { c.FirstName = strings.Repeat("a", 50) }},
		{name: "multibyte names count characters", modify: func(c *contact.Contact) { c.LastName = strings.Repeat("é", 50) }},
		{name: "email at the limit", modify: func(c *contact.Contact) { c.Email = strp(strings.Repeat("e", 100)) }},
		{name: "phone at the limit", modify: func(c *contact.Contact) { c.Phone = strp(strings.Repeat("1", 20)) }},
		{
			name:    "first name too long",
			modify:  func(c *contact.Contact) { c.FirstName = strings.Repeat("a", 51) },
			message: "First Name must be at most 50 characters.",
		},
		{
			name:    "last name too long",
			modify:  func(c *contact.Contact) { c.LastName = strings.Repeat("b", 51) },
			message: "Last Name must be at most 50 characters.",
		},
		{
			name:    "email too long",
			modify:  func(c *contact.Contact) { c.Email = strp(strings.Repeat("e", 101)) },
			message: "Email must be at most 100 characters.",
		},
		{
			name:    "phone too long",
			modify:  func(c *contact.Contact) { c.Phone = strp(strings.Repeat("1", 21)) },
			message: "Phone must be at most 20 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(&c)

			err := c.Validate()

			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
			assert.Equal(t, tt.message, errs.ErrorMessage(err))
		})
	}
}
