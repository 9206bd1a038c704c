package httpserver

import (
	"contactbook/contact"
)

// ContactRequest is the JSON body of create and update. Name presence is
// checked by the contact service; only column limits are enforced here.
type ContactRequest struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName" validate:"max=50"`
	LastName  string  `json:"lastName" validate:"max=50"`
	Email     *string `json:"email" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
}

func (r ContactRequest) ToContact() contact.Contact {
	return contact.Contact{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
	}
}
