package contact

import (
	"context"
	"errors"

	"contactbook/errs"

	"go.uber.org/zap"
)

type Service interface {
	ListContacts(ctx context.Context) ([]Contact, error)
	GetContact(ctx context.Context, id int64) (Contact, error)
	AddContact(ctx context.Context, c Contact) (Contact, error)
	UpdateContact(ctx context.Context, id int64, c Contact) error
	DeleteContact(ctx context.Context, id int64) error
}

// Repository is the persistence capability behind the Usecase.
// ContactByID reports absence with ok == false and a nil error.
// UpdateContact and DeleteContact return the number of rows affected.
type Repository interface {
	AllContacts(ctx context.Context) ([]Contact, error)
	ContactByID(ctx context.Context, id int64) (c Contact, ok bool, err error)
	CreateContact(ctx context.Context, c Contact) (int64, error)
	UpdateContact(ctx context.Context, id int64, c Contact) (int64, error)
	DeleteContact(ctx context.Context, id int64) (int64, error)
}

type Usecase struct {
	r      Repository
	logger *zap.Logger
}

func NewUsecase(r Repository, logger *zap.Logger) *Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Usecase{r: r, logger: logger}
}

func (uc *Usecase) ListContacts(ctx context.Context) ([]Contact, error) {
	contacts, err := uc.r.AllContacts(ctx)
	if err != nil {
		return nil, uc.internal(err, "list", 0, "An internal server error occurred while retrieving contacts.")
	}
	if contacts == nil {
		contacts = []Contact{}
	}

	uc.logger.Info("retrieved contacts", zap.String("op", "list"), zap.Int("count", len(contacts)))
	return contacts, nil
}

func (uc *Usecase) GetContact(ctx context.Context, id int64) (Contact, error) {
	c, ok, err := uc.r.ContactByID(ctx, id)
	if err != nil {
		return Contact{}, uc.internal(err, "get", id, "An internal server error occurred while retrieving contact %d.", id)
	}
	if !ok {
		uc.logger.Warn("contact not found", zap.String("op", "get"), zap.Int64("id", id))
		return Contact{}, errs.Errorf(errs.ENOTFOUND, "Contact with ID %d not found.", id)
	}

	uc.logger.Info("retrieved contact", zap.String("op", "get"), zap.Int64("id", id))
	return c, nil
}

// AddContact persists c and returns it with the store-assigned ID.
// Any ID set by the caller is ignored.
func (uc *Usecase) AddContact(ctx context.Context, c Contact) (Contact, error) {
	if err := c.Validate(); err != nil {
		uc.logger.Warn("rejected contact", zap.String("op", "create"), zap.Error(err))
		return Contact{}, err
	}

	c.ID = 0
	id, err := uc.r.CreateContact(ctx, c)
	if err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			uc.logger.Warn("duplicate email", zap.String("op", "create"), zap.Stringp("email", c.Email))
			return Contact{}, emailConflict(c.Email, "A contact with the email '%s' already exists.")
		}
		return Contact{}, uc.internal(err, "create", 0, "An internal server error occurred while creating the contact.")
	}
	c.ID = id

	uc.logger.Info("created contact", zap.String("op", "create"), zap.Int64("id", id))
	return c, nil
}

// UpdateContact replaces every mutable field of contact id with c.
// The existence check and the write are separate round trips; a row
// deleted in between is reported as a success.
func (uc *Usecase) UpdateContact(ctx context.Context, id int64, c Contact) error {
	if id != c.ID {
		uc.logger.Warn("rejected contact", zap.String("op", "update"), zap.Int64("id", id), zap.Int64("payload_id", c.ID))
		return ErrIDMismatch
	}
	if err := c.Validate(); err != nil {
		uc.logger.Warn("rejected contact", zap.String("op", "update"), zap.Int64("id", id), zap.Error(err))
		return err
	}

	_, ok, err := uc.r.ContactByID(ctx, id)
	if err != nil {
		return uc.internal(err, "update", id, "An internal server error occurred while updating contact %d.", id)
	}
	if !ok {
		uc.logger.Warn("contact not found", zap.String("op", "update"), zap.Int64("id", id))
		return errs.Errorf(errs.ENOTFOUND, "Contact with ID %d not found for update.", id)
	}

	n, err := uc.r.UpdateContact(ctx, id, c)
	if err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			uc.logger.Warn("duplicate email", zap.String("op", "update"), zap.Int64("id", id), zap.Stringp("email", c.Email))
			return emailConflict(c.Email, "Cannot update contact, the email '%s' is already in use by another contact.")
		}
		return uc.internal(err, "update", id, "An internal server error occurred while updating contact %d.", id)
	}
	if n == 0 {
		uc.logger.Warn("update affected no rows", zap.String("op", "update"), zap.Int64("id", id))
	}

	uc.logger.Info("updated contact", zap.String("op", "update"), zap.Int64("id", id))
	return nil
}

func (uc *Usecase) DeleteContact(ctx context.Context, id int64) error {
	n, err := uc.r.DeleteContact(ctx, id)
	if err != nil {
		return uc.internal(err, "delete", id, "An internal server error occurred while deleting contact %d.", id)
	}
	if n == 0 {
		uc.logger.Warn("contact not found", zap.String("op", "delete"), zap.Int64("id", id))
		return errs.Errorf(errs.ENOTFOUND, "Contact with ID %d not found for deletion.", id)
	}

	uc.logger.Info("deleted contact", zap.String("op", "delete"), zap.Int64("id", id))
	return nil
}

func (uc *Usecase) internal(err error, op string, id int64, format string, args ...interface{}) error {
	uc.logger.Error("repository failure", zap.String("op", op), zap.Int64("id", id), zap.Error(err))
	return errs.Wrap(errs.EINTERNAL, err, format, args...)
}

func emailConflict(email *string, format string) error {
	var value string
	if email != nil {
		value = *email
	}
	return errs.Conflict("email", format, value)
}
