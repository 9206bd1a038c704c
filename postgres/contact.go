package postgres

import (
	"context"
	"errors"
	"fmt"

	"contactbook/contact"

	"gorm.io/gorm"
)

// ContactModel represents the database model for contacts
type ContactModel struct {
	ID        int64   `gorm:"primaryKey"`
	FirstName string  `gorm:"not null"`
	LastName  string  `gorm:"not null"`
	Email     *string `gorm:"unique"`
	Phone     *string
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ContactRepository implements contact.Repository interface
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	var models []ContactModel
	if err := r.db.WithContext(ctx).Order("last_name, first_name, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: list contacts: %w", err)
	}

	contacts := make([]contact.Contact, len(models))
	for i, model := range models {
		contacts[i] = toDomainContact(model)
	}
	return contacts, nil
}

func (r *ContactRepository) ContactByID(ctx context.Context, id int64) (contact.Contact, bool, error) {
	var model ContactModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contact.Contact{}, false, nil
		}
		return contact.Contact{}, false, fmt.Errorf("postgres: get contact %d: %w", id, err)
	}
	return toDomainContact(model), true, nil
}

// CreateContact inserts c and returns the id generated by the database.
func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (int64, error) {
	model := toModelContact(c)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("postgres: create contact: %w", contact.ErrUniqueViolation)
		}
		return 0, fmt.Errorf("postgres: create contact: %w", err)
	}
	return model.ID, nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, id int64, c contact.Contact) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ContactModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"email":      c.Email,
		"phone":      c.Phone,
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return 0, fmt.Errorf("postgres: update contact %d: %w", id, contact.ErrUniqueViolation)
		}
		return 0, fmt.Errorf("postgres: update contact %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ContactModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("postgres: delete contact %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

func toDomainContact(model ContactModel) contact.Contact {
	return contact.Contact{
		ID:        model.ID,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Email:     model.Email,
		Phone:     model.Phone,
	}
}

func toModelContact(c contact.Contact) ContactModel {
	return ContactModel{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}
