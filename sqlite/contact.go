package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contactbook/contact"
)

const (
	selectContacts = `SELECT id, first_name, last_name, email, phone FROM contacts`

	listContactsQuery  = selectContacts + ` ORDER BY last_name, first_name, id`
	getContactQuery    = selectContacts + ` WHERE id = ?`
	insertContactQuery = `INSERT INTO contacts (first_name, last_name, email, phone) VALUES (?, ?, ?, ?)`
	updateContactQuery = `UPDATE contacts SET first_name = ?, last_name = ?, email = ?, phone = ? WHERE id = ?`
	deleteContactQuery = `DELETE FROM contacts WHERE id = ?`
)

// ContactRepository implements contact.Repository on top of database/sql.
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	rows, err := r.db.QueryContext(ctx, listContactsQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list contacts: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list contacts: %w", err)
	}
	return contacts, nil
}

func (r *ContactRepository) ContactByID(ctx context.Context, id int64) (contact.Contact, bool, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, getContactQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contact.Contact{}, false, nil
		}
		return contact.Contact{}, false, fmt.Errorf("sqlite: get contact %d: %w", id, err)
	}
	return c, true, nil
}

func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertContactQuery, c.FirstName, c.LastName, nullString(c.Email), nullString(c.Phone))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("sqlite: create contact: %w", contact.ErrUniqueViolation)
		}
		return 0, fmt.Errorf("sqlite: create contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: create contact: %w", err)
	}
	return id, nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, id int64, c contact.Contact) (int64, error) {
	res, err := r.db.ExecContext(ctx, updateContactQuery, c.FirstName, c.LastName, nullString(c.Email), nullString(c.Phone), id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("sqlite: update contact %d: %w", id, contact.ErrUniqueViolation)
		}
		return 0, fmt.Errorf("sqlite: update contact %d: %w", id, err)
	}
	return res.RowsAffected()
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteContactQuery, id)
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete contact %d: %w", id, err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (contact.Contact, error) {
	var (
		c            contact.Contact
		email, phone sql.NullString
	)
	if err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &email, &phone); err != nil {
		return contact.Contact{}, err
	}
	c.Email = stringPtr(email)
	c.Phone = stringPtr(phone)
	return c, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
