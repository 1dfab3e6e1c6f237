package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/repository"
	apperrors "github.com/spec-kit/blood-donation-service/pkg/util/errorutil"
)

const resourceContact = "contact"

// ContactService manages each user's address book.
type ContactService struct {
	contacts repository.ContactRepository
	users    repository.UserRepository
}

// ContactInput describes the editable fields of a contact.
type ContactInput struct {
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	BirthDate    *time.Time
	BloodType    domain.BloodType
	Relationship string
	Address      string
	City         string
	PostalCode   string
	Notes        string
}

// NewContactService constructs the service.
func NewContactService(contacts repository.ContactRepository, users repository.UserRepository) *ContactService {
	return &ContactService{contacts: contacts, users: users}
}

// Create adds a contact to the caller's address book.
func (s *ContactService) Create(ctx context.Context, actor domain.Actor, input ContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{OwnerID: actor.ID}
	applyContactInput(contact, input)
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Get returns one of the caller's contacts. Other owners' contacts read as missing.
func (s *ContactService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, resourceContact, id)
	}
	if contact.OwnerID != actor.ID {
		return nil, apperrors.NewNotFound(resourceContact, map[string]any{"id": id})
	}
	return contact, nil
}

// Update replaces the editable fields of one of the caller's contacts.
func (s *ContactService) Update(ctx context.Context, actor domain.Actor, id string, input ContactInput) (*domain.Contact, error) {
	contact, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	applyContactInput(contact, input)
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, mapStoreError(err, resourceContact, id)
	}
	return contact, nil
}

// Delete removes one of the caller's contacts.
func (s *ContactService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return mapStoreError(s.contacts.Delete(ctx, id), resourceContact, id)
}

// List returns the caller's contacts, optionally of one blood type.
func (s *ContactService) List(ctx context.Context, actor domain.Actor, bloodType *domain.BloodType) ([]domain.Contact, error) {
	if bloodType != nil && !bloodType.Valid() {
		return nil, apperrors.NewValidationError("invalid blood type", map[string]any{"blood_type": *bloodType})
	}
	return s.contacts.ListByOwner(ctx, actor.ID, bloodType)
}

// ListSameBloodType returns the caller's contacts sharing the caller's blood type.
func (s *ContactService) ListSameBloodType(ctx context.Context, actor domain.Actor) ([]domain.Contact, error) {
	owner, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreError(err, "user", actor.ID)
	}
	if !owner.BloodType.Valid() {
		return []domain.Contact{}, nil
	}
	return s.contacts.ListByOwner(ctx, actor.ID, &owner.BloodType)
}

func applyContactInput(c *domain.Contact, in ContactInput) {
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.Email = strings.TrimSpace(in.Email)
	c.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	c.BirthDate = in.BirthDate
	c.BloodType = in.BloodType
	c.Relationship = strings.TrimSpace(in.Relationship)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.PostalCode = strings.TrimSpace(in.PostalCode)
	c.Notes = strings.TrimSpace(in.Notes)
}

func validateContact(c *domain.Contact) error {
	details := map[string]any{}
	if c.FirstName == "" {
		details["first_name"] = "required"
	}
	if c.LastName == "" {
		details["last_name"] = "required"
	}
	domain.CheckEmail(details, "email", c.Email)
	domain.CheckPerson(details, c.FirstName, c.LastName, c.PhoneNumber, c.Address, c.City, c.PostalCode)
	domain.CheckLength(details, "relationship", c.Relationship, domain.MaxRelationshipLength)
	if !c.BloodType.Valid() {
		details["blood_type"] = "unknown blood type"
	}
	domain.CheckLength(details, "notes", c.Notes, domain.MaxNotesLength)
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid contact", details)
	}
	return nil
}
