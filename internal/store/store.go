// Package store persists business cards.
package store

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
)

// ErrNotFound is returned when no business card has the requested id.
var ErrNotFound = errors.New("business card not found")

// Store is the persistence boundary of the service.
type Store interface {
	// Create inserts a card and returns it with its newly assigned id.
	Create(ctx context.Context, card model.BusinessCard) (model.BusinessCard, error)
	// CreateAll inserts all cards in one transaction. Either all of them are stored or none.
	CreateAll(ctx context.Context, cards []model.BusinessCard) ([]model.BusinessCard, error)
	// FindAll returns every card ordered by id.
	FindAll(ctx context.Context) ([]model.BusinessCard, error)
	FindByID(ctx context.Context, id int64) (model.BusinessCard, error)
	// Update replaces all fields of the card with card.Id.
	Update(ctx context.Context, card model.BusinessCard) (model.BusinessCard, error)
	// Delete removes the card with the given id. Unknown ids are not an error.
	Delete(ctx context.Context, id int64) error
}
