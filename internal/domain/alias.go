package domain

import (
	"errors"
	"fmt"
)

// ErrAliasExists is returned by CreateStrict when the alias is taken.
var ErrAliasExists = errors.New("alias already exists")

// DocumentStore owns the persisted Document.
//
// View runs fn under a read lock. Update runs fn under a write lock and saves
// the whole document when fn returns true. Replace adopts the document found
// at path and saves it to the canonical location.
type DocumentStore interface {
	View(fn func(doc *Document))
	Update(fn func(doc *Document) bool) error
	Replace(path string) error
}

// AliasRegistry manages aliases and the default display name.
// Every mutation is saved immediately.
type AliasRegistry struct {
	store DocumentStore
}

// NewAliasRegistry creates a registry over store.
func NewAliasRegistry(store DocumentStore) *AliasRegistry {
	return &AliasRegistry{store: store}
}

// Create maps alias to roomID, silently overwriting an existing alias.
func (r *AliasRegistry) Create(roomID, alias string) error {
	return r.store.Update(func(doc *Document) bool {
		doc.Aliases.Set(alias, roomID)
		return true
	})
}

// CreateStrict is Create that refuses to overwrite.
func (r *AliasRegistry) CreateStrict(roomID, alias string) error {
	var (
		taken  string
		exists bool
	)
	err := r.store.Update(func(doc *Document) bool {
		taken, exists = doc.Aliases.Get(alias)
		if exists {
			return false
		}
		doc.Aliases.Set(alias, roomID)
		return true
	})
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s -> %s", ErrAliasExists, alias, taken)
	}
	return nil
}

// Resolve returns the room id for alias.
func (r *AliasRegistry) Resolve(alias string) (string, bool) {
	var (
		id string
		ok bool
	)
	r.store.View(func(doc *Document) {
		id, ok = doc.Aliases.Get(alias)
	})
	return id, ok
}

// Rename moves the room id of oldAlias to newAlias.
// Nothing happens, and nothing is saved, when oldAlias is unknown.
func (r *AliasRegistry) Rename(oldAlias, newAlias string) (bool, error) {
	var moved bool
	err := r.store.Update(func(doc *Document) bool {
		id, ok := doc.Aliases.Get(oldAlias)
		if !ok {
			return false
		}
		doc.Aliases.Delete(oldAlias)
		doc.Aliases.Set(newAlias, id)
		moved = true
		return true
	})
	return moved, err
}

// Remove deletes alias. Unknown aliases are ignored.
func (r *AliasRegistry) Remove(alias string) (bool, error) {
	var removed bool
	err := r.store.Update(func(doc *Document) bool {
		removed = doc.Aliases.Delete(alias)
		return removed
	})
	return removed, err
}

// List returns every alias in stored order.
func (r *AliasRegistry) List() []Alias {
	var out []Alias
	r.store.View(func(doc *Document) {
		out = doc.Aliases.Entries()
	})
	return out
}

// DefaultName returns the configured display name, "" if unset.
func (r *AliasRegistry) DefaultName() string {
	var name string
	r.store.View(func(doc *Document) {
		name = doc.Name
	})
	return name
}

// SetDefaultName stores the default display name.
func (r *AliasRegistry) SetDefaultName(name string) error {
	return r.store.Update(func(doc *Document) bool {
		doc.Name = name
		return true
	})
}

// RawConfig returns a copy of the whole document.
func (r *AliasRegistry) RawConfig() Document {
	var doc Document
	r.store.View(func(d *Document) {
		doc = d.Clone()
	})
	return doc
}

// ImportConfig replaces the document with the one at path.
func (r *AliasRegistry) ImportConfig(path string) error {
	return r.store.Replace(path)
}
