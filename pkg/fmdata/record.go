package fmdata

import (
	"context"
	"fmt"
	"reflect"
	"sort"
)

// RecordBackend is the dispatcher capability a Record holds for
// Commit, Reload, and Delete. It is a non-owning reference; portal
// records carry none.
type RecordBackend interface {
	GetRecord(ctx context.Context, id int) (*Record, error)
	EditRecord(ctx context.Context, id, modID int, fields map[string]interface{}) (int, error)
	DeleteRecord(ctx context.Context, id int) error
}

// Record is a single row of a layout's data: identity, typed fields,
// locally tracked edits, and nested portal data. Field reads and
// writes never touch the network; edits are sent atomically by Commit.
type Record struct {
	backend RecordBackend
	id      int
	modID   int
	fields  map[string]interface{}
	dirty   map[string]struct{}
	portals map[string]*Foundset
	deleted bool
}

// NewRecord builds a Record from parsed response data. Pass a nil
// backend for portal rows; they cannot commit themselves.
func NewRecord(id, modID int, fields map[string]interface{}, portals map[string]*Foundset, backend RecordBackend) *Record {
	if fields == nil {
		fields = map[string]interface{}{}
	}

	return &Record{
		backend: backend,
		id:      id,
		modID:   modID,
		fields:  fields,
		dirty:   map[string]struct{}{},
		portals: portals,
	}
}

// ID returns the service-assigned record id.
func (r *Record) ID() int {
	return r.id
}

// ModificationID returns the optimistic-concurrency counter as of the
// last fetch or commit.
func (r *Record) ModificationID() int {
	return r.modID
}

// Field returns the typed value of a layout field. Fields literally
// named "recordId" or "modId" are reachable here; they are never
// merged with the structural ID/ModificationID accessors.
func (r *Record) Field(name string) (interface{}, error) {
	value, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}

	return value, nil
}

// SetField stages a new value for a layout field. The field must
// already exist on the record; portal data cannot be set this way.
// No network call is made until Commit.
func (r *Record) SetField(name string, value interface{}) error {
	if r.deleted {
		return ErrStaleRecord
	}

	if _, ok := r.portals[name]; ok {
		return fmt.Errorf("%w: %q", ErrPortalReadOnly, name)
	}

	current, ok := r.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}

	if reflect.DeepEqual(current, value) {
		return nil
	}

	r.fields[name] = value
	r.dirty[name] = struct{}{}

	return nil
}

// IsDirty reports whether the record has uncommitted edits.
func (r *Record) IsDirty() bool {
	return len(r.dirty) > 0
}

// DirtyFields returns the names of fields changed since the last
// fetch or commit, sorted.
func (r *Record) DirtyFields() []string {
	names := make([]string, 0, len(r.dirty))
	for name := range r.dirty {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Fields returns a copy of the field map.
func (r *Record) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(r.fields))
	for name, value := range r.fields {
		out[name] = value
	}

	return out
}

// ToMap returns the field values without portal data, suitable for
// feeding into Create on another layout or for serialization.
func (r *Record) ToMap() map[string]interface{} {
	return r.Fields()
}

// Portal returns the related records of a named portal.
func (r *Record) Portal(name string) (*Foundset, error) {
	fs, ok := r.portals[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPortalNotFound, name)
	}

	return fs, nil
}

// PortalNames returns the names of the portals present on the record,
// sorted.
func (r *Record) PortalNames() []string {
	names := make([]string, 0, len(r.portals))
	for name := range r.portals {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Commit sends the dirty fields to the service in one edit carrying
// the current modification id. A clean record commits without any
// network call. On success the dirty set is cleared and the
// modification id refreshed; on failure, conflicts included, local
// state is left untouched so the caller can Reload and decide.
func (r *Record) Commit(ctx context.Context) error {
	if err := r.usable(); err != nil {
		return err
	}

	if len(r.dirty) == 0 {
		return nil
	}

	changes := make(map[string]interface{}, len(r.dirty))
	for name := range r.dirty {
		changes[name] = r.fields[name]
	}

	modID, err := r.backend.EditRecord(ctx, r.id, r.modID, changes)
	if err != nil {
		return fmt.Errorf("committing record %d: %w", r.id, err)
	}

	r.modID = modID
	r.dirty = map[string]struct{}{}

	return nil
}

// Reload re-fetches the record by id, replacing all fields and portal
// data and discarding uncommitted edits. It is an explicit,
// destructive refresh.
func (r *Record) Reload(ctx context.Context) error {
	if err := r.usable(); err != nil {
		return err
	}

	fresh, err := r.backend.GetRecord(ctx, r.id)
	if err != nil {
		return fmt.Errorf("reloading record %d: %w", r.id, err)
	}

	r.modID = fresh.modID
	r.fields = fresh.fields
	r.portals = fresh.portals
	r.dirty = map[string]struct{}{}

	return nil
}

// Delete removes the record from the service. The Record is unusable
// afterward; further Commit/Reload/Delete calls fail with
// ErrStaleRecord.
func (r *Record) Delete(ctx context.Context) error {
	if err := r.usable(); err != nil {
		return err
	}

	err := r.backend.DeleteRecord(ctx, r.id)
	if err != nil {
		return fmt.Errorf("deleting record %d: %w", r.id, err)
	}

	r.deleted = true

	return nil
}

func (r *Record) usable() error {
	if r.backend == nil {
		return ErrDetachedRecord
	}

	if r.deleted || r.id == 0 {
		return ErrStaleRecord
	}

	return nil
}
