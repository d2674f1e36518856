package school

import (
	"context"
	"strings"
	"sync"
)

// FakeDirectory is an in-memory Directory for tests.
type FakeDirectory struct {
	mu      sync.Mutex
	records []Record
	Err     error // returned by every lookup when set
	Calls   int
}

var _ Directory = (*FakeDirectory)(nil)

func NewFakeDirectory(records ...Record) *FakeDirectory {
	return &FakeDirectory{records: records}
}

func (d *FakeDirectory) LookupByCode(_ context.Context, id Identifier) (Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls++
	if d.Err != nil {
		return Record{}, d.Err
	}
	for _, rec := range d.records {
		if rec.StandardCode == id.StandardCode && (id.AuthorityCode == "" || rec.AuthorityCode == id.AuthorityCode) {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (d *FakeDirectory) LookupByName(_ context.Context, name string) ([]Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls++
	if d.Err != nil {
		return nil, d.Err
	}
	found := make([]Record, 0)
	for _, rec := range d.records {
		if strings.Contains(rec.Name, name) {
			found = append(found, rec)
		}
	}
	return found, nil
}
