package sink

import (
	"slices"

	"github.com/semmy-space/signcreds/internal/signing"
)

// Bag is an in-memory property store read by later steps of the same
// process, the equivalent of a build tool's extra properties. Every
// resolution is published here first; printing and the external sinks read
// back from it. It is not safe for concurrent use.
type Bag struct {
	entries map[string]signing.Entry
	order   []string
}

// NewBag creates an empty bag
func NewBag() *Bag {
	return &Bag{entries: make(map[string]signing.Entry)}
}

// Set stores a non-sensitive value under name, replacing any previous value
func (b *Bag) Set(name, value string) {
	b.put(signing.Entry{Name: name, Value: value})
}

// Get returns the value stored under name
func (b *Bag) Get(name string) (string, bool) {
	e, ok := b.entries[name]
	return e.Value, ok
}

// Keys returns the stored names in insertion order
func (b *Bag) Keys() []string {
	return slices.Clone(b.order)
}

// Entries returns the stored entries in insertion order
func (b *Bag) Entries() []signing.Entry {
	entries := make([]signing.Entry, 0, len(b.order))
	for _, name := range b.order {
		entries = append(entries, b.entries[name])
	}
	return entries
}

// Publish implements Sink. Outputs of an earlier resolution are dropped
// first, so a fixed-mode run never leaves a named-mode keyPassword behind.
// Other names set on the bag are kept.
func (b *Bag) Publish(entries []signing.Entry) error {
	for _, name := range signing.OutputNames() {
		b.remove(name)
	}
	for _, e := range entries {
		b.put(e)
	}
	return nil
}

func (b *Bag) put(e signing.Entry) {
	if _, ok := b.entries[e.Name]; !ok {
		b.order = append(b.order, e.Name)
	}
	b.entries[e.Name] = e
}

func (b *Bag) remove(name string) {
	if _, ok := b.entries[name]; !ok {
		return
	}
	delete(b.entries, name)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == name })
}
