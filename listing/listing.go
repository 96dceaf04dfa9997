// Package listing records which procedure and class own every translated
// instruction. Later passes, such as the peephole optimizer, read it to map
// addresses back to methods.
package listing

import (
	"fmt"
	"os"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/sarchlab/cibyl/core"
)

// Version is the format version written into every listing.
const Version = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("listing: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Entry describes one instruction.
type Entry struct {
	Address   uint32 `cbor:"1,keyasint"`
	Procedure string `cbor:"2,keyasint"`
	Class     string `cbor:"3,keyasint,omitempty"`
	Nullified bool   `cbor:"4,keyasint,omitempty"`
}

// Listing holds the entries of a program in address order.
type Listing struct {
	Version int     `cbor:"1,keyasint"`
	Entries []Entry `cbor:"2,keyasint"`
}

// FromClasses collects the instructions of the packed classes.
func FromClasses(classes []core.Class) *Listing {
	l := &Listing{Version: Version}

	for _, c := range classes {
		for _, p := range c.Procedures {
			for _, insn := range p.Instructions() {
				l.Entries = append(l.Entries, Entry{
					Address:   insn.Address,
					Procedure: p.Name(),
					Class:     c.Name,
					Nullified: insn.IsNullified(),
				})
			}
		}
	}

	sort.Slice(l.Entries, func(i, j int) bool {
		return l.Entries[i].Address < l.Entries[j].Address
	})

	return l
}

// Lookup returns the entry of the instruction at addr.
func (l *Listing) Lookup(addr uint32) (Entry, bool) {
	i := sort.Search(len(l.Entries), func(i int) bool {
		return l.Entries[i].Address >= addr
	})

	if i < len(l.Entries) && l.Entries[i].Address == addr {
		return l.Entries[i], true
	}

	return Entry{}, false
}

// Marshal serializes a listing to canonical CBOR.
func Marshal(l *Listing) ([]byte, error) {
	return cborEncMode.Marshal(l)
}

// Unmarshal deserializes a listing and checks its version.
func Unmarshal(data []byte) (*Listing, error) {
	var l Listing
	if err := cbor.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("listing: unmarshal: %w", err)
	}

	if l.Version != Version {
		return nil, fmt.Errorf("listing: unsupported version %d", l.Version)
	}

	return &l, nil
}

// WriteFile saves a listing.
func WriteFile(path string, l *Listing) error {
	data, err := Marshal(l)
	if err != nil {
		return fmt.Errorf("listing: marshal: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a listing.
func ReadFile(path string) (*Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}

	return Unmarshal(data)
}
