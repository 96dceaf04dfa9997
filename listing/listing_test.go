package listing_test

import (
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cibyl/core"
	"github.com/sarchlab/cibyl/instr"
	"github.com/sarchlab/cibyl/listing"
)

func packedClasses() []core.Class {
	b := core.NewProcedureBuilder()

	// Built out of address order to check sorting.
	high := b.Build("high", []*instr.Instruction{
		instr.New(0x2000, instr.OpJr, instr.RA, 0, 0, 0),
	})
	low := b.Build("low", []*instr.Instruction{
		instr.New(0x1000, instr.OpSw, instr.SP, instr.S0, 0, 16),
		instr.New(0x1004, instr.OpJr, instr.RA, 0, 0, 0),
	})

	return core.PackClasses([]*core.Procedure{high, low}, 1)
}

var _ = Describe("Listing", func() {
	It("should record owner, class and nullification in address order", func() {
		l := listing.FromClasses(packedClasses())

		Expect(l.Version).To(Equal(listing.Version))
		Expect(l.Entries).To(Equal([]listing.Entry{
			{Address: 0x1000, Procedure: "low", Class: "Cibyl1", Nullified: true},
			{Address: 0x1004, Procedure: "low", Class: "Cibyl1"},
			{Address: 0x2000, Procedure: "high", Class: "Cibyl"},
		}))
	})

	It("should look up instructions by address", func() {
		l := listing.FromClasses(packedClasses())

		e, ok := l.Lookup(0x1004)
		Expect(ok).To(BeTrue())
		Expect(e.Procedure).To(Equal("low"))

		_, ok = l.Lookup(0x1008)
		Expect(ok).To(BeFalse())
	})

	It("should encode deterministically", func() {
		a, err := listing.Marshal(listing.FromClasses(packedClasses()))
		Expect(err).NotTo(HaveOccurred())
		b, err := listing.Marshal(listing.FromClasses(packedClasses()))
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(Equal(b))
	})

	It("should survive a trip through a file", func() {
		dir, err := os.MkdirTemp("", "listing")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		path := filepath.Join(dir, "cibyl.lst")
		l := listing.FromClasses(packedClasses())
		Expect(listing.WriteFile(path, l)).To(Succeed())

		back, err := listing.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(back).To(Equal(l))
	})

	It("should reject other versions", func() {
		data, err := cbor.Marshal(listing.Listing{Version: 7})
		Expect(err).NotTo(HaveOccurred())

		_, err = listing.Unmarshal(data)
		Expect(err).To(MatchError(ContainSubstring("unsupported version 7")))
	})

	It("should reject garbage", func() {
		_, err := listing.Unmarshal([]byte{0xff, 0x00})
		Expect(err).To(HaveOccurred())
	})

	It("should report a missing file", func() {
		_, err := listing.ReadFile("/nonexistent/cibyl.lst")
		Expect(err).To(HaveOccurred())
	})
})
