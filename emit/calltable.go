package emit

import (
	"io"
	"sort"

	"github.com/sarchlab/cibyl/core"
)

type callTarget struct {
	address int32
	class   string
	method  string
}

// WriteCallTable writes the class that dispatches calls by procedure
// address. The first argument of call is the callee address, the rest are
// handed to the callee unchanged. Unknown addresses return 0.
func WriteCallTable(out io.Writer, classes []core.Class) error {
	var targets []callTarget
	for _, c := range classes {
		for _, p := range c.Procedures {
			targets = append(targets, callTarget{
				address: int32(p.Address()),
				class:   c.Name,
				method:  p.Name(),
			})
		}
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].address < targets[j].address
	})

	w := NewWriter(out)
	labels := NewLabelTable()

	if err := w.BeginClass(core.CallTableClassName); err != nil {
		return err
	}

	err := w.printf(".method public static call(IIIIII)I\n"+
		"\t.limit locals 6\n\t.limit stack 6\n"+
		"\tiload 0\n\tlookupswitch\n")
	if err != nil {
		return err
	}

	for _, t := range targets {
		if err := w.printf("\t  %d : %s\n", t.address, labels.Name(uint32(t.address))); err != nil {
			return err
		}
	}

	if err := w.printf("\t  default : L_default\n"); err != nil {
		return err
	}

	for _, t := range targets {
		if err := w.printf("%s:\n", labels.Define(uint32(t.address))); err != nil {
			return err
		}

		for arg := 1; arg <= 5; arg++ {
			if err := w.op("iload %d", arg); err != nil {
				return err
			}
		}

		err := w.sequence(
			w.emit("invokestatic %s/%s%s", t.class, t.method, methodSig),
			w.emit("ireturn"))
		if err != nil {
			return err
		}
	}

	return w.printf("L_default:\n\ticonst_0\n\tireturn\n.end method\n")
}
