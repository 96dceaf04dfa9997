package core

import "fmt"

// CallTableClassName is the name of the class that dispatches indirect calls.
const CallTableClassName = "CibylCallTable"

// Class is one output class file holding a run of procedures.
type Class struct {
	Name       string
	Procedures []*Procedure
}

// Size returns the accumulated size of the procedures in the class.
func (c Class) Size() int {
	size := 0
	for _, p := range c.Procedures {
		size += p.Size()
	}

	return size
}

// FileName returns the name of the assembler file generated for the class.
func (c Class) FileName() string {
	return c.Name + ".j"
}

// PackClasses distributes procedures over classes in order. A class is
// closed once its size reaches limit, so a class may exceed the limit by its
// last procedure. Every class holds at least one procedure, so a limit of
// zero or less puts each procedure in its own class. The call table class
// is always appended last.
func PackClasses(procs []*Procedure, limit int) []Class {
	var classes []Class

	for first := 0; first < len(procs); {
		size := 0
		last := first
		for last == first || (size < limit && last < len(procs)) {
			size += procs[last].Size()
			last++
		}

		classes = append(classes, Class{
			Name:       className(len(classes)),
			Procedures: procs[first:last],
		})
		first = last
	}

	return append(classes, Class{Name: CallTableClassName})
}

func className(n int) string {
	if n == 0 {
		return "Cibyl"
	}

	return fmt.Sprintf("Cibyl%d", n)
}
