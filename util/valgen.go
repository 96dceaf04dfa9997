// Some helpers using closures to generate values
package valgen

// WordSize is the distance between two consecutive instructions.
const WordSize = 4

func MakeConstGen(constant uint32) func() uint32 {
	return func() uint32 {
		return constant
	}
}

// MakeAddressGen returns start, then every following instruction address.
func MakeAddressGen(start uint32) func() uint32 {
	next := start
	return func() uint32 {
		current := next
		next += WordSize
		return current
	}
}
