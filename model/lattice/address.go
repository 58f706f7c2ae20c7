package lattice

// Address identifies an account on the chain. Workers, target contracts and
// the governance account are all referenced by address. The engine treats
// addresses as opaque identifiers; format validation happens at the host
// boundary before any message reaches the accounting core.
type Address string

// EmptyAddress is the zero value of Address.
const EmptyAddress Address = ""

// String returns the string representation of the address.
func (a Address) String() string {
	return string(a)
}
