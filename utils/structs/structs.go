// Package structs implements a generic vector of serializable structs.
package structs

// Equatable is implemented by types that can be compared for deep equality.
type Equatable[T any] interface {
	Equal(*T) bool
}

type Cloner[V any] interface {
	Clone() *V
}

type Copyer[V any] interface {
	Copy(*V)
}

type BinarySizer interface {
	BinarySize() int
}
