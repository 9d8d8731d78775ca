package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (i-j == 0, return 0)
//  2. i > j (i-j > 0, return 1), turn to right part.
//  3. i < j (i-j < 0, return -1), turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

// KeyLess is a strict weak ordering. It reports whether i must be
// placed before j.
type KeyLess[T any] func(i, j T) bool

func AscKeyComparator[K OrderedKey]() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}

func DescKeyComparator[K OrderedKey]() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return 1
		}
		return -1
	}
}

// Less converts the three-way comparator into a strict weak ordering.
func (cmp OrderedKeyComparator[K]) Less() KeyLess[K] {
	return func(i, j K) bool {
		return cmp(i, j) < 0
	}
}

// Compare derives the three-way result from a strict weak ordering.
// Equivalence is !less(i, j) && !less(j, i).
func (less KeyLess[T]) Compare(i, j T) int64 {
	if less(i, j) {
		return -1
	} else if less(j, i) {
		return 1
	}
	return 0
}

// Reverse flips the ordering.
func (less KeyLess[T]) Reverse() KeyLess[T] {
	return func(i, j T) bool {
		return less(j, i)
	}
}
