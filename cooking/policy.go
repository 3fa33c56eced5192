package cooking

import "math/rand"

const (
	// MinCookTime and MaxCookTime bound the cook time of a single freshly added unit.
	MinCookTime int32 = 5
	MaxCookTime int32 = 15
)

// Policy decides the cook time of a newly added order item.
type Policy interface {
	InitialCookTime() int32
}

// UniformPolicy draws the initial cook time uniformly from [Min, Max].
type UniformPolicy struct {
	Min int32
	Max int32
}

// DefaultPolicy returns the policy used by the service.
func DefaultPolicy() UniformPolicy {
	return UniformPolicy{Min: MinCookTime, Max: MaxCookTime}
}

func (p UniformPolicy) InitialCookTime() int32 {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + rand.Int31n(p.Max-p.Min+1)
}

// PerUnit recovers the per-unit cook time from an aggregate. Integer division
// truncates toward zero.
func PerUnit(cookTime, quantity int32) int32 {
	if quantity <= 0 {
		return cookTime
	}
	return cookTime / quantity
}

// ScaleUp returns the aggregate cook time after quantity grows by one.
//
// The per-unit time is recomputed from the truncated aggregate on every call,
// so the remainder is lost: cookTime=13 at quantity=2 becomes 18 at
// quantity=3, not 19.5. Items that need exact proportional scaling would have
// to store the per-unit time instead of deriving it.
func ScaleUp(cookTime, quantity int32) int32 {
	if quantity <= 0 {
		quantity = 1
	}
	return PerUnit(cookTime, quantity) * (quantity + 1)
}

// ScaleDown returns the aggregate cook time and quantity after one unit is
// removed. ok is false when quantity is 1 or less; such items are deleted
// rather than scaled to zero. The same truncation as ScaleUp applies.
func ScaleDown(cookTime, quantity int32) (newCookTime, newQuantity int32, ok bool) {
	if quantity <= 1 {
		return cookTime, quantity, false
	}
	return cookTime - PerUnit(cookTime, quantity), quantity - 1, true
}
