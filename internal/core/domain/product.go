package domain

// Product is a catalogue product. It follows the same soft-delete lifecycle as hives.
type Product struct {
	ID        int
	Code      string
	Name      string
	IsDeleted bool
	Audit
}

// State returns the lifecycle state of the product.
func (p Product) State() LifecycleState {
	return StateOf(p.IsDeleted)
}
