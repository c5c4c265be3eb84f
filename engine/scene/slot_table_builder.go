package scene

import "github.com/Carmen-Shannon/oxy-spine/common"

// SlotTableBuilderOption is a functional option for configuring a SlotTable.
type SlotTableBuilderOption func(*slotTable)

// WithSlotAllocator sets the allocator used for the per-slot world vertex scratch space.
// Defaults to common.NewHeapAllocator().
//
// Parameters:
//   - alloc: the allocator
//
// Returns:
//   - SlotTableBuilderOption: option function to apply
func WithSlotAllocator(alloc common.Allocator) SlotTableBuilderOption {
	return func(t *slotTable) {
		if alloc != nil {
			t.alloc = alloc
		}
	}
}
