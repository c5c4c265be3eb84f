package buffer_slot

// BufferSlotBuilderOption is a functional option used to configure a BufferSlot during construction.
type BufferSlotBuilderOption func(*bufferSlot)

// WithLabel overrides the debug label prefix of the slot's buffers. Defaults to "slot <drawOrder>".
//
// Parameters:
//   - label: the label prefix
//
// Returns:
//   - BufferSlotBuilderOption: a function that sets the label
func WithLabel(label string) BufferSlotBuilderOption {
	return func(s *bufferSlot) {
		s.label = label
	}
}
