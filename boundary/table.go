package boundary

import (
	"sync"
	"unsafe"
)

// table is a generation-tagged slot arena mapping opaque int64 handles to
// live instances. A handle packs the slot index (plus one, so 0 stays the
// failure sentinel) into the low 32 bits and the slot's generation into the
// high 32 bits; freeing a slot bumps the generation, so a stale handle can
// never address the slot's next occupant.
type table[T any] struct {
	mu    sync.Mutex
	slots []slot[T]
	free  []int32
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

func (t *table[T]) put(value T) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var index int32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot[T]{})
		index = int32(len(t.slots) - 1)
	}

	s := &t.slots[index]
	s.value = value
	s.live = true

	return int64(s.gen)<<32 | int64(index+1)
}

// get resolves a handle to its instance; ok is false for the zero handle,
// forged handles, and handles whose slot has since been freed.
func (t *table[T]) get(handle int64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T

	index := int32(handle&0xffffffff) - 1
	if index < 0 || int(index) >= len(t.slots) {
		return zero, false
	}

	s := &t.slots[index]
	if !s.live || s.gen != uint32(handle>>32) {
		return zero, false
	}

	return s.value, true
}

// take resolves a handle and frees its slot in one step, bumping the
// generation so the handle value is dead from here on.
func (t *table[T]) take(handle int64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T

	index := int32(handle&0xffffffff) - 1
	if index < 0 || int(index) >= len(t.slots) {
		return zero, false
	}

	s := &t.slots[index]
	if !s.live || s.gen != uint32(handle>>32) {
		return zero, false
	}

	value := s.value
	s.value = zero
	s.live = false
	s.gen++
	t.free = append(t.free, index)

	return value, true
}

// sampleView reinterprets a byte buffer as native-order 16-bit samples
// without copying. The buffer must be non-empty, even-length, and 2-byte
// aligned; violations return a nil view.
func sampleView(buf []byte) []int16 {
	if len(buf) == 0 || len(buf)%2 != 0 {
		return nil
	}
	if uintptr(unsafe.Pointer(&buf[0]))%2 != 0 {
		return nil
	}

	return unsafe.Slice((*int16)(unsafe.Pointer(&buf[0])), len(buf)/2)
}
