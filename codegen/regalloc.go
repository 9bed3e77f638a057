package codegen

import (
	"fmt"

	"github.com/skx/pine/stack"
)

// tempRegs is the fixed pool of scratch registers the generator may hand
// out. There are no callee-saved registers in play: every Pine program is
// one leaf function, so t0-t6 is all the register pressure it ever needs
// to manage itself.
var tempRegs = []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"}

// registerValue is a handle to one live value. It is either resident in a
// physical register or spilled to its frame slot; callers never see which
// without calling Materialize.
type registerValue struct {
	id      int
	reg     string
	slot    int
	spilled bool
}

// registerFile tracks which of the seven temporaries are in use and
// manages spilling the oldest live value to the stack frame when all seven
// are taken. Spilled values reuse offsets recycled through a free-slot
// stack before growing into new frame space.
type registerFile struct {
	free   map[string]bool
	holder map[string]*registerValue // reg -> resident value, for busy regs
	live   []*registerValue          // oldest first; candidates for eviction

	freeSlots *stack.Stack
	nextSlot  int
	spillBase int
	spillSize int

	nextID int
}

// newRegisterFile creates an allocator whose spill region is the byte
// range [spillBase, spillBase+spillSize) of the stack frame.
func newRegisterFile(spillBase, spillSize int) *registerFile {
	free := make(map[string]bool, len(tempRegs))
	for _, r := range tempRegs {
		free[r] = true
	}
	return &registerFile{
		free:      free,
		holder:    make(map[string]*registerValue),
		freeSlots: stack.New(),
		spillBase: spillBase,
		spillSize: spillSize,
	}
}

// acquireReg returns a free physical register name, spilling the oldest
// live value if all seven are currently resident. It does not construct a
// registerValue: Acquire and Materialize each do that differently.
func (r *registerFile) acquireReg(emit func(asm string)) (string, error) {
	for _, name := range tempRegs {
		if r.free[name] {
			delete(r.free, name)
			return name, nil
		}
	}

	// Every temporary is busy: evict the oldest still-resident value.
	var victim *registerValue
	for _, v := range r.live {
		if !v.spilled {
			victim = v
			break
		}
	}
	if victim == nil {
		return "", errSpillExhausted
	}

	reg := victim.reg
	if err := r.spill(victim, emit); err != nil {
		return "", err
	}
	return reg, nil
}

// Acquire hands the caller a fresh live value bound to a physical
// register.
func (r *registerFile) Acquire(emit func(asm string)) (*registerValue, error) {
	reg, err := r.acquireReg(emit)
	if err != nil {
		return nil, err
	}
	v := &registerValue{id: r.nextID, reg: reg}
	r.nextID++
	r.holder[reg] = v
	r.live = append(r.live, v)
	return v, nil
}

// spill evicts v from its physical register to a frame slot, emitting the
// store instruction. v.reg is left set to the name being vacated; the
// caller is responsible for handing that register to its next occupant.
func (r *registerFile) spill(v *registerValue, emit func(asm string)) error {
	slot, err := r.allocSlot()
	if err != nil {
		return err
	}
	emit(sw(v.reg, r.spillBase+slot))
	delete(r.holder, v.reg)
	v.slot = slot
	v.spilled = true
	return nil
}

func (r *registerFile) allocSlot() (int, error) {
	if slot, ok := r.freeSlots.Pop(); ok {
		return slot, nil
	}
	if r.nextSlot+4 > r.spillSize {
		return 0, errSpillExhausted
	}
	slot := r.nextSlot
	r.nextSlot += 4
	return slot, nil
}

// Materialize guarantees v is resident in a physical register, reloading
// it from its spill slot if necessary, and returns that register's name.
// It mutates v in place rather than allocating a second handle, so every
// other reference to v observes the reload.
func (r *registerFile) Materialize(v *registerValue, emit func(asm string)) (string, error) {
	if !v.spilled {
		return v.reg, nil
	}
	reg, err := r.acquireReg(emit)
	if err != nil {
		return "", err
	}
	emit(lw(reg, r.spillBase+v.slot))
	r.freeSlots.Push(v.slot)
	v.reg = reg
	v.spilled = false
	r.holder[reg] = v
	return reg, nil
}

// Release frees v's resources: its physical register if resident, or its
// spill slot (recycled for the next spill) if not.
func (r *registerFile) Release(v *registerValue) {
	if v.spilled {
		r.freeSlots.Push(v.slot)
	} else {
		delete(r.holder, v.reg)
		r.free[v.reg] = true
	}
	r.dropLive(v)
}

func (r *registerFile) dropLive(v *registerValue) {
	for i, live := range r.live {
		if live == v {
			r.live = append(r.live[:i], r.live[i+1:]...)
			return
		}
	}
}

func sw(reg string, off int) string {
	return fmt.Sprintf("sw %s, %d(sp)", reg, off)
}

func lw(reg string, off int) string {
	return fmt.Sprintf("lw %s, %d(sp)", reg, off)
}
