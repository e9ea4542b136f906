// Package input implements the Game Boy joypad matrix and P1/JOYP register.
package input

// Button identifies one of the eight Game Boy buttons.
type Button uint8

// The eight buttons, split across the two matrix rows.
const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

// Joypad holds the button states and decodes the 2x4 matrix that games read
// through P1 (0xFF00). It is a pure decoder: the selection bits written by
// the CPU pick which row appears in the low nibble, active-low.
type Joypad struct {
	pressed [8]bool

	// Last-written bits 4-5 of P1: bit 4 low selects directions,
	// bit 5 low selects actions.
	selection uint8

	// Latched on release->press transitions; the Bus folds it into IF.
	irqPending bool
}

// New creates a Joypad with nothing pressed and neither row selected.
func New() *Joypad {
	return &Joypad{selection: 0x30}
}

// Read returns the P1/JOYP register value.
func (j *Joypad) Read() uint8 {
	// Bits 7-6 are unused and read 1; bits 3-0 start released (1).
	value := 0xC0 | j.selection | 0x0F

	if j.selection&0x10 == 0 { // directions row
		if j.pressed[ButtonRight] {
			value &^= 0x01
		}
		if j.pressed[ButtonLeft] {
			value &^= 0x02
		}
		if j.pressed[ButtonUp] {
			value &^= 0x04
		}
		if j.pressed[ButtonDown] {
			value &^= 0x08
		}
	}

	if j.selection&0x20 == 0 { // actions row
		if j.pressed[ButtonA] {
			value &^= 0x01
		}
		if j.pressed[ButtonB] {
			value &^= 0x02
		}
		if j.pressed[ButtonSelect] {
			value &^= 0x04
		}
		if j.pressed[ButtonStart] {
			value &^= 0x08
		}
	}

	return value
}

// Write updates the row selection; only bits 4-5 are writable.
func (j *Joypad) Write(value uint8) {
	j.selection = value & 0x30
}

// KeyDown marks a button pressed. The interrupt latch is set only on a
// release->press transition; hardware fires on high-to-low row edges, and
// latching on key-press approximates that closely enough for games.
func (j *Joypad) KeyDown(b Button) {
	if b > ButtonStart {
		return
	}

	// Opposite D-pad directions cannot be held simultaneously.
	switch b {
	case ButtonUp:
		if j.pressed[ButtonDown] {
			return
		}
	case ButtonDown:
		if j.pressed[ButtonUp] {
			return
		}
	case ButtonLeft:
		if j.pressed[ButtonRight] {
			return
		}
	case ButtonRight:
		if j.pressed[ButtonLeft] {
			return
		}
	}

	if !j.pressed[b] {
		j.irqPending = true
	}
	j.pressed[b] = true
}

// KeyUp marks a button released.
func (j *Joypad) KeyUp(b Button) {
	if b <= ButtonStart {
		j.pressed[b] = false
	}
}

// ConsumeInterrupt reports whether a press was latched since the last call
// and clears the latch.
func (j *Joypad) ConsumeInterrupt() bool {
	pending := j.irqPending
	j.irqPending = false
	return pending
}
