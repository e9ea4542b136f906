package input

import (
	"testing"
)

func TestNothingSelected(t *testing.T) {
	j := New()

	// With both select bits high, the low nibble reads all released.
	if got := j.Read(); got != 0xFF {
		t.Errorf("Read() = %02X, want 0xFF", got)
	}
}

func TestDirectionRow(t *testing.T) {
	j := New()
	j.KeyDown(ButtonRight)
	j.KeyDown(ButtonUp)

	j.Write(0x20) // bit 4 low: directions selected
	got := j.Read()

	if got&0xC0 != 0xC0 {
		t.Errorf("bits 7-6 = %02X, want set", got&0xC0)
	}
	if got&0x01 != 0 {
		t.Error("Right should read low")
	}
	if got&0x04 != 0 {
		t.Error("Up should read low")
	}
	if got&0x0A != 0x0A {
		t.Errorf("Left/Down should read high, got %02X", got)
	}
}

func TestActionRow(t *testing.T) {
	j := New()
	j.KeyDown(ButtonA)
	j.KeyDown(ButtonStart)

	j.Write(0x10) // bit 5 low: actions selected
	got := j.Read()

	if got&0x01 != 0 {
		t.Error("A should read low")
	}
	if got&0x08 != 0 {
		t.Error("Start should read low")
	}
	if got&0x06 != 0x06 {
		t.Errorf("B/Select should read high, got %02X", got)
	}
}

func TestRowNotSelected(t *testing.T) {
	j := New()
	j.KeyDown(ButtonA)

	j.Write(0x20) // directions selected; A is in the action row
	if got := j.Read(); got&0x0F != 0x0F {
		t.Errorf("low nibble = %02X, want all released", got&0x0F)
	}
}

func TestBothRowsSelected(t *testing.T) {
	j := New()
	j.KeyDown(ButtonB)    // bit 1 of the action row
	j.KeyDown(ButtonLeft) // bit 1 of the direction row

	j.Write(0x00)
	if got := j.Read(); got&0x02 != 0 {
		t.Errorf("bit 1 = high, want low with either row pressed (got %02X)", got)
	}
}

func TestSelectionBitsStored(t *testing.T) {
	j := New()

	j.Write(0xFF) // only bits 4-5 stick
	if got := j.Read() & 0x30; got != 0x30 {
		t.Errorf("selection bits = %02X, want 0x30", got)
	}

	j.Write(0x00)
	if got := j.Read() & 0x30; got != 0x00 {
		t.Errorf("selection bits = %02X, want 0x00", got)
	}
}

func TestKeyUp(t *testing.T) {
	j := New()
	j.KeyDown(ButtonA)
	j.KeyUp(ButtonA)

	j.Write(0x10)
	if got := j.Read(); got&0x01 != 0x01 {
		t.Errorf("A should read released after KeyUp, got %02X", got)
	}
}

func TestInterruptLatchedOnPress(t *testing.T) {
	j := New()

	if j.ConsumeInterrupt() {
		t.Error("no interrupt expected before any press")
	}

	j.KeyDown(ButtonStart)
	if !j.ConsumeInterrupt() {
		t.Error("press should latch an interrupt")
	}
	if j.ConsumeInterrupt() {
		t.Error("latch should clear after consumption")
	}

	// Holding the button does not re-latch.
	j.KeyDown(ButtonStart)
	if j.ConsumeInterrupt() {
		t.Error("repeated KeyDown of a held button must not re-latch")
	}

	// Release and press again does.
	j.KeyUp(ButtonStart)
	j.KeyDown(ButtonStart)
	if !j.ConsumeInterrupt() {
		t.Error("fresh press should latch again")
	}
}

func TestOppositeDirectionsBlocked(t *testing.T) {
	j := New()
	j.KeyDown(ButtonLeft)
	j.KeyDown(ButtonRight) // ignored while Left is held

	j.Write(0x20)
	got := j.Read()
	if got&0x02 != 0 {
		t.Error("Left should read low")
	}
	if got&0x01 == 0 {
		t.Error("Right should stay released while Left is held")
	}
}
