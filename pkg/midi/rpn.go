package midi

// Controllers that make up RPN and NRPN sequences.
const (
	ccDataEntryMSB = 6
	ccDataEntryLSB = 38
	ccDataInc      = 96
	ccDataDec      = 97
	ccNRPNLSB      = 98
	ccNRPNMSB      = 99
	ccRPNLSB       = 100
	ccRPNMSB       = 101

	rpnNull = 0x7F
)

// RpnMessage is one assembled registered or non-registered parameter
// change. Number and Value are 14-bit.
type RpnMessage struct {
	Channel    uint8
	Registered bool
	Number     uint16
	Value      uint16
}

// Event converts an assembled message into the matching high-resolution
// controller event at the given frame.
func (m RpnMessage) Event(frame int32) Event {
	if m.Registered {
		return RegisteredControl(frame, m.Channel, m.Number, float64(m.Value)/16383)
	}
	return AssignableControl(frame, m.Channel, m.Number, float64(m.Value)/16383)
}

type rpnChannel struct {
	registered bool
	selected   bool
	numMSB     uint8
	numLSB     uint8
	numMSBSet  bool
	numLSBSet  bool
	value      uint16
	valueKnown bool
}

// RpnTracker assembles multi-CC RPN and NRPN sequences per channel.
// Incomplete or malformed sequences, such as data entry with no selected
// parameter, are dropped silently; that matches how hardware behaves when
// select messages are lost.
type RpnTracker struct {
	ch [16]rpnChannel
}

// Feed consumes one control change. When the CC completes a parameter
// change it returns the assembled message and true; select CCs and
// partial sequences return false. CCs unrelated to RPN handling also
// return false, so callers can pass every CC through unconditionally.
func (t *RpnTracker) Feed(channel, controller, value uint8) (RpnMessage, bool) {
	c := &t.ch[channel&0x0F]
	value &= 0x7F

	switch controller {
	case ccRPNMSB:
		c.switchKind(true)
		c.numMSB, c.numMSBSet = value, true
		c.finishSelect()
	case ccRPNLSB:
		c.switchKind(true)
		c.numLSB, c.numLSBSet = value, true
		c.finishSelect()
	case ccNRPNMSB:
		c.switchKind(false)
		c.numMSB, c.numMSBSet = value, true
		c.finishSelect()
	case ccNRPNLSB:
		c.switchKind(false)
		c.numLSB, c.numLSBSet = value, true
		c.finishSelect()

	case ccDataEntryMSB:
		if !c.selected {
			return RpnMessage{}, false
		}
		c.value = uint16(value) << 7
		c.valueKnown = true
		return c.message(channel), true

	case ccDataEntryLSB:
		if !c.selected || !c.valueKnown {
			return RpnMessage{}, false
		}
		c.value = c.value&(0x7F<<7) | uint16(value)
		return c.message(channel), true

	case ccDataInc:
		if !c.selected || !c.valueKnown {
			return RpnMessage{}, false
		}
		if c.value < 16383 {
			c.value++
		}
		return c.message(channel), true

	case ccDataDec:
		if !c.selected || !c.valueKnown {
			return RpnMessage{}, false
		}
		if c.value > 0 {
			c.value--
		}
		return c.message(channel), true
	}
	return RpnMessage{}, false
}

// IsRpnController reports whether a CC number participates in RPN/NRPN
// sequences and should be withheld from plain CC handling when a tracker
// is active.
func IsRpnController(controller uint8) bool {
	switch controller {
	case ccDataEntryMSB, ccDataEntryLSB, ccDataInc, ccDataDec,
		ccNRPNLSB, ccNRPNMSB, ccRPNLSB, ccRPNMSB:
		return true
	}
	return false
}

// Reset clears all per-channel selections.
func (t *RpnTracker) Reset() {
	*t = RpnTracker{}
}

// switchKind resets number and data state when a select CC moves the
// channel between RPN and NRPN, so a stale value cannot leak across
// kinds.
func (c *rpnChannel) switchKind(registered bool) {
	if c.registered != registered {
		c.numMSBSet = false
		c.numLSBSet = false
		c.valueKnown = false
	}
	c.registered = registered
}

// finishSelect updates the selected flag after a select CC. The null
// number 127,127 deselects per the MIDI spec.
func (c *rpnChannel) finishSelect() {
	c.valueKnown = false
	c.selected = c.numMSBSet && c.numLSBSet &&
		!(c.numMSB == rpnNull && c.numLSB == rpnNull)
}

func (c *rpnChannel) message(channel uint8) RpnMessage {
	return RpnMessage{
		Channel:    channel & 0x0F,
		Registered: c.registered,
		Number:     uint16(c.numMSB)<<7 | uint16(c.numLSB),
		Value:      c.value,
	}
}
