package midi

// Bend values travel internally as float64 in [-1,+1] and on the wire as
// 14-bit unsigned with 8192 meaning center. The conversions here are the
// single source of truth for that mapping.

// BendTo14 converts a [-1,+1] bend to the 14-bit wire value.
func BendTo14(bend float64) uint16 {
	if bend < -1 {
		bend = -1
	} else if bend > 1 {
		bend = 1
	}
	v := int(bend*8192+0.5) + 8192
	if bend < 0 {
		v = int(bend*8192-0.5) + 8192
	}
	if v < 0 {
		v = 0
	}
	if v > 16383 {
		v = 16383
	}
	return uint16(v)
}

// BendFrom14 converts a 14-bit wire value to [-1,+1]. 8192 maps to
// exactly 0.
func BendFrom14(v uint16) float64 {
	if v > 16383 {
		v = 16383
	}
	return float64(int(v)-8192) / 8192
}

// BendBytes splits a bend into the LSB, MSB data byte pair used by MIDI
// 1.0 pitch bend messages.
func BendBytes(bend float64) (lsb, msb uint8) {
	v := BendTo14(bend)
	return uint8(v & 0x7F), uint8(v >> 7)
}

// BendFromBytes recombines an LSB, MSB pair.
func BendFromBytes(lsb, msb uint8) float64 {
	return BendFrom14(uint16(msb&0x7F)<<7 | uint16(lsb&0x7F))
}
