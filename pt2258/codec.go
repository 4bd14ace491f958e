package pt2258

// Target selects the attenuation stage an instruction addresses: one of
// the six input channels (0-5), or Master.
type Target int8

// Master addresses the device-wide attenuation stage, applied by the IC
// on top of each channel's own attenuation.
const Master Target = -1

func (t Target) valid() bool {
	return t == Master || (t >= 0 && int(t) < Channels)
}

func (t Target) registers() (coarse, fine byte) {
	if t == Master {
		return regMasterCoarse, regMasterFine
	}
	r := channelRegs[t]
	return r[0], r[1]
}

// Encode translates an attenuation value into the instruction pair that
// programs it: the 10dB step first, then the 1dB step. It performs no
// bus I/O.
func Encode(target Target, db int) ([2]byte, error) {
	if !target.valid() {
		return [2]byte{}, ErrInvalidChannel
	}
	if db < 0 || db > MaxAttenuation {
		return [2]byte{}, ErrOutOfRange
	}
	coarse, fine := target.registers()
	return [2]byte{coarse | byte(db/10), fine | byte(db%10)}, nil
}

// DecodeStep recovers the attenuation step carried by an instruction
// byte. For a coarse instruction the step is tens of dB, for a fine
// instruction single dB.
func DecodeStep(instruction byte) int {
	return int(instruction & 0x0F)
}
