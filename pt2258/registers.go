package pt2258

// Constants from the PT2258 datasheet. An instruction byte carries the
// function register in its high nibble and the attenuation step in its
// low nibble.
const (
	regClear        = 0xC0
	regMasterCoarse = 0xD0 // master 10dB steps
	regMasterFine   = 0xE0 // master 1dB steps
	regMute         = 0xF8
)

// Channels is the number of independent attenuation channels.
const Channels = 6

// MaxAttenuation is the largest programmable attenuation, in dB.
const MaxAttenuation = 79

// Per-channel (coarse, fine) instruction registers. The scattered values
// are the datasheet's channel mapping, not a numeric progression.
var channelRegs = [Channels][2]byte{
	{0x80, 0x90},
	{0x40, 0x50},
	{0x00, 0x10},
	{0x20, 0x30},
	{0x60, 0x70},
	{0xA0, 0xB0},
}

// Addresses lists the four legal device addresses, selected by the CODE1
// and CODE2 strap pins. These are the 8-bit datasheet values; the wire
// carries the 7-bit form (address >> 1).
var Addresses = [4]byte{0x80, 0x84, 0x88, 0x8C}
