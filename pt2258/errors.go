package pt2258

import "errors"

var (
	// ErrInvalidAddress indicates a device address outside the four
	// strap-selectable values in Addresses.
	ErrInvalidAddress = errors.New("pt2258: address must be one of 0x80, 0x84, 0x88, 0x8C")

	// ErrInvalidChannel indicates a channel index outside 0-5.
	ErrInvalidChannel = errors.New("pt2258: channel must be between 0 and 5")

	// ErrOutOfRange indicates an attenuation value outside 0-79.
	ErrOutOfRange = errors.New("pt2258: attenuation must be between 0 and 79 dB")
)
