package pt2258

// Bus is the write half of a two-wire bus shared by every device on it.
// Write issues one bus transaction carrying p to the device at the 7-bit
// address addr.
//
// An implementation serving concurrent callers must also implement
// sync.Locker. The driver then holds the lock for a device's full
// instruction sequence, so that the coarse and fine steps of two
// concurrent volume updates cannot interleave on the wire. The lock
// scope is the physical bus, not an individual device.
type Bus interface {
	Write(addr byte, p []byte) error
}
