// Package i2cbus opens Linux I2C buses as transports for the pt2258
// driver, using periph.io for the kernel interface.
package i2cbus

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// Bus is one opened I2C bus. It implements pt2258.Bus, and sync.Locker
// so that driver instruction sequences serialize per physical bus when
// several devices or goroutines share it.
type Bus struct {
	sync.Mutex
	name string
	bus  i2c.BusCloser
}

// Open opens the bus named by a periph reference such as "1" or
// "/dev/i2c-1". Host drivers are initialized on first use.
func Open(name string) (*Bus, error) {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	if hostErr != nil {
		return nil, fmt.Errorf("initializing host drivers: %w", hostErr)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening i2c bus %q: %w", name, err)
	}
	return &Bus{name: name, bus: b}, nil
}

// Write issues one write transaction to the device at the 7-bit address
// addr.
func (b *Bus) Write(addr byte, p []byte) error {
	return b.bus.Tx(uint16(addr), p, nil)
}

// Close releases the underlying bus.
func (b *Bus) Close() error {
	return b.bus.Close()
}

func (b *Bus) String() string {
	return b.name
}
