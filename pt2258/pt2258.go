// Package pt2258 drives the Princeton Technology PT2258 6-channel
// electronic volume controller over a two-wire bus.
//
// Attenuation values are in dB: 0 is full volume, 79 is maximum
// attenuation. Each value is programmed as a 10dB step instruction
// followed by a 1dB step instruction. The driver tracks the last level
// confirmed on the wire per channel and for the master stage, so mute
// and single-channel updates never disturb unrelated state.
package pt2258

import "sync"

type volume struct {
	db    int
	known bool
}

// Device is one PT2258 on a bus. Devices with different strap addresses
// may share a single Bus.
type Device struct {
	bus  Bus
	addr byte // 7-bit wire address

	mu       sync.Mutex
	master   volume
	channels [Channels]volume
	muted    bool
}

// New binds bus and the device's 8-bit datasheet address, which must be
// one of Addresses. No bus traffic is generated; every level reports as
// unknown until the first successful write.
func New(bus Bus, address byte) (*Device, error) {
	legal := false
	for _, a := range Addresses {
		if address == a {
			legal = true
			break
		}
	}
	if !legal {
		return nil, ErrInvalidAddress
	}
	return &Device{bus: bus, addr: address >> 1}, nil
}

// Address returns the 7-bit address the device is driven at on the wire.
func (d *Device) Address() byte {
	return d.addr
}

// send writes each instruction as its own one-byte transaction, in
// order, stopping at the first failure. The bus lock, when the bus
// provides one, is held across the whole sequence.
func (d *Device) send(instructions ...byte) error {
	if l, ok := d.bus.(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}
	for _, ins := range instructions {
		if err := d.bus.Write(d.addr, []byte{ins}); err != nil {
			return err
		}
	}
	return nil
}

// SetMasterVolume programs the master attenuation stage. The stored
// master level changes only after both instruction bytes are confirmed
// on the wire; a transport failure leaves it at the last known-good
// value.
func (d *Device) SetMasterVolume(db int) error {
	ins, err := Encode(Master, db)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.send(ins[0], ins[1]); err != nil {
		return err
	}
	d.master = volume{db: db, known: true}
	return nil
}

// SetChannelVolume programs one channel's attenuation stage. Channels
// are numbered 0 through 5. Other channels and the master stage are left
// untouched.
func (d *Device) SetChannelVolume(channel, db int) error {
	if channel < 0 || channel >= Channels {
		return ErrInvalidChannel
	}
	ins, err := Encode(Target(channel), db)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.send(ins[0], ins[1]); err != nil {
		return err
	}
	d.channels[channel] = volume{db: db, known: true}
	return nil
}

// SetMute silences or restores all six outputs with a single
// instruction. Stored channel and master levels are untouched; unmuting
// resumes at the previously programmed levels without resending them.
func (d *Device) SetMute(on bool) error {
	ins := byte(regMute)
	if on {
		ins |= 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.send(ins); err != nil {
		return err
	}
	d.muted = on
	return nil
}

// Clear writes the clear-register instruction, which resets every
// attenuation stage to 0dB and unmutes. The datasheet recommends it as
// the first instruction after power-on.
func (d *Device) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.send(regClear); err != nil {
		return err
	}
	d.master = volume{db: 0, known: true}
	for i := range d.channels {
		d.channels[i] = volume{db: 0, known: true}
	}
	d.muted = false
	return nil
}

// MasterVolume reports the last master attenuation confirmed on the
// wire. ok is false until the first successful write.
func (d *Device) MasterVolume() (db int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.master.db, d.master.known
}

// ChannelVolume reports the last confirmed attenuation for channel. ok
// is false before the first successful write, or when channel is out of
// range.
func (d *Device) ChannelVolume(channel int) (db int, ok bool) {
	if channel < 0 || channel >= Channels {
		return 0, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.channels[channel]
	return v.db, v.known
}

// Muted reports whether the device was last commanded to mute.
func (d *Device) Muted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.muted
}
