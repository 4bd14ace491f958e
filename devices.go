package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/elijahnyp/audio_controller/i2cbus"
	"github.com/elijahnyp/audio_controller/pt2258"
	. "github.com/elijahnyp/audio_controller/util"
)

var model Model

var registry = NewRegistry(defaultOpener)

type busOpener func(name string) (pt2258.Bus, error)

func defaultOpener(name string) (pt2258.Bus, error) {
	return i2cbus.Open(name)
}

// Registry holds the opened buses and driver handles for the amps in
// the model. Amps configured with the same bus name share one bus, and
// with it one write-serialization scope.
type Registry struct {
	open    busOpener
	buses   map[string]pt2258.Bus
	devices map[string]*pt2258.Device
}

func NewRegistry(open busOpener) *Registry {
	return &Registry{
		open:    open,
		buses:   make(map[string]pt2258.Bus),
		devices: make(map[string]*pt2258.Device),
	}
}

// Build opens buses and handles for every amp in m, replacing whatever
// the registry held before. Amps that fail stay out of the registry but
// don't block the others.
func (r *Registry) Build(m Model) {
	r.Close()
	for _, amp := range m.Amps {
		bus, ok := r.buses[amp.Bus]
		if !ok {
			opened, err := r.open(amp.Bus)
			if err != nil {
				Logger.Error().Msgf("amp %s: opening bus %s: %v", amp.Name, amp.Bus, err)
				continue
			}
			r.buses[amp.Bus] = opened
			bus = opened
		}
		dev, err := pt2258.New(bus, byte(amp.Address))
		if err != nil {
			Logger.Error().Msgf("amp %s: %v", amp.Name, err)
			continue
		}
		if Config.GetBool("clear_on_start") {
			if err := dev.Clear(); err != nil {
				Logger.Warn().Msgf("amp %s: clear failed: %v", amp.Name, err)
			}
		}
		r.devices[amp.Name] = dev
	}
}

func (r *Registry) Device(amp string) (*pt2258.Device, bool) {
	d, ok := r.devices[amp]
	return d, ok
}

// Close drops all handles and closes every bus that supports it.
func (r *Registry) Close() {
	for name, bus := range r.buses {
		if c, ok := bus.(io.Closer); ok {
			if err := c.Close(); err != nil {
				Logger.Warn().Msgf("closing bus %s: %v", name, err)
			}
		}
	}
	r.buses = make(map[string]pt2258.Bus)
	r.devices = make(map[string]*pt2258.Device)
}

// Command is one parsed control request, from MQTT or the console.
type Command struct {
	Amp     string
	Payload string
	Kind    int
	Channel int
}

var command_channel = make(chan Command, 10)

// Apply executes one command against the registry. State publication is
// the caller's business; Apply only drives the device.
func Apply(r *Registry, cmd Command) error {
	dev, ok := r.Device(cmd.Amp)
	if !ok {
		return fmt.Errorf("amp %s has no open device", cmd.Amp)
	}
	switch cmd.Kind {
	case MASTER:
		db, err := strconv.Atoi(strings.TrimSpace(cmd.Payload))
		if err != nil {
			return fmt.Errorf("bad master payload %q: %w", cmd.Payload, err)
		}
		return dev.SetMasterVolume(db)
	case CHANNEL:
		db, err := strconv.Atoi(strings.TrimSpace(cmd.Payload))
		if err != nil {
			return fmt.Errorf("bad channel payload %q: %w", cmd.Payload, err)
		}
		return dev.SetChannelVolume(cmd.Channel, db)
	case MUTE:
		on, err := strconv.ParseBool(strings.TrimSpace(cmd.Payload))
		if err != nil {
			return fmt.Errorf("bad mute payload %q: %w", cmd.Payload, err)
		}
		return dev.SetMute(on)
	case CLEAR:
		return dev.Clear()
	}
	return fmt.Errorf("unknown command kind %d", cmd.Kind)
}

func receiver(client MQTT.Client, message MQTT.Message) {
	Logger.Debug().Msgf("Message Received on topic %s", message.Topic())
	amp, kind, channel := model.FindCommand(message.Topic())
	if kind < 0 {
		Logger.Debug().Msgf("topic %s not found in model.  Fix subscription or add to model", message.Topic())
		return
	}
	command_channel <- Command{
		Amp:     amp,
		Kind:    kind,
		Channel: channel,
		Payload: string(message.Payload()),
	}
}

// CommandManagerRoutine drains the command queue, drives the devices,
// and publishes confirmed state.
func CommandManagerRoutine() {
	for cmd := range command_channel {
		if err := Apply(registry, cmd); err != nil {
			Logger.Error().Msgf("command for %s failed: %v", cmd.Amp, err)
			continue
		}
		PublishAmpState(cmd.Amp)
		wsHub.Broadcast(SystemStatus())
	}
}

// PublishAmpState publishes the amp's confirmed levels to the retained
// state topics. Levels never written stay unpublished.
func PublishAmpState(name string) {
	if Client == nil || !Client.IsConnected() {
		return
	}
	amp, ok := model.FindAmp(name)
	if !ok {
		return
	}
	dev, ok := registry.Device(name)
	if !ok {
		return
	}
	publish := func(topic, payload string) {
		if token := Client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
			Logger.Error().Msgf("Error publishing %s: %v", topic, token.Error())
		}
	}
	if db, known := dev.MasterVolume(); known {
		publish(amp.StateTopic(MASTER, -1), strconv.Itoa(db))
	}
	for ch := range amp.ChannelNames() {
		if db, known := dev.ChannelVolume(ch); known {
			publish(amp.StateTopic(CHANNEL, ch), strconv.Itoa(db))
		}
	}
	publish(amp.StateTopic(MUTE, -1), strconv.FormatBool(dev.Muted()))
}

func PublishAllState() {
	for _, amp := range model.Amps {
		PublishAmpState(amp.Name)
	}
}

// AmpStatus is one amp's state for the status API. Levels are nil until
// something has been written to the device.
type AmpStatus struct {
	Channels map[string]*int `json:"channels"`
	Name     string          `json:"name"`
	Bus      string          `json:"bus"`
	Master   *int            `json:"master"`
	Muted    bool            `json:"muted"`
	Online   bool            `json:"online"`
}

func SystemStatus() []AmpStatus {
	statuses := make([]AmpStatus, 0, len(model.Amps))
	for _, amp := range model.Amps {
		status := AmpStatus{
			Name:     amp.Name,
			Bus:      amp.Bus,
			Channels: make(map[string]*int),
		}
		if dev, ok := registry.Device(amp.Name); ok {
			status.Online = true
			status.Muted = dev.Muted()
			if db, known := dev.MasterVolume(); known {
				v := db
				status.Master = &v
			}
			for ch, chName := range amp.ChannelNames() {
				if db, known := dev.ChannelVolume(ch); known {
					v := db
					status.Channels[chName] = &v
				} else {
					status.Channels[chName] = nil
				}
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}
