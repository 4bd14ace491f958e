package main

import (
	"fmt"
	"testing"

	"github.com/elijahnyp/audio_controller/pt2258"
	. "github.com/elijahnyp/audio_controller/util"
)

type fakeWrite struct {
	addr byte
	data []byte
}

type fakeBus struct {
	name   string
	writes []fakeWrite
}

func (b *fakeBus) Write(addr byte, p []byte) error {
	cp := make([]byte, len(p))
	copy(cp, p)
	b.writes = append(b.writes, fakeWrite{addr: addr, data: cp})
	return nil
}

func fakeOpener(opened map[string]*fakeBus) busOpener {
	return func(name string) (pt2258.Bus, error) {
		if _, ok := opened[name]; ok {
			return nil, fmt.Errorf("bus %s opened twice", name)
		}
		bus := &fakeBus{name: name}
		opened[name] = bus
		return bus, nil
	}
}

func TestMain(m *testing.M) {
	LogInit("error")
	m.Run()
}

func testModel() Model {
	return Model{Amps: []Amp{
		{Name: "living", Bus: "1", Address: 0x88, Channels: []string{"front-l", "front-r"}},
		{Name: "office", Bus: "1", Address: 0x8C},
		{Name: "garage", Bus: "2", Address: 0x80},
	}}
}

func TestRegistryBuildSharesBuses(t *testing.T) {
	opened := make(map[string]*fakeBus)
	reg := NewRegistry(fakeOpener(opened))

	reg.Build(testModel())

	// living and office share bus "1"; opening it twice makes the
	// opener fail, which would leave office out of the registry.
	if len(opened) != 2 {
		t.Errorf("opened %d buses, expected 2", len(opened))
	}
	for _, name := range []string{"living", "office", "garage"} {
		if _, ok := reg.Device(name); !ok {
			t.Errorf("amp %s missing from registry", name)
		}
	}
}

func TestRegistryRejectsBadAddress(t *testing.T) {
	opened := make(map[string]*fakeBus)
	reg := NewRegistry(fakeOpener(opened))

	m := testModel()
	m.Amps[0].Address = 0x70

	reg.Build(m)

	if _, ok := reg.Device("living"); ok {
		t.Error("amp with illegal address made it into the registry")
	}
	if _, ok := reg.Device("office"); !ok {
		t.Error("bad amp blocked a good amp on the same bus")
	}
	if len(opened["1"].writes) != 0 {
		t.Errorf("illegal address generated %d bus writes", len(opened["1"].writes))
	}
}

func TestApplyCommands(t *testing.T) {
	opened := make(map[string]*fakeBus)
	reg := NewRegistry(fakeOpener(opened))
	reg.Build(testModel())

	tests := []struct {
		name string
		cmd  Command
		want []fakeWrite
	}{
		{"master", Command{Amp: "living", Kind: MASTER, Payload: "40"},
			[]fakeWrite{{0x44, []byte{0xD4}}, {0x44, []byte{0xE0}}}},
		{"channel", Command{Amp: "living", Kind: CHANNEL, Channel: 1, Payload: "7"},
			[]fakeWrite{{0x44, []byte{0x40}}, {0x44, []byte{0x57}}}},
		{"channel with spaces", Command{Amp: "office", Kind: CHANNEL, Channel: 0, Payload: " 12 "},
			[]fakeWrite{{0x46, []byte{0x81}}, {0x46, []byte{0x92}}}},
		{"mute on", Command{Amp: "living", Kind: MUTE, Payload: "true"},
			[]fakeWrite{{0x44, []byte{0xF9}}}},
		{"clear", Command{Amp: "garage", Kind: CLEAR},
			[]fakeWrite{{0x40, []byte{0xC0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := opened["1"]
			if tt.cmd.Amp == "garage" {
				bus = opened["2"]
			}
			before := len(bus.writes)
			if err := Apply(reg, tt.cmd); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			got := bus.writes[before:]
			if len(got) != len(tt.want) {
				t.Fatalf("got %d writes, expected %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].addr != tt.want[i].addr || got[i].data[0] != tt.want[i].data[0] {
					t.Errorf("write %d = %#02x@%#02x, expected %#02x@%#02x",
						i, got[i].data[0], got[i].addr, tt.want[i].data[0], tt.want[i].addr)
				}
			}
		})
	}
}

func TestApplyRejectsBadInput(t *testing.T) {
	opened := make(map[string]*fakeBus)
	reg := NewRegistry(fakeOpener(opened))
	reg.Build(testModel())

	tests := []struct {
		name string
		cmd  Command
	}{
		{"unknown amp", Command{Amp: "attic", Kind: MASTER, Payload: "10"}},
		{"non-numeric volume", Command{Amp: "living", Kind: MASTER, Payload: "loud"}},
		{"volume out of range", Command{Amp: "living", Kind: MASTER, Payload: "80"}},
		{"bad mute payload", Command{Amp: "living", Kind: MUTE, Payload: "maybe"}},
		{"unknown kind", Command{Amp: "living", Kind: 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(opened["1"].writes)
			if err := Apply(reg, tt.cmd); err == nil {
				t.Error("expected error, got nil")
			}
			if len(opened["1"].writes) != before {
				t.Errorf("rejected command generated bus writes")
			}
		})
	}
}

func TestSystemStatusTracksUnknownLevels(t *testing.T) {
	opened := make(map[string]*fakeBus)
	model = testModel()
	registry = NewRegistry(fakeOpener(opened))
	registry.Build(model)

	statuses := SystemStatus()
	if len(statuses) != 3 {
		t.Fatalf("got %d statuses, expected 3", len(statuses))
	}
	for _, status := range statuses {
		if !status.Online {
			t.Errorf("amp %s reported offline", status.Name)
		}
		if status.Master != nil {
			t.Errorf("amp %s master known before any write", status.Name)
		}
	}

	if err := Apply(registry, Command{Amp: "living", Kind: MASTER, Payload: "25"}); err != nil {
		t.Fatal(err)
	}
	if err := Apply(registry, Command{Amp: "living", Kind: CHANNEL, Channel: 0, Payload: "5"}); err != nil {
		t.Fatal(err)
	}

	for _, status := range SystemStatus() {
		if status.Name != "living" {
			continue
		}
		if status.Master == nil || *status.Master != 25 {
			t.Error("living master not reported after write")
		}
		if level := status.Channels["front-l"]; level == nil || *level != 5 {
			t.Error("living front-l not reported after write")
		}
		if status.Channels["front-r"] != nil {
			t.Error("untouched channel reported a level")
		}
	}
}
