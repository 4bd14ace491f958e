package util

import (
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type HAAvailability struct {
	Topic               string `json:"topic"`
	PayloadAvailable    string `json:"payload_available"`
	PayloadNotAvailable string `json:"payload_not_available"`
}

type HADeviceSpec struct {
	Name        string   `json:"name"`
	Identifiers []string `json:"ids"`
}

// HANumber advertises one attenuation stage as a Home Assistant number
// entity. Values follow the driver convention: attenuation in dB, 0
// loudest, 79 quietest.
type HANumber struct { //nolint:govet // struct layout follows JSON field order
	Availability []HAAvailability `json:"availability"`
	Device       HADeviceSpec     `json:"device"`
	UniqueID     string           `json:"uniq_id"`
	Name         string           `json:"name"`
	StateTopic   string           `json:"state_topic"`
	CommandTopic string           `json:"command_topic"`
	Min          int              `json:"min"`
	Max          int              `json:"max"`
	Step         int              `json:"step"`
	Unit         string           `json:"unit_of_measurement"`
	Platform     string           `json:"platform"`
	Qos          int              `json:"qos"`
}

// HASwitch advertises an amp's mute as a Home Assistant switch entity.
type HASwitch struct { //nolint:govet // struct layout follows JSON field order
	Availability []HAAvailability `json:"availability"`
	Device       HADeviceSpec     `json:"device"`
	UniqueID     string           `json:"uniq_id"`
	Name         string           `json:"name"`
	StateTopic   string           `json:"state_topic"`
	CommandTopic string           `json:"command_topic"`
	PayloadOn    string           `json:"payload_on"`
	PayloadOff   string           `json:"payload_off"`
	Platform     string           `json:"platform"`
	Qos          int              `json:"qos"`
}

func (ha HANumber) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HANumber: %v", err)
		return ""
	}
	return string(data)
}

func (ha HASwitch) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HASwitch: %v", err)
		return ""
	}
	return string(data)
}

func availability() []HAAvailability {
	return []HAAvailability{
		{
			Topic:               OnlineTopic,
			PayloadAvailable:    "online",
			PayloadNotAvailable: "offline",
		},
	}
}

func deviceSpec(amp Amp) HADeviceSpec {
	return HADeviceSpec{
		Name:        amp.Name,
		Identifiers: []string{"audio_controller-" + amp.Name},
	}
}

// ConstructHANumber builds the discovery payload for one attenuation
// stage: the master stage when kind is MASTER, otherwise one channel.
func ConstructHANumber(amp Amp, kind, channel int) HANumber {
	name := amp.Name + " master"
	uniq := "audio_controller-" + amp.Name + "-master"
	if kind == CHANNEL {
		name = amp.Name + " " + amp.ChannelNames()[channel]
		uniq = "audio_controller-" + amp.Name + "-" + amp.ChannelNames()[channel]
	}
	return HANumber{
		Availability: availability(),
		Device:       deviceSpec(amp),
		UniqueID:     uniq,
		Name:         name,
		StateTopic:   amp.StateTopic(kind, channel),
		CommandTopic: amp.CommandTopic(kind, channel),
		Min:          0,
		Max:          79,
		Step:         1,
		Unit:         "dB",
		Platform:     "number",
		Qos:          0,
	}
}

// ConstructHASwitch builds the discovery payload for an amp's mute.
func ConstructHASwitch(amp Amp) HASwitch {
	return HASwitch{
		Availability: availability(),
		Device:       deviceSpec(amp),
		UniqueID:     "audio_controller-" + amp.Name + "-mute",
		Name:         amp.Name + " mute",
		StateTopic:   amp.StateTopic(MUTE, -1),
		CommandTopic: amp.CommandTopic(MUTE, -1),
		PayloadOn:    "true",
		PayloadOff:   "false",
		Platform:     "switch",
		Qos:          0,
	}
}

func AdvertiseHA(amps []Amp, client MQTT.Client) {
	publish := func(topic, payload string) {
		if token := client.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
			Logger.Panic().Msgf("Error Publishing: %v", fmt.Errorf("%v", token.Error()))
		}
	}
	for _, amp := range amps {
		publish("homeassistant/number/"+amp.Name+"/master/config",
			ConstructHANumber(amp, MASTER, -1).ToJson())
		for ch, name := range amp.ChannelNames() {
			publish("homeassistant/number/"+amp.Name+"/"+name+"/config",
				ConstructHANumber(amp, CHANNEL, ch).ToJson())
		}
		publish("homeassistant/switch/"+amp.Name+"/mute/config",
			ConstructHASwitch(amp).ToJson())
	}
}
