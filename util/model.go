package util

import (
	"fmt"
	"strings"
)

const ( // command kinds
	MASTER = iota
	CHANNEL
	MUTE
	CLEAR
)

const TopicRoot = "audio"

// Model is the amplifier topology, unmarshalled from the "amps" key of
// the config file.
type Model struct {
	Amps []Amp `mapstructure:"amps"`
}

// Amp is one PT2258 attenuator on one I2C bus.
type Amp struct {
	Name     string   `mapstructure:"name"`
	Bus      string   `mapstructure:"bus"`
	Address  int      `mapstructure:"address"`
	Channels []string `mapstructure:"channels"`
}

// ChannelNames returns the six channel names, filling unconfigured slots
// with ch1..ch6.
func (a Amp) ChannelNames() []string {
	names := make([]string, 6)
	for i := range names {
		if i < len(a.Channels) && a.Channels[i] != "" {
			names[i] = a.Channels[i]
		} else {
			names[i] = fmt.Sprintf("ch%d", i+1)
		}
	}
	return names
}

// ChannelIndex resolves a channel name to its index, or -1.
func (a Amp) ChannelIndex(name string) int {
	for i, n := range a.ChannelNames() {
		if n == name {
			return i
		}
	}
	return -1
}

// CommandTopic builds the command topic for one amp operation. MASTER,
// MUTE and CLEAR ignore channel.
func (a Amp) CommandTopic(kind int, channel int) string {
	switch kind {
	case MASTER:
		return fmt.Sprintf("%s/%s/master/set", TopicRoot, a.Name)
	case CHANNEL:
		return fmt.Sprintf("%s/%s/channel/%s/set", TopicRoot, a.Name, a.ChannelNames()[channel])
	case MUTE:
		return fmt.Sprintf("%s/%s/mute/set", TopicRoot, a.Name)
	case CLEAR:
		return fmt.Sprintf("%s/%s/clear/set", TopicRoot, a.Name)
	}
	return ""
}

// StateTopic builds the retained state topic matching a command topic.
// CLEAR has no state topic of its own.
func (a Amp) StateTopic(kind int, channel int) string {
	switch kind {
	case MASTER:
		return fmt.Sprintf("%s/%s/master", TopicRoot, a.Name)
	case CHANNEL:
		return fmt.Sprintf("%s/%s/channel/%s", TopicRoot, a.Name, a.ChannelNames()[channel])
	case MUTE:
		return fmt.Sprintf("%s/%s/mute", TopicRoot, a.Name)
	}
	return ""
}

func (m Model) FindAmp(name string) (Amp, bool) {
	for _, amp := range m.Amps {
		if amp.Name == name {
			return amp, true
		}
	}
	return Amp{}, false
}

// FindCommand resolves a command topic to the amp it addresses, the
// command kind, and the channel index for channel commands. kind is -1
// when the topic matches nothing in the model.
func (m Model) FindCommand(topic string) (amp string, kind int, channel int) {
	parts := strings.Split(topic, "/")
	if len(parts) < 4 || parts[0] != TopicRoot || parts[len(parts)-1] != "set" {
		return "", -1, -1
	}
	entry, ok := m.FindAmp(parts[1])
	if !ok {
		return "", -1, -1
	}
	switch {
	case len(parts) == 4 && parts[2] == "master":
		return entry.Name, MASTER, -1
	case len(parts) == 4 && parts[2] == "mute":
		return entry.Name, MUTE, -1
	case len(parts) == 4 && parts[2] == "clear":
		return entry.Name, CLEAR, -1
	case len(parts) == 5 && parts[2] == "channel":
		if ch := entry.ChannelIndex(parts[3]); ch >= 0 {
			return entry.Name, CHANNEL, ch
		}
	}
	return "", -1, -1
}

// SubscribeTopics lists every command topic the model accepts.
func (m Model) SubscribeTopics() []string {
	var topics []string
	for _, amp := range m.Amps {
		topics = append(topics,
			amp.CommandTopic(MASTER, -1),
			amp.CommandTopic(MUTE, -1),
			amp.CommandTopic(CLEAR, -1))
		for ch := range amp.ChannelNames() {
			topics = append(topics, amp.CommandTopic(CHANNEL, ch))
		}
	}
	return topics
}

// BuildModel unmarshals the amp topology from config and validates it.
func (m *Model) BuildModel() error {
	m.Amps = nil
	if err := Config.UnmarshalKey("amps", &m.Amps); err != nil {
		Logger.Error().Msgf("error unmarshaling amps: %v", err)
		return fmt.Errorf("unmarshaling amps: %w", err)
	}
	seen := make(map[string]bool)
	for _, amp := range m.Amps {
		if amp.Name == "" {
			return fmt.Errorf("amp with no name in config")
		}
		if seen[amp.Name] {
			return fmt.Errorf("duplicate amp name %q", amp.Name)
		}
		seen[amp.Name] = true
		if amp.Bus == "" {
			return fmt.Errorf("amp %q has no bus", amp.Name)
		}
		if len(amp.Channels) > 6 {
			return fmt.Errorf("amp %q configures %d channels, the PT2258 has 6", amp.Name, len(amp.Channels))
		}
	}
	return nil
}
