package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/chzyer/readline"
	. "github.com/elijahnyp/audio_controller/util"
	"github.com/google/shlex"
)

const consoleHelp = `commands:
  status                          show every amp's confirmed state
  master <amp> <db>               set master attenuation (0-79)
  channel <amp> <name|idx> <db>   set one channel's attenuation (0-79)
  mute <amp> on|off               mute or unmute
  clear <amp>                     reset the amp to 0dB, unmuted
  help                            this text
  exit
`

// RunConsole is the bring-up surface: an interactive prompt driving the
// registry directly, used instead of MQTT when console mode is enabled.
func RunConsole() error {
	rl, err := readline.New("pt2258> ")
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		args, err := shlex.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}
		if err := runConsoleCommand(args); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func runConsoleCommand(args []string) error {
	switch args[0] {
	case "help":
		fmt.Print(consoleHelp)
		return nil
	case "status":
		for _, status := range SystemStatus() {
			printAmpStatus(status)
		}
		return nil
	case "master":
		if len(args) != 3 {
			return fmt.Errorf("usage: master <amp> <db>")
		}
		return Apply(registry, Command{Amp: args[1], Kind: MASTER, Payload: args[2]})
	case "channel":
		if len(args) != 4 {
			return fmt.Errorf("usage: channel <amp> <name|idx> <db>")
		}
		ch, err := resolveChannel(args[1], args[2])
		if err != nil {
			return err
		}
		return Apply(registry, Command{Amp: args[1], Kind: CHANNEL, Channel: ch, Payload: args[3]})
	case "mute":
		if len(args) != 3 {
			return fmt.Errorf("usage: mute <amp> on|off")
		}
		payload := "false"
		if args[2] == "on" {
			payload = "true"
		}
		return Apply(registry, Command{Amp: args[1], Kind: MUTE, Payload: payload})
	case "clear":
		if len(args) != 2 {
			return fmt.Errorf("usage: clear <amp>")
		}
		return Apply(registry, Command{Amp: args[1], Kind: CLEAR})
	}
	return fmt.Errorf("unknown command %q - try help", args[0])
}

// resolveChannel accepts either a configured channel name or a numeric
// index 0-5.
func resolveChannel(ampName, ref string) (int, error) {
	amp, ok := model.FindAmp(ampName)
	if !ok {
		return 0, fmt.Errorf("amp %s not in model", ampName)
	}
	if ch := amp.ChannelIndex(ref); ch >= 0 {
		return ch, nil
	}
	if ch, err := strconv.Atoi(ref); err == nil {
		return ch, nil
	}
	return 0, fmt.Errorf("amp %s has no channel %q", ampName, ref)
}

func printAmpStatus(status AmpStatus) {
	if !status.Online {
		fmt.Printf("%s (bus %s): offline\n", status.Name, status.Bus)
		return
	}
	fmt.Printf("%s (bus %s): mute=%v master=%s\n", status.Name, status.Bus,
		status.Muted, levelString(status.Master))
	for name, level := range status.Channels {
		fmt.Printf("  %-10s %s\n", name, levelString(level))
	}
}

func levelString(level *int) string {
	if level == nil {
		return "unknown"
	}
	return fmt.Sprintf("-%ddB", *level)
}
