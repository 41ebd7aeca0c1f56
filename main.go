// main.go - mnomer entry point

/*
mnomer - a sine based metronome for the command line

https://github.com/thfr/mnomer
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

func boilerPlate() {
	fmt.Println("mnomer - a sine based metronome for the command line")
	fmt.Println("https://github.com/thfr/mnomer")
	fmt.Println("License: GPLv3 or later")
	fmt.Println()
	fmt.Println("Type \"help\" for the command list; ENTER toggles playback.")
}

func main() {
	var (
		bpmFlag     int
		patternFlag string
		backendFlag string
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.IntVar(&bpmFlag, "bpm", 100, "beats per minute")
	flagSet.StringVar(&patternFlag, "pattern", "!+++", "beat pattern (!=accent, +=beat, .=pause)")
	flagSet.StringVar(&backendFlag, "backend", "oto", "audio backend: oto or alsa")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: mnomer [-bpm N] [-pattern STR] [-backend oto|alsa]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if bpmFlag <= 0 {
		fmt.Printf("Error: bpm must be greater than 0, got %d\n", bpmFlag)
		os.Exit(1)
	}
	pattern, err := ParseBeatPattern(patternFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	backend, err := parseBackendFlag(backendFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	player := NewBeatPlayer(bpmFlag, 880, 440, pattern, backend)

	boilerPlate()

	repl := NewRepl("> ", player)
	registerCommands(repl, player)

	err = repl.Run()
	player.Shutdown()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("bye")
}

func parseBackendFlag(value string) (int, error) {
	switch strings.ToLower(value) {
	case "oto":
		return AUDIO_BACKEND_OTO, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	case "headless":
		return AUDIO_BACKEND_HEADLESS, nil
	default:
		return 0, fmt.Errorf("unknown audio backend %q, expected oto or alsa", value)
	}
}

func registerCommands(repl *Repl, player *BeatPlayer) {
	repl.SetCommand(CommandDefinition{
		Name: "",
		Run: func(string) (string, error) {
			started, err := player.Toggle()
			if err != nil {
				return "", err
			}
			if started {
				return "Playback started", nil
			}
			return "Playback stopped", nil
		},
		Help: "Toggle playback",
	})

	repl.SetCommand(CommandDefinition{
		Name: "start",
		Run: func(string) (string, error) {
			if err := player.Start(); err != nil {
				return "", err
			}
			return "Playback started", nil
		},
		Help: "Start playback",
	})

	repl.SetCommand(CommandDefinition{
		Name: "stop",
		Run: func(string) (string, error) {
			player.Stop()
			return "Playback stopped", nil
		},
		Help: "Stop playback",
	})

	repl.SetCommand(CommandDefinition{
		Name: "bpm",
		Run: func(args string) (string, error) {
			bpm, err := strconv.Atoi(args)
			if err != nil {
				return "", fmt.Errorf("%q is not a number", args)
			}
			if err := player.SetBpm(bpm); err != nil {
				return "", err
			}
			return fmt.Sprintf("bpm set to %d", bpm), nil
		},
		Help: "bpm <NUMBER> - set the beats per minute",
	})

	repl.SetCommand(CommandDefinition{
		Name: "pattern",
		Run: func(args string) (string, error) {
			pattern, err := ParseBeatPattern(args)
			if err != nil {
				return "", err
			}
			if err := player.SetPattern(pattern); err != nil {
				return "", err
			}
			return fmt.Sprintf("pattern set to %s", pattern), nil
		},
		Help: "pattern <PATTERN> - set the beat pattern over '!' (accent), '+' (beat) and '.' (pause), e.g. \"!+++\"",
	})

	repl.SetCommand(CommandDefinition{
		Name: "pitch",
		Run: func(args string) (string, error) {
			fields := strings.Fields(args)
			if len(fields) != 2 {
				return "", fmt.Errorf("expected two frequencies, got %d arguments", len(fields))
			}
			accent, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return "", fmt.Errorf("%q is not a frequency", fields[0])
			}
			normal, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return "", fmt.Errorf("%q is not a frequency", fields[1])
			}
			if err := player.SetPitches(accent, normal); err != nil {
				return "", err
			}
			return fmt.Sprintf("pitches set to %g Hz (accent) and %g Hz (beat)", accent, normal), nil
		},
		Help: "pitch <ACCENT_HZ> <BEAT_HZ> - set the beat tone frequencies",
	})

	repl.SetCommand(CommandDefinition{
		Name: "subdiv",
		Run: func(args string) (string, error) {
			subdivision, err := strconv.Atoi(args)
			if err != nil {
				return "", fmt.Errorf("%q is not a number", args)
			}
			if err := player.SetBeatSubdivision(subdivision); err != nil {
				return "", err
			}
			return fmt.Sprintf("beat subdivision set to %d", subdivision), nil
		},
		Help: "subdiv <NUMBER> - set the beat subdivision (4 is the reference)",
	})
}
