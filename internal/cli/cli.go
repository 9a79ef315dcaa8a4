// Package cli parses voxnote command-line arguments.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandListen     Command = "listen"
	CommandStop       Command = "stop"
	CommandCancel     Command = "cancel"
	CommandStatus     Command = "status"
	CommandTranscript Command = "transcript"
	CommandProjects   Command = "projects"
	CommandDevices    Command = "devices"
	CommandDoctor     Command = "doctor"
	CommandVersion    Command = "version"
	CommandHelp       Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandListen:     {},
	CommandStop:       {},
	CommandCancel:     {},
	CommandStatus:     {},
	CommandTranscript: {},
	CommandProjects:   {},
	CommandDevices:    {},
	CommandDoctor:     {},
	CommandVersion:    {},
	CommandHelp:       {},
}

// commandsWithArgs take trailing positional arguments (subcommand and ids).
var commandsWithArgs = map[Command]struct{}{
	CommandProjects: {},
}

type Parsed struct {
	Command    Command
	Args       []string
	ConfigPath string
	ShowHelp   bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp

			if _, ok := commandsWithArgs[cmd]; ok {
				parsed.Args = args[i+1:]
				return parsed, nil
			}
			if i != len(args)-1 {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
			}
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command>

Commands:
  listen      Start a capture session, or stop the running one
  stop        Stop the active session and keep the transcript
  cancel      Cancel the active session and discard the transcript
  status      Print current session state
  transcript  Print the live transcript
  projects    Manage saved projects (list|show|add|edit|rm)
  devices     List available input devices
  doctor      Run configuration and environment checks
  version     Print version information
  help        Show this help

Projects:
  %[1]s projects list
  %[1]s projects show <id>
  %[1]s projects add [details...]
  %[1]s projects edit <id> [--title T] [--details D]
  %[1]s projects rm <id> [<id>...]

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/voxnote/config.yaml)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
