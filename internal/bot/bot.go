// Package bot turns chat command lines into ladder engine calls and renders
// the outcome as a plain-text reply.
package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Ladderbot/internal/ladder"
)

// InternalFailureReply is shown to players when a command fails for a reason
// other than a ladder rule.
const InternalFailureReply = "Something went wrong while processing that command. Please try again later."

// Command is one chat message addressed to the bot.
type Command struct {
	PlayerID    string
	DisplayName string
	// Admin is set by the chat gateway for players with administrator rights.
	Admin bool
	Text  string
	// Mentions maps mentioned player ids to their display names.
	Mentions map[string]string
}

// Reply is the text sent back to the channel the command came from.
type Reply struct {
	Command string `json:"command,omitempty"`
	Text    string `json:"reply"`
}

type handlerFunc func(ctx context.Context, cmd Command, args []string) (string, error)

type route struct {
	usage   string
	summary string
	admin   bool
	mutates bool
	minArgs int
	maxArgs int // -1 for no upper bound
	handler handlerFunc
}

// Dispatcher routes commands to engine operations.
type Dispatcher struct {
	engine   *ladder.Engine
	commands map[string]route
}

func New(engine *ladder.Engine) *Dispatcher {
	d := &Dispatcher{engine: engine}
	d.commands = d.routes()
	return d
}

func (d *Dispatcher) logger(ctx context.Context, name string) zerolog.Logger {
	return log.Ctx(ctx).With().Str("component", "bot").Str("command", name).Logger()
}

// Mutates reports whether text names a command that changes ladder state.
// Unknown or unparsable lines report false.
func (d *Dispatcher) Mutates(text string) bool {
	name, _, err := parse(text)
	if err != nil {
		return false
	}
	s, ok := d.commands[name]
	return ok && s.mutates
}

// Dispatch runs one command. Rule violations and usage mistakes become the
// reply text with a nil error. A non-nil error means an internal failure; the
// reply then carries InternalFailureReply.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Reply, error) {
	name, args, err := parse(cmd.Text)
	if err != nil {
		return Reply{Text: fmt.Sprintf("Could not read that command: %v.", err)}, nil
	}
	if name == "" {
		return Reply{Text: "Type /help to see the available commands."}, nil
	}

	s, ok := d.commands[name]
	if !ok {
		return Reply{Command: name, Text: fmt.Sprintf("Unknown command %q. Type /help to see the available commands.", name)}, nil
	}
	logger := d.logger(ctx, name)

	if s.admin && !cmd.Admin {
		logger.Warn().Str("player_id", cmd.PlayerID).Msg("Admin command refused")
		return Reply{Command: name, Text: "Only administrators can use /" + name + "."}, nil
	}
	if len(args) < s.minArgs || (s.maxArgs >= 0 && len(args) > s.maxArgs) {
		return Reply{Command: name, Text: "Usage: /" + name + " " + s.usage}, nil
	}

	text, err := s.handler(logger.WithContext(ctx), cmd, args)
	switch {
	case err == nil:
		return Reply{Command: name, Text: text}, nil
	case ladder.IsRuleViolation(err):
		logger.Info().
			Str("player_id", cmd.PlayerID).
			Str("kind", ladder.KindOf(err).String()).
			Str("reason", err.Error()).
			Msg("Command rejected")
		return Reply{Command: name, Text: err.Error()}, nil
	default:
		logger.Error().Err(err).Str("player_id", cmd.PlayerID).Msg("Command failed")
		return Reply{Command: name, Text: InternalFailureReply}, err
	}
}

// parse splits a command line, honouring quotes around multi-word names.
func parse(text string) (string, []string, error) {
	words, err := shellquote.Split(strings.TrimSpace(text))
	if err != nil {
		return "", nil, err
	}
	if len(words) == 0 {
		return "", nil, nil
	}
	name := strings.ToLower(strings.TrimLeft(words[0], "/!"))
	return name, words[1:], nil
}

var errInvalidMention = errors.New("invalid mention")

// mentionID extracts a player or channel id from chat mention syntax such as
// <@123>, <@!123> or <#123>. Bare ids are returned unchanged.
func mentionID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "<") {
		if !strings.HasSuffix(raw, ">") {
			return "", errInvalidMention
		}
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">")
		raw = strings.TrimLeft(raw, "@!#&")
	} else {
		raw = strings.TrimPrefix(raw, "@")
	}
	if raw == "" {
		return "", errInvalidMention
	}
	return raw, nil
}

func (d *Dispatcher) help(isAdmin bool) string {
	names := make([]string, 0, len(d.commands))
	for name, s := range d.commands {
		if s.admin && !isAdmin {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, name := range names {
		s := d.commands[name]
		line := "/" + name
		if s.usage != "" {
			line += " " + s.usage
		}
		fmt.Fprintf(&b, "%s - %s\n", line, s.summary)
	}
	return strings.TrimRight(b.String(), "\n")
}
