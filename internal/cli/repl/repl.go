package repl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gauntlet/internal/cli/command"
	httpclient "gauntlet/internal/cli/http"
	"gauntlet/internal/cli/state"
)

// Session holds REPL state.
type Session struct {
	client       *httpclient.Client
	commands     map[string]command.Command
	tokenState   *state.TokenState
	statePath    string
	outputWriter *bufio.Writer
}

func New(client *httpclient.Client, commands map[string]command.Command, tokenState *state.TokenState, statePath string) *Session {
	return &Session{
		client:       client,
		commands:     commands,
		tokenState:   tokenState,
		statePath:    statePath,
		outputWriter: bufio.NewWriter(os.Stdout),
	}
}

func (s *Session) Run(ctx context.Context) {
	reader := bufio.NewReader(os.Stdin)
	for {
		_, _ = s.outputWriter.WriteString("gauntlet> ")
		_ = s.outputWriter.Flush()
		line, err := reader.ReadString('\n')
		if err != nil {
			s.printLine("read input failed: %v", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s.handleSystemCommand(line) {
			continue
		}
		if err := s.handleCommand(ctx, reader, line); err != nil {
			s.printLine("error: %v", err)
		}
	}
}

func (s *Session) handleSystemCommand(line string) bool {
	switch line {
	case "exit", "quit":
		s.printLine("bye")
		os.Exit(0)
	case "help":
		s.printHelp()
		return true
	}
	if strings.HasPrefix(line, "set ") {
		s.handleSet(strings.TrimSpace(strings.TrimPrefix(line, "set ")))
		return true
	}
	return false
}

func (s *Session) handleSet(args string) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		s.printLine("usage: set base|token|timeout <value>")
		return
	}
	switch parts[0] {
	case "base":
		s.client.SetBaseURL(parts[1])
		s.printLine("base set to %s", parts[1])
	case "timeout":
		dur, err := time.ParseDuration(parts[1])
		if err != nil {
			s.printLine("invalid duration: %v", err)
			return
		}
		s.client.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	case "token":
		s.tokenState.Token = parts[1]
		if err := state.Save(s.statePath, *s.tokenState); err != nil {
			s.printLine("save token failed: %v", err)
			return
		}
		s.printLine("token saved")
	default:
		s.printLine("unknown setting: %s", parts[0])
	}
}

func (s *Session) handleCommand(ctx context.Context, reader *bufio.Reader, line string) error {
	cmd, ok := s.commands[line]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", line)
	}

	body, err := s.promptBody(reader, cmd)
	if err != nil {
		return err
	}

	info, err := s.client.Do(ctx, cmd.Method, cmd.PathTemplate, cmd.RequiresAuth, body)
	if err != nil {
		return err
	}
	s.printResponse(info)
	s.captureToken(info.Body)
	return nil
}

func (s *Session) promptBody(reader *bufio.Reader, cmd command.Command) ([]byte, error) {
	if len(cmd.Fields) == 0 {
		return nil, nil
	}

	values := make(map[string]interface{}, len(cmd.Fields))
	for _, field := range cmd.Fields {
		raw, err := s.promptField(reader, field)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			if field.Required {
				return nil, fmt.Errorf("field %s is required", field.Name)
			}
			continue
		}
		switch field.Type {
		case command.FieldInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("field %s expects an integer", field.Name)
			}
			values[field.Name] = n
		default:
			values[field.Name] = raw
		}
	}

	if cmd.RawBody {
		// Single-string body, e.g. the admin password exchange.
		return json.Marshal(values[cmd.Fields[0].Name])
	}
	return json.Marshal(values)
}

func (s *Session) promptField(reader *bufio.Reader, field command.Field) (string, error) {
	_, _ = fmt.Fprintf(s.outputWriter, "%s: ", field.Prompt)
	_ = s.outputWriter.Flush()

	if field.Type == command.FieldText {
		var lines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", fmt.Errorf("read input failed: %w", err)
			}
			if strings.TrimSpace(line) == "." {
				break
			}
			lines = append(lines, strings.TrimRight(line, "\n"))
		}
		return strings.Join(lines, "\n"), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input failed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) printResponse(info httpclient.ResponseInfo) {
	s.printLine("HTTP %d (%s)", info.StatusCode, info.Duration.Round(time.Millisecond))
	var pretty map[string]interface{}
	if err := json.Unmarshal(info.Body, &pretty); err == nil {
		formatted, err := json.MarshalIndent(pretty, "", "  ")
		if err == nil {
			s.printLine("%s", formatted)
			return
		}
	}
	s.printLine("%s", info.Body)
}

// captureToken remembers a returned token so the next authorized command
// picks it up automatically.
func (s *Session) captureToken(body []byte) {
	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return
	}
	if envelope.Status != "Token" || envelope.Message == "" {
		return
	}
	s.tokenState.Token = envelope.Message
	if err := state.Save(s.statePath, *s.tokenState); err != nil {
		s.printLine("save token failed: %v", err)
		return
	}
	s.printLine("token saved")
}

func (s *Session) printHelp() {
	s.printLine("commands:")
	keys := make([]string, 0, len(s.commands))
	for key := range s.commands {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cmd := s.commands[key]
		s.printLine("  %-24s %s %s", key, cmd.Method, cmd.PathTemplate)
	}
	s.printLine("  %-24s set base|token|timeout <value>", "set ...")
	s.printLine("  %-24s leave", "exit")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.outputWriter, format+"\n", args...)
	_ = s.outputWriter.Flush()
}
