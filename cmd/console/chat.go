package main

import (
	"context"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// consoleChat prints table messages and whispers to one terminal.
type consoleChat struct {
	out io.Writer
}

func newConsoleChat(out io.Writer) *consoleChat {
	return &consoleChat{out: out}
}

func (c *consoleChat) SendToChannel(_ context.Context, channelID string, lines []string) error {
	prefix := pterm.LightCyan("[" + channelID + "] ")
	for _, line := range lines {
		pterm.Fprintln(c.out, prefix+line)
	}
	return nil
}

func (c *consoleChat) SendToPlayer(_ context.Context, _ string, identity string, lines []string) error {
	prefix := pterm.LightYellow("[to " + identity + "] ")
	for _, line := range lines {
		pterm.Fprintln(c.out, prefix+line)
	}
	return nil
}

// parseLine splits "name: text" into its sender and text.
func parseLine(line string) (string, string, bool) {
	sender, text, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	sender = strings.TrimSpace(sender)
	text = strings.TrimSpace(text)
	if sender == "" || strings.ContainsAny(sender, " \t") || text == "" {
		return "", "", false
	}
	return sender, text, true
}
