// Command console runs a table in the terminal. Every input line is a chat
// message written as "name: text", so several people can share one keyboard
// or an external gateway can pipe a channel through stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"menteur/internal/app"
	"menteur/internal/config"
	"menteur/internal/ports"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath, "path to the game config file")
	channelFlag := flag.String("channel", "console", "channel name shown in the transcript")
	seedFlag := flag.Int64("seed", 0, "shuffle seed, 0 for a random one")
	flag.Parse()

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)

	cfg, err := config.Load(*configFlag, nil)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Men", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("teur", pterm.FgRed.ToStyle()),
	).Srender()
	if err != nil {
		logger.Warn(err.Error())
	}
	pterm.Print(title)
	pterm.Info.Printfln("Type \"name: %shelp\" to begin. Ctrl-D or Ctrl-C quits.", cfg.CommandPrefix)

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	svc := app.NewService(*cfg, rand.New(rand.NewSource(seed)))
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, svc, newConsoleChat(os.Stdout), *channelFlag, os.Stdin, logger); err != nil {
		logger.Error("console stopped", "error", err)
		os.Exit(1)
	}
	pterm.Println("Thank you for playing...")
}

// run feeds every line of input to svc until input ends or ctx is cancelled.
func run(ctx context.Context, svc *app.Service, chat ports.ChatPort, channelID string, input io.Reader, logger *slog.Logger) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if err := handleLine(ctx, svc, chat, channelID, line, logger); err != nil {
				return err
			}
		}
	}
}

func handleLine(ctx context.Context, svc *app.Service, chat ports.ChatPort, channelID, line string, logger *slog.Logger) error {
	sender, text, ok := parseLine(line)
	if !ok {
		if line != "" {
			pterm.Warning.Println("Write messages as \"name: text\".")
		}
		return nil
	}
	events, err := svc.Handle(ctx, app.Message{ChannelID: channelID, Sender: sender, Text: text})
	if err != nil {
		return fmt.Errorf("handle %q: %w", line, err)
	}
	for _, ev := range events {
		logger.Debug("event", "kind", ev.Kind, "recipients", ev.Recipients)
	}
	return ports.Deliver(ctx, chat, channelID, events)
}
