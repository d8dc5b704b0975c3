package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/studybuddy/internal/service/tutor"
	"github.com/sandevgo/studybuddy/internal/service/ui"
	"github.com/sandevgo/studybuddy/pkg/log"
)

const (
	firstPrompt = "Enter your first question: "
	nextPrompt  = "Enter another question (or 'quit' to exit): "
)

var quitWords = map[string]bool{"quit": true, "exit": true, "q": true}

type Asker interface {
	Ask(ctx context.Context, question string) (tutor.Answer, error)
}

type CommandRouter interface {
	Execute(ctx context.Context, input string) (string, bool)
}

type ReadLineConfig struct {
	HistoryFile string
	// ShowPrompt prints the full prompt sent to the model on every turn.
	ShowPrompt bool
}

// ReadLine is the interactive chat loop. Saving the session is left to the
// caller's shutdown hooks, so every way out of the loop persists it.
type ReadLine struct {
	cfg    ReadLineConfig
	tutor  Asker
	router CommandRouter
	rl     *readline.Instance
	out    io.Writer
}

func NewReadLine(tutor Asker, router CommandRouter, cfg ReadLineConfig) (*ReadLine, error) {
	if cfg.HistoryFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HistoryFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create runtime directory: %w", err)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          firstPrompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:    cfg,
		tutor:  tutor,
		router: router,
		rl:     rl,
		out:    rl.Stdout(),
	}, nil
}

// Start reads questions until quit, Ctrl+C, EOF or a model error.
func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	fmt.Fprintln(r.out, ui.DescStyle.Render("Type /help for commands, 'quit' to exit."))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if quitWords[strings.ToLower(line)] {
			return nil
		}
		if line == "" {
			continue
		}

		if out, ok := r.router.Execute(ctx, line); ok {
			fmt.Fprintln(r.out, out)
			continue
		}

		ans, err := r.tutor.Ask(ctx, line)
		if err != nil {
			logger.Error().Err(err).Msg("tutor turn failed")
			fmt.Fprintf(r.out, "%s\n", ui.ErrorStyle.Render("Error: "+err.Error()))
			return err
		}
		r.print(ans)

		fmt.Fprintln(r.out, "\n"+ui.Rule(70))
		r.rl.SetPrompt(nextPrompt)
	}
}

func (r *ReadLine) print(ans tutor.Answer) {
	fmt.Fprintf(r.out, "\n%s %s\n", ui.FlagStyle.Render("[Optimized Query]:"), ans.OptimizedQuery)

	if r.cfg.ShowPrompt {
		fmt.Fprintf(r.out, "\n%s\n%s\n%s\n%s\n%s\n\n",
			ui.Rule(70), ui.TitleStyle.UnsetMarginBottom().Render("OPTIMIZED PROMPT SENT TO MODEL"), ui.Rule(70), ans.Prompt, ui.Rule(70))
	}

	if !ans.Retrieval.OK() {
		fmt.Fprintln(r.out, ui.DescStyle.Render("(no documents matched: "+string(ans.Retrieval.Reason)+")"))
	}
	fmt.Fprintf(r.out, "\n%s\n", ans.Text)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
