package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
	"github.com/Mas20150/DisciteOmnes/errors"
	"github.com/Mas20150/DisciteOmnes/log"
	"github.com/Mas20150/DisciteOmnes/screens"
	"github.com/Mas20150/DisciteOmnes/session"
)

// Shell is the interactive terminal. It owns the readline instance and
// the screen loop: every command drives a controller, then steps the
// loop once per started operation so completions land before the next
// prompt renders.
type Shell struct {
	rl   *readline.Instance
	out  io.Writer
	loop *screens.Loop

	store *session.Store
	log   log.Logger

	auth   screens.AuthService
	tasks  screens.TaskService
	groups screens.GroupService
	plans  screens.PlanService

	// openPlan is the plan whose steps 'step' commands target. Zero ID
	// means no plan is open.
	openPlan disciteomnes.StudyPlan
}

type Options struct {
	HistoryFile string
	Out         io.Writer

	Store  *session.Store
	Logger log.Logger

	Auth   screens.AuthService
	Tasks  screens.TaskService
	Groups screens.GroupService
	Plans  screens.PlanService
}

func New(opts Options) (*Shell, error) {
	// readline creates the history file but not its directory.
	if opts.HistoryFile != "" {
		if dir := filepath.Dir(opts.HistoryFile); dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, errors.New("could not create history directory", errors.WithCause(err))
			}
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "disciteomnes> ",
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, errors.New("could not initialize terminal", errors.WithCause(err))
	}

	return &Shell{
		rl:     rl,
		out:    opts.Out,
		loop:   screens.NewLoop(),
		store:  opts.Store,
		log:    opts.Logger,
		auth:   opts.Auth,
		tasks:  opts.Tasks,
		groups: opts.Groups,
		plans:  opts.Plans,
	}, nil
}

func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run reads commands until quit or EOF.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to DisciteOmnes. Use 'help' for the list of commands.")

	for {
		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(s.out, "Use 'quit' to leave.")
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := parseArgs(line)
		if args[0] == "quit" || args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye.")
			return nil
		}

		if err := s.execute(ctx, args); err != nil {
			fmt.Fprintf(s.out, "error: %s\n", describe(err))
		}
	}
}

// parseArgs splits a command line on spaces, keeping double-quoted
// sections together.
func parseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes {
				if current.Len() > 0 {
					args = append(args, current.String())
					current.Reset()
				}
			} else {
				current.WriteRune(char)
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}

// describe turns an error into a one-line message for the prompt.
func describe(err error) string {
	switch {
	case errors.IsNetwork(err):
		return fmt.Sprintf("could not reach the server (%s)", message(err))
	case errors.IsAuth(err):
		return fmt.Sprintf("not allowed: %s", message(err))
	case errors.IsValidation(err):
		return message(err)
	default:
		return err.Error()
	}
}

func message(err error) string {
	if cerr, ok := err.(errors.Error); ok {
		return cerr.Message()
	}
	return err.Error()
}
