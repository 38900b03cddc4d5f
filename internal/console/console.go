package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/unalkalkan/PaperVoice/internal/app"
	"github.com/unalkalkan/PaperVoice/internal/health"
	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

// Session is the state controller driven by the console
type Session interface {
	SelectFile(ctx context.Context, source string) error
	SetLanguage(lang types.Language) error
	Analyze(ctx context.Context) error
	Play() error
	Stop() error
	Toggle() error
	View() app.ViewState
	OnChange(fn func(app.ViewState))
}

// Lister lists selectable documents
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// HealthRunner runs the startup checks on demand
type HealthRunner interface {
	RunChecks(ctx context.Context) health.Report
}

// Console is a line-oriented view over a Session
type Console struct {
	session Session
	files   Lister
	health  HealthRunner
	in      io.Reader
	out     io.Writer
	logger  logger.Logger

	mu sync.Mutex // guards out
	wg sync.WaitGroup
}

// New creates a console reading commands from in and rendering to out
func New(session Session, files Lister, checker HealthRunner, in io.Reader, out io.Writer, l logger.Logger) *Console {
	return &Console{
		session: session,
		files:   files,
		health:  checker,
		in:      in,
		out:     out,
		logger:  l,
	}
}

// Run reads commands until quit, end of input or ctx cancellation.
// File loading and analysis run in the background; Run waits for them before returning.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer c.wg.Wait()
	defer cancel()

	c.session.OnChange(func(v app.ViewState) {
		c.print(Render(v))
	})

	c.print(Render(c.session.View()))
	c.print("Type 'help' for commands.\n")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.logger.Error(ctx, "Reading input failed: %v", err)
		}
	}()

	for {
		c.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := c.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle executes one command line and reports whether the session should end
func (c *Console) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		c.print(helpText)
	case "status":
		c.print(Render(c.session.View()))
	case "ls", "list":
		c.list(ctx, arg)
	case "open":
		if arg == "" {
			c.print("usage: open <file.pdf>\n")
			return false
		}
		c.async(func() error { return c.session.SelectFile(ctx, arg) })
	case "lang", "language":
		lang, err := types.ParseLanguage(arg)
		if err != nil {
			c.report(err)
			return false
		}
		c.report(c.session.SetLanguage(lang))
	case "analyze":
		c.async(func() error { return c.session.Analyze(ctx) })
	case "play":
		c.report(c.session.Play())
	case "stop":
		c.report(c.session.Stop())
	case "toggle":
		c.report(c.session.Toggle())
	case "health":
		c.print(RenderHealth(c.health.RunChecks(ctx)))
	default:
		c.print(fmt.Sprintf("unknown command: %s (type 'help')\n", cmd))
	}
	return false
}

func (c *Console) list(ctx context.Context, prefix string) {
	files, err := c.files.List(ctx, prefix)
	if err != nil {
		c.print(fmt.Sprintf("! %v\n", err))
		return
	}
	if len(files) == 0 {
		c.print("no PDF files found\n")
		return
	}
	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "  %s\n", f)
	}
	c.print(sb.String())
}

func (c *Console) async(fn func() error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.report(fn())
	}()
}

// report prints err unless the view already shows it
func (c *Console) report(err error) {
	if err == nil {
		return
	}
	if c.session.View().Error == err.Error() {
		return
	}
	c.print(fmt.Sprintf("! %v\n", err))
}

func (c *Console) prompt() {
	c.print("> ")
}

func (c *Console) print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.out, s)
}

const helpText = `Commands:
  ls [prefix]      list PDF files
  open <file.pdf>  load a PDF
  lang en|pt-BR    select the summary language
  analyze          summarize the loaded PDF
  play | stop      read the summary aloud / stop reading
  toggle           play or stop
  status           show the current state
  health           show capability checks
  quit             exit
`
