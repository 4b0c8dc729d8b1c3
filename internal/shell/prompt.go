package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/handiism/book-library/internal/model"
)

const menuRule = "======================"

// line is one result of the background reader.
type line struct {
	text string
	err  error
}

// Prompter reads validated answers from a line-oriented terminal.
//
// Every Read method loops until the input is well formed and returns io.EOF
// once input is exhausted, or the context error if ctx ends while waiting.
type Prompter struct {
	scanner *bufio.Scanner
	out     *printer
	now     func() time.Time

	once      sync.Once
	lines     chan line
	done      chan struct{}
	closeOnce sync.Once
}

// NewPrompter creates a Prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return newPrompter(in, newPrinter(out))
}

func newPrompter(in io.Reader, out *printer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Close stops the background reader. Later reads return io.EOF. A reader
// blocked on the underlying input exits once that read returns.
func (p *Prompter) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}

// ReadString prints prompt and returns the next line, trimmed.
func (p *Prompter) ReadString(ctx context.Context, prompt string) (string, error) {
	p.out.prompt(prompt)
	text, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ReadNonEmpty repeats prompt until a non-blank line is entered.
func (p *Prompter) ReadNonEmpty(ctx context.Context, prompt string) (string, error) {
	for {
		s, err := p.ReadString(ctx, prompt)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		p.out.message(LevelError, "This field cannot be empty. Try again.")
	}
}

// ReadInt repeats prompt until an integer is entered.
func (p *Prompter) ReadInt(ctx context.Context, prompt string) (int, error) {
	for {
		s, err := p.ReadString(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil {
			return n, nil
		}
		p.out.message(LevelError, "Enter a valid whole number.")
	}
}

// ReadMenuChoice prints a numbered menu and returns the 1-based choice.
func (p *Prompter) ReadMenuChoice(ctx context.Context, title string, options []string) (int, error) {
	p.out.menu(title, options)
	for {
		n, err := p.ReadInt(ctx, "Choose an option: ")
		if err != nil {
			return 0, err
		}
		if n >= 1 && n <= len(options) {
			return n, nil
		}
		p.out.message(LevelError, "Choose an option from 1 to %d.", len(options))
	}
}

// publishedHint follows the ReadPublished prompt.
const publishedHint = " (YYYY or YYYY-MM-DD, 0 if unknown; only the year is saved): "

// ReadPublished repeats prompt until a publication year or date that is not
// in the future is entered. A blank line or 0 returns the zero time.
//
// A full date is kept for the session, but the library file stores only its
// year, so it reloads as January 1 of that year.
func (p *Prompter) ReadPublished(ctx context.Context, prompt string) (time.Time, error) {
	for {
		s, err := p.ReadString(ctx, prompt+publishedHint)
		if err != nil {
			return time.Time{}, err
		}
		published, err := model.ParsePublished(s, p.now())
		if err == nil {
			return published, nil
		}
		p.out.message(LevelError, "%v.", err)
	}
}

// readLine waits for the next input line or for ctx to end. The scanner runs
// on its own goroutine until Close; a read already blocked on the input may
// outlive ctx.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-p.done:
		return "", io.EOF
	default:
	}
	p.once.Do(p.startReader)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.done:
		return "", io.EOF
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

func (p *Prompter) startReader() {
	p.lines = make(chan line, 1)
	go func() {
		defer close(p.lines)
		for p.scanner.Scan() {
			if !p.send(line{text: p.scanner.Text()}) {
				return
			}
		}
		if err := p.scanner.Err(); err != nil {
			p.send(line{err: fmt.Errorf("read input: %w", err)})
		}
	}()
}

// send delivers l unless the Prompter is closed.
func (p *Prompter) send(l line) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.lines <- l:
		return true
	case <-p.done:
		return false
	}
}
