package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/review"
)

var (
	reviewYes bool
)

// previewRadius is how many bytes of context are shown on each side of a proposal.
const previewRadius = 120

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Accept or decline each link candidate",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		eng, _, err := openEngine(cmd)
		if err != nil {
			fatal("Error initializing linker", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		go func() {
			// A second interrupt kills the process.
			<-ctx.Done()
			stop()
		}()

		var decider review.Decider = newPromptDecider(os.Stdin, os.Stdout)
		if reviewYes {
			decider = review.AcceptAll
		}

		_, report, err := eng.Run(ctx, decider)
		if report != nil {
			printReport(os.Stdout, report)
		}
		if err != nil && !errors.Is(err, core.ErrAborted) {
			fatal("Review failed", err)
		}
	},
}

// promptDecider asks on out and reads y/n/q answers from in.
// Input is read on a separate goroutine so a canceled context interrupts a pending prompt.
type promptDecider struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan readResult
}

type readResult struct {
	line string
	err  error
}

func newPromptDecider(in io.Reader, out io.Writer) *promptDecider {
	return &promptDecider{in: bufio.NewReader(in), out: out, lines: make(chan readResult)}
}

func (d *promptDecider) readLines() {
	defer close(d.lines)
	for {
		line, err := d.in.ReadString('\n')
		d.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// readLine waits for the next line of input or for ctx to be done.
func (d *promptDecider) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.once.Do(func() { go d.readLines() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-d.lines:
		if !ok || (r.err != nil && r.line == "") {
			return "", fmt.Errorf("%w: no more input", core.ErrAborted)
		}
		return r.line, nil
	}
}

func (d *promptDecider) Decide(ctx context.Context, p review.Proposal) (core.Decision, error) {
	fmt.Fprintln(d.out, headerStyle.Render(fmt.Sprintf("[%d/%d] %s: %q -> %s",
		p.Index+1, p.Total, p.SourceID(), p.MatchedText(), p.TargetID())))
	fmt.Fprintln(d.out, previewWindow(p.Outcome, previewRadius))

	for {
		fmt.Fprint(d.out, dimStyle.Render("link? [y]es / [N]o / [q]uit: "))
		line, err := d.readLine(ctx)
		if err != nil {
			return core.Declined, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return core.Accepted, nil
		case "", "n", "no":
			return core.Declined, nil
		case "q", "quit":
			return core.Declined, core.ErrAborted
		}
		fmt.Fprintln(d.out, "please answer y, n or q")
	}
}

// previewWindow cuts the decorated span plus up to radius bytes of context on the same
// lines out of the preview document.
func previewWindow(o core.Outcome, radius int) string {
	text := o.Preview
	start, end := o.PreviewStart, o.PreviewEnd
	if start < 0 || end > len(text) || start > end {
		return text
	}

	lo := max(start-radius, 0)
	for lo < start && !utf8.RuneStart(text[lo]) {
		lo++
	}
	if i := strings.LastIndexByte(text[lo:start], '\n'); i >= 0 {
		lo += i + 1
	}

	hi := min(end+radius, len(text))
	for hi > end && hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi--
	}
	if i := strings.IndexByte(text[end:hi], '\n'); i >= 0 {
		hi = end + i
	}

	window := text[lo:hi]
	if lo > 0 && text[lo-1] != '\n' {
		window = "…" + window
	}
	if hi < len(text) && text[hi] != '\n' {
		window += "…"
	}
	return window
}

func printReport(w io.Writer, r *review.Report) {
	fmt.Fprintf(w, "%d accepted, %d declined, %d skipped, %d not reviewed\n",
		r.Count(review.Accepted), r.Count(review.Declined), r.Count(review.Skipped), r.Count(review.Pending))
	for _, d := range r.Documents {
		switch {
		case d.Err != nil:
			fmt.Fprintf(w, "  %s: not written: %v\n", d.ID, d.Err)
		case d.Written:
			fmt.Fprintf(w, "  %s: %d links\n", d.ID, d.Accepted)
		}
	}
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().BoolVarP(&reviewYes, "yes", "y", false, "Accept every candidate without asking")
}
