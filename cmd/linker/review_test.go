package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/review"
)

func proposal() review.Proposal {
	return review.Proposal{
		Index: 0,
		Total: 1,
		Candidate: core.Candidate{
			SourceID: "A.md", TargetID: "Beta.md", Start: 4, End: 8, MatchedText: "Beta",
		},
		Outcome: core.Outcome{
			Preview:      "See [[Beta.md|Beta]] for details.",
			PreviewStart: 4,
			PreviewEnd:   20,
		},
	}
}

func TestPromptDecider_Answers(t *testing.T) {
	tests := []struct {
		input string
		want  core.Decision
		err   error
	}{
		{"y\n", core.Accepted, nil},
		{"YES\n", core.Accepted, nil},
		{"n\n", core.Declined, nil},
		{"\n", core.Declined, nil},
		{"maybe\ny\n", core.Accepted, nil},
		{"q\n", core.Declined, core.ErrAborted},
		{"", core.Declined, core.ErrAborted},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			d := newPromptDecider(strings.NewReader(tt.input), &out)

			got, err := d.Decide(context.Background(), proposal())
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "[[Beta.md|Beta]]")
		})
	}
}

func TestPromptDecider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := newPromptDecider(strings.NewReader("y\n"), &bytes.Buffer{})

	_, err := d.Decide(ctx, proposal())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptDecider_CancelWhileWaiting(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()
	d := newPromptDecider(in, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := d.Decide(ctx, proposal())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("prompt ignored cancellation")
	}

	// An answer typed after cancellation is never applied.
	go w.Write([]byte("y\n"))
	_, err := d.Decide(ctx, proposal())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptDecider_ReusedAcrossProposals(t *testing.T) {
	d := newPromptDecider(strings.NewReader("y\nn\n"), &bytes.Buffer{})
	ctx := context.Background()

	got, err := d.Decide(ctx, proposal())
	require.NoError(t, err)
	assert.Equal(t, core.Accepted, got)

	got, err = d.Decide(ctx, proposal())
	require.NoError(t, err)
	assert.Equal(t, core.Declined, got)

	_, err = d.Decide(ctx, proposal())
	assert.ErrorIs(t, err, core.ErrAborted)
}

func TestPreviewWindow(t *testing.T) {
	o := core.Outcome{
		Preview:      "first line\nSee [[B|B]] here\nlast line",
		PreviewStart: 15,
		PreviewEnd:   22,
	}
	assert.Equal(t, "See [[B|B]] here", previewWindow(o, 100))

	long := strings.Repeat("x", 50) + "LINK" + strings.Repeat("y", 50)
	o = core.Outcome{Preview: long, PreviewStart: 50, PreviewEnd: 54}
	assert.Equal(t, "…"+strings.Repeat("x", 5)+"LINK"+strings.Repeat("y", 5)+"…", previewWindow(o, 5))

	o = core.Outcome{Preview: "short", PreviewStart: 3, PreviewEnd: 99}
	assert.Equal(t, "short", previewWindow(o, 5))
}

func TestPrintReport(t *testing.T) {
	r := &review.Report{
		Resolutions: []review.Resolution{{Status: review.Accepted}, {Status: review.Declined}, {Status: review.Pending}},
		Documents:   []review.DocumentResult{{ID: "A.md", Accepted: 1, Written: true}},
	}
	var out bytes.Buffer
	printReport(&out, r)
	assert.Contains(t, out.String(), "1 accepted, 1 declined, 0 skipped, 1 not reviewed")
	assert.Contains(t, out.String(), "A.md: 1 links")
}
