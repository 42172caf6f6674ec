package transcript

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// scriptedPage serves a sequence of HTML states, one per Document call, and
// keeps returning the last one.
type scriptedPage struct {
	mu        sync.Mutex
	states    []string
	calls     int
	opened    int
	openErr   error
	openAfter bool // only advance past the first state once the panel is opened
}

func (p *scriptedPage) Document(ctx context.Context) (*goquery.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := p.calls
	if p.openAfter && p.opened == 0 {
		idx = 0
	}
	if idx >= len(p.states) {
		idx = len(p.states) - 1
	}
	p.calls++
	return goquery.NewDocumentFromReader(strings.NewReader(p.states[idx]))
}

func (p *scriptedPage) OpenTranscriptPanel(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opened++
	return p.openErr
}

type staticLoader struct {
	page  Page
	err   error
	loads int
}

func (l *staticLoader) Load(context.Context, string) (Page, error) {
	l.loads++
	return l.page, l.err
}

const renderedPanel = `<html><body>
<ytd-transcript-segment-renderer>
  <div class="segment-timestamp">0:03</div>
  <yt-formatted-string class="segment-text">Welcome back to the channel</yt-formatted-string>
</ytd-transcript-segment-renderer>
<ytd-transcript-segment-renderer>
  <div class="segment-timestamp">56:30</div>
  <yt-formatted-string class="segment-text">  today we talk
     about   gradients </yt-formatted-string>
</ytd-transcript-segment-renderer>
<ytd-transcript-segment-renderer>
  <div class="segment-timestamp">1:02:03</div>
  <yt-formatted-string class="segment-text">see you next time</yt-formatted-string>
</ytd-transcript-segment-renderer>
</body></html>`
