// Package progress renders terminal progress bars for index builds.
package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"vidseek/internal/app/embedding/orchestrator"
)

type Config struct {
	Enabled bool
	Writer  io.Writer
}

// Manager owns the mpb container. A disabled Manager hands out no-op bars.
type Manager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

type Bar struct {
	bar     *mpb.Bar
	enabled bool
}

func NewManager(config Config) *Manager {
	if !config.Enabled {
		return &Manager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWaitGroup(&sync.WaitGroup{}),
	)

	return &Manager{
		container: container,
		enabled:   true,
	}
}

func (m *Manager) CreateBar(total int, description string) *Bar {
	if !m.enabled || m.container == nil {
		return &Bar{enabled: false}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bar := m.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
		),
	)

	return &Bar{
		bar:     bar,
		enabled: true,
	}
}

// SetCurrent moves the bar to n
func (b *Bar) SetCurrent(n int) {
	if b.enabled && b.bar != nil {
		b.bar.EwmaSetCurrent(int64(n), time.Second)
	}
}

func (b *Bar) Complete() {
	if b.enabled && b.bar != nil {
		b.bar.SetTotal(b.bar.Current(), true)
	}
}

// Abort removes an unfinished bar
func (b *Bar) Abort() {
	if b.enabled && b.bar != nil && !b.bar.Completed() {
		b.bar.Abort(false)
	}
}

func (m *Manager) Wait() {
	if m.enabled && m.container != nil {
		m.container.Wait()
	}
}

func (m *Manager) Shutdown() {
	if m.enabled && m.container != nil {
		m.container.Shutdown()
	}
}

// EmbeddingTracker turns batch embedder callbacks into one bar. The bar is
// created on the first callback, when the chunk total is known.
type EmbeddingTracker struct {
	manager     *Manager
	description string

	mu    sync.Mutex
	bar   *Bar
	total int
}

func NewEmbeddingTracker(manager *Manager, description string) *EmbeddingTracker {
	return &EmbeddingTracker{manager: manager, description: description}
}

// OnProgress is an orchestrator.ProgressFunc. Chunks before the announced
// batch are counted as done.
func (t *EmbeddingTracker) OnProgress(p orchestrator.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bar == nil {
		t.bar = t.manager.CreateBar(p.Total, t.description)
		t.total = p.Total
	}
	t.bar.SetCurrent(p.First - 1)
}

// Finish completes the bar on success and drops it otherwise
func (t *EmbeddingTracker) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bar == nil {
		return
	}
	if err != nil {
		t.bar.Abort()
		return
	}
	t.bar.SetCurrent(t.total)
	t.bar.Complete()
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr)
}
