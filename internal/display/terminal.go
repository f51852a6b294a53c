package display

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/scanline/internal/app"
	"github.com/taigrr/scanline/pkg/render"
)

// holdTimeout releases a key that has not repeated for this long. Most
// terminals send no release events.
const holdTimeout = 250 * time.Millisecond

// keyAliases lists extra names a terminal may report for a key.
var keyAliases = map[app.Key][]string{
	app.KeyEscape: {"esc"},
	app.KeySpace:  {" "},
}

// Terminal renders with half-block cells, two pixels per cell.
type Terminal struct {
	FPS int
}

// Run takes over the terminal until the app quits, ctx is done, or the
// process receives SIGINT or SIGTERM.
func (t *Terminal) Run(ctx context.Context, a *app.App) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Events are handed to the frame loop so only one goroutine touches
	// the app.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	a.Resize(render.TerminalFrameSize(width, height))
	keys := newTermKeys()
	targetDuration := time.Duration(frameTime(t.FPS) * float64(time.Second))
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sigChan:
			return nil
		default:
		}

	drain:
		for {
			select {
			case ev := <-events:
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					a.Resize(render.TerminalFrameSize(width, height))
				case uv.KeyPressEvent:
					if ev.MatchString("ctrl+c") {
						return nil
					}
					if k, ok := matchKey(ev.MatchString); ok {
						keys.press(k, time.Now())
					}
				case uv.KeyReleaseEvent:
					if k, ok := matchKey(ev.MatchString); ok {
						keys.release(k)
					}
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), maxFrameTime)
		lastFrame = now

		keys.expire(now)
		a.Step(dt, &keys.state)
		keys.state.EndFrame()

		a.Present().Draw(term, uv.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		if !a.Running() {
			return nil
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// matchKey finds the app key a terminal key event names.
func matchKey(match func(...string) bool) (app.Key, bool) {
	for _, k := range app.Keys() {
		if match(append([]string{k.String()}, keyAliases[k]...)...) {
			return k, true
		}
	}
	return 0, false
}

// termKeys tracks held keys from press events alone until the terminal
// shows it reports releases.
type termKeys struct {
	state    app.KeyState
	seen     map[app.Key]time.Time
	releases bool
}

func newTermKeys() *termKeys {
	return &termKeys{seen: make(map[app.Key]time.Time)}
}

func (k *termKeys) press(key app.Key, now time.Time) {
	k.state.Press(key)
	k.seen[key] = now
}

func (k *termKeys) release(key app.Key) {
	k.releases = true
	k.state.Release(key)
	delete(k.seen, key)
}

func (k *termKeys) expire(now time.Time) {
	if k.releases {
		return
	}
	for key, at := range k.seen {
		if now.Sub(at) > holdTimeout {
			k.state.Release(key)
			delete(k.seen, key)
		}
	}
}
