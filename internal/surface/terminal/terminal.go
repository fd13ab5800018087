// Package terminal renders a meeting room and the account forms on a
// text console.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/surface"
)

// Config holds configuration for the terminal surface
type Config struct {
	Output io.Writer

	// Input answers confirmation prompts; without it every prompt is declined
	Input io.Reader
}

// Terminal implements surface.Renderer, Notifier, Confirmer and Navigator.
// Timer elements are tracked silently and shown on the status line, which
// is redrawn whenever the room changes.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	in      *bufio.Reader
	styles  styles
	texts   map[surface.Element]string
	visible map[surface.Element]bool
	enabled map[surface.Element]bool
}

// New creates a terminal surface
func New(cfg *Config) *Terminal {
	t := &Terminal{
		out:     io.Discard,
		styles:  newStyles(),
		texts:   map[surface.Element]string{},
		visible: map[surface.Element]bool{},
		enabled: map[surface.Element]bool{},
	}

	if cfg != nil {
		if cfg.Output != nil {
			t.out = cfg.Output
		}
		if cfg.Input != nil {
			t.in = bufio.NewReader(cfg.Input)
		}
	}

	return t
}

// SetText records the value and echoes the ones worth a line of their own
func (t *Terminal) SetText(ctx context.Context, element surface.Element, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.texts[element] = value

	switch element {
	case surface.ElementStatus:
		t.drawStatusLine()
	case surface.ElementCounselorName:
		t.println(t.styles.title.Render("Session with " + value))
	case surface.ElementSessionTime:
		t.println(t.styles.detail.Render("Scheduled for " + value))
	case surface.ElementSubmitButton, surface.ElementPasswordMeter:
		if value != "" {
			t.println(t.styles.detail.Render(value))
		}
	case surface.ElementConfirmPassword:
		if value != "" {
			t.println(t.styles.failure.Render(value))
		}
	case surface.ElementMicIcon, surface.ElementCameraIcon:
		t.drawStatusLine()
	}
}

// SetVisible records visibility, announcing the waiting room and chat panel
func (t *Terminal) SetVisible(ctx context.Context, element surface.Element, visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, seen := t.visible[element]
	t.visible[element] = visible
	if seen && prev == visible {
		return
	}

	switch element {
	case surface.ElementWaitingOverlay:
		if visible {
			t.println(t.styles.status.Render("In the waiting room"))
		}
	case surface.ElementChatPanel:
		if visible {
			t.println(t.styles.status.Render("Chat opened"))
		} else if seen {
			t.println(t.styles.status.Render("Chat closed"))
		}
	case surface.ElementRoom:
		if !visible {
			t.println(t.styles.status.Render("You left the room"))
		}
	}
}

// SetEnabled records whether a control accepts input
func (t *Terminal) SetEnabled(ctx context.Context, element surface.Element, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled[element] = enabled
}

// AppendMessage prints a chat line and redraws the status line
func (t *Terminal) AppendMessage(ctx context.Context, msg *models.ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if msg.Sender == models.SenderSelf {
		t.println(t.styles.self.Render("You:") + " " + msg.Text)
	} else {
		name := t.texts[surface.ElementCounselorName]
		if name == "" {
			name = "Counselor"
		}
		t.println(t.styles.remote.Render(name+":") + " " + msg.Text)
	}

	t.drawStatusLine()
}

// Notify prints a toast
func (t *Terminal) Notify(ctx context.Context, toast *models.Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch toast.Level {
	case models.ToastSuccess:
		t.println(t.styles.success.Render("✓ " + toast.Text))
	case models.ToastError:
		t.println(t.styles.failure.Render("✗ " + toast.Text))
	default:
		t.println(t.styles.info.Render("• " + toast.Text))
	}
}

// Navigate prints where the user is being sent
func (t *Terminal) Navigate(ctx context.Context, destination models.Destination) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.println(t.styles.nav.Render("→ " + string(destination)))
}

// Confirm asks a yes/no question on the input reader. Anything but y or
// yes, including a read error, is a no.
func (t *Terminal) Confirm(ctx context.Context, prompt string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprint(t.out, t.styles.prompt.Render(prompt)+" [y/N] ")
	if t.in == nil || ctx.Err() != nil {
		fmt.Fprintln(t.out)
		return false
	}

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Println writes a line of plain output between surface updates
func (t *Terminal) Println(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.println(line)
}

// Text returns the last value set on element
func (t *Terminal) Text(element surface.Element) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.texts[element]
}

// Enabled reports whether element accepts input. Elements never touched are enabled.
func (t *Terminal) Enabled(element surface.Element) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	enabled, ok := t.enabled[element]
	return !ok || enabled
}

// drawStatusLine must be called with mu held
func (t *Terminal) drawStatusLine() {
	status := t.texts[surface.ElementStatus]
	if status == "" {
		return
	}

	parts := []string{status}
	if timer := t.texts[surface.ElementMeetingTimer]; timer != "" {
		parts = append(parts, timer)
	}
	if t.texts[surface.ElementMicIcon] == "mic-off" {
		parts = append(parts, "muted")
	}
	if t.texts[surface.ElementCameraIcon] == "video-off" {
		parts = append(parts, "camera off")
	}
	if t.visible[surface.ElementChatDot] {
		parts = append(parts, "new message")
	}

	t.println(t.styles.status.Render("[" + strings.Join(parts, " | ") + "]"))
}

func (t *Terminal) println(line string) {
	fmt.Fprintln(t.out, line)
}
