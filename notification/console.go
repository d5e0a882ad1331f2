package notification

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/raykavin/signalcast/core"
)

// Console implements core.Notifier by writing messages to a writer. It
// backs the simulate command and local runs without a Telegram token.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console notifier writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Send implements core.Notifier
func (c *Console) Send(_ context.Context, recipientID int64, message core.RenderedMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "--- to subscriber %d ---\n%s\n[%s] [%s]\n",
		recipientID, message.Text, message.Actions[0].Kind, message.Actions[1].Kind)
	return nil
}

// Notify implements core.Notifier
func (c *Console) Notify(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// OnError implements core.Notifier
func (c *Console) OnError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "ERROR: %v\n", err)
}
