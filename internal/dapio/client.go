// Package dapio is the DAP wire codec collaborator named but deliberately
// left out of scope by the core: framing, JSON encoding, and the
// request/response/event vocabulary of the Debug Adapter Protocol, built on
// top of github.com/google/go-dap. internal/probe depends only on the
// probe.Client interface this package implements.
package dapio

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/go-dap"

	"github.com/glthr/go-dap-probe/internal/probe"
)

// Client drives one DAP adapter conversation over a duplex stdio stream.
// Single-threaded cooperative, per §5: each request completes (by reading
// until its matching response arrives) before the next request is sent.
type Client struct {
	w   io.Writer
	r   *bufio.Reader
	log *slog.Logger

	seq int

	// breakpointsByFile accumulates the ordered list of lines currently
	// registered per file. DAP's setBreakpoints request replaces the full
	// breakpoint set for a file in one call; it is not additive across
	// calls. To let two specs at different lines of the same file both
	// stay active (required by the scenario of two specs in one loop),
	// every new registration for a file resends the complete, growing
	// list for that file.
	breakpointsByFile map[string][]int

	lastExited *dap.ExitedEvent
}

// New builds a Client bound to an already-spawned adapter process's stdio
// pipes. It satisfies probe.ClientFactory.
func New(stdin io.WriteCloser, stdout io.ReadCloser, log *slog.Logger) probe.Client {
	return &Client{
		w:                 stdin,
		r:                 bufio.NewReader(stdout),
		log:               log,
		breakpointsByFile: make(map[string][]int),
	}
}

func (c *Client) nextSeq() int {
	c.seq++
	return c.seq
}

func (c *Client) send(msg dap.Message) error {
	c.log.Debug("dap send", "message", fmt.Sprintf("%T", msg))
	return dap.WriteProtocolMessage(c.w, msg)
}

func (c *Client) readMessage() (dap.Message, error) {
	msg, err := dap.ReadProtocolMessage(c.r)
	if err != nil {
		return nil, fmt.Errorf("read DAP message: %w", err)
	}
	c.log.Debug("dap recv", "message", fmt.Sprintf("%T", msg))
	return msg, nil
}

// Close releases the client's write side. The adapter process itself is
// reaped by the orchestrator, not by this client.
func (c *Client) Close() error {
	if closer, ok := c.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func errorResponseMessage(e *dap.ErrorResponse) string {
	if e.Body.Error.Format != "" {
		return e.Body.Error.Format
	}
	return e.Message
}
