// Package i3 speaks the i3 IPC protocol over the window manager's unix
// socket: length-prefixed, type-tagged JSON messages. It implements the
// wm.Client capability the launcher core is written against. The protocol
// is shared by sway, so both compositors work.
package i3

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/open-dynaMIX/raiseorlaunch/internal/logger"
	"github.com/open-dynaMIX/raiseorlaunch/internal/wm"
)

const magic = "i3-ipc"

// headerLen is the magic plus two little-endian uint32s: payload length
// and message type.
const headerLen = len(magic) + 8

type messageType uint32

const (
	msgRunCommand    messageType = 0
	msgGetWorkspaces messageType = 1
	msgSubscribe     messageType = 2
	msgGetTree       messageType = 4
)

// Events are replies with bit 31 set; the low bits carry the event type.
const (
	eventFlag   uint32 = 1 << 31
	windowEvent uint32 = 3
)

// SocketPath locates the IPC socket: $I3SOCK, then $SWAYSOCK, then asking
// the i3 binary.
func SocketPath() (string, error) {
	if path := os.Getenv("I3SOCK"); path != "" {
		return path, nil
	}
	if path := os.Getenv("SWAYSOCK"); path != "" {
		return path, nil
	}
	out, err := exec.Command("i3", "--get-socketpath").Output()
	if err != nil {
		return "", fmt.Errorf("failed to determine i3 socket path: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Client is a connection to the window manager. Commands and queries run
// synchronously on one connection; subscriptions get a dedicated second
// connection so events never interleave with replies.
type Client struct {
	conn      net.Conn
	dialEvent func() (net.Conn, error)
	eventConn net.Conn
	callbacks []func(*wm.Window)
	log       zerolog.Logger
}

var _ wm.Client = (*Client)(nil)

// Connect discovers the socket path and dials it.
func Connect() (*Client, error) {
	path, err := SocketPath()
	if err != nil {
		return nil, err
	}
	return Dial(path)
}

// Dial connects to the IPC socket at the given path.
func Dial(path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to i3 socket: %w", err)
	}
	c := newClient(conn, func() (net.Conn, error) {
		return net.Dial("unix", path)
	})
	c.log.Debug().Str("path", path).Msg("connected to i3")
	return c, nil
}

func newClient(conn net.Conn, dialEvent func() (net.Conn, error)) *Client {
	return &Client{
		conn:      conn,
		dialEvent: dialEvent,
		log:       logger.WithComponent("i3"),
	}
}

// Close closes the command connection and, when open, the event connection.
func (c *Client) Close() error {
	if c.eventConn != nil {
		c.eventConn.Close()
	}
	return c.conn.Close()
}

// GetTree fetches the full container tree and flattens it into a snapshot.
func (c *Client) GetTree() (*wm.Snapshot, error) {
	payload, err := c.roundTrip(msgGetTree, nil)
	if err != nil {
		return nil, err
	}
	var root node
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, fmt.Errorf("failed to parse tree reply: %w", err)
	}
	return buildSnapshot(&root), nil
}

// FocusedWorkspace returns the name of the currently focused workspace.
func (c *Client) FocusedWorkspace() (string, error) {
	payload, err := c.roundTrip(msgGetWorkspaces, nil)
	if err != nil {
		return "", err
	}
	var workspaces []struct {
		Name    string `json:"name"`
		Focused bool   `json:"focused"`
	}
	if err := json.Unmarshal(payload, &workspaces); err != nil {
		return "", fmt.Errorf("failed to parse workspaces reply: %w", err)
	}
	for _, ws := range workspaces {
		if ws.Focused {
			return ws.Name, nil
		}
	}
	return "", errors.New("no focused workspace reported")
}

// FindMarked returns the windows carrying exactly the given mark.
func (c *Client) FindMarked(mark string) ([]*wm.Window, error) {
	tree, err := c.GetTree()
	if err != nil {
		return nil, err
	}
	return tree.Marked(mark), nil
}

// Command issues a command string. i3 replies with one result per chained
// command; any failure is surfaced with i3's error text.
func (c *Client) Command(cmd string) error {
	c.log.Debug().Str("cmd", cmd).Msg("running command")
	payload, err := c.roundTrip(msgRunCommand, []byte(cmd))
	if err != nil {
		return err
	}
	var results []struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &results); err != nil {
		return fmt.Errorf("failed to parse command reply: %w", err)
	}
	for _, res := range results {
		if !res.Success {
			return fmt.Errorf("i3 rejected command %q: %s", cmd, res.Error)
		}
	}
	return nil
}

// SubscribeWindowNew registers a callback for window::new events. The
// first subscription opens the event connection; it must happen before
// the command that spawns the window.
func (c *Client) SubscribeWindowNew(fn func(*wm.Window)) error {
	if c.eventConn == nil {
		conn, err := c.dialEvent()
		if err != nil {
			return fmt.Errorf("failed to open event connection: %w", err)
		}
		if err := writeMessage(conn, msgSubscribe, []byte(`["window"]`)); err != nil {
			conn.Close()
			return fmt.Errorf("failed to subscribe: %w", err)
		}
		typ, payload, err := readMessage(conn)
		if err != nil {
			conn.Close()
			return fmt.Errorf("failed to read subscribe reply: %w", err)
		}
		var reply struct {
			Success bool `json:"success"`
		}
		if typ != uint32(msgSubscribe) || json.Unmarshal(payload, &reply) != nil || !reply.Success {
			conn.Close()
			return errors.New("i3 refused the window event subscription")
		}
		c.eventConn = conn
	}
	c.callbacks = append(c.callbacks, fn)
	return nil
}

// RunEventLoop consumes window events until the timeout elapses. The
// deadline is absolute: no matter how many events arrive, the loop never
// blocks longer than the timeout. Expiry is the normal return.
func (c *Client) RunEventLoop(timeout time.Duration) error {
	if c.eventConn == nil {
		return errors.New("no event subscription active")
	}
	if err := c.eventConn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	for {
		typ, payload, err := readMessage(c.eventConn)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				c.log.Debug().Dur("timeout", timeout).Msg("event time limit reached")
				return nil
			}
			return fmt.Errorf("event loop failed: %w", err)
		}
		if typ != eventFlag|windowEvent {
			continue
		}
		var event struct {
			Change    string `json:"change"`
			Container *node  `json:"container"`
		}
		if err := json.Unmarshal(payload, &event); err != nil {
			c.log.Error().Err(err).Msg("failed to parse window event")
			continue
		}
		if event.Change != "new" || event.Container == nil {
			continue
		}
		// Event payloads carry no workspace context; consumers resolve
		// it from a fresh tree when they need it.
		window := event.Container.toWindow("", wm.ScratchpadNone)
		for _, fn := range c.callbacks {
			fn(window)
		}
	}
}

func writeMessage(w io.Writer, t messageType, payload []byte) error {
	buf := make([]byte, headerLen+len(payload))
	copy(buf, magic)
	binary.LittleEndian.PutUint32(buf[6:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[10:], uint32(t))
	copy(buf[headerLen:], payload)
	_, err := w.Write(buf)
	return err
}

func readMessage(r io.Reader) (uint32, []byte, error) {
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	if string(header[:6]) != magic {
		return 0, nil, fmt.Errorf("invalid magic in reply: %q", header[:6])
	}
	length := binary.LittleEndian.Uint32(header[6:10])
	typ := binary.LittleEndian.Uint32(header[10:14])
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return typ, payload, nil
}

// roundTrip sends one request and waits for its reply, skipping any stray
// events that show up on the command connection.
func (c *Client) roundTrip(t messageType, payload []byte) ([]byte, error) {
	if err := writeMessage(c.conn, t, payload); err != nil {
		return nil, fmt.Errorf("failed to send message to i3: %w", err)
	}
	for {
		typ, body, err := readMessage(c.conn)
		if err != nil {
			return nil, fmt.Errorf("failed to read reply from i3: %w", err)
		}
		if typ&eventFlag != 0 {
			continue
		}
		if messageType(typ) != t {
			return nil, fmt.Errorf("unexpected reply type %d for request %d", typ, t)
		}
		return body, nil
	}
}
