package treemodel

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	uuid "github.com/satori/go.uuid"
)

// ProtocolVersion is sent to the client in the VERSION message.
const ProtocolVersion = 1

// Connection serves a Model to a display surface in another process. Messages
// in both directions are JSON objects framed as "<length> <json>\n".
//
// The client pulls with PARENT, IS_CONTAINER, CHILDREN, VALUE, SET_VALUE,
// COMPARE and COMMAND requests, each answered by a REPLY with the same id. The
// Connection is itself a Surface attached to the model, so notifications are
// pushed to the client as ITEM_ADDED, ITEM_DELETED, ITEM_CHANGED and CLEARED.
//
// Model data is only touched from Process (and Run, which calls it), so the
// application controls which goroutine does so. Other goroutines hand work to
// that goroutine with Post.
type Connection struct {
	// Commands, if set, handles COMMAND requests. It must be set before the
	// connection starts.
	Commands *Commands

	model   *Model
	session uuid.UUID

	in  io.ReadCloser
	out io.WriteCloser
	wmu sync.Mutex

	emu sync.Mutex
	err error

	started       bool
	processSignal chan struct{}
	queue         chan []byte
	posted        chan func()
	done          chan struct{}
}

// NewConnection creates a connection serving model over an open stream and
// attaches it to the model. Run or Process must be called to start processing.
func NewConnection(model *Model, data io.ReadWriteCloser) (*Connection, error) {
	return NewConnectionSplit(model, data, data)
}

// NewConnectionSplit is equivalent to NewConnection, except that it uses
// separate streams for reading and writing. This is useful for pipes or when
// using stdin and stdout.
func NewConnectionSplit(model *Model, in io.ReadCloser, out io.WriteCloser) (*Connection, error) {
	session, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("connection session: %w", err)
	}

	c := &Connection{
		model:         model,
		session:       session,
		in:            in,
		out:           out,
		processSignal: make(chan struct{}, 2),
		queue:         make(chan []byte, 128),
		posted:        make(chan func(), 128),
		done:          make(chan struct{}),
	}
	if err := model.Attach(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Session returns the identifier sent to the client in the VERSION message.
func (c *Connection) Session() string {
	return c.session.String()
}

type messageBase struct {
	Command string `json:"command"`
}

type request struct {
	Command   string          `json:"command"`
	ID        int64           `json:"id"`
	Item      Item            `json:"item"`
	Other     Item            `json:"other"`
	Column    int             `json:"column"`
	Ascending bool            `json:"ascending"`
	Value     json.RawMessage `json:"value"`
	Name      string          `json:"name"`
}

type reply struct {
	messageBase
	ID     int64       `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

var errConnectionClosed = errors.New("connection closed")

func (c *Connection) fatal(fmsg string, p ...interface{}) {
	msg := fmt.Sprintf(fmsg, p...)
	c.model.log.Error("connection fatal", "session", c.Session(), "error", msg)
	c.fail(errors.New(msg))
}

// fail records the first error and closes both streams.
func (c *Connection) fail(err error) {
	c.emu.Lock()
	defer c.emu.Unlock()
	if c.err == nil {
		c.err = err
		close(c.done)
		c.in.Close()
		c.out.Close()
	}
}

// Err returns the error that ended the connection, or nil while it is open.
func (c *Connection) Err() error {
	c.emu.Lock()
	defer c.emu.Unlock()
	return c.err
}

func (c *Connection) warn(fmsg string, p ...interface{}) {
	c.model.log.Warn(fmt.Sprintf(fmsg, p...), "session", c.Session())
}

func (c *Connection) sendMessage(msg interface{}) {
	buf, err := json.Marshal(msg)
	if err != nil {
		c.fatal("message encoding failed: %s", err)
		return
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := fmt.Fprintf(c.out, "%d %s\n", len(buf), buf); err != nil {
		c.warn("write failed: %s", err)
	}
}

// handle runs in an internal goroutine to read from 'in'. Messages are posted
// to the queue and processSignal is triggered.
func (c *Connection) handle() {
	defer close(c.processSignal)
	defer close(c.queue)

	c.sendMessage(struct {
		messageBase
		Version int    `json:"version"`
		Session string `json:"session"`
	}{messageBase{"VERSION"}, ProtocolVersion, c.Session()})

	c.sendMessage(struct {
		messageBase
		Columns []Column `json:"columns"`
	}{messageBase{"COLUMNS"}, c.model.Columns()})

	rd := bufio.NewReader(c.in)
	for c.Err() == nil {
		sizeStr, err := rd.ReadString(' ')
		if err == io.EOF && sizeStr == "" {
			c.model.log.Info("connection closed by client", "session", c.Session())
			c.fail(errConnectionClosed)
			return
		} else if err != nil {
			c.fatal("read error: %s", err)
			return
		} else if len(sizeStr) < 2 {
			c.fatal("read invalid message: invalid size")
			return
		}

		byteCnt, _ := strconv.ParseInt(sizeStr[:len(sizeStr)-1], 10, 32)
		if byteCnt < 1 {
			c.fatal("read invalid message: size too short")
			return
		}

		blob := make([]byte, byteCnt)
		if _, err := io.ReadFull(rd, blob); err != nil {
			c.fatal("read error: %s", err)
			return
		}

		// Read the final newline
		if nl, err := rd.ReadByte(); err != nil {
			c.fatal("read error: %s", err)
			return
		} else if nl != '\n' {
			c.fatal("read invalid message: expected terminating newline, read %c", nl)
			return
		}

		// Queue and signal
		c.queue <- blob
		c.processSignal <- struct{}{}
	}
}

func (c *Connection) ensureHandler() {
	if !c.started {
		c.started = true
		go c.handle()
	}
}

// Started returns true once Run, Process or RunLockable has been called.
func (c *Connection) Started() bool {
	return c.started
}

// Post queues fn to run on the goroutine calling Process or Run. It is the
// way for background work to hand a finished result back, e.g. to mutate the
// dataset and notify the model. Post blocks while the queue is full and the
// connection is open. Once the connection has ended, fn may be dropped.
func (c *Connection) Post(fn func()) {
	select {
	case c.posted <- fn:
	case <-c.done:
	}
}

// Run processes messages and posted functions until the connection is closed.
func (c *Connection) Run() error {
	c.ensureHandler()
	for {
		select {
		case _, open := <-c.processSignal:
			if !open {
				c.runPosted()
				if err := c.Err(); err != errConnectionClosed {
					return err
				}
				return nil
			}
			if err := c.Process(); err != nil {
				return err
			}
		case fn := <-c.posted:
			fn()
		}
	}
}

func (c *Connection) runPosted() {
	for {
		select {
		case fn := <-c.posted:
			fn()
		default:
			return
		}
	}
}

// Process handles any pending messages and posted functions, but does not
// block to wait for new ones. ProcessSignal signals when there are messages to
// process.
//
// Process returns nil when nothing is pending. All errors are fatal for the
// connection.
func (c *Connection) Process() error {
	c.ensureHandler()
	c.runPosted()

	for {
		var data []byte
		select {
		case data = <-c.queue:
		default:
			return c.processErr()
		}
		if data == nil {
			// queue closed
			return c.processErr()
		}

		var req request
		if err := json.Unmarshal(data, &req); err != nil {
			c.fatal("process invalid message: %s", err)
			continue
		}
		c.dispatch(req)
	}
}

func (c *Connection) processErr() error {
	if err := c.Err(); err != errConnectionClosed {
		return err
	}
	return nil
}

// ProcessSignal returns a channel which receives when messages are queued, and
// is closed when the connection ends.
func (c *Connection) ProcessSignal() <-chan struct{} {
	c.ensureHandler()
	return c.processSignal
}

func (c *Connection) dispatch(req request) {
	m := c.model
	r := reply{messageBase: messageBase{"REPLY"}, ID: req.ID}

	switch req.Command {
	case "PARENT":
		r.Result = m.ParentOf(req.Item)
	case "IS_CONTAINER":
		r.Result = m.IsContainer(req.Item)
	case "CHILDREN":
		children := m.ChildrenOf(req.Item)
		if children == nil {
			children = []Item{}
		}
		r.Result = children
	case "VALUE":
		r.Result = m.GetValue(req.Item, req.Column)
	case "SET_VALUE":
		// A value that is no Value (a fraction, an object) is a rejected edit
		var value Value
		if len(req.Value) > 0 {
			if err := json.Unmarshal(req.Value, &value); err != nil {
				m.log.Debug("edit rejected", "item", req.Item, "column", req.Column, "error", err)
				r.Result = false
				break
			}
		}
		r.Result = m.SetValue(req.Item, req.Column, value)
	case "COMPARE":
		r.Result = m.Compare(req.Item, req.Other, req.Column, req.Ascending)
	case "COMMAND":
		if c.Commands == nil {
			r.Error = ErrUnknownCommand.Error()
		} else if err := c.Commands.Dispatch(req.Name, req.Item); err != nil {
			c.warn("command %s on %s failed: %s", req.Name, req.Item, err)
			r.Error = err.Error()
		} else {
			r.Result = true
		}
	default:
		c.fatal("unknown command %s", req.Command)
		return
	}

	c.sendMessage(r)
}

// Close detaches the connection from the model and closes its streams.
func (c *Connection) Close() error {
	c.model.Detach(c)
	c.fail(errConnectionClosed)
	return nil
}

func (c *Connection) Columns() []Column {
	return c.model.Columns()
}

type itemMessage struct {
	messageBase
	Parent *Item `json:"parent,omitempty"`
	Item   Item  `json:"item"`
}

func (c *Connection) ItemAdded(parent, item Item) {
	c.sendMessage(itemMessage{messageBase{"ITEM_ADDED"}, &parent, item})
}

func (c *Connection) ItemDeleted(parent, item Item) {
	c.sendMessage(itemMessage{messageBase{"ITEM_DELETED"}, &parent, item})
}

func (c *Connection) ItemChanged(item Item) {
	c.sendMessage(itemMessage{messageBase{"ITEM_CHANGED"}, nil, item})
}

func (c *Connection) Cleared() {
	c.sendMessage(messageBase{"CLEARED"})
}
