package dap

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/go-dap"
	"github.com/sirupsen/logrus"
)

// Client provides the DAP operations needed to launch and resume a
// program. It owns a reader goroutine that routes responses to pending
// requests and everything else to the event handler.
type Client struct {
	transport *Transport
	log       logrus.FieldLogger

	// Response handling
	pendingRequests map[int]chan dap.Message
	mu              sync.Mutex

	// Event handling
	eventHandler func(dap.Message)

	// Initialization synchronization
	initialized     chan struct{}
	initializedOnce sync.Once

	// Context for shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClient creates a new DAP client with the given transport
func NewClient(transport *Transport, log logrus.FieldLogger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Client{
		transport:       transport,
		log:             log,
		pendingRequests: make(map[int]chan dap.Message),
		initialized:     make(chan struct{}),
		ctx:             ctx,
		cancel:          cancel,
	}

	c.wg.Add(1)
	go c.readLoop()

	return c
}

// SetEventHandler sets the handler for DAP events. Must be called before
// any request that can trigger events.
func (c *Client) SetEventHandler(handler func(dap.Message)) {
	c.eventHandler = handler
}

// readLoop continuously reads messages from the transport
func (c *Client) readLoop() {
	defer c.wg.Done()

	consecutiveErrors := 0
	const maxConsecutiveErrors = 5

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		msg, err := c.transport.Receive()
		if err != nil {
			select {
			case <-c.ctx.Done():
				return
			default:
				consecutiveErrors++
				c.log.WithError(err).Debugf("DAP transport error (attempt %d/%d)", consecutiveErrors, maxConsecutiveErrors)

				// Persistent transport failures would otherwise spin forever
				if consecutiveErrors >= maxConsecutiveErrors {
					c.log.Debug("DAP transport: too many consecutive errors, stopping read loop")
					return
				}
				continue
			}
		}

		consecutiveErrors = 0
		c.handleMessage(msg)
	}
}

// handleMessage routes incoming messages to the appropriate handler
func (c *Client) handleMessage(msg dap.Message) {
	var requestSeq int
	var isResponse bool

	switch m := msg.(type) {
	case *dap.InitializeResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.LaunchResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.ConfigurationDoneResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.ThreadsResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.ContinueResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.DisconnectResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.ErrorResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.InitializedEvent:
		c.initializedOnce.Do(func() {
			close(c.initialized)
		})
		if c.eventHandler != nil {
			c.eventHandler(msg)
		}
		return
	}

	if isResponse {
		c.mu.Lock()
		if ch, ok := c.pendingRequests[requestSeq]; ok {
			ch <- msg
			delete(c.pendingRequests, requestSeq)
		}
		c.mu.Unlock()
		return
	}

	// Everything else is an event
	if c.eventHandler != nil {
		c.eventHandler(msg)
	}
}

// sendRequest sends a request and waits for the response
func (c *Client) sendRequest(req dap.RequestMessage, timeout time.Duration) (dap.Message, error) {
	seq := c.transport.NextSeq()

	switch r := req.(type) {
	case *dap.InitializeRequest:
		r.Seq = seq
	case *dap.LaunchRequest:
		r.Seq = seq
	case *dap.ConfigurationDoneRequest:
		r.Seq = seq
	case *dap.ThreadsRequest:
		r.Seq = seq
	case *dap.ContinueRequest:
		r.Seq = seq
	case *dap.DisconnectRequest:
		r.Seq = seq
	}

	respCh := make(chan dap.Message, 1)
	c.mu.Lock()
	c.pendingRequests[seq] = respCh
	c.mu.Unlock()

	if err := c.transport.Send(req); err != nil {
		c.mu.Lock()
		delete(c.pendingRequests, seq)
		c.mu.Unlock()
		return nil, err
	}

	select {
	case resp := <-respCh:
		return resp, nil
	case <-time.After(timeout):
		c.mu.Lock()
		delete(c.pendingRequests, seq)
		c.mu.Unlock()
		return nil, fmt.Errorf("request timeout")
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

// Initialize sends the initialize request
func (c *Client) Initialize(clientID, clientName string) (*dap.InitializeResponse, error) {
	req := &dap.InitializeRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request"},
			Command:         "initialize",
		},
		Arguments: dap.InitializeRequestArguments{
			ClientID:                     clientID,
			ClientName:                   clientName,
			AdapterID:                    "code-dbg",
			Locale:                       "en-US",
			LinesStartAt1:                true,
			ColumnsStartAt1:              true,
			PathFormat:                   "path",
			SupportsVariableType:         true,
			SupportsRunInTerminalRequest: false,
		},
	}

	resp, err := c.sendRequest(req, 10*time.Second)
	if err != nil {
		return nil, err
	}

	initResp, ok := resp.(*dap.InitializeResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", resp)
	}

	if !initResp.Success {
		return nil, fmt.Errorf("initialize failed: %s", initResp.Message)
	}

	return initResp, nil
}

// WaitInitialized waits for the initialized event with a timeout
func (c *Client) WaitInitialized(timeout time.Duration) error {
	select {
	case <-c.initialized:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for initialized event")
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// LaunchAsync sends a launch request without waiting for the response.
// The backends hold the launch response until after configurationDone,
// so the caller sequences: LaunchAsync, WaitInitialized,
// ConfigurationDone, then read the returned channel.
func (c *Client) LaunchAsync(args interface{}) (chan dap.Message, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal launch args: %w", err)
	}

	seq := c.transport.NextSeq()

	req := &dap.LaunchRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request", Seq: seq},
			Command:         "launch",
		},
		Arguments: argsJSON,
	}

	respCh := make(chan dap.Message, 1)
	c.mu.Lock()
	c.pendingRequests[seq] = respCh
	c.mu.Unlock()

	if err := c.transport.Send(req); err != nil {
		c.mu.Lock()
		delete(c.pendingRequests, seq)
		c.mu.Unlock()
		return nil, err
	}

	return respCh, nil
}

// ConfigurationDone signals the end of the configuration sequence
func (c *Client) ConfigurationDone() error {
	req := &dap.ConfigurationDoneRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request"},
			Command:         "configurationDone",
		},
	}

	resp, err := c.sendRequest(req, 10*time.Second)
	if err != nil {
		return err
	}

	cdResp, ok := resp.(*dap.ConfigurationDoneResponse)
	if !ok {
		return fmt.Errorf("unexpected response type: %T", resp)
	}

	if !cdResp.Success {
		return fmt.Errorf("configurationDone failed: %s", cdResp.Message)
	}

	return nil
}

// Threads returns the debuggee's threads
func (c *Client) Threads() ([]dap.Thread, error) {
	req := &dap.ThreadsRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request"},
			Command:         "threads",
		},
	}

	resp, err := c.sendRequest(req, 10*time.Second)
	if err != nil {
		return nil, err
	}

	threadsResp, ok := resp.(*dap.ThreadsResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", resp)
	}

	if !threadsResp.Success {
		return nil, fmt.Errorf("threads failed: %s", threadsResp.Message)
	}

	return threadsResp.Body.Threads, nil
}

// Continue resumes execution of the given thread (and with it, for the
// native backends, the whole process)
func (c *Client) Continue(threadID int) error {
	req := &dap.ContinueRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request"},
			Command:         "continue",
		},
		Arguments: dap.ContinueArguments{
			ThreadId: threadID,
		},
	}

	resp, err := c.sendRequest(req, 10*time.Second)
	if err != nil {
		return err
	}

	contResp, ok := resp.(*dap.ContinueResponse)
	if !ok {
		return fmt.Errorf("unexpected response type: %T", resp)
	}

	if !contResp.Success {
		return fmt.Errorf("continue failed: %s", contResp.Message)
	}

	return nil
}

// Disconnect ends the debug session
func (c *Client) Disconnect(terminateDebuggee bool) error {
	req := &dap.DisconnectRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request"},
			Command:         "disconnect",
		},
		Arguments: &dap.DisconnectArguments{
			TerminateDebuggee: terminateDebuggee,
		},
	}

	resp, err := c.sendRequest(req, 10*time.Second)
	if err != nil {
		return err
	}

	if _, ok := resp.(*dap.DisconnectResponse); !ok {
		return fmt.Errorf("unexpected response type: %T", resp)
	}

	return nil
}

// Close shuts down the client and its transport
func (c *Client) Close() error {
	c.cancel()
	err := c.transport.Close()
	c.wg.Wait()
	return err
}
