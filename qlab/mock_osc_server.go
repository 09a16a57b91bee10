package qlab

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hypebeast/go-osc/osc"
)

// ReceivedMessage captures details about received OSC messages for testing
type ReceivedMessage struct {
	Address   string
	Arguments []any
	Timestamp time.Time
}

// MockCue is a cue created in the mock workspace
type MockCue struct {
	UniqueID   string
	Type       string
	Properties map[string]string // property name -> last value set
}

// MockOSCServer simulates the part of QLab's OSC interface a show push uses:
// /connect, /alwaysReply, /workspace/{id}/new and /workspace/{id}/cue_id/{id}/{property}.
// Replies go to port+1, where Workspace binds its reply listener first.
type MockOSCServer struct {
	host             string
	port             int
	replyPort        int
	server           *osc.Server
	workspaceID      string
	passcode         string
	cues             map[string]*MockCue // uniqueID -> cue
	cueOrder         []string            // uniqueIDs in creation order
	mu               sync.RWMutex
	isRunning        bool
	alwaysReply      bool
	receivedMessages []ReceivedMessage
}

// NewMockOSCServer creates a new mock QLab OSC server
func NewMockOSCServer(host string, port int) *MockOSCServer {
	return &MockOSCServer{
		host:             host,
		port:             port,
		replyPort:        port + 1, // Match the reply port calculation in startReplyListener
		workspaceID:      "MOCK-WORKSPACE-ID-1234",
		cues:             make(map[string]*MockCue),
		receivedMessages: make([]ReceivedMessage, 0),
	}
}

// SetPasscode makes /connect answer "badpass" unless the given passcode is sent
func (m *MockOSCServer) SetPasscode(passcode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passcode = passcode
}

// Start starts the mock OSC server
func (m *MockOSCServer) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return fmt.Errorf("mock server already running")
	}

	// go-osc only accepts literal addresses, so every message goes through the default handler
	d := osc.NewStandardDispatcher()
	if err := d.AddMsgHandler("*", m.dispatch); err != nil {
		return fmt.Errorf("failed to register mock handler: %w", err)
	}

	m.server = &osc.Server{
		Addr:       fmt.Sprintf("%s:%d", m.host, m.port),
		Dispatcher: d,
	}

	server := m.server
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Debugf("Mock OSC server stopped: %v", err)
		}
	}()

	// Give the server time to bind
	time.Sleep(100 * time.Millisecond)

	m.isRunning = true
	log.Infof("Mock QLab OSC server started on %s:%d (reply: %d)", m.host, m.port, m.replyPort)
	return nil
}

// Stop stops the mock OSC server
func (m *MockOSCServer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return nil
	}

	server := m.server
	m.server = nil
	m.isRunning = false
	if err := server.CloseConnection(); err != nil {
		return fmt.Errorf("failed to close mock server: %w", err)
	}
	log.Info("Mock QLab OSC server stopped")
	return nil
}

// GetWorkspaceID returns the mock workspace ID
func (m *MockOSCServer) GetWorkspaceID() string {
	return m.workspaceID
}

// AlwaysReply reports whether a client enabled /alwaysReply
func (m *MockOSCServer) AlwaysReply() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.alwaysReply
}

func (m *MockOSCServer) dispatch(msg *osc.Message) {
	m.captureMessage(msg)

	workspacePrefix := fmt.Sprintf("/workspace/%s", m.workspaceID)
	switch {
	case msg.Address == "/connect":
		m.handleConnect(msg)
	case msg.Address == "/alwaysReply":
		m.handleAlwaysReply(msg)
	case msg.Address == "/disconnect":
		// QLab does not answer a disconnect
	case msg.Address == workspacePrefix+"/new":
		m.handleNewCue(msg)
	case strings.HasPrefix(msg.Address, workspacePrefix+"/cue_id/"):
		m.handleSetCueProperty(msg)
	default:
		m.sendErrorReply(msg.Address, "unsupported address")
	}
}

// sendReply sends a JSON reply to the workspace reply listener
func (m *MockOSCServer) sendReply(address string, data map[string]any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Errorf("Failed to marshal reply data: %v", err)
		return
	}

	msg := osc.NewMessage("/reply" + address)
	msg.Append(string(jsonData))

	client := osc.NewClient(m.host, m.replyPort)
	if err := client.Send(msg); err != nil {
		log.Errorf("Failed to send mock reply: %v", err)
		return
	}
	log.Debugf("Mock server replied to %s: %s", address, jsonData)
}

// sendErrorReply sends an error reply
func (m *MockOSCServer) sendErrorReply(address, errorMsg string) {
	m.sendReply(address, map[string]any{
		"status": "error",
		"error":  errorMsg,
	})
}

// handleConnect handles connection requests
func (m *MockOSCServer) handleConnect(msg *osc.Message) {
	var passcode string
	if len(msg.Arguments) > 0 {
		if pc, ok := msg.Arguments[0].(string); ok {
			passcode = pc
		}
	}

	m.mu.RLock()
	required := m.passcode
	m.mu.RUnlock()

	data := "ok:view|edit|control"
	if required != "" && passcode != required {
		data = "badpass"
	}

	m.sendReply("/connect", map[string]any{
		"address":      fmt.Sprintf("/workspace/%s/connect", m.workspaceID),
		"status":       "ok",
		"data":         data,
		"workspace_id": m.workspaceID,
	})
}

// handleAlwaysReply handles alwaysReply setting
func (m *MockOSCServer) handleAlwaysReply(msg *osc.Message) {
	m.mu.Lock()
	m.alwaysReply = true
	m.mu.Unlock()

	m.sendReply("/alwaysReply", map[string]any{
		"address": "/alwaysReply",
		"status":  "ok",
	})
}

// handleNewCue creates a cue and answers with its unique ID
func (m *MockOSCServer) handleNewCue(msg *osc.Message) {
	if len(msg.Arguments) == 0 {
		m.sendErrorReply(msg.Address, "no cue type specified")
		return
	}
	cueType, ok := msg.Arguments[0].(string)
	if !ok {
		m.sendErrorReply(msg.Address, "invalid cue type")
		return
	}

	m.mu.Lock()
	uniqueID := fmt.Sprintf("MOCK-CUE-%d", len(m.cues)+1)
	m.cues[uniqueID] = &MockCue{
		UniqueID:   uniqueID,
		Type:       cueType,
		Properties: make(map[string]string),
	}
	m.cueOrder = append(m.cueOrder, uniqueID)
	m.mu.Unlock()

	log.Debugf("Mock server created cue: %s (type: %s)", uniqueID, cueType)
	m.sendReply(msg.Address, map[string]any{
		"status": "ok",
		"data":   uniqueID,
	})
}

// handleSetCueProperty sets or queries a cue property
func (m *MockOSCServer) handleSetCueProperty(msg *osc.Message) {
	_, rest, _ := strings.Cut(msg.Address, "/cue_id/")
	cueID, property, _ := strings.Cut(rest, "/")
	if cueID == "" || property == "" {
		m.sendErrorReply(msg.Address, "invalid property address")
		return
	}

	m.mu.Lock()
	cue, exists := m.cues[cueID]
	if !exists {
		m.mu.Unlock()
		m.sendErrorReply(msg.Address, fmt.Sprintf("cue %s not found", cueID))
		return
	}

	// No arguments is a query
	if len(msg.Arguments) == 0 {
		value := cue.Properties[property]
		m.mu.Unlock()
		m.sendReply(msg.Address, map[string]any{"status": "ok", "data": value})
		return
	}

	cue.Properties[property] = fmt.Sprintf("%v", msg.Arguments[0])
	m.mu.Unlock()

	m.sendReply(msg.Address, map[string]any{"status": "ok"})
}

// captureMessage records a received message for testing verification
func (m *MockOSCServer) captureMessage(msg *osc.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.receivedMessages = append(m.receivedMessages, ReceivedMessage{
		Address:   msg.Address,
		Arguments: append([]any{}, msg.Arguments...),
		Timestamp: time.Now(),
	})
}

// GetCueCount returns the number of cues created
func (m *MockOSCServer) GetCueCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cues)
}

// Cues returns copies of the created cues in creation order
func (m *MockOSCServer) Cues() []MockCue {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cues := make([]MockCue, 0, len(m.cueOrder))
	for _, id := range m.cueOrder {
		c := *m.cues[id]
		c.Properties = make(map[string]string, len(m.cues[id].Properties))
		for k, v := range m.cues[id].Properties {
			c.Properties[k] = v
		}
		cues = append(cues, c)
	}
	return cues
}

// GetReceivedMessages returns all captured messages for testing
func (m *MockOSCServer) GetReceivedMessages() []ReceivedMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]ReceivedMessage, len(m.receivedMessages))
	copy(messages, m.receivedMessages)
	return messages
}

// GetMessagesForAddress returns messages whose address contains addressPattern
func (m *MockOSCServer) GetMessagesForAddress(addressPattern string) []ReceivedMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []ReceivedMessage
	for _, msg := range m.receivedMessages {
		if strings.Contains(msg.Address, addressPattern) {
			matches = append(matches, msg)
		}
	}
	return matches
}
