package qlab

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hypebeast/go-osc/osc"
)

// timeoutError is the error QLab-style replies carry when no reply arrived in time
const timeoutError = "timeout waiting for reply from QLab"

// formatErrorWithJSON creates a pretty-printed error message from a JSON string
func formatErrorWithJSON(baseMessage string, jsonStr string) error {
	var jsonData any
	if err := json.Unmarshal([]byte(jsonStr), &jsonData); err != nil {
		return fmt.Errorf("%s: %s", baseMessage, jsonStr)
	}

	prettyBytes, err := json.MarshalIndent(jsonData, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %v", baseMessage, jsonData)
	}

	return fmt.Errorf("%s:\n%s", baseMessage, string(prettyBytes))
}

// replyError returns an error when an OSC reply is missing or reports a failure
func replyError(result []any) error {
	if len(result) == 0 {
		return fmt.Errorf("empty reply from QLab")
	}
	replyStr, ok := result[0].(string)
	if !ok {
		return fmt.Errorf("unexpected reply type %T", result[0])
	}

	var reply struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(replyStr), &reply); err != nil {
		// QLab answers some messages with bare values
		return nil
	}
	if reply.Status == "error" {
		return formatErrorWithJSON("QLab returned an error", replyStr)
	}
	return nil
}

// InitReplyArg is the JSON body of QLab's /connect reply
type InitReplyArg struct {
	WorkspaceId string `json:"workspace_id"`
	Status      string `json:"status"`
	Data        string `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Send sends address with an optional string argument and waits for QLab's reply.
// Write operations are answered locally in dry-run mode.
func (q *Workspace) Send(address string, input string) []any {
	if q.dryRun && q.isWriteOperation(address) {
		log.Printf("[DRY RUN] Would send OSC message: %s ,s %s", address, input)
		return q.mockDryRunResponse(address)
	}
	return q.sendWithRetry(address, input)
}

// SendNoReply sends a message without waiting for a reply
func (q *Workspace) SendNoReply(address string, args ...any) error {
	msg := osc.NewMessage(address)
	for _, arg := range args {
		msg.Append(arg)
	}
	log.Debugf("Sending message without reply: %s %v", address, args)
	return q.client.Send(msg)
}

// startReplyListener binds a persistent OSC server on the first free port above the
// QLab port and routes /reply messages to waiting senders.
func (q *Workspace) startReplyListener() error {
	q.serverMux.Lock()
	running := q.replyServer != nil
	q.serverMux.Unlock()
	if running {
		return nil
	}

	d := osc.NewStandardDispatcher()
	_ = d.AddMsgHandler("*", func(msg *osc.Message) {
		if !strings.HasPrefix(msg.Address, "/reply") {
			log.Debugf("Ignoring OSC message: %s", msg.Address)
			return
		}
		q.routeReply(msg)
	})

	maxRetries := 10
	baseReplyPort := q.port + 1

	for i := range maxRetries {
		replyHost := fmt.Sprintf("%s:%d", q.host, baseReplyPort+i)
		server := &osc.Server{
			Addr:       replyHost,
			Dispatcher: d,
		}

		started := make(chan error, 1)
		go func() {
			started <- server.ListenAndServe()
		}()

		select {
		case err := <-started:
			if err != nil && strings.Contains(err.Error(), "address already in use") {
				log.Debugf("Port %d in use, trying next port", baseReplyPort+i)
				continue
			}
			if err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
				log.Errorf("OSC listener error on %s: %v", replyHost, err)
				continue
			}
			return fmt.Errorf("OSC listener on %s exited immediately", replyHost)
		case <-time.After(200 * time.Millisecond):
			q.serverMux.Lock()
			q.replyServer = server
			q.serverMux.Unlock()
			log.Infof("OSC reply listener started on %s", replyHost)
			return nil
		}
	}

	return fmt.Errorf("failed to start OSC listener after %d attempts", maxRetries)
}

// routeReply hands a reply to the oldest handler waiting on its address
func (q *Workspace) routeReply(msg *osc.Message) {
	q.replyHandlersMux.Lock()
	var foundHandler chan []any
	var foundKey string
	oldest := -1
	for handlerKey, handler := range q.replyHandlers {
		base, id, _ := strings.Cut(handlerKey, "#")
		if base != msg.Address {
			continue
		}
		var requestID int
		_, _ = fmt.Sscanf(id, "%d", &requestID)
		if oldest == -1 || requestID < oldest {
			oldest = requestID
			foundHandler = handler
			foundKey = handlerKey
		}
	}
	if foundHandler != nil {
		delete(q.replyHandlers, foundKey)
	}
	q.replyHandlersMux.Unlock()

	if foundHandler == nil {
		log.Debugf("No handler found for reply: %s", msg.Address)
		return
	}
	foundHandler <- msg.Arguments
}

func (q *Workspace) sendWithRetry(address string, input string) []any {
	for attempt := 0; attempt <= q.maxRetries; attempt++ {
		msg := osc.NewMessage(address)
		if input != "" {
			msg.Append(input)
		}

		q.requestCounter++
		requestID := q.requestCounter
		handlerKey := fmt.Sprintf("%s#%d", q.addressBuilder.BuildReplyAddress(address), requestID)

		reply := make(chan []any, 1)
		q.replyHandlersMux.Lock()
		q.replyHandlers[handlerKey] = reply
		q.replyHandlersMux.Unlock()

		startTime := time.Now()
		if err := q.client.Send(msg); err != nil {
			log.Warnf("Failed to send OSC message: %v", err)
			q.dropHandler(handlerKey)
			continue
		}
		log.Debugf("Message sent to %s:%d - %s (attempt %d/%d, requestID: %d)", q.host, q.port, msg.String(), attempt+1, q.maxRetries+1, requestID)

		select {
		case result := <-reply:
			log.Debugf("Reply received for %s in %v (requestID: %d)", address, time.Since(startTime), requestID)
			return result
		case <-time.After(q.timeout):
			q.dropHandler(handlerKey)
			if attempt < q.maxRetries {
				log.Warnf("Timeout waiting for reply from QLab for address %s (attempt %d/%d), retrying...", address, attempt+1, q.maxRetries+1)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}

	log.Warnf("Timeout waiting for reply from QLab for address %s after all retry attempts", address)
	return []any{fmt.Sprintf(`{"status": "error", "error": %q}`, timeoutError)}
}

func (q *Workspace) dropHandler(key string) {
	q.replyHandlersMux.Lock()
	delete(q.replyHandlers, key)
	q.replyHandlersMux.Unlock()
}
