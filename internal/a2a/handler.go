package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/statusteacher/statusteacher/internal/explain"
	"github.com/statusteacher/statusteacher/pkg/models"
)

// HelpText answers messages that mention no status code.
const HelpText = "I can explain any HTTP status code between 100 and 599. " +
	"Ask me something like \"What does 404 mean?\" or \"Explain 503\"."

// Explainer is the subset of explain.Service used by the handler.
type Explainer interface {
	Explain(ctx context.Context, code int) (models.StatusCodeExplanation, error)
}

// Handler processes message/send requests. It keeps no per-request state
// and is safe for concurrent use.
type Handler struct {
	explainer Explainer
	now       func() time.Time
}

// NewHandler creates a handler backed by explainer.
func NewHandler(explainer Explainer) *Handler {
	return &Handler{explainer: explainer, now: time.Now}
}

// WithClock replaces the timestamp source.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Handle turns one request body into one response envelope. It never
// returns a Go error: every failure is a JSON-RPC error response.
func (h *Handler) Handle(ctx context.Context, body []byte) (resp Response) {
	var req Request
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("A2A handler panicked")
			resp = NewErrorResponse(req.ID, CodeInternalError, "Internal error", "")
		}
	}()

	if err := json.Unmarshal(body, &req); err != nil {
		if json.Valid(body) {
			return NewErrorResponse(requestID(body), CodeInvalidRequest, "Invalid Request", "request must be a JSON-RPC object")
		}
		return NewErrorResponse(nil, CodeParseError, "Parse error", "request body is not valid JSON")
	}
	if req.JSONRPC != Version {
		return NewErrorResponse(req.ID, CodeInvalidRequest, "Invalid Request", `jsonrpc must be "2.0"`)
	}
	if req.Method != MethodMessageSend {
		return NewErrorResponse(req.ID, CodeMethodNotFound, "Method not found",
			fmt.Sprintf("method %q is not supported", req.Method))
	}

	log.Info().Str("method", req.Method).Msg("A2A JSON-RPC request received")

	var params SendParams
	if len(req.Params) == 0 || json.Unmarshal(req.Params, &params) != nil || params.Message == nil {
		return NewErrorResponse(req.ID, CodeInvalidParams, "Invalid params", "params.message is required")
	}

	texts := ExtractTexts(params.Message.Parts)
	if len(texts) == 0 {
		return NewErrorResponse(req.ID, CodeInvalidParams, "Invalid params", "message contains no text")
	}
	utterance := texts[len(texts)-1]

	reply := h.reply(ctx, utterance)
	return Response{
		JSONRPC: Version,
		ID:      req.ID,
		Result:  h.completedTask(params.Message, reply),
	}
}

// requestID recovers the id of a request whose other members failed to
// decode. It is nil when body is not an object.
func requestID(body []byte) json.RawMessage {
	var envelope struct {
		ID json.RawMessage `json:"id"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return nil
	}
	return envelope.ID
}

// reply produces the answer text for an utterance.
func (h *Handler) reply(ctx context.Context, utterance string) string {
	code, ok := DetectStatusCode(utterance)
	if !ok {
		return HelpText
	}

	expl, err := h.explainer.Explain(ctx, code)
	if err != nil {
		log.Warn().Err(err).Int("code", code).Msg("Explanation failed, replying with summary")
		return explain.FormatShort(code)
	}
	return explain.FormatMarkdown(expl)
}

func (h *Handler) completedTask(in *Message, text string) *Task {
	taskID := orNewUUID(in.TaskID)
	contextID := orNewUUID(in.ContextID)
	messageID := in.MessageID
	if messageID == "" {
		messageID = NewMessageID()
	}

	parts := []Part{{Kind: "text", Text: text}}
	return &Task{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     "completed",
			Timestamp: h.now().UTC().Format(time.RFC3339),
			Message: &Message{
				Kind:      "message",
				Role:      "agent",
				Parts:     parts,
				MessageID: messageID,
				TaskID:    taskID,
				ContextID: contextID,
			},
		},
		Artifacts: []Artifact{{
			ArtifactID: NewMessageID(),
			Name:       "explanation",
			Parts:      parts,
		}},
	}
}
