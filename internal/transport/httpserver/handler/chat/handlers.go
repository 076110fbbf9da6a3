package chat

import (
	"context"
	"net/http"
	"strings"
	"time"

	"fintrack-go/internal/assistant"
	"fintrack-go/internal/transport/httpserver/handler/common"
	"fintrack-go/pkg/logger"
)

const maxMediaBytes = 10 << 20

type Assistant interface {
	Handle(ctx context.Context, msg assistant.Message) assistant.Reply
}

type Handlers struct {
	Assistant Assistant
	log       logger.Logger
}

func New(a Assistant, log logger.Logger) *Handlers {
	return &Handlers{Assistant: a, log: log}
}

type messageRequest struct {
	ID              string    `json:"id"`
	ChannelIdentity string    `json:"channel_identity"`
	Text            string    `json:"text"`
	Media           []byte    `json:"media"`
	MimeType        string    `json:"mime_type"`
	ReceivedAt      time.Time `json:"received_at"`
}

// ReceiveMessage is the channel webhook. Domain failures are part of the reply
// body, so any decoded message gets 200.
func (h *Handlers) ReceiveMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMediaBytes*2)

	var req messageRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.ChannelIdentity = strings.TrimSpace(req.ChannelIdentity)
	if req.ChannelIdentity == "" {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", "channel_identity is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" && len(req.Media) == 0 {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", "text or media is required")
		return
	}
	if len(req.Media) > maxMediaBytes {
		common.WriteError(w, http.StatusRequestEntityTooLarge, "media_too_large", "media exceeds 10MB")
		return
	}
	if len(req.Media) > 0 && req.MimeType == "" {
		req.MimeType = http.DetectContentType(req.Media)
	}
	if req.ReceivedAt.IsZero() {
		req.ReceivedAt = time.Now().UTC()
	}

	reply := h.Assistant.Handle(r.Context(), assistant.Message{
		ID:              strings.TrimSpace(req.ID),
		ChannelIdentity: req.ChannelIdentity,
		Text:            req.Text,
		Media:           req.Media,
		MimeType:        req.MimeType,
		ReceivedAt:      req.ReceivedAt,
	})
	if !reply.Success {
		h.log.Debug("chat.receive: unsuccessful reply", "channel", req.ChannelIdentity, "message_id", req.ID, "kind", reply.Kind)
	}
	common.WriteJSON(w, http.StatusOK, reply)
}
