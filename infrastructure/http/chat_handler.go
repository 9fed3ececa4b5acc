package http

import (
	"fmt"
	"net/http"

	"givelink/auth"
	"givelink/domain"
	"givelink/errors"
	"givelink/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ChatHandler struct {
	chat services.IChatService
}

func NewChatHandler(chatService services.IChatService) *ChatHandler {
	return &ChatHandler{chat: chatService}
}

type startConversationRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

// StartConversation returns the thread with the target, creating it when
// absent. 201 signals a fresh thread, 200 an existing one.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	viewerID := auth.MustUserID(c)
	conversation, created, err := h.chat.StartConversation(domain.StartConversationCommand{
		ActorID:  viewerID,
		TargetID: req.TargetID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": toConversationView(conversation, viewerID)})
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	viewerID := auth.MustUserID(c)
	conversations, err := h.chat.ListConversations(viewerID)
	if err != nil {
		writeError(c, err)
		return
	}

	views := lo.Map(conversations, func(conversation domain.Conversation, _ int) conversationView {
		return toConversationView(conversation, viewerID)
	})
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	messages, err := h.chat.Messages(auth.MustUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toMessageViews(messages)})
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	message, err := h.chat.PostMessage(c.Request.Context(), domain.PostMessageCommand{
		ConversationID: c.Param("id"),
		SenderID:       auth.MustUserID(c),
		Text:           req.Text,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": toMessageView(message)})
}
