package http

import (
	"time"

	"givelink/domain"
	"givelink/errors"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// writeError translates a domain sentinel into its HTTP status. The raw
// error text is safe to expose: sentinels carry no internals.
func writeError(c *gin.Context, err error) {
	c.JSON(errors.MapToHTTPStatus(err), gin.H{"message": err.Error()})
}

type profileView struct {
	UserID    string   `json:"user_id"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Bio       string   `json:"bio"`
	Causes    []string `json:"causes"`
	ImageURL  string   `json:"image_url"`
	Complete  bool     `json:"complete"`
	UpdatedAt string   `json:"updated_at"`
}

func toProfileView(p domain.Profile) profileView {
	causes := p.Causes
	if causes == nil {
		causes = []string{}
	}
	return profileView{
		UserID:    p.UserID,
		Email:     p.Email,
		Role:      string(p.Role),
		Name:      p.Name,
		Location:  p.Location,
		Bio:       p.Bio,
		Causes:    causes,
		ImageURL:  p.ImageURL,
		Complete:  p.Complete,
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

type conversationView struct {
	ID              string   `json:"id"`
	Participants    []string `json:"participants"`
	Other           string   `json:"other"`
	LastMessage     *string  `json:"last_message"`
	LastMessageTime *string  `json:"last_message_time"`
	CreatedAt       string   `json:"created_at"`
}

func toConversationView(c domain.Conversation, viewerID string) conversationView {
	view := conversationView{
		ID:           c.ID,
		Participants: []string{c.Participants[0], c.Participants[1]},
		Other:        c.Other(viewerID),
		LastMessage:  c.LastMessage,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
	if c.LastMessageTime != nil {
		formatted := c.LastMessageTime.Format(time.RFC3339)
		view.LastMessageTime = &formatted
	}
	return view
}

type messageView struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Text           string `json:"text"`
	SentAt         string `json:"sent_at"`
}

func toMessageView(m domain.Message) messageView {
	return messageView{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		SentAt:         m.SentAt.Format(time.RFC3339Nano),
	}
}

func toMessageViews(messages []domain.Message) []messageView {
	return lo.Map(messages, func(m domain.Message, _ int) messageView {
		return toMessageView(m)
	})
}
