package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"givelink/contract"
	"givelink/domain"
	"givelink/domain/event"
	"givelink/errors"
	"givelink/moderation"
	"givelink/repositories"

	"github.com/google/uuid"
)

type IChatService interface {
	StartConversation(cmd domain.StartConversationCommand) (domain.Conversation, bool, error)
	ListConversations(userID string) ([]domain.Conversation, error)
	Messages(userID, conversationID string) ([]domain.Message, error)
	PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error)
	Join(userID, conversationID string, sink contract.EventSink) error
	Leave(userID, conversationID string)
}

type ChatService struct {
	log                    *slog.Logger
	conversationRepository repositories.IConversationRepository
	messageRepository      repositories.IMessageRepository
	profileRepository      repositories.IProfileRepository
	moderator              *moderation.Moderator
	registry               contract.IRegistry
	publisher              contract.IPublisher
	maxContentLength       int
}

func NewChatService(log *slog.Logger,
	conversationRepository repositories.IConversationRepository,
	messageRepository repositories.IMessageRepository,
	profileRepository repositories.IProfileRepository,
	moderator *moderation.Moderator,
	registry contract.IRegistry,
	publisher contract.IPublisher,
	maxContentLength int) IChatService {
	return &ChatService{
		log:                    log,
		conversationRepository: conversationRepository,
		messageRepository:      messageRepository,
		profileRepository:      profileRepository,
		moderator:              moderator,
		registry:               registry,
		publisher:              publisher,
		maxContentLength:       maxContentLength,
	}
}

// StartConversation returns the conversation between the actor and the
// target, creating it when absent. The second return reports whether a new
// record was created. Two users share at most one conversation: concurrent
// bootstraps collapse onto the same pair key in storage.
func (s *ChatService) StartConversation(cmd domain.StartConversationCommand) (domain.Conversation, bool, error) {
	if cmd.ActorID == cmd.TargetID {
		return domain.Conversation{}, false, errors.ErrSelfConversation
	}

	// The target must be a real, completed profile.
	target, err := s.profileRepository.Get(cmd.TargetID)
	if err != nil {
		return domain.Conversation{}, false, err
	}
	if !target.Complete {
		return domain.Conversation{}, false, errors.ErrProfileNotFound
	}

	// Cheap path first: reuse an existing thread when one is already listed.
	existing, err := s.conversationRepository.ListByParticipant(cmd.ActorID)
	if err != nil {
		return domain.Conversation{}, false, err
	}
	for _, conversation := range existing {
		if conversation.Has(cmd.TargetID) {
			return conversation, false, nil
		}
	}

	conversation, created, err := s.conversationRepository.GetOrCreate(cmd.ActorID, cmd.TargetID)
	if err != nil {
		return domain.Conversation{}, false, err
	}
	if created {
		s.publisher.Publish(event.ConversationStarted{Conversation: conversation})
	}
	return conversation, created, nil
}

// ListConversations returns the actor's threads, most recent activity first.
// Threads without any message yet sort by creation time, after active ones.
func (s *ChatService) ListConversations(userID string) ([]domain.Conversation, error) {
	conversations, err := s.conversationRepository.ListByParticipant(userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(conversations, func(i, j int) bool {
		left, right := conversations[i], conversations[j]
		switch {
		case left.LastMessageTime != nil && right.LastMessageTime != nil:
			return left.LastMessageTime.After(*right.LastMessageTime)
		case left.LastMessageTime != nil:
			return true
		case right.LastMessageTime != nil:
			return false
		default:
			return left.CreatedAt.After(right.CreatedAt)
		}
	})
	return conversations, nil
}

// Messages returns the full history of a conversation, oldest first.
// Only participants may read it.
func (s *ChatService) Messages(userID, conversationID string) ([]domain.Message, error) {
	conversation, err := s.conversationRepository.Get(conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.Has(userID) {
		return nil, errors.ErrNotParticipant
	}
	return s.messageRepository.ListByConversation(conversationID)
}

// PostMessage validates, censors, persists and publishes one message.
// Persisting the message is the authoritative step. Refreshing the
// conversation's last-message cache afterwards is best-effort: a failure
// there leaves a stale preview, never a lost message.
func (s *ChatService) PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error) {
	conversation, err := s.conversationRepository.Get(cmd.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}
	if !conversation.Has(cmd.SenderID) {
		return domain.Message{}, errors.ErrNotParticipant
	}

	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > s.maxContentLength {
		return domain.Message{}, errors.ErrMessageTooLong
	}
	text = s.moderator.Censor(text)

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: cmd.ConversationID,
		SenderID:       cmd.SenderID,
		Text:           text,
		SentAt:         time.Now().UTC(),
	}
	if err := s.messageRepository.Store(message); err != nil {
		return domain.Message{}, err
	}

	if err := s.conversationRepository.UpdateLastMessage(message.ConversationID, message.Text, message.SentAt); err != nil {
		s.log.Warn("Last message cache not refreshed", "conversation", message.ConversationID, "error", err)
	}

	s.publisher.Publish(event.MessageSent{
		ID:           message.ID,
		Conversation: message.ConversationID,
		SenderID:     message.SenderID,
		Text:         message.Text,
		At:           message.SentAt,
	})
	return message, nil
}

// Join attaches a live connection to a conversation after a participant
// check, so outsiders cannot listen in.
func (s *ChatService) Join(userID, conversationID string, sink contract.EventSink) error {
	conversation, err := s.conversationRepository.Get(conversationID)
	if err != nil {
		return err
	}
	if !conversation.Has(userID) {
		return errors.ErrNotParticipant
	}
	s.registry.Subscribe(userID, conversationID, sink)
	return nil
}

func (s *ChatService) Leave(userID, conversationID string) {
	s.registry.Unsubscribe(userID, conversationID)
}
