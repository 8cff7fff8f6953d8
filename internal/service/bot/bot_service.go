// Package bot receives Telegram updates, gates them to the farm owner and
// delivers the dispatcher's replies back through the Bot API.
package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/service/commands"
	"github.com/mamadbah2/rabbitry/pkg/clients/telegram"
)

// Service processes inbound updates and outbound sends.
type Service struct {
	client      telegram.Client
	dispatcher  *commands.Dispatcher
	ownerChatID int64
	logger      *zap.Logger
}

// NewService wires a bot service. ownerChatID restricts who may issue
// commands; zero disables the gate.
func NewService(client telegram.Client, dispatcher *commands.Dispatcher, ownerChatID int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:      client,
		dispatcher:  dispatcher,
		ownerChatID: ownerChatID,
		logger:      logger,
	}
}

// HandleUpdate processes one webhook update end to end. Processing errors are
// answered in-chat; only delivery failures surface to the caller.
func (s *Service) HandleUpdate(ctx context.Context, update models.Update) error {
	msg := update.Message
	if msg == nil {
		return nil
	}

	chatID := msg.Chat.ID
	if s.ownerChatID != 0 && chatID != s.ownerChatID {
		s.logger.Warn("update from unauthorized chat", zap.Int64("chat_id", chatID))
		return nil
	}

	var reply models.Reply
	if fileID := msg.LargestPhoto(); fileID != "" {
		reply = s.dispatcher.AttachPhoto(ctx, msg.Caption, fileID)
	} else {
		if msg.Text == "" {
			return nil
		}
		cmd := models.ParseCommand(msg.Text)
		reply = s.dispatcher.Dispatch(ctx, chatID, cmd)
	}

	return s.deliver(ctx, chatID, reply)
}

func (s *Service) deliver(ctx context.Context, chatID int64, reply models.Reply) error {
	switch reply.Kind {
	case models.ReplyDocument:
		_, err := s.client.SendDocument(ctx, telegram.SendDocumentRequest{
			ChatID:   chatID,
			FilePath: reply.FilePath,
			Caption:  reply.Text,
		})
		if err != nil {
			return fmt.Errorf("deliver document reply: %w", err)
		}
	default:
		if reply.Text == "" {
			return nil
		}
		_, err := s.client.SendMessage(ctx, telegram.SendMessageRequest{ChatID: chatID, Text: reply.Text})
		if err != nil {
			return fmt.Errorf("deliver text reply: %w", err)
		}
	}
	return nil
}

// SendText delivers an arbitrary text message, used by the manual send
// endpoint and the digest scheduler.
func (s *Service) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := s.client.SendMessage(ctx, telegram.SendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("send text to chat %d: %w", chatID, err)
	}
	return nil
}
