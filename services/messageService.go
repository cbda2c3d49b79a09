package services

import (
	"YouthHealth/models"
	"YouthHealth/repositories"
	"YouthHealth/utils"
	"context"
	"time"
)

type MessageService interface {
	Send(ctx context.Context, senderID string, msg models.OutgoingMessage) (*models.Message, error)
}

type messageService struct {
	messages repositories.MessageRepository
	users    repositories.UserRepository
	deps     Deps
}

func NewMessageService(messages repositories.MessageRepository, users repositories.UserRepository, deps Deps) MessageService {
	return &messageService{messages: messages, users: users, deps: deps.withDefaults()}
}

func (s *messageService) Send(ctx context.Context, senderID string, msg models.OutgoingMessage) (*models.Message, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	priority := msg.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	message := &models.Message{
		ConsultationID: msg.ConsultationID,
		SenderID:       sender.ID,
		SenderName:     sender.Name,
		Content:        msg.Content,
		Priority:       priority,
		SentAt:         time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	s.deps.publish(ctx, models.EventMessageNew, message)
	return message, nil
}

// ContactService forwards public contact requests to the support inbox.
type ContactService interface {
	GetInTouch(ctx context.Context, req models.ContactRequest) error
}

type contactService struct {
	mailer *utils.Mailer
}

func NewContactService(mailer *utils.Mailer) ContactService {
	return &contactService{mailer: mailer}
}

func (s *contactService) GetInTouch(_ context.Context, req models.ContactRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.mailer.SendContactRequest(req)
}
