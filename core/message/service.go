package message

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/user"
)

var (
	ErrNotFound       = errors.New("Message not found")
	ErrNotParticipant = errors.New("Forbidden: not a participant in this chat")
	// ErrNoChat is returned by Repository.FindChatID when the pair never exchanged a message.
	ErrNoChat = errors.New("no chat")
)

type (
	Repository interface {
		QueryMessages(ctx context.Context, filter QueryFilter) ([]Message, error)
		// FindChatID returns the chat id of any message exchanged between a and b.
		FindChatID(ctx context.Context, a, b int) (int, error)
		NextChatID(ctx context.Context) (int, error)
		CreateMessage(ctx context.Context, msg Message) (Message, error)
		GetMessage(ctx context.Context, id int) (Message, error)
		UpdateMessage(ctx context.Context, msg Message) (Message, error)
	}

	Service struct {
		repo  Repository
		users *user.Service
	}
)

func NewService(repo Repository, users *user.Service) *Service {
	return &Service{repo: repo, users: users}
}

// Chat returns the messages of a chat, oldest first.
// Users may only read the chats they take part in; an empty chat is readable by anyone.
func (svc *Service) Chat(ctx context.Context, chatID, userID int) ([]Message, error) {
	msgs, err := svc.repo.QueryMessages(ctx, QueryFilter{ChatID: chatID})
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		participant := false
		for _, m := range msgs {
			if m.IsParticipant(userID) {
				participant = true
				break
			}
		}
		if !participant {
			return nil, ErrNotParticipant
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	return msgs, nil
}

func (svc *Service) byUserNewestFirst(ctx context.Context, userID int) ([]Message, error) {
	msgs, err := svc.repo.QueryMessages(ctx, QueryFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return msgs, nil
}

// Recent returns the newest message of every chat userID takes part in, newest first.
func (svc *Service) Recent(ctx context.Context, userID int) ([]Message, error) {
	msgs, err := svc.byUserNewestFirst(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	recent := make([]Message, 0)
	for _, m := range msgs {
		if !seen[m.ChatID] {
			seen[m.ChatID] = true
			recent = append(recent, m)
		}
	}
	return recent, nil
}

// Contacts returns one Contact per counterpart userID exchanged messages with, most recent first.
func (svc *Service) Contacts(ctx context.Context, userID int) ([]Contact, error) {
	msgs, err := svc.byUserNewestFirst(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := make(map[int]int)
	contacts := make([]Contact, 0)
	for _, m := range msgs {
		otherID := m.Counterpart(userID)
		i, ok := index[otherID]
		if !ok {
			c, err := svc.newContact(ctx, otherID)
			if err != nil {
				return nil, err
			}
			c.LastMessage = m.Content
			c.LastMessageTime = m.CreatedAt
			contacts = append(contacts, c)
			i = len(contacts) - 1
			index[otherID] = i
		}
		if m.RecipientID == userID && !m.Read {
			contacts[i].UnreadCount++
		}
	}
	return contacts, nil
}

func (svc *Service) newContact(ctx context.Context, id int) (Contact, error) {
	usr, err := svc.users.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Contact{ID: id, Name: fmt.Sprintf("User %d", id), Role: "unknown"}, nil
		}
		return Contact{}, errors.Wrap(err, "finding contact")
	}
	return Contact{ID: usr.ID, Name: usr.Name, Role: usr.Role}, nil
}

// Send saves a message from senderID. Without nm.ChatID, the chat of an earlier
// conversation between the pair is reused, else a new chat is allocated.
func (svc *Service) Send(ctx context.Context, senderID int, nm NewMessage) (Message, error) {
	chatID := nm.ChatID
	if chatID == 0 {
		var err error
		chatID, err = svc.repo.FindChatID(ctx, senderID, nm.RecipientID)
		if err != nil {
			if errors.Cause(err) != ErrNoChat {
				return Message{}, errors.Wrap(err, "finding chat")
			}
			if chatID, err = svc.repo.NextChatID(ctx); err != nil {
				return Message{}, errors.Wrap(err, "allocating chat")
			}
		}
	}

	return svc.repo.CreateMessage(ctx, Message{
		ChatID:      chatID,
		SenderID:    senderID,
		RecipientID: nm.RecipientID,
		Content:     nm.Content,
		Type:        nm.Type,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) Get(ctx context.Context, id int) (Message, error) {
	return svc.repo.GetMessage(ctx, id)
}

// MarkRead flags msg as read by its recipient.
func (svc *Service) MarkRead(ctx context.Context, msg Message) (Message, error) {
	if msg.Read {
		return msg, nil
	}
	msg.Read = true
	return svc.repo.UpdateMessage(ctx, msg)
}
