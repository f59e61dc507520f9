package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/message"
)

type messageRepository struct {
	db *DB
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) message.Repository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) QueryMessages(_ context.Context, filter message.QueryFilter) ([]message.Message, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	msgs := make([]message.Message, 0)
	for _, id := range sortedKeys(repo.db.messages) {
		m := repo.db.messages[id]
		if filter.ChatID != 0 && m.ChatID != filter.ChatID {
			continue
		}
		if filter.UserID != 0 && !m.IsParticipant(filter.UserID) {
			continue
		}
		msgs = append(msgs, *m)
	}
	return msgs, nil
}

func (repo *messageRepository) FindChatID(_ context.Context, a, b int) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, id := range sortedKeys(repo.db.messages) {
		m := repo.db.messages[id]
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			return m.ChatID, nil
		}
	}
	return 0, message.ErrNoChat
}

func (repo *messageRepository) NextChatID(_ context.Context) (int, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	return next(&repo.db.seq.chat), nil
}

func (repo *messageRepository) CreateMessage(_ context.Context, msg message.Message) (message.Message, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	msg.ID = next(&repo.db.seq.message)
	repo.db.messages[msg.ID] = &msg
	return msg, nil
}

func (repo *messageRepository) GetMessage(_ context.Context, id int) (message.Message, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if m, ok := repo.db.messages[id]; ok {
		return *m, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) UpdateMessage(_ context.Context, msg message.Message) (message.Message, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.messages[msg.ID]; !ok {
		return message.Message{}, message.ErrNotFound
	}
	repo.db.messages[msg.ID] = &msg
	return msg, nil
}
