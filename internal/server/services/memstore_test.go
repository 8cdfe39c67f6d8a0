package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/messages"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/users"
)

// memStore backs both fake repositories so message joins see user rows.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*memUser
	messages []*memMessage
	nextID   int64
	clock    time.Time
	failWith error
}

type memUser struct {
	user models.User
	hash string
}

type memMessage struct {
	id       int64
	from, to string
	body     string
	sentAt   time.Time
	readAt   *time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*memUser{},
		clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so timestamps are strictly increasing.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memManager struct{ s *memStore }

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memManager) Users(dbx.DBTX) users.Repository           { return &memUsers{m.s} }
func (m *memManager) Messages(dbx.DBTX) messages.Repository     { return &memMessages{m.s} }

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, u *models.NewUser) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	if _, ok := r.s.users[u.Username]; ok {
		return nil, common.ErrorConflict
	}
	rec := &memUser{
		user: models.User{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone, JoinAt: r.s.tick()},
		hash: u.PasswordHash,
	}
	r.s.users[u.Username] = rec
	out := rec.user
	return &out, nil
}

func (r *memUsers) GetCredentials(_ context.Context, username string) (*models.Credentials, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	rec, ok := r.s.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Credentials{Username: username, PasswordHash: rec.hash}, nil
}

func (r *memUsers) UpdateLoginTimestamp(_ context.Context, username string) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return time.Time{}, r.s.failWith
	}
	rec, ok := r.s.users[username]
	if !ok {
		return time.Time{}, common.ErrorNotFound
	}
	ts := r.s.tick()
	rec.user.LastLoginAt = &ts
	return ts, nil
}

func (r *memUsers) List(context.Context) ([]models.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := make([]models.UserSummary, 0, len(r.s.users))
	for _, rec := range r.s.users {
		out = append(out, models.UserSummary{Username: rec.user.Username, FirstName: rec.user.FirstName, LastName: rec.user.LastName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username > out[j].Username })
	return out, nil
}

func (r *memUsers) Get(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	rec, ok := r.s.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := rec.user
	return &out, nil
}

type memMessages struct{ s *memStore }

func (r *memMessages) ref(username string) models.UserRef {
	u := r.s.users[username].user
	return u.Ref()
}

func (r *memMessages) Create(_ context.Context, from, to, body string) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	if _, ok := r.s.users[from]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.users[to]; !ok {
		return nil, common.ErrorNotFound
	}
	r.s.nextID++
	m := &memMessage{id: r.s.nextID, from: from, to: to, body: body, sentAt: r.s.tick()}
	r.s.messages = append(r.s.messages, m)
	return &models.Message{ID: m.id, FromUsername: from, ToUsername: to, Body: body, SentAt: m.sentAt}, nil
}

func (r *memMessages) find(id int64) *memMessage {
	for _, m := range r.s.messages {
		if m.id == id {
			return m
		}
	}
	return nil
}

func (r *memMessages) Get(_ context.Context, id int64) (*models.MessageDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	m := r.find(id)
	if m == nil {
		return nil, common.ErrorNotFound
	}
	return &models.MessageDetail{
		ID: m.id, Body: m.body, SentAt: m.sentAt, ReadAt: m.readAt,
		FromUser: r.ref(m.from), ToUser: r.ref(m.to),
	}, nil
}

func (r *memMessages) MarkRead(_ context.Context, id int64) (*models.ReadReceipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	m := r.find(id)
	if m == nil {
		return nil, common.ErrorNotFound
	}
	if m.readAt == nil {
		ts := r.s.tick()
		m.readAt = &ts
	}
	return &models.ReadReceipt{ID: m.id, ReadAt: *m.readAt}, nil
}

func (r *memMessages) ListFrom(_ context.Context, username string) ([]models.SentMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	if _, ok := r.s.users[username]; !ok {
		return nil, common.ErrorNotFound
	}
	out := []models.SentMessage{}
	for _, m := range r.s.messages {
		if m.from == username {
			out = append(out, models.SentMessage{ID: m.id, Body: m.body, SentAt: m.sentAt, ReadAt: m.readAt, ToUser: r.ref(m.to)})
		}
	}
	return out, nil
}

func (r *memMessages) ListTo(_ context.Context, username string) ([]models.ReceivedMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	if _, ok := r.s.users[username]; !ok {
		return nil, common.ErrorNotFound
	}
	out := []models.ReceivedMessage{}
	for _, m := range r.s.messages {
		if m.to == username {
			out = append(out, models.ReceivedMessage{ID: m.id, Body: m.body, SentAt: m.sentAt, ReadAt: m.readAt, FromUser: r.ref(m.from)})
		}
	}
	return out, nil
}
