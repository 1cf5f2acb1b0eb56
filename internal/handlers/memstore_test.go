package handlers

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

// memStore backs all three repositories with maps, mirroring the SQL semantics
// the services depend on: unordered-pair uniqueness, either-direction lookups
// and newest-first message ordering.
type memStore struct {
	mu          sync.Mutex
	now         time.Time
	users       map[int64]*models.User
	friendships map[int64]*models.Friendship
	messages    []models.Message
	nextUser    int64
	nextEdge    int64
	nextMessage int64
}

func newMemStore() *memStore {
	return &memStore{
		now:         time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		users:       map[int64]*models.User{},
		friendships: map[int64]*models.Friendship{},
	}
}

// tick hands out strictly increasing timestamps.
func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

type memUsers struct{ *memStore }
type memFriendships struct{ *memStore }
type memMessages struct{ *memStore }

var (
	_ repositories.UserRepository       = memUsers{}
	_ repositories.FriendshipRepository = memFriendships{}
	_ repositories.MessageRepository    = memMessages{}
)

func (s memUsers) Create(_ context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return nil, repositories.ErrDuplicate
		}
	}
	s.nextUser++
	now := s.tick()
	u := &models.User{ID: s.nextUser, Username: username, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s memUsers) ListExcept(_ context.Context, id int64) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.UserSummary{}
	for _, u := range s.users {
		if u.ID != id {
			out = append(out, u.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memUsers) SetProfilePicture(_ context.Context, id int64, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.ProfilePicture = &url
	u.UpdatedAt = s.tick()
	return nil
}

func (s memFriendships) between(a, b int64) *models.Friendship {
	for _, f := range s.friendships {
		if (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a) {
			return f
		}
	}
	return nil
}

func (s memFriendships) Create(_ context.Context, userID, friendID int64) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.between(userID, friendID) != nil {
		return nil, repositories.ErrDuplicate
	}
	s.nextEdge++
	now := s.tick()
	f := &models.Friendship{ID: s.nextEdge, UserID: userID, FriendID: friendID, Status: models.FriendshipPending, CreatedAt: now, UpdatedAt: now}
	s.friendships[f.ID] = f
	cp := *f
	return &cp, nil
}

func (s memFriendships) GetByID(_ context.Context, id int64) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.friendships[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *f
	return &cp, nil
}

func (s memFriendships) FindBetween(_ context.Context, a, b int64) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.between(a, b)
	if f == nil {
		return nil, sql.ErrNoRows
	}
	cp := *f
	return &cp, nil
}

func (s memFriendships) AreFriends(_ context.Context, a, b int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.between(a, b)
	return f != nil && f.Status == models.FriendshipAccepted, nil
}

func (s memFriendships) UpdateStatus(_ context.Context, id int64, status models.FriendshipStatus) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.friendships[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	f.Status = status
	f.UpdatedAt = s.tick()
	cp := *f
	return &cp, nil
}

func (s memFriendships) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.friendships[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.friendships, id)
	return nil
}

func (s memFriendships) sorted() []*models.Friendship {
	out := make([]*models.Friendship, 0, len(s.friendships))
	for _, f := range s.friendships {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s memFriendships) ListFriends(_ context.Context, userID int64) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.UserSummary{}
	for _, f := range s.sorted() {
		if f.Status == models.FriendshipAccepted && f.Involves(userID) {
			out = append(out, s.users[f.OtherParty(userID)].Summary())
		}
	}
	return out, nil
}

func (s memFriendships) ListIncoming(_ context.Context, userID int64) ([]models.IncomingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.IncomingRequest{}
	for _, f := range s.sorted() {
		if f.Status == models.FriendshipPending && f.FriendID == userID {
			out = append(out, models.IncomingRequest{Friendship: *f, User: s.users[f.UserID].Summary()})
		}
	}
	return out, nil
}

func (s memFriendships) ListOutgoing(_ context.Context, userID int64) ([]models.OutgoingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.OutgoingRequest{}
	for _, f := range s.sorted() {
		if f.Status == models.FriendshipPending && f.UserID == userID {
			out = append(out, models.OutgoingRequest{ID: f.ID, FriendID: f.FriendID, Status: f.Status, CreatedAt: f.CreatedAt})
		}
	}
	return out, nil
}

func (s memMessages) Create(_ context.Context, senderID, receiverID int64, content string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMessage++
	now := s.tick()
	m := models.Message{ID: s.nextMessage, SenderID: senderID, ReceiverID: receiverID, Content: content, CreatedAt: now, UpdatedAt: now}
	s.messages = append(s.messages, m)
	return &m, nil
}

func (s memMessages) ListForUser(_ context.Context, userID int64) ([]models.MessageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.MessageView{}
	for i := len(s.messages) - 1; i >= 0; i-- {
		m := s.messages[i]
		if m.SenderID != userID && m.ReceiverID != userID {
			continue
		}
		sender, receiver := s.users[m.SenderID], s.users[m.ReceiverID]
		out = append(out, models.MessageView{
			Message:  m,
			Sender:   models.Participant{ID: sender.ID, Username: sender.Username},
			Receiver: models.Participant{ID: receiver.ID, Username: receiver.Username},
		})
	}
	return out, nil
}

func (s *memStore) friendshipCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.friendships)
}

// memAvatars records saved avatars without touching disk.
type memAvatars struct {
	mu    sync.Mutex
	files map[string][]byte
	seq   int
}

func newMemAvatars() *memAvatars { return &memAvatars{files: map[string][]byte{}} }

func (a *memAvatars) Save(_ context.Context, userID int64, ext string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	url := "/uploads/avatars/" + strconv.FormatInt(userID, 10) + "/avatar-" + strconv.Itoa(a.seq) + ext
	a.files[url] = data
	return url, nil
}

func (a *memAvatars) Remove(_ context.Context, url string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.files, url)
	return nil
}

func (a *memAvatars) has(url string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.files[url]
	return ok
}
