package stores

import (
	"YouthHealth/models"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserAPI struct {
	token      string
	session    models.Session
	loginErr   error
	profile    models.User
	profileErr error
	messages   []models.OutgoingMessage
}

func (f *fakeUserAPI) Login(context.Context, models.Credentials) (models.Session, error) {
	return f.session, f.loginErr
}

func (f *fakeUserAPI) Profile(context.Context) (models.User, error) { return f.profile, f.profileErr }

func (f *fakeUserAPI) UpdateProfile(_ context.Context, patch models.UserPatch) (models.User, error) {
	return patch.Apply(f.profile), nil
}

func (f *fakeUserAPI) SendMessage(_ context.Context, msg models.OutgoingMessage) (models.Message, error) {
	f.messages = append(f.messages, msg)
	return models.Message{ID: "m1", ConsultationID: msg.ConsultationID, Content: msg.Content}, nil
}

func (f *fakeUserAPI) GetInTouch(context.Context, models.ContactRequest) error { return nil }

func (f *fakeUserAPI) SetToken(token string) { f.token = token }

type memoryStorage struct {
	token   string
	profile *models.User
	cleared bool
}

func (m *memoryStorage) SaveToken(token string) error { m.token = token; return nil }

func (m *memoryStorage) Token() (string, error) { return m.token, nil }

func (m *memoryStorage) SaveProfile(user models.User) error { m.profile = &user; return nil }

func (m *memoryStorage) LastProfile() (*models.User, error) { return m.profile, nil }

func (m *memoryStorage) Clear() error {
	m.token, m.profile, m.cleared = "", nil, true
	return nil
}

func TestLoginPersistsSession(t *testing.T) {
	api := &fakeUserAPI{session: models.Session{Token: "tok", User: models.User{ID: "u1", Name: "Ada"}}}
	storage := &memoryStorage{}
	store := NewUserStore(api, storage, quietLogger())

	require.NoError(t, store.Login(context.Background(), models.Credentials{Email: "a@b.co", Password: "secret123"}))
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok", store.Token())
	assert.Equal(t, "tok", api.token)
	assert.Equal(t, "tok", storage.token)
	require.NotNil(t, storage.profile)
	assert.Equal(t, "Ada", storage.profile.Name)

	user, fromStorage := store.User()
	require.NotNil(t, user)
	assert.False(t, fromStorage)
}

func TestRestoreMarksProfileAsStored(t *testing.T) {
	api := &fakeUserAPI{profile: models.User{ID: "u1", Name: "Ada Fresh"}}
	storage := &memoryStorage{token: "tok", profile: &models.User{ID: "u1", Name: "Ada"}}
	store := NewUserStore(api, storage, quietLogger())

	require.NoError(t, store.Restore())
	user, fromStorage := store.User()
	require.NotNil(t, user)
	assert.True(t, fromStorage)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "tok", api.token)

	require.NoError(t, store.FetchProfile(context.Background()))
	user, fromStorage = store.User()
	assert.False(t, fromStorage)
	assert.Equal(t, "Ada Fresh", user.Name)
	assert.Equal(t, "Ada Fresh", storage.profile.Name)
}

func TestProfileFailureKeepsStoredProfile(t *testing.T) {
	api := &fakeUserAPI{profileErr: errors.New("offline")}
	storage := &memoryStorage{token: "tok", profile: &models.User{ID: "u1", Name: "Ada"}}
	store := NewUserStore(api, storage, quietLogger())
	require.NoError(t, store.Restore())

	require.Error(t, store.FetchProfile(context.Background()))
	user, fromStorage := store.User()
	require.NotNil(t, user)
	assert.True(t, fromStorage)
	assert.Equal(t, "offline", store.Error())
}

func TestSignedOutOperations(t *testing.T) {
	store := NewUserStore(&fakeUserAPI{}, nil, quietLogger())
	assert.ErrorIs(t, store.FetchProfile(context.Background()), ErrNotLoggedIn)
	name := "Ada"
	assert.ErrorIs(t, store.UpdateProfile(context.Background(), models.UserPatch{Name: &name}), ErrNotLoggedIn)
}

func TestSendMessageValidatesAndRecords(t *testing.T) {
	api := &fakeUserAPI{}
	store := NewUserStore(api, nil, quietLogger())

	_, err := store.SendMessage(context.Background(), models.OutgoingMessage{Content: "hi"})
	require.Error(t, err)
	assert.Empty(t, api.messages)

	msg, err := store.SendMessage(context.Background(), models.OutgoingMessage{ConsultationID: "c1", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	assert.Len(t, store.SentMessages(), 1)
}

// gatedSendAPI holds each message until the gate for its content opens.
type gatedSendAPI struct {
	fakeUserAPI
	started chan string
	gates   map[string]chan struct{}
}

func (f *gatedSendAPI) SendMessage(_ context.Context, msg models.OutgoingMessage) (models.Message, error) {
	f.started <- msg.Content
	<-f.gates[msg.Content]
	return models.Message{ID: "m-" + msg.Content, ConsultationID: msg.ConsultationID, Content: msg.Content}, nil
}

func TestOverlappingSendsAreBothRecorded(t *testing.T) {
	api := &gatedSendAPI{
		started: make(chan string, 2),
		gates:   map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})},
	}
	store := NewUserStore(api, nil, quietLogger())

	type result struct {
		msg models.Message
		err error
	}
	send := func(content string, out chan<- result) {
		m, err := store.SendMessage(context.Background(), models.OutgoingMessage{ConsultationID: "c1", Content: content})
		out <- result{m, err}
	}
	first, second := make(chan result, 1), make(chan result, 1)
	go send("first", first)
	require.Equal(t, "first", <-api.started)
	go send("second", second)
	require.Equal(t, "second", <-api.started)

	close(api.gates["first"])
	r := <-first
	require.NoError(t, r.err)
	assert.Equal(t, "m-first", r.msg.ID)
	close(api.gates["second"])
	r = <-second
	require.NoError(t, r.err)
	assert.Equal(t, "m-second", r.msg.ID)

	sent := store.SentMessages()
	require.Len(t, sent, 2)
	assert.Equal(t, "m-first", sent[0].ID)
	assert.Equal(t, "m-second", sent[1].ID)
}

func TestLogoutClearsStorage(t *testing.T) {
	api := &fakeUserAPI{session: models.Session{Token: "tok", User: models.User{ID: "u1"}}}
	storage := &memoryStorage{}
	store := NewUserStore(api, storage, quietLogger())
	require.NoError(t, store.Login(context.Background(), models.Credentials{}))

	require.NoError(t, store.Logout())
	assert.False(t, store.IsAuthenticated())
	assert.True(t, storage.cleared)
	assert.Empty(t, api.token)
	user, _ := store.User()
	assert.Nil(t, user)
}
