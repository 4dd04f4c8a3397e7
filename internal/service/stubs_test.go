package service

import (
	"context"
	"sync"
	"testing"

	"scribe/internal/auth"
	"scribe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	listFn          func(context.Context) ([]models.UserSummary, error)
	existsFn        func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.UserSummary, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		listFn:          func(context.Context) ([]models.UserSummary, error) { return nil, nil },
		existsFn:        func(context.Context, uint) (bool, error) { return false, nil },
	}
}

// memoryUsers is a userRepoStub backed by a map, enough for signup/login flows.
func memoryUsers() *userRepoStub {
	var mu sync.Mutex
	byID := map[uint]*models.User{}
	var nextID uint

	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		mu.Lock()
		defer mu.Unlock()
		for _, existing := range byID {
			if existing.Username == u.Username {
				return models.NewConflictError("Username already taken")
			}
		}
		nextID++
		u.ID = nextID
		stored := *u
		byID[u.ID] = &stored
		return nil
	}
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		mu.Lock()
		defer mu.Unlock()
		for _, u := range byID {
			if u.Username == username {
				copied := *u
				return &copied, nil
			}
		}
		return nil, nil
	}
	repo.existsFn = func(_ context.Context, id uint) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		_, ok := byID[id]
		return ok, nil
	}
	return repo
}

type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.PostWithAuthor, error)
	listWithAuthorFn func(context.Context) ([]models.PostWithAuthor, error)
	listByUserFn     func(context.Context, uint) ([]models.PostWithAuthor, error)
	existsFn         func(context.Context, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.PostWithAuthor, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListWithAuthor(ctx context.Context) ([]models.PostWithAuthor, error) {
	return s.listWithAuthorFn(ctx)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.PostWithAuthor, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:         func(context.Context, *models.Post) error { return nil },
		getByIDFn:        func(context.Context, uint) (*models.PostWithAuthor, error) { return nil, nil },
		listWithAuthorFn: func(context.Context) ([]models.PostWithAuthor, error) { return nil, nil },
		listByUserFn:     func(context.Context, uint) ([]models.PostWithAuthor, error) { return nil, nil },
		existsFn:         func(context.Context, uint) (bool, error) { return true, nil },
	}
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	listByPostFn func(context.Context, uint) ([]models.CommentWithAuthor, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.CommentWithAuthor, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(context.Context, *models.Comment) error { return nil },
		listByPostFn: func(context.Context, uint) ([]models.CommentWithAuthor, error) { return nil, nil },
	}
}

type hasherStub struct {
	hashFn   func(context.Context, string) (string, error)
	verifyFn func(context.Context, string, string) (bool, error)
}

func (h *hasherStub) Hash(ctx context.Context, plaintext string) (string, error) {
	return h.hashFn(ctx, plaintext)
}
func (h *hasherStub) Verify(ctx context.Context, encoded, plaintext string) (bool, error) {
	return h.verifyFn(ctx, encoded, plaintext)
}

// plainHasher stores "hashed:" + plaintext. Only for tests.
func plainHasher() *hasherStub {
	return &hasherStub{
		hashFn: func(_ context.Context, p string) (string, error) { return "hashed:" + p, nil },
		verifyFn: func(_ context.Context, encoded, p string) (bool, error) {
			return encoded == "hashed:"+p, nil
		},
	}
}

type tokenManagerMock struct {
	mock.Mock
}

func (m *tokenManagerMock) Issue(id auth.Identity) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

func (m *tokenManagerMock) Verify(token string) (*auth.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

func assertKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Equal(t, kind, models.KindOf(err))
	}
}
