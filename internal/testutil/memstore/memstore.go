// Package memstore - хранилище в памяти для тестов сервисов. Реализует
// репозитории и trm.Manager: транзакции выполняются строго по очереди над
// копией состояния и публикуются целиком только при успехе.
package memstore

import (
	"cashflow/internal/model"
	"cashflow/internal/repository"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shopspring/decimal"
)

type state struct {
	users    map[int64]model.User
	accounts map[int64]model.Account
	sessions map[string]model.Session
}

func newState() *state {
	return &state{
		users:    map[int64]model.User{},
		accounts: map[int64]model.Account{},
		sessions: map[string]model.Session{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	return c
}

type txKey struct{}

type Store struct {
	txLock sync.Mutex

	mu     sync.Mutex
	state  *state
	nextID atomic.Int64

	// FailApplyDelta вызывается перед каждым ApplyDelta, ненулевая ошибка прерывает запись
	FailApplyDelta func(userID int64, delta decimal.Decimal) error
	// CommitErr имитирует сбой коммита: fn отработала, но состояние не публикуется
	CommitErr error
}

var (
	_ trm.Manager                  = (*Store)(nil)
	_ repository.UserRepository    = (*Store)(nil)
	_ repository.AccountRepository = (*Store)(nil)
	_ repository.AuthRepository    = (*Store)(nil)
)

func New() *Store {
	return &Store{state: newState()}
}

// Do - вложенный вызов присоединяется к внешней транзакции
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}

	s.txLock.Lock()
	defer s.txLock.Unlock()

	s.mu.Lock()
	work := s.state.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.CommitErr != nil {
		return s.CommitErr
	}

	s.mu.Lock()
	s.state = work
	s.mu.Unlock()

	return nil
}

func (s *Store) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// with выполняет f над состоянием транзакции из ctx либо над зафиксированным
func (s *Store) with(ctx context.Context, f func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return f(st)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return f(s.state)
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	var id int64
	err := s.with(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return repository.ErrAlreadyExists
			}
		}

		id = s.nextID.Add(1)
		u := *user
		u.ID = id
		u.CreatedAt = time.Now()
		st.users[id] = u
		return nil
	})

	return id, err
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var out *model.User
	err := s.with(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &u
		return nil
	})

	return out, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var out *model.User
	err := s.with(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})

	return out, err
}

func (s *Store) UpdateProfile(ctx context.Context, id int64, upd model.ProfileUpdate) error {
	return s.with(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		if upd.FirstName != nil {
			u.FirstName = *upd.FirstName
		}
		if upd.LastName != nil {
			u.LastName = *upd.LastName
		}
		st.users[id] = u
		return nil
	})
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return s.with(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		u.PasswordHash = hash
		st.users[id] = u
		return nil
	})
}

// --- accounts ---

func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	return s.with(ctx, func(st *state) error {
		if _, ok := st.accounts[account.UserID]; ok {
			return repository.ErrAlreadyExists
		}
		if account.Balance.IsNegative() {
			return repository.ErrNegativeBalance
		}
		a := *account
		a.UpdatedAt = time.Now()
		st.accounts[a.UserID] = a
		return nil
	})
}

func (s *Store) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	acc, err := s.FindAccount(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

func (s *Store) FindAccount(ctx context.Context, userID int64) (*model.Account, error) {
	var out *model.Account
	err := s.with(ctx, func(st *state) error {
		a, ok := st.accounts[userID]
		if !ok {
			return repository.ErrNotFound
		}
		out = &a
		return nil
	})

	return out, err
}

func (s *Store) LockAccounts(ctx context.Context, userIDs ...int64) (map[int64]*model.Account, error) {
	out := make(map[int64]*model.Account, len(userIDs))
	err := s.with(ctx, func(st *state) error {
		for _, id := range userIDs {
			if a, ok := st.accounts[id]; ok {
				out[id] = &a
			}
		}
		return nil
	})

	return out, err
}

func (s *Store) ApplyDelta(ctx context.Context, userID int64, delta decimal.Decimal) (*model.Account, error) {
	if s.FailApplyDelta != nil {
		if err := s.FailApplyDelta(userID, delta); err != nil {
			return nil, err
		}
	}

	var out *model.Account
	err := s.with(ctx, func(st *state) error {
		a, ok := st.accounts[userID]
		if !ok {
			return repository.ErrNotFound
		}
		next := a.Balance.Add(delta)
		if next.IsNegative() {
			return repository.ErrNegativeBalance
		}
		a.Balance = next
		a.UpdatedAt = time.Now()
		st.accounts[userID] = a
		out = &a
		return nil
	})

	return out, err
}

// --- sessions ---

func (s *Store) CreateSession(ctx context.Context, session *model.Session) error {
	return s.with(ctx, func(st *state) error {
		if _, ok := st.sessions[session.ID]; ok {
			return repository.ErrAlreadyExists
		}
		st.sessions[session.ID] = *session
		return nil
	})
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	var out *model.Session
	err := s.with(ctx, func(st *state) error {
		sess, ok := st.sessions[sessionID]
		if !ok {
			return repository.ErrNotFound
		}
		out = &sess
		return nil
	})

	return out, err
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	return s.with(ctx, func(st *state) error {
		if _, ok := st.sessions[sessionID]; !ok {
			return repository.ErrNotFound
		}
		delete(st.sessions, sessionID)
		return nil
	})
}

func (s *Store) DeleteUserSessions(ctx context.Context, userID int64) error {
	return s.with(ctx, func(st *state) error {
		for id, sess := range st.sessions {
			if sess.UserID == userID {
				delete(st.sessions, id)
			}
		}
		return nil
	})
}

// --- helpers for tests ---

// Seed создает пользователя со счетом вне транзакций и возвращает его ID
func (s *Store) Seed(email string, balance string) int64 {
	ctx := context.Background()
	id, err := s.CreateUser(ctx, &model.User{Email: email, FirstName: "Test", LastName: "User"})
	if err != nil {
		panic(err)
	}
	if err := s.CreateAccount(ctx, &model.Account{UserID: id, Balance: decimal.RequireFromString(balance)}); err != nil {
		panic(err)
	}
	return id
}

// SeedUserOnly создает пользователя без счета
func (s *Store) SeedUserOnly(email string) int64 {
	id, err := s.CreateUser(context.Background(), &model.User{Email: email})
	if err != nil {
		panic(err)
	}
	return id
}

// Balance - зафиксированный баланс, паникует если счета нет
func (s *Store) Balance(userID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.state.accounts[userID]
	if !ok {
		panic("no account")
	}
	return a.Balance
}

// Total - сумма всех зафиксированных балансов
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, a := range s.state.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// SessionCount - число зафиксированных сессий пользователя
func (s *Store) SessionCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sess := range s.state.sessions {
		if sess.UserID == userID {
			n++
		}
	}
	return n
}
