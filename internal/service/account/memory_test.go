package account

import (
	"context"
	"strings"
	"sync"

	"shop-api/internal/domain"
	"shop-api/internal/mail"
	tokenrepo "shop-api/internal/repository/token"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	next  int64
	users map[int64]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[int64]domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
			return nil, domain.ErrAlreadyExists
		}
	}
	r.next++
	u.ID = r.next
	u.Email = strings.ToLower(u.Email)
	r.users[u.ID] = u
	clone := u
	return &clone, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == login || strings.EqualFold(u.Email, login) {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) update(id int64, fn func(u *domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&u)
	r.users[id] = u
	return nil
}

func (r *memoryUserRepo) MarkVerified(_ context.Context, id int64) error {
	return r.update(id, func(u *domain.User) {
		u.IsVerified = true
		u.VerificationToken = ""
	})
}

func (r *memoryUserRepo) SetPasswordResetToken(_ context.Context, id int64, token string) error {
	return r.update(id, func(u *domain.User) { u.PasswordResetToken = token })
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	return r.update(id, func(u *domain.User) {
		u.PasswordHash = hash
		u.PasswordResetToken = ""
	})
}

func (r *memoryUserRepo) UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (*domain.User, error) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	err := r.update(id, func(u *domain.User) {
		set(&u.FirstName, upd.FirstName)
		set(&u.LastName, upd.LastName)
		set(&u.Email, upd.Email)
		set(&u.Profile.Telefonumber, upd.Telefonumber)
		set(&u.Profile.Address, upd.Address)
		set(&u.Profile.City, upd.City)
		set(&u.Profile.ZipCode, upd.ZipCode)
		set(&u.Profile.Birthday, upd.Birthday)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *memoryUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memoryTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]tokenrepo.Token
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (r *memoryTokenRepo) Create(_ context.Context, token tokenrepo.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tokens[token.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := t
	return &clone, nil
}

func (r *memoryTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *memoryTokenRepo) DeleteByUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}
