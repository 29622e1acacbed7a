package profiles

import (
	"context"
	"net/http"
	"sync"

	"github.com/devconnect/devconnect/internal/github"
	"github.com/devconnect/devconnect/internal/shared"
)

type memRepo struct {
	mu      sync.Mutex
	users   map[string]UserRef
	byUser  map[string]*Profile
	order   []string
	listErr error
	deleted []string
}

func newMemRepo(users ...UserRef) *memRepo {
	m := &memRepo{users: map[string]UserRef{}, byUser: map[string]*Profile{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func clone(p *Profile) *Profile {
	cp := *p
	cp.Skills = append([]string{}, p.Skills...)
	cp.Experience = append([]Experience{}, p.Experience...)
	cp.Education = append([]Education{}, p.Education...)
	return &cp
}

func (m *memRepo) FindByUser(ctx context.Context, userID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (m *memRepo) List(ctx context.Context) ([]Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []Profile{}
	for _, id := range m.order {
		out = append(out, *clone(m.byUser[id]))
	}
	return out, nil
}

func (m *memRepo) Upsert(ctx context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byUser[p.User.ID]
	if !ok {
		cp := clone(p)
		cp.User = m.users[p.User.ID]
		m.byUser[p.User.ID] = cp
		m.order = append(m.order, p.User.ID)
		return nil
	}
	keep := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	keep(&existing.Company, p.Company)
	keep(&existing.Website, p.Website)
	keep(&existing.Location, p.Location)
	keep(&existing.Bio, p.Bio)
	keep(&existing.GitHubUsername, p.GitHubUsername)
	existing.Status = p.Status
	existing.Skills = p.Skills
	existing.Social = p.Social
	return nil
}

func (m *memRepo) Update(ctx context.Context, userID string, fn func(*Profile) error) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clone(p)
	if err := fn(cp); err != nil {
		return nil, err
	}
	m.byUser[userID] = cp
	return clone(cp), nil
}

func (m *memRepo) DeleteAccount(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byUser, userID)
	delete(m.users, userID)
	m.deleted = append(m.deleted, userID)
	return nil
}

type recordingPurger struct {
	mu    sync.Mutex
	users []string
	err   error
}

func (p *recordingPurger) SchedulePurge(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, userID)
	return p.err
}

type stubLister struct {
	repos []github.Repo
	err   error
}

func (s stubLister) ListRepos(ctx context.Context, username string) ([]github.Repo, error) {
	return s.repos, s.err
}

// headerAuth stands in for the token middleware: the caller id comes from X-User.
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-User")
		if id == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithUserID(r.Context(), id)))
	})
}
