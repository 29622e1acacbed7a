package posts

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/devconnect/devconnect/internal/shared"
)

type memRepo struct {
	mu      sync.Mutex
	posts   map[string]*Post
	listErr error
}

func newMemRepo() *memRepo {
	return &memRepo{posts: map[string]*Post{}}
}

func clone(p *Post) *Post {
	cp := *p
	cp.Likes = append([]Like{}, p.Likes...)
	cp.Comments = append([]Comment{}, p.Comments...)
	return &cp
}

func (m *memRepo) Insert(ctx context.Context, p *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = clone(p)
	return nil
}

func (m *memRepo) List(ctx context.Context) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, *clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memRepo) Update(ctx context.Context, id string, fn func(*Post) error) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clone(p)
	if err := fn(cp); err != nil {
		return nil, err
	}
	m.posts[id] = cp
	return clone(cp), nil
}

func (m *memRepo) PurgeUser(ctx context.Context, userID string) (PurgeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res PurgeResult
	for id, p := range m.posts {
		if p.User == userID {
			delete(m.posts, id)
			res.PostsDeleted++
			continue
		}
		changed := false
		likes := p.Likes[:0]
		for _, l := range p.Likes {
			if l.User == userID {
				changed = true
				continue
			}
			likes = append(likes, l)
		}
		comments := p.Comments[:0]
		for _, c := range p.Comments {
			if c.User == userID {
				changed = true
				continue
			}
			comments = append(comments, c)
		}
		p.Likes, p.Comments = likes, comments
		if changed {
			res.PostsUpdated++
		}
	}
	return res, nil
}

type stubAuthors map[string]Author

func (s stubAuthors) Author(ctx context.Context, userID string) (Author, error) {
	a, ok := s[userID]
	if !ok {
		return Author{}, ErrNotFound
	}
	return a, nil
}

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
