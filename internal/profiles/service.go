package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect/devconnect/internal/github"
	"github.com/devconnect/devconnect/internal/platform/httpx"
)

// UpsertInput carries the editable profile fields. Skills is the raw
// comma-separated list submitted by the client.
type UpsertInput struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         string
	Bio            string
	GitHubUsername string
	Social         Social
}

// Service implements profile use cases.
type Service struct {
	repo   Repository
	purger PostPurger
	repos  RepoLister
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a profile service.
func NewService(repo Repository, purger PostPurger, repos RepoLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, purger: purger, repos: repos, logger: logger, now: time.Now}
}

// Mine returns the caller's own profile.
func (s *Service) Mine(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("profiles: find by user: %w", err)
	}
	return p, nil
}

// ByUser returns the profile of any user.
func (s *Service) ByUser(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profiles: find by user: %w", err)
	}
	return p, nil
}

// List returns every profile.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("profiles: list: %w", err)
	}
	return list, nil
}

// Upsert creates the caller's profile or updates it in place. Empty optional
// fields keep their stored value on update; social links are replaced.
func (s *Service) Upsert(ctx context.Context, userID string, in UpsertInput) (*Profile, error) {
	p := &Profile{
		ID:             uuid.NewString(),
		User:           UserRef{ID: userID},
		Company:        strings.TrimSpace(in.Company),
		Website:        strings.TrimSpace(in.Website),
		Location:       strings.TrimSpace(in.Location),
		Status:         strings.TrimSpace(in.Status),
		Skills:         SplitSkills(in.Skills),
		Bio:            in.Bio,
		GitHubUsername: strings.TrimSpace(in.GitHubUsername),
		Social:         in.Social,
		Experience:     []Experience{},
		Education:      []Education{},
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("profiles: upsert: %w", err)
	}
	return s.Mine(ctx, userID)
}

// AddExperience prepends an experience entry to the caller's profile.
func (s *Service) AddExperience(ctx context.Context, userID string, exp Experience) (*Profile, error) {
	exp.ID = uuid.NewString()
	return s.update(ctx, userID, func(p *Profile) error {
		p.Experience = append([]Experience{exp}, p.Experience...)
		return nil
	})
}

// RemoveExperience deletes one experience entry by id.
func (s *Service) RemoveExperience(ctx context.Context, userID, expID string) (*Profile, error) {
	return s.update(ctx, userID, func(p *Profile) error {
		for i, e := range p.Experience {
			if e.ID == expID {
				p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
				return nil
			}
		}
		return ErrExperienceNotFound
	})
}

// AddEducation prepends an education entry to the caller's profile.
func (s *Service) AddEducation(ctx context.Context, userID string, edu Education) (*Profile, error) {
	edu.ID = uuid.NewString()
	return s.update(ctx, userID, func(p *Profile) error {
		p.Education = append([]Education{edu}, p.Education...)
		return nil
	})
}

// RemoveEducation deletes one education entry by id.
func (s *Service) RemoveEducation(ctx context.Context, userID, eduID string) (*Profile, error) {
	return s.update(ctx, userID, func(p *Profile) error {
		for i, e := range p.Education {
			if e.ID == eduID {
				p.Education = append(p.Education[:i], p.Education[i+1:]...)
				return nil
			}
		}
		return ErrEducationNotFound
	})
}

func (s *Service) update(ctx context.Context, userID string, fn func(*Profile) error) (*Profile, error) {
	p, err := s.repo.Update(ctx, userID, fn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoProfile
		}
		if httpx.IsClientError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("profiles: update: %w", err)
	}
	return p, nil
}

// DeleteAccount removes the caller's profile and user record, then schedules
// removal of their posts. A scheduling failure is logged; the account stays
// deleted.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.DeleteAccount(ctx, userID); err != nil {
		return fmt.Errorf("profiles: delete account: %w", err)
	}
	if s.purger == nil {
		return nil
	}
	if err := s.purger.SchedulePurge(ctx, userID); err != nil {
		s.logger.Error("schedule post purge", slog.String("user_id", userID), slog.Any("error", err))
	}
	return nil
}

// GitHubRepos lists the public repositories of a GitHub user.
func (s *Service) GitHubRepos(ctx context.Context, username string) ([]github.Repo, error) {
	repos, err := s.repos.ListRepos(ctx, username)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return nil, ErrNoGitHubProfile
		}
		return nil, fmt.Errorf("profiles: github repos: %w", err)
	}
	return repos, nil
}

// SplitSkills turns "go, sql,,js" into ["go" "sql" "js"].
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}
