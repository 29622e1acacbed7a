package profiles

import (
	"context"
	"time"

	"github.com/devconnect/devconnect/internal/github"
)

// UserRef is the owner of a profile as shown to readers.
type UserRef struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Social holds optional links to external networks.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is one entry of a profile's work history.
type Experience struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// Education is one entry of a profile's schooling.
type Education struct {
	ID           string `json:"_id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

// Profile is the developer profile attached to a user account.
type Profile struct {
	ID             string       `json:"_id"`
	User           UserRef      `json:"user"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Bio            string       `json:"bio,omitempty"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"date"`
}

// Repository abstracts persistence for profiles.
type Repository interface {
	FindByUser(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	// Update loads the caller's profile under a row lock, applies fn and
	// saves the list fields in the same transaction.
	Update(ctx context.Context, userID string, fn func(*Profile) error) (*Profile, error)
	// DeleteAccount removes the profile and the owning user together.
	DeleteAccount(ctx context.Context, userID string) error
}

// PostPurger removes the posts, likes and comments of a deleted account.
type PostPurger interface {
	SchedulePurge(ctx context.Context, userID string) error
}

// RepoLister lists a GitHub user's public repositories.
type RepoLister interface {
	ListRepos(ctx context.Context, username string) ([]github.Repo, error)
}
