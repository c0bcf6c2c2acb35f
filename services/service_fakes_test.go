package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/frbcapl/league-system/models"
	"github.com/frbcapl/league-system/repositories"
	"github.com/frbcapl/league-system/storage"
)

// fakeTxRunner serializes transactions with a mutex, the same guarantee the
// database row locks give the real services.
type fakeTxRunner struct {
	mu sync.Mutex
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(nil)
}

type fakeProposalRepo struct {
	mu        sync.Mutex
	nextID    int
	proposals map[int]*models.Proposal
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: make(map[int]*models.Proposal)}
}

func copyProposal(p *models.Proposal) *models.Proposal {
	c := *p
	c.Divisions = append([]string(nil), p.Divisions...)
	return &c
}

func (f *fakeProposalRepo) Create(ctx context.Context, proposal *models.Proposal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	proposal.ID = f.nextID
	proposal.CreatedAt = time.Now()
	f.proposals[proposal.ID] = copyProposal(proposal)
	return nil
}

func (f *fakeProposalRepo) GetByID(ctx context.Context, id int) (*models.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proposals[id]
	if !ok {
		return nil, repositories.ErrProposalNotFound
	}
	return copyProposal(p), nil
}

func (f *fakeProposalRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Proposal, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProposalRepo) List(ctx context.Context, filter repositories.ProposalFilter) ([]*models.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*models.Proposal, 0)
	for _, p := range f.proposals {
		if filter.Division != nil {
			found := false
			for _, d := range p.Divisions {
				if d == *filter.Division {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Completed != nil && p.Completed != *filter.Completed {
			continue
		}
		result = append(result, copyProposal(p))
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (f *fakeProposalRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.ProposalStatus, statusNote *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proposals[id]
	if !ok {
		return repositories.ErrProposalNotFound
	}
	p.Status = status
	if statusNote != nil {
		p.StatusNote = statusNote
	}
	return nil
}

func (f *fakeProposalRepo) SetCompleted(ctx context.Context, exec repositories.SQLExecutor, id int, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proposals[id]
	if !ok {
		return repositories.ErrProposalNotFound
	}
	p.Completed = completed
	return nil
}

func (f *fakeProposalRepo) Delete(ctx context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.proposals[id]; !ok {
		return false, nil
	}
	delete(f.proposals, id)
	return true, nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match)}
}

func copyMatch(m *models.Match) *models.Match {
	c := *m
	return &c
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if match.ProposalID != nil {
		for _, existing := range f.matches {
			if existing.ProposalID != nil && *existing.ProposalID == *match.ProposalID {
				return repositories.ErrMatchProposalConflict
			}
		}
	}
	f.nextID++
	match.ID = f.nextID
	match.CreatedAt = time.Now()
	f.matches[match.ID] = copyMatch(match)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (f *fakeMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeMatchRepo) GetByProposalID(ctx context.Context, proposalID int) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.ProposalID != nil && *m.ProposalID == proposalID {
			return copyMatch(m), nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByDivisionAndStatus(ctx context.Context, division string, status models.MatchStatus) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.Division == division && m.Status == status {
			result = append(result, copyMatch(m))
		}
	}
	return result, nil
}

func (f *fakeMatchRepo) ListByPlayer(ctx context.Context, playerID, division string) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.Division == division && (m.Player1ID == playerID || m.Player2ID == playerID) {
			result = append(result, copyMatch(m))
		}
	}
	return result, nil
}

func (f *fakeMatchRepo) ListByDivisionAndType(ctx context.Context, division string, matchType models.ProposalType) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.Division == division && m.Type == matchType {
			result = append(result, copyMatch(m))
		}
	}
	return result, nil
}

func (f *fakeMatchRepo) Complete(ctx context.Context, exec repositories.SQLExecutor, id int, winner, score string, notes *string, completedDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = models.MatchStatusCompleted
	m.Winner = &winner
	m.Score = &score
	m.CompletedDate = &completedDate
	if notes != nil {
		m.Notes = notes
	}
	return nil
}

func (f *fakeMatchRepo) CountByDivision(ctx context.Context, division string) (models.MatchStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.MatchStats
	for _, m := range f.matches {
		if m.Division != division {
			continue
		}
		stats.Total++
		switch m.Status {
		case models.MatchStatusScheduled:
			stats.Scheduled++
		case models.MatchStatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

type fakeStandingRepo struct {
	mu        sync.Mutex
	divisions map[string][]*models.Standing
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{divisions: make(map[string][]*models.Standing)}
}

func (f *fakeStandingRepo) seed(division string, standings ...*models.Standing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.divisions[division] = standings
}

func (f *fakeStandingRepo) ListByDivision(ctx context.Context, division string) ([]*models.Standing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*models.Standing, 0, len(f.divisions[division]))
	for _, s := range f.divisions[division] {
		c := *s
		result = append(result, &c)
	}
	return result, nil
}

func (f *fakeStandingRepo) GetByDivisionAndPlayer(ctx context.Context, division, playerName string) (*models.Standing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.divisions[division] {
		if s.PlayerName == playerName {
			c := *s
			return &c, nil
		}
	}
	return nil, repositories.ErrStandingNotFound
}

func (f *fakeStandingRepo) ReplaceDivision(ctx context.Context, exec repositories.SQLExecutor, division string, standings []*models.Standing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	replacement := make([]*models.Standing, 0, len(standings))
	for _, s := range standings {
		c := *s
		c.Division = division
		replacement = append(replacement, &c)
	}
	f.divisions[division] = replacement
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return &storage.UploadResult{Key: key}, nil
}

func (f *fakeObjectStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) GetPublicURL(key string) string {
	return "https://sheets.example.com/" + key
}
