package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/frbcapl/league-system/models"
	"github.com/frbcapl/league-system/repositories"
	"github.com/frbcapl/league-system/storage"
)

type StandingsService interface {
	ListStandings(ctx context.Context, division string) ([]*models.Standing, error)

	// SyncFromSheet replaces a division's standings with the rows of the
	// admin-maintained CSV sheet in the object store. Returns the number of
	// imported rows.
	SyncFromSheet(ctx context.Context, division string) (int, error)

	// SnapshotToSheet exports the current standings back to the object store
	// as a timestamped CSV. Returns the object key.
	SnapshotToSheet(ctx context.Context, division string) (string, error)
}

type standingsService struct {
	tx           TxRunner
	standingRepo repositories.StandingRepository
	store        storage.ObjectStore // nil when the object store is not configured
}

func NewStandingsService(
	tx TxRunner,
	standingRepo repositories.StandingRepository,
	store storage.ObjectStore,
) StandingsService {
	return &standingsService{
		tx:           tx,
		standingRepo: standingRepo,
		store:        store,
	}
}

func sheetKey(division string) string {
	return "standings/" + division + ".csv"
}

func (s *standingsService) ListStandings(ctx context.Context, division string) ([]*models.Standing, error) {
	standings, err := s.standingRepo.ListByDivision(ctx, division)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for division %s: %w", division, err)
	}
	return standings, nil
}

func (s *standingsService) SyncFromSheet(ctx context.Context, division string) (int, error) {
	if s.store == nil {
		return 0, ErrStandingsSourceUnavailable
	}

	body, err := s.store.Download(ctx, sheetKey(division))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return 0, ErrStandingsSheetNotFound
		}
		return 0, fmt.Errorf("failed to download standings sheet for %s: %w", division, err)
	}
	defer body.Close()

	standings, err := parseStandingsSheet(body)
	if err != nil {
		return 0, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.standingRepo.ReplaceDivision(ctx, exec, division, standings)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace standings for division %s: %w", division, err)
	}
	return len(standings), nil
}

func (s *standingsService) SnapshotToSheet(ctx context.Context, division string) (string, error) {
	if s.store == nil {
		return "", ErrStandingsSourceUnavailable
	}

	standings, err := s.standingRepo.ListByDivision(ctx, division)
	if err != nil {
		return "", fmt.Errorf("failed to list standings for division %s: %w", division, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"rank", "player", "wins", "losses"})
	for _, st := range standings {
		w.Write([]string{
			strconv.Itoa(st.Rank),
			st.PlayerName,
			strconv.Itoa(st.Wins),
			strconv.Itoa(st.Losses),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode standings snapshot: %w", err)
	}

	key := fmt.Sprintf("standings/snapshots/%s-%s.csv", division, time.Now().UTC().Format("20060102T150405"))
	if _, err := s.store.Upload(ctx, key, "text/csv", &buf); err != nil {
		return "", fmt.Errorf("failed to upload standings snapshot for %s: %w", division, err)
	}
	return key, nil
}

// parseStandingsSheet reads the admin sheet format: rank,player,wins,losses.
// A header row is tolerated; wins/losses are optional columns.
func parseStandingsSheet(r io.Reader) ([]*models.Standing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStandingsSheetInvalid, err)
	}

	standings := make([]*models.Standing, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrStandingsSheetInvalid, i+1, len(record))
		}

		rank, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("%w: row %d rank %q", ErrStandingsSheetInvalid, i+1, record[0])
		}

		player := strings.TrimSpace(record[1])
		if player == "" {
			return nil, fmt.Errorf("%w: row %d has an empty player name", ErrStandingsSheetInvalid, i+1)
		}

		standing := &models.Standing{Rank: rank, PlayerName: player}
		if len(record) > 2 {
			if standing.Wins, err = strconv.Atoi(strings.TrimSpace(record[2])); err != nil {
				return nil, fmt.Errorf("%w: row %d wins %q", ErrStandingsSheetInvalid, i+1, record[2])
			}
		}
		if len(record) > 3 {
			if standing.Losses, err = strconv.Atoi(strings.TrimSpace(record[3])); err != nil {
				return nil, fmt.Errorf("%w: row %d losses %q", ErrStandingsSheetInvalid, i+1, record[3])
			}
		}
		standings = append(standings, standing)
	}

	if len(standings) == 0 {
		return nil, fmt.Errorf("%w: sheet has no data rows", ErrStandingsSheetInvalid)
	}
	return standings, nil
}
