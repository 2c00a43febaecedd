package sessions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/events"
	"auction-board/internal/models"
	"auction-board/internal/repository"
	"auction-board/utils"
)

// SessionService owns auction sessions and their lifecycle
type SessionService struct {
	repo      repository.SessionRepository
	publisher events.Publisher
	now       func() time.Time
	newID     func() string
}

// NewSessionService creates a new SessionService instance
func NewSessionService(repo repository.SessionRepository, publisher events.Publisher) *SessionService {
	return &SessionService{
		repo:      repo,
		publisher: publisher,
		now:       utils.Now,
		newID:     utils.GenerateID,
	}
}

// Create opens a new auction lot; it starts active
func (s *SessionService) Create(ctx context.Context, itemName, itemDescription string, startingPrice float64) (models.Session, error) {
	name := strings.TrimSpace(itemName)
	if name == "" {
		return models.Session{}, fmt.Errorf("service: %w", auctionerrors.ErrEmptyItemName)
	}

	now := s.now()
	session := models.Session{
		ID:              s.newID(),
		ItemName:        name,
		ItemDescription: strings.TrimSpace(itemDescription),
		StartingPrice:   models.NormalizeAmount(startingPrice),
		Status:          models.StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("service: failed to create session %q: %w", name, err)
	}

	s.publish(session.ID)
	return session, nil
}

// Update merges patch into a session. Updating a missing session is a no-op.
// Status changes are not restricted: a completed session may be reopened.
func (s *SessionService) Update(ctx context.Context, id string, patch models.SessionPatch) error {
	if patch.ItemName != nil {
		name := strings.TrimSpace(*patch.ItemName)
		if name == "" {
			return fmt.Errorf("service: %w", auctionerrors.ErrEmptyItemName)
		}
		patch.ItemName = &name
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("service: %w %q", auctionerrors.ErrInvalidStatus, *patch.Status)
	}
	if patch.StartingPrice != nil {
		price := models.NormalizeAmount(*patch.StartingPrice)
		patch.StartingPrice = &price
	}

	_, err := s.repo.UpdateSession(ctx, id, patch, s.now())
	if errors.Is(err, auctionerrors.ErrNotFound) {
		utils.Info("service: update of unknown session ignored", map[string]any{"session_id": id})
		return nil
	}
	if err != nil {
		return fmt.Errorf("service: failed to update session %s: %w", id, err)
	}

	s.publish(id)
	return nil
}

// Close marks the auction as completed
func (s *SessionService) Close(ctx context.Context, id string) error {
	completed := models.StatusCompleted
	return s.Update(ctx, id, models.SessionPatch{Status: &completed})
}

// Get returns one session
func (s *SessionService) Get(ctx context.Context, id string) (models.Session, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return models.Session{}, fmt.Errorf("service: failed to get session %s: %w", id, err)
	}
	return session, nil
}

// List returns all sessions, newest first
func (s *SessionService) List(ctx context.Context) ([]models.Session, error) {
	list, err := s.repo.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list sessions: %w", err)
	}
	if list == nil {
		list = []models.Session{}
	}
	models.SortSessions(list)
	return list, nil
}

// SelectCurrent resolves the session to display for a caller whose explicit
// selection is selectedID (may be empty). Returns nil when there is none.
func (s *SessionService) SelectCurrent(ctx context.Context, selectedID string) (*models.Session, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveCurrent(list, selectedID), nil
}

// ResolveCurrent picks the displayed session: the explicit selection when it
// exists, else the earliest-created active session, else the newest session.
func ResolveCurrent(list []models.Session, selectedID string) *models.Session {
	if len(list) == 0 {
		return nil
	}

	if selectedID != "" {
		for i := range list {
			if list[i].ID == selectedID {
				found := list[i]
				return &found
			}
		}
	}

	byCreation := append([]models.Session(nil), list...)
	sort.SliceStable(byCreation, func(i, j int) bool {
		return byCreation[i].CreatedAt.Before(byCreation[j].CreatedAt)
	})

	for i := range byCreation {
		if byCreation[i].Status == models.StatusActive {
			found := byCreation[i]
			return &found
		}
	}

	newest := byCreation[len(byCreation)-1]
	return &newest
}

func (s *SessionService) publish(sessionID string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Change{Table: events.TableSessions, SessionID: sessionID, At: s.now()})
}
