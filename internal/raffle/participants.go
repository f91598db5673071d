package raffle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/metrics"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

// RegisterParticipant creates a participant with a fresh access token.
// The name and token uniqueness checks happen before the insert and are not
// transactional, so two simultaneous registrations can slip past them.
func (s *service) RegisterParticipant(ctx context.Context, displayName string) (*domain.Registration, error) {
	name := strings.TrimSpace(displayName)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxDisplayNameLength {
		return nil, fmt.Errorf("%w: "+ErrMsgDisplayNameLength, domain.ErrInvalidInput, domain.MaxDisplayNameLength)
	}

	var participant *domain.Participant
	err := s.run(ctx, OpRegister, func(ctx context.Context) error {
		_, err := s.repo.FindParticipantByName(ctx, name)
		switch {
		case err == nil:
			return domain.ErrDuplicateName
		case !errors.Is(err, domain.ErrParticipantNotFound):
			return fmt.Errorf("%s: %w", ErrContextFailedToCheckName, err)
		}

		token, err := s.uniqueToken(ctx)
		if err != nil {
			return err
		}

		now := s.now()
		participant = &domain.Participant{
			ID:          uuid.NewString(),
			DisplayName: name,
			AccessToken: token,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.CreateParticipant(ctx, participant); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCreateParticipant, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgParticipantRegistered, "participant_id", participant.ID, "display_name", participant.DisplayName)
	metrics.ParticipantsRegistered.Inc()
	s.publish(ctx, event.NewParticipantEvent(event.ParticipantRegistered, participant.ID, participant.DisplayName))

	return &domain.Registration{Participant: participant, Token: participant.AccessToken}, nil
}

// uniqueToken draws codes until one is unused or the attempt budget runs out
func (s *service) uniqueToken(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.tokenMaxAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return "", fmt.Errorf("%s: %w", ErrContextFailedToGenerateToken, err)
		}

		_, err = s.repo.FindParticipantByToken(ctx, code)
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("%s: %w", ErrContextFailedToCheckToken, err)
		}
	}
	return "", fmt.Errorf("%w after %d attempts", domain.ErrTokenExhausted, s.tokenMaxAttempts)
}

// Login resolves a participant by token and marks them as joined
func (s *service) Login(ctx context.Context, token string) (*domain.Participant, error) {
	var participant *domain.Participant
	err := s.run(ctx, OpLogin, func(ctx context.Context) error {
		var err error
		participant, err = s.findByToken(ctx, token)
		if err != nil {
			return err
		}
		if participant.HasJoined {
			return nil
		}

		now := s.now()
		if err := s.repo.MarkJoined(ctx, participant.ID, now); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToMarkJoined, err)
		}
		participant.HasJoined = true
		participant.UpdatedAt = now

		logger.FromContext(ctx).Info(LogMsgParticipantJoined, "participant_id", participant.ID)
		s.publish(ctx, event.NewParticipantEvent(event.ParticipantJoined, participant.ID, participant.DisplayName))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// findByToken normalizes the token the way it is handed out: trimmed, upper case
func (s *service) findByToken(ctx context.Context, token string) (*domain.Participant, error) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	if normalized == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyAccessToken)
	}
	return s.repo.FindParticipantByToken(ctx, normalized)
}

// GetParticipant returns one participant by id
func (s *service) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	var participant *domain.Participant
	err := s.run(ctx, OpGetParticipant, func(ctx context.Context) error {
		var err error
		participant, err = s.repo.GetParticipant(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// ListParticipants returns every participant, newest first
func (s *service) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	var participants []domain.Participant
	err := s.run(ctx, OpList, func(ctx context.Context) error {
		var err error
		participants, err = s.repo.ListParticipants(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// DeleteParticipant removes a participant while the raffle is not active.
// The pool record is rewritten in the same transaction so that a concurrent
// Start sees the change and retries with the new participant count.
func (s *service) DeleteParticipant(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyParticipantID)
	}

	var removed *domain.Participant
	err := s.run(ctx, OpDelete, func(ctx context.Context) error {
		return s.repo.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
			removed = nil

			pool, err := tx.GetPool(ctx)
			if err != nil {
				return err
			}
			if pool.IsActive() {
				return domain.ErrRaffleActive
			}

			participant, err := tx.GetParticipant(ctx, id)
			if err != nil {
				return err
			}
			if err := tx.DeleteParticipant(ctx, id); err != nil {
				return err
			}

			pool.UpdatedAt = s.now()
			if err := tx.UpdatePool(ctx, pool); err != nil {
				return err
			}

			removed = participant
			return nil
		})
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info(LogMsgParticipantDeleted, "participant_id", removed.ID, "display_name", removed.DisplayName)
	s.publish(ctx, event.NewParticipantEvent(event.ParticipantRemoved, removed.ID, removed.DisplayName))
	return nil
}
