package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

var (
	// Ресурс не найден
	ErrNotFound         = errors.New("requested resource not found")
	ErrEventNotFound    = errors.New("league event not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrMatchNotFound    = errors.New("group match not found")
	ErrInstanceNotFound = errors.New("league instance not found")

	// Ошибки валидации
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidScore     = models.ErrInvalidScore
	ErrDuplicatePlayer  = errors.New("player appears more than once in the event groups")
	ErrGroupSpecInvalid = errors.New("invalid group specification")

	// Конфликты
	ErrEventConflict = errors.New("a league event already exists for this instance and date")

	// Инфраструктура
	ErrTransientStore = errors.New("storage temporarily unavailable")
	ErrExportDisabled = errors.New("standings export is not configured")
)

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrMatchNotFound) ||
		errors.Is(err, ErrInstanceNotFound)
}

// IsValidation reports whether err is a caller mistake that no retry fixes.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidScore) ||
		errors.Is(err, ErrDuplicatePlayer) ||
		errors.Is(err, ErrGroupSpecInvalid)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// handleRepositoryError translates repository sentinels into service ones.
// Unknown errors are passed through so the transaction runner can still
// classify them as transient.
func handleRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repositories.ErrLeagueEventNotFound):
		return fmt.Errorf("%s: %w", op, ErrEventNotFound)
	case errors.Is(err, repositories.ErrLeagueEventConflict):
		return fmt.Errorf("%s: %w", op, ErrEventConflict)
	case errors.Is(err, repositories.ErrLeagueEventInstanceInvalid),
		errors.Is(err, repositories.ErrLeagueInstanceNotFound):
		return fmt.Errorf("%s: %w", op, ErrInstanceNotFound)
	case errors.Is(err, repositories.ErrGroupNotFound):
		return fmt.Errorf("%s: %w", op, ErrGroupNotFound)
	case errors.Is(err, repositories.ErrGroupMatchNotFound):
		return fmt.Errorf("%s: %w", op, ErrMatchNotFound)
	case errors.Is(err, repositories.ErrGroupMemberConflict),
		errors.Is(err, repositories.ErrGroupMatchPairConflict):
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicatePlayer, err)
	case errors.Is(err, repositories.ErrGroupNumberConflict),
		errors.Is(err, repositories.ErrGroupMatchGroupInvalid),
		errors.Is(err, repositories.ErrGroupEventInvalid):
		return fmt.Errorf("%s: %w: %v", op, ErrGroupSpecInvalid, err)
	case errors.Is(err, repositories.ErrGroupMemberPlayerRef),
		errors.Is(err, repositories.ErrGroupMatchPlayersInvalid),
		errors.Is(err, repositories.ErrStandingPlayerInvalid):
		return fmt.Errorf("%s: %w: %v", op, ErrValidationFailed, err)
	case errors.Is(err, repositories.ErrGroupMatchScoreInvalid):
		return fmt.Errorf("%s: %w", op, ErrInvalidScore)
	}
	return fmt.Errorf("%s: %w", op, err)
}
