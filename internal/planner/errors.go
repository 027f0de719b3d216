package planner

import (
	"fmt"

	"ukemeny/internal/shared"
)

var (
	// ErrInvalidWeekStart is returned when a week does not start on a Monday.
	ErrInvalidWeekStart = fmt.Errorf("%w: weekStartDate must be a Monday", shared.ErrValidation)
	// ErrInvalidDayOfWeek is returned for a day outside 1..7.
	ErrInvalidDayOfWeek = fmt.Errorf("%w: dayOfWeek must be between 1 and 7", shared.ErrValidation)
	// ErrEmptyCatalog is returned when a menu is generated without any recipes.
	ErrEmptyCatalog = fmt.Errorf("%w: no recipes exist, create at least one recipe first", shared.ErrValidation)
	// ErrInconsistentState is returned when a selected recipe vanished while
	// the menu was being built.
	ErrInconsistentState = fmt.Errorf("%w: recipe catalog changed during the operation", shared.ErrConflict)
)
