package workouts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultObjectNameConstant    = "workout"
	rowDateLayoutConstant        = "02/01/2006"
	rowTimeLayoutConstant        = "15:04:05"
	rowDateFieldConstant         = "date"
	rowTimeFieldConstant         = "time"
	rowExerciseFieldConstant     = "exercise"
	rowDurationFieldConstant     = "duration"
	rowCaloriesFieldConstant     = "calories"
	missingExercisesMessage      = "exercise source not configured"
	missingRowsMessage           = "row appender not configured"
	emptyQueryMessage            = "exercise description must be provided"
	appendRowTemplateConstant    = "unable to log %s: %w"
	noExercisesMessageConstant   = "no exercises recognized"
	workoutLoggedMessageConstant = "workout logged"
	logFieldExerciseConstant     = "exercise"
	logFieldDurationConstant     = "duration_min"
	logFieldCaloriesConstant     = "calories"
)

// ErrEmptyQuery indicates a blank exercise description.
var ErrEmptyQuery = errors.New(emptyQueryMessage)

// ExerciseSource interprets exercise descriptions.
type ExerciseSource interface {
	Exercises(executionContext context.Context, query string, profile Profile) ([]Exercise, error)
}

// RowAppender adds a row to the workout sheet.
type RowAppender interface {
	AppendRow(executionContext context.Context, objectName string, fields map[string]any) error
}

// Clock supplies the timestamp written with each row.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Dependencies wires the collaborators of Service.
type Dependencies struct {
	Exercises ExerciseSource
	Rows      RowAppender
	Clock     Clock
	Logger    *zap.Logger
}

// Options controls one logging run.
type Options struct {
	Profile    Profile
	ObjectName string
	DryRun     bool
}

// LoggedExercise is a row written to the sheet.
type LoggedExercise struct {
	Exercise string
	Duration int
	Calories int
}

// Service logs workouts.
type Service struct {
	exercises ExerciseSource
	rows      RowAppender
	clock     Clock
	logger    *zap.Logger
	titler    cases.Caser
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Exercises == nil {
		return nil, errors.New(missingExercisesMessage)
	}
	if dependencies.Rows == nil {
		return nil, errors.New(missingRowsMessage)
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		exercises: dependencies.Exercises,
		rows:      dependencies.Rows,
		clock:     clock,
		logger:    logger,
		titler:    cases.Title(language.English),
	}, nil
}

// Log interprets query and appends one row per recognized exercise. Every row is attempted; failures are joined.
// With DryRun set the exercises are returned without touching the sheet.
func (service *Service) Log(executionContext context.Context, query string, options Options) ([]LoggedExercise, error) {
	trimmedQuery := strings.TrimSpace(query)
	if len(trimmedQuery) == 0 {
		return nil, ErrEmptyQuery
	}
	objectName := strings.TrimSpace(options.ObjectName)
	if len(objectName) == 0 {
		objectName = defaultObjectNameConstant
	}

	exercises, exercisesError := service.exercises.Exercises(executionContext, trimmedQuery, options.Profile)
	if exercisesError != nil {
		return nil, exercisesError
	}
	if len(exercises) == 0 {
		service.logger.Warn(noExercisesMessageConstant)
		return nil, nil
	}

	now := service.clock.Now()
	logged := make([]LoggedExercise, 0, len(exercises))
	var failures []error
	for _, exercise := range exercises {
		entry := LoggedExercise{
			Exercise: service.titler.String(strings.TrimSpace(exercise.Name)),
			Duration: int(math.Round(exercise.DurationMinutes)),
			Calories: int(math.Round(exercise.Calories)),
		}
		if options.DryRun {
			logged = append(logged, entry)
			continue
		}
		fields := map[string]any{
			rowDateFieldConstant:     now.Format(rowDateLayoutConstant),
			rowTimeFieldConstant:     now.Format(rowTimeLayoutConstant),
			rowExerciseFieldConstant: entry.Exercise,
			rowDurationFieldConstant: entry.Duration,
			rowCaloriesFieldConstant: entry.Calories,
		}
		if appendError := service.rows.AppendRow(executionContext, objectName, fields); appendError != nil {
			failures = append(failures, fmt.Errorf(appendRowTemplateConstant, entry.Exercise, appendError))
			continue
		}
		service.logger.Info(
			workoutLoggedMessageConstant,
			zap.String(logFieldExerciseConstant, entry.Exercise),
			zap.Int(logFieldDurationConstant, entry.Duration),
			zap.Int(logFieldCaloriesConstant, entry.Calories),
		)
		logged = append(logged, entry)
	}
	return logged, errors.Join(failures...)
}
