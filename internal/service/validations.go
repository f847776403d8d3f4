package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/pkg/entity"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

var goalSorts = map[string]struct{}{
	repository.GoalSortCreated:  {},
	repository.GoalSortDeadline: {},
	repository.GoalSortProgress: {},
	repository.GoalSortPriority: {},
	repository.GoalSortTitle:    {},
}

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		enums := map[string]func(string) bool{
			"goal_status":     func(s string) bool { return entity.GoalStatus(s).Valid() },
			"task_status":     func(s string) bool { return entity.TaskStatus(s).Valid() },
			"priority":        func(s string) bool { return entity.Priority(s).Valid() },
			"progress_metric": func(s string) bool { return entity.ProgressMetric(s).Valid() },
			"recurrence":      func(s string) bool { return entity.RecurrencePattern(s).Valid() },
			"entry_type":      func(s string) bool { return entity.EntryType(s).Valid() },
			"mood":            func(s string) bool { return entity.Mood(s).Valid() },
			"goal_sort": func(s string) bool {
				_, ok := goalSorts[s]
				return ok
			},
		}
		for tag, valid := range enums {
			validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return valid(fl.Field().String())
			})
		}
	})
}

// validateStruct reports every failed field wrapped into ErrValidation.
func validateStruct(s any) error {
	InitValidator()
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			if fe.Param() != "" {
				details = append(details, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
				continue
			}
			details = append(details, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", errorvalues.ErrValidation, strings.Join(details, "; "))
	}
	return fmt.Errorf("%w: %s", errorvalues.ErrValidation, err.Error())
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errorvalues.ErrValidation, fmt.Sprintf(format, args...))
}
