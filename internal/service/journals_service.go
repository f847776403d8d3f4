package service

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/internal/repository"
	"github.com/limbo/goaltrackr/pkg/calendar"
	"github.com/limbo/goaltrackr/pkg/entity"
)

const journalTitleLayout = "January 2, 2006"

type JournalsService struct {
	journals repository.JournalsRepositoryI
	opts     options
}

func NewJournalsService(journals repository.JournalsRepositoryI, opts ...Option) *JournalsService {
	if journals == nil {
		log.Fatal("on journals service provided nil repo")
	}
	return &JournalsService{
		journals: journals,
		opts:     newOptions(opts),
	}
}

func (js *JournalsService) List(ctx context.Context, uid uuid.UUID, query JournalListQuery) ([]*entity.Journal, error) {
	if query.Mood != "" {
		query.Mood = string(entity.NormalizeMood(query.Mood))
	}
	if err := validateStruct(query); err != nil {
		return nil, err
	}
	if query.StartDate != nil && query.EndDate != nil && query.EndDate.Before(*query.StartDate) {
		return nil, validationError("endDate: must not precede startDate")
	}
	journals, err := js.journals.List(ctx, uid, repository.JournalFilter{
		From: query.StartDate,
		To:   query.EndDate,
		Mood: query.Mood,
		Tag:  strings.TrimSpace(query.Tag),
	})
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}
	return journals, nil
}

func (js *JournalsService) Get(ctx context.Context, uid, id uuid.UUID) (*entity.Journal, error) {
	journal, err := js.journals.GetByID(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	return assertOwned(journal, uid, errorvalues.ErrJournalNotFound)
}

func (js *JournalsService) Create(ctx context.Context, uid uuid.UUID, req *CreateJournalRequest) (*entity.Journal, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Mood != "" {
		req.Mood = string(entity.NormalizeMood(req.Mood))
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, validationError("content: required")
	}
	now := js.opts.now()
	date := now
	if req.Date != nil {
		date = req.Date.Time
	}
	week, year := calendar.WeekOf(date)
	if req.WeekNumber != nil {
		week = *req.WeekNumber
	}
	if req.YearNumber != nil {
		year = *req.YearNumber
	}
	journal := &entity.Journal{
		ID:           uuid.New(),
		UserID:       uid,
		Title:        cmp.Or(req.Title, date.Format(journalTitleLayout)),
		Content:      req.Content,
		EntryType:    cmp.Or(req.EntryType, entity.EntryDaily),
		Mood:         cmp.Or(entity.Mood(req.Mood), entity.MoodNeutral),
		Tags:         normalizeTags(req.Tags),
		RelatedGoals: nonNilIDs(req.RelatedGoals),
		RelatedTasks: nonNilIDs(req.RelatedTasks),
		IsPrivate:    true,
		Date:         date,
		WeekNumber:   week,
		YearNumber:   year,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsPrivate != nil {
		journal.IsPrivate = *req.IsPrivate
	}
	if err := js.journals.Create(ctx, journal); err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}
	js.opts.invalidateSummary(ctx, uid)
	return journal, nil
}

func (js *JournalsService) Update(ctx context.Context, uid, id uuid.UUID, req *UpdateJournalRequest) (*entity.Journal, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if req.Mood != nil {
		mood := string(entity.NormalizeMood(*req.Mood))
		req.Mood = &mood
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return nil, validationError("content: required")
	}
	journal, err := js.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		journal.Title = *req.Title
	}
	if req.Content != nil {
		journal.Content = *req.Content
	}
	if req.EntryType != nil {
		journal.EntryType = *req.EntryType
	}
	if req.Mood != nil {
		journal.Mood = entity.Mood(*req.Mood)
	}
	if req.Tags != nil {
		journal.Tags = normalizeTags(req.Tags)
	}
	if req.RelatedGoals != nil {
		journal.RelatedGoals = req.RelatedGoals
	}
	if req.RelatedTasks != nil {
		journal.RelatedTasks = req.RelatedTasks
	}
	if req.IsPrivate != nil {
		journal.IsPrivate = *req.IsPrivate
	}
	if req.Date != nil {
		journal.Date = req.Date.Time
	}
	// the bucket of an existing entry stays where it was first filed
	if journal.WeekNumber == 0 || journal.YearNumber == 0 {
		journal.WeekNumber, journal.YearNumber = calendar.WeekOf(journal.Date)
	}
	journal.UpdatedAt = js.opts.now()

	if err = js.journals.Update(ctx, journal); err != nil {
		return nil, fmt.Errorf("updating journal: %w", err)
	}
	js.opts.invalidateSummary(ctx, uid)
	return journal, nil
}

func (js *JournalsService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := js.Get(ctx, uid, id); err != nil {
		return err
	}
	if err := js.journals.Delete(ctx, uid, id); err != nil {
		return fmt.Errorf("deleting journal: %w", err)
	}
	js.opts.invalidateSummary(ctx, uid)
	return nil
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
