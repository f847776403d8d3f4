package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/goaltrackr/internal/error_values"
	"github.com/limbo/goaltrackr/pkg/entity"
)

const journalColumns = `id, user_id, title, content, entry_type, mood, tags, related_goals, related_tasks,
	is_private, date, week_number, year_number, created_at, updated_at`

type JournalsRepository struct {
	conn PgConnection
}

func NewJournalsRepo(conn PgConnection) *JournalsRepository {
	if conn == nil {
		log.Fatal("on journals repository provided nil connection")
	}
	return &JournalsRepository{
		conn: conn,
	}
}

func scanJournal(row scanner) (*entity.Journal, error) {
	var (
		j               entity.Journal
		entryType, mood string
	)
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Content, &entryType, &mood, &j.Tags,
		&j.RelatedGoals, &j.RelatedTasks, &j.IsPrivate, &j.Date, &j.WeekNumber, &j.YearNumber,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.EntryType = entity.EntryType(entryType)
	j.Mood = entity.Mood(mood)
	return &j, nil
}

func (jr *JournalsRepository) Create(ctx context.Context, journal *entity.Journal) error {
	_, err := jr.conn.Exec(ctx, `INSERT INTO journals (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`,
		journal.ID, journal.UserID, journal.Title, journal.Content,
		string(journal.EntryType), string(journal.Mood), journal.Tags,
		journal.RelatedGoals, journal.RelatedTasks, journal.IsPrivate, journal.Date,
		journal.WeekNumber, journal.YearNumber, journal.CreatedAt, journal.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return errorvalues.ErrUserNotFound
		}
		return storeError("creating journal", err)
	}
	return nil
}

func (jr *JournalsRepository) GetByID(ctx context.Context, uid, id uuid.UUID) (*entity.Journal, error) {
	row := jr.conn.QueryRow(ctx, `SELECT `+journalColumns+` FROM journals WHERE id = $1 AND user_id = $2;`, id, uid)
	journal, err := scanJournal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrJournalNotFound
		}
		return nil, storeError("getting journal by id", err)
	}
	return journal, nil
}

func (jr *JournalsRepository) List(ctx context.Context, uid uuid.UUID, filter JournalFilter) ([]*entity.Journal, error) {
	qb := newQueryBuilder(`SELECT `+journalColumns+` FROM journals WHERE user_id = $1`, uid)
	if filter.From != nil {
		qb.where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		qb.where("date <= ?", *filter.To)
	}
	if filter.Mood != "" {
		qb.where("mood = ?", filter.Mood)
	}
	if filter.Tag != "" {
		qb.where("? = ANY(tags)", filter.Tag)
	}
	query, args := qb.build("date DESC, created_at DESC")

	rows, err := jr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("listing journals", err)
	}
	defer rows.Close()
	journals := make([]*entity.Journal, 0)
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, storeError("unmarshalling journal", err)
		}
		journals = append(journals, j)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("iterating journals", err)
	}
	return journals, nil
}

func (jr *JournalsRepository) Update(ctx context.Context, journal *entity.Journal) error {
	ct, err := jr.conn.Exec(ctx, `UPDATE journals SET title = $1, content = $2, entry_type = $3, mood = $4,
		tags = $5, related_goals = $6, related_tasks = $7, is_private = $8, date = $9, week_number = $10,
		year_number = $11, updated_at = $12 WHERE id = $13 AND user_id = $14;`,
		journal.Title, journal.Content, string(journal.EntryType), string(journal.Mood),
		journal.Tags, journal.RelatedGoals, journal.RelatedTasks, journal.IsPrivate, journal.Date, journal.WeekNumber,
		journal.YearNumber, journal.UpdatedAt, journal.ID, journal.UserID,
	)
	if err != nil {
		return storeError("updating journal", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrJournalNotFound
	}
	return nil
}

func (jr *JournalsRepository) Delete(ctx context.Context, uid, id uuid.UUID) error {
	ct, err := jr.conn.Exec(ctx, `DELETE FROM journals WHERE id = $1 AND user_id = $2;`, id, uid)
	if err != nil {
		return storeError("deleting journal", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrJournalNotFound
	}
	return nil
}
