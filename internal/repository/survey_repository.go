package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
)

// SurveyRepo manages survey questions and guest responses.
type SurveyRepo struct{ db *sql.DB }

func NewSurveyRepo(db *sql.DB) *SurveyRepo { return &SurveyRepo{db: db} }

func scanQuestion(row interface{ Scan(...any) error }) (*model.SurveyQuestion, error) {
	var (
		q    model.SurveyQuestion
		en   sql.NullString
		opts []byte
	)
	if err := row.Scan(&q.ID, &q.EventID, &q.Question, &en, &q.Kind, &opts, &q.OrderIndex, &q.CreatedAt); err != nil {
		return nil, err
	}
	q.QuestionEN = en.String
	var err error
	if q.Options, err = decodeStrings(opts); err != nil {
		return nil, err
	}
	return &q, nil
}

const questionColumns = "id, event_id, question, question_en, kind, options, order_index, created_at"

// Questions lists the event's questions in display order.
func (r *SurveyRepo) Questions(ctx context.Context, eventID string) ([]*model.SurveyQuestion, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+questionColumns+
		" FROM survey_questions WHERE event_id=? ORDER BY order_index, created_at", eventID)
	if err != nil {
		return nil, translate("survey.questions", err)
	}
	defer rows.Close()

	out := []*model.SurveyQuestion{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, translate("survey.questions", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("survey.questions", err)
	}
	return out, nil
}

// Question loads one question of the event.
func (r *SurveyRepo) Question(ctx context.Context, eventID, id string) (*model.SurveyQuestion, error) {
	q, err := scanQuestion(r.db.QueryRowContext(ctx, "SELECT "+questionColumns+
		" FROM survey_questions WHERE id=? AND event_id=?", id, eventID))
	if err != nil {
		return nil, translate("survey.question", err)
	}
	return q, nil
}

func (r *SurveyRepo) CreateQuestion(ctx context.Context, q *model.SurveyQuestion) error {
	opts, err := jsonStrings(q.Options)
	if err != nil {
		return err
	}
	q.ID = uuid.NewString()
	q.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err = r.db.ExecContext(ctx, `INSERT INTO survey_questions
		(id, event_id, question, question_en, kind, options, order_index, created_at) VALUES (?,?,?,?,?,?,?,?)`,
		q.ID, q.EventID, q.Question, nullString(q.QuestionEN), q.Kind, opts, q.OrderIndex, q.CreatedAt)
	return translate("survey.create_question", err)
}

func (r *SurveyRepo) UpdateQuestion(ctx context.Context, q *model.SurveyQuestion) error {
	opts, err := jsonStrings(q.Options)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE survey_questions SET question=?, question_en=?, kind=?, options=?,
		order_index=? WHERE id=? AND event_id=?`,
		q.Question, nullString(q.QuestionEN), q.Kind, opts, q.OrderIndex, q.ID, q.EventID)
	return affected("survey.update_question", res, err)
}

func (r *SurveyRepo) DeleteQuestion(ctx context.Context, eventID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM survey_questions WHERE id=? AND event_id=?", id, eventID)
	return affected("survey.delete_question", res, err)
}

// CreateResponses stores a guest's answers in one transaction.
func (r *SurveyRepo) CreateResponses(ctx context.Context, responses []*model.SurveyResponse) error {
	if len(responses) == 0 {
		return apperr.Invalid("no answers")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Store("survey.respond", err)
	}
	committed := false
	defer rollback(tx, &committed)

	now := time.Now().UTC().Truncate(time.Second)
	for _, resp := range responses {
		resp.ID = uuid.NewString()
		resp.CreatedAt = now
		if _, err := tx.ExecContext(ctx, `INSERT INTO survey_responses
			(id, event_id, question_id, guest_id, guest_name, answer, created_at) VALUES (?,?,?,?,?,?,?)`,
			resp.ID, resp.EventID, resp.QuestionID, resp.GuestID, resp.GuestName, resp.Answer, resp.CreatedAt); err != nil {
			return translate("survey.respond", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.Store("survey.respond", err)
	}
	committed = true
	return nil
}

// Responses lists all answers given for the event, newest first.
func (r *SurveyRepo) Responses(ctx context.Context, eventID string) ([]*model.SurveyResponse, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, event_id, question_id, guest_id, guest_name, answer, created_at
		FROM survey_responses WHERE event_id=? ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, translate("survey.responses", err)
	}
	defer rows.Close()

	out := []*model.SurveyResponse{}
	for rows.Next() {
		var s model.SurveyResponse
		if err := rows.Scan(&s.ID, &s.EventID, &s.QuestionID, &s.GuestID, &s.GuestName, &s.Answer, &s.CreatedAt); err != nil {
			return nil, translate("survey.responses", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("survey.responses", err)
	}
	return out, nil
}
