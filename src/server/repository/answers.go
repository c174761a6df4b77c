package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/qa-forum/server/src/server/data"
	"github.com/qa-forum/server/src/server/store"
)

// AnswerKey is the composite key of an answer: one answer per user per question.
func AnswerKey(questionID int, username string) string {
	return fmt.Sprintf("%d:%s", questionID, username)
}

type Answers struct {
	mu   sync.Mutex
	coll collection[data.Answer]
}

func NewAnswers(b store.Backend) *Answers {
	return &Answers{coll: collection[data.Answer]{name: store.Answers, backend: b}}
}

func validAnswer(a data.Answer) error {
	if a.Text == "" || a.QuestionID <= 0 {
		return store.Invalid("Answer must have answer text and question ID must be provided.")
	}
	return nil
}

func (r *Answers) Create(ctx context.Context, a data.Answer) error {
	if err := validAnswer(a); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	answers, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	key := AnswerKey(a.QuestionID, a.Username)
	if _, ok := answers[key]; ok {
		return store.Conflict("Answer with ID %s already exists.", key)
	}
	answers[key] = a
	return r.coll.save(ctx, answers)
}

func (r *Answers) Get(ctx context.Context, questionID int, username string) (data.Answer, error) {
	answers, err := r.coll.load(ctx)
	if err != nil {
		return data.Answer{}, err
	}
	key := AnswerKey(questionID, username)
	a, ok := answers[key]
	if !ok {
		return data.Answer{}, store.NotFound("Answer with ID %s doesn't exist.", key)
	}
	return a, nil
}

// Update replaces the text of the answer a.Username gave to a.QuestionID.
func (r *Answers) Update(ctx context.Context, a data.Answer) error {
	if err := validAnswer(a); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	answers, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	key := AnswerKey(a.QuestionID, a.Username)
	existing, ok := answers[key]
	if !ok {
		return store.NotFound("Answer with ID %s doesn't exist.", key)
	}
	existing.Text = a.Text
	answers[key] = existing
	return r.coll.save(ctx, answers)
}

func (r *Answers) Delete(ctx context.Context, questionID int, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	answers, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	key := AnswerKey(questionID, username)
	if _, ok := answers[key]; !ok {
		return store.NotFound("Answer with ID %s doesn't exist.", key)
	}
	delete(answers, key)
	return r.coll.save(ctx, answers)
}

// ListForQuestion returns every answer to questionID ordered by username.
func (r *Answers) ListForQuestion(ctx context.Context, questionID int) ([]data.Answer, error) {
	answers, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	want := strconv.Itoa(questionID)
	out := []data.Answer{}
	for key, a := range answers {
		if id, _, ok := strings.Cut(key, ":"); ok && id == want {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
