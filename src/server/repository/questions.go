package repository

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/qa-forum/server/src/server/data"
	"github.com/qa-forum/server/src/server/store"
)

// questionSeq is the key of the question id counter in the sequences collection.
const questionSeq = "questions"

// Questions stores questions keyed by id. Ids come from a counter persisted
// in the sequences collection, so deleted ids are never handed out again.
type Questions struct {
	mu   sync.Mutex
	coll collection[data.Question]
	seqs collection[int]
}

func NewQuestions(b store.Backend) *Questions {
	return &Questions{
		coll: collection[data.Question]{name: store.Questions, backend: b},
		seqs: collection[int]{name: store.Sequences, backend: b},
	}
}

// counter returns the highest id ever issued. Data written without a counter
// falls back to the size of the collection or its largest id.
func (r *Questions) counter(ctx context.Context, questions map[string]data.Question) (int, map[string]int, error) {
	seqs, err := r.seqs.load(ctx)
	if err != nil {
		return 0, nil, err
	}
	n := max(seqs[questionSeq], len(questions))
	for _, q := range questions {
		n = max(n, q.ID)
	}
	return n, seqs, nil
}

// NextID reports the id the next Add would assign. It reserves nothing.
func (r *Questions) NextID(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	questions, err := r.coll.load(ctx)
	if err != nil {
		return 0, err
	}
	n, _, err := r.counter(ctx, questions)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// Create stores q under its own id.
func (r *Questions) Create(ctx context.Context, q data.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(ctx, q)
}

// Add assigns the next id to q and stores it.
func (r *Questions) Add(ctx context.Context, q data.Question) (data.Question, error) {
	if q.Title == "" {
		return data.Question{}, invalidQuestion()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	questions, err := r.coll.load(ctx)
	if err != nil {
		return data.Question{}, err
	}
	n, _, err := r.counter(ctx, questions)
	if err != nil {
		return data.Question{}, err
	}
	q.ID = n + 1
	if err := r.create(ctx, q); err != nil {
		return data.Question{}, err
	}
	return q, nil
}

func invalidQuestion() error {
	return store.Invalid("Question must have a title and should have generated an ID.")
}

func (r *Questions) create(ctx context.Context, q data.Question) error {
	if q.Title == "" || q.ID <= 0 {
		return invalidQuestion()
	}

	questions, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	key := strconv.Itoa(q.ID)
	if _, ok := questions[key]; ok {
		return store.Conflict("Question with ID %d already exists.", q.ID)
	}
	n, seqs, err := r.counter(ctx, questions)
	if err != nil {
		return err
	}

	questions[key] = q
	if err := r.coll.save(ctx, questions); err != nil {
		return err
	}
	seqs[questionSeq] = max(n, q.ID)
	if err := r.seqs.save(ctx, seqs); err != nil {
		return err
	}
	slog.Debug("question created", "question_id", q.ID, "username", q.Username)
	return nil
}

func (r *Questions) Get(ctx context.Context, id int) (data.Question, error) {
	questions, err := r.coll.load(ctx)
	if err != nil {
		return data.Question{}, err
	}
	q, ok := questions[strconv.Itoa(id)]
	if !ok {
		return data.Question{}, store.NotFound("Question with ID %d doesn't exist.", id)
	}
	return q, nil
}

// Update replaces the title and body of question id. Its id and owner never change.
func (r *Questions) Update(ctx context.Context, id int, q data.Question) error {
	if q.Title == "" {
		return store.Invalid("Question must have a title.")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	questions, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	key := strconv.Itoa(id)
	existing, ok := questions[key]
	if !ok {
		return store.NotFound("Question with ID %d doesn't exist.", id)
	}
	existing.Title = q.Title
	existing.Body = q.Body
	questions[key] = existing
	return r.coll.save(ctx, questions)
}

func (r *Questions) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	questions, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	key := strconv.Itoa(id)
	if _, ok := questions[key]; !ok {
		return store.NotFound("Question with ID %d doesn't exist.", id)
	}
	delete(questions, key)
	return r.coll.save(ctx, questions)
}

// ListByUsername returns the questions owned by username, oldest first.
func (r *Questions) ListByUsername(ctx context.Context, username string) ([]data.Question, error) {
	questions, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := []data.Question{}
	for _, q := range questions {
		if q.Username == username {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
