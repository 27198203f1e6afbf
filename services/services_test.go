package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"projectflow/notify"
	"projectflow/storage"
	"projectflow/testdb"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recordingNotifier) Enqueue(ctx context.Context, msgs ...notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingNotifier) sent() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

func (r *recordingNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}

func recipients(msgs []notify.Message) []uint {
	ids := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.To.ID)
	}
	return ids
}

type fixture struct {
	db          *gorm.DB
	store       *storage.Local
	notifier    *recordingNotifier
	workflow    *Workflow
	projects    *ProjectService
	tasks       *TaskService
	comments    *CommentService
	attachments *AttachmentService
	users       *UserService
	query       *QueryService
}

const testAppURL = "https://app.example.com"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	log := zap.NewNop()
	store := storage.NewLocalFs(afero.NewMemMapFs(), "https://files.example.com")
	n := &recordingNotifier{}
	wf := NewWorkflow(db, log)
	return &fixture{
		db:          db,
		store:       store,
		notifier:    n,
		workflow:    wf,
		projects:    NewProjectService(db, wf, store, log),
		tasks:       NewTaskService(db, wf, store, n, testAppURL, log),
		comments:    NewCommentService(db, store, n, testAppURL, log),
		attachments: NewAttachmentService(db, store, 1024, log),
		users:       NewUserService(db, log),
		query:       NewQueryService(db, log),
	}
}

// failingNotifier refuses every message.
type failingNotifier struct {
	calls int
}

func (f *failingNotifier) Enqueue(ctx context.Context, msgs ...notify.Message) error {
	f.calls++
	return errors.New("queue down")
}
