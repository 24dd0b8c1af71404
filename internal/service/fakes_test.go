package service

import (
	"context"
	"errors"
	"mattressfit/internal/model"
	"mattressfit/internal/survey"
	"sort"
	"sync"
)

var errStoreDown = errors.New("store down")

type fakeQuestionRepo struct {
	mu       sync.Mutex
	records  []model.QuestionRecord
	getErr   error
	replaced int
}

func (f *fakeQuestionRepo) GetAll(_ context.Context) ([]model.QuestionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return append([]model.QuestionRecord(nil), f.records...), nil
}

func (f *fakeQuestionRepo) ReplaceAll(_ context.Context, records []model.QuestionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append([]model.QuestionRecord(nil), records...)
	f.replaced++
	return nil
}

func (f *fakeQuestionRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.records)), nil
}

type fakeContentRepo struct {
	items  map[string]any
	getErr error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{items: make(map[string]any)}
}

func (f *fakeContentRepo) GetAll(_ context.Context) ([]model.ContentItem, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.ContentItem, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.ContentItem{Key: k, Value: f.items[k]})
	}
	return out, nil
}

func (f *fakeContentRepo) Set(_ context.Context, key string, value any) error {
	f.items[key] = value
	return nil
}

func (f *fakeContentRepo) SetMany(_ context.Context, values map[string]any) error {
	for k, v := range values {
		f.items[k] = v
	}
	return nil
}

func (f *fakeContentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeLeadRepo struct {
	mu        sync.Mutex
	leads     []*model.LeadRecord
	createErr error
}

func (f *fakeLeadRepo) Create(_ context.Context, lead *model.LeadRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.leads = append(f.leads, lead)
	return nil
}

func (f *fakeLeadRepo) List(_ context.Context, page, limit int) ([]*model.LeadRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	newest := make([]*model.LeadRecord, 0, len(f.leads))
	for i := len(f.leads) - 1; i >= 0; i-- {
		newest = append(newest, f.leads[i])
	}
	start := (page - 1) * limit
	if start > len(newest) {
		start = len(newest)
	}
	end := min(start+limit, len(newest))
	return newest[start:end], len(newest), nil
}

func (f *fakeLeadRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.leads)), nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	leads []survey.Lead
	err   error

	// when set, NotifyLead signals started and then waits for release
	started chan struct{}
	release chan struct{}
}

func (f *fakeNotifier) NotifyLead(_ context.Context, lead survey.Lead) error {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, lead)
	return f.err
}

type broadcastEvent struct {
	Type    string
	Payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (r *recordingBroadcaster) BroadcastToAdmins(msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, broadcastEvent{Type: msgType, Payload: payload})
}

func (r *recordingBroadcaster) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
