package service

import (
	"context"
	"errors"
	"mattressfit/internal/fault"
	"mattressfit/internal/metrics"
	"mattressfit/internal/model"
	"mattressfit/internal/survey"
	"net/http"
	"testing"
)

type leadFixture struct {
	repo        *fakeLeadRepo
	notifier    *fakeNotifier
	broadcaster *recordingBroadcaster
	svc         *LeadService
}

func newLeadFixture(t *testing.T) *leadFixture {
	t.Helper()
	f := &leadFixture{
		repo:        &fakeLeadRepo{},
		notifier:    &fakeNotifier{},
		broadcaster: &recordingBroadcaster{},
	}
	catalogSvc := newTestCatalogService(t, seededQuestionRepo(t, smallCatalog()))
	f.svc = NewLeadService(f.repo, f.notifier, catalogSvc, metrics.New(), discardLogger())
	f.svc.SetBroadcaster(f.broadcaster)
	return f
}

func TestDeliverStoresAndNotifies(t *testing.T) {
	f := newLeadFixture(t)
	lead := testLead()
	lead.ID = ""

	res, err := f.svc.Deliver(context.Background(), lead, model.LeadMeta{UserAgent: "test"}, ChannelSession)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}
	if len(f.repo.leads) != 1 || f.repo.leads[0].ID == "" {
		t.Fatal("lead not stored with an id")
	}
	if f.repo.leads[0].Meta.UserAgent != "test" {
		t.Fatal("meta not stored")
	}
	if len(f.notifier.leads) != 1 || f.notifier.leads[0].ID != f.repo.leads[0].ID {
		t.Fatal("notified lead differs from stored lead")
	}
	if got := f.broadcaster.types(); len(got) != 1 || got[0] != EventLeadSubmitted {
		t.Fatalf("events = %v", got)
	}
}

func TestDeliverNotifyFailureRejects(t *testing.T) {
	f := newLeadFixture(t)
	f.notifier.err = ErrTelegramNotConfigured

	res, err := f.svc.Deliver(context.Background(), testLead(), model.LeadMeta{}, ChannelSession)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK || res.Reason == "" {
		t.Fatalf("result = %+v, want rejection with reason", res)
	}
	if len(f.repo.leads) != 1 {
		t.Fatal("lead must be stored before notifying")
	}
	if len(f.broadcaster.types()) != 0 {
		t.Fatal("rejected lead broadcast")
	}
}

func TestDeliverStoreFailureSkipsNotify(t *testing.T) {
	f := newLeadFixture(t)
	f.repo.createErr = errStoreDown

	if _, err := f.svc.Deliver(context.Background(), testLead(), model.LeadMeta{}, ChannelSession); !errors.Is(err, errStoreDown) {
		t.Fatalf("err = %v", err)
	}
	if len(f.notifier.leads) != 0 {
		t.Fatal("notified a lead that was not stored")
	}
}

func TestSubmitDirect(t *testing.T) {
	f := newLeadFixture(t)
	req := model.DirectSubmitRequest{
		UserData: survey.Contact{Name: " Олена ", Phone: "+38 (099) 123-45-67", City: "Київ1"},
		Answers: map[string]string{
			"audience":  "Дорослий",
			"child_age": "7",
			"note":      "Чи є доставка?",
		},
	}

	lead, err := f.svc.SubmitDirect(context.Background(), req, model.LeadMeta{Referer: "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if lead.Contact.Name != "Олена" || lead.Contact.City != "Київ" {
		t.Fatalf("contact = %+v", lead.Contact)
	}
	if len(lead.ResolvedAnswers) != 2 {
		t.Fatalf("resolved = %+v, hidden child_age must be skipped", lead.ResolvedAnswers)
	}
	if lead.RawAnswers["child_age"] != "7" {
		t.Fatal("raw answers must be kept as sent")
	}
}

func TestSubmitDirectRejectsBadContact(t *testing.T) {
	f := newLeadFixture(t)
	req := model.DirectSubmitRequest{UserData: survey.Contact{Name: "Олена", Phone: "12345", City: "Київ"}}

	_, err := f.svc.SubmitDirect(context.Background(), req, model.LeadMeta{})
	ft, ok := fault.As(err)
	if !ok || ft.Field != "phone" {
		t.Fatalf("err = %v, want phone field error", err)
	}
	if len(f.repo.leads) != 0 {
		t.Fatal("invalid lead stored")
	}
}

func TestSubmitDirectNotifyFailure(t *testing.T) {
	f := newLeadFixture(t)
	f.notifier.err = errors.New("telegram down")
	req := model.DirectSubmitRequest{UserData: survey.Contact{Name: "Олена", Phone: "0991234567", City: "Київ"}}

	_, err := f.svc.SubmitDirect(context.Background(), req, model.LeadMeta{})
	if fault.HTTPStatus(err) != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", fault.HTTPStatus(err))
	}
	if ft, _ := fault.As(err); ft.Reason != "telegram down" {
		t.Fatalf("reason = %q", ft.Reason)
	}
}

func TestListLeads(t *testing.T) {
	f := newLeadFixture(t)
	for _, id := range []string{"a", "b", "c"} {
		f.repo.leads = append(f.repo.leads, &model.LeadRecord{ID: id})
	}

	page, err := f.svc.List(context.Background(), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalItems != 3 || page.TotalPages != 2 || len(page.Items) != 2 {
		t.Fatalf("page = %+v", page)
	}
	if page.Items[0].ID != "c" {
		t.Fatalf("first item = %s, want newest", page.Items[0].ID)
	}
	if page.NextPage == nil || *page.NextPage != 2 || page.PrevPage != nil {
		t.Fatal("bad page links")
	}
}
