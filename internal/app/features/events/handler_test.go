package events

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	chapterstore "github.com/zonehq/chapteradmin/internal/app/store/chapters"
	eventstore "github.com/zonehq/chapteradmin/internal/app/store/events"
	"github.com/zonehq/chapteradmin/internal/app/system/imagestore"
	"github.com/zonehq/chapteradmin/internal/app/system/portalsync"
	"github.com/zonehq/chapteradmin/internal/domain/models"
	"github.com/zonehq/chapteradmin/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(portal.Close)

	images, err := imagestore.NewLocalStore(t.TempDir(), "/files/images", zap.NewNop())
	if err != nil {
		t.Fatalf("image store: %v", err)
	}

	h := NewHandler(
		eventstore.New(db),
		chapterstore.New(db),
		images,
		portalsync.New(portal.URL, zap.NewNop()),
		zap.NewNop(),
	)
	return h, testutil.NewFixtures(t, db)
}

func eventForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if withImage {
		fw, err := mw.CreateFormFile("image", "poster.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("not-really-a-png")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func validEventFields(chapterID string) map[string]string {
	return map[string]string{
		"eventName":      "Spring Meetup",
		"eventStartTime": "18:00",
		"eventEndTime":   "20:00",
		"eventDate":      "2027-03-10",
		"location":       "Main Hall",
		"link":           "https://example.org/meetup",
		"chapter":        chapterID,
	}
}

func TestCreateEvent(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	ch := f.CreateChapter(ctx, "North Zone", "North")

	body, contentType := eventForm(t, validEventFields(ch.ID.Hex()), true)
	req := httptest.NewRequest(http.MethodPost, "/sa/event", body)
	req.Header.Set("Content-Type", contentType)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"eventName":"Spring Meetup"`)
	rec.AssertContains(t, `"syncStatus":"synced"`)

	// The new event id must also land in the owning chapter's events list.
	var got models.Chapter
	if err := f.DB().Collection("chapters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&got); err != nil {
		t.Fatalf("load chapter: %v", err)
	}
	if len(got.Events) != 1 {
		t.Errorf("chapter events = %d, want 1", len(got.Events))
	}
}

func TestCreateEventChapterNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	body, contentType := eventForm(t, validEventFields(primitive.NewObjectID().Hex()), true)
	req := httptest.NewRequest(http.MethodPost, "/sa/event", body)
	req.Header.Set("Content-Type", contentType)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Chapter not found.")
}

func TestCreateEventRequiresImage(t *testing.T) {
	h, f := newTestHandler(t)
	ch := f.CreateChapter(context.Background(), "North Zone", "North")

	body, contentType := eventForm(t, validEventFields(ch.ID.Hex()), false)
	req := httptest.NewRequest(http.MethodPost, "/sa/event", body)
	req.Header.Set("Content-Type", contentType)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Image is required")
}

func TestCreateEventSlotsRequiredWithMembership(t *testing.T) {
	h, f := newTestHandler(t)
	ch := f.CreateChapter(context.Background(), "North Zone", "North")

	fields := validEventFields(ch.ID.Hex())
	fields["membershipRequired"] = "true"
	fields["slots"] = "0"
	body, contentType := eventForm(t, fields, true)
	req := httptest.NewRequest(http.MethodPost, "/sa/event", body)
	req.Header.Set("Content-Type", contentType)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "slots must be greater than zero when membership is required")
}

func enrollReq(memberID, eventID string) *http.Request {
	req := testutil.NewJSONRequest(http.MethodPost,
		"/sa/events/"+eventID+"/enrollMember",
		`{"memberId":"`+memberID+`","name":"Alice","email":"alice@example.org"}`)
	return testutil.WithChiURLParam(req, "eventId", eventID)
}

func TestEnrollMemberTwiceConflicts(t *testing.T) {
	h, f := newTestHandler(t)
	ev := f.CreateEvent(context.Background(), "Spring Meetup", primitive.NewObjectID(), false, 0)

	rec := testutil.NewRecorder()
	h.HandleEnrollMember(rec.ResponseRecorder, enrollReq("m1", ev.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Member enrolled in event")

	rec = testutil.NewRecorder()
	h.HandleEnrollMember(rec.ResponseRecorder, enrollReq("m1", ev.ID.Hex()))
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "Member already enrolled in this event")
}

func TestEnrollMemberConsumesSlots(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	ev := f.CreateEvent(ctx, "Members Only", primitive.NewObjectID(), true, 1)

	rec := testutil.NewRecorder()
	h.HandleEnrollMember(rec.ResponseRecorder, enrollReq("m1", ev.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	var got models.Event
	if err := f.DB().Collection("events").FindOne(ctx, bson.M{"_id": ev.ID}).Decode(&got); err != nil {
		t.Fatalf("load event: %v", err)
	}
	if got.Slots != 0 {
		t.Errorf("slots after enroll = %d, want 0", got.Slots)
	}

	rec = testutil.NewRecorder()
	h.HandleEnrollMember(rec.ResponseRecorder, enrollReq("m2", ev.ID.Hex()))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "No available slots")
}

func TestEnrollMemberEventNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.HandleEnrollMember(rec.ResponseRecorder, enrollReq("m1", primitive.NewObjectID().Hex()))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Event not found.")
}

func TestDeleteEventUnlinksFromChapter(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	ch := f.CreateChapter(ctx, "North Zone", "North")
	ev := f.CreateEvent(ctx, "Spring Meetup", ch.ID, false, 0)

	req := testutil.NewRequest(http.MethodPost, "/sa/delEvent/"+ev.ID.Hex())
	req = testutil.WithChiURLParam(req, "eventId", ev.ID.Hex())

	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Event deleted")

	if n, _ := f.DB().Collection("events").CountDocuments(ctx, bson.M{"_id": ev.ID}); n != 0 {
		t.Error("event document still present after delete")
	}
	var got models.Chapter
	if err := f.DB().Collection("chapters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&got); err != nil {
		t.Fatalf("load chapter: %v", err)
	}
	if len(got.Events) != 0 {
		t.Errorf("chapter events after delete = %v, want empty", got.Events)
	}
}

func TestDeleteEventNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	missing := primitive.NewObjectID().Hex()

	req := testutil.NewRequest(http.MethodPost, "/sa/delEvent/"+missing)
	req = testutil.WithChiURLParam(req, "eventId", missing)

	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Event not found.")
}
