package chapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	chapterstore "github.com/zonehq/chapteradmin/internal/app/store/chapters"
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
		chapterstore.New(db),
		images,
		portalsync.New(portal.URL, zap.NewNop()),
		zap.NewNop(),
	)
	return h, testutil.NewFixtures(t, db)
}

func multipartForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestCreateChapter(t *testing.T) {
	h, _ := newTestHandler(t)

	body, contentType := multipartForm(t, map[string]string{
		"chapterName":     "North Zone",
		"zone":            "North",
		"chapterLeadName": "A",
	})
	req := httptest.NewRequest(http.MethodPost, "/sa/chapter", body)
	req.Header.Set("Content-Type", contentType)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"chapterName":"North Zone"`)
	rec.AssertContains(t, `"syncStatus":"synced"`)
}

func TestCreateChapterValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	body, contentType := multipartForm(t, map[string]string{
		"chapterName": "North Zone",
		// zone and chapterLeadName missing
	})
	req := httptest.NewRequest(http.MethodPost, "/sa/chapter", body)
	req.Header.Set("Content-Type", contentType)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"error"`)
}

func TestEnrollMemberIsIdempotent(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	ch := f.CreateChapter(ctx, "North Zone", "North")

	enroll := func() *testutil.ResponseRecorder {
		req := testutil.NewJSONRequest(http.MethodPost,
			"/sa/chapters/"+ch.ID.Hex()+"/enrollMember",
			`{"memberId":"m1","name":"Alice","email":"alice@example.org"}`)
		req = testutil.WithChiURLParam(req, "chapterId", ch.ID.Hex())
		rec := testutil.NewRecorder()
		h.HandleEnrollMember(rec.ResponseRecorder, req)
		return rec
	}

	enroll().AssertStatus(t, http.StatusOK)
	enroll().AssertStatus(t, http.StatusOK) // second add is a no-op, not an error

	var got models.Chapter
	if err := f.DB().Collection("chapters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&got); err != nil {
		t.Fatalf("load chapter: %v", err)
	}
	if len(got.Members) != 1 {
		t.Errorf("members = %d, want exactly 1", len(got.Members))
	}
}

func TestEnrollMemberChapterNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	missing := primitive.NewObjectID().Hex()

	req := testutil.NewJSONRequest(http.MethodPost,
		"/sa/chapters/"+missing+"/enrollMember",
		`{"memberId":"m1","name":"Alice","email":"alice@example.org"}`)
	req = testutil.WithChiURLParam(req, "chapterId", missing)

	rec := testutil.NewRecorder()
	h.HandleEnrollMember(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Chapter not found.")
}

func TestDeleteChapterLeavesEvents(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	ch := f.CreateChapter(ctx, "North Zone", "North")
	ev := f.CreateEvent(ctx, "Spring Meetup", ch.ID, false, 0)

	req := testutil.NewRequest(http.MethodPost, "/sa/delChap/"+ch.ID.Hex())
	req = testutil.WithChiURLParam(req, "chapterId", ch.ID.Hex())

	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"syncStatus":"synced"`)

	if n, _ := f.DB().Collection("chapters").CountDocuments(ctx, bson.M{"_id": ch.ID}); n != 0 {
		t.Error("chapter document still present after delete")
	}
	// Deletion does not cascade: the referenced event must survive.
	if n, _ := f.DB().Collection("events").CountDocuments(ctx, bson.M{"_id": ev.ID}); n != 1 {
		t.Error("referenced event was deleted along with the chapter")
	}
}

func TestDeleteChapterNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	missing := primitive.NewObjectID().Hex()

	req := testutil.NewRequest(http.MethodPost, "/sa/delChap/"+missing)
	req = testutil.WithChiURLParam(req, "chapterId", missing)

	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Chapter not found.")
}

func TestUpdateMemberRole(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	ch := f.CreateChapter(ctx, "North Zone", "North")

	if _, err := h.Chapters.AddMember(ctx, ch.ID, models.ChapterMember{
		MemberID: "m1", Name: "Alice", Email: "alice@example.org",
	}); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	body := fmt.Sprintf(`{"chapterId":%q,"memberId":"m1","role":"lead"}`, ch.ID.Hex())
	req := testutil.NewJSONRequest(http.MethodPost, "/sa/updaterole", body)

	rec := testutil.NewRecorder()
	h.HandleUpdateRole(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"syncStatus":"synced"`)

	var got models.Chapter
	if err := f.DB().Collection("chapters").FindOne(ctx, bson.M{"_id": ch.ID}).Decode(&got); err != nil {
		t.Fatalf("load chapter: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].Role != "lead" {
		t.Errorf("member role = %+v, want role lead", got.Members)
	}
}

func TestUpdateMemberRoleMemberNotFound(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	ch := f.CreateChapter(ctx, "North Zone", "North")

	body := fmt.Sprintf(`{"chapterId":%q,"memberId":"ghost","role":"lead"}`, ch.ID.Hex())
	req := testutil.NewJSONRequest(http.MethodPost, "/sa/updaterole", body)

	rec := testutil.NewRecorder()
	h.HandleUpdateRole(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Member not found in chapter.")
}

func TestCreateChapterReportsFailedSync(t *testing.T) {
	db := testutil.SetupTestDB(t)

	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(portal.Close)

	images, err := imagestore.NewLocalStore(t.TempDir(), "/files/images", zap.NewNop())
	if err != nil {
		t.Fatalf("image store: %v", err)
	}
	h := NewHandler(chapterstore.New(db), images, portalsync.New(portal.URL, zap.NewNop()), zap.NewNop())

	body, contentType := multipartForm(t, map[string]string{
		"chapterName":     "East Zone",
		"zone":            "East",
		"chapterLeadName": "B",
	})
	req := httptest.NewRequest(http.MethodPost, "/sa/chapter", body)
	req.Header.Set("Content-Type", contentType)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	// The local write succeeded, so the response is still 201; only the
	// syncStatus reflects the portal failure.
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"syncStatus":"failed"`)

	var resp struct {
		Chapter models.Chapter `json:"chapter"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Chapter.ChapterName != "East Zone" {
		t.Errorf("chapterName = %q", resp.Chapter.ChapterName)
	}
}
