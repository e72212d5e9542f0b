// internal/app/system/portalsync/portalsync.go

// Package portalsync pushes local state changes to the membership portal
// over HTTP webhooks. Every push is a single best-effort POST: no retry,
// no backoff, no dead-letter queue. Failures are logged and reported to
// the caller as a Result so the handler decides what to surface; a failed
// push never rolls back the local write.
package portalsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// Result reports the outcome of one outbound push.
type Result struct {
	Synced bool
	Reason string
}

// Status renders the result for the syncStatus field on API responses.
func (r Result) Status() string {
	if r.Synced {
		return "synced"
	}
	return "failed"
}

// ok is the Result for a delivered push.
var ok = Result{Synced: true}

func failed(reason string) Result { return Result{Reason: reason} }

// Portal paths the synchronizer posts to.
const (
	chapterReceivePath     = "/webhook/chapters/receive"
	chapterDeletePath      = "/webhook/chapters/delete"
	eventReceivePath       = "/webhook/events/receive"
	eventDeletePath        = "/webhook/events/delete"
	memberRolePath         = "/webhook/members/role"
	opportunityReceivePath = "/webhook/opportunities/receive"
)

// Synchronizer holds the portal base URL and the HTTP client used for all
// outbound pushes. The base URL is injected at construction; nothing here
// reads the environment.
type Synchronizer struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// New builds a Synchronizer for the given portal base URL. A bounded
// client timeout keeps a stalled portal from pinning handler goroutines.
func New(baseURL string, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

// ChapterPayload is the subset of chapter fields the portal needs. The
// local document ID travels as hmrsChapterId.
type ChapterPayload struct {
	HMRSChapterID   string `json:"hmrsChapterId"`
	ChapterName     string `json:"chapterName"`
	Zone            string `json:"zone"`
	Description     string `json:"description,omitempty"`
	ChapterLeadName string `json:"chapterLeadName"`
	Image           string `json:"image,omitempty"`
}

// EventPayload carries an event plus a denormalized chapter summary so
// the portal does not have to resolve the chapter itself.
type EventPayload struct {
	HMRSEventID        string                `json:"hmrsEventId"`
	EventName          string                `json:"eventName"`
	Slots              int                   `json:"slots"`
	Link               string                `json:"link,omitempty"`
	EventStartTime     time.Time             `json:"eventStartTime"`
	EventEndTime       time.Time             `json:"eventEndTime"`
	EventDate          time.Time             `json:"eventDate"`
	Location           string                `json:"location"`
	Description        string                `json:"description,omitempty"`
	MembershipRequired bool                  `json:"membershipRequired"`
	Image              string                `json:"image,omitempty"`
	Chapter            models.ChapterSummary `json:"chapter"`
}

// RoleChangePayload notifies the portal that a chapter member's role changed.
type RoleChangePayload struct {
	HMRSChapterID string `json:"hmrsChapterId"`
	MemberID      string `json:"memberId"`
	Role          string `json:"role"`
}

// OpportunityPayload mirrors a newly created opportunity to the portal.
type OpportunityPayload struct {
	HMRSOppID          string    `json:"hmrsOppId"`
	OppName            string    `json:"oppName"`
	OppDate            time.Time `json:"oppDate"`
	Location           string    `json:"location"`
	Image              string    `json:"image,omitempty"`
	Description        string    `json:"description,omitempty"`
	MembershipRequired bool      `json:"membershipRequired"`
}

// PushChapter announces a created chapter.
func (s *Synchronizer) PushChapter(ctx context.Context, p ChapterPayload) Result {
	return s.post(ctx, chapterReceivePath, p)
}

// DeleteChapter tells the portal to drop a chapter.
func (s *Synchronizer) DeleteChapter(ctx context.Context, chapterID string) Result {
	return s.post(ctx, chapterDeletePath, map[string]string{"hmrsChapterId": chapterID})
}

// PushEvent announces a created event.
func (s *Synchronizer) PushEvent(ctx context.Context, p EventPayload) Result {
	return s.post(ctx, eventReceivePath, p)
}

// DeleteEvent tells the portal to drop an event. The owning chapter ID is
// included so the portal can clean up its own reference list.
func (s *Synchronizer) DeleteEvent(ctx context.Context, eventID, chapterID string) Result {
	return s.post(ctx, eventDeletePath, map[string]string{
		"hmrsEventId":   eventID,
		"hmrsChapterId": chapterID,
	})
}

// PushMemberRole announces a chapter member's role change.
func (s *Synchronizer) PushMemberRole(ctx context.Context, p RoleChangePayload) Result {
	return s.post(ctx, memberRolePath, p)
}

// PushOpportunity announces a created opportunity.
func (s *Synchronizer) PushOpportunity(ctx context.Context, p OpportunityPayload) Result {
	return s.post(ctx, opportunityReceivePath, p)
}

func (s *Synchronizer) post(ctx context.Context, path string, payload any) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("portal sync: marshal payload", zap.String("path", path), zap.Error(err))
		return failed("encode payload: " + err.Error())
	}

	url := s.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.log.Error("portal sync: build request", zap.String("url", url), zap.Error(err))
		return failed("build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("portal sync: webhook send failed", zap.String("url", url), zap.Error(err))
		return failed(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("portal sync: portal rejected webhook",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return failed(fmt.Sprintf("portal returned status %d", resp.StatusCode))
	}

	s.log.Info("portal sync: webhook sent",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode))
	return ok
}
