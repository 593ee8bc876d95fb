// Package memory keeps the whole dataset in process. It mirrors the postgres
// repos method for method and backs tests and memory:// dev runs.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

type likeKey struct {
	from int64
	to   int64
}

type Store struct {
	mu sync.Mutex

	profiles     []model.Profile
	byTelegramID map[int64]int
	likes        map[likeKey]time.Time
	matches      []model.Match
	matchIndex   map[likeKey]struct{}
	reports      []model.Report

	rnd *rand.Rand
	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		byTelegramID: make(map[int64]int),
		likes:        make(map[likeKey]time.Time),
		matchIndex:   make(map[likeKey]struct{}),
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
		now:          time.Now,
	}
}

// SetClock replaces the time source; tests use it to age likes out of the window.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
}

func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s: s} }

func (s *Store) Feed() *FeedRepo { return &FeedRepo{s: s} }

func (s *Store) Likes() *LikeRepo { return &LikeRepo{s: s} }

func (s *Store) Matches() *MatchRepo { return &MatchRepo{s: s} }

func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

func (s *Store) Stats() *StatsRepo { return &StatsRepo{s: s} }

type ProfileRepo struct{ s *Store }

func (r *ProfileRepo) Create(_ context.Context, p model.Profile) (model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byTelegramID[p.TelegramID]; ok {
		return model.Profile{}, model.ErrProfileExists
	}
	if p.Status == "" {
		p.Status = enums.ModerationStatusPending
	}
	now := s.now().UTC()
	p.ID = int64(len(s.profiles) + 1)
	p.CreatedAt = now
	p.UpdatedAt = now

	s.byTelegramID[p.TelegramID] = len(s.profiles)
	s.profiles = append(s.profiles, p)
	return p, nil
}

func (r *ProfileRepo) GetByTelegramID(_ context.Context, telegramID int64) (model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byTelegramID[telegramID]
	if !ok {
		return model.Profile{}, model.ErrProfileNotFound
	}
	return s.profiles[idx], nil
}

func (r *ProfileRepo) SetStatus(_ context.Context, profileID int64, status enums.ModerationStatus) (model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if profileID <= 0 || profileID > int64(len(s.profiles)) {
		return model.Profile{}, model.ErrProfileNotFound
	}
	p := &s.profiles[profileID-1]
	p.Status = status
	p.UpdatedAt = s.now().UTC()
	return *p, nil
}

func (r *ProfileRepo) ListPending(_ context.Context, limit int) ([]model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pendingProfilesLocked(limit), nil
}

func (r *ProfileRepo) NextPending(_ context.Context) (model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.pendingProfilesLocked(1)
	if len(items) == 0 {
		return model.Profile{}, model.ErrProfileNotFound
	}
	return items[0], nil
}

func (s *Store) pendingProfilesLocked(limit int) []model.Profile {
	if limit <= 0 {
		limit = 100
	}
	items := make([]model.Profile, 0)
	for _, p := range s.profiles {
		if p.Status == enums.ModerationStatusPending {
			items = append(items, p)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

type FeedRepo struct{ s *Store }

func (r *FeedRepo) NextCandidate(_ context.Context, viewerID int64) (model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]model.Profile, 0)
	for _, p := range s.profiles {
		if p.Status != enums.ModerationStatusApproved || p.TelegramID == viewerID {
			continue
		}
		if _, liked := s.likes[likeKey{from: viewerID, to: p.TelegramID}]; liked {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return model.Profile{}, model.ErrNoCandidates
	}
	return candidates[s.rnd.Intn(len(candidates))], nil
}

type LikeRepo struct{ s *Store }

func (r *LikeRepo) Record(_ context.Context, req model.LikeRequest) (model.LikeOutcome, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := model.LikeOutcome{UsedBefore: s.countSinceLocked(req.FromUserID, req.Since)}
	if req.Limit > 0 && out.UsedBefore >= req.Limit {
		return out, model.ErrLikeLimit
	}

	key := likeKey{from: req.FromUserID, to: req.ToUserID}
	if _, ok := s.likes[key]; !ok {
		s.likes[key] = s.now().UTC()
		out.Inserted = true
	}

	if _, ok := s.likes[likeKey{from: req.ToUserID, to: req.FromUserID}]; !ok {
		return out, nil
	}
	out.Mutual = true

	a, b := model.CanonicalPair(req.FromUserID, req.ToUserID)
	if _, ok := s.matchIndex[likeKey{from: a, to: b}]; ok {
		return out, nil
	}
	s.matchIndex[likeKey{from: a, to: b}] = struct{}{}
	s.matches = append(s.matches, model.Match{
		ID:        int64(len(s.matches) + 1),
		User1ID:   a,
		User2ID:   b,
		CreatedAt: s.now().UTC(),
	})
	out.MatchCreated = true
	return out, nil
}

func (r *LikeRepo) CountSince(_ context.Context, fromUserID int64, since time.Time) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.countSinceLocked(fromUserID, since), nil
}

// Exists reports whether the directional like is stored.
func (r *LikeRepo) Exists(fromUserID, toUserID int64) bool {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.likes[likeKey{from: fromUserID, to: toUserID}]
	return ok
}

func (s *Store) countSinceLocked(fromUserID int64, since time.Time) int {
	count := 0
	for key, at := range s.likes {
		if key.from == fromUserID && at.After(since) {
			count++
		}
	}
	return count
}

type MatchRepo struct{ s *Store }

func (r *MatchRepo) ListProfiles(_ context.Context, userID int64, limit int) ([]model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	items := make([]model.Profile, 0)
	for i := len(s.matches) - 1; i >= 0 && len(items) < limit; i-- {
		m := s.matches[i]
		if m.User1ID != userID && m.User2ID != userID {
			continue
		}
		if idx, ok := s.byTelegramID[m.Other(userID)]; ok {
			items = append(items, s.profiles[idx])
		}
	}
	return items, nil
}

// Count returns how many distinct matches exist.
func (r *MatchRepo) Count() int {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

type ReportRepo struct{ s *Store }

func (r *ReportRepo) Create(_ context.Context, reporterID, reportedUserID int64, reason string) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	report := model.Report{
		ID:             int64(len(s.reports) + 1),
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		Reason:         strings.TrimSpace(reason),
		Status:         enums.ReportStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.reports = append(s.reports, report)
	return report.ID, nil
}

func (r *ReportRepo) SetStatus(_ context.Context, reportID int64, status enums.ReportStatus) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if reportID <= 0 || reportID > int64(len(s.reports)) {
		return model.ErrReportNotFound
	}
	report := &s.reports[reportID-1]
	report.Status = status
	report.UpdatedAt = s.now().UTC()
	return nil
}

func (r *ReportRepo) ListPending(_ context.Context, limit int) ([]model.ReportView, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pendingReportsLocked(limit), nil
}

func (r *ReportRepo) NextPending(_ context.Context) (model.ReportView, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.pendingReportsLocked(1)
	if len(items) == 0 {
		return model.ReportView{}, model.ErrReportNotFound
	}
	return items[0], nil
}

func (s *Store) pendingReportsLocked(limit int) []model.ReportView {
	if limit <= 0 {
		limit = 100
	}
	items := make([]model.ReportView, 0)
	for _, report := range s.reports {
		if report.Status != enums.ReportStatusPending {
			continue
		}
		items = append(items, model.ReportView{
			Report:       report,
			ReporterName: s.nameLocked(report.ReporterID),
			ReportedName: s.nameLocked(report.ReportedUserID),
		})
		if len(items) == limit {
			break
		}
	}
	return items
}

func (s *Store) nameLocked(telegramID int64) string {
	if idx, ok := s.byTelegramID[telegramID]; ok {
		return s.profiles[idx].Name
	}
	return ""
}

type StatsRepo struct{ s *Store }

func (r *StatsRepo) Snapshot(_ context.Context, since time.Time) (model.Stats, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var st model.Stats
	st.TotalProfiles = int64(len(s.profiles))
	for _, p := range s.profiles {
		switch p.Status {
		case enums.ModerationStatusApproved:
			st.Approved++
		case enums.ModerationStatusPending:
			st.Pending++
		case enums.ModerationStatusRejected:
			st.Rejected++
		}
	}
	st.Matches = int64(len(s.matches))
	for _, report := range s.reports {
		if report.Status == enums.ReportStatusPending {
			st.PendingReports++
		}
	}
	for _, at := range s.likes {
		if at.After(since) {
			st.LikesLast24h++
		}
	}
	return st, nil
}
