package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"activity-portal/backend/internal/model"
	"activity-portal/backend/internal/repository"
	apperrors "activity-portal/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.StudentID == user.StudentID || strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = "user-" + user.StudentID
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStudentID(_ context.Context, studentID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.StudentID == studentID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) CreateBatch(ctx context.Context, users []*model.User) error {
	for _, u := range users {
		if err := m.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockUserRepo) FindExisting(_ context.Context, studentIDs, emails []string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		ids[id] = true
	}
	mails := make(map[string]bool, len(emails))
	for _, e := range emails {
		mails[strings.ToLower(e)] = true
	}
	var out []model.User
	for _, u := range m.users {
		if ids[u.StudentID] || mails[strings.ToLower(u.Email)] {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Program != "" && u.Program != filter.Program {
			continue
		}
		if filter.EnrollmentYear != "" && u.EnrollmentYear != filter.EnrollmentYear {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(u.Name, filter.Keyword) &&
			!strings.Contains(u.StudentID, filter.Keyword) &&
			!strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StudentID < all[j].StudentID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

// ── Mock AcademicYearRepository ──

type mockAcademicYearRepo struct {
	mu    sync.Mutex
	years map[string]*model.AcademicYear
}

func newMockAcademicYearRepo() *mockAcademicYearRepo {
	return &mockAcademicYearRepo{years: make(map[string]*model.AcademicYear)}
}

func (m *mockAcademicYearRepo) Create(_ context.Context, year *model.AcademicYear) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, y := range m.years {
		if y.Year == year.Year {
			return gorm.ErrDuplicatedKey
		}
	}
	if year.AcademicYearID == "" {
		year.AcademicYearID = "ay-" + year.Year
	}
	cp := *year
	m.years[year.AcademicYearID] = &cp
	return nil
}

func (m *mockAcademicYearRepo) GetByID(_ context.Context, id string) (*model.AcademicYear, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if y, ok := m.years[id]; ok {
		cp := *y
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) GetByYear(_ context.Context, year string) (*model.AcademicYear, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, y := range m.years {
		if y.Year == year {
			cp := *y
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) GetActive(_ context.Context) (*model.AcademicYear, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, y := range m.years {
		if y.IsActive {
			cp := *y
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) List(_ context.Context) ([]model.AcademicYear, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AcademicYear
	for _, y := range m.years {
		result = append(result, *y)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year > result[j].Year })
	return result, nil
}

func (m *mockAcademicYearRepo) Update(_ context.Context, year *model.AcademicYear) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *year
	m.years[year.AcademicYearID] = &cp
	return nil
}

func (m *mockAcademicYearRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.years, id)
	return nil
}

func (m *mockAcademicYearRepo) ClearActive(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, y := range m.years {
		y.IsActive = false
	}
	return nil
}

func (m *mockAcademicYearRepo) activeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, y := range m.years {
		if y.IsActive {
			n++
		}
	}
	return n
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct {
	mu         sync.Mutex
	seq        int
	activities map[string]*model.Activity
	deleted    map[string]bool
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{
		activities: make(map[string]*model.Activity),
		deleted:    make(map[string]bool),
	}
}

func (m *mockActivityRepo) Create(_ context.Context, activity *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if activity.ActivityID == "" {
		m.seq++
		activity.ActivityID = fmt.Sprintf("act-%d", m.seq)
	}
	cp := *activity
	m.activities[activity.ActivityID] = &cp
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id string) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.activities[id]; ok && !m.deleted[id] {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) GetByIDWithDeleted(_ context.Context, id string) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.activities[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) GetBySlug(_ context.Context, slug string) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.activities {
		if a.PublicSlug == slug && !m.deleted[id] {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) Update(_ context.Context, activity *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *activity
	m.activities[activity.ActivityID] = &cp
	return nil
}

func (m *mockActivityRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted[id] = true
	return nil
}

func (m *mockActivityRepo) List(_ context.Context, filter repository.ActivityFilter, offset, limit int) ([]model.Activity, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Activity
	for id, a := range m.activities {
		if m.deleted[id] {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.AcademicYear != "" && (a.AcademicYear == nil || *a.AcademicYear != filter.AcademicYear) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(filter.Keyword)) {
			continue
		}
		if filter.CreatedBy != "" && (a.CreatedBy == nil || *a.CreatedBy != filter.CreatedBy) {
			continue
		}
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.After(all[j].StartDate) })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockActivityRepo) ListStartingBetween(_ context.Context, status string, from, to time.Time) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Activity
	for id, a := range m.activities {
		if m.deleted[id] || a.Status != status {
			continue
		}
		if a.StartDate.Before(from) || a.StartDate.After(to) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockActivityRepo) CountByAcademicYearID(_ context.Context, academicYearID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, a := range m.activities {
		if !m.deleted[id] && a.AcademicYearID != nil && *a.AcademicYearID == academicYearID {
			n++
		}
	}
	return n, nil
}

// academicYearOf 供流水 mock 按学年过滤（软删除的活动同样参与统计）
func (m *mockActivityRepo) academicYearOf(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.activities[id]; ok && a.AcademicYear != nil {
		return *a.AcademicYear
	}
	return ""
}

func (m *mockActivityRepo) peek(id string) *model.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.activities[id]; ok {
		cp := *a
		return &cp
	}
	return nil
}

// ── Mock SerialRepository ──

type mockSerialRepo struct {
	mu      sync.Mutex
	seq     int
	serials map[string]*model.Serial
}

func newMockSerialRepo() *mockSerialRepo {
	return &mockSerialRepo{serials: make(map[string]*model.Serial)}
}

func (m *mockSerialRepo) BatchCreate(_ context.Context, serials []model.Serial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range serials {
		for _, s := range m.serials {
			if strings.EqualFold(s.Code, serials[i].Code) {
				return gorm.ErrDuplicatedKey
			}
		}
		if serials[i].SerialID == "" {
			m.seq++
			serials[i].SerialID = fmt.Sprintf("serial-%d", m.seq)
		}
		cp := serials[i]
		m.serials[cp.SerialID] = &cp
	}
	return nil
}

func (m *mockSerialRepo) GetByID(_ context.Context, id string) (*model.Serial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.serials[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSerialRepo) GetByCodeForUpdate(_ context.Context, code string) (*model.Serial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.serials {
		if strings.EqualFold(s.Code, code) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSerialRepo) ListByActivity(_ context.Context, activityID string) ([]model.Serial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Serial
	for _, s := range m.serials {
		if s.ActivityID == activityID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockSerialRepo) ExistingCodes(_ context.Context, codes []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []string
	for _, c := range codes {
		for _, s := range m.serials {
			if strings.EqualFold(s.Code, c) {
				result = append(result, strings.ToUpper(c))
				break
			}
		}
	}
	return result, nil
}

func (m *mockSerialRepo) MarkRedeemed(_ context.Context, serialID, userID string, redeemedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.serials[serialID]
	if !ok || !s.IsRedeemable() {
		return 0, nil
	}
	s.Status = model.SerialStatusRedeemed
	s.UserID = &userID
	s.RedeemedAt = &redeemedAt
	return 1, nil
}

func (m *mockSerialRepo) UpdateStatus(_ context.Context, serialID string, from []string, to string, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.serials[serialID]
	if !ok {
		return 0, nil
	}
	for _, f := range from {
		if s.Status == f {
			s.Status = to
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockSerialRepo) put(s *model.Serial) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.serials[s.SerialID] = &cp
}

func (m *mockSerialRepo) peek(id string) *model.Serial {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.serials[id]; ok {
		cp := *s
		return &cp
	}
	return nil
}

// ── Mock SerialHistoryRepository ──

type mockSerialHistoryRepo struct {
	mu         sync.Mutex
	seq        int
	histories  map[string]*model.SerialHistory
	activities *mockActivityRepo
	serials    *mockSerialRepo

	markReviewedCalls int
}

func newMockSerialHistoryRepo(activities *mockActivityRepo, serials *mockSerialRepo) *mockSerialHistoryRepo {
	return &mockSerialHistoryRepo{
		histories:  make(map[string]*model.SerialHistory),
		activities: activities,
		serials:    serials,
	}
}

func (m *mockSerialHistoryRepo) Create(_ context.Context, history *model.SerialHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.histories {
		if h.UserID == history.UserID && h.SerialID == history.SerialID {
			return gorm.ErrDuplicatedKey
		}
	}
	if history.SerialHistoryID == "" {
		m.seq++
		history.SerialHistoryID = fmt.Sprintf("history-%d", m.seq)
	}
	cp := *history
	m.histories[history.SerialHistoryID] = &cp
	return nil
}

func (m *mockSerialHistoryRepo) GetByID(_ context.Context, id string) (*model.SerialHistory, error) {
	m.mu.Lock()
	h, ok := m.histories[id]
	var cp model.SerialHistory
	if ok {
		cp = *h
	}
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp.Activity = m.activities.peek(cp.ActivityID)
	return &cp, nil
}

func (m *mockSerialHistoryRepo) GetByIDForUpdate(_ context.Context, id string) (*model.SerialHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.histories[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSerialHistoryRepo) GetByUserAndSerial(_ context.Context, userID, serialID string) (*model.SerialHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.histories {
		if h.UserID == userID && h.SerialID == serialID {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSerialHistoryRepo) MarkReviewed(_ context.Context, id string, hours int, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markReviewedCalls++
	h, ok := m.histories[id]
	if !ok || h.IsReviewed {
		return 0, nil
	}
	h.IsReviewed = true
	h.HoursEarned = hours
	return 1, nil
}

func (m *mockSerialHistoryRepo) UpdateHours(_ context.Context, id string, hours int, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.histories[id]
	if !ok || !h.IsReviewed {
		return apperrors.ErrConcurrentUpdate
	}
	h.HoursEarned = hours
	return nil
}

func (m *mockSerialHistoryRepo) SumHoursByUser(ctx context.Context, userID, academicYear string) (int, error) {
	list, _, err := m.ListByUser(ctx, userID, academicYear, 0, 0)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, h := range list {
		sum += h.HoursEarned
	}
	return sum, nil
}

func (m *mockSerialHistoryRepo) ListByUser(_ context.Context, userID, academicYear string, offset, limit int) ([]model.SerialHistory, int64, error) {
	m.mu.Lock()
	var all []model.SerialHistory
	for _, h := range m.histories {
		if h.UserID == userID {
			all = append(all, *h)
		}
	}
	m.mu.Unlock()

	if academicYear != "" {
		filtered := all[:0]
		for _, h := range all {
			if m.activities.academicYearOf(h.ActivityID) == academicYear {
				filtered = append(filtered, h)
			}
		}
		all = filtered
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RedeemedAt.After(all[j].RedeemedAt) })

	total := int64(len(all))
	if limit > 0 {
		all = paginate(all, offset, limit)
	}
	for i := range all {
		all[i].Activity = m.activities.peek(all[i].ActivityID)
		all[i].Serial = m.serials.peek(all[i].SerialID)
	}
	return all, total, nil
}

func (m *mockSerialHistoryRepo) ListPendingReviewByUser(ctx context.Context, userID string) ([]model.SerialHistory, error) {
	all, _, err := m.ListByUser(ctx, userID, "", 0, 0)
	if err != nil {
		return nil, err
	}
	var result []model.SerialHistory
	for _, h := range all {
		if !h.IsReviewed {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *mockSerialHistoryRepo) ListByActivity(_ context.Context, activityID string) ([]model.SerialHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.SerialHistory
	for _, h := range m.histories {
		if h.ActivityID == activityID {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RedeemedAt.Before(result[j].RedeemedAt) })
	return result, nil
}

func (m *mockSerialHistoryRepo) put(h *model.SerialHistory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *h
	m.histories[h.SerialHistoryID] = &cp
}

func (m *mockSerialHistoryRepo) peek(id string) *model.SerialHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.histories[id]; ok {
		cp := *h
		return &cp
	}
	return nil
}

func (m *mockSerialHistoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.histories)
}

// ── Mock ActivityReviewRepository ──

type mockActivityReviewRepo struct {
	mu      sync.Mutex
	seq     int
	reviews map[string]*model.ActivityReview // key: serial_history_id
}

func newMockActivityReviewRepo() *mockActivityReviewRepo {
	return &mockActivityReviewRepo{reviews: make(map[string]*model.ActivityReview)}
}

func (m *mockActivityReviewRepo) Create(_ context.Context, review *model.ActivityReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[review.SerialHistoryID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if review.ActivityReviewID == "" {
		m.seq++
		review.ActivityReviewID = fmt.Sprintf("review-%d", m.seq)
	}
	cp := *review
	m.reviews[review.SerialHistoryID] = &cp
	return nil
}

func (m *mockActivityReviewRepo) GetBySerialHistoryID(_ context.Context, serialHistoryID string) (*model.ActivityReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reviews[serialHistoryID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityReviewRepo) ListByActivity(_ context.Context, activityID string) ([]model.ActivityReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ActivityReview
	for _, r := range m.reviews {
		if r.ActivityID == activityID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockActivityReviewRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}

// ── Mock HoursAdjustmentRepository ──

type mockHoursAdjustmentRepo struct {
	mu          sync.Mutex
	seq         int
	adjustments []model.HoursAdjustment
}

func newMockHoursAdjustmentRepo() *mockHoursAdjustmentRepo {
	return &mockHoursAdjustmentRepo{}
}

func (m *mockHoursAdjustmentRepo) Create(_ context.Context, adj *model.HoursAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if adj.HoursAdjustmentID == "" {
		m.seq++
		adj.HoursAdjustmentID = fmt.Sprintf("adj-%d", m.seq)
	}
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now()
	}
	m.adjustments = append(m.adjustments, *adj)
	return nil
}

func (m *mockHoursAdjustmentRepo) ListBySerialHistory(_ context.Context, serialHistoryID string) ([]model.HoursAdjustment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.HoursAdjustment
	for _, a := range m.adjustments {
		if a.SerialHistoryID == serialHistoryID {
			result = append(result, a)
		}
	}
	return result, nil
}

// ── Mock SystemSettingRepository ──

type mockSystemSettingRepo struct {
	mu      sync.Mutex
	setting *model.SystemSetting
}

func newMockSystemSettingRepo() *mockSystemSettingRepo {
	return &mockSystemSettingRepo{}
}

func (m *mockSystemSettingRepo) Get(_ context.Context) (*model.SystemSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setting == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.setting
	return &cp, nil
}

func (m *mockSystemSettingRepo) Update(_ context.Context, setting *model.SystemSetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *setting
	cp.Singleton = true
	m.setting = &cp
	return nil
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	members     []repository.MemberHoursRow
	activities  []repository.ActivitySummaryRow
	evaluations []repository.EvaluationRow
	suggestions []repository.SuggestionRow

	lastMemberFilter   repository.MemberReportFilter
	lastActivityFilter repository.ActivityReportFilter
}

func (m *mockReportRepo) MemberHours(_ context.Context, filter repository.MemberReportFilter) ([]repository.MemberHoursRow, error) {
	m.lastMemberFilter = filter
	return m.members, nil
}

func (m *mockReportRepo) ActivitySummary(_ context.Context, filter repository.ActivityReportFilter) ([]repository.ActivitySummaryRow, error) {
	m.lastActivityFilter = filter
	return m.activities, nil
}

func (m *mockReportRepo) Evaluations(_ context.Context, filter repository.ActivityReportFilter) ([]repository.EvaluationRow, error) {
	m.lastActivityFilter = filter
	return m.evaluations, nil
}

func (m *mockReportRepo) Suggestions(_ context.Context, filter repository.ActivityReportFilter) ([]repository.SuggestionRow, error) {
	return m.suggestions, nil
}

// ── 测试辅助 ──

// mockRepos 聚合全部 mock 仓储，测试可直接操作底层数据
type mockRepos struct {
	users       *mockUserRepo
	years       *mockAcademicYearRepo
	activities  *mockActivityRepo
	serials     *mockSerialRepo
	histories   *mockSerialHistoryRepo
	reviews     *mockActivityReviewRepo
	adjustments *mockHoursAdjustmentRepo
	settings    *mockSystemSettingRepo
	reports     *mockReportRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:       newMockUserRepo(),
		years:       newMockAcademicYearRepo(),
		activities:  newMockActivityRepo(),
		serials:     newMockSerialRepo(),
		reviews:     newMockActivityReviewRepo(),
		adjustments: newMockHoursAdjustmentRepo(),
		settings:    newMockSystemSettingRepo(),
		reports:     &mockReportRepo{},
	}
	m.histories = newMockSerialHistoryRepo(m.activities, m.serials)

	repo := &repository.Repository{
		User:            m.users,
		AcademicYear:    m.years,
		Activity:        m.activities,
		Serial:          m.serials,
		SerialHistory:   m.histories,
		ActivityReview:  m.reviews,
		HoursAdjustment: m.adjustments,
		SystemSetting:   m.settings,
		Report:          m.reports,
	}
	return repo, m
}

// seedActivity 写入一个 OPEN 活动
func (m *mockRepos) seedActivity(id, title string, hours int, academicYear string) *model.Activity {
	a := &model.Activity{
		ActivityID:   id,
		Title:        title,
		StartDate:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		HoursAwarded: hours,
		PublicSlug:   id,
		Status:       model.ActivityStatusOpen,
	}
	if academicYear != "" {
		a.AcademicYear = &academicYear
	}
	_ = m.activities.Create(context.Background(), a)
	return a
}

// seedSerial 写入一个指定状态的 Serial code
func (m *mockRepos) seedSerial(id, code, activityID, status string) *model.Serial {
	s := &model.Serial{
		SerialID:   id,
		Code:       code,
		Status:     status,
		ActivityID: activityID,
	}
	m.serials.put(s)
	return s
}

// seedHistory 写入一条兑换流水
func (m *mockRepos) seedHistory(id, userID, serialID, activityID string, hours int, reviewed bool, redeemedAt time.Time) *model.SerialHistory {
	h := &model.SerialHistory{
		SerialHistoryID: id,
		UserID:          userID,
		SerialID:        serialID,
		ActivityID:      activityID,
		HoursEarned:     hours,
		RedeemedAt:      redeemedAt,
		IsReviewed:      reviewed,
	}
	m.histories.put(h)
	return h
}

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
