package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
)

// Store is an in-memory stand-in for the relational database shared by all mock repositories.
// Transactions run one at a time and are rolled back by restoring a snapshot.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data storeData

	Profiles     *MockProfileRepository
	Projects     *MockProjectRepository
	Signups      *MockSignupRepository
	Hours        *MockHourSubmissionRepository
	EditRequests *MockEditRequestRepository

	TxCalls     int
	RolledBack  int
	LockedAdmin int

	epoch time.Time
	seq   int
}

type storeData struct {
	profiles map[string]models.Profile
	projects map[string]models.Project
	signups  map[string]models.ProjectSignup
	hours    map[string]models.HourSubmission
	edits    map[string]models.ProjectEditRequest
}

func newStoreData() storeData {
	return storeData{
		profiles: make(map[string]models.Profile),
		projects: make(map[string]models.Project),
		signups:  make(map[string]models.ProjectSignup),
		hours:    make(map[string]models.HourSubmission),
		edits:    make(map[string]models.ProjectEditRequest),
	}
}

func (d storeData) clone() storeData {
	c := newStoreData()
	for k, v := range d.profiles {
		c.profiles[k] = v
	}
	for k, v := range d.projects {
		c.projects[k] = v
	}
	for k, v := range d.signups {
		c.signups[k] = v
	}
	for k, v := range d.hours {
		c.hours[k] = v
	}
	for k, v := range d.edits {
		c.edits[k] = v
	}
	return c
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{data: newStoreData(), epoch: time.Now()}
	s.Profiles = &MockProfileRepository{s: s}
	s.Projects = &MockProjectRepository{s: s}
	s.Signups = &MockSignupRepository{s: s}
	s.Hours = &MockHourSubmissionRepository{s: s}
	s.EditRequests = &MockEditRequestRepository{s: s}
	return s
}

// Repositories returns the repository set backed by the store
func (s *Store) Repositories() *repository.Repositories {
	repos := s.bound()
	repos.Tx = s.runTx
	return repos
}

func (s *Store) bound() *repository.Repositories {
	return &repository.Repositories{
		Profile:     s.Profiles,
		Project:     s.Projects,
		Signup:      s.Signups,
		Hours:       s.Hours,
		EditRequest: s.EditRequests,
	}
}

func (s *Store) runTx(ctx context.Context, fn func(*repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.TxCalls++
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s.bound()); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.RolledBack++
		s.mu.Unlock()
		return err
	}
	return nil
}

// tick returns strictly increasing timestamps so ordering by time is deterministic.
// Callers hold s.mu.
// checkUUID fails like PostgreSQL does when a non-UUID is compared against a uuid column
func checkUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("pq: invalid input syntax for type uuid: %q", id)
	}
	return nil
}

func (s *Store) tick() time.Time {
	s.seq++
	return s.epoch.Add(time.Duration(s.seq) * time.Millisecond)
}

func (s *Store) summary(userID string) *models.ProfileSummary {
	p, ok := s.data.profiles[userID]
	if !ok {
		return nil
	}
	return &models.ProfileSummary{FullName: p.FullName, Email: p.Email}
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	s           *Store
	CreateError error
	SetRoleErr  error
	GetCalls    int

	// CreatedAfterGets makes GetByID miss this many times before a provisioned profile appears
	CreatedAfterGets int
	pending          []models.Profile
}

var _ repository.ProfileRepository = (*MockProfileRepository)(nil)

// Seed stores a profile directly
func (m *MockProfileRepository) Seed(p *models.Profile) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.s.tick()
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	m.s.data.profiles[p.ID] = *p
}

// ProvisionLater queues a profile that appears after CreatedAfterGets lookups miss,
// imitating a profile row created asynchronously by the auth server
func (m *MockProfileRepository) ProvisionLater(p models.Profile) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.pending = append(m.pending, p)
}

func (m *MockProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.s.data.profiles[p.ID]; exists {
		return repository.ErrDuplicate
	}
	now := m.s.tick()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.s.data.profiles[p.ID] = *p
	return nil
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.GetCalls++
	if len(m.pending) > 0 {
		if m.CreatedAfterGets > 0 {
			m.CreatedAfterGets--
		} else {
			for _, p := range m.pending {
				m.s.data.profiles[p.ID] = p
			}
			m.pending = nil
		}
	}
	p, ok := m.s.data.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	profiles := make([]*models.Profile, 0, len(m.s.data.profiles))
	for _, p := range m.s.data.profiles {
		p := p
		profiles = append(profiles, &p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].CreatedAt.After(profiles[j].CreatedAt) })
	return profiles, nil
}

func (m *MockProfileRepository) Count(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.data.profiles), nil
}

func (m *MockProfileRepository) CountAdmins(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, p := range m.s.data.profiles {
		if p.Role == models.RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (m *MockProfileRepository) SetRole(ctx context.Context, id string, role models.Role) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.SetRoleErr != nil {
		return false, m.SetRoleErr
	}
	p, ok := m.s.data.profiles[id]
	if !ok {
		return false, nil
	}
	p.Role = role
	p.UpdatedAt = m.s.tick()
	m.s.data.profiles[id] = p
	return true, nil
}

// LockAdminRole is a no-op beyond counting: mock transactions are already serialised
func (m *MockProfileRepository) LockAdminRole(ctx context.Context) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.LockedAdmin++
	return nil
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	s               *Store
	CreateError     error
	UpdateFieldsErr error
	UpdateStatusErr error
}

var _ repository.ProjectRepository = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) Create(ctx context.Context, p *models.Project) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.s.data.profiles[p.CreatedBy]; !ok {
		return repository.ErrMissingReference
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := m.s.tick()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := *p
	stored.Creator = nil
	m.s.data.projects[p.ID] = stored
	return nil
}

func (m *MockProjectRepository) get(id string) *models.Project {
	p, ok := m.s.data.projects[id]
	if !ok {
		return nil
	}
	p.Creator = m.s.summary(p.CreatedBy)
	return &p
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.get(id), nil
}

func (m *MockProjectRepository) filter(keep func(models.Project) bool, less func(a, b *models.Project) bool) []*models.Project {
	var projects []*models.Project
	for id, p := range m.s.data.projects {
		if keep(p) {
			projects = append(projects, m.get(id))
		}
	}
	sort.Slice(projects, func(i, j int) bool { return less(projects[i], projects[j]) })
	return projects
}

func newestFirst(a, b *models.Project) bool { return a.CreatedAt.After(b.CreatedAt) }

func (m *MockProjectRepository) ListApproved(ctx context.Context, search string) ([]*models.Project, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	term := strings.ToLower(search)
	return m.filter(func(p models.Project) bool {
		if p.Status != models.StatusApproved {
			return false
		}
		return term == "" ||
			strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Location), term)
	}, func(a, b *models.Project) bool { return a.Date < b.Date }), nil
}

func (m *MockProjectRepository) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, p := range m.s.data.projects {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockProjectRepository) ListPending(ctx context.Context) ([]*models.Project, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.filter(func(p models.Project) bool { return p.Status == models.StatusPending }, newestFirst), nil
}

func (m *MockProjectRepository) ListByCreator(ctx context.Context, userID string) ([]*models.Project, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.filter(func(p models.Project) bool { return p.CreatedBy == userID }, newestFirst), nil
}

func (m *MockProjectRepository) ListJoinedBy(ctx context.Context, userID string) ([]*models.Project, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	joined := make(map[string]bool)
	for _, s := range m.s.data.signups {
		if s.UserID == userID {
			joined[s.ProjectID] = true
		}
	}
	return m.filter(func(p models.Project) bool { return joined[p.ID] }, newestFirst), nil
}

func (m *MockProjectRepository) UpdateStatus(ctx context.Context, id string, from, to models.Status) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.UpdateStatusErr != nil {
		return false, m.UpdateStatusErr
	}
	p, ok := m.s.data.projects[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = m.s.tick()
	m.s.data.projects[id] = p
	return true, nil
}

func (m *MockProjectRepository) UpdateFields(ctx context.Context, id string, fields models.EditableFields) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.UpdateFieldsErr != nil {
		return false, m.UpdateFieldsErr
	}
	p, ok := m.s.data.projects[id]
	if !ok {
		return false, nil
	}
	p.Title = fields.Title
	p.Description = fields.Description
	p.ExpectedHours = fields.ExpectedHours
	p.Location = fields.Location
	p.Date = fields.Date
	p.ThumbnailURL = fields.ThumbnailURL
	p.UpdatedAt = m.s.tick()
	m.s.data.projects[id] = p
	return true, nil
}

// Delete removes the project and cascades to its dependents like the schema does
func (m *MockProjectRepository) Delete(ctx context.Context, id, createdBy string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.data.projects[id]
	if !ok || p.CreatedBy != createdBy {
		return false, nil
	}
	delete(m.s.data.projects, id)
	for k, s := range m.s.data.signups {
		if s.ProjectID == id {
			delete(m.s.data.signups, k)
		}
	}
	for k, h := range m.s.data.hours {
		if h.ProjectID == id {
			delete(m.s.data.hours, k)
		}
	}
	for k, e := range m.s.data.edits {
		if e.ProjectID == id {
			delete(m.s.data.edits, k)
		}
	}
	return true, nil
}

// MockSignupRepository is a mock implementation of SignupRepository
type MockSignupRepository struct {
	s *Store
}

var _ repository.SignupRepository = (*MockSignupRepository)(nil)

func signupKey(projectID, userID string) string { return projectID + "/" + userID }

func (m *MockSignupRepository) Create(ctx context.Context, signup *models.ProjectSignup) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	key := signupKey(signup.ProjectID, signup.UserID)
	if _, exists := m.s.data.signups[key]; exists {
		return repository.ErrDuplicate
	}
	if _, ok := m.s.data.projects[signup.ProjectID]; !ok {
		return repository.ErrMissingReference
	}
	if signup.ID == "" {
		signup.ID = uuid.New().String()
	}
	signup.CreatedAt = m.s.tick()
	m.s.data.signups[key] = *signup
	return nil
}

func (m *MockSignupRepository) Delete(ctx context.Context, projectID, userID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	key := signupKey(projectID, userID)
	if _, exists := m.s.data.signups[key]; !exists {
		return false, nil
	}
	delete(m.s.data.signups, key)
	return true, nil
}

func (m *MockSignupRepository) Exists(ctx context.Context, projectID, userID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, exists := m.s.data.signups[signupKey(projectID, userID)]
	return exists, nil
}

func (m *MockSignupRepository) ListByUser(ctx context.Context, userID string) ([]*models.ProjectSignup, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var signups []*models.ProjectSignup
	for _, s := range m.s.data.signups {
		if s.UserID == userID {
			s := s
			signups = append(signups, &s)
		}
	}
	sort.Slice(signups, func(i, j int) bool { return signups[i].CreatedAt.After(signups[j].CreatedAt) })
	return signups, nil
}

// MockHourSubmissionRepository is a mock implementation of HourSubmissionRepository
type MockHourSubmissionRepository struct {
	s         *Store
	ReviewErr error
}

var _ repository.HourSubmissionRepository = (*MockHourSubmissionRepository)(nil)

func (m *MockHourSubmissionRepository) Create(ctx context.Context, h *models.HourSubmission) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.data.projects[h.ProjectID]; !ok {
		return repository.ErrMissingReference
	}
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.SubmittedAt = m.s.tick()
	m.s.data.hours[h.ID] = *h
	return nil
}

func (m *MockHourSubmissionRepository) get(id string) *models.HourSubmission {
	h, ok := m.s.data.hours[id]
	if !ok {
		return nil
	}
	h.ProjectTitle = m.s.data.projects[h.ProjectID].Title
	return &h
}

func (m *MockHourSubmissionRepository) GetByID(ctx context.Context, id string) (*models.HourSubmission, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.get(id), nil
}

func (m *MockHourSubmissionRepository) filter(keep func(models.HourSubmission) bool) []*models.HourSubmission {
	var out []*models.HourSubmission
	for id, h := range m.s.data.hours {
		if keep(h) {
			out = append(out, m.get(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}

func (m *MockHourSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]*models.HourSubmission, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.filter(func(h models.HourSubmission) bool { return h.UserID == userID }), nil
}

func (m *MockHourSubmissionRepository) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, h := range m.s.data.hours {
		if h.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockHourSubmissionRepository) ListPending(ctx context.Context) ([]*models.HourSubmission, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.filter(func(h models.HourSubmission) bool { return h.Status == models.StatusPending }), nil
}

func (m *MockHourSubmissionRepository) Review(ctx context.Context, id string, to models.Status, reviewerID string, at time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.ReviewErr != nil {
		return false, m.ReviewErr
	}
	h, ok := m.s.data.hours[id]
	if !ok || h.Status != models.StatusPending {
		return false, nil
	}
	h.Status = to
	h.ReviewedBy = reviewerID
	h.ReviewedAt = &at
	m.s.data.hours[id] = h
	return true, nil
}

func (m *MockHourSubmissionRepository) SumByStatus(ctx context.Context, userID string, status models.Status) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	total := 0
	for _, h := range m.s.data.hours {
		if h.UserID == userID && h.Status == status {
			total += h.HoursCompleted
		}
	}
	return total, nil
}

func (m *MockHourSubmissionRepository) StreamApprovedTotals(ctx context.Context, callback func(*models.VolunteerHours) error) error {
	m.s.mu.Lock()
	rows := make([]*models.VolunteerHours, 0, len(m.s.data.profiles))
	for _, p := range m.s.data.profiles {
		v := &models.VolunteerHours{UserID: p.ID, Email: p.Email, FullName: p.FullName}
		for _, h := range m.s.data.hours {
			if h.UserID == p.ID && h.Status == models.StatusApproved {
				v.ApprovedHours += h.HoursCompleted
				v.Submissions++
			}
		}
		rows = append(rows, v)
	}
	m.s.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FullName != rows[j].FullName {
			return rows[i].FullName < rows[j].FullName
		}
		return rows[i].Email < rows[j].Email
	})
	for _, v := range rows {
		if err := callback(v); err != nil {
			return err
		}
	}
	return nil
}

// MockEditRequestRepository is a mock implementation of EditRequestRepository
type MockEditRequestRepository struct {
	s         *Store
	ReviewErr error
}

var _ repository.EditRequestRepository = (*MockEditRequestRepository)(nil)

func (m *MockEditRequestRepository) Create(ctx context.Context, req *models.ProjectEditRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.data.projects[req.ProjectID]; !ok {
		return repository.ErrMissingReference
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := m.s.tick()
	req.CreatedAt = now
	req.UpdatedAt = now
	m.s.data.edits[req.ID] = *req
	return nil
}

func (m *MockEditRequestRepository) get(id string) *models.ProjectEditRequest {
	e, ok := m.s.data.edits[id]
	if !ok {
		return nil
	}
	e.ProjectTitle = m.s.data.projects[e.ProjectID].Title
	return &e
}

func (m *MockEditRequestRepository) GetByID(ctx context.Context, id string) (*models.ProjectEditRequest, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.get(id), nil
}

func (m *MockEditRequestRepository) filter(keep func(models.ProjectEditRequest) bool) []*models.ProjectEditRequest {
	var out []*models.ProjectEditRequest
	for id, e := range m.s.data.edits {
		if keep(e) {
			out = append(out, m.get(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MockEditRequestRepository) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, e := range m.s.data.edits {
		if e.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockEditRequestRepository) ListPending(ctx context.Context) ([]*models.ProjectEditRequest, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.filter(func(e models.ProjectEditRequest) bool { return e.Status == models.StatusPending }), nil
}

func (m *MockEditRequestRepository) ListByUser(ctx context.Context, userID string) ([]*models.ProjectEditRequest, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.filter(func(e models.ProjectEditRequest) bool { return e.UserID == userID }), nil
}

func (m *MockEditRequestRepository) Review(ctx context.Context, id string, to models.Status, reviewerID, notes string, at time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.ReviewErr != nil {
		return false, m.ReviewErr
	}
	e, ok := m.s.data.edits[id]
	if !ok || e.Status != models.StatusPending {
		return false, nil
	}
	e.Status = to
	e.ReviewedBy = reviewerID
	e.AdminNotes = notes
	e.ReviewedAt = &at
	e.UpdatedAt = at
	m.s.data.edits[id] = e
	return true, nil
}
