package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
)

type memTables struct {
	seq map[string]uint

	patients        map[uint]models.Patient
	practitioners   map[uint]models.Practitioner
	hours           map[uint]models.PractitionerHours
	treatments      map[uint]models.TreatmentType
	programs        map[uint]models.TreatmentProgram
	patientPrograms map[uint]models.PatientProgram
	sessions        map[uint]models.Session
	reschedules     map[uint]models.SessionReschedule
	activities      []models.SessionActivity
	notifications   map[uint]models.Notification
}

func newMemTables() *memTables {
	return &memTables{
		seq:             map[string]uint{},
		patients:        map[uint]models.Patient{},
		practitioners:   map[uint]models.Practitioner{},
		hours:           map[uint]models.PractitionerHours{},
		treatments:      map[uint]models.TreatmentType{},
		programs:        map[uint]models.TreatmentProgram{},
		patientPrograms: map[uint]models.PatientProgram{},
		sessions:        map[uint]models.Session{},
		reschedules:     map[uint]models.SessionReschedule{},
		notifications:   map[uint]models.Notification{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t *memTables) clone() *memTables {
	return &memTables{
		seq:             cloneMap(t.seq),
		patients:        cloneMap(t.patients),
		practitioners:   cloneMap(t.practitioners),
		hours:           cloneMap(t.hours),
		treatments:      cloneMap(t.treatments),
		programs:        cloneMap(t.programs),
		patientPrograms: cloneMap(t.patientPrograms),
		sessions:        cloneMap(t.sessions),
		reschedules:     cloneMap(t.reschedules),
		activities:      append([]models.SessionActivity(nil), t.activities...),
		notifications:   cloneMap(t.notifications),
	}
}

func (t *memTables) next(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

// MemoryStore keeps everything in process. Transactions run one at a time on
// a copy of the tables and are swapped in on success, which makes them fully
// serialisable. Used by tests and by `serve` with STORE=memory.
type MemoryStore struct {
	mu *sync.Mutex // nil inside a transaction
	t  *memTables
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, t: newMemTables()}
}

func (s *MemoryStore) guard() func() {
	if s.mu == nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if s.mu == nil {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryStore{t: s.t.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return httperr.ErrInternal("transaction_failed", err)
	}

	s.t = tx.t
	return nil
}

// LockPractitionerDays is a no-op: transactions are already exclusive.
func (s *MemoryStore) LockPractitionerDays(context.Context, uint, []time.Time) error {
	return nil
}

// --------------------------------------------------
// Registry
// --------------------------------------------------

func (s *MemoryStore) CreatePatient(_ context.Context, p *models.Patient) error {
	defer s.guard()()
	for _, existing := range s.t.patients {
		if existing.UserID == p.UserID {
			return httperr.ErrConflict("patient_create_duplicate")
		}
	}
	p.ID = s.t.next("patients")
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.t.patients[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	defer s.guard()()
	p, ok := s.t.patients[id]
	if !ok {
		return nil, httperr.ErrNotFound("patient_not_found")
	}
	return &p, nil
}

func (s *MemoryStore) CreatePractitioner(_ context.Context, p *models.Practitioner) error {
	defer s.guard()()
	for _, existing := range s.t.practitioners {
		if existing.UserID == p.UserID {
			return httperr.ErrConflict("practitioner_create_duplicate")
		}
	}
	p.ID = s.t.next("practitioners")
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.t.practitioners[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetPractitioner(_ context.Context, id uint) (*models.Practitioner, error) {
	defer s.guard()()
	p, ok := s.t.practitioners[id]
	if !ok {
		return nil, httperr.ErrNotFound("practitioner_not_found")
	}
	return &p, nil
}

func (s *MemoryStore) GetPractitionerByUserID(_ context.Context, userID uint) (*models.Practitioner, error) {
	defer s.guard()()
	for _, p := range s.t.practitioners {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, httperr.ErrNotFound("practitioner_not_found")
}

func (s *MemoryStore) UpdatePractitioner(_ context.Context, p *models.Practitioner) error {
	defer s.guard()()
	if _, ok := s.t.practitioners[p.ID]; !ok {
		return httperr.ErrNotFound("practitioner_not_found")
	}
	p.UpdatedAt = time.Now()
	s.t.practitioners[p.ID] = *p
	return nil
}

func (s *MemoryStore) ListPractitionerHours(_ context.Context, practitionerID uint) ([]models.PractitionerHours, error) {
	defer s.guard()()
	var out []models.PractitionerHours
	for _, wh := range s.t.hours {
		if wh.PractitionerID == practitionerID {
			out = append(out, wh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (s *MemoryStore) GetPractitionerHours(_ context.Context, practitionerID uint, weekday int) (*models.PractitionerHours, error) {
	defer s.guard()()
	for _, wh := range s.t.hours {
		if wh.PractitionerID == practitionerID && wh.Weekday == weekday {
			return &wh, nil
		}
	}
	return nil, httperr.ErrNotFound("hours_not_found")
}

func (s *MemoryStore) ReplacePractitionerHours(_ context.Context, practitionerID uint, hours []models.PractitionerHours) error {
	defer s.guard()()
	for id, wh := range s.t.hours {
		if wh.PractitionerID == practitionerID {
			delete(s.t.hours, id)
		}
	}
	seen := map[int]bool{}
	for i := range hours {
		if seen[hours[i].Weekday] {
			return httperr.ErrConflict("hours_create_duplicate")
		}
		seen[hours[i].Weekday] = true

		hours[i].ID = s.t.next("hours")
		hours[i].PractitionerID = practitionerID
		hours[i].CreatedAt = time.Now()
		hours[i].UpdatedAt = hours[i].CreatedAt
		s.t.hours[hours[i].ID] = hours[i]
	}
	return nil
}

func (s *MemoryStore) CreateTreatment(_ context.Context, t *models.TreatmentType) error {
	defer s.guard()()
	t.ID = s.t.next("treatments")
	t.CreatedAt = time.Now()
	s.t.treatments[t.ID] = *t
	return nil
}

func (s *MemoryStore) GetTreatment(_ context.Context, id uint) (*models.TreatmentType, error) {
	defer s.guard()()
	t, ok := s.t.treatments[id]
	if !ok {
		return nil, httperr.ErrNotFound("treatment_not_found")
	}
	return &t, nil
}

func (s *MemoryStore) CreateTreatmentProgram(_ context.Context, p *models.TreatmentProgram) error {
	defer s.guard()()
	p.ID = s.t.next("programs")
	p.CreatedAt = time.Now()
	for i := range p.Treatments {
		p.Treatments[i].ID = s.t.next("program_treatments")
		p.Treatments[i].ProgramID = p.ID
	}
	sort.Slice(p.Treatments, func(i, j int) bool {
		return p.Treatments[i].SessionOrder < p.Treatments[j].SessionOrder
	})
	stored := *p
	stored.Treatments = append([]models.ProgramTreatment(nil), p.Treatments...)
	s.t.programs[p.ID] = stored
	return nil
}

func (s *MemoryStore) GetTreatmentProgram(_ context.Context, id uint) (*models.TreatmentProgram, error) {
	defer s.guard()()
	p, ok := s.t.programs[id]
	if !ok {
		return nil, httperr.ErrNotFound("treatment_program_not_found")
	}
	p.Treatments = append([]models.ProgramTreatment(nil), p.Treatments...)
	return &p, nil
}

func (s *MemoryStore) UpdateTreatmentProgram(_ context.Context, p *models.TreatmentProgram) error {
	defer s.guard()()
	existing, ok := s.t.programs[p.ID]
	if !ok {
		return httperr.ErrNotFound("treatment_program_not_found")
	}
	stored := *p
	stored.Treatments = existing.Treatments
	s.t.programs[p.ID] = stored
	return nil
}

func (s *MemoryStore) CountSessionsForTreatmentProgram(_ context.Context, treatmentProgramID uint) (int64, error) {
	defer s.guard()()
	var n int64
	for _, sess := range s.t.sessions {
		if sess.PatientProgramID == nil {
			continue
		}
		if pp, ok := s.t.patientPrograms[*sess.PatientProgramID]; ok && pp.TreatmentProgramID == treatmentProgramID {
			n++
		}
	}
	return n, nil
}

// --------------------------------------------------
// PatientProgram
// --------------------------------------------------

func (s *MemoryStore) CreatePatientProgram(_ context.Context, pp *models.PatientProgram) error {
	defer s.guard()()
	pp.ID = s.t.next("patient_programs")
	if pp.Status == "" {
		pp.Status = string(domain.ProgramActive)
	}
	pp.CreatedAt = time.Now()
	pp.UpdatedAt = pp.CreatedAt
	s.t.patientPrograms[pp.ID] = *pp
	return nil
}

func (s *MemoryStore) GetPatientProgram(_ context.Context, id uint) (*models.PatientProgram, error) {
	defer s.guard()()
	pp, ok := s.t.patientPrograms[id]
	if !ok {
		return nil, httperr.ErrNotFound("patient_program_not_found")
	}
	return &pp, nil
}

func (s *MemoryStore) GetPatientProgramForUpdate(ctx context.Context, id uint) (*models.PatientProgram, error) {
	return s.GetPatientProgram(ctx, id)
}

func (s *MemoryStore) UpdatePatientProgram(_ context.Context, pp *models.PatientProgram) error {
	defer s.guard()()
	if _, ok := s.t.patientPrograms[pp.ID]; !ok {
		return httperr.ErrNotFound("patient_program_not_found")
	}
	pp.UpdatedAt = time.Now()
	s.t.patientPrograms[pp.ID] = *pp
	return nil
}

func (s *MemoryStore) CountProgramSessions(_ context.Context, patientProgramID uint) (int64, int64, error) {
	defer s.guard()()
	var completed, total int64
	for _, sess := range s.t.sessions {
		if sess.PatientProgramID == nil || *sess.PatientProgramID != patientProgramID {
			continue
		}
		total++
		if sess.Status == string(domain.StatusCompleted) {
			completed++
		}
	}
	return completed, total, nil
}

// --------------------------------------------------
// Session
// --------------------------------------------------

// overlapsActive mirrors the exclusion constraint of the Postgres schema.
func (t *memTables) overlapsActive(sess models.Session) bool {
	if !domain.Status(sess.Status).IsActive() {
		return false
	}
	iv := domain.IntervalOf(&sess)
	for _, other := range t.sessions {
		if other.ID == sess.ID || other.PractitionerID != sess.PractitionerID {
			continue
		}
		if domain.Status(other.Status).IsActive() && iv.Overlaps(domain.IntervalOf(&other)) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateSession(_ context.Context, sess *models.Session) error {
	defer s.guard()()
	if sess.Status == "" {
		sess.Status = string(domain.InitialStatus())
	}
	if s.t.overlapsActive(*sess) {
		return httperr.ErrConflict("time_conflict")
	}
	sess.ID = s.t.next("sessions")
	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt
	s.t.sessions[sess.ID] = *sess
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id uint) (*models.Session, error) {
	defer s.guard()()
	sess, ok := s.t.sessions[id]
	if !ok {
		return nil, httperr.ErrNotFound("session_not_found")
	}
	return &sess, nil
}

func (s *MemoryStore) GetSessionForUpdate(ctx context.Context, id uint) (*models.Session, error) {
	return s.GetSession(ctx, id)
}

func (s *MemoryStore) UpdateSession(_ context.Context, sess *models.Session) error {
	defer s.guard()()
	if _, ok := s.t.sessions[sess.ID]; !ok {
		return httperr.ErrNotFound("session_not_found")
	}
	if s.t.overlapsActive(*sess) {
		return httperr.ErrConflict("time_conflict")
	}
	sess.UpdatedAt = time.Now()
	s.t.sessions[sess.ID] = *sess
	return nil
}

func sortByStart(out []models.Session) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
}

func (s *MemoryStore) ListActiveSessionsOverlapping(
	_ context.Context,
	practitionerID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) ([]models.Session, error) {

	defer s.guard()()
	want := domain.Interval{Start: start, End: end}

	var out []models.Session
	for _, sess := range s.t.sessions {
		if sess.PractitionerID != practitionerID || sess.ID == excludeID {
			continue
		}
		if !domain.Status(sess.Status).IsActive() {
			continue
		}
		if want.Overlaps(domain.IntervalOf(&sess)) {
			out = append(out, sess)
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *MemoryStore) ListSessionsForPeriod(
	_ context.Context,
	practitionerID uint,
	start time.Time,
	end time.Time,
) ([]models.Session, error) {

	defer s.guard()()
	var out []models.Session
	for _, sess := range s.t.sessions {
		if sess.PractitionerID != practitionerID {
			continue
		}
		if !sess.StartTime.Before(start) && sess.StartTime.Before(end) {
			out = append(out, sess)
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *MemoryStore) ListOverdueSessions(_ context.Context, endedBefore time.Time, afterID uint, limit int) ([]models.Session, error) {
	defer s.guard()()
	var out []models.Session
	for _, sess := range s.t.sessions {
		if sess.ID <= afterID {
			continue
		}
		st := domain.Status(sess.Status)
		if st != domain.StatusScheduled && st != domain.StatusConfirmed {
			continue
		}
		if sess.EndTime.Before(endedBefore) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --------------------------------------------------
// Reschedule
// --------------------------------------------------

func (s *MemoryStore) CreateReschedule(_ context.Context, rs *models.SessionReschedule) error {
	defer s.guard()()
	if rs.Status == "" {
		rs.Status = string(domain.ReschedulePending)
	}
	for _, other := range s.t.reschedules {
		if other.SessionID == rs.SessionID && other.Status == string(domain.ReschedulePending) {
			return httperr.ErrConflict("reschedule_already_pending")
		}
	}
	rs.ID = s.t.next("reschedules")
	rs.CreatedAt = time.Now()
	s.t.reschedules[rs.ID] = *rs
	return nil
}

func (s *MemoryStore) GetReschedule(_ context.Context, id uint) (*models.SessionReschedule, error) {
	defer s.guard()()
	rs, ok := s.t.reschedules[id]
	if !ok {
		return nil, httperr.ErrNotFound("reschedule_not_found")
	}
	return &rs, nil
}

func (s *MemoryStore) GetRescheduleForUpdate(ctx context.Context, id uint) (*models.SessionReschedule, error) {
	return s.GetReschedule(ctx, id)
}

func (s *MemoryStore) UpdateReschedule(_ context.Context, rs *models.SessionReschedule) error {
	defer s.guard()()
	if _, ok := s.t.reschedules[rs.ID]; !ok {
		return httperr.ErrNotFound("reschedule_not_found")
	}
	s.t.reschedules[rs.ID] = *rs
	return nil
}

func (s *MemoryStore) HasPendingReschedule(_ context.Context, sessionID uint) (bool, error) {
	defer s.guard()()
	for _, rs := range s.t.reschedules {
		if rs.SessionID == sessionID && rs.Status == string(domain.ReschedulePending) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) GetPendingRescheduleForUpdate(_ context.Context, sessionID uint) (*models.SessionReschedule, error) {
	defer s.guard()()
	for _, rs := range s.t.reschedules {
		if rs.SessionID == sessionID && rs.Status == string(domain.ReschedulePending) {
			return &rs, nil
		}
	}
	return nil, httperr.ErrNotFound("reschedule_not_found")
}

// --------------------------------------------------
// Activities / notifications
// --------------------------------------------------

func (s *MemoryStore) CreateActivity(_ context.Context, a *models.SessionActivity) error {
	defer s.guard()()
	a.ID = s.t.next("activities")
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.t.activities = append(s.t.activities, *a)
	return nil
}

func (s *MemoryStore) ListActivities(_ context.Context, sessionID uint) ([]models.SessionActivity, error) {
	defer s.guard()()
	var out []models.SessionActivity
	for _, a := range s.t.activities {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveNotification(_ context.Context, n *models.Notification) error {
	defer s.guard()()
	n.ID = s.t.next("notifications")
	n.CreatedAt = time.Now()
	s.t.notifications[n.ID] = *n
	return nil
}

func (s *MemoryStore) ListDueNotifications(_ context.Context, now time.Time, limit int) ([]models.Notification, error) {
	defer s.guard()()
	var out []models.Notification
	for _, n := range s.t.notifications {
		if n.DispatchedAt != nil {
			continue
		}
		if n.ScheduledFor == nil || !n.ScheduledFor.After(now) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) MarkNotificationDispatched(_ context.Context, id uint, at time.Time) error {
	defer s.guard()()
	n, ok := s.t.notifications[id]
	if !ok {
		return httperr.ErrNotFound("notification_not_found")
	}
	n.DispatchedAt = &at
	s.t.notifications[id] = n
	return nil
}

// Notifications returns every stored notification for a user, oldest first.
func (s *MemoryStore) Notifications(userID uint) []models.Notification {
	defer s.guard()()
	var out []models.Notification
	for _, n := range s.t.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var (
	_ domain.Repository  = (*MemoryStore)(nil)
	_ audit.Store        = (*MemoryStore)(nil)
	_ notification.Store = (*MemoryStore)(nil)
)
