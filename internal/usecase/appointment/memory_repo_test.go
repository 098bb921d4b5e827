package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

// memoryRepo guarda tudo sob um único mutex, equivalente ao lock da linha
// do médico no Postgres.
type memoryRepo struct {
	mu       sync.Mutex
	doctors  map[string]models.Doctor
	slots    []models.DoctorTimeSlot
	apps     map[string]models.Appointment
	order    []string
	failMark map[string]bool
}

func newMemoryRepo(doctors ...models.Doctor) *memoryRepo {
	r := &memoryRepo{
		doctors:  map[string]models.Doctor{},
		apps:     map[string]models.Appointment{},
		failMark: map[string]bool{},
	}
	for _, d := range doctors {
		r.doctors[d.ID] = d
	}
	return r
}

func activeDoctor(id string) models.Doctor {
	return models.Doctor{Base: models.Base{ID: id, IsActive: true}, Name: "Dr " + id, Availability: true}
}

func (r *memoryRepo) conflict(ap *models.Appointment, excludeID string) bool {
	var same []models.Appointment
	for _, other := range r.apps {
		if other.DoctorID == ap.DoctorID && other.AppointmentDate.Equal(ap.AppointmentDate) {
			same = append(same, other)
		}
	}
	return domain.FirstConflict(domain.IntervalOf(ap), same, excludeID) != nil
}

func (r *memoryRepo) GetDoctor(_ context.Context, id string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok || d.IsDeleted {
		return nil, httperr.ErrNotFound("doctor")
	}
	return &d, nil
}

func (r *memoryRepo) GetDoctorTimeSlots(_ context.Context, id string) ([]models.DoctorTimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DoctorTimeSlot
	for _, s := range r.slots {
		if s.DoctorID == id {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListBlocking(_ context.Context, doctorID string, date clock.Date, excludeID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, id := range r.order {
		ap, ok := r.apps[id]
		if !ok || ap.DoctorID != doctorID || !ap.AppointmentDate.Equal(date) || ap.ID == excludeID {
			continue
		}
		if domain.Blocks(&ap) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *memoryRepo) CreateIfFree(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[ap.DoctorID]; !ok {
		return httperr.ErrNotFound("doctor")
	}
	if r.conflict(ap, "") {
		return httperr.ErrSlotConflict()
	}
	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	r.apps[ap.ID] = *ap
	r.order = append(r.order, ap.ID)
	return nil
}

func (r *memoryRepo) UpdateIfFree(_ context.Context, ap *models.Appointment, from domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.apps[ap.ID]
	if !ok || cur.IsDeleted {
		return httperr.ErrNotFound("appointment")
	}
	if cur.Status != string(from) || from.IsTerminal() {
		return httperr.ErrInvalidTransition(cur.Status, ap.Status)
	}
	if r.conflict(ap, ap.ID) {
		return httperr.ErrSlotConflict()
	}
	r.apps[ap.ID] = *ap
	return nil
}

func (r *memoryRepo) load(id string, match func(models.Appointment) bool) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.apps[id]
	if !ok || ap.IsDeleted || !match(ap) {
		return nil, httperr.ErrNotFound("appointment")
	}
	if d, ok := r.doctors[ap.DoctorID]; ok {
		ap.Doctor = &d
	}
	return &ap, nil
}

func (r *memoryRepo) GetForPatient(_ context.Context, id, patientID string) (*models.Appointment, error) {
	return r.load(id, func(ap models.Appointment) bool { return ap.PatientID == patientID })
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	return r.load(id, func(models.Appointment) bool { return true })
}

func (r *memoryRepo) SaveTransition(_ context.Context, ap *models.Appointment, from domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.apps[ap.ID]
	if !ok || cur.Status != string(from) {
		return httperr.ErrInvalidTransition(string(from), ap.Status)
	}
	cur.Status = ap.Status
	cur.CancelledAt = ap.CancelledAt
	cur.CompletedAt = ap.CompletedAt
	cur.UpdatedBy = ap.UpdatedBy
	r.apps[ap.ID] = cur
	return nil
}

func (r *memoryRepo) UpdateDetails(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.apps[ap.ID]
	if !ok {
		return httperr.ErrNotFound("appointment")
	}
	cur.MedicalHistory = ap.MedicalHistory
	cur.Symptoms = ap.Symptoms
	r.apps[ap.ID] = cur
	return nil
}

func (r *memoryRepo) DeleteAppointment(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return httperr.ErrNotFound("appointment")
	}
	delete(r.apps, id)
	return nil
}

func (r *memoryRepo) matching(f domain.Filter) []models.Appointment {
	var out []models.Appointment
	for _, id := range r.order {
		ap, ok := r.apps[id]
		if !ok || ap.IsDeleted {
			continue
		}
		if f.PatientID != "" && ap.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != "" && ap.DoctorID != f.DoctorID {
			continue
		}
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		if f.Date != nil && !ap.AppointmentDate.Equal(*f.Date) {
			continue
		}
		out = append(out, ap)
	}
	return out
}

func (r *memoryRepo) List(_ context.Context, f domain.Filter, opts pagination.Options) ([]models.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.matching(f)
	from := opts.Offset()
	if from > len(all) {
		from = len(all)
	}
	to := from + opts.Normalize().Limit
	if to > len(all) {
		to = len(all)
	}
	page := all[from:to]
	for i := range page {
		if d, ok := r.doctors[page[i].DoctorID]; ok {
			page[i].Doctor = &d
		}
	}
	return page, int64(len(all)), nil
}

func (r *memoryRepo) Count(_ context.Context, f domain.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(f))), nil
}

func (r *memoryRepo) ListExpired(_ context.Context, today clock.Date, nowMinute clock.Clock) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, id := range r.order {
		ap, ok := r.apps[id]
		if !ok || ap.IsDeleted {
			continue
		}
		s := domain.Status(ap.Status)
		if s != domain.StatusScheduled && s != domain.StatusRescheduled {
			continue
		}
		if ap.AppointmentDate.Before(today) || (ap.AppointmentDate.Equal(today) && ap.EndMinute <= nowMinute) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *memoryRepo) MarkCompleted(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMark[id] {
		return false, httperr.ErrStore("mark_completed", context.DeadlineExceeded)
	}
	ap, ok := r.apps[id]
	if !ok {
		return false, nil
	}
	s := domain.Status(ap.Status)
	if s != domain.StatusScheduled && s != domain.StatusRescheduled {
		return false, nil
	}
	ap.Status = string(domain.StatusCompleted)
	ap.CompletedAt = &at
	r.apps[id] = ap
	return true, nil
}

func (r *memoryRepo) status(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id].Status
}

var _ domain.Repository = (*memoryRepo)(nil)
