package appointment

import (
	"context"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/doctor-scheduler/internal/dto"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/pagination"
)

type ListAppointmentsInput struct {
	PatientID string

	DoctorID        string
	Status          string
	AppointmentDate string

	Options     pagination.Options
	IsCountOnly bool
}

type ListAppointmentsOutput struct {
	TotalRecords *int64                                   `json:"totalRecords,omitempty"`
	Page         *pagination.Page[dto.AppointmentListDTO] `json:"page,omitempty"`
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) (*ListAppointmentsOutput, error) {

	if err := requireID("patient_id", in.PatientID); err != nil {
		return nil, err
	}

	f := domain.Filter{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Status:    in.Status,
	}

	if in.Status != "" && !domain.Status(in.Status).Valid() {
		return nil, httperr.ErrValidation("invalid_status", "unknown status "+in.Status)
	}

	if in.AppointmentDate != "" {
		d, err := clock.ParseDate(in.AppointmentDate)
		if err != nil {
			return nil, err
		}
		f.Date = &d
	}

	if in.IsCountOnly {
		n, err := uc.repo.Count(ctx, f)
		if err != nil {
			return nil, err
		}
		return &ListAppointmentsOutput{TotalRecords: &n}, nil
	}

	opts := in.Options.Normalize()
	apps, total, err := uc.repo.List(ctx, f, opts)
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(dto.AppointmentList(apps), total, opts)
	return &ListAppointmentsOutput{Page: &page}, nil
}
