package appointment

import (
	"context"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/doctor-scheduler/internal/domain/appointment"
)

type CheckAvailability struct {
	repo domain.Repository
}

func NewCheckAvailability(repo domain.Repository) *CheckAvailability {
	return &CheckAvailability{repo: repo}
}

// Execute é somente leitura: true quando nenhum agendamento bloqueante do
// médico na data colide com o intervalo.
func (uc *CheckAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (bool, error) {

	if err := in.Interval.Validate(); err != nil {
		return false, err
	}

	existing, err := uc.repo.ListBlocking(ctx, in.DoctorID, in.Date, in.ExcludeID)
	if err != nil {
		return false, err
	}

	return domain.FirstConflict(in.Interval, existing, in.ExcludeID) == nil, nil
}

// Query é a variante usada pelo endpoint público, com entrada textual.
func (uc *CheckAvailability) Query(
	ctx context.Context,
	doctorID string,
	date string,
	start string,
	end string,
) (bool, error) {

	if err := requireID("doctor_id", doctorID); err != nil {
		return false, err
	}

	d, iv, err := parseSlot(date, start, end)
	if err != nil {
		return false, err
	}

	if _, err := uc.repo.GetDoctor(ctx, doctorID); err != nil {
		return false, err
	}

	return uc.Execute(ctx, domain.AvailabilityInput{
		DoctorID: doctorID,
		Date:     d,
		Interval: iv,
	})
}

func (uc *CheckAvailability) mustBeFree(
	ctx context.Context,
	doctorID string,
	date clock.Date,
	iv domain.Interval,
	excludeID string,
) error {
	free, err := uc.Execute(ctx, domain.AvailabilityInput{
		DoctorID:  doctorID,
		Date:      date,
		Interval:  iv,
		ExcludeID: excludeID,
	})
	if err != nil {
		return err
	}
	if !free {
		return errSlotConflict
	}
	return nil
}
