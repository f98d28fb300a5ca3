package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

// DashboardService aggregates counts across users and records. "Today" is
// the current UTC calendar day.
type DashboardService struct {
	users         ports.UserRepository
	appointments  ports.Repository[domain.Appointment]
	prescriptions ports.Repository[domain.Prescription]
	billing       ports.Repository[domain.Billing]
	now           func() time.Time
}

func NewDashboardService(
	users ports.UserRepository,
	appointments ports.Repository[domain.Appointment],
	prescriptions ports.Repository[domain.Prescription],
	billing ports.Repository[domain.Billing],
) *DashboardService {
	return &DashboardService{
		users:         users,
		appointments:  appointments,
		prescriptions: prescriptions,
		billing:       billing,
		now:           time.Now,
	}
}

func (s *DashboardService) Admin(ctx context.Context) (*domain.AdminDashboard, error) {
	doctors, err := s.users.Count(ctx, domain.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("count doctors: %w", err)
	}
	patients, err := s.users.Count(ctx, domain.RolePatient)
	if err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	today, err := s.appointments.Count(ctx, s.today(nil))
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	return &domain.AdminDashboard{
		TotalDoctors:      doctors,
		TotalPatients:     patients,
		AppointmentsToday: today,
	}, nil
}

// Doctor counts distinct patients seen, today's appointments, active
// prescriptions and the sum of paid bills linked to the doctor's appointments.
func (s *DashboardService) Doctor(ctx context.Context, doctorID string) (*domain.DoctorDashboard, error) {
	byDoctor := map[string]any{"doctor_id": doctorID}

	appts, _, err := s.appointments.List(ctx, ports.Filter{Equals: byDoctor})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	patients := make(map[string]struct{})
	apptIDs := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		patients[a.PatientID] = struct{}{}
		apptIDs[a.ID] = struct{}{}
	}

	today, err := s.appointments.Count(ctx, s.today(byDoctor))
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}

	pending, err := s.prescriptions.Count(ctx, ports.Filter{Equals: map[string]any{
		"doctor_id": doctorID,
		"status":    domain.PrescriptionActive,
	}})
	if err != nil {
		return nil, fmt.Errorf("count prescriptions: %w", err)
	}

	var earnings float64
	if len(apptIDs) > 0 {
		paid, _, err := s.billing.List(ctx, ports.Filter{Equals: map[string]any{"status": domain.BillingPaid}})
		if err != nil {
			return nil, fmt.Errorf("list billing: %w", err)
		}
		for _, b := range paid {
			if _, ok := apptIDs[b.AppointmentID]; ok {
				earnings += b.Amount
			}
		}
	}

	return &domain.DoctorDashboard{
		TotalPatients:     len(patients),
		AppointmentsToday: today,
		PendingReports:    pending,
		TotalEarnings:     earnings,
	}, nil
}

func (s *DashboardService) today(equals map[string]any) ports.Filter {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return ports.Filter{
		Equals:    equals,
		DateField: "date",
		From:      start,
		To:        start.AddDate(0, 0, 1),
	}
}
