package service

import (
	"context"
	"testing"
	"time"

	"github.com/clinichub/clinic-api/internal/core/domain"
)

type dashboardFixture struct {
	users         *stubUserRepo
	appointments  *memRepo[domain.Appointment]
	prescriptions *memRepo[domain.Prescription]
	billing       *memRepo[domain.Billing]
	svc           *DashboardService
}

func newDashboardFixture(now time.Time) *dashboardFixture {
	f := &dashboardFixture{
		users:         newStubUserRepo(),
		appointments:  newMemRepo("appointment", func(a *domain.Appointment) string { return a.ID }),
		prescriptions: newMemRepo("prescription", func(p *domain.Prescription) string { return p.ID }),
		billing:       newMemRepo("billing", func(b *domain.Billing) string { return b.ID }),
	}
	f.svc = NewDashboardService(f.users, f.appointments, f.prescriptions, f.billing)
	f.svc.now = func() time.Time { return now }
	return f
}

func TestDashboardService_Admin(t *testing.T) {
	now := time.Date(2026, 7, 15, 14, 0, 0, 0, time.UTC)
	f := newDashboardFixture(now)
	ctx := context.Background()

	_ = f.users.Create(ctx, &domain.User{ID: "d-1", Email: "d1@x", Role: domain.RoleDoctor})
	_ = f.users.Create(ctx, &domain.User{ID: "p-1", Email: "p1@x", Role: domain.RolePatient})
	_ = f.users.Create(ctx, &domain.User{ID: "p-2", Email: "p2@x", Role: domain.RolePatient})
	_ = f.users.Create(ctx, &domain.User{ID: "a-1", Email: "a1@x", Role: domain.RoleAdmin})

	_ = f.appointments.Create(ctx, &domain.Appointment{ID: "a1", DoctorID: "d-1", PatientID: "p-1", Date: now.Add(-2 * time.Hour)})
	_ = f.appointments.Create(ctx, &domain.Appointment{ID: "a2", DoctorID: "d-1", PatientID: "p-2", Date: now.AddDate(0, 0, 1)})

	got, err := f.svc.Admin(ctx)
	if err != nil {
		t.Fatalf("Admin returned error: %v", err)
	}
	want := domain.AdminDashboard{TotalDoctors: 1, TotalPatients: 2, AppointmentsToday: 1}
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

func TestDashboardService_Doctor(t *testing.T) {
	now := time.Date(2026, 7, 15, 14, 0, 0, 0, time.UTC)
	f := newDashboardFixture(now)
	ctx := context.Background()

	_ = f.appointments.Create(ctx, &domain.Appointment{ID: "a1", DoctorID: "d-1", PatientID: "p-1", Date: now})
	_ = f.appointments.Create(ctx, &domain.Appointment{ID: "a2", DoctorID: "d-1", PatientID: "p-1", Date: now.AddDate(0, 0, -3)})
	_ = f.appointments.Create(ctx, &domain.Appointment{ID: "a3", DoctorID: "d-1", PatientID: "p-2", Date: now.AddDate(0, 0, -5)})
	_ = f.appointments.Create(ctx, &domain.Appointment{ID: "a4", DoctorID: "d-2", PatientID: "p-3", Date: now})

	_ = f.prescriptions.Create(ctx, &domain.Prescription{ID: "r1", DoctorID: "d-1", Status: domain.PrescriptionActive})
	_ = f.prescriptions.Create(ctx, &domain.Prescription{ID: "r2", DoctorID: "d-1", Status: domain.PrescriptionCompleted})
	_ = f.prescriptions.Create(ctx, &domain.Prescription{ID: "r3", DoctorID: "d-2", Status: domain.PrescriptionActive})

	_ = f.billing.Create(ctx, &domain.Billing{ID: "b1", AppointmentID: "a1", Amount: 100, Status: domain.BillingPaid})
	_ = f.billing.Create(ctx, &domain.Billing{ID: "b2", AppointmentID: "a2", Amount: 50, Status: domain.BillingPending})
	_ = f.billing.Create(ctx, &domain.Billing{ID: "b3", AppointmentID: "a3", Amount: 25.5, Status: domain.BillingPaid})
	_ = f.billing.Create(ctx, &domain.Billing{ID: "b4", AppointmentID: "a4", Amount: 999, Status: domain.BillingPaid})
	_ = f.billing.Create(ctx, &domain.Billing{ID: "b5", Amount: 10, Status: domain.BillingPaid})

	got, err := f.svc.Doctor(ctx, "d-1")
	if err != nil {
		t.Fatalf("Doctor returned error: %v", err)
	}
	want := domain.DoctorDashboard{TotalPatients: 2, AppointmentsToday: 1, PendingReports: 1, TotalEarnings: 125.5}
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

func TestDashboardService_Doctor_NoAppointments(t *testing.T) {
	f := newDashboardFixture(time.Now())

	got, err := f.svc.Doctor(context.Background(), "d-9")
	if err != nil {
		t.Fatalf("Doctor returned error: %v", err)
	}
	if *got != (domain.DoctorDashboard{}) {
		t.Fatalf("expected zero dashboard, got %+v", *got)
	}
}
