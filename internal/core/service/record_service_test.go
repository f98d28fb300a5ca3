package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

func newTestPrescriptionService() (*RecordService[domain.Prescription, *domain.Prescription], *memRepo[domain.Prescription]) {
	repo := newMemRepo("prescription", func(p *domain.Prescription) string { return p.ID })
	svc := NewRecordService[domain.Prescription](ports.Repository[domain.Prescription](repo), "prescription", zerolog.Nop())
	return svc, repo
}

func TestRecordService_CreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestPrescriptionService()
	now := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	created, err := svc.Create(context.Background(), &domain.Prescription{
		PatientID: "p-1", DoctorID: "d-1", Medication: "Ibuprofen", Dosage: "200mg", Duration: "5 days",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.Status != domain.PrescriptionActive {
		t.Fatalf("expected default status Active, got %q", created.Status)
	}
	if !created.Date.Equal(now) {
		t.Fatalf("expected date to default to now, got %v", created.Date)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil || got.Medication != "Ibuprofen" {
		t.Fatalf("Get returned %+v, %v", got, err)
	}
}

func TestRecordService_CreateKeepsExplicitValues(t *testing.T) {
	repo := newMemRepo("billing", func(b *domain.Billing) string { return b.ID })
	svc := NewRecordService[domain.Billing](ports.Repository[domain.Billing](repo), "billing", zerolog.Nop())
	when := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), &domain.Billing{
		PatientID: "p-1", Amount: 80, Status: domain.BillingPaid, Date: when,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Status != domain.BillingPaid || !created.Date.Equal(when) {
		t.Fatalf("explicit values overwritten: %+v", created)
	}
}

func TestRecordService_NotFound(t *testing.T) {
	svc, _ := newTestPrescriptionService()
	ctx := context.Background()

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get: expected ErrNotFound, got %v", err)
	}
	status := domain.PrescriptionCompleted
	patch := domain.PrescriptionPatch{Status: &status}
	if _, err := svc.Update(ctx, "missing", patch.Fields()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestRecordService_Update(t *testing.T) {
	svc, _ := newTestPrescriptionService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &domain.Prescription{PatientID: "p-1", DoctorID: "d-1", Medication: "A", Dosage: "1", Duration: "1d"})

	status := domain.PrescriptionCompleted
	updated, err := svc.Update(ctx, created.ID, (&domain.PrescriptionPatch{Status: &status}).Fields())
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != domain.PrescriptionCompleted || updated.Medication != "A" {
		t.Fatalf("unexpected record after update: %+v", updated)
	}

	if _, err := svc.Update(ctx, created.ID, map[string]any{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty update, got %v", err)
	}
}

func TestRecordService_ListPaging(t *testing.T) {
	svc, _ := newTestPrescriptionService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		doctor := "d-1"
		if i%2 == 1 {
			doctor = "d-2"
		}
		_, err := svc.Create(ctx, &domain.Prescription{
			PatientID: fmt.Sprintf("p-%d", i), DoctorID: doctor, Medication: "M", Dosage: "1", Duration: "1d",
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	res, err := svc.List(ctx, ports.ListInput{Equals: map[string]any{"doctor_id": "d-1"}, Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if res.Total != 3 || len(res.Items) != 2 || res.TotalPages != 2 {
		t.Fatalf("unexpected page: total=%d items=%d pages=%d", res.Total, len(res.Items), res.TotalPages)
	}
	for _, p := range res.Items {
		if p.DoctorID != "d-1" {
			t.Fatalf("filter leaked record %+v", p)
		}
	}

	res, err = svc.List(ctx, ports.ListInput{Page: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if res.Page != 1 || res.Limit != maxPageLimit || len(res.Items) != 5 {
		t.Fatalf("expected defaults page=1 limit=%d, got page=%d limit=%d items=%d", maxPageLimit, res.Page, res.Limit, len(res.Items))
	}
}

func TestRecordService_ListEmpty(t *testing.T) {
	svc, _ := newTestPrescriptionService()

	res, err := svc.List(context.Background(), ports.ListInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 || res.Limit != defaultPageLimit {
		t.Fatalf("unexpected empty page: %+v", res)
	}
}
