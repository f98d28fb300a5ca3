package domain

import "time"

// Record is implemented by every repository-backed clinical entity.
type Record interface {
	RecordID() string
	SetID(id string)
	// SetDefaults fills unset defaulted fields at creation time.
	SetDefaults(now time.Time)
}

const (
	AppointmentUpcoming  = "Upcoming"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"

	PrescriptionActive    = "Active"
	PrescriptionCompleted = "Completed"

	BillingPending   = "Pending"
	BillingPaid      = "Paid"
	BillingCancelled = "Cancelled"
)

type Appointment struct {
	ID        string    `json:"id"         bson:"_id"`
	PatientID string    `json:"patient_id" bson:"patient_id" validate:"required"`
	DoctorID  string    `json:"doctor_id"  bson:"doctor_id"  validate:"required"`
	Date      time.Time `json:"date"       bson:"date"       validate:"required"`
	Time      string    `json:"time"       bson:"time"       validate:"required"`
	Status    string    `json:"status"     bson:"status"     validate:"omitempty,oneof=Upcoming Completed Cancelled"`
	Type      string    `json:"type"       bson:"type"       validate:"required"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (a *Appointment) RecordID() string { return a.ID }
func (a *Appointment) SetID(id string)  { a.ID = id }

// PatientRef names the patient the record belongs to.
func (a *Appointment) PatientRef() string { return a.PatientID }

func (a *Appointment) SetDefaults(time.Time) {
	if a.Status == "" {
		a.Status = AppointmentUpcoming
	}
}

type AppointmentPatch struct {
	PatientID *string    `json:"patient_id" validate:"omitnil,min=1"`
	DoctorID  *string    `json:"doctor_id"  validate:"omitnil,min=1"`
	Date      *time.Time `json:"date"`
	Time      *string    `json:"time"       validate:"omitnil,min=1"`
	Status    *string    `json:"status"     validate:"omitnil,oneof=Upcoming Completed Cancelled"`
	Type      *string    `json:"type"       validate:"omitnil,min=1"`
	Notes     *string    `json:"notes"`
}

func (p *AppointmentPatch) Fields() map[string]any {
	f := make(map[string]any)
	putField(f, "patient_id", p.PatientID)
	putField(f, "doctor_id", p.DoctorID)
	putField(f, "date", p.Date)
	putField(f, "time", p.Time)
	putField(f, "status", p.Status)
	putField(f, "type", p.Type)
	putField(f, "notes", p.Notes)
	return f
}

type Prescription struct {
	ID         string    `json:"id"         bson:"_id"`
	PatientID  string    `json:"patient_id" bson:"patient_id" validate:"required"`
	DoctorID   string    `json:"doctor_id"  bson:"doctor_id"  validate:"required"`
	Medication string    `json:"medication" bson:"medication" validate:"required"`
	Dosage     string    `json:"dosage"     bson:"dosage"     validate:"required"`
	Duration   string    `json:"duration"   bson:"duration"   validate:"required"`
	Date       time.Time `json:"date"       bson:"date"`
	Status     string    `json:"status"     bson:"status"     validate:"omitempty,oneof=Active Completed"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (p *Prescription) RecordID() string { return p.ID }
func (p *Prescription) SetID(id string)  { p.ID = id }
func (p *Prescription) PatientRef() string { return p.PatientID }

func (p *Prescription) SetDefaults(now time.Time) {
	if p.Date.IsZero() {
		p.Date = now
	}
	if p.Status == "" {
		p.Status = PrescriptionActive
	}
}

type PrescriptionPatch struct {
	Medication *string `json:"medication" validate:"omitnil,min=1"`
	Dosage     *string `json:"dosage"     validate:"omitnil,min=1"`
	Duration   *string `json:"duration"   validate:"omitnil,min=1"`
	Status     *string `json:"status"     validate:"omitnil,oneof=Active Completed"`
	Notes      *string `json:"notes"`
}

func (p *PrescriptionPatch) Fields() map[string]any {
	f := make(map[string]any)
	putField(f, "medication", p.Medication)
	putField(f, "dosage", p.Dosage)
	putField(f, "duration", p.Duration)
	putField(f, "status", p.Status)
	putField(f, "notes", p.Notes)
	return f
}

type MedicalRecord struct {
	ID        string    `json:"id"         bson:"_id"`
	PatientID string    `json:"patient_id" bson:"patient_id" validate:"required"`
	DoctorID  string    `json:"doctor_id"  bson:"doctor_id"  validate:"required"`
	Type      string    `json:"type"       bson:"type"       validate:"required"`
	Title     string    `json:"title"      bson:"title"      validate:"required"`
	Date      time.Time `json:"date"       bson:"date"`
	Details   string    `json:"details"    bson:"details"`
}

func (m *MedicalRecord) RecordID() string { return m.ID }
func (m *MedicalRecord) SetID(id string)  { m.ID = id }
func (m *MedicalRecord) PatientRef() string { return m.PatientID }

func (m *MedicalRecord) SetDefaults(now time.Time) {
	if m.Date.IsZero() {
		m.Date = now
	}
}

type MedicalRecordPatch struct {
	Type    *string `json:"type"    validate:"omitnil,min=1"`
	Title   *string `json:"title"   validate:"omitnil,min=1"`
	Details *string `json:"details"`
}

func (p *MedicalRecordPatch) Fields() map[string]any {
	f := make(map[string]any)
	putField(f, "type", p.Type)
	putField(f, "title", p.Title)
	putField(f, "details", p.Details)
	return f
}

type StockItem struct {
	ID          string `json:"id"          bson:"_id"`
	Name        string `json:"name"        bson:"name"     validate:"required"`
	Quantity    int    `json:"quantity"    bson:"quantity" validate:"gte=0"`
	Unit        string `json:"unit"        bson:"unit"     validate:"required"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

func (s *StockItem) RecordID() string      { return s.ID }
func (s *StockItem) SetID(id string)       { s.ID = id }
func (s *StockItem) SetDefaults(time.Time) {}

type StockItemPatch struct {
	Name        *string `json:"name"     validate:"omitnil,min=1"`
	Quantity    *int    `json:"quantity" validate:"omitnil,gte=0"`
	Unit        *string `json:"unit"     validate:"omitnil,min=1"`
	Description *string `json:"description"`
}

func (p *StockItemPatch) Fields() map[string]any {
	f := make(map[string]any)
	putField(f, "name", p.Name)
	putField(f, "quantity", p.Quantity)
	putField(f, "unit", p.Unit)
	putField(f, "description", p.Description)
	return f
}

type Billing struct {
	ID            string    `json:"id"             bson:"_id"`
	PatientID     string    `json:"patient_id"     bson:"patient_id" validate:"required"`
	AppointmentID string    `json:"appointment_id,omitempty" bson:"appointment_id,omitempty"`
	Amount        float64   `json:"amount"         bson:"amount"     validate:"gt=0"`
	Status        string    `json:"status"         bson:"status"     validate:"omitempty,oneof=Pending Paid Cancelled"`
	Date          time.Time `json:"date"           bson:"date"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
}

func (b *Billing) RecordID() string { return b.ID }
func (b *Billing) SetID(id string)  { b.ID = id }
func (b *Billing) PatientRef() string { return b.PatientID }

func (b *Billing) SetDefaults(now time.Time) {
	if b.Date.IsZero() {
		b.Date = now
	}
	if b.Status == "" {
		b.Status = BillingPending
	}
}

type BillingPatch struct {
	Amount      *float64 `json:"amount"  validate:"omitnil,gt=0"`
	Status      *string  `json:"status"  validate:"omitnil,oneof=Pending Paid Cancelled"`
	Description *string  `json:"description"`
}

func (p *BillingPatch) Fields() map[string]any {
	f := make(map[string]any)
	putField(f, "amount", p.Amount)
	putField(f, "status", p.Status)
	putField(f, "description", p.Description)
	return f
}
