package domain

// AdminDashboard is the clinic-wide summary shown to administrators.
type AdminDashboard struct {
	TotalDoctors      int64 `json:"total_doctors"`
	TotalPatients     int64 `json:"total_patients"`
	AppointmentsToday int64 `json:"appointments_today"`
}

// DoctorDashboard summarises one doctor's caseload.
type DoctorDashboard struct {
	TotalPatients     int     `json:"total_patients"`
	AppointmentsToday int64   `json:"appointments_today"`
	PendingReports    int64   `json:"pending_reports"`
	TotalEarnings     float64 `json:"total_earnings"`
}
