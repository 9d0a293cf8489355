package claims

import "github.com/medclaims/claims-dashboard/internal/models"

// Seed loads the canonical sample claims so the dashboard renders
// meaningful data on a fresh start. The sequence counter is advanced
// past the seeded ids.
func (s *Store) Seed() {
	for _, claim := range sampleClaims() {
		s.Append(claim)
	}

	s.mu.Lock()
	if s.nextSeq <= len(s.ordered) {
		s.nextSeq = len(s.ordered) + 1
	}
	s.mu.Unlock()
}

func sampleClaims() []*models.Claim {
	return []*models.Claim{
		{
			ID:          "CLM-2024-001",
			PatientID:   "PAT-123456",
			PatientName: "Sarah Johnson",
			Status:      models.StatusApproved,
			Type:        "Inpatient",
			Provider:    "General Hospital",
			Amount:      4500.0,
			Submitted:   "15/01/2024",
			DOB:         "15/03/1985",
			ServiceDate: "10/01/2024",
			Diagnosis:   "Appendectomy - Emergency surgical removal of inflamed appendix",
			Notes:       "Patient presented with acute abdominal pain. Surgery performed successfully with no complications.",
			Timeline: []models.TimelineEntry{
				{Status: models.StageSubmitted, Date: "15/01/2024", Completed: true},
				{Status: models.StageAIVerified, Date: "16/01/2024", Completed: true},
				{Status: models.StageUnderReview, Date: "17/01/2024", Completed: true},
				{Status: models.StageApproved, Date: "18/01/2024", Completed: true},
				{Status: models.StagePaid, Date: "20/01/2024", Completed: false},
			},
			Documents: []models.Document{
				{Name: "Medical_Report.pdf", Size: "2.4 MB", UploadDate: "15/01/2024"},
				{Name: "Lab_Results.pdf", Size: "1.8 MB", UploadDate: "15/01/2024"},
				{Name: "Invoice.pdf", Size: "856 KB", UploadDate: "15/01/2024"},
			},
		},
		{
			ID:          "CLM-2024-002",
			PatientID:   "PAT-789012",
			PatientName: "Michael Chen",
			Status:      models.StatusPending,
			Type:        "Outpatient",
			Provider:    "City Clinic",
			Amount:      850.0,
			Submitted:   "14/01/2024",
			DOB:         "22/07/1990",
			ServiceDate: "12/01/2024",
			Diagnosis:   "Routine checkup and blood work",
			Notes:       "Annual physical examination with standard lab tests.",
			Timeline: []models.TimelineEntry{
				{Status: models.StageSubmitted, Date: "14/01/2024", Completed: true},
				{Status: models.StageAIVerified, Date: "15/01/2024", Completed: true},
				{Status: models.StageUnderReview, Date: "16/01/2024", Completed: false},
				{Status: models.StageApproved, Date: "", Completed: false},
				{Status: models.StagePaid, Date: "", Completed: false},
			},
			Documents: []models.Document{
				{Name: "Checkup_Report.pdf", Size: "1.2 MB", UploadDate: "14/01/2024"},
			},
		},
		{
			ID:          "CLM-2024-003",
			PatientID:   "PAT-345678",
			PatientName: "Emma Williams",
			Status:      models.StatusUnderReview,
			Type:        "Emergency",
			Provider:    "Regional Medical Center",
			Amount:      2300.0,
			Submitted:   "13/01/2024",
			DOB:         "10/11/1978",
			ServiceDate: "11/01/2024",
			Diagnosis:   "Fractured wrist - Emergency treatment and casting",
			Notes:       "Patient fell and sustained wrist fracture. X-ray confirmed, cast applied.",
			Timeline: []models.TimelineEntry{
				{Status: models.StageSubmitted, Date: "13/01/2024", Completed: true},
				{Status: models.StageAIVerified, Date: "14/01/2024", Completed: true},
				{Status: models.StageUnderReview, Date: "15/01/2024", Completed: true},
				{Status: models.StageApproved, Date: "", Completed: false},
				{Status: models.StagePaid, Date: "", Completed: false},
			},
			Documents: []models.Document{
				{Name: "X-Ray_Results.pdf", Size: "3.1 MB", UploadDate: "13/01/2024"},
				{Name: "Treatment_Summary.pdf", Size: "980 KB", UploadDate: "13/01/2024"},
			},
		},
		{
			ID:          "CLM-2024-004",
			PatientID:   "PAT-901234",
			PatientName: "James Rodriguez",
			Status:      models.StatusRejected,
			Type:        "Outpatient",
			Provider:    "Community Health",
			Amount:      450.0,
			Submitted:   "12/01/2024",
			DOB:         "05/02/1995",
			ServiceDate: "10/01/2024",
			Diagnosis:   "Cosmetic consultation",
			Notes:       "Elective cosmetic procedure not covered by insurance policy.",
			Timeline: []models.TimelineEntry{
				{Status: models.StageSubmitted, Date: "12/01/2024", Completed: true},
				{Status: models.StageAIVerified, Date: "13/01/2024", Completed: true},
				{Status: models.StageUnderReview, Date: "14/01/2024", Completed: true},
				{Status: "Rejected - Not covered", Date: "15/01/2024", Completed: true},
				{Status: models.StagePaid, Date: "", Completed: false},
			},
			Documents: []models.Document{
				{Name: "Consultation_Notes.pdf", Size: "650 KB", UploadDate: "12/01/2024"},
			},
		},
		{
			ID:          "CLM-2024-005",
			PatientID:   "PAT-567890",
			PatientName: "Lisa Anderson",
			Status:      models.StatusPending,
			Type:        "Inpatient",
			Provider:    "University Hospital",
			Amount:      6200.0,
			Submitted:   "11/01/2024",
			DOB:         "18/09/1982",
			ServiceDate: "08/01/2024",
			Diagnosis:   "Pneumonia treatment - 3 day hospital stay",
			Notes:       "Patient admitted with severe pneumonia. IV antibiotics administered, condition improved.",
			Timeline: []models.TimelineEntry{
				{Status: models.StageSubmitted, Date: "11/01/2024", Completed: true},
				{Status: models.StageAIVerified, Date: "12/01/2024", Completed: false},
				{Status: models.StageUnderReview, Date: "", Completed: false},
				{Status: models.StageApproved, Date: "", Completed: false},
				{Status: models.StagePaid, Date: "", Completed: false},
			},
			Documents: []models.Document{
				{Name: "Hospital_Admission.pdf", Size: "2.8 MB", UploadDate: "11/01/2024"},
				{Name: "Discharge_Summary.pdf", Size: "1.5 MB", UploadDate: "11/01/2024"},
			},
		},
	}
}
