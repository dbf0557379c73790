package entity

var seedSponsors = []Sponsor{
	{ID: "sp-001", Name: "Global Health Inc.", ContactPerson: "Dr. Emily Carter", Email: "ecarter@gh.com", Status: "Active"},
	{ID: "sp-002", Name: "BioInnovate Labs", ContactPerson: "Dr. Ben Schiller", Email: "ben.s@bioinnovate.com", Status: "Active"},
	{ID: "sp-003", Name: "PharmaCore", ContactPerson: "Alice Johnson", Email: "alice.j@pharmacore.co", Status: "Inactive"},
	{ID: "sp-004", Name: "MedTech Solutions", ContactPerson: "Robert Brown", Email: "r.brown@medtech.io", Status: "Active"},
}

var seedCenters = []Center{
	{ID: "ctr-001", Name: "Downtown Research Center", Location: "New York, NY", PrimaryContact: "Dr. Michael Lee", Status: "Active"},
	{ID: "ctr-002", Name: "West Coast Clinical", Location: "San Francisco, CA", PrimaryContact: "Dr. Susan Wu", Status: "Active"},
	{ID: "ctr-003", Name: "Midwest Medical Hub", Location: "Chicago, IL", PrimaryContact: "Dr. David Chen", Status: "Inactive"},
}

var seedResearchers = []Researcher{
	{ID: "res-001", Name: "Dr. Olivia Chen", Specialty: "Oncology", CenterID: "ctr-001", Email: "olivia.chen@drc.org"},
	{ID: "res-002", Name: "Dr. Liam Goldberg", Specialty: "Cardiology", CenterID: "ctr-002", Email: "liam.g@wcc.org"},
	{ID: "res-003", Name: "Dr. Ava Nguyen", Specialty: "Neurology", CenterID: "ctr-001", Email: "ava.nguyen@drc.org"},
	{ID: "res-004", Name: "Dr. Noah Patel", Specialty: "Immunology", CenterID: "ctr-003", Email: "noah.p@mmh.org"},
}

var seedProjectCodes = []ProjectCode{
	{ID: "pc-001", Code: "ONC-2024-01", Description: "Phase III Oncology Trial", SponsorID: "sp-001", Status: "Ongoing"},
	{ID: "pc-002", Code: "CARD-2023-05", Description: "Cardiovascular Device Study", SponsorID: "sp-004", Status: "Completed"},
	{ID: "pc-003", Code: "NEURO-2024-02", Description: "Alzheimer's Research Initiative", SponsorID: "sp-002", Status: "Ongoing"},
	{ID: "pc-004", Code: "IMM-2023-11", Description: "Autoimmune Disorder Study", SponsorID: "sp-001", Status: "On Hold"},
}

var seedWorkPerformed = []WorkPerformed{
	{ID: "wp-001", Name: "Initial Patient Screening", Description: "Screening of first 50 patients for ONC-2024-01.", Status: "Completed"},
	{ID: "wp-002", Name: "Data Analysis - Phase 1", Description: "Analysis of initial data from CARD-2023-05.", Status: "Completed"},
	{ID: "wp-003", Name: "Lab Sample Processing", Description: "Processing samples for NEURO-2024-02.", Status: "In Progress"},
	{ID: "wp-004", Name: "Regulatory Submission Prep", Description: "Preparing documents for FDA submission.", Status: "Pending"},
}

var seedSdcTrackingEntries = []SdcTrackingEntry{
	{
		ID: "sdc-001", SdcPersonnelFirstName: "Alice", SdcPersonnelLastName: "Williams", PatientCode: "P001", Date: "2024-05-20",
		SponsorID: "sp-001", CenterID: "ctr-001", ResearcherID: "res-001", ProjectCodeID: "pc-001",
		StartTime: "09:00", EndTime: "12:30", CreatedBy: "user-002",
	},
	{
		ID: "sdc-002", SdcPersonnelFirstName: "Bob", SdcPersonnelLastName: "Brown", PatientCode: "P002", Date: "2024-05-21",
		SponsorID: "sp-002", CenterID: "ctr-001", ResearcherID: "res-003", ProjectCodeID: "pc-003",
		StartTime: "13:00", EndTime: "17:00", CreatedBy: "user-004",
	},
	{
		ID: "sdc-003", SdcPersonnelFirstName: "Charlie", SdcPersonnelLastName: "Davis", PatientCode: "P003", Date: "2024-05-22",
		SponsorID: "sp-004", CenterID: "ctr-002", ResearcherID: "res-002", ProjectCodeID: "pc-002",
		StartTime: "10:15", EndTime: "15:45", CreatedBy: "user-002",
	},
}

var seedSdcWorkPerformedItems = []SdcWorkPerformedItem{
	{ID: "sdc-wp-001", SdcTrackingEntryID: "sdc-001", Name: "Patient Vitals Check", StartTime: "09:00", EndTime: "09:15", Notes: "Blood pressure and heart rate."},
	{ID: "sdc-wp-002", SdcTrackingEntryID: "sdc-001", Name: "Document Review", StartTime: "09:15", EndTime: "11:00", Notes: "Reviewed patient history."},
	{ID: "sdc-wp-003", SdcTrackingEntryID: "sdc-001", Name: "Data Entry", StartTime: "11:00", EndTime: "12:30", Notes: "Entered vitals into system."},
	{ID: "sdc-wp-004", SdcTrackingEntryID: "sdc-002", Name: "Sample Collection", StartTime: "13:00", EndTime: "14:00", Notes: "Collected blood samples."},
}
