package entity

// Record is implemented by every stored entity type
type Record interface {
	GetID() string
}

type (
	// User is an account. Password is stored in plaintext and never leaves
	// the server; use Profile for responses.
	User struct {
		ID        string `json:"id"`
		Username  string `json:"username" binding:"required,min=2"`
		Password  string `json:"password" binding:"required"`
		Role      Role   `json:"role" binding:"required,oneof='Level 1' 'Level 2' 'Level 3'"`
		CreatedAt string `json:"createdAt"`
	}

	// Profile is a User without its password
	Profile struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		Role      Role   `json:"role"`
		CreatedAt string `json:"createdAt"`
	}

	Sponsor struct {
		ID            string `json:"id"`
		Name          string `json:"name" binding:"required,min=2"`
		ContactPerson string `json:"contactPerson" binding:"required,min=2"`
		Email         string `json:"email" binding:"required,email"`
		Status        string `json:"status" binding:"required,oneof=Active Inactive"`
	}

	Center struct {
		ID             string `json:"id"`
		Name           string `json:"name" binding:"required,min=2"`
		Location       string `json:"location" binding:"required,min=2"`
		PrimaryContact string `json:"primaryContact" binding:"required,min=2"`
		Status         string `json:"status" binding:"required,oneof=Active Inactive"`
	}

	Researcher struct {
		ID        string `json:"id"`
		Name      string `json:"name" binding:"required,min=2"`
		Specialty string `json:"specialty" binding:"required,min=2"`
		CenterID  string `json:"centerId" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
	}

	ProjectCode struct {
		ID          string `json:"id"`
		Code        string `json:"code" binding:"required,min=2"`
		Description string `json:"description" binding:"required,min=5"`
		SponsorID   string `json:"sponsorId" binding:"required"`
		Status      string `json:"status" binding:"required,oneof=Ongoing Completed 'On Hold'"`
	}

	WorkPerformed struct {
		ID          string `json:"id"`
		Name        string `json:"name" binding:"required,min=2"`
		Description string `json:"description" binding:"required,min=5"`
		Status      string `json:"status" binding:"required,oneof=Pending 'In Progress' Completed"`
	}

	// SdcTrackingEntry is one Source Document Collection visit
	SdcTrackingEntry struct {
		ID                    string `json:"id"`
		SdcPersonnelFirstName string `json:"sdcPersonnelFirstName" binding:"required,min=2"`
		SdcPersonnelLastName  string `json:"sdcPersonnelLastName" binding:"required,min=2"`
		PatientCode           string `json:"patientCode" binding:"required,min=2"`
		Date                  string `json:"date" binding:"required,datetime=2006-01-02"`
		SponsorID             string `json:"sponsorId" binding:"required"`
		CenterID              string `json:"centerId" binding:"required"`
		ResearcherID          string `json:"researcherId" binding:"required"`
		ProjectCodeID         string `json:"projectCodeId" binding:"required"`
		StartTime             string `json:"startTime" binding:"required,hhmm"`
		EndTime               string `json:"endTime" binding:"required,hhmm"`
		CreatedBy             string `json:"createdBy"`
	}

	// SdcWorkPerformedItem is a timed task belonging to a tracking entry
	SdcWorkPerformedItem struct {
		ID                 string `json:"id"`
		SdcTrackingEntryID string `json:"sdcTrackingEntryId" binding:"required"`
		Name               string `json:"name" binding:"required,min=2"`
		StartTime          string `json:"startTime" binding:"required,hhmm"`
		EndTime            string `json:"endTime" binding:"required,hhmm"`
		Notes              string `json:"notes"`
	}
)

func (u User) GetID() string                 { return u.ID }
func (s Sponsor) GetID() string              { return s.ID }
func (c Center) GetID() string               { return c.ID }
func (r Researcher) GetID() string           { return r.ID }
func (p ProjectCode) GetID() string          { return p.ID }
func (w WorkPerformed) GetID() string        { return w.ID }
func (e SdcTrackingEntry) GetID() string     { return e.ID }
func (i SdcWorkPerformedItem) GetID() string { return i.ID }

// Profile strips the password
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}

// Profiles strips passwords from a list of users
func Profiles(users []User) []Profile {
	out := make([]Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out
}
