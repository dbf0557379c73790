package entity

// Descriptor configures how one entity type is stored: the index it lives
// in, the value new records start from and the records seeded into an
// empty index.
type Descriptor[T Record] struct {
	Name      string
	IndexName string
	Initial   T
	Seed      []T
}

// SuperAdminID is the id of the permanent Level 3 account
const SuperAdminID = "user-001"

// Users seeds the default super admin account
var Users = UserDescriptor(SuperAdmin("MLS", "2008"))

var (
	Sponsors = Descriptor[Sponsor]{
		Name:      "sponsors",
		IndexName: "sponsors",
		Initial:   Sponsor{Status: "Inactive"},
		Seed:      seedSponsors,
	}
	Centers = Descriptor[Center]{
		Name:      "centers",
		IndexName: "centers",
		Initial:   Center{Status: "Inactive"},
		Seed:      seedCenters,
	}
	Researchers = Descriptor[Researcher]{
		Name:      "researchers",
		IndexName: "researchers",
		Seed:      seedResearchers,
	}
	ProjectCodes = Descriptor[ProjectCode]{
		Name:      "project-codes",
		IndexName: "projectCodes",
		Initial:   ProjectCode{Status: "On Hold"},
		Seed:      seedProjectCodes,
	}
	WorkPerformedCatalog = Descriptor[WorkPerformed]{
		Name:      "work-performed",
		IndexName: "workPerformed",
		Initial:   WorkPerformed{Status: "Pending"},
		Seed:      seedWorkPerformed,
	}
	SdcTrackingEntries = Descriptor[SdcTrackingEntry]{
		Name:      "sdc-tracking",
		IndexName: "sdcTrackingEntries",
		Seed:      seedSdcTrackingEntries,
	}
	SdcWorkPerformedItems = Descriptor[SdcWorkPerformedItem]{
		Name:      "sdc-work-items",
		IndexName: "sdcWorkPerformedItems",
		Seed:      seedSdcWorkPerformedItems,
	}
)

// UserDescriptor describes the users collection seeded with admin
func UserDescriptor(admin User) Descriptor[User] {
	return Descriptor[User]{
		Name:      "users",
		IndexName: "users",
		Initial:   User{Role: RoleLevel1},
		Seed:      []User{admin},
	}
}

// SuperAdmin returns the permanent Level 3 account with the given credentials
func SuperAdmin(username, password string) User {
	return User{
		ID:        SuperAdminID,
		Username:  username,
		Password:  password,
		Role:      RoleLevel3,
		CreatedAt: "2023-01-15T10:00:00Z",
	}
}
