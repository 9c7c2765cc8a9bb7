package schema

// GivingDonorTable represents the 'giving.donor' table
type GivingDonorTable struct {
	Table     string
	ID        string
	UserID    string
	FullName  string
	Country   string
	CreatedAt string
}

// GivingDonor is the schema definition for giving.donor
var GivingDonor = GivingDonorTable{
	Table:     "giving.donor",
	ID:        "id",
	UserID:    "userid",
	FullName:  "fullname",
	Country:   "country",
	CreatedAt: "createdat",
}
