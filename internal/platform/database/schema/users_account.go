package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	PhoneNumber string
	PIN         string
	Role        string
	DisplayName string
	DonorID     string
	IsVerified  string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	PhoneNumber: "phonenumber",
	PIN:         "pinhash",
	Role:        "role",
	DisplayName: "displayname",
	DonorID:     "donorid",
	IsVerified:  "isverified",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}
