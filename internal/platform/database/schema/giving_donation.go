package schema

// GivingDonationTable represents the 'giving.donation' table
type GivingDonationTable struct {
	Table         string
	ID            string
	DonorID       string
	CampaignID    string
	AmountMinor   string
	Currency      string
	PaymentMethod string
	Status        string
	CreatedAt     string
	UpdatedAt     string
}

// GivingDonation is the schema definition for giving.donation
var GivingDonation = GivingDonationTable{
	Table:         "giving.donation",
	ID:            "id",
	DonorID:       "donorid",
	CampaignID:    "campaignid",
	AmountMinor:   "amountminor",
	Currency:      "currency",
	PaymentMethod: "paymentmethod",
	Status:        "status",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}
