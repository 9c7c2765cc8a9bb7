package schema

// GivingReceiptTable represents the 'giving.receipt' table
type GivingReceiptTable struct {
	Table        string
	ID           string
	DonationID   string
	AmountMinor  string
	Currency     string
	CampaignName string
	Organization string
	IssuedAt     string
	ContentHash  string
	NFTTokenID   string
	BlockchainTx string
}

// GivingReceipt is the schema definition for giving.receipt
var GivingReceipt = GivingReceiptTable{
	Table:        "giving.receipt",
	ID:           "id",
	DonationID:   "donationid",
	AmountMinor:  "amountminor",
	Currency:     "currency",
	CampaignName: "campaignname",
	Organization: "organization",
	IssuedAt:     "issuedat",
	ContentHash:  "contenthash",
	NFTTokenID:   "nfttokenid",
	BlockchainTx: "blockchaintx",
}
