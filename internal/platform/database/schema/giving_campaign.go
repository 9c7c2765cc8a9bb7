package schema

// GivingCampaignTable represents the 'giving.campaign' table
type GivingCampaignTable struct {
	Table        string
	ID           string
	Slug         string
	Title        string
	Organization string
	Description  string
	GoalMinor    string
	RaisedMinor  string
	Currency     string
	IsActive     string
	CreatedAt    string
	UpdatedAt    string
}

// GivingCampaign is the schema definition for giving.campaign
var GivingCampaign = GivingCampaignTable{
	Table:        "giving.campaign",
	ID:           "id",
	Slug:         "slug",
	Title:        "title",
	Organization: "organization",
	Description:  "description",
	GoalMinor:    "goalminor",
	RaisedMinor:  "raisedminor",
	Currency:     "currency",
	IsActive:     "isactive",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
