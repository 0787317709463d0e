package models

// Option is a value/label pair offered to form clients
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Group string `json:"group,omitempty"`
}

// IndustryOptions lists suggested industries; "best" marks the ideal-fit ones
var IndustryOptions = []Option{
	{Value: "Technology", Label: "Technology", Group: "best"},
	{Value: "Construction", Label: "Construction", Group: "best"},
	{Value: "Finance", Label: "Finance", Group: "best"},
	{Value: "Manufacturing", Label: "Manufacturing", Group: "best"},
	{Value: "Healthcare", Label: "Healthcare", Group: "best"},
	{Value: "Retail", Label: "Retail", Group: "other"},
	{Value: "Education", Label: "Education", Group: "other"},
	{Value: "Real Estate", Label: "Real Estate", Group: "other"},
	{Value: "Transportation", Label: "Transportation", Group: "other"},
	{Value: "Hospitality", Label: "Hospitality", Group: "other"},
	{Value: "Energy", Label: "Energy", Group: "other"},
	{Value: "Agriculture", Label: "Agriculture", Group: "other"},
	{Value: "Media", Label: "Media", Group: "other"},
	{Value: "Other", Label: "Other", Group: "other"},
}

var HeadcountOptions = []Option{
	{Value: "50-99", Label: "50-99"},
	{Value: "100-249", Label: "100-249"},
	{Value: "250-499", Label: "250-499"},
	{Value: "500-1000", Label: "500-1,000"},
	{Value: "1000+", Label: "1,000+"},
}

var OwnerFilterOptions = []Option{
	{Value: string(OwnerFilterAll), Label: "All Leads"},
	{Value: string(OwnerFilterSuperadmin), Label: "Created by me"},
	{Value: string(OwnerFilterPartner), Label: "Created by partners"},
}

// StatusOptions renders LeadStatuses as options
func StatusOptions() []Option {
	opts := make([]Option, 0, len(LeadStatuses))
	for _, s := range LeadStatuses {
		opts = append(opts, Option{Value: string(s), Label: s.Label()})
	}
	return opts
}
