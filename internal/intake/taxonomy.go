package intake

// Option pairs a stable category id with its human-readable label.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ProblemOptions is the wizard's problem taxonomy.
var ProblemOptions = []Option{
	{ID: "burst-pipe", Label: "Burst Pipe"},
	{ID: "leak", Label: "Water Leak"},
	{ID: "clog", Label: "Clogged Drain"},
	{ID: "no-hot-water", Label: "No Hot Water"},
	{ID: "toilet", Label: "Toilet Issue"},
	{ID: "other", Label: "Other Problem"},
}

// UrgencyOptions is the wizard's urgency taxonomy.
var UrgencyOptions = []Option{
	{ID: "emergency", Label: "Emergency Now!"},
	{ID: "today", Label: "Need Help Today"},
	{ID: "this-week", Label: "This Week"},
	{ID: "scheduled", Label: "Schedule Service"},
}

// LocationOptions is the wizard's location-in-home taxonomy.
var LocationOptions = []Option{
	{ID: "bathroom", Label: "Bathroom"},
	{ID: "kitchen", Label: "Kitchen"},
	{ID: "basement", Label: "Basement"},
	{ID: "outside", Label: "Outside"},
	{ID: "multiple", Label: "Multiple Areas"},
}

func labelFor(opts []Option, id string) (string, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o.Label, true
		}
	}
	return "", false
}
