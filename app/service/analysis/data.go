package analysis

// Result is the structured output of the analysis oracle. The model is
// untrusted: every field may come back empty and consumers render fallbacks.
type Result struct {
	LeadName               string `json:"leadName,omitempty"`
	Summary                string `json:"summary,omitempty"`
	Temperature            string `json:"temperature,omitempty"`
	SalesInsight           string `json:"salesInsight,omitempty"`
	MeetingDetails         string `json:"meetingDetails,omitempty"`
	ReasonForNotConverting string `json:"reasonForNotConverting,omitempty"`
}
