package visitor

// ConsentStatus describes the outcome of the browser geolocation prompt.
type ConsentStatus string

const (
	ConsentNotRequested ConsentStatus = "not_requested"
	ConsentGranted      ConsentStatus = "granted"
	ConsentDenied       ConsentStatus = "denied"
	ConsentUnsupported  ConsentStatus = "unsupported"
)

// Context is the bundle of signals collected about a visitor's session.
// Every section is optional: geolocation resolves asynchronously in the
// browser and beacon payloads may arrive with nothing but a transcript.
type Context struct {
	Technical    *Technical    `json:"technical,omitempty"`
	Geographical *Geographical `json:"geographical,omitempty"`
	Page         *Page         `json:"context,omitempty"`
	Behavioral   *Behavioral   `json:"behavioral,omitempty"`
}

type Technical struct {
	Device           string `json:"device,omitempty"`
	OS               string `json:"os,omitempty"`
	Browser          string `json:"browser,omitempty"`
	ScreenResolution string `json:"screenResolution,omitempty"`
	Language         string `json:"language,omitempty"`
}

type Geographical struct {
	Timezone string    `json:"timezone,omitempty"`
	Location *Location `json:"location,omitempty"`
}

type Location struct {
	Status    ConsentStatus `json:"status,omitempty"`
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
}

type Page struct {
	AccessTimestamp string `json:"accessTimestamp,omitempty"`
	TrafficSource   string `json:"trafficSource,omitempty"`
	LandingPage     string `json:"landingPage,omitempty"`
}

type Behavioral struct {
	// Seconds between page load and the first chat message, frozen once computed
	TimeOnPageBeforeChat *int `json:"timeOnPageBeforeChat,omitempty"`
	// Max scroll depth reached, percent of scrollable height
	ScrollDepth int `json:"scrollDepth,omitempty"`

	// Raw signals from clients that do not aggregate locally,
	// folded into the fields above by Normalize and then dropped
	ScrollSamples []float64 `json:"scrollSamples,omitempty"`
	PageLoadedAt  *int64    `json:"pageLoadedAt,omitempty"`
}
