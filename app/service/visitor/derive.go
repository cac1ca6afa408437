package visitor

import (
	"net/url"
	"strings"
	"time"
)

var mobileMarkers = []string{
	"mobi", "iphone", "ipod", "android", "blackberry", "iemobile",
	"kindle", "opera mini", "webos",
}

// ClassifyDevice buckets a user agent into Tablet, Mobile or Desktop.
// Tablet patterns are checked before the generic mobile ones: most tablet
// agents also match a mobile marker.
func ClassifyDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)

	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") ||
		strings.Contains(ua, "playbook") || strings.Contains(ua, "silk") ||
		(strings.Contains(ua, "android") && !strings.Contains(ua, "mobi")) {
		return "Tablet"
	}

	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return "Mobile"
		}
	}

	return "Desktop"
}

func ClassifyOS(userAgent string) string {
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "like mac"):
		return "iOS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "win"):
		return "Windows"
	case strings.Contains(ua, "mac"):
		return "macOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	}

	return "Unknown"
}

func ClassifyBrowser(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Edg"):
		return "Edge"
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	}

	return "Unknown"
}

// TrafficSource derives the referring hostname, or "" for direct traffic and
// same-site navigation. An unparseable referrer is returned as-is.
func TrafficSource(referrer, ownHost string) string {
	if referrer == "" {
		return ""
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return referrer
	}

	if strings.EqualFold(u.Hostname(), ownHost) {
		return ""
	}

	return u.Hostname()
}

// FromRequest builds a fallback context from request headers, used when the
// client sent no collector payload (beacon-only or script-degraded sessions).
func FromRequest(userAgent, referrer, host string) *Context {
	c := &Context{}

	if userAgent != "" {
		c.Technical = &Technical{
			Device:  ClassifyDevice(userAgent),
			OS:      ClassifyOS(userAgent),
			Browser: ClassifyBrowser(userAgent),
		}
	}

	c.Page = &Page{
		AccessTimestamp: time.Now().UTC().Format(time.RFC3339),
		TrafficSource:   TrafficSource(referrer, host),
	}

	return c
}

// WithFallback fills sections missing from the client context with
// server-derived ones. A nil client context yields the fallback itself.
func WithFallback(c, fallback *Context) *Context {
	if c == nil {
		return fallback
	}
	if fallback == nil {
		return c
	}

	if c.Technical == nil {
		c.Technical = fallback.Technical
	}
	if c.Geographical == nil {
		c.Geographical = fallback.Geographical
	}
	if c.Page == nil {
		c.Page = fallback.Page
	}
	if c.Behavioral == nil {
		c.Behavioral = fallback.Behavioral
	}

	return c
}

// Normalize folds raw behavioral signals into their aggregate form: scroll
// samples collapse to the monotonic max, a page-load timestamp becomes a
// frozen time-on-page when the client did not compute one itself.
func Normalize(c *Context) {
	if c == nil || c.Behavioral == nil {
		return
	}

	b := c.Behavioral

	var loadedAt time.Time
	if b.PageLoadedAt != nil {
		loadedAt = time.UnixMilli(*b.PageLoadedAt)
	} else {
		loadedAt = time.Now()
	}

	tracker := NewTracker(loadedAt)
	tracker.Observe(float64(b.ScrollDepth))
	for _, sample := range b.ScrollSamples {
		tracker.Observe(sample)
	}
	b.ScrollDepth = tracker.MaxScrollDepth()
	b.ScrollSamples = nil

	if b.TimeOnPageBeforeChat == nil && b.PageLoadedAt != nil {
		seconds := int(tracker.TimeOnPage().Round(time.Second).Seconds())
		if seconds < 0 {
			seconds = 0
		}
		b.TimeOnPageBeforeChat = &seconds
	}
	b.PageLoadedAt = nil
}
