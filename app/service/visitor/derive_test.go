package visitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{
			name:      "android tablet without mobile marker",
			userAgent: "Mozilla/5.0 (Linux; Android 13; SM-X200) AppleWebKit/537.36 Chrome/120.0 Safari/537.36",
			want:      "Tablet",
		},
		{
			name:      "ipad checked before generic mobile",
			userAgent: "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1",
			want:      "Tablet",
		},
		{
			name:      "android phone",
			userAgent: "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36",
			want:      "Mobile",
		},
		{
			name:      "iphone",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148",
			want:      "Mobile",
		},
		{
			name:      "windows desktop",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36",
			want:      "Desktop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDevice(tt.userAgent))
		})
	}
}

func TestClassifyOS(t *testing.T) {
	// Android agents contain "Linux" too, order matters
	assert.Equal(t, "Android", ClassifyOS("Mozilla/5.0 (Linux; Android 14; Pixel 8)"))
	assert.Equal(t, "iOS", ClassifyOS("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"))
	assert.Equal(t, "Windows", ClassifyOS("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"))
	assert.Equal(t, "macOS", ClassifyOS("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"))
	assert.Equal(t, "Linux", ClassifyOS("Mozilla/5.0 (X11; Linux x86_64)"))
}

func TestClassifyBrowser(t *testing.T) {
	// Edge and Chrome agents both contain "Chrome" and "Safari"
	assert.Equal(t, "Edge", ClassifyBrowser("Mozilla/5.0 Chrome/120.0 Safari/537.36 Edg/120.0"))
	assert.Equal(t, "Chrome", ClassifyBrowser("Mozilla/5.0 Chrome/120.0 Safari/537.36"))
	assert.Equal(t, "Firefox", ClassifyBrowser("Mozilla/5.0 Gecko/20100101 Firefox/121.0"))
	assert.Equal(t, "Safari", ClassifyBrowser("Mozilla/5.0 Version/17.0 Safari/605.1.15"))
}

func TestTrafficSource(t *testing.T) {
	assert.Equal(t, "", TrafficSource("", "example.com"))
	assert.Equal(t, "www.instagram.com", TrafficSource("https://www.instagram.com/p/abc", "example.com"))
	assert.Equal(t, "", TrafficSource("https://example.com/pricing", "example.com"))
	assert.Equal(t, "", TrafficSource("https://EXAMPLE.com/pricing", "example.com"))
	assert.Equal(t, "not a referrer", TrafficSource("not a referrer", "example.com"))
}

func TestNormalizeFoldsRawSignals(t *testing.T) {
	loadedAt := time.Now().Add(-90 * time.Second).UnixMilli()
	c := &Context{
		Behavioral: &Behavioral{
			ScrollSamples: []float64{10, 50, 30, 70},
			PageLoadedAt:  &loadedAt,
		},
	}

	Normalize(c)

	assert.Equal(t, 70, c.Behavioral.ScrollDepth)
	assert.Nil(t, c.Behavioral.ScrollSamples)
	assert.Nil(t, c.Behavioral.PageLoadedAt)

	require.NotNil(t, c.Behavioral.TimeOnPageBeforeChat)
	assert.InDelta(t, 90, *c.Behavioral.TimeOnPageBeforeChat, 2)
}

func TestNormalizeKeepsClientComputedTimeOnPage(t *testing.T) {
	loadedAt := time.Now().Add(-90 * time.Second).UnixMilli()
	seconds := 12
	c := &Context{
		Behavioral: &Behavioral{
			TimeOnPageBeforeChat: &seconds,
			PageLoadedAt:         &loadedAt,
		},
	}

	Normalize(c)

	require.NotNil(t, c.Behavioral.TimeOnPageBeforeChat)
	assert.Equal(t, 12, *c.Behavioral.TimeOnPageBeforeChat)
}

func TestNormalizeToleratesMissingSections(t *testing.T) {
	Normalize(nil)
	Normalize(&Context{})
}

func TestWithFallback(t *testing.T) {
	fallback := &Context{
		Technical: &Technical{Device: "Desktop"},
		Page:      &Page{TrafficSource: "www.instagram.com"},
	}

	assert.Same(t, fallback, WithFallback(nil, fallback))

	client := &Context{
		Technical: &Technical{Device: "Mobile"},
	}
	merged := WithFallback(client, fallback)

	assert.Equal(t, "Mobile", merged.Technical.Device)
	assert.Equal(t, "www.instagram.com", merged.Page.TrafficSource)
}
