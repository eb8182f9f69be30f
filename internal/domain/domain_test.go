package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    Frequency
		wantErr bool
	}{
		{in: "24h", want: FrequencyDaily},
		{in: "daily", want: FrequencyDaily},
		{in: " Weekly ", want: FrequencyWeekly},
		{in: "monthly", want: FrequencyMonthly},
		{in: "hourly", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFrequency(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrequency_Offset(t *testing.T) {
	day := 24 * time.Hour
	for freq, want := range map[Frequency]time.Duration{
		FrequencyDaily:   day,
		FrequencyWeekly:  7 * day,
		FrequencyMonthly: 30 * day,
	} {
		got, err := freq.Offset()
		require.NoError(t, err)
		assert.Equal(t, want, got, freq)
	}

	_, err := Frequency("yearly").Offset()
	assert.Error(t, err)
}

func TestAutomation_IsDue(t *testing.T) {
	a, err := NewAutomation("alice", uuid.New(), FrequencyDaily, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), a.NextRun)
	assert.True(t, a.IsActive)
	assert.Nil(t, a.LastRun)

	assert.False(t, a.IsDue(now))
	assert.True(t, a.IsDue(a.NextRun), "next_run equal to now is due")
	assert.True(t, a.IsDue(a.NextRun.Add(time.Second)))

	a.IsActive = false
	assert.False(t, a.IsDue(a.NextRun.Add(time.Hour)))
}

func TestAutomation_Advance(t *testing.T) {
	a := Automation{Frequency: FrequencyWeekly}
	last, next, err := a.Advance(now)
	require.NoError(t, err)
	assert.Equal(t, now, last)
	assert.Equal(t, now.Add(7*24*time.Hour), next)

	_, err = NewAutomation("alice", uuid.New(), Frequency("never"), now)
	assert.Error(t, err)
}

func TestResult_WithDefaults(t *testing.T) {
	got := Result{URL: "https://a.example", Title: "t"}.WithDefaults(now)
	assert.Equal(t, Result{
		Title:    "t",
		URL:      "https://a.example",
		Source:   "Unknown",
		Date:     "2025-03-10",
		Category: "Web",
		Status:   "Activo",
		Country:  "Unknown",
		Language: "Unknown",
	}, got)

	kept := Result{Source: "Bing", Date: "2024-01-01", Category: "News", Status: "Cerrado", Country: "ES", Language: "es"}.WithDefaults(now)
	assert.Equal(t, "Bing", kept.Source)
	assert.Equal(t, "2024-01-01", kept.Date)
	assert.Equal(t, "News", kept.Category)
	assert.Equal(t, "Cerrado", kept.Status)
	assert.Equal(t, "ES", kept.Country)
	assert.Equal(t, "es", kept.Language)
}

func TestFilterSet(t *testing.T) {
	f := FilterSet{"language": " Spanish ", "country": "ES"}
	assert.Equal(t, "sp", f.LanguageCode())
	assert.Equal(t, "", FilterSet(nil).LanguageCode())
	assert.Equal(t, "日本", FilterSet{"language": "日本語"}.LanguageCode())
	assert.Equal(t, "ñe", FilterSet{"language": "Ñeengatu"}.LanguageCode())
	assert.Equal(t, "ES", f.Get("country"))

	c := f.Clone()
	c["country"] = "MX"
	assert.Equal(t, "ES", f["country"])
	assert.NotNil(t, FilterSet(nil).Clone())
}

func TestRefine(t *testing.T) {
	results := []Result{
		{URL: "1", Country: "ES", Language: "es", Category: "News", Status: "Activo", Source: "Google"},
		{URL: "2", Country: "MX", Language: "es", Category: "Web", Status: "Activo", Source: "Bing"},
		{URL: "3", Country: "ES", Language: "en", Category: "News", Status: "Activo", Source: "NewsAPI"},
	}

	tests := []struct {
		name    string
		filters FilterSet
		want    []string
	}{
		{name: "no filters", filters: nil, want: []string{"1", "2", "3"}},
		{name: "country", filters: FilterSet{"country": "ES"}, want: []string{"1", "3"}},
		{name: "country and language", filters: FilterSet{"country": "ES", "language": "es"}, want: []string{"1"}},
		{name: "source", filters: FilterSet{"source": "Bing"}, want: []string{"2"}},
		{name: "unknown key ignored", filters: FilterSet{"topic": "energy", "category": "News"}, want: []string{"1", "3"}},
		{name: "exact match only", filters: FilterSet{"country": "es"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Refine(results, tt.filters)
			urls := make([]string, 0, len(got))
			for _, r := range got {
				urls = append(urls, r.URL)
			}
			assert.Equal(t, tt.want, urls)
		})
	}
}

func TestNewPersistedResult(t *testing.T) {
	sq := uuid.New()
	pr := NewPersistedResult(sq, Result{URL: "https://a.example"}, now)
	assert.NotEqual(t, uuid.Nil, pr.ID)
	assert.Equal(t, sq, pr.SavedQueryID)
	assert.Equal(t, now, pr.CreatedAt)
	assert.Equal(t, "Activo", pr.Status)
}
