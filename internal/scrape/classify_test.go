package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lxuuryy/aussie-dashboard-sub004/internal/port"
)

func TestClassifier_GladstonePriority(t *testing.T) {
	t.Parallel()
	c := NewClassifier(port.Gladstone.Rules)

	// A name matching both the LNG and Coal rules takes the earlier rule.
	require.Equal(t, "LNG Tanker", c.Classify("LNG COAL CARRIER", "", ""))
	require.Equal(t, "Coal Carrier", c.Classify("QUEENSLAND COAL", "", ""))
	require.Equal(t, "Alumina Carrier", c.Classify("RTA PIONEER", "", ""))
}

func TestClassifier_DWTThreshold(t *testing.T) {
	t.Parallel()
	c := NewClassifier(port.Gladstone.Rules)

	// No keyword, but deadweight above the coal threshold.
	require.Equal(t, "Coal Carrier", c.Classify("ANONYMOUS SHIP", "", "95,000 Tons"))
}

func TestClassifier_GenericBands(t *testing.T) {
	t.Parallel()
	c := NewClassifier(port.HayPoint.Rules)

	tests := []struct {
		name string
		size string
		want string
	}{
		{name: "large band", size: "250 m", want: "Large Cargo Vessel"},
		{name: "medium band", size: "150 m", want: "Medium Cargo Vessel"},
		{name: "general band", size: "80 m", want: "General Cargo"},
		{name: "coastal band", size: "30 m", want: "Coastal Cargo"},
		{name: "unknown size", size: "---", want: "General Cargo"},
		{name: "unparseable size", size: "big", want: "General Cargo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify("NONDESCRIPT", tt.size, "")
			if got != tt.want {
				t.Fatalf("size %q classified %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

func TestClassifier_Totality(t *testing.T) {
	t.Parallel()

	for _, profile := range port.All() {
		c := NewClassifier(profile.Rules)
		inputs := [][3]string{
			{"", "", ""},
			{"???", "junk", "junk"},
			{"MSC IRINA", "399 m", "240,000 Tons"},
			{"x", "0", "0"},
		}
		for _, in := range inputs {
			got := c.Classify(in[0], in[1], in[2])
			require.NotEmpty(t, got, "port %s inputs %v", profile.Slug, in)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, 199, parseSizeMeters("199 m"))
	require.Equal(t, 0, parseSizeMeters("---"))
	require.Equal(t, 0, parseSizeMeters(""))

	require.Equal(t, 81855, parseTonnage("81,855 Tons"))
	require.Equal(t, 0, parseTonnage("---"))
	require.Equal(t, 120000, parseTonnage("120.000 t"))
}
