package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		def      float64
		expected float64
	}{
		{name: "plain", in: "42", def: 0, expected: 42},
		{name: "decimal", in: "3.5", def: 0, expected: 3.5},
		{name: "thousands separator", in: "1,200", def: 0, expected: 1200},
		{name: "padded", in: "  7 ", def: 0, expected: 7},
		{name: "blank uses default", in: "", def: 9, expected: 9},
		{name: "garbage uses default", in: "n/a", def: 9, expected: 9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SafeFloat(tc.in, tc.def))
		})
	}
}

func TestSafeInt(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		def      int
		expected int
	}{
		{name: "plain", in: "5", def: 0, expected: 5},
		{name: "negative", in: "-1", def: 0, expected: -1},
		{name: "float formatted", in: "3.0", def: 0, expected: 3},
		{name: "blank uses default", in: "", def: 7, expected: 7},
		{name: "garbage uses default", in: "x", def: 7, expected: 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SafeInt(tc.in, tc.def))
		})
	}
}

func TestParseFollowers(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected float64
		ok       bool
	}{
		{name: "thousands suffix", in: "56.1K", expected: 56100, ok: true},
		{name: "millions suffix", in: "1.2M", expected: 1200000, ok: true},
		{name: "billions suffix", in: "2B", expected: 2000000000, ok: true},
		{name: "lowercase suffix", in: "3k", expected: 3000, ok: true},
		{name: "bare number", in: "420", expected: 420, ok: true},
		{name: "with separator", in: "1,500", expected: 1500, ok: true},
		{name: "blank", in: "", ok: false},
		{name: "garbage", in: "muchos", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseFollowers(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
		ok       bool
	}{
		{name: "date only", in: "2023-03-10", expected: "2023-03-10", ok: true},
		{name: "with time", in: "2023-03-10 14:02:00", expected: "2023-03-10", ok: true},
		{name: "rfc3339", in: "2023-03-10T14:02:00Z", expected: "2023-03-10", ok: true},
		{name: "day first", in: "10/03/2023", expected: "2023-03-10", ok: true},
		{name: "blank", in: "", ok: false},
		{name: "garbage", in: "ayer", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDate(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got.Format("2006-01-02"))
			}
		})
	}
}

func TestNormalizePerspective(t *testing.T) {
	assert.Equal(t, "izquierda", NormalizePerspective("Izquierda"))
	assert.Equal(t, "derecha", NormalizePerspective(" derecha "))
	assert.Equal(t, "Sin clasificar", NormalizePerspective("?"))
	assert.Equal(t, "Sin clasificar", NormalizePerspective(""))
	assert.Equal(t, "Sin clasificar", NormalizePerspective("unknown"))
	assert.Equal(t, "ecologista", NormalizePerspective("ecologista"))
}

func TestValueCounts(t *testing.T) {
	table := NewTable([]string{"color"}, []Row{
		{"color": "rojo"},
		{"color": "azul"},
		{"color": "rojo"},
		{"color": " "},
		{"color": "verde"},
		{"color": "azul"},
	})

	counts := table.ValueCounts("color")

	assert.Equal(t, []ValueCount{
		{Value: "azul", Count: 2},
		{Value: "rojo", Count: 2},
		{Value: "verde", Count: 1},
	}, counts)
}

func TestFilterSharesRows(t *testing.T) {
	rows := []Row{
		{"n": "1"},
		{"n": "2"},
		{"n": "3"},
	}
	table := NewTable([]string{"n"}, rows)

	odd := table.Filter(func(r Row) bool { return r["n"] != "2" })

	assert.Equal(t, 2, odd.Len())
	assert.Equal(t, 3, table.Len())
	// Derived views alias the source row maps instead of copying them.
	odd.Rows[0]["seen"] = "yes"
	assert.Equal(t, "yes", rows[0]["seen"])
}

func TestCollectionGetAbsent(t *testing.T) {
	c := Collection{Accounts: NewTable([]string{ColUsername}, []Row{{ColUsername: "ana"}})}

	assert.Equal(t, 1, c.Get(Accounts).Len())
	assert.True(t, c.Get(Words).Empty())
	assert.Equal(t, 1, c.TotalRows())
}
