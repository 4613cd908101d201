package types

import (
	"encoding/json"
	"testing"
	"time"

	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

func TestDateOf(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		loc  *time.Location
		want string
	}{
		{
			name: "utc evening is next day in tokyo",
			at:   time.Date(2024, 6, 30, 16, 0, 0, 0, time.UTC),
			loc:  jst,
			want: "2024-07-01",
		},
		{
			name: "utc evening is same day in utc",
			at:   time.Date(2024, 6, 30, 16, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: "2024-06-30",
		},
		{
			name: "nil location falls back to utc",
			at:   time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
			loc:  nil,
			want: "2024-02-29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateOf(tt.at, tt.loc).String())
		})
	}
}

func TestDate_DaysUntil(t *testing.T) {
	tests := []struct {
		name string
		from Date
		to   Date
		want int
	}{
		{"thirty day june", NewDate(2024, 6, 1), NewDate(2024, 7, 1), 30},
		{"leap february", NewDate(2024, 2, 1), NewDate(2024, 3, 1), 29},
		{"non leap february", NewDate(2023, 2, 1), NewDate(2023, 3, 1), 28},
		{"same day", NewDate(2024, 6, 16), NewDate(2024, 6, 16), 0},
		{"backwards", NewDate(2024, 6, 16), NewDate(2024, 6, 1), -15},
		{"across year", NewDate(2024, 12, 20), NewDate(2025, 1, 20), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.DaysUntil(tt.to))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-16")
	require.NoError(t, err)
	assert.True(t, d.Equal(NewDate(2024, time.June, 16)))

	_, err = ParseDate("16/06/2024")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	out, err := json.Marshal(payload{Date: NewDate(2024, 7, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-07-01"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-01"}`), &in))
	assert.Equal(t, "2024-06-01", in.Date.String())

	err = json.Unmarshal([]byte(`{"date":20240601}`), &in)
	require.Error(t, err)
}

func TestOptionalDate_JSON(t *testing.T) {
	type payload struct {
		EffectiveDate OptionalDate `json:"effectiveDate"`
	}

	tests := []struct {
		name    string
		input   string
		present bool
		want    string
	}{
		{"absent field", `{}`, false, ""},
		{"explicit null", `{"effectiveDate":null}`, false, ""},
		{"empty string", `{"effectiveDate":""}`, false, ""},
		{"present", `{"effectiveDate":"2024-06-16"}`, true, "2024-06-16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			d, ok := p.EffectiveDate.Get()
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}

	out, err := json.Marshal(payload{EffectiveDate: NoDate()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"effectiveDate":null}`, string(out))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-01", d.String())

	require.NoError(t, d.Scan("2024-07-01T00:00:00Z"))
	assert.Equal(t, "2024-07-01", d.String())

	assert.Error(t, d.Scan(42))
}
