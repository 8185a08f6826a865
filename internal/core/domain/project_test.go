package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintworks/pw_backend/internal/core/domain"
)

func TestAmountUnmarshalLenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"number", `42.5`, "42.5"},
		{"numeric string", `"17"`, "17"},
		{"padded numeric string", `" 3.20 "`, "3.2"},
		{"null", `null`, "0"},
		{"empty string", `""`, "0"},
		{"free text", `"two buckets"`, "0"},
		{"negative preserved at decode time", `-5`, "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a domain.Amount
			require.NoError(t, json.Unmarshal([]byte(tt.input), &a))
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, a.Decimal.Equal(want), "got %s want %s", a.Decimal, want)
		})
	}
}

func TestAmountMarshalPlainNumber(t *testing.T) {
	out, err := json.Marshal(domain.NewAmount(12.5))
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(out))
}

func TestCustomerUnmarshalBareString(t *testing.T) {
	var c domain.Customer
	require.NoError(t, json.Unmarshal([]byte(`"Walk-in customer"`), &c))
	assert.Equal(t, "Walk-in customer", c.Name)
	assert.Empty(t, c.Email)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ann","email":"ann@x.com","paid":"150"}`), &c))
	assert.Equal(t, "Ann", c.Name)
	assert.True(t, c.Paid.Decimal.Equal(decimal.NewFromInt(150)))
}

func TestPersonRefUnmarshalBareString(t *testing.T) {
	var p domain.PersonRef
	require.NoError(t, json.Unmarshal([]byte(`"Sam"`), &p))
	assert.Equal(t, "Sam", p.Name)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Lee","email":"lee@x.com"}`), &p))
	assert.Equal(t, "lee@x.com", p.Email)
}

func TestDurationTextUnmarshalLenient(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want domain.DurationText
	}{
		{"phrase", `"2 weeks, 3 days"`, "2 weeks, 3 days"},
		{"numeric string", `"80"`, "80"},
		{"number", `80`, "80"},
		{"fractional number", `12.5`, "12.5"},
		{"null", `null`, ""},
		{"object garbage", `{"hours":80}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d domain.DurationText
			require.NoError(t, json.Unmarshal([]byte(tc.in), &d))
			assert.Equal(t, tc.want, d)
		})
	}
}

func TestProjectUnmarshalNumericDuration(t *testing.T) {
	var p domain.Project
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Shop front","estimatedDuration":80}`), &p))
	assert.Equal(t, domain.DurationText("80"), p.EstimatedDuration)
}

func TestBudgetsUnmarshalGarbage(t *testing.T) {
	var b domain.Budgets
	require.NoError(t, json.Unmarshal([]byte(`"no budgets here"`), &b))
	assert.Nil(t, b.Hourly)
	assert.Nil(t, b.Paints)

	require.NoError(t, json.Unmarshal([]byte(`{"hourly":"900","paints":null,"other":0}`), &b))
	require.NotNil(t, b.Hourly)
	assert.True(t, b.Hourly.Decimal.Equal(decimal.NewFromInt(900)))
	// null leaves the budget unset; an explicit zero sets a zero ceiling.
	assert.Nil(t, b.Paints)
	require.NotNil(t, b.Other)
	assert.True(t, b.Other.Decimal.IsZero())
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		input string
		want  domain.ProjectStatus
	}{
		{"quotation", domain.StatusQuotation},
		{"Approved", domain.StatusApproved},
		{"in progress", domain.StatusInProgress},
		{"inprogress", domain.StatusInProgress},
		{"done", domain.StatusCompleted},
		{"COMPLETE", domain.StatusCompleted},
		{"", domain.StatusQuotation},
		{"garbage", domain.StatusQuotation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.NormalizeStatus(tt.input), "input %q", tt.input)
	}
}

func TestStatusRank(t *testing.T) {
	assert.Less(t, domain.StatusQuotation.Rank(), domain.StatusApproved.Rank())
	assert.Less(t, domain.StatusApproved.Rank(), domain.StatusInProgress.Rank())
	assert.Less(t, domain.StatusInProgress.Rank(), domain.StatusCompleted.Rank())
	// Garbage ranks alongside quotation.
	assert.Equal(t, domain.StatusQuotation.Rank(), domain.ProjectStatus("junk").Rank())
}

func TestProjectNormalize(t *testing.T) {
	p := domain.Project{
		Status:      "something weird",
		QuotedPrice: domain.NewAmount(-100),
	}
	p.Progress.Percent = 150
	p.Customer.Paid = domain.NewAmount(-1)
	p.Lines.Employees = []domain.EmployeeLine{{Hours: domain.NewAmount(-2)}}
	neg := domain.NewAmount(-50)
	p.Budgets.Hourly = &neg

	p.Normalize()

	assert.Equal(t, domain.StatusQuotation, p.Status)
	assert.True(t, p.QuotedPrice.Decimal.IsZero())
	assert.True(t, p.Customer.Paid.Decimal.IsZero())
	assert.Equal(t, 100, p.Progress.Percent)
	assert.True(t, p.Lines.Employees[0].Hours.Decimal.IsZero())
	require.NotNil(t, p.Budgets.Hourly)
	assert.True(t, p.Budgets.Hourly.Decimal.IsZero())

	// All line collections materialize as empty slices.
	assert.NotNil(t, p.Lines.BucketLabour)
	assert.NotNil(t, p.Lines.Paints)
	assert.NotNil(t, p.Lines.Vehicles)
	assert.NotNil(t, p.Lines.Expenses)
}

func TestProjectNormalizeIdempotent(t *testing.T) {
	p := domain.NewProject()
	p.Progress.Percent = -10
	p.Normalize()
	assert.Equal(t, 0, p.Progress.Percent)
	before := p
	p.Normalize()
	assert.Equal(t, before, p)
}
