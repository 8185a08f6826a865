// Package costing is the pure project cost engine: it derives category
// totals, budget variance and profit from a project snapshot. It performs no
// I/O and never mutates its input; malformed numeric data has already been
// normalized to zero by the domain layer, so nothing here can fail.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/paintworks/pw_backend/internal/core/domain"
)

// Category identifies one of the five cost areas a budget can cover.
type Category string

const (
	CategoryHourly   Category = "hourly"
	CategoryBucket   Category = "bucket"
	CategoryPaints   Category = "paints"
	CategoryVehicles Category = "vehicles"
	CategoryOther    Category = "other"
)

// Categories lists the cost areas in report order.
var Categories = []Category{
	CategoryHourly, CategoryBucket, CategoryPaints, CategoryVehicles, CategoryOther,
}

// CategoryUsage is the budget reconciliation for one cost area.
type CategoryUsage struct {
	Used      decimal.Decimal `json:"used"`
	Budget    decimal.Decimal `json:"budget"`
	Remaining decimal.Decimal `json:"remaining"`
	// OverBudget flags negative remaining explicitly so a consumer does not
	// have to inspect the sign.
	OverBudget bool `json:"overBudget"`
	// BudgetUnset distinguishes "no ceiling was ever configured" from an
	// explicit zero ceiling. When set, Budget is zero and any usage at all
	// reads as over budget, deliberately surfacing the unset budget.
	BudgetUnset bool `json:"budgetUnset"`
}

// EmployeePay is an employee line enriched with its computed total pay, so a
// caller can render a line-level breakdown without recomputing.
type EmployeePay struct {
	domain.EmployeeLine
	TotalPay decimal.Decimal `json:"totalPay"`
}

// Report is the full totals/variance report for one project snapshot.
type Report struct {
	Labour       CategoryUsage `json:"labour"`
	BucketLabour CategoryUsage `json:"bucketLabour"`
	Paints       CategoryUsage `json:"paints"`
	Vehicles     CategoryUsage `json:"vehicles"`
	Other        CategoryUsage `json:"other"`

	TotalCost decimal.Decimal `json:"totalCost"`
	Profit    decimal.Decimal `json:"profit"`
	// Loss flags negative profit as an explicit condition.
	Loss           bool            `json:"loss"`
	RemainingToPay decimal.Decimal `json:"remainingToPay"`

	EmployeePays []EmployeePay `json:"employeePays"`
}

// Usage returns the reconciliation for the given category.
func (r Report) Usage(c Category) CategoryUsage {
	switch c {
	case CategoryHourly:
		return r.Labour
	case CategoryBucket:
		return r.BucketLabour
	case CategoryPaints:
		return r.Paints
	case CategoryVehicles:
		return r.Vehicles
	default:
		return r.Other
	}
}

// EmployeePayFor computes one employee line's pay:
// hours x normal rate, plus overtime hours at the overtime rate (falling back
// to the normal rate when no overtime rate is set), plus bonus.
func EmployeePayFor(e domain.EmployeeLine) decimal.Decimal {
	overtimeRate := e.OvertimeRate.Decimal
	if overtimeRate.IsZero() {
		overtimeRate = e.NormalRate.Decimal
	}
	pay := e.Hours.Decimal.Mul(e.NormalRate.Decimal)
	pay = pay.Add(e.OvertimeHours.Decimal.Mul(overtimeRate))
	return pay.Add(e.Bonus.Decimal)
}

// ComputeTotals derives the totals report for a project snapshot.
func ComputeTotals(p domain.Project) Report {
	var report Report

	labour := decimal.Zero
	report.EmployeePays = make([]EmployeePay, 0, len(p.Lines.Employees))
	for _, e := range p.Lines.Employees {
		pay := EmployeePayFor(e)
		labour = labour.Add(pay)
		report.EmployeePays = append(report.EmployeePays, EmployeePay{EmployeeLine: e, TotalPay: pay})
	}

	bucketLabour := decimal.Zero
	for _, b := range p.Lines.BucketLabour {
		bucketLabour = bucketLabour.Add(b.Buckets.Decimal.Mul(b.RatePerBucket.Decimal))
	}

	paints := decimal.Zero
	for _, pl := range p.Lines.Paints {
		paints = paints.Add(pl.Buckets.Decimal.Mul(pl.CostPerBucket.Decimal))
	}

	// Petrol is the trip's precomputed fuel total; the older km x rate
	// convention from early data is not supported.
	vehicles := decimal.Zero
	for _, v := range p.Lines.Vehicles {
		vehicles = vehicles.Add(v.Petrol.Decimal).Add(v.Tolls.Decimal)
	}

	other := decimal.Zero
	for _, e := range p.Lines.Expenses {
		other = other.Add(e.Amount.Decimal)
	}

	report.Labour = reconcile(labour, p.Budgets.Hourly)
	report.BucketLabour = reconcile(bucketLabour, p.Budgets.Bucket)
	report.Paints = reconcile(paints, p.Budgets.Paints)
	report.Vehicles = reconcile(vehicles, p.Budgets.Vehicles)
	report.Other = reconcile(other, p.Budgets.Other)

	report.TotalCost = labour.Add(bucketLabour).Add(paints).Add(vehicles).Add(other)
	report.Profit = p.QuotedPrice.Decimal.Sub(report.TotalCost)
	report.Loss = report.Profit.IsNegative()
	report.RemainingToPay = p.QuotedPrice.Decimal.Sub(p.Customer.Paid.Decimal)

	return report
}

func reconcile(used decimal.Decimal, budget *domain.Amount) CategoryUsage {
	u := CategoryUsage{Used: used, Budget: decimal.Zero, BudgetUnset: budget == nil}
	if budget != nil {
		u.Budget = budget.Decimal
	}
	u.Remaining = u.Budget.Sub(used)
	u.OverBudget = u.Remaining.IsNegative()
	return u
}
