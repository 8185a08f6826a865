package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusQuotation  ProjectStatus = "quotation"
	StatusApproved   ProjectStatus = "approved"
	StatusInProgress ProjectStatus = "in-progress"
	StatusCompleted  ProjectStatus = "completed"
)

// statusOrder is the fixed lifecycle sequence, used for status sorting.
var statusOrder = map[ProjectStatus]int{
	StatusQuotation:  0,
	StatusApproved:   1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

// NormalizeStatus coerces arbitrary input to one of the four statuses.
// Unknown values default to quotation.
func NormalizeStatus(s string) ProjectStatus {
	switch ProjectStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusApproved:
		return StatusApproved
	case StatusInProgress, "in progress", "inprogress":
		return StatusInProgress
	case StatusCompleted, "complete", "done":
		return StatusCompleted
	default:
		return StatusQuotation
	}
}

// Rank returns the position of the status in the lifecycle sequence.
func (s ProjectStatus) Rank() int {
	return statusOrder[NormalizeStatus(string(s))]
}

// Customer is the paying party on a project. Legacy documents sometimes hold
// a bare string here; UnmarshalJSON preserves such values as the name.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Paid  Amount `json:"paid"`
}

func (c *Customer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Customer{Name: s}
		return nil
	}
	type plain Customer
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*c = Customer{}
		return nil
	}
	*c = Customer(p)
	return nil
}

// PersonRef is a name/email pair (e.g. the project manager). Bare-string
// legacy values normalize to the name sub-field.
type PersonRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *PersonRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PersonRef{Name: s}
		return nil
	}
	type plain PersonRef
	var pl plain
	if err := json.Unmarshal(data, &pl); err != nil {
		*p = PersonRef{}
		return nil
	}
	*p = PersonRef(pl)
	return nil
}

// DurationText is a schedule estimate: either a bare hour count or a phrase
// like "2 weeks, 3 days". Legacy documents sometimes store the hour count as
// a JSON number; it decodes to its string form so the parser sees a single
// representation. Garbage decodes to empty, never an error.
type DurationText string

func (d *DurationText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = DurationText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*d = DurationText(n.String())
		return nil
	}
	*d = ""
	return nil
}

// Budgets holds the per-category cost ceilings. A nil pointer means the
// budget was never configured, as opposed to an explicit zero ceiling; the
// cost engine surfaces the two differently.
type Budgets struct {
	Hourly   *Amount `json:"hourly,omitempty"`
	Bucket   *Amount `json:"bucket,omitempty"`
	Paints   *Amount `json:"paints,omitempty"`
	Vehicles *Amount `json:"vehicles,omitempty"`
	Other    *Amount `json:"other,omitempty"`
}

func (b *Budgets) UnmarshalJSON(data []byte) error {
	type plain Budgets
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		// Bare string or other garbage from legacy writes: no budgets set.
		*b = Budgets{}
		return nil
	}
	*b = Budgets(p)
	return nil
}

// Progress records the declared completion state of a project.
type Progress struct {
	Percent   int    `json:"percent"`
	Comment   string `json:"comment"`
	UpdatedAt string `json:"updatedAt"` // ISO timestamp, may be empty
}

// Feedback is optional customer-submitted feedback on a project.
type Feedback struct {
	Rating        int    `json:"rating"`
	Comments      string `json:"comments"`
	Date          string `json:"date"` // ISO timestamp
	CustomerEmail string `json:"customerEmail"`
}

// ProgressLogEntry is one append-only progress history record.
type ProgressLogEntry struct {
	Action string `json:"action"`
	User   string `json:"user"`
	Date   string `json:"date"` // ISO timestamp
}

// EmployeeLine is one employee row in the labour cost table.
type EmployeeLine struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	Hours         Amount `json:"hours"`
	OvertimeHours Amount `json:"overtimeHours"`
	NormalRate    Amount `json:"normalRate"`
	OvertimeRate  Amount `json:"overtimeRate"`
	Bonus         Amount `json:"bonus"`
}

// BucketLabourLine is per-bucket contract labour.
type BucketLabourLine struct {
	Name          string `json:"name"`
	Buckets       Amount `json:"buckets"`
	RatePerBucket Amount `json:"ratePerBucket"`
}

// PaintLine is one paint purchase row.
type PaintLine struct {
	Type          string `json:"type"`
	Color         string `json:"color"`
	Buckets       Amount `json:"buckets"`
	Supplier      string `json:"supplier"`
	DateBought    string `json:"dateBought"`
	CostPerBucket Amount `json:"costPerBucket"`
}

// VehicleLine is one vehicle trip row. Petrol is the already-computed fuel
// cost for the trip, not a per-kilometre rate.
type VehicleLine struct {
	Driver      string `json:"driver"`
	Car         string `json:"car"`
	Purpose     string `json:"purpose"`
	Petrol      Amount `json:"petrol"`
	Tolls       Amount `json:"tolls"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Notes       string `json:"notes"`
}

// ExpenseLine is one miscellaneous expense row.
type ExpenseLine struct {
	Type   string `json:"type"`
	Amount Amount `json:"amount"`
	Notes  string `json:"notes"`
}

// ProjectLines holds the five independent line-item collections. Every
// collection is always present as a (possibly empty) ordered list.
type ProjectLines struct {
	Employees    []EmployeeLine     `json:"employees"`
	BucketLabour []BucketLabourLine `json:"bucketLabour"`
	Paints       []PaintLine        `json:"paints"`
	Vehicles     []VehicleLine      `json:"vehicles"`
	Expenses     []ExpenseLine      `json:"expenses"`
}

// Project is the central entity: one paint-contracting job, from quotation
// through completion, with its full cost breakdown.
type Project struct {
	ProjectID         string             `json:"projectID"`
	Name              string             `json:"name"`
	Location          string             `json:"location"`
	Status            ProjectStatus      `json:"status"`
	Notes             string             `json:"notes"`
	InternalNotes     string             `json:"internalNotes"`
	Customer          Customer           `json:"customer"`
	ProjectManager    PersonRef          `json:"projectManager"`
	QuotedPrice       Amount             `json:"quotedPrice"`
	EstimatedDuration DurationText       `json:"estimatedDuration"`
	HoursWorked       Amount             `json:"hoursWorked"`
	Progress          Progress           `json:"progress"`
	Budgets           Budgets            `json:"budgets"`
	Lines             ProjectLines       `json:"lines"`
	Feedback          *Feedback          `json:"feedback,omitempty"`
	ProgressLog       []ProgressLogEntry `json:"progressLog,omitempty"`
	OwnerID           string             `json:"ownerID"`
	CreatedAt         time.Time          `json:"createdAt"`
	ModifiedAt        time.Time          `json:"modifiedAt"`
}

// NewProject returns an empty project with all required structure present.
func NewProject() Project {
	p := Project{Status: StatusQuotation}
	p.Normalize()
	return p
}

// Normalize enforces the structural invariants on a loaded project: line
// collections are never nil, status is one of the four enumerated values,
// stored monetary/hour fields are non-negative and progress percent is
// clamped to [0, 100]. Safe to call repeatedly.
func (p *Project) Normalize() {
	p.Status = NormalizeStatus(string(p.Status))

	if p.Lines.Employees == nil {
		p.Lines.Employees = []EmployeeLine{}
	}
	if p.Lines.BucketLabour == nil {
		p.Lines.BucketLabour = []BucketLabourLine{}
	}
	if p.Lines.Paints == nil {
		p.Lines.Paints = []PaintLine{}
	}
	if p.Lines.Vehicles == nil {
		p.Lines.Vehicles = []VehicleLine{}
	}
	if p.Lines.Expenses == nil {
		p.Lines.Expenses = []ExpenseLine{}
	}

	for i := range p.Lines.Employees {
		e := &p.Lines.Employees[i]
		e.Hours = e.Hours.Clamped()
		e.OvertimeHours = e.OvertimeHours.Clamped()
		e.NormalRate = e.NormalRate.Clamped()
		e.OvertimeRate = e.OvertimeRate.Clamped()
		e.Bonus = e.Bonus.Clamped()
	}
	for i := range p.Lines.BucketLabour {
		b := &p.Lines.BucketLabour[i]
		b.Buckets = b.Buckets.Clamped()
		b.RatePerBucket = b.RatePerBucket.Clamped()
	}
	for i := range p.Lines.Paints {
		pl := &p.Lines.Paints[i]
		pl.Buckets = pl.Buckets.Clamped()
		pl.CostPerBucket = pl.CostPerBucket.Clamped()
	}
	for i := range p.Lines.Vehicles {
		v := &p.Lines.Vehicles[i]
		v.Petrol = v.Petrol.Clamped()
		v.Tolls = v.Tolls.Clamped()
	}
	for i := range p.Lines.Expenses {
		p.Lines.Expenses[i].Amount = p.Lines.Expenses[i].Amount.Clamped()
	}

	p.QuotedPrice = p.QuotedPrice.Clamped()
	p.HoursWorked = p.HoursWorked.Clamped()
	p.Customer.Paid = p.Customer.Paid.Clamped()

	clampBudget := func(a *Amount) *Amount {
		if a == nil {
			return nil
		}
		c := a.Clamped()
		return &c
	}
	p.Budgets.Hourly = clampBudget(p.Budgets.Hourly)
	p.Budgets.Bucket = clampBudget(p.Budgets.Bucket)
	p.Budgets.Paints = clampBudget(p.Budgets.Paints)
	p.Budgets.Vehicles = clampBudget(p.Budgets.Vehicles)
	p.Budgets.Other = clampBudget(p.Budgets.Other)

	if p.Progress.Percent < 0 {
		p.Progress.Percent = 0
	} else if p.Progress.Percent > 100 {
		p.Progress.Percent = 100
	}
}
