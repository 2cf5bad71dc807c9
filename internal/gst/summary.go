package gst

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit is the unit reported for HSN rows when no line supplies one.
const DefaultUnit = "NOS"

// Invoice is the engine's view of an issued invoice.
type Invoice struct {
	Number        string               `json:"number"`
	Date          time.Time            `json:"date"`
	CustomerName  string               `json:"customer_name"`
	CustomerGSTIN string               `json:"customer_gstin"`
	PlaceOfSupply StateCode            `json:"place_of_supply"`
	Supply        SupplyClassification `json:"supply,omitempty"`
	Lines         []LineItem           `json:"lines"`
	// Declared carries totals stored with the invoice. When set, its total is
	// the invoice value used for B2C large/small classification.
	Declared *InvoiceTotals `json:"declared,omitempty"`
}

// SummaryOptions tune Summarize.
type SummaryOptions struct {
	// HomeState is the issuing business's state. When set it decides the
	// supply classification of every invoice and enables the intra/inter
	// split of state buckets. When empty, each invoice's Supply is used.
	HomeState   StateCode
	DefaultUnit string
}

// Bucket is the common aggregate of every dimension.
type Bucket struct {
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Count         int             `json:"count"`
}

func (b *Bucket) addLine(r *LineResult) {
	b.TaxableAmount = b.TaxableAmount.Add(r.TaxableAmount)
	b.CGST = b.CGST.Add(r.CGSTAmount)
	b.SGST = b.SGST.Add(r.SGSTAmount)
	b.IGST = b.IGST.Add(r.IGSTAmount)
	b.TotalAmount = b.TotalAmount.Add(r.TotalAmount)
}

func (b *Bucket) addTotals(t *InvoiceTotals) {
	b.TaxableAmount = b.TaxableAmount.Add(t.TaxableAmount)
	b.CGST = b.CGST.Add(t.CGSTAmount)
	b.SGST = b.SGST.Add(t.SGSTAmount)
	b.IGST = b.IGST.Add(t.IGSTAmount)
	b.TotalAmount = b.TotalAmount.Add(t.TotalAmount)
}

func (b *Bucket) merge(o *Bucket) {
	b.TaxableAmount = b.TaxableAmount.Add(o.TaxableAmount)
	b.CGST = b.CGST.Add(o.CGST)
	b.SGST = b.SGST.Add(o.SGST)
	b.IGST = b.IGST.Add(o.IGST)
	b.TotalAmount = b.TotalAmount.Add(o.TotalAmount)
	b.Count += o.Count
}

// TotalTax is CGST + SGST + IGST.
func (b *Bucket) TotalTax() decimal.Decimal {
	return b.CGST.Add(b.SGST).Add(b.IGST)
}

// HSNBucket aggregates lines sharing an HSN/SAC code. Description is taken
// from the first line seen for the code; later descriptions are ignored.
type HSNBucket struct {
	Bucket
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// StateBucket aggregates invoices by place of supply. Intra and Inter are set
// only when the summary was built with a home state.
type StateBucket struct {
	Bucket
	Name  string  `json:"name"`
	Intra *Bucket `json:"intra_state,omitempty"`
	Inter *Bucket `json:"inter_state,omitempty"`
}

// MonthBucket aggregates invoices by calendar month.
type MonthBucket struct {
	Bucket
	Label string `json:"label"`
}

// RateLine is the per-rate breakdown of a single invoice.
type RateLine struct {
	Rate          TaxRate         `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
}

// InvoiceDocument is the per-invoice record kept in a summary for
// document-level reports such as GSTR-1.
type InvoiceDocument struct {
	Number        string               `json:"number"`
	Date          time.Time            `json:"date"`
	CustomerName  string               `json:"customer_name"`
	CustomerGSTIN string               `json:"customer_gstin"`
	PlaceOfSupply StateCode            `json:"place_of_supply"`
	Supply        SupplyClassification `json:"supply"`
	Totals        InvoiceTotals        `json:"totals"`
	// Value is the raw invoice total: the declared total when one was stored,
	// otherwise the computed total.
	Value decimal.Decimal `json:"value"`
	Rates []RateLine      `json:"rates"`
}

// IsB2B reports whether the customer is GST-registered.
func (d *InvoiceDocument) IsB2B() bool {
	return d.CustomerGSTIN != ""
}

// GSTSummary is the cross-invoice aggregate.
type GSTSummary struct {
	TotalTaxableAmount decimal.Decimal `json:"total_taxable_amount"`
	TotalCGST          decimal.Decimal `json:"total_cgst"`
	TotalSGST          decimal.Decimal `json:"total_sgst"`
	TotalIGST          decimal.Decimal `json:"total_igst"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	InvoiceCount       int             `json:"invoice_count"`

	RateWise  *OrderedBuckets[RateKey, Bucket]       `json:"rate_wise"`
	HSNWise   *OrderedBuckets[HSNKey, HSNBucket]     `json:"hsn_wise"`
	StateWise *OrderedBuckets[StateKey, StateBucket] `json:"state_wise"`
	MonthWise *OrderedBuckets[MonthKey, MonthBucket] `json:"month_wise"`

	Documents []InvoiceDocument `json:"documents"`
}

// NewGSTSummary returns an empty summary with every dimension present.
func NewGSTSummary() *GSTSummary {
	return &GSTSummary{
		RateWise:  NewOrderedBuckets[RateKey, Bucket](),
		HSNWise:   NewOrderedBuckets[HSNKey, HSNBucket](),
		StateWise: NewOrderedBuckets[StateKey, StateBucket](),
		MonthWise: NewOrderedBuckets[MonthKey, MonthBucket](),
		Documents: []InvoiceDocument{},
	}
}

// TotalTax is CGST + SGST + IGST across the summary.
func (s *GSTSummary) TotalTax() decimal.Decimal {
	return s.TotalCGST.Add(s.TotalSGST).Add(s.TotalIGST)
}

// Summarize folds invoices into a GSTSummary. Each invoice is visited once, in
// order, and each of its lines once. Every line of every invoice is validated
// before folding starts, so invalid input never yields a partial summary.
func Summarize(invoices []Invoice, opts SummaryOptions) (*GSTSummary, error) {
	unit := opts.DefaultUnit
	if unit == "" {
		unit = DefaultUnit
	}

	computed := make([]computedInvoice, len(invoices))
	for i := range invoices {
		ci, err := computeInvoice(&invoices[i], opts.HomeState)
		if err != nil {
			return nil, withInvoiceIndex(err, i)
		}
		computed[i] = ci
	}

	s := NewGSTSummary()
	for i := range invoices {
		s.fold(&invoices[i], &computed[i], opts.HomeState, unit)
	}
	return s, nil
}

type computedInvoice struct {
	supply  SupplyClassification
	totals  InvoiceTotals
	results []LineResult
}

func computeInvoice(inv *Invoice, home StateCode) (computedInvoice, error) {
	supply := inv.Supply
	if home != "" {
		if inv.PlaceOfSupply == "" {
			return computedInvoice{}, invalidInput("place_of_supply", "", "required")
		}
		supply = ClassifySupply(home, inv.PlaceOfSupply)
	}
	totals, results, err := AggregateInvoice(inv.Lines, supply)
	if err != nil {
		return computedInvoice{}, err
	}
	return computedInvoice{supply: supply, totals: totals, results: results}, nil
}

func (s *GSTSummary) fold(inv *Invoice, ci *computedInvoice, home StateCode, unit string) {
	t := &ci.totals
	s.TotalTaxableAmount = s.TotalTaxableAmount.Add(t.TaxableAmount)
	s.TotalCGST = s.TotalCGST.Add(t.CGSTAmount)
	s.TotalSGST = s.TotalSGST.Add(t.SGSTAmount)
	s.TotalIGST = s.TotalIGST.Add(t.IGSTAmount)
	s.TotalAmount = s.TotalAmount.Add(t.TotalAmount)
	s.InvoiceCount++

	doc := InvoiceDocument{
		Number:        inv.Number,
		Date:          inv.Date,
		CustomerName:  inv.CustomerName,
		CustomerGSTIN: inv.CustomerGSTIN,
		PlaceOfSupply: inv.PlaceOfSupply,
		Supply:        ci.supply,
		Totals:        *t,
		Value:         t.TotalAmount,
		Rates:         []RateLine{},
	}
	if inv.Declared != nil {
		doc.Value = inv.Declared.TotalAmount
	}

	// Per-line dimensions: rate and HSN.
	for i := range inv.Lines {
		line := &inv.Lines[i]
		r := &ci.results[i]

		rb, _ := s.RateWise.Upsert(RateKey(line.TaxRate), func() *Bucket { return &Bucket{} })
		rb.addLine(r)
		rb.Count++

		hb, _ := s.HSNWise.Upsert(HSNKey(line.HSNCode), func() *HSNBucket {
			u := line.Unit
			if u == "" {
				u = unit
			}
			return &HSNBucket{Description: line.Description, Unit: u}
		})
		hb.addLine(r)
		hb.Quantity = hb.Quantity.Add(line.Quantity)
		hb.Count++

		doc.Rates = addRateLine(doc.Rates, line.TaxRate, r)
	}

	// Per-invoice dimensions: state and month. Zero-line invoices still count.
	sb, _ := s.StateWise.Upsert(StateKey(inv.PlaceOfSupply), func() *StateBucket {
		b := &StateBucket{Name: inv.PlaceOfSupply.Name()}
		if home != "" {
			b.Intra = &Bucket{}
			b.Inter = &Bucket{}
		}
		return b
	})
	sb.addTotals(t)
	sb.Count++
	if home != "" {
		sub := sb.Inter
		if inv.PlaceOfSupply == home {
			sub = sb.Intra
		}
		sub.addTotals(t)
		sub.Count++
	}

	mk := MonthOf(inv.Date)
	mb, _ := s.MonthWise.Upsert(mk, func() *MonthBucket { return &MonthBucket{Label: mk.Label()} })
	mb.addTotals(t)
	mb.Count++

	s.Documents = append(s.Documents, doc)
}

func addRateLine(lines []RateLine, rate TaxRate, r *LineResult) []RateLine {
	for i := range lines {
		if lines[i].Rate == rate {
			lines[i].TaxableAmount = lines[i].TaxableAmount.Add(r.TaxableAmount)
			lines[i].CGST = lines[i].CGST.Add(r.CGSTAmount)
			lines[i].SGST = lines[i].SGST.Add(r.SGSTAmount)
			lines[i].IGST = lines[i].IGST.Add(r.IGSTAmount)
			return lines
		}
	}
	return append(lines, RateLine{
		Rate:          rate,
		TaxableAmount: r.TaxableAmount,
		CGST:          r.CGSTAmount,
		SGST:          r.SGSTAmount,
		IGST:          r.IGSTAmount,
	})
}

// Merge folds other into s bucket by bucket. Keys new to s are appended in
// other's order; HSN descriptions and units already in s are kept.
// Summarizing [A, B] and merging [C] equals summarizing [A, B, C].
func (s *GSTSummary) Merge(other *GSTSummary) {
	if other == nil {
		return
	}
	s.ensureDimensions()
	s.TotalTaxableAmount = s.TotalTaxableAmount.Add(other.TotalTaxableAmount)
	s.TotalCGST = s.TotalCGST.Add(other.TotalCGST)
	s.TotalSGST = s.TotalSGST.Add(other.TotalSGST)
	s.TotalIGST = s.TotalIGST.Add(other.TotalIGST)
	s.TotalAmount = s.TotalAmount.Add(other.TotalAmount)
	s.InvoiceCount += other.InvoiceCount

	other.RateWise.Each(func(k RateKey, ob *Bucket) {
		b, _ := s.RateWise.Upsert(k, func() *Bucket { return &Bucket{} })
		b.merge(ob)
	})
	other.HSNWise.Each(func(k HSNKey, ob *HSNBucket) {
		b, _ := s.HSNWise.Upsert(k, func() *HSNBucket {
			return &HSNBucket{Description: ob.Description, Unit: ob.Unit}
		})
		b.merge(&ob.Bucket)
		b.Quantity = b.Quantity.Add(ob.Quantity)
	})
	other.StateWise.Each(func(k StateKey, ob *StateBucket) {
		b, _ := s.StateWise.Upsert(k, func() *StateBucket { return &StateBucket{Name: ob.Name} })
		b.merge(&ob.Bucket)
		b.Intra = mergeSub(b.Intra, ob.Intra)
		b.Inter = mergeSub(b.Inter, ob.Inter)
	})
	other.MonthWise.Each(func(k MonthKey, ob *MonthBucket) {
		b, _ := s.MonthWise.Upsert(k, func() *MonthBucket { return &MonthBucket{Label: ob.Label} })
		b.merge(&ob.Bucket)
	})
	s.Documents = append(s.Documents, other.Documents...)
}

// ensureDimensions allocates any nil bucket map, so a zero GSTSummary can
// receive a Merge.
func (s *GSTSummary) ensureDimensions() {
	if s.RateWise == nil {
		s.RateWise = NewOrderedBuckets[RateKey, Bucket]()
	}
	if s.HSNWise == nil {
		s.HSNWise = NewOrderedBuckets[HSNKey, HSNBucket]()
	}
	if s.StateWise == nil {
		s.StateWise = NewOrderedBuckets[StateKey, StateBucket]()
	}
	if s.MonthWise == nil {
		s.MonthWise = NewOrderedBuckets[MonthKey, MonthBucket]()
	}
}

func mergeSub(dst, src *Bucket) *Bucket {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = &Bucket{}
	}
	dst.merge(src)
	return dst
}
