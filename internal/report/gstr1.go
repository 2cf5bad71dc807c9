package report

import (
	"time"

	"github.com/shopspring/decimal"

	"gstbill/internal/gst"
)

const (
	// GSTR1Version is the schema version stamped on generated returns.
	GSTR1Version = "GST3.2"

	// b2cLargeThreshold is the invoice value above which an unregistered
	// customer's invoice is reported individually (B2CL). An invoice of
	// exactly this value is B2C small.
	b2cLargeThreshold = 250000

	gstr1DateLayout = "02-01-2006"
)

var b2cLargeLimit = decimal.NewFromInt(b2cLargeThreshold)

// Value is an amount encoded as a bare JSON number with two decimals, the
// form the GST portal expects.
type Value decimal.Decimal

func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(v).StringFixed(2)), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*v = Value(d)
	return nil
}

// Decimal returns v as a decimal.
func (v Value) Decimal() decimal.Decimal { return decimal.Decimal(v) }

// GSTR1Document is the outward-supplies return payload.
type GSTR1Document struct {
	GSTIN    string      `json:"gstin"`
	FP       string      `json:"fp"`
	Version  string      `json:"version"`
	Hash     string      `json:"hash"`
	B2B      []B2BEntry  `json:"b2b"`
	B2CL     []B2CLEntry `json:"b2cl"`
	B2CS     []B2CSEntry `json:"b2cs"`
	HSN      HSNSummary  `json:"hsn"`
	DocIssue DocIssue    `json:"doc_issue"`
}

// B2BEntry groups invoices issued to one registered customer.
type B2BEntry struct {
	CTIN     string         `json:"ctin"`
	Invoices []GSTR1Invoice `json:"inv"`
}

// B2CLEntry groups large unregistered invoices by place of supply.
type B2CLEntry struct {
	POS      string         `json:"pos"`
	Invoices []GSTR1Invoice `json:"inv"`
}

// GSTR1Invoice is one invoice inside a B2B or B2CL group.
type GSTR1Invoice struct {
	Number        string      `json:"inum"`
	Date          string      `json:"idt"`
	Value         Value       `json:"val"`
	POS           string      `json:"pos"`
	ReverseCharge string      `json:"rchrg"`
	Type          string      `json:"inv_typ"`
	Items         []GSTR1Item `json:"itms"`
}

// GSTR1Item is the per-rate breakdown of an invoice.
type GSTR1Item struct {
	Num    int        `json:"num"`
	Detail ItemDetail `json:"itm_det"`
}

// ItemDetail carries the rate and tax amounts of a GSTR1Item.
type ItemDetail struct {
	Rate    int   `json:"rt"`
	Taxable Value `json:"txval"`
	IGST    Value `json:"iamt"`
	CGST    Value `json:"camt"`
	SGST    Value `json:"samt"`
	Cess    Value `json:"csamt"`
}

// B2CSEntry aggregates small unregistered sales by place of supply and rate.
type B2CSEntry struct {
	SupplyType string `json:"sply_ty"`
	POS        string `json:"pos"`
	Type       string `json:"typ"`
	Rate       int    `json:"rt"`
	Taxable    Value  `json:"txval"`
	IGST       Value  `json:"iamt"`
	CGST       Value  `json:"camt"`
	SGST       Value  `json:"samt"`
	Cess       Value  `json:"csamt"`
}

// HSNSummary is the HSN-wise section of the return.
type HSNSummary struct {
	Data []HSNRow `json:"data"`
}

// HSNRow is one HSN/SAC code in the HSN summary.
type HSNRow struct {
	Num         int    `json:"num"`
	Code        string `json:"hsn_sc"`
	Description string `json:"desc"`
	UQC         string `json:"uqc"`
	Quantity    Value  `json:"qty"`
	Value       Value  `json:"val"`
	Taxable     Value  `json:"txval"`
	IGST        Value  `json:"iamt"`
	CGST        Value  `json:"camt"`
	SGST        Value  `json:"samt"`
	Cess        Value  `json:"csamt"`
}

// DocIssue is the document-count section of the return.
type DocIssue struct {
	Details []DocDetail `json:"doc_det"`
}

// DocDetail lists document ranges of one document nature.
type DocDetail struct {
	DocNum int        `json:"doc_num"`
	Docs   []DocRange `json:"docs"`
}

// DocRange is a contiguous series of issued documents.
type DocRange struct {
	Num      int    `json:"num"`
	From     string `json:"from"`
	To       string `json:"to"`
	Total    int    `json:"totnum"`
	Cancel   int    `json:"cancel"`
	NetIssue int    `json:"net_issue"`
}

// docNatureInvoices is the GSTR-1 document nature "Invoices for outward supply".
const docNatureInvoices = 1

// ToGSTR1 builds the return for the business identified by gstin. Invoices to
// customers with a GSTIN are B2B. The rest are B2CL when their raw invoice
// value exceeds 2,50,000 and B2CS otherwise. The filing period defaults to
// the latest month in the summary; callers reporting on an explicit period
// overwrite FP. Hash is always empty.
func ToGSTR1(s *gst.GSTSummary, gstin string) (*GSTR1Document, error) {
	if err := checkSummary(s); err != nil {
		return nil, err
	}

	doc := &GSTR1Document{
		GSTIN:    gstin,
		FP:       latestFilingPeriod(s),
		Version:  GSTR1Version,
		Hash:     "",
		B2B:      []B2BEntry{},
		B2CL:     []B2CLEntry{},
		B2CS:     []B2CSEntry{},
		HSN:      HSNSummary{Data: []HSNRow{}},
		DocIssue: DocIssue{Details: []DocDetail{}},
	}

	b2bIdx := map[string]int{}
	b2clIdx := map[gst.StateCode]int{}
	b2csIdx := map[b2csKey]int{}

	for i := range s.Documents {
		d := &s.Documents[i]
		switch {
		case d.IsB2B():
			idx, ok := b2bIdx[d.CustomerGSTIN]
			if !ok {
				idx = len(doc.B2B)
				b2bIdx[d.CustomerGSTIN] = idx
				doc.B2B = append(doc.B2B, B2BEntry{CTIN: d.CustomerGSTIN})
			}
			doc.B2B[idx].Invoices = append(doc.B2B[idx].Invoices, gstr1Invoice(d))
		case IsB2CLarge(d):
			idx, ok := b2clIdx[d.PlaceOfSupply]
			if !ok {
				idx = len(doc.B2CL)
				b2clIdx[d.PlaceOfSupply] = idx
				doc.B2CL = append(doc.B2CL, B2CLEntry{POS: string(d.PlaceOfSupply)})
			}
			doc.B2CL[idx].Invoices = append(doc.B2CL[idx].Invoices, gstr1Invoice(d))
		default:
			for _, rl := range d.Rates {
				k := b2csKey{pos: d.PlaceOfSupply, rate: rl.Rate, supply: d.Supply}
				idx, ok := b2csIdx[k]
				if !ok {
					idx = len(doc.B2CS)
					b2csIdx[k] = idx
					doc.B2CS = append(doc.B2CS, B2CSEntry{
						SupplyType: supplyType(d.Supply),
						POS:        string(d.PlaceOfSupply),
						Type:       "OE",
						Rate:       int(rl.Rate),
						Taxable:    Value(decimal.Zero),
						IGST:       Value(decimal.Zero),
						CGST:       Value(decimal.Zero),
						SGST:       Value(decimal.Zero),
						Cess:       Value(decimal.Zero),
					})
				}
				e := &doc.B2CS[idx]
				e.Taxable = Value(e.Taxable.Decimal().Add(rl.TaxableAmount))
				e.IGST = Value(e.IGST.Decimal().Add(rl.IGST))
				e.CGST = Value(e.CGST.Decimal().Add(rl.CGST))
				e.SGST = Value(e.SGST.Decimal().Add(rl.SGST))
			}
		}
	}

	num := 0
	s.HSNWise.Each(func(k gst.HSNKey, b *gst.HSNBucket) {
		num++
		doc.HSN.Data = append(doc.HSN.Data, HSNRow{
			Num:         num,
			Code:        k.String(),
			Description: b.Description,
			UQC:         b.Unit,
			Quantity:    Value(b.Quantity),
			Value:       Value(b.TotalAmount),
			Taxable:     Value(b.TaxableAmount),
			IGST:        Value(b.IGST),
			CGST:        Value(b.CGST),
			SGST:        Value(b.SGST),
			Cess:        Value(decimal.Zero),
		})
	})

	if n := len(s.Documents); n > 0 {
		first, last := documentRange(s.Documents)
		doc.DocIssue.Details = append(doc.DocIssue.Details, DocDetail{
			DocNum: docNatureInvoices,
			Docs: []DocRange{{
				Num:      1,
				From:     first,
				To:       last,
				Total:    n,
				Cancel:   0,
				NetIssue: n,
			}},
		})
	}
	return doc, nil
}

// documentRange returns the first and last invoice numbers by (date, number),
// independent of the order documents were summarized or merged in.
func documentRange(docs []gst.InvoiceDocument) (first, last string) {
	lo, hi := &docs[0], &docs[0]
	for i := 1; i < len(docs); i++ {
		d := &docs[i]
		if documentBefore(d, lo) {
			lo = d
		}
		if documentBefore(hi, d) {
			hi = d
		}
	}
	return lo.Number, hi.Number
}

func documentBefore(a, b *gst.InvoiceDocument) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Number < b.Number
}

// IsB2CLarge reports whether an unregistered invoice is reported in B2CL.
func IsB2CLarge(d *gst.InvoiceDocument) bool {
	return !d.IsB2B() && d.Value.GreaterThan(b2cLargeLimit)
}

type b2csKey struct {
	pos    gst.StateCode
	rate   gst.TaxRate
	supply gst.SupplyClassification
}

func supplyType(s gst.SupplyClassification) string {
	if s == gst.InterState {
		return "INTER"
	}
	return "INTRA"
}

func gstr1Invoice(d *gst.InvoiceDocument) GSTR1Invoice {
	inv := GSTR1Invoice{
		Number:        d.Number,
		Date:          d.Date.Format(gstr1DateLayout),
		Value:         Value(d.Value),
		POS:           string(d.PlaceOfSupply),
		ReverseCharge: "N",
		Type:          "R",
		Items:         make([]GSTR1Item, 0, len(d.Rates)),
	}
	for i, rl := range d.Rates {
		inv.Items = append(inv.Items, GSTR1Item{
			Num: i + 1,
			Detail: ItemDetail{
				Rate:    int(rl.Rate),
				Taxable: Value(rl.TaxableAmount),
				IGST:    Value(rl.IGST),
				CGST:    Value(rl.CGST),
				SGST:    Value(rl.SGST),
				Cess:    Value(decimal.Zero),
			},
		})
	}
	return inv
}

func latestFilingPeriod(s *gst.GSTSummary) string {
	var latest gst.MonthKey
	s.MonthWise.Each(func(k gst.MonthKey, _ *gst.MonthBucket) {
		if k.Year > latest.Year || (k.Year == latest.Year && k.Month > latest.Month) {
			latest = k
		}
	})
	if latest.Year == 0 {
		return ""
	}
	return MonthPeriod(time.Date(latest.Year, latest.Month, 1, 0, 0, 0, 0, time.UTC)).FilingPeriod()
}
