package pdf

import (
	"fmt"
	"strconv"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/domain/pricing"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/sirupsen/logrus"
)

// EstimateRenderer draws the customer copy of an estimate. Internal notes are
// never printed.
type EstimateRenderer struct {
	shopName   string
	fontFamily string
	fontPath   string
}

var _ interfaces.IEstimateRenderer = (*EstimateRenderer)(nil)

// NewEstimateRenderer uses the TTF at fontPath for every style when set; it
// needs Hangul glyphs for Korean customer data.
func NewEstimateRenderer(shopName, fontFamily, fontPath string) *EstimateRenderer {
	return &EstimateRenderer{shopName: shopName, fontFamily: fontFamily, fontPath: fontPath}
}

type labelValue struct {
	Label string
	Value string
}

// estimateDocument is everything printed on the customer copy.
type estimateDocument struct {
	Title     string
	Customer  []labelValue
	Summary   string
	Items     [][]string
	Services  [][]string
	Totals    []labelValue
	Terms     []labelValue
	IssueDate string
}

func buildDocument(shopName string, e entities.Estimate) estimateDocument {
	p := e.PaymentInfo
	if p == nil {
		p = &entities.PaymentInfo{}
	}
	cv := pricing.Calculate(e.TableData, p)

	doc := estimateDocument{
		Title:   shopName,
		Summary: e.EstimateDescription,
	}
	if !e.CreatedAt.IsZero() {
		doc.IssueDate = e.CreatedAt.Format("2006-01-02")
	}
	for _, f := range []labelValue{
		{"Customer", e.CustomerInfo.Name},
		{"Phone", e.CustomerInfo.Phone},
		{"Purpose", e.CustomerInfo.Purpose.Value},
		{"OS", e.CustomerInfo.OS.Value},
		{"Manager", e.CustomerInfo.Manager.Value},
	} {
		if f.Value != "" {
			doc.Customer = append(doc.Customer, f)
		}
	}

	for _, it := range e.TableData {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		doc.Items = append(doc.Items, []string{it.Category, it.ProductName, strconv.Itoa(qty), won(pricing.ParsePrice(it.Price))})
	}
	for _, s := range e.ServiceData {
		doc.Services = append(doc.Services, []string{s.ProductName, strconv.Itoa(s.Quantity), s.Remarks})
	}

	doc.Totals = append(doc.Totals, labelValue{"Products", won(cv.ProductTotal)})
	for _, a := range []struct {
		label string
		v     int64
	}{
		{"Labor", p.LaborCost},
		{"Tuning", p.TuningCost},
		{"Setup", p.SetupCost},
		{"Warranty", p.WarrantyFee},
		{"Discount", -p.Discount},
	} {
		if a.v != 0 {
			doc.Totals = append(doc.Totals, labelValue{a.label, won(a.v)})
		}
	}
	doc.Totals = append(doc.Totals, labelValue{"Total", won(cv.TotalPurchase)})
	if p.IncludeVat {
		doc.Totals = append(doc.Totals, labelValue{fmt.Sprintf("VAT (%d%%)", pricing.EffectiveVatRate(p)), won(cv.VatAmount)})
	}
	doc.Totals = append(doc.Totals, labelValue{"Amount due", won(cv.FinalPayment)})

	if p.Deposit != 0 {
		doc.Terms = append(doc.Terms, labelValue{"Deposit", won(p.Deposit)})
	}
	if p.ShippingCost != 0 {
		doc.Terms = append(doc.Terms, labelValue{"Shipping", won(p.ShippingCost)})
	}
	if m := paymentMethodLabel(p); m != "" {
		doc.Terms = append(doc.Terms, labelValue{"Payment", m})
	}
	if p.ReleaseDate != "" {
		doc.Terms = append(doc.Terms, labelValue{"Release date", p.ReleaseDate})
	}
	return doc
}

func paymentMethodLabel(p *entities.PaymentInfo) string {
	switch p.PaymentMethod {
	case entities.PaymentMethodCard:
		return "Card"
	case entities.PaymentMethodCardDiscount:
		return "Card (discounted)"
	case entities.PaymentMethodCash:
		return "Cash"
	case entities.PaymentMethodCustom:
		return p.CustomMethod
	}
	return ""
}

func won(v int64) string {
	return pricing.FormatPrice(v) + " KRW"
}

func (r *EstimateRenderer) builder() (config.Builder, error) {
	b := config.NewBuilder()
	if r.fontPath == "" {
		return b, nil
	}
	fonts, err := repository.New().
		AddUTF8Font(r.fontFamily, fontstyle.Normal, r.fontPath).
		AddUTF8Font(r.fontFamily, fontstyle.Bold, r.fontPath).
		AddUTF8Font(r.fontFamily, fontstyle.Italic, r.fontPath).
		AddUTF8Font(r.fontFamily, fontstyle.BoldItalic, r.fontPath).
		Load()
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", r.fontPath, err)
	}
	return b.WithCustomFonts(fonts).WithDefaultFont(&props.Font{Family: r.fontFamily}), nil
}

// Render returns the PDF bytes.
func (r *EstimateRenderer) Render(e entities.Estimate) ([]byte, error) {
	b, err := r.builder()
	if err != nil {
		return nil, err
	}
	m := maroto.New(b.Build())
	draw(m, buildDocument(r.shopName, e))

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF document: %w", err)
	}
	logrus.WithField("estimate_id", e.ID).Debug("[estimate][pdf] rendered")
	return document.GetBytes(), nil
}

var (
	headerText = props.Text{Size: 9, Style: fontstyle.Bold}
	cellText   = props.Text{Size: 8}
	moneyText  = props.Text{Size: 8, Align: align.Right}
)

func draw(m core.Maroto, doc estimateDocument) {
	m.AddRow(10,
		col.New(8).Add(text.New(doc.Title, props.Text{Size: 16, Style: fontstyle.Bold})),
		col.New(4).Add(text.New("ESTIMATE", props.Text{Size: 20, Style: fontstyle.BoldItalic, Align: align.Right})),
	)
	if doc.IssueDate != "" {
		m.AddRow(6,
			col.New(8),
			col.New(4).Add(text.New("Date: "+doc.IssueDate, props.Text{Size: 9, Align: align.Right})),
		)
	}
	m.AddRow(8)

	for _, f := range doc.Customer {
		m.AddRow(5,
			col.New(3).Add(text.New(f.Label, headerText)),
			col.New(9).Add(text.New(f.Value, props.Text{Size: 9})),
		)
	}
	if doc.Summary != "" {
		m.AddRow(8, col.New(12).Add(text.New(doc.Summary, props.Text{Size: 9, Style: fontstyle.Italic})))
	}
	m.AddRow(8)

	m.AddRow(8,
		col.New(2).Add(text.New("Category", headerText)),
		col.New(6).Add(text.New("Product", headerText)),
		col.New(1).Add(text.New("Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
		col.New(3).Add(text.New("Price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
	)
	for _, row := range doc.Items {
		m.AddRow(6,
			col.New(2).Add(text.New(row[0], cellText)),
			col.New(6).Add(text.New(row[1], cellText)),
			col.New(1).Add(text.New(row[2], moneyText)),
			col.New(3).Add(text.New(row[3], moneyText)),
		)
	}

	if len(doc.Services) > 0 {
		m.AddRow(6)
		m.AddRow(8,
			col.New(8).Add(text.New("Included services", headerText)),
			col.New(1).Add(text.New("Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
			col.New(3).Add(text.New("Remarks", headerText)),
		)
		for _, row := range doc.Services {
			m.AddRow(6,
				col.New(8).Add(text.New(row[0], cellText)),
				col.New(1).Add(text.New(row[1], moneyText)),
				col.New(3).Add(text.New(row[2], cellText)),
			)
		}
	}

	m.AddRow(8)
	for i, t := range doc.Totals {
		style := props.Text{Size: 9, Align: align.Right}
		if i == len(doc.Totals)-1 {
			style = props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}
		}
		m.AddRow(6,
			col.New(6),
			col.New(3).Add(text.New(t.Label, props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(3).Add(text.New(t.Value, style)),
		)
	}

	if len(doc.Terms) > 0 {
		m.AddRow(10)
		m.AddRow(8, col.New(12).Add(text.New("Terms", props.Text{Size: 12, Style: fontstyle.Bold})))
		for _, t := range doc.Terms {
			m.AddRow(5,
				col.New(3).Add(text.New(t.Label, headerText)),
				col.New(9).Add(text.New(t.Value, props.Text{Size: 9})),
			)
		}
	}
}
