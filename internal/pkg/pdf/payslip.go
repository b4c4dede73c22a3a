// Package pdf renders payslips as PDF documents.
package pdf

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

type PayslipRenderer struct {
	companyName string
	currency    string
}

func NewPayslipRenderer(companyName, currency string) *PayslipRenderer {
	return &PayslipRenderer{companyName: companyName, currency: currency}
}

func (r *PayslipRenderer) money(d decimal.Decimal) string {
	return r.currency + " " + d.StringFixed(2)
}

// Render implements payroll.PayslipRenderer.
func (r *PayslipRenderer) Render(ctx context.Context, slip payroll.Payslip) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, r.companyName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Payslip "+slip.Period, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	department := "-"
	if slip.Department != nil {
		department = *slip.Department
	}
	email := ""
	if slip.EmployeeEmail != nil {
		email = *slip.EmployeeEmail
	}
	m.AddRow(22,
		col.New(6).Add(
			text.New(slip.EmployeeName, props.Text{Style: fontstyle.Bold}),
			text.New("Employee code: "+slip.EmployeeCode, props.Text{Top: 5}),
			text.New(email, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Department: "+department, props.Text{Align: align.Right}),
			text.New("Generated: "+slip.GeneratedAt.Format("2006-01-02 15:04 MST"), props.Text{Top: 5, Align: align.Right}),
		),
	)

	r.section(m, "Basic salary", []payroll.PayslipLine{{Label: "Basic salary", Amount: slip.Summary.Basic}})
	r.section(m, "Allowances", slip.Allowances)
	r.section(m, "Overtime", slip.Overtime)
	r.section(m, "Bonuses", slip.Bonuses)
	r.totalRow(m, "Gross", slip.Summary.Gross)
	r.section(m, "Deductions", slip.Deductions)
	r.totalRow(m, "Total deductions", slip.Summary.TotalDeductions)

	m.AddRow(14,
		col.New(6),
		text.NewCol(3, "Net pay", props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}),
		text.NewCol(3, r.money(slip.Summary.Net), props.Text{Size: 12, Style: fontstyle.Bold, Top: 4, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate payslip pdf: %w", err)
	}

	return doc.GetBytes(), nil
}

func (r *PayslipRenderer) section(m core.Maroto, title string, lines []payroll.PayslipLine) {
	m.AddRow(10,
		text.NewCol(12, title, props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}),
	)
	if len(lines) == 0 {
		m.AddRow(7, text.NewCol(12, "None", props.Text{Size: 9}))
		return
	}
	for _, l := range lines {
		m.AddRow(7,
			text.NewCol(8, l.Label, props.Text{Size: 9}),
			text.NewCol(4, r.money(l.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func (r *PayslipRenderer) totalRow(m core.Maroto, label string, amount decimal.Decimal) {
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, label, props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, r.money(amount), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
}
