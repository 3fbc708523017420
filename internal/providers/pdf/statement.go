package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func NewProvider() *PDFProvider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateStatement(ctx context.Context, data StatementData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(16,
		text.NewCol(12, "Contribution Statement", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(28,
		col.New(12).Add(
			text.New("Member: "+data.MemberName, props.Text{Top: 0}),
			text.New("Member ID: "+data.MemberID, props.Text{Top: 5}),
			text.New(fmt.Sprintf("Date Range: %s - %s", data.StartDate, data.EndDate), props.Text{Top: 10}),
			text.New("Total Contributions: "+data.Total, props.Text{Top: 15}),
			text.New("Eligible Benefits: "+data.Benefit, props.Text{Top: 20}),
		),
	)

	m.AddRow(8,
		text.NewCol(4, "Contribution Date", props.Text{Style: fontstyle.Bold}),
		text.NewCol(4, "Type", props.Text{Style: fontstyle.Bold}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold}),
	)
	for _, row := range data.Rows {
		m.AddRow(6,
			text.NewCol(4, row.Date),
			text.NewCol(4, row.Type),
			text.NewCol(4, row.Amount),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate statement pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
