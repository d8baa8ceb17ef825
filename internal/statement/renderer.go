package statement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("statement",
	fx.Provide(New),
)

// Renderer turns a monthly statement into a document.
type Renderer interface {
	Render(ctx context.Context, stmt *chargedomain.Statement) (io.Reader, error)
}

const dateLayout = "2006-01-02"

type PDFRenderer struct{}

func New() Renderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(ctx context.Context, stmt *chargedomain.Statement) (io.Reader, error) {
	if stmt == nil {
		return nil, errors.New("statement is nil")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Royalty statement", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Owner: "+stmt.OwnerID.String(), props.Text{Top: 0}),
			text.New(fmt.Sprintf("Period: %s to %s", stmt.PeriodStart.Format(dateLayout), stmt.PeriodEnd.Format(dateLayout)), props.Text{Top: 4}),
			text.New("Generated: "+stmt.GeneratedAt.Format(dateLayout), props.Text{Top: 8}),
		),
		col.New(6),
	)

	m.AddRow(10,
		text.NewCol(2, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Content", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Status", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(1, line.NewCol(12))

	if len(stmt.Charges) == 0 {
		m.AddRow(10, text.NewCol(12, "No charges in this period.", props.Text{Size: 9}))
	}
	for _, view := range stmt.Charges {
		c := view.Charge
		m.AddRow(10,
			text.NewCol(2, c.CreatedAt.Format(dateLayout), props.Text{Size: 8}),
			text.NewCol(5, c.Description, props.Text{Size: 8}),
			text.NewCol(3, view.ContentTitle, props.Text{Size: 8}),
			text.NewCol(1, string(c.Status), props.Text{Size: 8}),
			text.NewCol(1, c.Amount.StringFixed(2), props.Text{Size: 8, Align: align.Right}),
		)
	}

	m.AddRow(1, line.NewCol(12))
	totalRow(m, "Pending", stmt.PendingAmount.StringFixed(2), fontstyle.Normal)
	totalRow(m, "Paid", stmt.PaidAmount.StringFixed(2), fontstyle.Normal)
	totalRow(m, "Total", stmt.TotalAmount.StringFixed(2), fontstyle.Bold)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func totalRow(m core.Maroto, label, amount string, style fontstyle.Type) {
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, label, props.Text{Size: 9, Style: style}),
		text.NewCol(2, amount, props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}
