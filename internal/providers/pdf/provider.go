package pdf

import "context"

// StatementRow is one contribution line in the rendered document.
type StatementRow struct {
	Date   string
	Type   string
	Amount string
}

// StatementData carries everything the renderer needs; the caller does the
// filtering and formatting.
type StatementData struct {
	MemberName string
	MemberID   string
	StartDate  string
	EndDate    string
	Total      string
	Benefit    string
	Rows       []StatementRow
}

type Provider interface {
	GenerateStatement(ctx context.Context, data StatementData) ([]byte, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateStatement(ctx context.Context, data StatementData) ([]byte, error) {
	return nil, nil
}
