package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ldgenealogie/outreach-cli/internal/resilience"
)

// NewService creates a Sheets API client. An empty credentials file falls
// back to application default credentials.
func NewService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*sheets.Service, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: create sheets service")
	}
	return svc, nil
}

// GoogleOption configures a Google sheet.
type GoogleOption func(*Google)

// WithLimiter paces every API call through l.
func WithLimiter(l *rate.Limiter) GoogleOption {
	return func(g *Google) {
		g.limiter = l
	}
}

// WithRetry overrides the retry policy for idempotent calls.
func WithRetry(p resilience.Policy) GoogleOption {
	return func(g *Google) {
		g.retry = p
	}
}

// PerMinute builds a limiter allowing n calls per minute with a small burst.
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 5)
}

// Google is a worksheet of a Google Sheets spreadsheet.
type Google struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetID       int64
	sheetName     string
	title         string
	limiter       *rate.Limiter
	retry         resilience.Policy
}

// OpenGoogle resolves the worksheet at index (zero-based) of a spreadsheet.
func OpenGoogle(ctx context.Context, svc *sheets.Service, spreadsheetID string, index int, opts ...GoogleOption) (*Google, error) {
	g := &Google{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		limiter:       rate.NewLimiter(rate.Inf, 1),
		retry:         resilience.DefaultPolicy(),
	}
	for _, o := range opts {
		o(g)
	}

	ss, err := resilience.DoVal(ctx, g.policy("open"), func(ctx context.Context) (*sheets.Spreadsheet, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return svc.Spreadsheets.Get(spreadsheetID).
			Fields("properties(title)", "sheets(properties(sheetId,title))").
			Context(ctx).Do()
	})
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: open spreadsheet %s", spreadsheetID)
	}
	if index < 0 || index >= len(ss.Sheets) {
		return nil, eris.Errorf("sheet: worksheet %d out of range (spreadsheet has %d)", index, len(ss.Sheets))
	}

	props := ss.Sheets[index].Properties
	g.sheetID = props.SheetId
	g.sheetName = props.Title
	if ss.Properties != nil {
		g.title = ss.Properties.Title
	}

	zap.L().Debug("opened spreadsheet",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("title", g.title),
		zap.String("worksheet", g.sheetName),
	)
	return g, nil
}

// Title implements Sheet.
func (g *Google) Title() string { return g.title }

// Row implements Sheet.
func (g *Google) Row(ctx context.Context, row int) ([]string, error) {
	if err := checkAddress(row, 1); err != nil {
		return nil, err
	}
	rows, err := g.values(ctx, g.a1(fmt.Sprintf("%d:%d", row, row)), "ROWS")
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: read row %d", row)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// Cell implements Sheet.
func (g *Google) Cell(ctx context.Context, row, col int) (string, error) {
	if err := checkAddress(row, col); err != nil {
		return "", err
	}
	rows, err := g.values(ctx, g.a1(ColumnLetters(col)+strconv.Itoa(row)), "ROWS")
	if err != nil {
		return "", eris.Wrapf(err, "sheet: read cell %d,%d", row, col)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return "", nil
	}
	return rows[0][0], nil
}

// Rows implements Sheet.
func (g *Google) Rows(ctx context.Context) ([][]string, error) {
	rows, err := g.values(ctx, g.a1(""), "ROWS")
	if err != nil {
		return nil, eris.Wrap(err, "sheet: read all rows")
	}
	return rows, nil
}

// Column implements Sheet.
func (g *Google) Column(ctx context.Context, col int) ([]string, error) {
	if err := checkAddress(1, col); err != nil {
		return nil, err
	}
	letters := ColumnLetters(col)
	cols, err := g.values(ctx, g.a1(letters+":"+letters), "COLUMNS")
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: read column %d", col)
	}
	if len(cols) == 0 {
		return []string{}, nil
	}
	return trimTrailing(cols[0]), nil
}

// UpdateCell implements Sheet.
func (g *Google) UpdateCell(ctx context.Context, row, col int, value string) error {
	if err := checkAddress(row, col); err != nil {
		return err
	}
	rng := g.a1(ColumnLetters(col) + strconv.Itoa(row))
	err := resilience.Do(ctx, g.policy("update_cell"), func(ctx context.Context) error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, &sheets.ValueRange{
			Values: [][]interface{}{{value}},
		}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return err
	})
	return eris.Wrapf(err, "sheet: update cell %d,%d", row, col)
}

// InsertRow implements Sheet. Insertion is not idempotent and is never retried.
func (g *Google) InsertRow(ctx context.Context, row int, values []string) error {
	if err := checkAddress(row, 1); err != nil {
		return err
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "sheet: insert row: wait")
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    g.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
				InheritFromBefore: row > 1,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return eris.Wrapf(err, "sheet: insert row %d", row)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	rng := g.a1("A" + strconv.Itoa(row))
	err = resilience.Do(ctx, g.policy("write_row"), func(ctx context.Context) error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, &sheets.ValueRange{
			Values: [][]interface{}{cells},
		}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return err
	})
	return eris.Wrapf(err, "sheet: write inserted row %d", row)
}

// Merges implements Sheet.
func (g *Google) Merges(ctx context.Context) ([]Merge, error) {
	ss, err := resilience.DoVal(ctx, g.policy("merges"), func(ctx context.Context) (*sheets.Spreadsheet, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return g.svc.Spreadsheets.Get(g.spreadsheetID).
			Fields("sheets(properties(sheetId),merges)").
			Context(ctx).Do()
	})
	if err != nil {
		return nil, eris.Wrap(err, "sheet: fetch merges")
	}

	var merges []Merge
	for _, s := range ss.Sheets {
		if s.Properties == nil || s.Properties.SheetId != g.sheetID {
			continue
		}
		for _, gr := range s.Merges {
			merges = append(merges, Merge{
				StartRow: int(gr.StartRowIndex),
				EndRow:   int(gr.EndRowIndex),
				StartCol: int(gr.StartColumnIndex),
				EndCol:   int(gr.EndColumnIndex),
			})
		}
	}
	return merges, nil
}

func (g *Google) values(ctx context.Context, rng, dimension string) ([][]string, error) {
	vr, err := resilience.DoVal(ctx, g.policy("read"), func(ctx context.Context) (*sheets.ValueRange, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).
			MajorDimension(dimension).
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	out := make([][]string, len(vr.Values))
	for i, r := range vr.Values {
		out[i] = make([]string, len(r))
		for j, v := range r {
			out[i][j] = fmt.Sprint(v)
		}
	}
	return out, nil
}

func (g *Google) policy(op string) resilience.Policy {
	p := g.retry
	p.OnRetry = resilience.Logger(op)
	return p
}

// a1 qualifies a range with the worksheet name.
func (g *Google) a1(rng string) string {
	name := "'" + strings.ReplaceAll(g.sheetName, "'", "''") + "'"
	if rng == "" {
		return name
	}
	return name + "!" + rng
}

// ColumnLetters converts a 1-based column number to A1 letters (1 -> A, 27 -> AA).
func ColumnLetters(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}
