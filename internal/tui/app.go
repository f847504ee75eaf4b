package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/fintrack/internal/config"
	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/mapping"
	"github.com/jask/fintrack/internal/service"
)

// defaultHeight is used until the terminal reports its size.
const defaultHeight = 24

// App reviews a prepared import before it is committed and then walks the
// near-duplicate queue.
type App struct {
	ctx      context.Context
	services Services
	currency string
	state    appState
	height   int

	batch      *service.Batch
	excluded   map[int]bool
	txCursor   int
	committing bool
	result     *service.ImportResult

	pairs     []service.NearDuplicate
	recCursor int

	status    string
	cancelled bool
}

type Services struct {
	Import     *service.ImportService
	Reconciler *service.Reconciler
	// Classification colours amounts; the built-in table is used when nil.
	Classification mapping.ClassificationTable
}

type appState string

const (
	viewImport    appState = "import"
	viewReconcile appState = "reconcile"
)

// NewImportReview starts on the import preview of batch.
func NewImportReview(ctx context.Context, services Services, batch service.Batch, currency string) *App {
	return &App{
		ctx:      ctx,
		services: withDefaults(services),
		currency: currency,
		state:    viewImport,
		height:   defaultHeight,
		batch:    &batch,
		excluded: map[int]bool{},
	}
}

// NewReconcileReview starts on the near-duplicate queue.
func NewReconcileReview(ctx context.Context, services Services, currency string) *App {
	return &App{ctx: ctx, services: withDefaults(services), currency: currency, state: viewReconcile, height: defaultHeight}
}

func withDefaults(s Services) Services {
	if s.Classification == nil {
		s.Classification = mapping.NewClassificationTable(config.DefaultClassification())
	}
	return s
}

// Result is the committed import, or nil when nothing was committed.
func (a *App) Result() *service.ImportResult { return a.result }

// Cancelled reports whether the user left the import preview without committing.
func (a *App) Cancelled() bool { return a.cancelled }

func (a *App) Init() tea.Cmd {
	if a.state == viewReconcile {
		return a.scanCmd()
	}
	return nil
}

type (
	importDoneMsg struct{ Result service.ImportResult }
	pairsMsg      []service.NearDuplicate
	mergedMsg     struct{ index int }
	errMsg        struct{ error }
)

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		if m.Height > 0 {
			a.height = m.Height
		}
	case tea.KeyMsg:
		if a.state == viewImport {
			return a.handleImportKey(m)
		}
		return a.handleReconcileKey(m)
	case importDoneMsg:
		a.committing = false
		a.result = &m.Result
		a.status = fmt.Sprintf("imported %d, duplicates %d, skipped %d",
			len(m.Result.InsertedIDs), m.Result.DuplicateCount, m.Result.SkippedCount)
		if a.services.Reconciler == nil {
			return a, tea.Quit
		}
		a.state = viewReconcile
		return a, a.scanCmd()
	case pairsMsg:
		a.pairs = []service.NearDuplicate(m)
		if a.recCursor >= len(a.pairs) {
			a.recCursor = 0
		}
	case mergedMsg:
		if m.index < len(a.pairs) {
			a.pairs = append(a.pairs[:m.index], a.pairs[m.index+1:]...)
		}
		if a.recCursor >= len(a.pairs) && a.recCursor > 0 {
			a.recCursor--
		}
		a.status = "merged"
	case errMsg:
		a.committing = false
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	// the batch is being written; keys wait for the result
	if a.committing {
		return a, nil
	}
	switch m.String() {
	case "q", "esc", "ctrl+c":
		a.cancelled = true
		return a, tea.Quit
	case "up", "k":
		if a.txCursor > 0 {
			a.txCursor--
		}
	case "down", "j":
		if a.txCursor < len(a.batch.Transactions)-1 {
			a.txCursor++
		}
	case " ", "x":
		if len(a.batch.Transactions) > 0 {
			a.excluded[a.txCursor] = !a.excluded[a.txCursor]
		}
	case "enter":
		a.committing = true
		a.status = "importing..."
		return a, a.commitCmd()
	}
	return a, nil
}

func (a *App) handleReconcileKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "esc", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.recCursor > 0 {
			a.recCursor--
		}
	case "down", "j", "n":
		if a.recCursor < len(a.pairs)-1 {
			a.recCursor++
		}
	case "s":
		a.status = "scanning..."
		return a, a.scanCmd()
	case "y", "b":
		if len(a.pairs) > 0 {
			p := a.pairs[a.recCursor]
			keep, drop := p.A.ID, p.B.ID
			if m.String() == "b" {
				keep, drop = drop, keep
			}
			return a, a.mergeCmd(a.recCursor, keep, drop)
		}
	}
	return a, nil
}

// selected returns the transactions still included in the batch.
func (a *App) selected() service.Batch {
	b := *a.batch
	b.Transactions = nil
	for i, tx := range a.batch.Transactions {
		if !a.excluded[i] {
			b.Transactions = append(b.Transactions, tx)
		}
	}
	return b
}

func (a *App) commitCmd() tea.Cmd {
	b := a.selected()
	excluded := len(a.batch.Transactions) - len(b.Transactions)
	return func() tea.Msg {
		res, err := a.services.Import.ProcessTransactions(a.ctx, b.Transactions, b.FileName, b.TotalRows, len(b.SkippedRows)+excluded)
		if err != nil {
			return errMsg{err}
		}
		return importDoneMsg{Result: res}
	}
}

func (a *App) scanCmd() tea.Cmd {
	return func() tea.Msg {
		pairs, err := a.services.Reconciler.NearDuplicates(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return pairsMsg(pairs)
	}
}

func (a *App) mergeCmd(index int, keepID, dropID string) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Reconciler.Merge(a.ctx, keepID, dropID); err != nil {
			return errMsg{err}
		}
		return mergedMsg{index: index}
	}
}

func (a *App) View() string {
	if a.state == viewReconcile {
		return a.renderReconcile()
	}
	return a.renderImport()
}

func (a *App) renderImport() string {
	b := a.batch
	title := titleStyle.Render("Import " + b.FileName)
	var out strings.Builder
	out.WriteString(title + "\n")
	fmt.Fprintf(&out, "Mapping: %s  Rows: %d  Ready: %d  Skipped: %d  Excluded: %d\n",
		b.Mapping.Name, b.TotalRows, len(b.Transactions), len(b.SkippedRows), a.excludedCount())
	start, end := window(a.txCursor, len(b.Transactions), a.height-5)
	for i := start; i < end; i++ {
		t := b.Transactions[i]
		marker := " "
		if i == a.txCursor {
			marker = cursorStyle.Render("▶")
		}
		line := fmt.Sprintf("%s %-10s  %-32s  %s  %-24s  %s", marker, t.Date, truncate(t.Description, 32), a.amount(t), t.Type, t.AccountID)
		if a.excluded[i] {
			line = excludedStyle.Render(line)
		}
		out.WriteString(line + "\n")
	}
	if end-start < len(b.Transactions) {
		fmt.Fprintf(&out, "rows %d-%d of %d\n", start+1, end, len(b.Transactions))
	}
	out.WriteString(helpStyle.Render("[enter] Import  [space] Exclude row  [q] Cancel"))
	if a.status != "" {
		out.WriteString("\n" + a.status)
	}
	return out.String()
}

func (a *App) renderReconcile() string {
	title := titleStyle.Render("Possible duplicates")
	if len(a.pairs) == 0 {
		out := fmt.Sprintf("%s\nNo near duplicates.\n[s] Scan  [q] Quit", title)
		if a.status != "" {
			out += "\n" + a.status
		}
		return out
	}
	p := a.pairs[a.recCursor]
	out := fmt.Sprintf("%s\nPair %d of %d  Similarity: %.2f  Days apart: %d\nA: %-10s %-32s %s  %s\nB: %-10s %-32s %s  %s\n[y] Keep A  [b] Keep B  [n] Next  [s] Scan  [q] Quit",
		title, a.recCursor+1, len(a.pairs), p.Similarity, p.DaysApart,
		p.A.Date, truncate(p.A.Description, 32), a.amount(p.A), p.A.CategoryID,
		p.B.Date, truncate(p.B.Description, 32), a.amount(p.B), p.B.CategoryID)
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) amount(t repository.Transaction) string {
	return a.amountStyle(t).Render(fmt.Sprintf("%s%10.2f", a.currency, t.Amount))
}

func (a *App) amountStyle(t repository.Transaction) lipgloss.Style {
	switch a.services.Classification.Classify(t.Type) {
	case mapping.ClassIncome:
		return incomeStyle
	case mapping.ClassExpense:
		return expenseStyle
	}
	return transferStyle
}

// window returns the [start, end) range of n rows to draw so that cursor
// stays visible in at most size lines.
func window(cursor, n, size int) (int, int) {
	if size < 1 {
		size = 1
	}
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

func (a *App) excludedCount() int {
	n := 0
	for _, v := range a.excluded {
		if v {
			n++
		}
	}
	return n
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
