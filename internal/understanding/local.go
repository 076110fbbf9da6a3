package understanding

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/intent"
	"fintrack-go/internal/domain/names"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
)

// Local is a keyword and pattern interpreter for Indonesian and English
// messages. It needs no network and cannot read media.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

const (
	amountToken = `(?:rp\.?\s*)?\d+(?:[.,]\d+)*\s*(?:ribu|rb|k|juta|jt)?`
)

var (
	amountPattern     = regexp.MustCompile(`(?:rp\.?\s*)?(\d+(?:[.,]\d+)*)\s*(ribu|rb|k|juta|jt)?\b`)
	expressionPattern = regexp.MustCompile(amountToken + `(?:\s*[x×*+\-]\s*` + amountToken + `)+\b`)
	operatorPattern   = regexp.MustCompile(`\s*([x×*+\-])\s*`)
	dateLikePattern   = regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b|\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)
	transferPattern   = regexp.MustCompile(`(?i)\b(?:dari|from)\s+(.+?)\s+(?:ke|to|into)\s+(.+)$`)
	renamePattern     = regexp.MustCompile(`(?i)^(.+?)\s+(?:jadi|menjadi|to|into|ke)\s+(.+)$`)
)

var multipliers = map[string]decimal.Decimal{
	"ribu": decimal.NewFromInt(1_000),
	"rb":   decimal.NewFromInt(1_000),
	"k":    decimal.NewFromInt(1_000),
	"juta": decimal.NewFromInt(1_000_000),
	"jt":   decimal.NewFromInt(1_000_000),
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var (
	incomeWords = wordSet("gaji", "salary", "bonus", "thr", "dapat", "terima", "diterima", "pemasukan",
		"income", "received", "earned", "dividen", "dividend", "freelance", "komisi", "commission", "cashback")

	keywordCategories = map[string]string{
		"kopi": "Food & Drink", "coffee": "Food & Drink", "makan": "Food & Drink", "lunch": "Food & Drink",
		"dinner": "Food & Drink", "breakfast": "Food & Drink", "sarapan": "Food & Drink", "snack": "Food & Drink",
		"jajan": "Food & Drink", "minum": "Food & Drink", "resto": "Food & Drink", "cafe": "Food & Drink",
		"bakso": "Food & Drink", "nasi": "Food & Drink", "food": "Food & Drink", "teh": "Food & Drink",
		"ojek": "Transportation", "gojek": "Transportation", "grab": "Transportation", "taxi": "Transportation",
		"taksi": "Transportation", "bensin": "Transportation", "parkir": "Transportation", "tol": "Transportation",
		"bus": "Transportation", "kereta": "Transportation", "krl": "Transportation", "mrt": "Transportation",
		"fuel": "Transportation", "parking": "Transportation", "uber": "Transportation",
		"belanja": "Shopping", "baju": "Shopping", "sepatu": "Shopping", "shopping": "Shopping",
		"clothes": "Shopping", "shopee": "Shopping", "tokopedia": "Shopping",
		"listrik": "Bills & Utilities", "pulsa": "Bills & Utilities", "internet": "Bills & Utilities",
		"wifi": "Bills & Utilities", "tagihan": "Bills & Utilities", "bill": "Bills & Utilities",
		"electricity": "Bills & Utilities", "kos": "Bills & Utilities", "sewa": "Bills & Utilities", "rent": "Bills & Utilities",
		"nonton": "Entertainment", "bioskop": "Entertainment", "film": "Entertainment", "movie": "Entertainment",
		"game": "Entertainment", "netflix": "Entertainment", "spotify": "Entertainment", "konser": "Entertainment",
		"obat": "Health", "dokter": "Health", "apotek": "Health", "medicine": "Health", "doctor": "Health",
		"pharmacy": "Health", "gym": "Health",
		"buku": "Education", "kursus": "Education", "sekolah": "Education", "kuliah": "Education",
		"course": "Education", "book": "Education", "tuition": "Education",
		"gaji": "Salary", "salary": "Salary", "bonus": "Bonus", "thr": "Bonus",
		"dividen": "Investment", "dividend": "Investment", "saham": "Investment",
	}

	transactionFiller = wordSet("beli", "bayar", "buat", "untuk", "for", "on", "spent", "paid", "pay",
		"buy", "bought", "rp", "rp.", "sebesar", "seharga", "habis", "keluar", "dapat", "terima", "received", "got")
)

func tokens(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func hasAny(text string, set map[string]bool) bool {
	for _, w := range tokens(text) {
		if set[strings.Trim(w, ".,!?")] {
			return true
		}
	}
	return false
}

func containsPhrase(text, phrase string) bool {
	key := names.Key(phrase)
	if key == "" {
		return false
	}
	return strings.Contains(" "+names.Key(text)+" ", " "+key+" ")
}

// matchName returns the longest candidate mentioned in text.
func matchName(text string, candidates []string) string {
	sorted := append([]string(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, c := range sorted {
		if containsPhrase(text, c) {
			return c
		}
	}
	return ""
}

// parseNumber reads digits with '.' or ',' separators. A trailing group of
// exactly three digits means thousands separators, anything shorter is a
// decimal part. With a multiplier suffix a single separator is always decimal.
func parseNumber(digits string, suffixed bool) (decimal.Decimal, bool) {
	normalized := strings.ReplaceAll(digits, ",", ".")
	parts := strings.Split(normalized, ".")
	if len(parts) == 1 {
		d, err := decimal.NewFromString(parts[0])
		return d, err == nil
	}

	last := parts[len(parts)-1]
	var text string
	switch {
	case suffixed && len(parts) == 2:
		text = parts[0] + "." + last
	case len(last) == 3:
		text = strings.Join(parts, "")
	default:
		text = strings.Join(parts[:len(parts)-1], "") + "." + last
	}
	d, err := decimal.NewFromString(text)
	return d, err == nil
}

func tokenValue(token string) (decimal.Decimal, bool) {
	match := amountPattern.FindStringSubmatch(strings.ToLower(token))
	if match == nil {
		return decimal.Zero, false
	}
	value, ok := parseNumber(match[1], match[2] != "")
	if !ok {
		return decimal.Zero, false
	}
	if m, ok := multipliers[match[2]]; ok {
		value = value.Mul(m)
	}
	return value, true
}

// evaluateExpression handles "3x25rb" and "50rb+20rb".
func evaluateExpression(expr string) (decimal.Decimal, bool) {
	var sb strings.Builder
	rest := expr
	for {
		loc := operatorPattern.FindStringIndex(rest)
		var operand string
		if loc == nil {
			operand = rest
		} else {
			operand = rest[:loc[0]]
		}
		value, ok := tokenValue(operand)
		if !ok {
			return decimal.Zero, false
		}
		sb.WriteString(value.String())
		if loc == nil {
			break
		}
		switch op := strings.TrimSpace(rest[loc[0]:loc[1]]); op {
		case "x", "×":
			sb.WriteString(" * ")
		default:
			sb.WriteString(" " + op + " ")
		}
		rest = rest[loc[1]:]
	}

	expression, err := govaluate.NewEvaluableExpression(sb.String())
	if err != nil {
		return decimal.Zero, false
	}
	result, err := expression.Evaluate(nil)
	if err != nil {
		return decimal.Zero, false
	}
	f, ok := result.(float64)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f).Round(2), true
}

// extractAmount finds the amount in text and returns the text without it.
// Dates are masked first so "15/7/2024" is never read as money; the largest
// remaining figure wins, which keeps "2 kopi 25000" at 25000.
func extractAmount(text string) (decimal.Decimal, string, bool) {
	lower := strings.ToLower(text)
	masked := dateLikePattern.ReplaceAllStringFunc(lower, func(s string) string {
		return strings.Repeat(" ", len(s))
	})

	if loc := expressionPattern.FindStringIndex(masked); loc != nil {
		if value, ok := evaluateExpression(strings.TrimSpace(masked[loc[0]:loc[1]])); ok && value.IsPositive() {
			return value, text[:loc[0]] + " " + text[loc[1]:], true
		}
	}

	best := decimal.Zero
	var bestLoc []int
	for _, loc := range amountPattern.FindAllStringIndex(masked, -1) {
		value, ok := tokenValue(masked[loc[0]:loc[1]])
		if !ok || !value.GreaterThan(best) {
			continue
		}
		best = value
		bestLoc = loc
	}
	if bestLoc == nil {
		return decimal.Zero, text, false
	}
	return best.Round(2), text[:bestLoc[0]] + " " + text[bestLoc[1]:], true
}

func stripWords(text string, drop map[string]bool) string {
	var kept []string
	for _, w := range strings.Fields(text) {
		if drop[strings.Trim(strings.ToLower(w), ".,!?:")] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func categoryNames(ctx intent.Context, kind categories.Kind) []string {
	var out []string
	for _, c := range ctx.Categories {
		if kind == "" || c.Kind == kind {
			out = append(out, c.Name)
		}
	}
	return out
}

func (l *Local) text(req intent.Request) (string, error) {
	if req.Input.Channel == intent.ChannelImage {
		return "", intent.ErrUnavailable.Withf("offline interpreter cannot read images")
	}
	text := strings.TrimSpace(req.Input.Text)
	if text == "" {
		return "", intent.ErrUnavailable.Withf("offline interpreter needs a text transcript")
	}
	return text, nil
}

func (l *Local) Transaction(_ context.Context, req intent.Request) (intent.TransactionIntent, error) {
	text, err := l.text(req)
	if err != nil {
		return intent.TransactionIntent{}, err
	}

	kind := categories.KindExpense
	if hasAny(text, incomeWords) {
		kind = categories.KindIncome
	}

	amount, rest, found := extractAmount(text)
	out := intent.TransactionIntent{
		Amount:     amount,
		Currency:   req.Context.Currency,
		Kind:       kind,
		Confidence: 0.3,
	}

	name, guess := guessCategory(text, req.Context, kind)
	out.CategoryName = name
	if name == "" && guess != "" && req.Context.AutoCategorize {
		out.SuggestedNewCategory = &intent.SuggestedCategory{Name: guess, Kind: kind}
	}

	if found {
		out.Confidence = 0.75
		if out.CategoryName != "" || out.SuggestedNewCategory != nil {
			out.Confidence = 0.9
		}
	}

	out.Description = names.Normalize(stripWords(rest, transactionFiller))
	if out.Description == "" {
		out.Description = names.Normalize(text)
	}
	return out, nil
}

// guessCategory returns a category the user has that text mentions, either
// by name or through a keyword, or the keyword's category name as a guess
// when the user does not have it yet.
func guessCategory(text string, ctx intent.Context, kind categories.Kind) (string, string) {
	known := categoryNames(ctx, kind)
	if name := matchName(text, known); name != "" {
		return name, ""
	}
	for _, w := range tokens(text) {
		guess, ok := keywordCategories[strings.Trim(w, ".,!?")]
		if !ok {
			continue
		}
		if existing := matchName(guess, known); existing != "" {
			return existing, ""
		}
		return "", guess
	}
	return "", ""
}

func (l *Local) ReceiptItems(_ context.Context, _ intent.Request) ([]intent.TransactionIntent, error) {
	return nil, intent.ErrUnavailable.Withf("offline interpreter cannot read receipts")
}

var (
	budgetDelete = wordSet("hapus", "delete", "remove", "hilangkan")
	budgetList   = wordSet("daftar", "list", "semua", "all")
	budgetCheck  = wordSet("cek", "check", "sisa", "status", "berapa", "remaining", "lihat")
	budgetUpdate = wordSet("ubah", "ganti", "update", "change", "naikkan", "turunkan")
	weeklyWords  = wordSet("minggu", "mingguan", "seminggu", "week", "weekly", "pekan")
	monthlyWords = wordSet("bulan", "bulanan", "sebulan", "month", "monthly")
)

func (l *Local) Budget(_ context.Context, req intent.Request) (intent.BudgetIntent, error) {
	text, err := l.text(req)
	if err != nil {
		return intent.BudgetIntent{}, err
	}

	name, _ := guessCategory(text, req.Context, categories.KindExpense)
	out := intent.BudgetIntent{CategoryName: name}
	if amount, _, ok := extractAmount(text); ok {
		out.Amount = &amount
	}
	switch {
	case hasAny(text, weeklyWords):
		out.Period = "weekly"
	case hasAny(text, monthlyWords):
		out.Period = "monthly"
	}

	switch {
	case hasAny(text, budgetDelete):
		out.Action = intent.BudgetDelete
	case hasAny(text, budgetList):
		out.Action = intent.BudgetList
	case out.Amount != nil && hasAny(text, budgetUpdate):
		out.Action = intent.BudgetUpdate
	case out.Amount != nil:
		out.Action = intent.BudgetCreate
	case out.CategoryName != "" || hasAny(text, budgetCheck):
		out.Action = intent.BudgetCheck
	default:
		out.Action = intent.BudgetList
	}

	out.Confidence = 0.9
	switch out.Action {
	case intent.BudgetCreate, intent.BudgetUpdate, intent.BudgetDelete:
		if out.CategoryName == "" {
			out.Confidence = 0.4
		}
	case intent.BudgetCheck:
		if out.CategoryName == "" {
			out.Action = intent.BudgetList
		}
	}
	return out, nil
}

var (
	categoryCreate = wordSet("buat", "tambah", "tambahkan", "bikin", "create", "add", "new", "baru")
	categoryUpdate = wordSet("ubah", "ganti", "rename", "update", "change")
	categoryDelete = wordSet("hapus", "delete", "remove")
	categoryNoise  = wordSet("kategori", "category", "categories", "baru", "new", "nama", "named", "called",
		"buat", "tambah", "tambahkan", "bikin", "create", "add", "ubah", "ganti", "rename", "update", "change",
		"hapus", "delete", "remove", "pemasukan", "pengeluaran", "income", "expense", "untuk", "for", "a", "the")
	incomeCategoryWords = wordSet("pemasukan", "income")
)

func (l *Local) Category(_ context.Context, req intent.Request) (intent.CategoryIntent, error) {
	text, err := l.text(req)
	if err != nil {
		return intent.CategoryIntent{}, err
	}

	out := intent.CategoryIntent{Confidence: 0.9}
	if hasAny(text, incomeCategoryWords) {
		out.Kind = categories.KindIncome
	}
	rest := names.Normalize(stripWords(text, categoryNoise))

	switch {
	case hasAny(text, categoryDelete):
		out.Action = intent.CategoryDelete
		out.CategoryName = pickCategory(rest, req.Context)
	case hasAny(text, categoryUpdate):
		out.Action = intent.CategoryUpdate
		if m := renamePattern.FindStringSubmatch(rest); m != nil {
			out.CategoryName = pickCategory(m[1], req.Context)
			out.NewCategoryName = names.Normalize(m[2])
		}
		if out.NewCategoryName == "" {
			out.Confidence = 0.4
		}
	case hasAny(text, categoryCreate):
		out.Action = intent.CategoryCreate
		out.CategoryName = rest
	default:
		out.Action = intent.CategoryList
	}

	if out.Action != intent.CategoryList && out.CategoryName == "" {
		out.Confidence = 0.4
	}
	return out, nil
}

// pickCategory prefers a known category mentioned in text and otherwise
// returns the text itself, so the registry can answer with suggestions.
func pickCategory(text string, ctx intent.Context) string {
	if name := matchName(text, categoryNames(ctx, "")); name != "" {
		return name
	}
	return names.Normalize(text)
}

var (
	savingsTransfer = wordSet("pindah", "pindahkan", "transfer", "move")
	savingsReturn   = wordSet("kembalikan", "tarik", "return", "withdraw", "cairkan")
	savingsDelete   = wordSet("hapus", "delete", "remove")
	savingsPlan     = wordSet("rencana", "plan", "rutin", "setiap", "tiap", "every", "otomatis")
	savingsCreate   = wordSet("bikin", "create", "new", "baru")
	makeWords       = wordSet("buat", "make")
	savingsList     = wordSet("daftar", "list", "semua", "all")
	savingsBalance  = wordSet("saldo", "balance", "cek", "check", "progress", "berapa")
	biweeklyWords   = wordSet("biweekly", "dwimingguan", "fortnightly")
	savingsNoise    = wordSet("tabungan", "tabung", "nabung", "menabung", "goal", "target", "celengan", "saving",
		"savings", "untuk", "buat", "bikin", "create", "new", "baru", "for", "ke", "to", "a", "the", "sebesar",
		"rp", "rp.", "dengan", "with")
)

func (l *Local) Savings(_ context.Context, req intent.Request) (intent.SavingsIntent, error) {
	text, err := l.text(req)
	if err != nil {
		return intent.SavingsIntent{}, err
	}

	out := intent.SavingsIntent{
		GoalName:   matchName(text, req.Context.Goals),
		Confidence: 0.9,
	}
	amount, rest, hasAmount := extractAmount(text)
	if hasAmount {
		out.Amount = &amount
	}

	switch {
	case hasAny(text, savingsTransfer):
		out.Action = intent.SavingsTransferGoal
		if m := transferPattern.FindStringSubmatch(names.Normalize(rest)); m != nil {
			out.GoalName = pickGoal(m[1], req.Context.Goals)
			out.TargetGoalName = pickGoal(m[2], req.Context.Goals)
		}
		if out.GoalName == "" || out.TargetGoalName == "" || !hasAmount {
			out.Confidence = 0.4
		}
	case hasAny(text, savingsReturn):
		out.Action = intent.SavingsReturnFunds
	case hasAny(text, savingsDelete):
		out.Action = intent.SavingsDeleteGoal
	case hasAny(text, savingsPlan):
		out.Action = intent.SavingsSetPlan
		out.Frequency = frequencyOf(text)
		if !hasAmount {
			out.Confidence = 0.4
		}
	case hasAny(text, savingsCreate) || (out.GoalName == "" && hasAny(text, makeWords) && !hasAny(text, savingsBalance)):
		out.Action = intent.SavingsCreateGoal
		out.GoalName = names.Normalize(stripWords(rest, savingsNoise))
		if !hasAmount {
			out.Confidence = 0.4
		}
	case hasAny(text, savingsList):
		out.Action = intent.SavingsListGoals
	case hasAmount:
		out.Action = intent.SavingsSave
	default:
		out.Action = intent.SavingsCheckBalance
	}

	switch out.Action {
	case intent.SavingsSave, intent.SavingsReturnFunds, intent.SavingsDeleteGoal,
		intent.SavingsSetPlan, intent.SavingsCreateGoal:
		if out.GoalName == "" {
			out.Confidence = 0.4
		}
	}
	return out, nil
}

func pickGoal(text string, goals []string) string {
	if name := matchName(text, goals); name != "" {
		return name
	}
	return names.Normalize(stripWords(text, savingsNoise))
}

func frequencyOf(text string) string {
	switch {
	case hasAny(text, biweeklyWords) || strings.Contains(strings.ToLower(text), "2 minggu") ||
		strings.Contains(strings.ToLower(text), "dua minggu"):
		return "biweekly"
	case hasAny(text, weeklyWords):
		return "weekly"
	default:
		return "monthly"
	}
}
