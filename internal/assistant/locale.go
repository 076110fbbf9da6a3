package assistant

import (
	"strings"

	"fintrack-go/internal/domain/apperror"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	langID = "id"
	langEN = "en"
)

type catalog map[string]map[string]string

var texts = catalog{
	"unlinked": {
		langID: "Nomor ini belum terhubung. Buat kode aktivasi di aplikasi, lalu kirim: /link KODE",
		langEN: "This number is not linked yet. Create an activation code in the app, then send: /link CODE",
	},
	"linked": {
		langID: "🔗 Berhasil terhubung! Sekarang kamu bisa langsung catat transaksi.",
		langEN: "🔗 Linked! You can start recording transactions now.",
	},
	"in_progress": {
		langID: "Pesan ini sedang diproses.",
		langEN: "This message is still being processed.",
	},
	"tx_recorded": {
		langID: "✅ Tercatat %s %s • %s\n📝 %s",
		langEN: "✅ Recorded %s %s • %s\n📝 %s",
	},
	"kind_expense": {langID: "pengeluaran", langEN: "expense"},
	"kind_income":  {langID: "pemasukan", langEN: "income"},
	"category_created_note": {
		langID: "🆕 Kategori baru dibuat: %s",
		langEN: "🆕 New category created: %s",
	},
	"fallback_note": {
		langID: "ℹ️ Kategori tidak dikenali, dicatat ke %s",
		langEN: "ℹ️ Category not recognized, filed under %s",
	},
	"alert_info": {
		langID: "💡 Budget %s sudah terpakai %s%% (%s dari %s)",
		langEN: "💡 %s budget is %s%% used (%s of %s)",
	},
	"alert_danger": {
		langID: "⚠️ Budget %s hampir habis: %s%% (%s dari %s)",
		langEN: "⚠️ %s budget is almost gone: %s%% (%s of %s)",
	},
	"alert_exceeded": {
		langID: "🚨 Budget %s terlampaui: %s%% (%s dari %s)",
		langEN: "🚨 %s budget exceeded: %s%% (%s of %s)",
	},
	"recommendation": {
		langID: "📊 Belum ada budget untuk %s. Saran: %s per bulan (rata-rata %s, tren %s, keyakinan %d%%)",
		langEN: "📊 No budget for %s yet. Suggested: %s per month (average %s, trend %s, confidence %d%%)",
	},
	"receipt_header": {
		langID: "🧾 %d item dari struk tercatat:",
		langEN: "🧾 %d receipt items recorded:",
	},
	"receipt_skipped": {
		langID: "⏭️ Dilewati: %s",
		langEN: "⏭️ Skipped: %s",
	},
	"receipt_empty": {
		langID: "Tidak ada item struk yang cukup jelas untuk dicatat.",
		langEN: "No receipt item was clear enough to record.",
	},
	"budget_created": {
		langID: "🎯 Budget %s dibuat: %s per %s",
		langEN: "🎯 %s budget created: %s per %s",
	},
	"budget_updated": {
		langID: "🎯 Budget %s diperbarui: %s per %s",
		langEN: "🎯 %s budget updated: %s per %s",
	},
	"budget_deleted": {
		langID: "🗑️ Budget %s dihapus",
		langEN: "🗑️ %s budget deleted",
	},
	"budget_status": {
		langID: "%s %s: %s / %s (%s%%), sisa %s",
		langEN: "%s %s: %s / %s (%s%%), %s left",
	},
	"budget_none": {
		langID: "Belum ada budget. Contoh: budget makan 1jt per bulan",
		langEN: "No budgets yet. Example: budget food 1m monthly",
	},
	"budget_list_header": {langID: "📋 Budget kamu:", langEN: "📋 Your budgets:"},
	"period_weekly":      {langID: "minggu", langEN: "week"},
	"period_monthly":     {langID: "bulan", langEN: "month"},
	"category_created": {
		langID: "🆕 Kategori %s %s dibuat (%s)",
		langEN: "🆕 Category %s %s created (%s)",
	},
	"category_updated": {
		langID: "✏️ Kategori diperbarui: %s",
		langEN: "✏️ Category updated: %s",
	},
	"category_deleted": {
		langID: "🗑️ Kategori %s dihapus",
		langEN: "🗑️ Category %s deleted",
	},
	"category_list_expense": {langID: "💸 Pengeluaran:", langEN: "💸 Expense:"},
	"category_list_income":  {langID: "💰 Pemasukan:", langEN: "💰 Income:"},
	"goal_created": {
		langID: "🎯 Target %s dibuat: %s",
		langEN: "🎯 Goal %s created: %s",
	},
	"goal_boosted": {
		langID: "🐷 %s ditabung ke %s (%s / %s, %s%%)",
		langEN: "🐷 Saved %s to %s (%s / %s, %s%%)",
	},
	"goal_clamped": {
		langID: "ℹ️ Hanya %s yang masuk karena target sudah hampir penuh",
		langEN: "ℹ️ Only %s was applied because the goal was nearly full",
	},
	"goal_archived": {
		langID: "🎉 Target %s tercapai!",
		langEN: "🎉 Goal %s reached!",
	},
	"goal_transferred": {
		langID: "🔁 %s dipindahkan dari %s ke %s",
		langEN: "🔁 Moved %s from %s to %s",
	},
	"goal_remainder": {
		langID: "ℹ️ %s tetap di %s karena %s sudah penuh",
		langEN: "ℹ️ %s stayed in %s because %s is full",
	},
	"goal_returned": {
		langID: "↩️ %s dari %s dikembalikan ke saldo utama",
		langEN: "↩️ %s from %s returned to the main balance",
	},
	"goal_deleted": {
		langID: "🗑️ Target %s dihapus",
		langEN: "🗑️ Goal %s deleted",
	},
	"goal_deleted_refund": {
		langID: "🗑️ Target %s dihapus, %s dikembalikan ke saldo utama",
		langEN: "🗑️ Goal %s deleted, %s returned to the main balance",
	},
	"goal_list_header": {langID: "🎯 Target tabungan:", langEN: "🎯 Savings goals:"},
	"goal_none": {
		langID: "Belum ada target. Contoh: buat target Laptop 10jt",
		langEN: "No goals yet. Example: create goal Laptop 10m",
	},
	"goal_line": {
		langID: "%s %s: %s / %s (%s%%)",
		langEN: "%s %s: %s / %s (%s%%)",
	},
	"balance": {
		langID: "💼 Saldo utama: %s\n🐷 Total tabungan: %s",
		langEN: "💼 Main balance: %s\n🐷 Total saved: %s",
	},
	"plan_set": {
		langID: "📅 Rencana %s: %s per %s, berikutnya %s",
		langEN: "📅 %s plan: %s every %s, next on %s",
	},
	"frequency_weekly":   {langID: "minggu", langEN: "week"},
	"frequency_biweekly": {langID: "2 minggu", langEN: "2 weeks"},
	"frequency_monthly":  {langID: "bulan", langEN: "month"},
	"suggestions": {
		langID: "Mungkin maksudmu: %s",
		langEN: "Did you mean: %s",
	},
}

var kindTexts = map[apperror.Kind]map[string]string{
	apperror.KindLowConfidence: {
		langID: "🤔 Maaf, aku belum yakin maksudnya. Coba tulis lebih jelas ya.",
		langEN: "🤔 Sorry, I'm not sure what you meant. Could you say it more clearly?",
	},
	apperror.KindCategoryUnresolved: {
		langID: "Kategori tidak ditemukan dan tidak ada kategori cadangan.",
		langEN: "No matching category and no fallback category available.",
	},
	apperror.KindInsufficientFunds: {
		langID: "💸 Dana tidak cukup: %s",
		langEN: "💸 Not enough funds: %s",
	},
	apperror.KindGoalNotFound: {
		langID: "Target tabungan tidak ditemukan.",
		langEN: "Savings goal not found.",
	},
	apperror.KindCategoryNotFound: {
		langID: "Kategori tidak ditemukan.",
		langEN: "Category not found.",
	},
	apperror.KindBudgetNotFound: {
		langID: "Belum ada budget untuk kategori ini.",
		langEN: "There is no budget for this category.",
	},
	apperror.KindUnavailable: {
		langID: "⏳ Layanan sedang sibuk. Coba kirim ulang sebentar lagi.",
		langEN: "⏳ The service is busy. Please try again in a moment.",
	},
	apperror.KindValidation: {
		langID: "❌ Tidak bisa diproses: %s",
		langEN: "❌ Could not process: %s",
	},
	apperror.KindInternal: {
		langID: "Terjadi kesalahan. Coba lagi nanti.",
		langEN: "Something went wrong. Please try again later.",
	},
}

var examples = map[Domain]map[string]string{
	DomainTransaction: {langID: "beli kopi 25rb", langEN: "coffee 25k"},
	DomainReceipt:     {langID: "kirim foto struk yang jelas", langEN: "send a clear photo of the receipt"},
	DomainBudget:      {langID: "budget makan 1jt per bulan", langEN: "budget food 1m monthly"},
	DomainCategory:    {langID: "tambah kategori Kopi", langEN: "add category Coffee"},
	DomainSavings:     {langID: "nabung 100rb buat Laptop", langEN: "save 100k to Laptop"},
	DomainLink:        {langID: "/link AB12CD", langEN: "/link AB12CD"},
}

func normalizeLang(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), langEN) {
		return langEN
	}
	return langID
}

func tag(lang string) language.Tag {
	if normalizeLang(lang) == langEN {
		return language.English
	}
	return language.Indonesian
}

// localizer renders catalog entries and amounts in one language.
type localizer struct {
	lang    string
	printer *message.Printer
}

func newLocalizer(lang string) localizer {
	lang = normalizeLang(lang)
	return localizer{lang: lang, printer: message.NewPrinter(tag(lang))}
}

func (l localizer) text(key string, args ...any) string {
	entry, ok := texts[key]
	if !ok {
		return key
	}
	return l.printer.Sprintf(entry[l.lang], args...)
}

func (l localizer) kind(kind apperror.Kind, args ...any) string {
	entry, ok := kindTexts[kind]
	if !ok {
		entry = kindTexts[apperror.KindInternal]
	}
	return l.printer.Sprintf(entry[l.lang], args...)
}

func (l localizer) example(domain Domain) string {
	return examples[domain][l.lang]
}

// money formats an amount with grouping for the language, e.g. "Rp 25.000"
// or "USD 12.50".
func (l localizer) money(amount decimal.Decimal, currency string) string {
	digits := 0
	if !amount.Round(0).Equal(amount) {
		digits = 2
	}
	value, _ := amount.Round(int32(digits)).Float64()
	formatted := l.printer.Sprint(number.Decimal(value,
		number.MinFractionDigits(digits), number.MaxFractionDigits(digits)))

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "IDR" || currency == "" {
		return "Rp " + formatted
	}
	return currency + " " + formatted
}

func (l localizer) percent(value decimal.Decimal) string {
	f, _ := value.Round(1).Float64()
	return l.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(1)))
}
