// Package output provides utilities for formatting and exporting
// calculation results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/report"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// CSVHeader is the column layout of schedule exports.
var CSVHeader = []string{
	"Month",
	"Principal",
	"Interest",
	"Insurance",
	"Total Payment",
	"Remaining Balance",
}

// Document is the serialized form of a calculation used by the JSON and
// YAML exports.
type Document struct {
	Parameters amortization.Parameters `json:"parameters" yaml:"parameters"`
	Result     amortization.Result     `json:"result" yaml:"result"`
	Breakdown  []report.Slice          `json:"breakdown" yaml:"breakdown"`
}

// Supported languages for the pretty report.
var supportedLanguages = []language.Tag{language.English, language.French}

var languageMatcher = language.NewMatcher(supportedLanguages)

// Message keys of the pretty report, translated by reportCatalog.
const (
	msgTitle          = "--- Loan of %s at %s over %s months ---\n"
	msgInsuranceRate  = "Insurance rate  | %s\n"
	msgMonthlyPayment = "Monthly payment | %s\n"
	msgTotalInterest  = "Total interest  | %s\n"
	msgTotalInsurance = "Total insurance | %s\n"
	msgTotalCost      = "Total cost      | %s\n"
	msgTableHeader    = "Month | Principal | Interest | Insurance | Total Payment | Remaining Balance"
	msgTableRow       = "%5s | %s | %s | %s | %s | %s\n"
)

var reportCatalog = newReportCatalog()

func newReportCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	french := map[string]string{
		msgTitle:          "--- Prêt de %s à %s sur %s mois ---\n",
		msgInsuranceRate:  "Taux d'assurance | %s\n",
		msgMonthlyPayment: "Mensualité       | %s\n",
		msgTotalInterest:  "Intérêt total    | %s\n",
		msgTotalInsurance: "Assurance totale | %s\n",
		msgTotalCost:      "Coût total       | %s\n",
		msgTableHeader:    "Mois | Capital | Intérêt | Assurance | Mensualité | Solde Restant",
	}
	for key, msg := range french {
		if err := b.SetString(language.French, key, msg); err != nil {
			panic(fmt.Sprintf("invalid report message %q: %v", key, err))
		}
	}
	return b
}

// Language resolves a language code such as "en" or "fr-MA" to a supported
// report language. An empty code means English.
func Language(code string) (language.Tag, error) {
	if code == "" {
		return language.English, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("invalid report language %q: %w", code, err)
	}
	_, index, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		return language.Und, fmt.Errorf("unsupported report language %q", code)
	}
	return supportedLanguages[index], nil
}

// Pretty writes an English summary followed by the schedule table.
func Pretty(w io.Writer, params amortization.Parameters, result amortization.Result, currency string) error {
	return PrettyLocalized(w, language.English, params, result, currency)
}

// PrettyLocalized writes the summary and schedule table with labels in lang.
// Amounts always use the space-grouped, comma-decimal display format.
func PrettyLocalized(w io.Writer, lang language.Tag, params amortization.Parameters, result amortization.Result, currency string) error {
	p := message.NewPrinter(lang, message.Catalog(reportCatalog))
	summary := report.NewSummary(result).Format(currency)
	header := p.Sprintf(msgTableHeader)

	lines := []string{
		p.Sprintf(msgTitle, format.Currency(params.Principal, currency),
			format.Percent(params.AnnualInterestRate), strconv.Itoa(params.TermMonths)),
		p.Sprintf(msgInsuranceRate, format.Percent(params.AnnualInsuranceRate)),
		p.Sprintf(msgMonthlyPayment, summary.MonthlyPayment),
		p.Sprintf(msgTotalInterest, summary.TotalInterest),
		p.Sprintf(msgTotalInsurance, summary.TotalInsurance),
		p.Sprintf(msgTotalCost, summary.TotalCost),
		"\n",
		header + "\n",
		underline(header) + "\n",
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	for _, row := range result.Schedule {
		if _, err := p.Fprintf(w, msgTableRow,
			fmt.Sprintf("%5d", row.Month),
			format.Amount(row.Principal),
			format.Amount(row.Interest),
			format.Amount(row.Insurance),
			format.Amount(row.TotalPayment),
			format.Amount(row.RemainingBalance),
		); err != nil {
			return err
		}
	}
	return nil
}

// underline replaces every label character of a table header with '_'.
func underline(header string) string {
	return strings.Map(func(r rune) rune {
		if r == '|' || r == ' ' {
			return r
		}
		return '_'
	}, header)
}

// CSV writes the schedule in comma-separated value format with two decimals
// per amount.
func CSV(w io.Writer, result amortization.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range result.Schedule {
		record := []string{
			strconv.Itoa(row.Month),
			format.Number(row.Principal),
			format.Number(row.Interest),
			format.Number(row.Insurance),
			format.Number(row.TotalPayment),
			format.Number(row.RemainingBalance),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSVString returns the CSV export as a string.
func CSVString(result amortization.Result) (string, error) {
	var buf bytes.Buffer
	if err := CSV(&buf, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSON writes the parameters, result and cost breakdown as indented JSON.
func JSON(w io.Writer, params amortization.Parameters, result amortization.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newDocument(params, result))
}

// YAML writes the parameters, result and cost breakdown as YAML.
func YAML(w io.Writer, params amortization.Parameters, result amortization.Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(newDocument(params, result)); err != nil {
		return err
	}
	return encoder.Close()
}

func newDocument(params amortization.Parameters, result amortization.Result) Document {
	return Document{
		Parameters: params,
		Result:     result,
		Breakdown:  report.Breakdown(params, result),
	}
}
