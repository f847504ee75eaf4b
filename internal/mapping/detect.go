package mapping

import (
	"strings"

	"github.com/jask/fintrack/internal/database/repository"
)

// DetectedMappingName names mappings produced by Detect.
const DetectedMappingName = "Auto-detected"

// DefaultOptions are the options of a freshly detected mapping.
func DefaultOptions() repository.MappingOptions {
	return repository.MappingOptions{
		DateFormat:              "MM/DD/YYYY",
		NegativeAmountIsExpense: true,
		InvertAmount:            false,
	}
}

// Detect guesses a mapping from a header row. Headers are scanned left to
// right and the first matching rule decides each header. Slots keep the first
// header that claims them, except the type slot: debit/credit and type
// headers always take it, so the last one wins.
func Detect(headers []string) repository.FieldMapping {
	m := repository.FieldMapping{Name: DetectedMappingName, Options: DefaultOptions()}
	c := &m.Mappings

	for _, header := range headers {
		h := strings.ToLower(header)
		switch {
		case strings.Contains(h, "date"):
			setOnce(&c.Date, header)
		case strings.Contains(h, "desc") || strings.Contains(h, "memo") || strings.Contains(h, "narration"):
			setOnce(&c.Description, header)
		case strings.Contains(h, "amount"):
			setOnce(&c.Amount, header)
		case strings.Contains(h, "debit") || strings.Contains(h, "credit"):
			setOnce(&c.Amount, header)
			c.Type = header
		case strings.Contains(h, "type"):
			c.Type = header
		case strings.Contains(h, "category"):
			setOnce(&c.CategoryID, header)
		case strings.Contains(h, "status"):
			setOnce(&c.Status, header)
		case strings.Contains(h, "account"):
			setOnce(&c.AccountID, header)
		}
	}
	return m
}

func setOnce(slot *string, header string) {
	if *slot == "" {
		*slot = header
	}
}
