package testdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// Header is the column row written by WriteBankCSV. It is recognized by mapping detection.
var Header = []string{"Date", "Description", "Amount", "Type", "Category", "Status", "Account"}

type sample struct {
	desc     string
	min, max int // cents
	typ      string
	category string
}

var samples = []sample{
	{"UBER EATS* SUSHI", 1500, 6000, "", "food"},
	{"WOOLWORTHS", 2000, 25000, "", "food"},
	{"SPOTIFY", 1199, 1199, "", "subscriptions"},
	{"AMAZON.COM*XYZ", 900, 18000, "", "shopping"},
	{"SALARY ACME", 450000, 450000, "income", "salary"},
	{"TRANSFER TO SAVINGS", 50000, 200000, "Capital Transfer", "savings"},
	{"REFUND AMAZON.COM", 900, 5000, "Reversed True Expense", "shopping"},
}

var accounts = []string{"checking", "credit-card"}

// WriteBankCSV writes n pseudo-random transactions dated backwards from end.
// The same seed always produces the same file.
func WriteBankCSV(w io.Writer, n int, seed int64, end time.Time) error {
	rng := rand.New(rand.NewSource(seed))
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		s := samples[rng.Intn(len(samples))]
		cents := s.min
		if s.max > s.min {
			cents += rng.Intn(s.max - s.min)
		}
		amount := fmt.Sprintf("%d.%02d", cents/100, cents%100)
		if s.typ == "" {
			amount = "-" + amount
		}
		status := "completed"
		if rng.Intn(10) < 2 {
			status = "pending"
		}
		rec := []string{
			end.AddDate(0, 0, -i).Format("01/02/2006"),
			s.desc,
			"$" + amount,
			s.typ,
			s.category,
			status,
			accounts[rng.Intn(len(accounts))],
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
