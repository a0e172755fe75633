package expense

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

func str(s string) *string { return &s }

var _ = Describe("ToCandidate", func() {
	var (
		x         extraction.ReceiptExtraction
		candidate Candidate
	)

	BeforeEach(func() {
		x = extraction.ReceiptExtraction{
			Merchant: str("Joe's Diner"),
			Date:     str("2024-03-15"),
			Total:    str("11.00"),
			Currency: "EUR",
			Items:    []extraction.LineItem{{Description: "Coffee", Amount: "3.50"}},
			RawText:  "Joe's Diner\nTotal 11.00 EUR",
		}
	})

	JustBeforeEach(func() {
		candidate = ToCandidate(x)
	})

	When("every field was extracted", func() {
		It("titles the draft after the merchant", func() {
			Expect(candidate.Title).To(Equal("Receipt - Joe's Diner"))
		})

		It("uses the raw text as description", func() {
			Expect(candidate.Description).To(Equal(x.RawText))
		})

		It("parses the amount", func() {
			amount, ok := candidate.AmountOriginal.Get()
			Expect(ok).To(BeTrue())
			Expect(amount.Equal(decimal.RequireFromString("11"))).To(BeTrue())
		})

		It("parses the date", func() {
			date, ok := candidate.DateOfExpense.Get()
			Expect(ok).To(BeTrue())
			Expect(date).To(Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		})

		It("keeps the currency", func() {
			Expect(candidate.CurrencyOriginal).To(Equal("EUR"))
		})

		It("assigns the fixed category", func() {
			Expect(candidate.Category).To(Equal("misc"))
		})

		It("passes merchant and items through", func() {
			Expect(candidate.Merchant).To(HaveValue(Equal("Joe's Diner")))
			Expect(candidate.Items).To(Equal(x.Items))
		})
	})

	When("the merchant is missing", func() {
		BeforeEach(func() {
			x.Merchant = nil
		})

		It("uses a generic title", func() {
			Expect(candidate.Title).To(Equal("Receipt"))
			Expect(candidate.Merchant).To(BeNil())
		})
	})

	When("the total is missing", func() {
		BeforeEach(func() {
			x.Total = nil
		})

		It("marks the amount missing instead of zero", func() {
			Expect(candidate.AmountOriginal.IsFound()).To(BeFalse())
		})
	})

	When("the total is zero", func() {
		BeforeEach(func() {
			x.Total = str("0.00")
		})

		It("marks the amount found", func() {
			amount, ok := candidate.AmountOriginal.Get()
			Expect(ok).To(BeTrue())
			Expect(amount.IsZero()).To(BeTrue())
		})
	})

	When("the currency is empty", func() {
		BeforeEach(func() {
			x.Currency = ""
		})

		It("defaults to USD", func() {
			Expect(candidate.CurrencyOriginal).To(Equal("USD"))
		})
	})

	When("items are nil", func() {
		BeforeEach(func() {
			x.Items = nil
		})

		It("returns an empty list", func() {
			Expect(candidate.Items).NotTo(BeNil())
			Expect(candidate.Items).To(BeEmpty())
		})
	})

	DescribeTable("date parsing",
		func(raw string, expected time.Time) {
			x.Date = str(raw)
			date, ok := ToCandidate(x).DateOfExpense.Get()
			Expect(ok).To(BeTrue())
			Expect(date).To(Equal(expected))
		},
		Entry("day first slash", "15/03/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		Entry("month first slash when day first is impossible", "03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		Entry("dotted", "15.03.2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		Entry("day month year", "5 Mar 2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
		Entry("long month name", "5 March 2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
		Entry("month day year", "Mar 5, 2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
		Entry("uppercase without space", "DEC 31,2023", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
		Entry("sept", "Sept 7, 2023", time.Date(2023, 9, 7, 0, 0, 0, 0, time.UTC)),
	)

	DescribeTable("unparseable dates are missing",
		func(raw string) {
			x.Date = str(raw)
			Expect(ToCandidate(x).DateOfExpense.IsFound()).To(BeFalse())
		},
		Entry("impossible month", "2024-13-45"),
		Entry("no year", "5 March"),
	)

	It("serializes missing values as null", func() {
		x.Total = nil
		x.Date = nil
		b, err := json.Marshal(ToCandidate(x))
		Expect(err).NotTo(HaveOccurred())
		var decoded map[string]any
		Expect(json.Unmarshal(b, &decoded)).To(Succeed())
		Expect(decoded).To(HaveKeyWithValue("amountOriginal", BeNil()))
		Expect(decoded).To(HaveKeyWithValue("dateOfExpense", BeNil()))
	})
})

var _ = Describe("Resolve", func() {
	var now time.Time

	BeforeEach(func() {
		now = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	})

	It("keeps found values", func() {
		date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		d := Resolve(Candidate{
			AmountOriginal: Found(decimal.RequireFromString("6.00")),
			DateOfExpense:  Found(date),
		}, now)
		Expect(d.AmountOriginal.String()).To(Equal("6"))
		Expect(d.DateOfExpense).To(Equal(date))
		Expect(d.AmountMissing).To(BeFalse())
		Expect(d.DateMissing).To(BeFalse())
	})

	It("defaults missing values and records it", func() {
		d := Resolve(Candidate{
			AmountOriginal: Missing[decimal.Decimal](),
			DateOfExpense:  Missing[time.Time](),
		}, now)
		Expect(d.AmountOriginal.IsZero()).To(BeTrue())
		Expect(d.DateOfExpense).To(Equal(now))
		Expect(d.AmountMissing).To(BeTrue())
		Expect(d.DateMissing).To(BeTrue())
	})
})
