package extraction

// ValidationResult lists the defects of an extraction. It is advisory.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

type validationRule struct {
	message string
	failed  func(ReceiptExtraction) bool
}

var validationRules = []validationRule{
	{message: "Merchant not found", failed: func(x ReceiptExtraction) bool { return x.Merchant == nil }},
	{message: "Total not found", failed: func(x ReceiptExtraction) bool { return x.Total == nil }},
}

// Validate checks the minimum fields a usable expense draft needs.
func Validate(x ReceiptExtraction) ValidationResult {
	errs := make([]string, 0, len(validationRules))
	for _, r := range validationRules {
		if r.failed(x) {
			errs = append(errs, r.message)
		}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
