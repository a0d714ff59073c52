package analysis

const (
	ReasonSeparated    = "separated by distinct account, KMS key, or network boundary"
	ReasonInsufficient = "insufficient separation evidence"
)

// GuardVerdict is the outcome of the pseudonymization separation rule.
// When Applicable is false the remaining fields carry no meaning and must
// not be persisted.
type GuardVerdict struct {
	Applicable     bool
	MappingLocator string
	Separated      bool
	Reason         string
}

// EvaluateGuard decides whether a declared re-identification mapping is
// adequately isolated from the data it maps. No declared mapping means the
// rule does not apply; it does not mean "not pseudonymized". Separation on
// any single axis satisfies the rule.
func EvaluateGuard(extra ExtraMeta) GuardVerdict {
	if extra.MappingLocator == "" {
		return GuardVerdict{}
	}
	separated := extra.SeparatedBy.Any()
	reason := ReasonInsufficient
	if separated {
		reason = ReasonSeparated
	}
	return GuardVerdict{
		Applicable:     true,
		MappingLocator: extra.MappingLocator,
		Separated:      separated,
		Reason:         reason,
	}
}
