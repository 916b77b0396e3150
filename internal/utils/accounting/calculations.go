package accounting

import (
	"fmt"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TotalDebit sums the amounts of all DEBIT lines.
func TotalDebit(lines []domain.JournalLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		if line.LineType == domain.Debit {
			sum = sum.Add(line.Amount)
		}
	}
	return sum
}

// TotalCredit sums the amounts of all CREDIT lines.
func TotalCredit(lines []domain.JournalLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		if line.LineType == domain.Credit {
			sum = sum.Add(line.Amount)
		}
	}
	return sum
}

// BalanceDifference returns total debits minus total credits. Zero means the
// lines balance.
func BalanceDifference(lines []domain.JournalLine) decimal.Decimal {
	return TotalDebit(lines).Sub(TotalCredit(lines))
}

// IsBalanced reports whether total debits equal total credits.
func IsBalanced(lines []domain.JournalLine) bool {
	return BalanceDifference(lines).IsZero()
}

// ValidateEntryBalance checks that the lines of an entry form a valid double
// entry: at least two lines, every amount strictly positive, a recognized line
// type on each, and debits equal to credits. A balance mismatch is reported as
// an apperrors.UnbalancedError so callers can surface both totals.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}

	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: line amount must be positive, got %s", apperrors.ErrValidation, line.Amount.String())
		}
		if line.LineType != domain.Debit && line.LineType != domain.Credit {
			return fmt.Errorf("%w: unknown line type %q", apperrors.ErrValidation, line.LineType)
		}
	}

	debit := TotalDebit(lines)
	credit := TotalCredit(lines)
	if !debit.Equal(credit) {
		return apperrors.NewUnbalancedError(debit, credit)
	}
	return nil
}
