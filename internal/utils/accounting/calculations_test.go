package accounting

import (
	"testing"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(lineType domain.LineType, amount string) domain.JournalLine {
	return domain.JournalLine{
		LineID:        "line-" + amount,
		Amount:        decimal.RequireFromString(amount),
		LineType:      lineType,
		CombinationID: "combo-1",
	}
}

func TestTotals(t *testing.T) {
	lines := []domain.JournalLine{
		line(domain.Debit, "600.00"),
		line(domain.Debit, "400.00"),
		line(domain.Credit, "900.00"),
		line(domain.Credit, "100.00"),
	}

	assert.True(t, TotalDebit(lines).Equal(decimal.RequireFromString("1000.00")), "Debit total should sum only DEBIT lines")
	assert.True(t, TotalCredit(lines).Equal(decimal.RequireFromString("1000.00")), "Credit total should sum only CREDIT lines")

	// Empty input sums to zero on both sides
	assert.True(t, TotalDebit(nil).IsZero(), "Debit total of no lines should be zero")
	assert.True(t, TotalCredit(nil).IsZero(), "Credit total of no lines should be zero")
}

func TestBalanceDifference(t *testing.T) {
	lines := []domain.JournalLine{
		line(domain.Debit, "1000.00"),
		line(domain.Credit, "900.00"),
	}
	assert.True(t, BalanceDifference(lines).Equal(decimal.RequireFromString("100.00")), "Difference should be debit minus credit")

	flipped := []domain.JournalLine{
		line(domain.Debit, "900.00"),
		line(domain.Credit, "1000.00"),
	}
	assert.True(t, BalanceDifference(flipped).Equal(decimal.RequireFromString("-100.00")), "Credit excess should yield a negative difference")
}

func TestIsBalanced_ExactDecimalArithmetic(t *testing.T) {
	// 0.10 + 0.20 must equal 0.30 exactly; binary floats would miss this.
	lines := []domain.JournalLine{
		line(domain.Debit, "0.10"),
		line(domain.Debit, "0.20"),
		line(domain.Credit, "0.30"),
	}
	assert.True(t, IsBalanced(lines), "Exact decimal sums should balance")

	offByOneCent := []domain.JournalLine{
		line(domain.Debit, "0.10"),
		line(domain.Debit, "0.20"),
		line(domain.Credit, "0.31"),
	}
	assert.False(t, IsBalanced(offByOneCent), "A one-cent mismatch should not balance")
}

func TestValidateEntryBalance_Balanced(t *testing.T) {
	lines := []domain.JournalLine{
		line(domain.Debit, "250.75"),
		line(domain.Credit, "250.75"),
	}
	assert.NoError(t, ValidateEntryBalance(lines), "Balanced two-line entry should validate")
}

func TestValidateEntryBalance_TooFewLines(t *testing.T) {
	err := ValidateEntryBalance([]domain.JournalLine{line(domain.Debit, "100.00")})
	require.Error(t, err, "A single line can never form a double entry")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = ValidateEntryBalance(nil)
	require.Error(t, err, "An empty entry can never form a double entry")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateEntryBalance_NonPositiveAmount(t *testing.T) {
	zero := []domain.JournalLine{
		line(domain.Debit, "0"),
		line(domain.Credit, "0"),
	}
	err := ValidateEntryBalance(zero)
	require.Error(t, err, "Zero amounts should be rejected")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	negative := []domain.JournalLine{
		line(domain.Debit, "-50.00"),
		line(domain.Credit, "-50.00"),
	}
	err = ValidateEntryBalance(negative)
	require.Error(t, err, "Negative amounts should be rejected")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateEntryBalance_UnknownLineType(t *testing.T) {
	lines := []domain.JournalLine{
		line(domain.Debit, "100.00"),
		{LineID: "bad", Amount: decimal.RequireFromString("100.00"), LineType: "TRANSFER"},
	}
	err := ValidateEntryBalance(lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "TRANSFER", "Error should name the offending type")
}

func TestValidateEntryBalance_Unbalanced(t *testing.T) {
	lines := []domain.JournalLine{
		line(domain.Debit, "1000.00"),
		line(domain.Credit, "900.00"),
	}
	err := ValidateEntryBalance(lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnbalanced)

	var unbalanced *apperrors.UnbalancedError
	require.ErrorAs(t, err, &unbalanced, "Mismatch should surface both totals")
	assert.True(t, unbalanced.TotalDebit.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, unbalanced.TotalCredit.Equal(decimal.RequireFromString("900.00")))
	assert.True(t, unbalanced.Difference().Equal(decimal.RequireFromString("100.00")))
}
