package dto

import (
	"testing"
	"time"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validLine() EntryLineRequest {
	combinationID := "combo-1"
	return EntryLineRequest{
		Amount:        decimal.NewFromInt(100),
		Type:          domain.Debit,
		CombinationID: &combinationID,
	}
}

func TestEntryLineRequest_ExactlyOneAddressingMode(t *testing.T) {
	combinationID := "combo-1"
	segments := []SegmentPair{{SegmentTypeID: "type-a", SegmentCode: "1000"}}

	byID := EntryLineRequest{Amount: decimal.NewFromInt(100), Type: domain.Debit, CombinationID: &combinationID}
	assert.NoError(t, byID.Validate(), "A line addressed by combination id should validate")

	bySegments := EntryLineRequest{Amount: decimal.NewFromInt(100), Type: domain.Credit, Segments: segments}
	assert.NoError(t, bySegments.Validate(), "A line addressed by segment set should validate")

	both := EntryLineRequest{Amount: decimal.NewFromInt(100), Type: domain.Debit, CombinationID: &combinationID, Segments: segments}
	assert.ErrorIs(t, both.Validate(), apperrors.ErrValidation, "Supplying both addressing modes should fail")

	neither := EntryLineRequest{Amount: decimal.NewFromInt(100), Type: domain.Debit}
	assert.ErrorIs(t, neither.Validate(), apperrors.ErrValidation, "Supplying no addressing mode should fail")

	badType := EntryLineRequest{Amount: decimal.NewFromInt(100), Type: "TRANSFER", CombinationID: &combinationID}
	assert.ErrorIs(t, badType.Validate(), apperrors.ErrValidation, "Unknown line types should fail")
}

func TestCreateEntryRequest_Validate(t *testing.T) {
	valid := CreateEntryRequest{
		EntryDate:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		Lines:        []EntryLineRequest{validLine(), validLine()},
	}
	assert.NoError(t, valid.Validate())

	tooFewLines := valid
	tooFewLines.Lines = []EntryLineRequest{validLine()}
	assert.ErrorIs(t, tooFewLines.Validate(), apperrors.ErrValidation, "An entry needs at least two lines")

	badCurrency := valid
	badCurrency.CurrencyCode = "DOLLARS"
	assert.ErrorIs(t, badCurrency.Validate(), apperrors.ErrValidation, "Currency must be a three-letter code")

	noDate := valid
	noDate.EntryDate = time.Time{}
	assert.ErrorIs(t, noDate.Validate(), apperrors.ErrValidation, "Entry date is required")
}

func TestSegmentFilter_ExactlyOneMode(t *testing.T) {
	pair := SegmentPair{SegmentTypeID: "type-a", SegmentCode: "1000"}

	assert.NoError(t, SegmentFilter{Segment: &pair}.Validate())
	assert.NoError(t, SegmentFilter{All: []SegmentPair{pair}}.Validate())
	assert.NoError(t, SegmentFilter{Any: []SegmentPair{pair}}.Validate())

	err := SegmentFilter{}.Validate()
	assert.ErrorIs(t, err, apperrors.ErrValidation, "A filter without a mode should fail")

	err = SegmentFilter{Segment: &pair, Any: []SegmentPair{pair}}.Validate()
	assert.ErrorIs(t, err, apperrors.ErrValidation, "A filter with two modes should fail")
	assert.Contains(t, err.Error(), "exactly one")
}
