package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	portssvc "github.com/fingrid-labs/gl_core/internal/core/ports/services"
	"github.com/fingrid-labs/gl_core/internal/core/services"
	"github.com/fingrid-labs/gl_core/internal/dto"
	"github.com/fingrid-labs/gl_core/internal/platform/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock EntryRepository ---
type MockEntryRepository struct {
	mock.Mock
}

// Ensure MockEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindEntriesByCombinationIDs(ctx context.Context, combinationIDs []string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, combinationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntryWithLines(ctx context.Context, entry domain.JournalEntry, linesToUpsert []domain.JournalLine, lineIDsToDelete []string) error {
	args := m.Called(ctx, entry, linesToUpsert, lineIDsToDelete)
	return args.Error(0)
}

func (m *MockEntryRepository) PostEntry(ctx context.Context, entryID string, record domain.GeneralLedgerRecord, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, record, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockEntryRepository) FindLedgerRecordByEntryID(ctx context.Context, entryID string) (*domain.GeneralLedgerRecord, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralLedgerRecord), args.Error(1)
}

func (m *MockEntryRepository) FindLedgerRecordsByCombinationIDs(ctx context.Context, combinationIDs []string) ([]domain.GeneralLedgerRecord, error) {
	args := m.Called(ctx, combinationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneralLedgerRecord), args.Error(1)
}

// --- Mock CombinationService ---
type MockCombinationService struct {
	mock.Mock
}

// Ensure MockCombinationService implements portssvc.CombinationSvcFacade
var _ portssvc.CombinationSvcFacade = (*MockCombinationService)(nil)

func (m *MockCombinationService) GetCombinationByID(ctx context.Context, combinationID string) (*domain.Combination, error) {
	args := m.Called(ctx, combinationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Combination), args.Error(1)
}

func (m *MockCombinationService) FindCombination(ctx context.Context, pairs []dto.SegmentPair) (*domain.Combination, error) {
	args := m.Called(ctx, pairs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Combination), args.Error(1)
}

func (m *MockCombinationService) FindCombinationIDsByFilter(ctx context.Context, filter dto.SegmentFilter) ([]string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCombinationService) ResolveCombination(ctx context.Context, req dto.ResolveCombinationRequest, creatorUserID string) (string, error) {
	args := m.Called(ctx, req, creatorUserID)
	return args.String(0), args.Error(1)
}

func (m *MockCombinationService) CreateCombination(ctx context.Context, pairs []dto.SegmentPair, description *string, creatorUserID string) (*domain.Combination, error) {
	args := m.Called(ctx, pairs, description, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Combination), args.Error(1)
}

func (m *MockCombinationService) UpdateCombination(ctx context.Context, combinationID string) error {
	args := m.Called(ctx, combinationID)
	return args.Error(0)
}

func (m *MockCombinationService) DeleteCombination(ctx context.Context, combinationID string) error {
	args := m.Called(ctx, combinationID)
	return args.Error(0)
}

// --- Mock PeriodGate ---
type MockPeriodGate struct {
	mock.Mock
}

// Ensure MockPeriodGate implements portssvc.PeriodGateSvc
var _ portssvc.PeriodGateSvc = (*MockPeriodGate)(nil)

func (m *MockPeriodGate) IsOpen(ctx context.Context, date time.Time) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---
type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo        *MockEntryRepository
	mockComboSvc         *MockCombinationService
	mockGate             *MockPeriodGate
	service              portssvc.EntrySvcFacade
	now                  time.Time
	entryDate            time.Time
	userID               string
	accountTypeID        string
	deptTypeID           string
	cashCombinationID    string
	revenueCombinationID string
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockComboSvc = new(MockCombinationService)
	suite.mockGate = new(MockPeriodGate)
	suite.now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	suite.entryDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	suite.service = services.NewEntryService(suite.mockEntryRepo, suite.mockComboSvc, suite.mockGate, clock.Fixed(suite.now))
	suite.userID = uuid.NewString()
	suite.accountTypeID = uuid.NewString()
	suite.deptTypeID = uuid.NewString()
	suite.cashCombinationID = uuid.NewString()
	suite.revenueCombinationID = uuid.NewString()
}

// cashSegments names the cash account in the sales department.
func (suite *EntryServiceTestSuite) cashSegments() []dto.SegmentPair {
	return []dto.SegmentPair{
		{SegmentTypeID: suite.accountTypeID, SegmentCode: "1000"},
		{SegmentTypeID: suite.deptTypeID, SegmentCode: "SALES"},
	}
}

// revenueSegments names the revenue account in the sales department.
func (suite *EntryServiceTestSuite) revenueSegments() []dto.SegmentPair {
	return []dto.SegmentPair{
		{SegmentTypeID: suite.accountTypeID, SegmentCode: "4000"},
		{SegmentTypeID: suite.deptTypeID, SegmentCode: "SALES"},
	}
}

// draftEntry returns an unposted entry created yesterday.
func (suite *EntryServiceTestSuite) draftEntry() *domain.JournalEntry {
	created := suite.now.Add(-24 * time.Hour)
	return &domain.JournalEntry{
		EntryID:      uuid.NewString(),
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Memo:         "June sales receipts",
		Posted:       false,
		AuditFields: domain.AuditFields{
			CreatedAt:     created,
			CreatedBy:     suite.userID,
			LastUpdatedAt: created,
			LastUpdatedBy: suite.userID,
		},
	}
}

// twoLines builds one debit on cash and one credit on revenue for the entry.
func (suite *EntryServiceTestSuite) twoLines(entryID string, debit, credit decimal.Decimal) []domain.JournalLine {
	created := suite.now.Add(-24 * time.Hour)
	audit := domain.AuditFields{
		CreatedAt:     created,
		CreatedBy:     suite.userID,
		LastUpdatedAt: created,
		LastUpdatedBy: suite.userID,
	}
	return []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, Amount: debit, LineType: domain.Debit, CombinationID: suite.cashCombinationID, AuditFields: audit},
		{LineID: uuid.NewString(), EntryID: entryID, Amount: credit, LineType: domain.Credit, CombinationID: suite.revenueCombinationID, AuditFields: audit},
	}
}

// --- CreateEntry ---

func (suite *EntryServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Memo:         "June sales receipts",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(1000), Type: domain.Debit, Segments: suite.cashSegments()},
			{Amount: decimal.NewFromInt(1000), Type: domain.Credit, Segments: suite.revenueSegments()},
		},
	}

	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(true, nil).Once()
	suite.mockComboSvc.On("ResolveCombination", ctx, dto.ResolveCombinationRequest{Segments: suite.cashSegments()}, suite.userID).Return(suite.cashCombinationID, nil).Once()
	suite.mockComboSvc.On("ResolveCombination", ctx, dto.ResolveCombinationRequest{Segments: suite.revenueSegments()}, suite.userID).Return(suite.revenueCombinationID, nil).Once()

	var savedLines []domain.JournalLine
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.JournalLine)
		}).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.False(entry.Posted)
	suite.Equal(req.CurrencyCode, entry.CurrencyCode)
	suite.Equal(req.Memo, entry.Memo)
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.Equal(suite.now, entry.CreatedAt)

	suite.Require().Len(savedLines, 2)
	suite.Equal(suite.cashCombinationID, savedLines[0].CombinationID)
	suite.Equal(suite.revenueCombinationID, savedLines[1].CombinationID)
	for _, line := range savedLines {
		suite.Equal(entry.EntryID, line.EntryID)
		suite.NotEmpty(line.LineID)
		suite.Equal(suite.now, line.CreatedAt)
	}
	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockComboSvc.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_AllowsUnbalancedDraft() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(1000), Type: domain.Debit, Segments: suite.cashSegments()},
			{Amount: decimal.NewFromInt(400), Type: domain.Credit, Segments: suite.revenueSegments()},
		},
	}

	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(true, nil).Once()
	suite.mockComboSvc.On("ResolveCombination", ctx, mock.AnythingOfType("dto.ResolveCombinationRequest"), suite.userID).Return(suite.cashCombinationID, nil).Twice()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.False(entry.Posted)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_UsesSuppliedCombinationID() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(75), Type: domain.Debit, CombinationID: &suite.cashCombinationID},
			{Amount: decimal.NewFromInt(75), Type: domain.Credit, CombinationID: &suite.revenueCombinationID},
		},
	}

	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(true, nil).Once()
	suite.mockComboSvc.On("GetCombinationByID", ctx, suite.cashCombinationID).Return(&domain.Combination{CombinationID: suite.cashCombinationID, IsActive: true}, nil).Once()
	suite.mockComboSvc.On("GetCombinationByID", ctx, suite.revenueCombinationID).Return(&domain.Combination{CombinationID: suite.revenueCombinationID, IsActive: true}, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockComboSvc.AssertNotCalled(suite.T(), "ResolveCombination", mock.Anything, mock.Anything, mock.Anything)
	suite.mockComboSvc.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_UnknownCombinationID() {
	ctx := context.Background()
	unknownID := uuid.NewString()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(75), Type: domain.Debit, CombinationID: &unknownID},
			{Amount: decimal.NewFromInt(75), Type: domain.Credit, CombinationID: &suite.revenueCombinationID},
		},
	}

	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(true, nil).Once()
	suite.mockComboSvc.On("GetCombinationByID", ctx, unknownID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_PeriodClosed() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(100), Type: domain.Debit, Segments: suite.cashSegments()},
			{Amount: decimal.NewFromInt(100), Type: domain.Credit, Segments: suite.revenueSegments()},
		},
	}

	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(false, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	var periodErr *apperrors.PeriodClosedError
	suite.Require().ErrorAs(err, &periodErr)
	suite.Equal(apperrors.ScopeEntryDate, periodErr.Scope)
	suite.True(periodErr.Date.Equal(suite.entryDate))
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
	suite.mockComboSvc.AssertNotCalled(suite.T(), "ResolveCombination", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_NoPeriodCoversDate() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(100), Type: domain.Debit, Segments: suite.cashSegments()},
			{Amount: decimal.NewFromInt(100), Type: domain.Credit, Segments: suite.revenueSegments()},
		},
	}

	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(false, apperrors.ErrNoOpenPeriod).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.ErrorIs(err, apperrors.ErrNoOpenPeriod)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_RejectsSingleLine() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(100), Type: domain.Debit, Segments: suite.cashSegments()},
		},
	}

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockGate.AssertNotCalled(suite.T(), "IsOpen", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(100), Type: domain.Debit, Segments: suite.cashSegments()},
			{Amount: decimal.NewFromInt(0), Type: domain.Credit, Segments: suite.revenueSegments()},
		},
	}

	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(true, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_SaveFails() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:    suite.entryDate,
		CurrencyCode: "USD",
		Lines: []dto.EntryLineRequest{
			{Amount: decimal.NewFromInt(100), Type: domain.Debit, CombinationID: &suite.cashCombinationID},
			{Amount: decimal.NewFromInt(100), Type: domain.Credit, CombinationID: &suite.revenueCombinationID},
		},
	}

	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(true, nil).Once()
	suite.mockComboSvc.On("GetCombinationByID", ctx, mock.AnythingOfType("string")).Return(&domain.Combination{CombinationID: suite.cashCombinationID}, nil).Twice()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(assert.AnError).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), assert.AnError.Error())
}

// --- UpdateEntry ---

func (suite *EntryServiceTestSuite) TestUpdateEntry_HeaderOnly() {
	ctx := context.Background()
	entry := suite.draftEntry()
	memo := "Corrected memo"
	req := dto.UpdateEntryRequest{Memo: &memo}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("UpdateEntryWithLines", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := suite.service.UpdateEntry(ctx, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(memo, updated.Memo)
	suite.Equal(suite.now, updated.LastUpdatedAt)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
	suite.mockGate.AssertNotCalled(suite.T(), "IsOpen", mock.Anything, mock.Anything)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_RejectsPostedEntry() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Posted = true
	memo := "Too late"

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, entry.EntryID, dto.UpdateEntryRequest{Memo: &memo}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryWithLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_LineDiff() {
	ctx := context.Background()
	entry := suite.draftEntry()
	existing := suite.twoLines(entry.EntryID, decimal.NewFromInt(600), decimal.NewFromInt(600))
	keep, drop := existing[0], existing[1]

	req := dto.UpdateEntryRequest{
		Lines: []dto.EntryLineRequest{
			{LineID: &keep.LineID, Amount: decimal.NewFromInt(700), Type: domain.Debit, CombinationID: &suite.cashCombinationID},
			{Amount: decimal.NewFromInt(100), Type: domain.Credit, Segments: suite.revenueSegments()},
		},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(existing, nil).Once()
	suite.mockComboSvc.On("GetCombinationByID", ctx, suite.cashCombinationID).Return(&domain.Combination{CombinationID: suite.cashCombinationID}, nil).Once()
	suite.mockComboSvc.On("ResolveCombination", ctx, dto.ResolveCombinationRequest{Segments: suite.revenueSegments()}, suite.userID).Return(suite.revenueCombinationID, nil).Once()

	var upserts []domain.JournalLine
	var deletes []string
	suite.mockEntryRepo.On("UpdateEntryWithLines", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			upserts = args.Get(2).([]domain.JournalLine)
			deletes = args.Get(3).([]string)
		}).Return(nil).Once()

	_, err := suite.service.UpdateEntry(ctx, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(upserts, 2)
	suite.Equal(keep.LineID, upserts[0].LineID)
	suite.True(upserts[0].Amount.Equal(decimal.NewFromInt(700)))
	suite.Equal(keep.CreatedAt, upserts[0].CreatedAt)
	suite.Equal(suite.now, upserts[0].LastUpdatedAt)
	suite.NotEmpty(upserts[1].LineID)
	suite.NotEqual(keep.LineID, upserts[1].LineID)
	suite.Equal(suite.revenueCombinationID, upserts[1].CombinationID)
	suite.Equal([]string{drop.LineID}, deletes)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_RejectsForeignLineID() {
	ctx := context.Background()
	entry := suite.draftEntry()
	existing := suite.twoLines(entry.EntryID, decimal.NewFromInt(600), decimal.NewFromInt(600))
	foreignLineID := uuid.NewString()

	req := dto.UpdateEntryRequest{
		Lines: []dto.EntryLineRequest{
			{LineID: &foreignLineID, Amount: decimal.NewFromInt(700), Type: domain.Debit, CombinationID: &suite.cashCombinationID},
			{Amount: decimal.NewFromInt(700), Type: domain.Credit, CombinationID: &suite.revenueCombinationID},
		},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(existing, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, entry.EntryID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "does not belong")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryWithLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_RedatingIntoOpenPeriod() {
	ctx := context.Background()
	entry := suite.draftEntry()
	newDate := suite.entryDate.AddDate(0, 0, 3)
	req := dto.UpdateEntryRequest{EntryDate: &newDate}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockGate.On("IsOpen", ctx, newDate).Return(true, nil).Once()

	var savedEntry domain.JournalEntry
	suite.mockEntryRepo.On("UpdateEntryWithLines", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
		}).Return(nil).Once()

	updated, err := suite.service.UpdateEntry(ctx, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.EntryDate.Equal(newDate))
	suite.True(savedEntry.EntryDate.Equal(newDate))
	suite.mockGate.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_RedatingIntoClosedPeriod() {
	ctx := context.Background()
	entry := suite.draftEntry()
	closedDate := suite.entryDate.AddDate(0, -3, 0)
	req := dto.UpdateEntryRequest{EntryDate: &closedDate}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockGate.On("IsOpen", ctx, closedDate).Return(false, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, entry.EntryID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryWithLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_UnchangedDateSkipsGate() {
	ctx := context.Background()
	entry := suite.draftEntry()
	sameDate := suite.entryDate
	req := dto.UpdateEntryRequest{EntryDate: &sameDate}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("UpdateEntryWithLines", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, mock.Anything).Return(nil).Once()

	_, err := suite.service.UpdateEntry(ctx, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockGate.AssertNotCalled(suite.T(), "IsOpen", mock.Anything, mock.Anything)
}

// --- AddLine / UpdateLine / RemoveLine ---

func (suite *EntryServiceTestSuite) TestAddLine_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()
	req := dto.EntryLineRequest{Amount: decimal.NewFromInt(50), Type: domain.Debit, CombinationID: &suite.cashCombinationID, Memo: "Rounding adjustment"}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockComboSvc.On("GetCombinationByID", ctx, suite.cashCombinationID).Return(&domain.Combination{CombinationID: suite.cashCombinationID}, nil).Once()

	var upserts []domain.JournalLine
	var deletes []string
	suite.mockEntryRepo.On("UpdateEntryWithLines", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			upserts = args.Get(2).([]domain.JournalLine)
			deletes = args.Get(3).([]string)
		}).Return(nil).Once()

	line, err := suite.service.AddLine(ctx, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(line)
	suite.NotEmpty(line.LineID)
	suite.Equal(entry.EntryID, line.EntryID)
	suite.Equal(suite.cashCombinationID, line.CombinationID)
	suite.Equal("Rounding adjustment", line.Memo)
	suite.Require().Len(upserts, 1)
	suite.Equal(line.LineID, upserts[0].LineID)
	suite.Empty(deletes)
}

func (suite *EntryServiceTestSuite) TestAddLine_RejectsPostedEntry() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Posted = true
	req := dto.EntryLineRequest{Amount: decimal.NewFromInt(50), Type: domain.Debit, CombinationID: &suite.cashCombinationID}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.AddLine(ctx, entry.EntryID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryWithLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateLine_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(600), decimal.NewFromInt(600))
	target := lines[0]
	req := dto.EntryLineRequest{Amount: decimal.NewFromInt(650), Type: domain.Credit, CombinationID: &suite.revenueCombinationID}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLineByID", ctx, target.LineID).Return(&target, nil).Once()
	suite.mockComboSvc.On("GetCombinationByID", ctx, suite.revenueCombinationID).Return(&domain.Combination{CombinationID: suite.revenueCombinationID}, nil).Once()
	suite.mockEntryRepo.On("UpdateEntryWithLines", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, mock.Anything).Return(nil).Once()

	line, err := suite.service.UpdateLine(ctx, entry.EntryID, target.LineID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(target.LineID, line.LineID)
	suite.True(line.Amount.Equal(decimal.NewFromInt(650)))
	suite.Equal(domain.Credit, line.LineType)
	suite.Equal(suite.revenueCombinationID, line.CombinationID)
	suite.Equal(target.CreatedAt, line.CreatedAt)
	suite.Equal(suite.now, line.LastUpdatedAt)
	suite.Equal(suite.userID, line.LastUpdatedBy)
}

func (suite *EntryServiceTestSuite) TestUpdateLine_WrongEntry() {
	ctx := context.Background()
	entry := suite.draftEntry()
	foreign := suite.twoLines(uuid.NewString(), decimal.NewFromInt(10), decimal.NewFromInt(10))[0]
	req := dto.EntryLineRequest{Amount: decimal.NewFromInt(20), Type: domain.Debit, CombinationID: &suite.cashCombinationID}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLineByID", ctx, foreign.LineID).Return(&foreign, nil).Once()

	_, err := suite.service.UpdateLine(ctx, entry.EntryID, foreign.LineID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryWithLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestRemoveLine_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(600), decimal.NewFromInt(600))
	extra := domain.JournalLine{LineID: uuid.NewString(), EntryID: entry.EntryID, Amount: decimal.NewFromInt(25), LineType: domain.Debit, CombinationID: suite.cashCombinationID}
	lines = append(lines, extra)

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLineByID", ctx, extra.LineID).Return(&extra, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	var upserts []domain.JournalLine
	var deletes []string
	suite.mockEntryRepo.On("UpdateEntryWithLines", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			upserts = args.Get(2).([]domain.JournalLine)
			deletes = args.Get(3).([]string)
		}).Return(nil).Once()

	err := suite.service.RemoveLine(ctx, entry.EntryID, extra.LineID, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(upserts)
	suite.Equal([]string{extra.LineID}, deletes)
}

func (suite *EntryServiceTestSuite) TestRemoveLine_KeepsMinimumTwoLines() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(600), decimal.NewFromInt(600))
	target := lines[0]

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLineByID", ctx, target.LineID).Return(&target, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	err := suite.service.RemoveLine(ctx, entry.EntryID, target.LineID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "at least two lines")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryWithLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- GetEntryByID ---

func (suite *EntryServiceTestSuite) TestGetEntryByID_AttachesLines() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(300), decimal.NewFromInt(300))

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	got, err := suite.service.GetEntryByID(ctx, entry.EntryID)

	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, got.EntryID)
	suite.Require().Len(got.Lines, 2)
	suite.Equal(lines[0].LineID, got.Lines[0].LineID)
}

func (suite *EntryServiceTestSuite) TestGetEntryByID_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetEntryByID(ctx, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- PostEntry ---

func (suite *EntryServiceTestSuite) TestPostEntry_BalancedEntryCreatesLedgerRecord() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(1000), decimal.NewFromInt(1000))

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(true, nil).Once()
	suite.mockGate.On("IsOpen", ctx, suite.now).Return(true, nil).Once()
	suite.mockEntryRepo.On("PostEntry", ctx, entry.EntryID, mock.MatchedBy(func(r domain.GeneralLedgerRecord) bool {
		return r.EntryID == entry.EntryID && r.SubmittedDate.Equal(suite.now)
	}), suite.userID, suite.now).Return(nil).Once()

	record, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(record)
	suite.NotEmpty(record.GLRecordID)
	suite.Equal(entry.EntryID, record.EntryID)
	suite.Equal(suite.now, record.SubmittedDate)
	suite.Equal(suite.userID, record.CreatedBy)
	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockGate.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestPostEntry_ClosedPeriodLeavesEntryDraft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(1000), decimal.NewFromInt(1000))

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(false, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	var periodErr *apperrors.PeriodClosedError
	suite.Require().ErrorAs(err, &periodErr)
	suite.Equal(apperrors.ScopeEntryDate, periodErr.Scope)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestPostEntry_UnbalancedRejected() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(1000), decimal.NewFromInt(900))

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	var unbalanced *apperrors.UnbalancedError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.True(unbalanced.TotalDebit.Equal(decimal.NewFromInt(1000)))
	suite.True(unbalanced.TotalCredit.Equal(decimal.NewFromInt(900)))
	suite.True(unbalanced.Difference().Equal(decimal.NewFromInt(100)))
	suite.mockGate.AssertNotCalled(suite.T(), "IsOpen", mock.Anything, mock.Anything)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestPostEntry_ExactDecimalBalance() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entry.EntryID, Amount: decimal.RequireFromString("0.10"), LineType: domain.Debit, CombinationID: suite.cashCombinationID},
		{LineID: uuid.NewString(), EntryID: entry.EntryID, Amount: decimal.RequireFromString("0.20"), LineType: domain.Debit, CombinationID: suite.cashCombinationID},
		{LineID: uuid.NewString(), EntryID: entry.EntryID, Amount: decimal.RequireFromString("0.30"), LineType: domain.Credit, CombinationID: suite.revenueCombinationID},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockGate.On("IsOpen", ctx, mock.AnythingOfType("time.Time")).Return(true, nil).Twice()
	suite.mockEntryRepo.On("PostEntry", ctx, entry.EntryID, mock.AnythingOfType("domain.GeneralLedgerRecord"), suite.userID, suite.now).Return(nil).Once()

	record, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(record.GLRecordID)
}

func (suite *EntryServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Posted = true

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already posted")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestPostEntry_PostingDateClosed() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(1000), decimal.NewFromInt(1000))

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(true, nil).Once()
	suite.mockGate.On("IsOpen", ctx, suite.now).Return(false, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	var periodErr *apperrors.PeriodClosedError
	suite.Require().ErrorAs(err, &periodErr)
	suite.Equal(apperrors.ScopePostingDate, periodErr.Scope)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestPostEntry_NoPeriodForEntryDate() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(1000), decimal.NewFromInt(1000))

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockGate.On("IsOpen", ctx, suite.entryDate).Return(false, apperrors.ErrNoOpenPeriod).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.ErrorIs(err, apperrors.ErrNoOpenPeriod)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestPostEntry_LosesRepositoryRace() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(1000), decimal.NewFromInt(1000))

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockGate.On("IsOpen", ctx, mock.AnythingOfType("time.Time")).Return(true, nil).Twice()
	suite.mockEntryRepo.On("PostEntry", ctx, entry.EntryID, mock.AnythingOfType("domain.GeneralLedgerRecord"), suite.userID, suite.now).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already posted")
}

// fakeEntryStore is a mutex-guarded in-memory store whose PostEntry performs
// the same guarded flip the real repository does, used to race goroutines
// against one draft entry.
type fakeEntryStore struct {
	mu      sync.Mutex
	entry   domain.JournalEntry
	lines   []domain.JournalLine
	records []domain.GeneralLedgerRecord
}

var _ portsrepo.EntryRepositoryFacade = (*fakeEntryStore)(nil)

func newFakeEntryStore(entry domain.JournalEntry, lines []domain.JournalLine) *fakeEntryStore {
	return &fakeEntryStore{entry: entry, lines: lines}
}

func (f *fakeEntryStore) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entry.EntryID != entryID {
		return nil, apperrors.ErrNotFound
	}
	found := f.entry
	return &found, nil
}

func (f *fakeEntryStore) FindEntriesByCombinationIDs(ctx context.Context, combinationIDs []string) ([]domain.JournalEntry, error) {
	return nil, nil
}

func (f *fakeEntryStore) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeEntryStore) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.JournalLine(nil), f.lines...), nil
}

func (f *fakeEntryStore) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	return nil, nil
}

func (f *fakeEntryStore) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	return nil
}

func (f *fakeEntryStore) UpdateEntryWithLines(ctx context.Context, entry domain.JournalEntry, linesToUpsert []domain.JournalLine, lineIDsToDelete []string) error {
	return nil
}

func (f *fakeEntryStore) PostEntry(ctx context.Context, entryID string, record domain.GeneralLedgerRecord, updatedBy string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entry.EntryID != entryID {
		return apperrors.ErrNotFound
	}
	if f.entry.Posted {
		return apperrors.ErrConflict
	}
	f.entry.Posted = true
	f.entry.LastUpdatedBy = updatedBy
	f.entry.LastUpdatedAt = updatedAt
	f.records = append(f.records, record)
	return nil
}

func (f *fakeEntryStore) DeleteEntry(ctx context.Context, entryID string) error {
	return nil
}

func (f *fakeEntryStore) FindLedgerRecordByEntryID(ctx context.Context, entryID string) (*domain.GeneralLedgerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EntryID == entryID {
			found := r
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEntryStore) FindLedgerRecordsByCombinationIDs(ctx context.Context, combinationIDs []string) ([]domain.GeneralLedgerRecord, error) {
	return nil, nil
}

func (suite *EntryServiceTestSuite) TestPostEntry_ConcurrentPostersCreateOneRecord() {
	ctx := context.Background()
	entry := suite.draftEntry()
	store := newFakeEntryStore(*entry, suite.twoLines(entry.EntryID, decimal.NewFromInt(1000), decimal.NewFromInt(1000)))

	suite.mockGate.On("IsOpen", mock.Anything, mock.Anything).Return(true, nil)
	service := services.NewEntryService(store, suite.mockComboSvc, suite.mockGate, clock.Fixed(suite.now))

	const posters = 8
	errs := make([]error, posters)
	var wg sync.WaitGroup
	for i := 0; i < posters; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = service.PostEntry(ctx, entry.EntryID, suite.userID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		suite.ErrorIs(err, apperrors.ErrConflict)
	}
	suite.Equal(1, wins)
	suite.True(store.entry.Posted)
	suite.Len(store.records, 1)
}

// --- DeleteEntry ---

func (suite *EntryServiceTestSuite) TestDeleteEntry_Draft() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockEntryRepo.On("DeleteEntry", ctx, entry.EntryID).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, entry.EntryID)

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestDeleteEntry_PostedRejected() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Posted = true

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.DeleteEntry(ctx, entry.EntryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "reversal")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

// --- CreateReversal ---

func (suite *EntryServiceTestSuite) TestCreateReversal_MirrorsLines() {
	ctx := context.Background()
	original := suite.draftEntry()
	original.Posted = true
	lines := suite.twoLines(original.EntryID, decimal.NewFromInt(250), decimal.NewFromInt(250))

	suite.mockEntryRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, original.EntryID).Return(lines, nil).Once()
	suite.mockGate.On("IsOpen", ctx, suite.now).Return(true, nil).Once()

	var savedEntry domain.JournalEntry
	var savedLines []domain.JournalLine
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
			savedLines = args.Get(2).([]domain.JournalLine)
		}).Return(nil).Once()

	reversal, err := suite.service.CreateReversal(ctx, original.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.False(reversal.Posted)
	suite.Require().NotNil(reversal.ReversalOfEntryID)
	suite.Equal(original.EntryID, *reversal.ReversalOfEntryID)
	suite.NotEqual(original.EntryID, reversal.EntryID)
	suite.True(reversal.EntryDate.Equal(suite.now))
	suite.Equal(original.CurrencyCode, reversal.CurrencyCode)
	suite.Contains(reversal.Memo, original.EntryID)
	suite.Equal(reversal.EntryID, savedEntry.EntryID)

	suite.Require().Len(savedLines, len(lines))
	for i, mirrored := range savedLines {
		orig := lines[i]
		expectedType := domain.Credit
		if orig.LineType == domain.Credit {
			expectedType = domain.Debit
		}
		suite.Equal(expectedType, mirrored.LineType)
		suite.True(mirrored.Amount.Equal(orig.Amount))
		suite.Equal(orig.CombinationID, mirrored.CombinationID)
		suite.Equal(reversal.EntryID, mirrored.EntryID)
		suite.NotEqual(orig.LineID, mirrored.LineID)
	}
}

func (suite *EntryServiceTestSuite) TestCreateReversal_RequiresPostedOriginal() {
	ctx := context.Background()
	original := suite.draftEntry()

	suite.mockEntryRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()

	_, err := suite.service.CreateReversal(ctx, original.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "only posted")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateReversal_RejectsReversalOfReversal() {
	ctx := context.Background()
	originalID := uuid.NewString()
	reversalEntry := suite.draftEntry()
	reversalEntry.Posted = true
	reversalEntry.ReversalOfEntryID = &originalID

	suite.mockEntryRepo.On("FindEntryByID", ctx, reversalEntry.EntryID).Return(reversalEntry, nil).Once()

	_, err := suite.service.CreateReversal(ctx, reversalEntry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already a reversal")
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateReversal_BlockedWhenCurrentPeriodClosed() {
	ctx := context.Background()
	original := suite.draftEntry()
	original.Posted = true
	lines := suite.twoLines(original.EntryID, decimal.NewFromInt(250), decimal.NewFromInt(250))

	suite.mockEntryRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, original.EntryID).Return(lines, nil).Once()
	suite.mockGate.On("IsOpen", ctx, suite.now).Return(false, nil).Once()

	_, err := suite.service.CreateReversal(ctx, original.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

// --- Filters ---

func (suite *EntryServiceTestSuite) TestFilterEntries_AttachesLines() {
	ctx := context.Background()
	filter := dto.SegmentFilter{Segment: &dto.SegmentPair{SegmentTypeID: suite.accountTypeID, SegmentCode: "1000"}}
	entryA := *suite.draftEntry()
	entryB := *suite.draftEntry()
	combinationIDs := []string{suite.cashCombinationID}
	linesByEntry := map[string][]domain.JournalLine{
		entryA.EntryID: suite.twoLines(entryA.EntryID, decimal.NewFromInt(10), decimal.NewFromInt(10)),
		entryB.EntryID: suite.twoLines(entryB.EntryID, decimal.NewFromInt(20), decimal.NewFromInt(20)),
	}

	suite.mockComboSvc.On("FindCombinationIDsByFilter", ctx, filter).Return(combinationIDs, nil).Once()
	suite.mockEntryRepo.On("FindEntriesByCombinationIDs", ctx, combinationIDs).Return([]domain.JournalEntry{entryA, entryB}, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryIDs", ctx, []string{entryA.EntryID, entryB.EntryID}).Return(linesByEntry, nil).Once()

	entries, err := suite.service.FilterEntries(ctx, filter)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Len(entries[0].Lines, 2)
	suite.Len(entries[1].Lines, 2)
	suite.Equal(entryA.EntryID, entries[0].Lines[0].EntryID)
}

func (suite *EntryServiceTestSuite) TestFilterEntries_NoMatchingCombinations() {
	ctx := context.Background()
	filter := dto.SegmentFilter{Segment: &dto.SegmentPair{SegmentTypeID: suite.accountTypeID, SegmentCode: "9999"}}

	suite.mockComboSvc.On("FindCombinationIDsByFilter", ctx, filter).Return([]string{}, nil).Once()

	entries, err := suite.service.FilterEntries(ctx, filter)

	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindEntriesByCombinationIDs", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestFilterLedgerRecords_ReturnsRecords() {
	ctx := context.Background()
	filter := dto.SegmentFilter{Any: suite.cashSegments()}
	combinationIDs := []string{suite.cashCombinationID, suite.revenueCombinationID}
	records := []domain.GeneralLedgerRecord{
		{GLRecordID: uuid.NewString(), EntryID: uuid.NewString(), SubmittedDate: suite.now},
	}

	suite.mockComboSvc.On("FindCombinationIDsByFilter", ctx, filter).Return(combinationIDs, nil).Once()
	suite.mockEntryRepo.On("FindLedgerRecordsByCombinationIDs", ctx, combinationIDs).Return(records, nil).Once()

	got, err := suite.service.FilterLedgerRecords(ctx, filter)

	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal(records[0].GLRecordID, got[0].GLRecordID)
}

func (suite *EntryServiceTestSuite) TestFilterLedgerRecords_NoMatchingCombinations() {
	ctx := context.Background()
	filter := dto.SegmentFilter{Any: suite.cashSegments()}

	suite.mockComboSvc.On("FindCombinationIDsByFilter", ctx, filter).Return([]string{}, nil).Once()

	records, err := suite.service.FilterLedgerRecords(ctx, filter)

	suite.Require().NoError(err)
	suite.Empty(records)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindLedgerRecordsByCombinationIDs", mock.Anything, mock.Anything)
}

// --- Ledger records ---

func (suite *EntryServiceTestSuite) TestGetLedgerRecordByEntryID_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	record := &domain.GeneralLedgerRecord{GLRecordID: uuid.NewString(), EntryID: entryID, SubmittedDate: suite.now}

	suite.mockEntryRepo.On("FindLedgerRecordByEntryID", ctx, entryID).Return(record, nil).Once()

	got, err := suite.service.GetLedgerRecordByEntryID(ctx, entryID)

	suite.Require().NoError(err)
	suite.Equal(record.GLRecordID, got.GLRecordID)
}

func (suite *EntryServiceTestSuite) TestGetLedgerRecordByEntryID_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockEntryRepo.On("FindLedgerRecordByEntryID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetLedgerRecordByEntryID(ctx, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Balance calculators ---

func (suite *EntryServiceTestSuite) TestEntryCalculators_UnbalancedEntry() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entry.EntryID, Amount: decimal.NewFromInt(600), LineType: domain.Debit, CombinationID: suite.cashCombinationID},
		{LineID: uuid.NewString(), EntryID: entry.EntryID, Amount: decimal.NewFromInt(400), LineType: domain.Debit, CombinationID: suite.cashCombinationID},
		{LineID: uuid.NewString(), EntryID: entry.EntryID, Amount: decimal.NewFromInt(900), LineType: domain.Credit, CombinationID: suite.revenueCombinationID},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil)
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil)

	totalDebit, err := suite.service.TotalDebit(ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.True(totalDebit.Equal(decimal.NewFromInt(1000)))

	totalCredit, err := suite.service.TotalCredit(ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.True(totalCredit.Equal(decimal.NewFromInt(900)))

	difference, err := suite.service.BalanceDifference(ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.True(difference.Equal(decimal.NewFromInt(100)))

	balanced, err := suite.service.IsBalanced(ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.False(balanced)

	balance, err := suite.service.GetEntryBalance(ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, balance.EntryID)
	suite.True(balance.TotalDebit.Equal(decimal.NewFromInt(1000)))
	suite.True(balance.TotalCredit.Equal(decimal.NewFromInt(900)))
	suite.True(balance.Difference.Equal(decimal.NewFromInt(100)))
	suite.False(balance.IsBalanced)
}

func (suite *EntryServiceTestSuite) TestEntryCalculators_BalancedEntry() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.twoLines(entry.EntryID, decimal.NewFromInt(500), decimal.NewFromInt(500))

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil)
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil)

	balanced, err := suite.service.IsBalanced(ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.True(balanced)

	balance, err := suite.service.GetEntryBalance(ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.True(balance.Difference.IsZero())
	suite.True(balance.IsBalanced)
}

func (suite *EntryServiceTestSuite) TestEntryCalculators_UnknownEntry() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockEntryRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.TotalDebit(ctx, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestEntryService(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
