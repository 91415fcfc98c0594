package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"amplifyd_backend/internal/config"
	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/payments"
	"amplifyd_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
	logger.Init("test")
	os.Exit(m.Run())
}

// In-memory repository fakes. Every repository method takes the db
// handle first and the fakes ignore it, so services under test run with
// a nil *gorm.DB.

func stamp(m *models.BaseModel) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}

// --- transactions ---

type fakeTransactionRepo struct {
	mu          sync.Mutex
	bySession   map[string]*models.Transaction
	submissions map[string]*models.Submission
	failClaim   error // forced ClaimSubmission failure
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		bySession:   make(map[string]*models.Transaction),
		submissions: make(map[string]*models.Submission),
	}
}

func (f *fakeTransactionRepo) Create(_ *gorm.DB, txn *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bySession[txn.StripeSessionID]; ok {
		return repositories.ErrTransactionExists
	}
	stamp(&txn.BaseModel)
	f.bySession[txn.StripeSessionID] = txn
	return nil
}

func (f *fakeTransactionRepo) FindBySessionID(_ *gorm.DB, sessionID string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.bySession[sessionID]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *txn
	return &cp, nil
}

func (f *fakeTransactionRepo) FindByPaymentIntentID(_ *gorm.DB, paymentIntentID string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.bySession {
		if txn.StripePaymentIntentID == paymentIntentID {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (f *fakeTransactionRepo) MarkCompleted(_ *gorm.DB, sessionID, paymentIntentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.bySession[sessionID]
	if !ok || txn.Status != models.TransactionStatusPending {
		return false, nil
	}
	txn.Status = models.TransactionStatusCompleted
	if paymentIntentID != "" {
		txn.StripePaymentIntentID = paymentIntentID
	}
	return true, nil
}

func (f *fakeTransactionRepo) MarkCancelled(_ *gorm.DB, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.bySession[sessionID]
	if !ok || txn.Status != models.TransactionStatusPending {
		return false, nil
	}
	txn.Status = models.TransactionStatusCancelled
	return true, nil
}

func (f *fakeTransactionRepo) MarkFailed(_ *gorm.DB, sessionID, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.bySession[sessionID]
	if !ok || txn.SubmissionID != nil {
		return false, nil
	}
	if txn.Status != models.TransactionStatusPending && txn.Status != models.TransactionStatusCompleted {
		return false, nil
	}
	txn.Status = models.TransactionStatusFailed
	txn.FailureReason = reason
	return true, nil
}

func (f *fakeTransactionRepo) MarkFailedByPaymentIntent(_ *gorm.DB, paymentIntentID, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.bySession {
		if txn.StripePaymentIntentID == paymentIntentID && txn.Status == models.TransactionStatusPending {
			txn.Status = models.TransactionStatusFailed
			txn.FailureReason = reason
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTransactionRepo) ClaimSubmission(_ *gorm.DB, sessionID string, sub *models.Submission) (*models.Submission, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClaim != nil {
		return nil, false, f.failClaim
	}
	txn, ok := f.bySession[sessionID]
	if !ok {
		return nil, false, repositories.ErrTransactionNotFound
	}
	if txn.SubmissionID != nil {
		return f.submissions[*txn.SubmissionID], false, nil
	}
	stamp(&sub.BaseModel)
	f.submissions[sub.ID] = sub
	txn.SubmissionID = &sub.ID
	return sub, true, nil
}

func (f *fakeTransactionRepo) FindUnmaterialized(_ *gorm.DB, limit int) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, txn := range f.bySession {
		if txn.Status == models.TransactionStatusCompleted && txn.SubmissionID == nil {
			out = append(out, *txn)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- submissions ---

type fakeSubmissionRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{byID: make(map[string]*models.Submission)}
}

func (f *fakeSubmissionRepo) add(sub *models.Submission) *models.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	stamp(&sub.BaseModel)
	f.byID[sub.ID] = sub
	return sub
}

func (f *fakeSubmissionRepo) FindByID(_ *gorm.DB, id string) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrSubmissionNotFound
	}
	return sub, nil
}

func (f *fakeSubmissionRepo) FindByTrackingToken(_ *gorm.DB, token string) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.byID {
		if sub.TrackingToken == token {
			return sub, nil
		}
	}
	return nil, repositories.ErrSubmissionNotFound
}

func (f *fakeSubmissionRepo) FindPendingByReviewer(_ *gorm.DB, reviewerID string) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Submission
	for _, sub := range f.byID {
		if sub.ReviewerID == reviewerID &&
			(sub.Status == models.SubmissionStatusPending || sub.Status == models.SubmissionStatusInProgress) {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeSubmissionRepo) MarkReviewed(_ *gorm.DB, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	if sub.Status != models.SubmissionStatusPending && sub.Status != models.SubmissionStatusInProgress {
		return false, nil
	}
	sub.Status = models.SubmissionStatusReviewed
	return true, nil
}

// --- reviewers ---

type fakeReviewerRepo struct {
	mu       sync.Mutex
	byUserID map[string]*models.ReviewerProfile
}

func newFakeReviewerRepo() *fakeReviewerRepo {
	return &fakeReviewerRepo{byUserID: make(map[string]*models.ReviewerProfile)}
}

func (f *fakeReviewerRepo) Create(_ *gorm.DB, profile *models.ReviewerProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUserID[profile.UserID]; ok {
		return gorm.ErrDuplicatedKey
	}
	stamp(&profile.BaseModel)
	f.byUserID[profile.UserID] = profile
	return nil
}

func (f *fakeReviewerRepo) FindByUserID(_ *gorm.DB, userID string) (*models.ReviewerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.byUserID[userID]
	if !ok {
		return nil, repositories.ErrReviewerNotFound
	}
	return profile, nil
}

func (f *fakeReviewerRepo) List(_ *gorm.DB, limit, offset int) ([]models.ReviewerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ReviewerProfile
	for _, p := range f.byUserID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeReviewerRepo) FindPackage(_ *gorm.DB, reviewerUserID, packageKey string) (*models.ReviewPackage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.byUserID[reviewerUserID]
	if !ok {
		return nil, repositories.ErrReviewerNotFound
	}
	for i := range profile.Packages {
		if profile.Packages[i].PackageKey == packageKey {
			return &profile.Packages[i], nil
		}
	}
	return nil, repositories.ErrPackageNotFound
}

// --- users ---

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (f *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return repositories.ErrEmailExists
	}
	stamp(&user.BaseModel)
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateStatus(_ *gorm.DB, id string, status models.UserStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Status = status
	return nil
}

// --- reviews ---

type fakeReviewRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{byID: make(map[string]*models.Review)}
}

func (f *fakeReviewRepo) Create(_ *gorm.DB, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.SubmissionID == review.SubmissionID {
			return repositories.ErrReviewExists
		}
	}
	stamp(&review.BaseModel)
	f.byID[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) FindByID(_ *gorm.DB, id string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	review, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrReviewNotFound
	}
	return review, nil
}

func (f *fakeReviewRepo) FindBySubmissionID(_ *gorm.DB, submissionID string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.SubmissionID == submissionID {
			return r, nil
		}
	}
	return nil, repositories.ErrReviewNotFound
}

func (f *fakeReviewRepo) FindByAccessToken(_ *gorm.DB, token string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.AccessToken == token {
			return r, nil
		}
	}
	return nil, repositories.ErrReviewNotFound
}

// --- earnings ---

type fakeEarningRepo struct {
	mu        sync.Mutex
	byReview  map[string]*models.Earning
	reviewers *fakeReviewerRepo
}

func newFakeEarningRepo(reviewers *fakeReviewerRepo) *fakeEarningRepo {
	return &fakeEarningRepo{
		byReview:  make(map[string]*models.Earning),
		reviewers: reviewers,
	}
}

func (f *fakeEarningRepo) CreateForReview(_ *gorm.DB, earning *models.Earning) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byReview[earning.ReviewID]; ok {
		return repositories.ErrEarningExists
	}
	profile, err := f.reviewers.FindByUserID(nil, earning.ReviewerID)
	if err != nil {
		return repositories.ErrReviewerNotFound
	}
	stamp(&earning.BaseModel)
	f.byReview[earning.ReviewID] = earning
	profile.TotalEarned += earning.Amount
	profile.TotalReviews++
	return nil
}

func (f *fakeEarningRepo) ExistsForReview(_ *gorm.DB, reviewID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byReview[reviewID]
	return ok, nil
}

func (f *fakeEarningRepo) FindByReviewID(_ *gorm.DB, reviewID string) (*models.Earning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	earning, ok := f.byReview[reviewID]
	if !ok {
		return nil, repositories.ErrEarningNotFound
	}
	return earning, nil
}

func (f *fakeEarningRepo) ListByReviewer(_ *gorm.DB, reviewerID string, limit, offset int) ([]models.Earning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Earning
	for _, e := range f.byReview {
		if e.ReviewerID == reviewerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// --- payouts ---

type fakePayoutRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Payout
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{byID: make(map[string]*models.Payout)}
}

func (f *fakePayoutRepo) Create(_ *gorm.DB, payout *models.Payout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stamp(&payout.BaseModel)
	if payout.Date.IsZero() {
		payout.Date = time.Now()
	}
	for i := range payout.Reviews {
		stamp(&payout.Reviews[i].BaseModel)
		payout.Reviews[i].PayoutID = payout.ID
	}
	f.byID[payout.ID] = payout
	return nil
}

func (f *fakePayoutRepo) FindByID(_ *gorm.DB, id string) (*models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payout, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrPayoutNotFound
	}
	cp := *payout
	return &cp, nil
}

func (f *fakePayoutRepo) FindByReviewer(_ *gorm.DB, reviewerID string) ([]models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payout
	for _, p := range f.byID {
		if p.ReviewerID == reviewerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayoutRepo) AdvanceStatus(_ *gorm.DB, id string, from, to models.PayoutStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payout, ok := f.byID[id]
	if !ok || payout.Status != from {
		return false, nil
	}
	payout.Status = to
	return true, nil
}

func (f *fakePayoutRepo) ReviewIDsPaidOut(_ *gorm.DB, reviewerID string, reviewIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(reviewIDs))
	for _, id := range reviewIDs {
		wanted[id] = true
	}
	var out []string
	for _, p := range f.byID {
		if p.ReviewerID != reviewerID {
			continue
		}
		for _, pr := range p.Reviews {
			if wanted[pr.ReviewID] {
				out = append(out, pr.ReviewID)
			}
		}
	}
	return out, nil
}

// --- referral codes ---

type fakeReferralRepo struct {
	mu     sync.Mutex
	byCode map[string]*models.ReferralCode
}

func newFakeReferralRepo() *fakeReferralRepo {
	return &fakeReferralRepo{byCode: make(map[string]*models.ReferralCode)}
}

func (f *fakeReferralRepo) Create(_ *gorm.DB, code *models.ReferralCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stamp(&code.BaseModel)
	f.byCode[code.Code] = code
	return nil
}

func (f *fakeReferralRepo) FindByCode(_ *gorm.DB, code string) (*models.ReferralCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rc, ok := f.byCode[code]
	if !ok {
		return nil, repositories.ErrReferralCodeNotFound
	}
	return rc, nil
}

func (f *fakeReferralRepo) CountByCreatorSince(_ *gorm.DB, createdBy string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, rc := range f.byCode {
		if rc.CreatedBy == createdBy && !rc.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReferralRepo) MarkUsed(_ *gorm.DB, code, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rc, ok := f.byCode[code]
	if !ok || rc.Status != models.ReferralCodeStatusActive || time.Now().After(rc.ExpiresAt) {
		return false, nil
	}
	rc.Status = models.ReferralCodeStatusUsed
	rc.AssociatedUser = &userID
	return true, nil
}

func (f *fakeReferralRepo) ExpireStale(_ *gorm.DB) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, rc := range f.byCode {
		if rc.Status == models.ReferralCodeStatusActive && !time.Now().Before(rc.ExpiresAt) {
			rc.Status = models.ReferralCodeStatusExpired
			count++
		}
	}
	return count, nil
}

// --- settings ---

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings models.AppSettings
}

func newFakeSettingsRepo(mode models.ApplicationMode) *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: models.AppSettings{ApplicationMode: mode}}
}

func (f *fakeSettingsRepo) Get(_ *gorm.DB) (*models.AppSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := f.settings
	return &cp, nil
}

func (f *fakeSettingsRepo) UpdateMode(_ *gorm.DB, mode models.ApplicationMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings.ApplicationMode = mode
	return nil
}

// --- notifications ---

type fakeNotifier struct {
	mu            sync.Mutex
	newSubmission int
	reviewDone    int
}

func (f *fakeNotifier) NotifyNewSubmission(context.Context, *gorm.DB, *models.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newSubmission++
}

func (f *fakeNotifier) NotifyReviewCompleted(context.Context, *gorm.DB, *models.Submission, *models.Review) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewDone++
}

// --- payment provider ---

type fakeCheckoutProvider struct {
	mu       sync.Mutex
	sessions int
	fail     error
	lastMeta map[string]string
}

func (f *fakeCheckoutProvider) CreateCheckoutSession(_ context.Context, params payments.CheckoutParams) (*payments.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.sessions++
	f.lastMeta = params.Metadata
	id := fmt.Sprintf("cs_test_%d", f.sessions)
	return &payments.CheckoutSession{
		ID:              id,
		URL:             "https://checkout.example.com/" + id,
		PaymentIntentID: fmt.Sprintf("pi_test_%d", f.sessions),
	}, nil
}

func (f *fakeCheckoutProvider) VerifyWebhook(payload []byte, signatureHeader string) (*payments.Event, error) {
	return nil, fmt.Errorf("not used in tests")
}
