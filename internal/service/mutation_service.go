package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/dto"
	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// AuditRecorder persists the local mutation trail. A nil recorder disables
// auditing.
type AuditRecorder interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
}

// MutationService submits money-moving operations: transfers into a selected
// party's wallet, reverts out of it, and fund requests towards the admin.
// One submission per actor may be in flight at a time, and every submission
// works against the party selected through the coordinator, never a raw ID
// from the request body.
type MutationService struct {
	client    *upstream.Client
	wallets   *WalletService
	selection *SelectionService
	audit     AuditRecorder
	validate  *validator.Validate
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewMutationService constructs a MutationService.
func NewMutationService(client *upstream.Client, wallets *WalletService, selection *SelectionService, audit AuditRecorder, logger *zap.Logger) *MutationService {
	return &MutationService{
		client:    client,
		wallets:   wallets,
		selection: selection,
		audit:     audit,
		validate:  validator.New(),
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// acquire takes the actor's submission latch. While held, further
// submissions by the same actor are rejected instead of queued, mirroring a
// disabled submit button.
func (s *MutationService) acquire(actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[actorID]; busy {
		return appErrors.ErrSubmissionActive
	}
	s.inFlight[actorID] = struct{}{}
	return nil
}

func (s *MutationService) release(actorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, actorID)
}

// parsePositiveAmount accepts the amount as entered and requires it to be a
// number strictly greater than zero.
func parsePositiveAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "amount must be a number")
	}
	if v <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "amount must be greater than zero")
	}
	return v, nil
}

// validateTarget checks that this role may move money for this target kind.
// Only a master distributor touches distributor wallets.
func validateTarget(role models.Role, targetType string) error {
	if targetType == dto.TargetDistributor && role != models.RoleMaster {
		return appErrors.Clone(appErrors.ErrForbidden, "only a master distributor can fund or revert a distributor")
	}
	return nil
}

// checkSession rejects a session that lapsed between the middleware guard
// and the money move itself.
func checkSession(sess *models.Session) error {
	if sess.Expired(time.Now()) {
		return appErrors.ErrAuthExpired
	}
	return nil
}

// targetParty resolves which wallet the mutation works against: the picked
// distributor itself for a distributor target, the selected leaf party for a
// retailer target. The ID never comes from the request body.
func (s *MutationService) targetParty(ctx context.Context, sess *models.Session, targetType string) (*models.Party, error) {
	if targetType == dto.TargetDistributor {
		return s.selection.SelectedParent(ctx, sess.ActorID)
	}
	return s.selection.SelectedChild(ctx, sess.ActorID)
}

// Transfer funds the targeted party's wallet: the selected leaf for a
// retailer target, the picked distributor itself for a distributor target.
func (s *MutationService) Transfer(ctx context.Context, token string, sess *models.Session, req dto.TransferRequest) (*dto.MutationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transfer payload")
	}
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	if err := validateTarget(sess.Role, req.TargetType); err != nil {
		return nil, err
	}
	if _, err := parsePositiveAmount(req.Amount); err != nil {
		return nil, err
	}

	if err := s.acquire(sess.ActorID); err != nil {
		return nil, err
	}
	defer s.release(sess.ActorID)

	target, err := s.targetParty(ctx, sess, req.TargetType)
	if err != nil {
		return nil, err
	}

	ep := upstream.ForRole(sess.Role)
	path := ep.FundRetailer()
	if req.TargetType == dto.TargetDistributor {
		path = ep.FundDistributor()
	}

	payload := map[string]string{
		"phone_number":    target.Phone,
		"amount":          req.Amount,
		ep.ActorIDField(): sess.ActorID,
	}

	msg, err := s.client.Post(ctx, token, path, payload, nil)
	s.record(ctx, sess, models.AuditActionTransfer, target.Phone, req.Amount, err, msg)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, sess)
	if msg == "" {
		msg = "transfer accepted"
	}
	return &dto.MutationResult{Action: models.AuditActionTransfer, Message: msg}, nil
}

// Revert pulls funds back out of the targeted party's wallet. The amount is
// checked against that party's last known balance before any upstream call;
// the upstream ledger remains the final authority.
func (s *MutationService) Revert(ctx context.Context, token string, sess *models.Session, req dto.RevertRequest) (*dto.MutationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid revert payload")
	}
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	if err := validateTarget(sess.Role, req.TargetType); err != nil {
		return nil, err
	}
	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(sess.ActorID); err != nil {
		return nil, err
	}
	defer s.release(sess.ActorID)

	target, err := s.targetParty(ctx, sess, req.TargetType)
	if err != nil {
		return nil, err
	}

	if amount > target.WalletBalance {
		return nil, appErrors.Clone(appErrors.ErrInsufficientFunds,
			fmt.Sprintf("revert amount %s exceeds the party's balance of %.2f", req.Amount, target.WalletBalance))
	}

	ep := upstream.ForRole(sess.Role)
	path := ep.RefundRetailer()
	if req.TargetType == dto.TargetDistributor {
		path = ep.RefundDistributor()
	}

	payload := map[string]string{
		"phone_number":    target.Phone,
		"amount":          req.Amount,
		ep.ActorIDField(): sess.ActorID,
	}

	msg, err := s.client.Post(ctx, token, path, payload, nil)
	s.record(ctx, sess, models.AuditActionRevert, target.Phone, req.Amount, err, msg)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, sess)
	if msg == "" {
		msg = "revert accepted"
	}
	return &dto.MutationResult{Action: models.AuditActionRevert, Message: msg}, nil
}

// CreateFundRequest raises a wallet top-up request towards the admin. The
// requester identity comes from the session, never from the request body.
func (s *MutationService) CreateFundRequest(ctx context.Context, token string, sess *models.Session, req dto.FundRequestCreate) (*dto.MutationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fund request payload")
	}
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	if _, err := parsePositiveAmount(req.Amount); err != nil {
		return nil, err
	}

	if err := s.acquire(sess.ActorID); err != nil {
		return nil, err
	}
	defer s.release(sess.ActorID)

	ep := upstream.ForRole(sess.Role)
	payload := map[string]string{
		"admin_id":            sess.AdminID,
		"requester_id":        sess.ActorID,
		"requester_unique_id": sess.ActorUniqueID,
		"requester_name":      sess.ActorName,
		"requester_type":      sess.Role.RequesterType(),
		"amount":              req.Amount,
		"bank_name":           req.BankName,
		"account_number":      req.AccountNumber,
		"ifsc_code":           req.IFSCCode,
		"bank_branch":         req.BankBranch,
		"utr_number":          req.UTRNumber,
		"remarks":             req.Remarks,
		"request_status":      models.FundRequestPending,
	}

	msg, err := s.client.Post(ctx, token, ep.CreateFundRequest(), payload, nil)
	s.record(ctx, sess, models.AuditActionFundRequest, "", req.Amount, err, msg)
	if err != nil {
		return nil, err
	}

	if msg == "" {
		msg = "fund request submitted"
	}
	return &dto.MutationResult{Action: models.AuditActionFundRequest, Message: msg}, nil
}

// afterMutation invalidates exactly the state a money move dirties: the
// actor's cached balance and the selection slot holding stale party
// balances.
func (s *MutationService) afterMutation(ctx context.Context, sess *models.Session) {
	s.wallets.InvalidateBalance(ctx, sess.Role, sess.ActorID)
	if err := s.selection.Reset(ctx, sess.ActorID); err != nil {
		s.logger.Warn("selection reset failed after mutation",
			zap.String("actor_id", sess.ActorID), zap.Error(err))
	}
}

// record writes the audit entry. Audit failures are logged, never surfaced.
func (s *MutationService) record(ctx context.Context, sess *models.Session, action, phone, amount string, submitErr error, msg string) {
	if s.audit == nil {
		return
	}
	message := msg
	if submitErr != nil {
		message = submitErr.Error()
	}
	entry := &models.AuditEntry{
		ID:          uuid.NewString(),
		ActorID:     sess.ActorID,
		ActorRole:   string(sess.Role),
		Action:      action,
		TargetPhone: phone,
		Amount:      amount,
		Succeeded:   submitErr == nil,
		Message:     message,
		RequestID:   requestIDFromContext(ctx),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.logger.Warn("audit insert failed", zap.String("action", action), zap.Error(err))
	}
}

type contextKey string

// RequestIDContextKey carries the inbound request ID into services.
const RequestIDContextKey contextKey = "request_id"

func requestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return v
	}
	return ""
}
