package workflow

import (
	"context"
	"errors"
	"sync"

	"fuelpay-terminal/internal/api"
	"fuelpay-terminal/internal/cache"
	"fuelpay-terminal/internal/models"
	"fuelpay-terminal/internal/monitoring"
	"fuelpay-terminal/internal/token"
)

// Stage is the current step of the purchase/dispense sequence
type Stage int

const (
	StageAmountEntry Stage = iota
	StagePINConfirm
	StageFuelToken
	StageDispenseToken
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageAmountEntry:
		return "amount-entry"
	case StagePINConfirm:
		return "pin-confirm"
	case StageFuelToken:
		return "fuel-token"
	case StageDispenseToken:
		return "dispense-token"
	case StageComplete:
		return "complete"
	}
	return "unknown"
}

var (
	// ErrWrongStage means the operation does not belong to the current stage
	ErrWrongStage = errors.New("operation not valid in current stage")
	// ErrSubmitInFlight means a submission for this workflow is already pending
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// Purchase drives the attendant-side fuel purchase and dispensing sequence.
// Stage order is fixed: amount entry, PIN confirmation, fuel-token
// verification, dispense-token redemption. A dispense token can never be
// submitted before its fuel token verified. Validation failures never reach
// the network, and a failed submission keeps the entered values so the
// attendant can correct and retry.
type Purchase struct {
	api   *api.Client
	cache cache.TransactionCache

	mu         sync.Mutex
	stage      Stage
	submitting bool

	amount        float64
	walletID      string
	fuelToken     string
	dispenseToken string
	service       token.Service
	payment       *models.Payment
}

// NewPurchase starts a full purchase workflow at amount entry
func NewPurchase(client *api.Client, c cache.TransactionCache) *Purchase {
	return &Purchase{api: client, cache: c, stage: StageAmountEntry}
}

// NewDispense starts a dispense-only workflow at fuel-token entry, for
// customers who already paid
func NewDispense(client *api.Client, c cache.TransactionCache) *Purchase {
	return &Purchase{api: client, cache: c, stage: StageFuelToken}
}

// Stage returns the current stage
func (p *Purchase) Stage() Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stage
}

// Payment returns the payment record of a completed workflow
func (p *Purchase) Payment() *models.Payment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payment
}

// FuelToken returns the currently entered or scanned fuel token
func (p *Purchase) FuelToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fuelToken
}

// DispenseToken returns the scanned dispense token held for redemption
func (p *Purchase) DispenseToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dispenseToken
}

// SubmitAmount records the purchase amount and wallet id and advances to PIN
// confirmation. No network call is made.
func (p *Purchase) SubmitAmount(amount float64, walletID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stage != StageAmountEntry {
		return ErrWrongStage
	}
	if err := token.ValidateAmount(amount); err != nil {
		return err
	}
	if err := token.ValidateWalletID(walletID); err != nil {
		return err
	}

	p.amount = amount
	p.walletID = walletID
	p.stage = StagePINConfirm
	return nil
}

// Back returns from PIN confirmation to amount entry, keeping entered values
func (p *Purchase) Back() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stage != StagePINConfirm {
		return ErrWrongStage
	}
	p.stage = StageAmountEntry
	return nil
}

// ConfirmPIN submits the purchase. On success the payment record is cached
// under the transaction key; the next stage is fuel-token entry unless the
// station skips dispense-token verification, in which case the workflow
// completes immediately.
func (p *Purchase) ConfirmPIN(ctx context.Context, pin string) error {
	p.mu.Lock()
	if p.stage != StagePINConfirm {
		p.mu.Unlock()
		return ErrWrongStage
	}
	if err := token.ValidatePIN(pin); err != nil {
		p.mu.Unlock()
		return err
	}
	normalized, err := token.NormalizeWalletID(p.walletID)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if err := p.beginSubmit(); err != nil {
		p.mu.Unlock()
		return err
	}
	amount := p.amount
	p.mu.Unlock()
	defer p.endSubmit()

	resp, err := p.api.BuyFuel(ctx, models.BuyFuelRequest{
		WalletID: normalized,
		Amount:   amount,
		PIN:      pin,
	})
	if err != nil {
		// Stage stays at PIN confirmation for retry
		return err
	}

	p.mu.Lock()
	p.payment = &resp.Payments
	if resp.Settings.IgnoreDispenseToken {
		p.stage = StageComplete
	} else {
		p.stage = StageFuelToken
	}
	done := p.stage == StageComplete
	payment := p.payment
	p.mu.Unlock()

	if err := p.cache.Put(ctx, cache.TransactionKey, payment); err != nil {
		return err
	}
	if done {
		monitoring.WorkflowCompletions.WithLabelValues("purchase").Inc()
	}
	return nil
}

// ApplyScan feeds a scanned token QR payload into the workflow: the fuel
// token becomes the pending verification input and the dispense token is
// held for the redemption stage. An invalid payload mutates nothing.
func (p *Purchase) ApplyScan(payload string) error {
	scanned, err := token.DecodeScan(payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stage != StageFuelToken {
		return ErrWrongStage
	}
	p.fuelToken = scanned.FuelToken
	p.dispenseToken = scanned.DispenseToken
	return nil
}

// SubmitFuelToken verifies the fuel token and advances to dispense-token
// entry. An empty code submits the previously scanned token.
func (p *Purchase) SubmitFuelToken(ctx context.Context, code string) error {
	p.mu.Lock()
	if p.stage != StageFuelToken {
		p.mu.Unlock()
		return ErrWrongStage
	}
	if code == "" {
		code = p.fuelToken
	}
	if err := token.ValidateFuelToken(code); err != nil {
		p.mu.Unlock()
		return err
	}
	if err := p.beginSubmit(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()
	defer p.endSubmit()

	if err := p.api.VerifyFuelToken(ctx, models.VerifyFuelTokenRequest{FuelToken: code}); err != nil {
		return err
	}

	p.mu.Lock()
	p.fuelToken = code
	p.stage = StageDispenseToken
	p.mu.Unlock()
	return nil
}

// SubmitDispenseToken redeems the dispense token for the selected service
// and completes the workflow. An empty code submits the previously scanned
// token.
func (p *Purchase) SubmitDispenseToken(ctx context.Context, code string, svc token.Service) error {
	p.mu.Lock()
	if p.stage != StageDispenseToken {
		p.mu.Unlock()
		return ErrWrongStage
	}
	if code == "" {
		code = p.dispenseToken
	}
	if err := token.ValidateDispenseToken(code, svc); err != nil {
		p.mu.Unlock()
		return err
	}
	if err := p.beginSubmit(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()
	defer p.endSubmit()

	resp, err := p.api.Dispense(ctx, models.DispenseRequest{
		DispenseToken: code,
		Service:       string(svc),
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.dispenseToken = code
	p.service = svc
	p.payment = &resp.Payments
	p.stage = StageComplete
	payment := p.payment
	p.mu.Unlock()

	if err := p.cache.Put(ctx, cache.TransactionKey, payment); err != nil {
		return err
	}
	monitoring.WorkflowCompletions.WithLabelValues("dispense").Inc()
	return nil
}

// Abandon evicts the cached transaction record; called when the attendant
// leaves the confirmation screen for home
func (p *Purchase) Abandon(ctx context.Context) error {
	return p.cache.Evict(ctx, cache.TransactionKey)
}

// beginSubmit guards against double submission; callers must hold p.mu
func (p *Purchase) beginSubmit() error {
	if p.submitting {
		return ErrSubmitInFlight
	}
	p.submitting = true
	return nil
}

func (p *Purchase) endSubmit() {
	p.mu.Lock()
	p.submitting = false
	p.mu.Unlock()
}
