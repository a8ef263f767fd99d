package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/fees"
)

const serviceName = "BridgeService"

// logService wraps Service with a log line per call
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the bridge Service.
// Mutating calls log at info, reads at debug; every failure logs at error.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{svc: svc, logger: logger}
}

func (ls *logService) done(method string, start time.Time, err error, level func(string, ...zap.Field), fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	level(method+" completed", fields...)
}

func (ls *logService) CreateDeposit(ctx context.Context, req *CreateDepositRequest) (resp *DepositResponse, err error) {
	defer func(start time.Time) {
		fields := []zap.Field{
			zap.String("destination", req.DestinationAddress),
			zap.String("amount", req.Amount.String()),
			zap.String("fee_model", string(req.FeeModel)),
		}
		if resp != nil {
			fields = append(fields,
				zap.String("deposit_id", resp.Deposit.ID),
				zap.String("deposit_address", resp.Deposit.DepositAddress))
		}
		ls.done("CreateDeposit", start, err, ls.logger.Info, fields...)
	}(time.Now())
	return ls.svc.CreateDeposit(ctx, req)
}

func (ls *logService) GetDeposit(ctx context.Context, id string) (resp *DepositResponse, err error) {
	defer func(start time.Time) {
		ls.done("GetDeposit", start, err, ls.logger.Debug, zap.String("deposit_id", id))
	}(time.Now())
	return ls.svc.GetDeposit(ctx, id)
}

func (ls *logService) CreateGasPayment(ctx context.Context, depositID string) (resp *bridge.GasPaymentIntent, err error) {
	defer func(start time.Time) {
		fields := []zap.Field{zap.String("deposit_id", depositID)}
		if resp != nil {
			fields = append(fields,
				zap.String("gas_payment_id", resp.ID),
				zap.String("gas_address", resp.GasAddress))
		}
		ls.done("CreateGasPayment", start, err, ls.logger.Info, fields...)
	}(time.Now())
	return ls.svc.CreateGasPayment(ctx, depositID)
}

func (ls *logService) CreateReturn(ctx context.Context, req *CreateReturnRequest) (resp *ReturnResponse, err error) {
	defer func(start time.Time) {
		fields := []zap.Field{
			zap.String("source", req.SourceAddress),
			zap.String("destination", req.DestinationAddress),
			zap.String("amount", req.Amount.String()),
		}
		if resp != nil {
			fields = append(fields,
				zap.String("return_id", resp.Return.ID),
				zap.String("deposit_address", resp.Return.DepositAddress))
		}
		ls.done("CreateReturn", start, err, ls.logger.Info, fields...)
	}(time.Now())
	return ls.svc.CreateReturn(ctx, req)
}

func (ls *logService) GetReturn(ctx context.Context, id string) (resp *ReturnResponse, err error) {
	defer func(start time.Time) {
		ls.done("GetReturn", start, err, ls.logger.Debug, zap.String("return_id", id))
	}(time.Now())
	return ls.svc.GetReturn(ctx, id)
}

func (ls *logService) GetStatus(ctx context.Context, identity string) (resp *bridge.UserRecords, err error) {
	defer func(start time.Time) {
		ls.done("GetStatus", start, err, ls.logger.Debug, zap.String("identity", identity))
	}(time.Now())
	return ls.svc.GetStatus(ctx, identity)
}

func (ls *logService) EstimateFees(ctx context.Context, req *EstimateRequest) (resp *fees.Quote, err error) {
	defer func(start time.Time) {
		ls.done("EstimateFees", start, err, ls.logger.Debug,
			zap.String("direction", req.Direction),
			zap.String("amount", req.Amount.String()))
	}(time.Now())
	return ls.svc.EstimateFees(ctx, req)
}

func (ls *logService) FeeConfig(ctx context.Context) (resp *fees.Schedule, err error) {
	defer func(start time.Time) {
		ls.done("FeeConfig", start, err, ls.logger.Debug)
	}(time.Now())
	return ls.svc.FeeConfig(ctx)
}

func (ls *logService) GasOptions(ctx context.Context, operation string) (resp *fees.GasOptions, err error) {
	defer func(start time.Time) {
		ls.done("GasOptions", start, err, ls.logger.Debug, zap.String("operation", operation))
	}(time.Now())
	return ls.svc.GasOptions(ctx, operation)
}

func (ls *logService) BridgeConfig(ctx context.Context) (resp *BridgeInfo, err error) {
	defer func(start time.Time) {
		ls.done("BridgeConfig", start, err, ls.logger.Debug)
	}(time.Now())
	return ls.svc.BridgeConfig(ctx)
}

func (ls *logService) ListFailed(ctx context.Context, limit int) (resp *FailedRecords, err error) {
	defer func(start time.Time) {
		fields := []zap.Field{zap.Int("limit", limit)}
		if resp != nil {
			fields = append(fields,
				zap.Int("deposits", len(resp.Deposits)),
				zap.Int("releases", len(resp.Releases)))
		}
		ls.done("ListFailed", start, err, ls.logger.Info, fields...)
	}(time.Now())
	return ls.svc.ListFailed(ctx, limit)
}
