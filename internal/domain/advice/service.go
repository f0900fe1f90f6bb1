package advice

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"laborcontract/internal/domain/contract"
)

type Result struct {
	ContractID string `json:"contractId"`
	Summary    string `json:"summary"`
	Advice     string `json:"advice"`
}

type Service struct {
	Advisor Advisor
	Timeout time.Duration
}

func NewService(advisor Advisor, timeout time.Duration) *Service {
	if advisor == nil {
		advisor = Disabled{}
	}
	return &Service{Advisor: advisor, Timeout: timeout}
}

func UserPrompt(summary string) string {
	return "다음 근로계약서를 분석하고 법적 조언을 해주세요:\n" + summary
}

// Advise asks the configured provider to review the contract.
func (s *Service) Advise(ctx context.Context, c contract.Contract) (Result, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	summary := Summary(c)
	started := time.Now()
	text, err := s.Advisor.Advise(ctx, SystemPrompt, UserPrompt(summary))
	if err != nil {
		zap.L().Warn("contract advice failed", zap.String("contract_id", c.ID), zap.Error(err))
		return Result{}, err
	}
	if strings.TrimSpace(text) == "" {
		text = FallbackAdvice
	}
	zap.L().Debug("contract advice generated",
		zap.String("contract_id", c.ID),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("length", len(text)))
	return Result{ContractID: c.ID, Summary: summary, Advice: text}, nil
}
