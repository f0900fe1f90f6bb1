package advice

import (
	"context"
	"errors"
)

var (
	ErrRateLimited   = errors.New("advice provider rate limited the request")
	ErrQuotaExceeded = errors.New("advice provider quota exceeded")
	ErrUnavailable   = errors.New("advice provider unavailable")
	ErrNotConfigured = errors.New("advice provider not configured")
)

// Advisor sends one system instruction and one user message to a language
// model and returns its reply.
type Advisor interface {
	Advise(ctx context.Context, system, user string) (string, error)
}

const SystemPrompt = `당신은 대한민국 노동법 전문 법률 자문가입니다. 사용자가 작성한 근로계약서를 분석하고 다음 관점에서 조언을 제공해주세요:

1. **법적 적합성**: 근로기준법에 맞게 작성되었는지 확인
2. **필수 기재사항**: 누락된 중요 항목이 있는지 체크
3. **근로자 보호**: 근로자의 권리가 충분히 보장되는지 검토
4. **개선 제안**: 더 명확하거나 공정하게 수정할 부분 제안

응답은 친절하고 이해하기 쉬운 한국어로 작성해주세요.
중요한 법적 문제가 있다면 ⚠️ 표시와 함께 강조해주세요.
좋은 점이 있다면 ✅ 표시와 함께 알려주세요.`

// FallbackAdvice is returned when the provider answers with no text.
const FallbackAdvice = "조언을 생성할 수 없습니다."

// Disabled is used when no provider is configured.
type Disabled struct{}

func (Disabled) Advise(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}
