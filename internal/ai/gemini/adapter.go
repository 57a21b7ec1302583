package gemini

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/fundihub/fundihub/internal/ai/schema"
	"github.com/fundihub/fundihub/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultMaxLogLength = 200

// structuredGenerator is the consumer-side view of the Generator, kept small
// so flows can be tested with a fixed-response substitute.
type structuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, out *genai.Schema) (string, error)
	Model() string
}

// adapter is the single integration point with the generative model. Every
// model call made by this package goes through invoke; no other component
// talks to the generator.
type adapter struct {
	generator structuredGenerator
	logger    *zap.Logger
	maxLogLen int
}

func newAdapter(generator structuredGenerator, log *zap.Logger, maxLogLength int) *adapter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &adapter{
		generator: generator,
		logger:    logger.WithCommonFields(log, providerName, model),
		maxLogLen: maxLogLength,
	}
}

// invoke sends the prompt, parses the reply and validates it against the
// flow's output schema. It returns the validated raw JSON, or ok=false when no
// schema-conformant output was obtained. Transport failures, empty replies and
// non-conformant replies are deliberately not distinguished: all collapse to
// "no usable result", and the calling flow decides what that means.
func (a *adapter) invoke(ctx context.Context, flow flowSpec, prompt string) ([]byte, bool) {
	a.logger.Debug("model invocation request",
		zap.String("flow", flow.name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateStructured(ctx, prompt, flow.output)
	if err != nil {
		a.logger.Warn("model call yielded no output",
			zap.String("flow", flow.name),
			zap.Error(err),
		)
		return nil, false
	}

	a.logger.Debug("model invocation response",
		zap.String("flow", flow.name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	cleaned := extractJSON(raw)

	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		a.logger.Warn("model output is not valid json",
			zap.String("flow", flow.name),
			zap.Error(err),
		)
		return nil, false
	}

	if err := schema.Validate(flow.output, value); err != nil {
		a.logger.Warn("model output failed schema validation",
			zap.String("flow", flow.name),
			zap.Error(err),
		)
		return nil, false
	}

	return []byte(cleaned), true
}

// extractJSON strips markdown code fences some models wrap around JSON even
// when a JSON response type was requested.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
